package main

import "github.com/aussiebroadwan/gradebook/internal/cli"

func main() {
	cli.Execute()
}
