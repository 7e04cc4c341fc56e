package domain

import "time"

type Credential struct {
	Username     string // primary key
	PasswordHash string // argon2id PHC string
	Role         Role
	CreatedAt    time.Time
}
