// Package gradesdk is a small HTTP client for a running gradebook server.
//
// It only covers the unauthenticated probe endpoints. The records surface is
// bound to the browser that signed in and is not reachable through this client.
package gradesdk
