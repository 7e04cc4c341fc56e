package domain

// Default administrator seeded into an empty credential store so the first
// run always has an account able to add records.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)
