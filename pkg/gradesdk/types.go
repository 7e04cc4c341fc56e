package gradesdk

// HealthResponse is the body of the /livez and /readyz endpoints.
// Checks is only present on /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency the server needs.
type HealthChecks struct {
	Database string `json:"database"`
}
