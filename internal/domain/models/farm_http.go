package models

// FarmRequest is the query of GET /. Pools overrides the configured active pool ids.
type FarmRequest struct {
	Pools string `query:"pools" json:"pools" validate:"omitempty,max=512"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Farm   string `json:"farm"`
}
