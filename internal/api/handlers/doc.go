package handlers

// StatusResponse is the body of the health probes.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}
