package types

// RefreshSnapshot is a point-in-time view of the refresh coordinator,
// served to the UI for polling.
type RefreshSnapshot struct {
	Refreshing  bool   `json:"refreshing"`
	Progress    int    `json:"progress"`
	OperationID string `json:"operationId,omitempty"`
}

// RefreshReadyResponse is the backend reply to GET /api/refresh/ready.
type RefreshReadyResponse struct {
	Ready  bool   `json:"ready"`
	Reason string `json:"reason,omitempty"`
}
