package types

// Notification types pushed to the web UI over the notify hub.
const (
	NotifyTypeUploadStart     = "upload_start"
	NotifyTypeUploadDone      = "upload_done"
	NotifyTypeUploadFailed    = "upload_failed"
	NotifyTypeUploadPending   = "upload_pending"
	NotifyTypeRefreshStart    = "refresh_start"
	NotifyTypeRefreshProgress = "refresh_progress"
	NotifyTypeRefreshDone     = "refresh_done"
	NotifyTypeRefreshFailed   = "refresh_failed"
)

// Notification represents a notification message structure
type Notification struct {
	Type    string         `json:"type,omitempty"`
	Title   string         `json:"title,omitempty"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}
