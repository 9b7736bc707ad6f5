package types

// UploadCategory partitions uploaded source material by modality.
type UploadCategory string

const (
	CategoryText  UploadCategory = "text"
	CategoryVideo UploadCategory = "video"
	CategoryVoice UploadCategory = "voice"
)

// Categories lists every valid upload category.
var Categories = []UploadCategory{CategoryText, CategoryVideo, CategoryVoice}

// ValidCategory reports whether s names a known upload category.
func ValidCategory(s string) bool {
	switch UploadCategory(s) {
	case CategoryText, CategoryVideo, CategoryVoice:
		return true
	}
	return false
}

// UploadedFileRecord is the coordinator's bookkeeping entry for one
// successful upload: the name the user saw and the name the backend stored.
type UploadedFileRecord struct {
	Name    string `json:"name"`
	SavedAs string `json:"savedAs"`
}

// UploadedFile is one entry of the backend upload response.
type UploadedFile struct {
	ID           string   `json:"id"`
	OriginalName string   `json:"original_name"`
	SavedAs      string   `json:"saved_as"`
	FileType     string   `json:"file_type"`
	DetectedType string   `json:"detected_type,omitempty"`
	Participants []string `json:"participants,omitempty"`
	Subject      string   `json:"subject,omitempty"`
	Size         int64    `json:"size,omitempty"`
}

// RejectedFile is one entry of the backend upload response for files the
// backend refused (bad extension, duplicate content).
type RejectedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ZipConversation is one conversation discovered inside an uploaded chat
// export archive, offered to the user for selection.
type ZipConversation struct {
	FolderName   string   `json:"folder_name"`
	DisplayName  string   `json:"display_name"`
	Participants []string `json:"participants,omitempty"`
	MessageCount int      `json:"message_count,omitempty"`
}

// UploadResponse is the backend reply to POST /api/files/{type}.
// SavedAs is the flat shape; Uploaded carries the per-file detail the
// backend emits for batch uploads. For a text-category chat export
// archive the backend stores nothing yet and instead replies with a
// zip type, a zip_id and the conversations found inside.
type UploadResponse struct {
	Success       bool              `json:"success"`
	SavedAs       string            `json:"saved_as,omitempty"`
	Type          string            `json:"type,omitempty"`
	ZipID         string            `json:"zip_id,omitempty"`
	Conversations []ZipConversation `json:"conversations,omitempty"`
	Uploaded      []UploadedFile    `json:"uploaded,omitempty"`
	Rejected      []RejectedFile    `json:"rejected,omitempty"`
}

// PendingSelection reports whether the backend parked the upload as an
// archive whose conversations must be selected before anything is stored.
func (r *UploadResponse) PendingSelection() bool {
	return r.Type == "zip_upload" || r.Type == "discord_zip_upload"
}

// ZipSelectRequest is the body of POST /api/files/text/zip/select.
// Conversations holds the folder names the user picked.
type ZipSelectRequest struct {
	ZipID         string   `json:"zip_id"`
	Conversations []string `json:"conversations"`
}

// FileListResponse is the backend reply to GET /api/files/{type}.
type FileListResponse struct {
	Files []UploadedFile `json:"files"`
	Count int            `json:"count"`
}
