package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/nulltale/nulltale-go/gateway"
	"github.com/nulltale/nulltale-go/tool"
	"github.com/nulltale/nulltale-go/types"
)

// Status is the tagged upload state of one category.
type Status int

const (
	StatusIdle Status = iota
	StatusInFlight
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusInFlight:
		return "in_flight"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

var (
	ErrInvalidCategory = errors.New("invalid upload category")
	// ErrUploadInFlight is returned when a second upload is started for a
	// category whose previous upload has not settled yet.
	ErrUploadInFlight = errors.New("upload already in flight for this category")
)

// categoryState is the per-category bookkeeping. Records are append-only;
// lastError holds the most recent failure message and is cleared at the
// start of every new attempt.
type categoryState struct {
	status    Status
	records   []types.UploadedFileRecord
	lastError string
}

// Coordinator accepts one file at a time per category, submits it to the
// backend gateway and records the outcome. State is keyed by category, so
// uploads in different categories never interfere.
type Coordinator struct {
	gateway *gateway.Client
	notify  func(*types.Notification)

	mu     sync.Mutex
	states map[types.UploadCategory]*categoryState
}

// NewCoordinator creates an upload coordinator on top of the gateway.
func NewCoordinator(gw *gateway.Client) *Coordinator {
	states := make(map[types.UploadCategory]*categoryState, len(types.Categories))
	for _, cat := range types.Categories {
		states[cat] = &categoryState{}
	}
	return &Coordinator{
		gateway: gw,
		states:  states,
	}
}

// SetNotifier installs a callback invoked for upload lifecycle events.
func (c *Coordinator) SetNotifier(notify func(*types.Notification)) {
	c.notify = notify
}

func (c *Coordinator) sendNotification(n *types.Notification) {
	if c.notify != nil {
		c.notify(n)
	}
}

// Outcome describes how an upload settled: a stored record, or an archive
// parked for conversation selection before anything is stored.
type Outcome struct {
	Record        *types.UploadedFileRecord
	Type          string
	ZipID         string
	Conversations []types.ZipConversation
}

// AwaitingSelection reports whether the upload is parked on conversation
// selection.
func (o *Outcome) AwaitingSelection() bool {
	return o.ZipID != ""
}

// Upload submits a single file for a category. On success the record
// {name, savedAs} is appended to the category's list and any prior error is
// cleared; on failure the list is unchanged and the error message is set to
// "Failed to upload <name>". The in-flight state is always released when
// the attempt settles. Notifications go out only after the state has
// settled, so a slow consumer never holds the bookkeeping lock.
func (c *Coordinator) Upload(ctx context.Context, category types.UploadCategory, fileName string, data io.Reader) (*Outcome, error) {
	c.mu.Lock()
	st, ok := c.states[category]
	if !ok {
		c.mu.Unlock()
		return nil, ErrInvalidCategory
	}
	if st.status == StatusInFlight {
		c.mu.Unlock()
		return nil, ErrUploadInFlight
	}
	// A new attempt clears the previous error before it resolves.
	st.lastError = ""
	st.status = StatusInFlight
	c.mu.Unlock()

	opID := tool.GenerateShortOperationID()
	c.sendNotification(&types.Notification{
		Type:    types.NotifyTypeUploadStart,
		Message: fmt.Sprintf("Uploading %s", fileName),
		Data:    map[string]any{"operationId": opID, "category": string(category), "name": fileName},
	})

	resp, err := c.gateway.UploadFile(ctx, category, fileName, data)

	if err == nil && resp.PendingSelection() {
		// Nothing is stored yet; the attempt settles and the UI drives the
		// conversation selection step.
		c.mu.Lock()
		st.status = StatusIdle
		c.mu.Unlock()
		tool.DefaultLogger.Infof("Upload of %s parked for conversation selection (%d found)", fileName, len(resp.Conversations))
		c.sendNotification(&types.Notification{
			Type:    types.NotifyTypeUploadPending,
			Message: fmt.Sprintf("Select conversations to import from %s", fileName),
			Data:    map[string]any{"operationId": opID, "category": string(category), "name": fileName, "zipId": resp.ZipID},
		})
		return &Outcome{Type: resp.Type, ZipID: resp.ZipID, Conversations: resp.Conversations}, nil
	}

	savedAs := ""
	if err == nil {
		savedAs = savedAsFromResponse(resp)
		if savedAs == "" {
			err = fmt.Errorf("upload response missing saved_as")
		}
	}

	if err != nil {
		c.mu.Lock()
		st.status = StatusFailed
		st.lastError = fmt.Sprintf("Failed to upload %s", fileName)
		message := st.lastError
		c.mu.Unlock()
		tool.DefaultLogger.Errorf("Upload failed for %s (%s): %v", fileName, category, err)
		c.sendNotification(&types.Notification{
			Type:    types.NotifyTypeUploadFailed,
			Message: message,
			Data:    map[string]any{"operationId": opID, "category": string(category), "name": fileName},
		})
		return nil, err
	}

	record := types.UploadedFileRecord{Name: fileName, SavedAs: savedAs}
	c.mu.Lock()
	st.records = append(st.records, record)
	st.status = StatusSucceeded
	c.mu.Unlock()
	tool.DefaultLogger.Infof("Uploaded %s as %s (%s)", fileName, savedAs, category)
	c.sendNotification(&types.Notification{
		Type:    types.NotifyTypeUploadDone,
		Message: fmt.Sprintf("Uploaded %s", fileName),
		Data:    map[string]any{"operationId": opID, "category": string(category), "name": fileName, "savedAs": savedAs},
	})
	return &Outcome{Record: &record}, nil
}

// CompleteZipSelection imports the chosen conversations of a parked
// archive into the text category. Each imported conversation becomes one
// record.
func (c *Coordinator) CompleteZipSelection(ctx context.Context, zipID string, folderNames []string) ([]types.UploadedFileRecord, error) {
	c.mu.Lock()
	st := c.states[types.CategoryText]
	if st.status == StatusInFlight {
		c.mu.Unlock()
		return nil, ErrUploadInFlight
	}
	st.lastError = ""
	st.status = StatusInFlight
	c.mu.Unlock()

	opID := tool.GenerateShortOperationID()
	resp, err := c.gateway.SelectZipConversations(ctx, zipID, folderNames)
	if err != nil {
		c.mu.Lock()
		st.status = StatusFailed
		st.lastError = "Failed to import selected conversations"
		message := st.lastError
		c.mu.Unlock()
		tool.DefaultLogger.Errorf("Conversation import failed for archive %s: %v", zipID, err)
		c.sendNotification(&types.Notification{
			Type:    types.NotifyTypeUploadFailed,
			Message: message,
			Data:    map[string]any{"operationId": opID, "category": string(types.CategoryText), "zipId": zipID},
		})
		return nil, err
	}

	imported := make([]types.UploadedFileRecord, 0, len(resp.Uploaded))
	for _, entry := range resp.Uploaded {
		savedAs := entry.SavedAs
		if savedAs == "" {
			// The backend stores each merged conversation as <id>.json.
			savedAs = entry.ID + ".json"
		}
		imported = append(imported, types.UploadedFileRecord{Name: entry.OriginalName, SavedAs: savedAs})
	}

	c.mu.Lock()
	st.records = append(st.records, imported...)
	st.status = StatusSucceeded
	c.mu.Unlock()
	tool.DefaultLogger.Infof("Imported %d conversations from archive %s", len(imported), zipID)
	c.sendNotification(&types.Notification{
		Type:    types.NotifyTypeUploadDone,
		Message: fmt.Sprintf("Imported %d conversations", len(imported)),
		Data:    map[string]any{"operationId": opID, "category": string(types.CategoryText), "zipId": zipID},
	})
	return imported, nil
}

// savedAsFromResponse prefers the flat saved_as field and falls back to the
// first uploaded entry for backends that reply with a batch shape.
func savedAsFromResponse(resp *types.UploadResponse) string {
	if resp == nil {
		return ""
	}
	if resp.SavedAs != "" {
		return resp.SavedAs
	}
	if len(resp.Uploaded) > 0 {
		return resp.Uploaded[0].SavedAs
	}
	return ""
}

// Records returns a copy of the category's append-only record list.
func (c *Coordinator) Records(category types.UploadCategory) []types.UploadedFileRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.states[category]
	if !ok {
		return nil
	}
	out := make([]types.UploadedFileRecord, len(st.records))
	copy(out, st.records)
	return out
}

// Status returns the category's current upload status.
func (c *Coordinator) Status(category types.UploadCategory) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.states[category]; ok {
		return st.status
	}
	return StatusIdle
}

// LastError returns the most recent failure message for the category, or
// empty when the last attempt succeeded or none was made.
func (c *Coordinator) LastError(category types.UploadCategory) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.states[category]; ok {
		return st.lastError
	}
	return ""
}

// InFlight reports whether an upload is currently pending for the category.
func (c *Coordinator) InFlight(category types.UploadCategory) bool {
	return c.Status(category) == StatusInFlight
}

// AnyInFlight reports whether any category has a pending upload.
func (c *Coordinator) AnyInFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, st := range c.states {
		if st.status == StatusInFlight {
			return true
		}
	}
	return false
}
