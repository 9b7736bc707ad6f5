package upload

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nulltale/nulltale-go/gateway"
	"github.com/nulltale/nulltale-go/types"
)

func newTestCoordinator(t *testing.T, handler http.HandlerFunc) (*Coordinator, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewCoordinator(gateway.NewClient(server.URL)), server
}

func savedAsHandler(savedAs string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"saved_as":"` + savedAs + `"}`))
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("Condition not met before deadline")
}

// TestUploadSuccessAppendsRecord tests that uploading notes.txt to text
// with saved_as notes_abc123.txt yields exactly one record
// {notes.txt, notes_abc123.txt}.
func TestUploadSuccessAppendsRecord(t *testing.T) {
	coordinator, _ := newTestCoordinator(t, savedAsHandler("notes_abc123.txt"))

	outcome, err := coordinator.Upload(context.Background(), types.CategoryText, "notes.txt", strings.NewReader("notes"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if outcome.Record == nil || outcome.Record.Name != "notes.txt" || outcome.Record.SavedAs != "notes_abc123.txt" {
		t.Errorf("Unexpected record: %+v", outcome.Record)
	}

	records := coordinator.Records(types.CategoryText)
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0].Name != "notes.txt" || records[0].SavedAs != "notes_abc123.txt" {
		t.Errorf("Unexpected record list entry: %+v", records[0])
	}
	if coordinator.LastError(types.CategoryText) != "" {
		t.Errorf("Expected empty error after success, got %q", coordinator.LastError(types.CategoryText))
	}
	if coordinator.Status(types.CategoryText) != StatusSucceeded {
		t.Errorf("Expected succeeded status, got %v", coordinator.Status(types.CategoryText))
	}
}

// TestUploadOrderPreserved tests that records append in upload order.
func TestUploadOrderPreserved(t *testing.T) {
	n := 0
	coordinator, _ := newTestCoordinator(t, func(w http.ResponseWriter, r *http.Request) {
		n++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"saved_as":"stored-` + string(rune('0'+n)) + `"}`))
	})

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		if _, err := coordinator.Upload(context.Background(), types.CategoryText, name, strings.NewReader("x")); err != nil {
			t.Fatalf("Upload %s failed: %v", name, err)
		}
	}

	records := coordinator.Records(types.CategoryText)
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	for i, want := range []string{"a.txt", "b.txt", "c.txt"} {
		if records[i].Name != want {
			t.Errorf("Record %d: expected %s, got %s", i, want, records[i].Name)
		}
	}
}

// TestUploadFailureSetsErrorAndLeavesRecords tests the fixed error message
// template and that no record is written on failure.
func TestUploadFailureSetsErrorAndLeavesRecords(t *testing.T) {
	coordinator, _ := newTestCoordinator(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := coordinator.Upload(context.Background(), types.CategoryVoice, "memo.wav", strings.NewReader("audio"))
	if err == nil {
		t.Fatal("Expected upload error")
	}

	for _, cat := range types.Categories {
		if len(coordinator.Records(cat)) != 0 {
			t.Errorf("Expected no records for %s after failure", cat)
		}
	}
	if got := coordinator.LastError(types.CategoryVoice); got != "Failed to upload memo.wav" {
		t.Errorf("Expected 'Failed to upload memo.wav', got %q", got)
	}
	if coordinator.Status(types.CategoryVoice) != StatusFailed {
		t.Errorf("Expected failed status, got %v", coordinator.Status(types.CategoryVoice))
	}
}

// TestNewAttemptClearsErrorBeforeResolve tests that starting a new upload
// clears the previous error even while the new attempt is still pending.
func TestNewAttemptClearsErrorBeforeResolve(t *testing.T) {
	release := make(chan struct{})
	fail := true
	coordinator, _ := newTestCoordinator(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		<-release
		savedAsHandler("ok.txt")(w, r)
	})

	if _, err := coordinator.Upload(context.Background(), types.CategoryText, "first.txt", strings.NewReader("x")); err == nil {
		t.Fatal("Expected first upload to fail")
	}
	if coordinator.LastError(types.CategoryText) == "" {
		t.Fatal("Expected error after failed upload")
	}

	fail = false
	done := make(chan error, 1)
	go func() {
		_, err := coordinator.Upload(context.Background(), types.CategoryText, "second.txt", strings.NewReader("y"))
		done <- err
	}()

	waitFor(t, time.Second, func() bool { return coordinator.InFlight(types.CategoryText) })
	if got := coordinator.LastError(types.CategoryText); got != "" {
		t.Errorf("Expected error cleared before new attempt resolves, got %q", got)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Second upload failed: %v", err)
	}
}

// TestUploadingFlagSpansAttempt tests that the in-flight indicator is true
// for the whole duration between start and settle and false otherwise.
func TestUploadingFlagSpansAttempt(t *testing.T) {
	release := make(chan struct{})
	coordinator, _ := newTestCoordinator(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		savedAsHandler("stored.txt")(w, r)
	})

	if coordinator.InFlight(types.CategoryText) {
		t.Fatal("Expected no in-flight upload before start")
	}

	done := make(chan error, 1)
	go func() {
		_, err := coordinator.Upload(context.Background(), types.CategoryText, "file.txt", strings.NewReader("x"))
		done <- err
	}()

	waitFor(t, time.Second, func() bool { return coordinator.InFlight(types.CategoryText) })
	if !coordinator.AnyInFlight() {
		t.Error("Expected AnyInFlight true while pending")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if coordinator.InFlight(types.CategoryText) {
		t.Error("Expected in-flight false after settle")
	}
}

// TestSecondUploadSameCategoryRejected tests the in-flight guard.
func TestSecondUploadSameCategoryRejected(t *testing.T) {
	release := make(chan struct{})
	coordinator, _ := newTestCoordinator(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		savedAsHandler("stored.txt")(w, r)
	})

	done := make(chan error, 1)
	go func() {
		_, err := coordinator.Upload(context.Background(), types.CategoryText, "a.txt", strings.NewReader("x"))
		done <- err
	}()
	waitFor(t, time.Second, func() bool { return coordinator.InFlight(types.CategoryText) })

	if _, err := coordinator.Upload(context.Background(), types.CategoryText, "b.txt", strings.NewReader("y")); !errors.Is(err, ErrUploadInFlight) {
		t.Errorf("Expected ErrUploadInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("First upload failed: %v", err)
	}
}

// TestCategoriesIndependent tests that uploads in different categories do
// not share state.
func TestCategoriesIndependent(t *testing.T) {
	coordinator, _ := newTestCoordinator(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/text") {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		savedAsHandler("clip_1.mp4")(w, r)
	})

	if _, err := coordinator.Upload(context.Background(), types.CategoryText, "bad.txt", strings.NewReader("x")); err == nil {
		t.Fatal("Expected text upload to fail")
	}
	if _, err := coordinator.Upload(context.Background(), types.CategoryVideo, "clip.mp4", strings.NewReader("v")); err != nil {
		t.Fatalf("Video upload failed: %v", err)
	}

	if got := coordinator.LastError(types.CategoryText); got != "Failed to upload bad.txt" {
		t.Errorf("Text error clobbered: %q", got)
	}
	if coordinator.LastError(types.CategoryVideo) != "" {
		t.Errorf("Unexpected video error: %q", coordinator.LastError(types.CategoryVideo))
	}
	if len(coordinator.Records(types.CategoryVideo)) != 1 {
		t.Errorf("Expected 1 video record, got %d", len(coordinator.Records(types.CategoryVideo)))
	}
	if len(coordinator.Records(types.CategoryText)) != 0 {
		t.Errorf("Expected no text records, got %d", len(coordinator.Records(types.CategoryText)))
	}
}

// TestInvalidCategory tests the category guard.
func TestInvalidCategory(t *testing.T) {
	coordinator, _ := newTestCoordinator(t, savedAsHandler("x"))
	if _, err := coordinator.Upload(context.Background(), "image", "pic.png", strings.NewReader("x")); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("Expected ErrInvalidCategory, got %v", err)
	}
}

// TestSettleReleasesStateBeforeNotify tests that upload bookkeeping is
// settled before the settle notification is delivered, so a slow
// notification consumer can never wedge the coordinator.
func TestSettleReleasesStateBeforeNotify(t *testing.T) {
	coordinator, _ := newTestCoordinator(t, savedAsHandler("stored.txt"))
	block := make(chan struct{})
	entered := make(chan struct{})
	coordinator.SetNotifier(func(n *types.Notification) {
		if n.Type == types.NotifyTypeUploadDone {
			close(entered)
			<-block
		}
	})

	done := make(chan error, 1)
	go func() {
		_, err := coordinator.Upload(context.Background(), types.CategoryText, "file.txt", strings.NewReader("x"))
		done <- err
	}()

	<-entered
	// The notifier is stalled mid-delivery; the bookkeeping must already
	// be settled and readable.
	if coordinator.InFlight(types.CategoryText) {
		t.Error("Expected in-flight released before notification delivery")
	}
	if got := len(coordinator.Records(types.CategoryText)); got != 1 {
		t.Errorf("Expected 1 record, got %d", got)
	}

	close(block)
	if err := <-done; err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
}

// TestUploadZipAwaitsSelection tests that a chat export archive settles as
// a pending selection: nothing is stored and no error is set.
func TestUploadZipAwaitsSelection(t *testing.T) {
	coordinator, _ := newTestCoordinator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"type":"zip_upload","zip_id":"ab12cd34ef56","conversations":[{"folder_name":"john_123","display_name":"John","message_count":42}],"uploaded":[],"rejected":[]}`))
	})

	outcome, err := coordinator.Upload(context.Background(), types.CategoryText, "export.zip", strings.NewReader("zip"))
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if !outcome.AwaitingSelection() {
		t.Fatal("Expected outcome awaiting selection")
	}
	if outcome.ZipID != "ab12cd34ef56" || outcome.Type != "zip_upload" {
		t.Errorf("Unexpected outcome: %+v", outcome)
	}
	if len(outcome.Conversations) != 1 || outcome.Conversations[0].DisplayName != "John" {
		t.Errorf("Unexpected conversations: %+v", outcome.Conversations)
	}
	if len(coordinator.Records(types.CategoryText)) != 0 {
		t.Error("Expected no records before selection")
	}
	if coordinator.Status(types.CategoryText) != StatusIdle {
		t.Errorf("Expected idle status, got %v", coordinator.Status(types.CategoryText))
	}
	if coordinator.LastError(types.CategoryText) != "" {
		t.Errorf("Unexpected error: %q", coordinator.LastError(types.CategoryText))
	}
}

// TestCompleteZipSelection tests the selection call and the records it
// appends.
func TestCompleteZipSelection(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	coordinator, _ := newTestCoordinator(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"uploaded":[{"id":"aa11bb22cc33","original_name":"John (Instagram)","detected_type":"Instagram"}],"rejected":[]}`))
	})

	records, err := coordinator.CompleteZipSelection(context.Background(), "ab12cd34ef56", []string{"john_123"})
	if err != nil {
		t.Fatalf("CompleteZipSelection failed: %v", err)
	}
	if gotPath != "/api/files/text/zip/select" {
		t.Errorf("Unexpected path: %s", gotPath)
	}
	if gotBody["zip_id"] != "ab12cd34ef56" {
		t.Errorf("Unexpected body: %v", gotBody)
	}
	if len(records) != 1 || records[0].Name != "John (Instagram)" || records[0].SavedAs != "aa11bb22cc33.json" {
		t.Errorf("Unexpected records: %+v", records)
	}
	if len(coordinator.Records(types.CategoryText)) != 1 {
		t.Errorf("Expected 1 record, got %d", len(coordinator.Records(types.CategoryText)))
	}
	if coordinator.Status(types.CategoryText) != StatusSucceeded {
		t.Errorf("Expected succeeded status, got %v", coordinator.Status(types.CategoryText))
	}
}

// TestUploadMissingSavedAs tests that a 2xx reply without saved_as counts
// as a failure and writes no record.
func TestUploadMissingSavedAs(t *testing.T) {
	coordinator, _ := newTestCoordinator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	if _, err := coordinator.Upload(context.Background(), types.CategoryText, "odd.txt", strings.NewReader("x")); err == nil {
		t.Fatal("Expected error for response without saved_as")
	}
	if len(coordinator.Records(types.CategoryText)) != 0 {
		t.Error("Expected no records")
	}
	if got := coordinator.LastError(types.CategoryText); got != "Failed to upload odd.txt" {
		t.Errorf("Expected 'Failed to upload odd.txt', got %q", got)
	}
}
