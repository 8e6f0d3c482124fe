package transfer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediavault/mediavault-go/queue"
	"github.com/mediavault/mediavault-go/types"
)

type recordingHub struct {
	mu     sync.Mutex
	events []*types.Notification
}

func (h *recordingHub) Broadcast(n *types.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, n)
}

func (h *recordingHub) byType(kind string) []*types.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*types.Notification
	for _, n := range h.events {
		if n.Type == kind {
			out = append(out, n)
		}
	}
	return out
}

// newArchiveServer accepts every upload except files whose docname is "reject",
// handing out docnumbers from 100 upward.
func newArchiveServer(t *testing.T) *httptest.Server {
	t.Helper()
	var mu sync.Mutex
	next := 100
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		if r.FormValue("docname") == "reject" {
			w.WriteHeader(http.StatusBadRequest)
			payload, _ := sonic.Marshal(map[string]string{"error": "unsupported format"})
			w.Write(payload)
			return
		}
		mu.Lock()
		next++
		doc := next
		mu.Unlock()
		payload, _ := sonic.Marshal(types.UploadDocumentResponse{Success: true, DocNumber: doc})
		w.Write(payload)
	}))
}

func TestUploadPendingIsolatesFailures(t *testing.T) {
	srv := newArchiveServer(t)
	defer srv.Close()

	store := queue.NewStore()
	added, _ := store.Add([]string{
		writeUploadFile(t, "one.jpg", 64),
		writeUploadFile(t, "two.jpg", 64),
		writeUploadFile(t, "three.jpg", 64),
	})
	require.Len(t, added, 3)
	require.NoError(t, store.SetFileName(added[1].ID, "reject"))

	hub := &recordingHub{}
	orch := NewOrchestrator(store, NewClient(srv.URL, ""), hub, &types.AppConfig{})
	result := orch.UploadPending(context.Background(), "batch-1", "photos")

	assert.Equal(t, "batch-1", result.BatchID)
	assert.Equal(t, "photos", result.Section)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, result.DocNumbers, 2)

	for _, item := range store.Items() {
		require.True(t, item.Status.Terminal(), "item %d still %s", item.ID, item.Status)
		if item.FileName == "reject" {
			assert.Equal(t, types.StatusError, item.Status)
			assert.Contains(t, item.Error, "unsupported format")
		} else {
			assert.Equal(t, types.StatusSuccess, item.Status)
			assert.Equal(t, 100, item.Progress)
			assert.NotZero(t, item.DocNumber)
		}
	}

	assert.Len(t, hub.byType(types.NotifyTypeItemDone), 3)
}

func TestUploadPendingSkipsAlreadyClaimedItems(t *testing.T) {
	srv := newArchiveServer(t)
	defer srv.Close()

	store := queue.NewStore()
	added, _ := store.Add([]string{
		writeUploadFile(t, "a.jpg", 32),
		writeUploadFile(t, "b.jpg", 32),
	})
	// Simulate another batch already owning the first item.
	store.Update(added[0].ID, func(it *types.UploadItem) { it.Status = types.StatusUploading })

	orch := NewOrchestrator(store, NewClient(srv.URL, ""), nil, &types.AppConfig{})
	result := orch.UploadPending(context.Background(), "", "")

	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Succeeded)

	item, _ := store.Get(added[0].ID)
	assert.Equal(t, types.StatusUploading, item.Status)
}

func TestUploadPendingEmptyQueue(t *testing.T) {
	orch := NewOrchestrator(queue.NewStore(), NewClient("http://127.0.0.1:1", ""), nil, &types.AppConfig{})
	result := orch.UploadPending(context.Background(), "batch-2", "docs")
	assert.Zero(t, result.Total)
	assert.Equal(t, "batch-2", result.BatchID)
}

func TestUploadPendingSecondRunOnlyRetriesFailures(t *testing.T) {
	srv := newArchiveServer(t)
	defer srv.Close()

	store := queue.NewStore()
	added, _ := store.Add([]string{writeUploadFile(t, "flaky.jpg", 32)})
	require.NoError(t, store.SetFileName(added[0].ID, "reject"))

	orch := NewOrchestrator(store, NewClient(srv.URL, ""), nil, &types.AppConfig{})
	first := orch.UploadPending(context.Background(), "", "")
	require.Equal(t, 1, first.Failed)

	// Fix the name and retry; the item is pending again and gets re-sent.
	require.NoError(t, store.SetFileName(added[0].ID, "flaky"))
	require.NoError(t, store.Retry(added[0].ID))
	second := orch.UploadPending(context.Background(), "", "")
	assert.Equal(t, 1, second.Succeeded)

	item, _ := store.Get(added[0].ID)
	assert.Equal(t, types.StatusSuccess, item.Status)
}
