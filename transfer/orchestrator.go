package transfer

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/mediavault/mediavault-go/queue"
	"github.com/mediavault/mediavault-go/tool"
	"github.com/mediavault/mediavault-go/types"
)

// Notifier pushes live events to connected UI clients. Nil-safe via the
// orchestrator's guard; the websocket hub implements it.
type Notifier interface {
	Broadcast(n *types.Notification)
}

// Orchestrator fans a batch of pending queue items out to concurrent
// transports and joins once every launched transfer reached a terminal status.
type Orchestrator struct {
	store    *queue.Store
	client   *Client
	hub      Notifier
	abstract string
	parentID int
	eventID  int
}

func NewOrchestrator(store *queue.Store, client *Client, hub Notifier, cfg *types.AppConfig) *Orchestrator {
	return &Orchestrator{
		store:    store,
		client:   client,
		hub:      hub,
		abstract: cfg.Abstract,
		parentID: cfg.ParentID,
		eventID:  cfg.EventID,
	}
}

// UploadPending launches one transfer per item still pending and blocks until
// all of them settled. Items that stopped being pending between snapshot and
// claim (another invocation, a removal) are skipped. One item failing never
// cancels, retries, or blocks the others. An empty batchID gets a generated one.
func (o *Orchestrator) UploadPending(ctx context.Context, batchID, section string) types.BatchResult {
	if batchID == "" {
		batchID = tool.GenerateRandomUUID()
	}
	pending := o.store.Pending()
	result := types.BatchResult{
		BatchID: batchID,
		Section: section,
	}
	if len(pending) == 0 {
		return result
	}

	// Progress events are throttled so a big batch does not flood the
	// websocket; store updates are never throttled.
	limiter := rate.NewLimiter(rate.Limit(8), 4)

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, item := range pending {
		claimed := false
		o.store.Update(item.ID, func(it *types.UploadItem) {
			if it.Status == types.StatusPending {
				it.Status = types.StatusUploading
				it.Progress = 0
				it.Error = ""
				claimed = true
			}
		})
		if !claimed {
			continue
		}

		wg.Add(1)
		go func(item types.UploadItem) {
			defer wg.Done()
			docNumber, err := o.client.UploadDocument(ctx, item, o.abstract, o.parentID, o.eventID, func(percent int) {
				o.store.SetProgress(item.ID, percent)
				if o.hub != nil && limiter.Allow() {
					o.hub.Broadcast(&types.Notification{
						Type: types.NotifyTypeItemProgress,
						Data: map[string]any{"itemId": item.ID, "progress": percent},
					})
				}
			})

			itemResult := types.BatchItemResult{ItemID: item.ID, FileName: item.FileName}
			if err != nil {
				tool.DefaultLogger.Warnf("[Upload] %s failed: %v", item.FileName, err)
				o.store.Update(item.ID, func(it *types.UploadItem) {
					it.Status = types.StatusError
					it.Error = err.Error()
				})
				itemResult.Error = err.Error()
			} else {
				o.store.Update(item.ID, func(it *types.UploadItem) {
					it.Status = types.StatusSuccess
					it.Progress = 100
					it.DocNumber = docNumber
				})
				itemResult.Success = true
				itemResult.DocNumber = docNumber
			}

			mu.Lock()
			result.Items = append(result.Items, itemResult)
			mu.Unlock()

			if o.hub != nil {
				o.hub.Broadcast(&types.Notification{
					Type: types.NotifyTypeItemDone,
					Data: map[string]any{
						"itemId":    item.ID,
						"success":   itemResult.Success,
						"docNumber": itemResult.DocNumber,
						"error":     itemResult.Error,
					},
				})
			}
		}(item)
	}
	wg.Wait()

	result.Total = len(result.Items)
	for _, r := range result.Items {
		if r.Success {
			result.Succeeded++
			result.DocNumbers = append(result.DocNumbers, r.DocNumber)
		} else {
			result.Failed++
		}
	}
	tool.DefaultLogger.Infof("[Upload] Batch %s settled: %d ok, %d failed", result.BatchID, result.Succeeded, result.Failed)
	return result
}
