package controllers

import (
	"time"

	ttlworker "github.com/FloatTech/ttl"

	"github.com/mediavault/mediavault-go/api/notifyhub"
	"github.com/mediavault/mediavault-go/processing"
	"github.com/mediavault/mediavault-go/queue"
	"github.com/mediavault/mediavault-go/transfer"
	"github.com/mediavault/mediavault-go/types"
)

// BatchResultTTL is how long a settled batch result stays retrievable for the UI.
var BatchResultTTL = 60 * time.Minute

// Controllers bundles the pipeline components behind the self API handlers.
// Everything is injected; no handler touches ambient state.
type Controllers struct {
	Store        *queue.Store
	Orchestrator *transfer.Orchestrator
	Reconciler   *processing.Reconciler
	Hub          *notifyhub.Hub
	Config       *types.AppConfig

	batchResults *ttlworker.Cache[string, types.BatchResult]
}

func New(store *queue.Store, orch *transfer.Orchestrator, rec *processing.Reconciler, hub *notifyhub.Hub, cfg *types.AppConfig) *Controllers {
	return &Controllers{
		Store:        store,
		Orchestrator: orch,
		Reconciler:   rec,
		Hub:          hub,
		Config:       cfg,
		batchResults: ttlworker.NewCache[string, types.BatchResult](BatchResultTTL),
	}
}
