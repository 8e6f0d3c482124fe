package processing

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mediavault/mediavault-go/tool"
)

// DefaultInterval is the poll cadence against /processing_status.
const DefaultInterval = 7 * time.Second

// NotifyFunc fires once when a batch finishes analyzing, carrying the
// section/context that originated the batch so dependent views can refresh.
type NotifyFunc func(section string)

// Reconciler owns the processing set and drives it to empty: idle while the
// set is empty, polling on a fixed interval otherwise. The set survives agent
// restarts through the Store and is re-armed on Start.
type Reconciler struct {
	client   StatusClient
	store    Store
	interval time.Duration
	notify   NotifyFunc

	mu      sync.Mutex
	set     map[int]struct{}
	section string
	polling bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func New(client StatusClient, store Store, interval time.Duration, notify NotifyFunc) *Reconciler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Reconciler{
		client:   client,
		store:    store,
		interval: interval,
		notify:   notify,
		set:      make(map[int]struct{}),
	}
}

// Start rehydrates the persisted set and arms the poll timer when it is
// non-empty, so a reload does not lose track of in-flight analysis.
func (r *Reconciler) Start() error {
	nums, err := r.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load processing set: %v", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set = toSet(nums)
	if len(r.set) > 0 {
		tool.DefaultLogger.Infof("[Processing] Resuming watch of %d documents from previous session", len(r.set))
		r.armLocked()
	}
	return nil
}

// Submit adds a freshly uploaded batch to the set, persists it, then triggers
// server-side analysis. The addition is optimistic: when the trigger fails it
// is rolled back and the error returned.
func (r *Reconciler) Submit(ctx context.Context, docNumbers []int, section string) error {
	if len(docNumbers) == 0 {
		return nil
	}

	r.mu.Lock()
	for _, n := range docNumbers {
		r.set[n] = struct{}{}
	}
	r.section = section
	if err := r.store.Save(setToSlice(r.set)); err != nil {
		tool.DefaultLogger.Warnf("[Processing] Failed to persist set: %v", err)
	}
	r.mu.Unlock()

	if err := r.client.TriggerProcessing(ctx, docNumbers); err != nil {
		r.mu.Lock()
		for _, n := range docNumbers {
			delete(r.set, n)
		}
		if len(r.set) == 0 {
			if clearErr := r.store.Clear(); clearErr != nil {
				tool.DefaultLogger.Warnf("[Processing] Failed to clear set: %v", clearErr)
			}
			r.disarmLocked()
		} else {
			if saveErr := r.store.Save(setToSlice(r.set)); saveErr != nil {
				tool.DefaultLogger.Warnf("[Processing] Failed to persist set: %v", saveErr)
			}
		}
		r.mu.Unlock()
		return fmt.Errorf("failed to trigger processing: %v", err)
	}

	r.mu.Lock()
	r.armLocked()
	r.mu.Unlock()
	return nil
}

// Stop tears the poll timer down (agent shutdown, surface dismissed). The
// persisted set is left alone so Start can re-arm later.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	r.disarmLocked()
	r.mu.Unlock()
	r.wg.Wait()
}

// Snapshot returns the current set in ascending order.
func (r *Reconciler) Snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return setToSlice(r.set)
}

// Polling reports whether the timer is armed.
func (r *Reconciler) Polling() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.polling
}

func (r *Reconciler) armLocked() {
	if r.polling {
		return
	}
	r.polling = true
	r.stopCh = make(chan struct{})
	r.wg.Add(1)
	go func(stopCh chan struct{}) {
		defer r.wg.Done()
		r.loop(stopCh)
	}(r.stopCh)
}

func (r *Reconciler) disarmLocked() {
	if !r.polling {
		return
	}
	close(r.stopCh)
	r.polling = false
}

// loop runs ticks sequentially in one goroutine; a tick still waiting on the
// network simply delays the next one, so ticks never overlap.
func (r *Reconciler) loop(stopCh chan struct{}) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if r.tick() {
				return
			}
		}
	}
}

// tick sends the full current set to the archive and reconciles against the
// returned subset. Returns true when the set drained and the loop should stop.
// A network failure leaves the set untouched; the next tick retries.
func (r *Reconciler) tick() bool {
	r.mu.Lock()
	current := setToSlice(r.set)
	r.mu.Unlock()
	if len(current) == 0 {
		return true
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.interval)
	defer cancel()
	remaining, err := r.client.ProcessingStatus(ctx, current)
	if err != nil {
		tool.DefaultLogger.Warnf("[Processing] Poll failed, retrying next tick: %v", err)
		return false
	}

	r.mu.Lock()
	if setsEqual(r.set, remaining) {
		// Identical subset: no persistence write, no refresh storm.
		r.mu.Unlock()
		return false
	}
	r.set = toSet(remaining)
	if len(r.set) > 0 {
		if err := r.store.Save(setToSlice(r.set)); err != nil {
			tool.DefaultLogger.Warnf("[Processing] Failed to persist set: %v", err)
		}
		r.mu.Unlock()
		return false
	}
	if err := r.store.Clear(); err != nil {
		tool.DefaultLogger.Warnf("[Processing] Failed to clear set: %v", err)
	}
	section := r.section
	r.section = ""
	r.polling = false
	r.mu.Unlock()

	tool.DefaultLogger.Infof("[Processing] All documents analyzed, notifying views")
	if r.notify != nil {
		r.notify(section)
	}
	return true
}

func toSet(nums []int) map[int]struct{} {
	set := make(map[int]struct{}, len(nums))
	for _, n := range nums {
		set[n] = struct{}{}
	}
	return set
}

func setToSlice(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func setsEqual(set map[int]struct{}, nums []int) bool {
	seen := make(map[int]struct{}, len(nums))
	for _, n := range nums {
		seen[n] = struct{}{}
	}
	if len(seen) != len(set) {
		return false
	}
	for n := range seen {
		if _, ok := set[n]; !ok {
			return false
		}
	}
	return true
}
