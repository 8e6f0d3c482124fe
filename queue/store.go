// Package queue owns the upload queue: an ordered, in-memory collection of
// items selected for upload. All mutation flows through the store so no
// concurrent writer can lose another's update; readers only ever get copies.
package queue

import (
	"errors"
	"sync"
	"time"

	"github.com/mediavault/mediavault-go/inference"
	"github.com/mediavault/mediavault-go/tool"
	"github.com/mediavault/mediavault-go/types"
)

var (
	ErrNotFound    = errors.New("queue item not found")
	ErrNotEditable = errors.New("queue item can only be changed while pending or failed")
)

type Store struct {
	mu     sync.RWMutex
	nextID int
	items  []types.UploadItem
}

func NewStore() *Store {
	return &Store{nextID: 1}
}

// Add stats each path, runs date inference, and appends one pending item per
// readable file. Unreadable paths are skipped and returned, not fatal: one bad
// selection must not block the rest of the batch.
func (s *Store) Add(paths []string) (added []types.UploadItem, skipped []string) {
	for _, path := range paths {
		name, size, info, err := tool.StatFile(path)
		if err != nil {
			tool.DefaultLogger.Warnf("[Queue] Skipping %s: %v", path, err)
			skipped = append(skipped, path)
			continue
		}
		date, source := inference.Resolve(path, info.ModTime())

		s.mu.Lock()
		item := types.UploadItem{
			ID:           s.nextID,
			Path:         path,
			OriginalName: name,
			Size:         size,
			ModTime:      info.ModTime(),
			Status:       types.StatusPending,
			FileName:     tool.DisplayName(name),
			DateTaken:    date,
			DateSource:   source,
		}
		s.nextID++
		s.items = append(s.items, item)
		s.mu.Unlock()

		added = append(added, cloneItem(item))
	}
	return added, skipped
}

// Items returns a snapshot of the whole queue in insertion order.
func (s *Store) Items() []types.UploadItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.UploadItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, cloneItem(item))
	}
	return out
}

// Pending returns a snapshot of items still waiting for upload.
func (s *Store) Pending() []types.UploadItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []types.UploadItem
	for _, item := range s.items {
		if item.Status == types.StatusPending {
			out = append(out, cloneItem(item))
		}
	}
	return out
}

func (s *Store) Get(id int) (types.UploadItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return cloneItem(s.items[i]), true
	}
	return types.UploadItem{}, false
}

// Remove deletes an item; legal only while pending or failed.
func (s *Store) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	if !editable(s.items[i].Status) {
		return ErrNotEditable
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// SetFileName updates the editable display name; legal only while pending or failed.
func (s *Store) SetFileName(id int, name string) error {
	if name == "" {
		return errors.New("file name must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	if !editable(s.items[i].Status) {
		return ErrNotEditable
	}
	s.items[i].FileName = name
	return nil
}

// SetDateTaken updates the editable date; legal only while pending or failed.
// A manual edit always clears the provenance tag, even when the new value
// equals the inferred one.
func (s *Store) SetDateTaken(id int, date *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	if !editable(s.items[i].Status) {
		return ErrNotEditable
	}
	s.items[i].DateTaken = cloneTime(date)
	s.items[i].DateSource = types.DateSourceNone
	return nil
}

// Retry moves a failed item back to pending so the next batch picks it up.
func (s *Store) Retry(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	if s.items[i].Status != types.StatusError {
		return ErrNotEditable
	}
	s.items[i].Status = types.StatusPending
	s.items[i].Error = ""
	s.items[i].Progress = 0
	return nil
}

// Update applies fn to the item under the store lock. This is the single owner
// for status transitions during upload; it reports false when the item has been
// removed in the meantime.
func (s *Store) Update(id int, fn func(*types.UploadItem)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	fn(&s.items[i])
	return true
}

// SetProgress records upload progress; ignored unless the item is uploading,
// and never allowed to go backwards.
func (s *Store) SetProgress(id int, percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	s.Update(id, func(item *types.UploadItem) {
		if item.Status != types.StatusUploading {
			return
		}
		if percent > item.Progress {
			item.Progress = percent
		}
	})
}

// Clear discards the whole queue, e.g. when the upload surface closes.
// In-flight transports keep running; their later updates hit removed ids and
// become no-ops.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

func (s *Store) indexOf(id int) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func editable(status types.UploadStatus) bool {
	return status == types.StatusPending || status == types.StatusError
}

func cloneItem(item types.UploadItem) types.UploadItem {
	item.DateTaken = cloneTime(item.DateTaken)
	return item
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
