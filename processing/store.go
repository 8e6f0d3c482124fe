// Package processing tracks server-side analysis of uploaded documents: a
// durable set of document numbers still being analyzed, and a polling loop
// that reconciles it against the archive until the set drains.
package processing

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/bytedance/sonic"
)

// Store is the durable home of the processing set, keyed per user identity.
type Store interface {
	Load() ([]int, error)
	Save(docNumbers []int) error
	Clear() error
}

var unsafeUserChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// FileStore keeps the set as one JSON file per user under the state dir, so an
// interrupted session does not lose track of in-flight analysis.
type FileStore struct {
	path string
}

func NewFileStore(stateDir, userID string) *FileStore {
	if userID == "" {
		userID = "default"
	}
	name := "processing-" + unsafeUserChars.ReplaceAllString(userID, "_") + ".json"
	return &FileStore{path: filepath.Join(stateDir, name)}
}

func (s *FileStore) Load() ([]int, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read processing state: %v", err)
	}
	var nums []int
	if err := sonic.Unmarshal(data, &nums); err != nil {
		return nil, fmt.Errorf("failed to parse processing state: %v", err)
	}
	return nums, nil
}

func (s *FileStore) Save(docNumbers []int) error {
	sorted := make([]int, len(docNumbers))
	copy(sorted, docNumbers)
	sort.Ints(sorted)
	data, err := sonic.Marshal(sorted)
	if err != nil {
		return fmt.Errorf("failed to encode processing state: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state dir: %v", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write processing state: %v", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove processing state: %v", err)
	}
	return nil
}
