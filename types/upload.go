package types

import "time"

// UploadStatus is the lifecycle state of a queued file.
// Transitions are pending -> uploading -> success|error; success and error are terminal.
type UploadStatus string

const (
	StatusPending   UploadStatus = "pending"
	StatusUploading UploadStatus = "uploading"
	StatusSuccess   UploadStatus = "success"
	StatusError     UploadStatus = "error"
)

// Terminal reports whether no further automatic transition happens from s.
func (s UploadStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusError
}

// DateSource records which inference source produced the item's date taken.
type DateSource string

const (
	DateSourceExif            DateSource = "exif"
	DateSourceFilenameFull    DateSource = "filename_full"
	DateSourceFilenamePartial DateSource = "filename_partial"
	DateSourceFile            DateSource = "file"
	DateSourceNone            DateSource = ""
)

// LowConfidence reports whether the date should be flagged to the user as a weak
// signal (bare year in filename, or filesystem mtime which reflects copy time).
func (s DateSource) LowConfidence() bool {
	return s == DateSourceFilenamePartial || s == DateSourceFile
}

// UploadItem is one user-selected file moving through the upload pipeline.
// The file reference fields (Path, OriginalName, Size, ModTime) are captured at
// selection time and never change; the rest is mutated only through the queue store.
type UploadItem struct {
	ID           int          `json:"id"`
	Path         string       `json:"path"`
	OriginalName string       `json:"originalName"`
	Size         int64        `json:"size"`
	ModTime      time.Time    `json:"modTime"`
	Status       UploadStatus `json:"status"`
	Progress     int          `json:"progress"` // percent, meaningful only while uploading
	FileName     string       `json:"fileName"` // user-editable display name, extension stripped
	DateTaken    *time.Time   `json:"dateTaken,omitempty"`
	DateSource   DateSource   `json:"dateSource,omitempty"`
	Error        string       `json:"error,omitempty"`     // set only when status is error
	DocNumber    int          `json:"docNumber,omitempty"` // server id, set only when status is success
}

// BatchResult is the outcome of one orchestrator run.
type BatchResult struct {
	BatchID    string            `json:"batchId"`
	Section    string            `json:"section,omitempty"`
	Total      int               `json:"total"`
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
	DocNumbers []int             `json:"docNumbers"`
	Items      []BatchItemResult `json:"items"`
	// ProcessingError is set when the analysis trigger failed after upload;
	// the processing-set addition has been rolled back in that case.
	ProcessingError string `json:"processingError,omitempty"`
}

// BatchItemResult is the terminal outcome of one item within a batch.
type BatchItemResult struct {
	ItemID    int    `json:"itemId"`
	FileName  string `json:"fileName"`
	Success   bool   `json:"success"`
	DocNumber int    `json:"docNumber,omitempty"`
	Error     string `json:"error,omitempty"`
}
