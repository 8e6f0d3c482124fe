package types

// Notification types pushed to UI clients over the notify websocket.
const (
	NotifyTypeItemProgress  = "item_progress"
	NotifyTypeItemDone      = "item_done"
	NotifyTypeBatchUploaded = "batch_uploaded"
	NotifyTypeBatchComplete = "batch_complete" // server-side analysis finished, views should refresh
)

// Notification represents a notification message structure
type Notification struct {
	Type    string         `json:"type,omitempty"`
	Title   string         `json:"title,omitempty"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}
