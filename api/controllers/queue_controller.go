package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mediavault/mediavault-go/queue"
	"github.com/mediavault/mediavault-go/tool"
)

// Date formats accepted from the UI when editing an item's date taken.
var editDateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

type queueAddRequest struct {
	Paths []string `json:"paths"`
}

type queueEditRequest struct {
	// Pointer fields distinguish "not sent" from "sent empty"; an empty
	// dateTaken clears the date.
	FileName  *string `json:"fileName,omitempty"`
	DateTaken *string `json:"dateTaken,omitempty"`
}

// QueueAdd handles file selection: expands folders, infers dates, queues items.
// POST /api/self/v1/queue/add
func (ctrl *Controllers) QueueAdd(c *gin.Context) {
	var request queueAddRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	if len(request.Paths) == 0 {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("No paths provided"))
		return
	}
	files, err := tool.CollectFiles(request.Paths)
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Failed to collect files: "+err.Error()))
		return
	}
	added, skipped := ctrl.Store.Add(files)
	tool.DefaultLogger.Infof("[Queue] Added %d items (%d skipped)", len(added), len(skipped))
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{
		"added":   added,
		"skipped": skipped,
	}))
}

// QueueList returns the whole queue in insertion order.
// GET /api/self/v1/queue
func (ctrl *Controllers) QueueList(c *gin.Context) {
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(ctrl.Store.Items()))
}

// QueueEdit updates an item's editable fields. Editing the date clears its
// provenance tag.
// PATCH /api/self/v1/queue/:id
func (ctrl *Controllers) QueueEdit(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	var request queueEditRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
		return
	}
	if request.FileName == nil && request.DateTaken == nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Nothing to edit"))
		return
	}
	// Validate everything up front so a bad date cannot leave a half-applied
	// edit behind.
	var editedDate *time.Time
	if request.DateTaken != nil {
		date, err := parseEditDate(*request.DateTaken)
		if err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid dateTaken: "+err.Error()))
			return
		}
		editedDate = date
	}
	if request.FileName != nil {
		if err := ctrl.Store.SetFileName(id, *request.FileName); err != nil {
			queueError(c, err)
			return
		}
	}
	if request.DateTaken != nil {
		if err := ctrl.Store.SetDateTaken(id, editedDate); err != nil {
			queueError(c, err)
			return
		}
	}
	item, _ := ctrl.Store.Get(id)
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(item))
}

// QueueRemove deletes an item before upload (or after failure).
// DELETE /api/self/v1/queue/:id
func (ctrl *Controllers) QueueRemove(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	if err := ctrl.Store.Remove(id); err != nil {
		queueError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

// QueueRetry moves a failed item back to pending.
// POST /api/self/v1/queue/:id/retry
func (ctrl *Controllers) QueueRetry(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	if err := ctrl.Store.Retry(id); err != nil {
		queueError(c, err)
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

// QueueClear discards the queue when the upload surface closes. In-flight
// transfers run to completion silently.
// DELETE /api/self/v1/queue
func (ctrl *Controllers) QueueClear(c *gin.Context) {
	ctrl.Store.Clear()
	c.JSON(http.StatusOK, tool.FastReturnSuccess())
}

func itemID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid item id"))
		return 0, false
	}
	return id, true
}

func parseEditDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range editDateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("unsupported date format")
}

func queueError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, queue.ErrNotFound):
		c.JSON(http.StatusNotFound, tool.FastReturnError("Item not found"))
	case errors.Is(err, queue.ErrNotEditable):
		c.JSON(http.StatusConflict, tool.FastReturnError(err.Error()))
	default:
		c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
	}
}
