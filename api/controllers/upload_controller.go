package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediavault/mediavault-go/tool"
	"github.com/mediavault/mediavault-go/types"
)

type uploadStartRequest struct {
	// Section identifies the view that triggered the batch; the
	// batch-complete refresh notification is scoped to it.
	Section string `json:"section,omitempty"`
}

// UploadStart launches the orchestrator over the current pending items and
// returns immediately with a batch id; the UI follows along over the notify
// websocket or by polling the batch result.
// POST /api/self/v1/upload
func (ctrl *Controllers) UploadStart(c *gin.Context) {
	var request uploadStartRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError("Invalid request body: "+err.Error()))
			return
		}
	}

	pending := ctrl.Store.Pending()
	if len(pending) == 0 {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("No pending items to upload"))
		return
	}

	batchID := tool.GenerateShortBatchID()
	go ctrl.runBatch(batchID, request.Section)

	c.JSON(http.StatusAccepted, tool.FastReturnSuccessWithData(gin.H{
		"batchId": batchID,
		"total":   len(pending),
	}))
}

// runBatch drives one batch end to end: upload fan-out, handing accepted
// documents to the reconciler, and triggering server-side analysis.
func (ctrl *Controllers) runBatch(batchID, section string) {
	result := ctrl.Orchestrator.UploadPending(context.Background(), batchID, section)

	if len(result.DocNumbers) > 0 {
		if err := ctrl.Reconciler.Submit(context.Background(), result.DocNumbers, section); err != nil {
			// The processing-set addition has been rolled back; record the
			// failure on the batch so the UI can offer a manual re-trigger.
			tool.DefaultLogger.Errorf("[Upload] Analysis trigger failed for batch %s: %v", batchID, err)
			result.ProcessingError = err.Error()
		}
	}
	ctrl.batchResults.Set(batchID, result)

	if ctrl.Hub != nil {
		ctrl.Hub.Broadcast(&types.Notification{
			Type: types.NotifyTypeBatchUploaded,
			Data: map[string]any{
				"batchId":         result.BatchID,
				"section":         result.Section,
				"total":           result.Total,
				"succeeded":       result.Succeeded,
				"failed":          result.Failed,
				"processingError": result.ProcessingError,
			},
		})
	}
}

// UploadResult returns the settled outcome of a batch, kept for a while after
// completion.
// GET /api/self/v1/upload/:batchId
func (ctrl *Controllers) UploadResult(c *gin.Context) {
	batchID := c.Param("batchId")
	result := ctrl.batchResults.Get(batchID)
	if result.BatchID == "" {
		c.JSON(http.StatusNotFound, tool.FastReturnError("Batch not found, still running, or expired"))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(result))
}
