package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mediavault/mediavault-go/tool"
)

// ProcessingGet reports the documents still under server-side analysis.
// GET /api/self/v1/processing
func (ctrl *Controllers) ProcessingGet(c *gin.Context) {
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{
		"processing": ctrl.Reconciler.Snapshot(),
		"polling":    ctrl.Reconciler.Polling(),
	}))
}

// AgentStatus reports agent health and archive reachability for the UI header.
// GET /api/self/v1/status
func (ctrl *Controllers) AgentStatus(c *gin.Context) {
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{
		"running":      true,
		"apiBaseUrl":   ctrl.Config.APIBaseURL,
		"apiReachable": tool.CheckReachable(ctrl.Config.APIBaseURL, 2*time.Second),
		"queued":       len(ctrl.Store.Items()),
		"processing":   len(ctrl.Reconciler.Snapshot()),
	}))
}
