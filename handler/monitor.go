package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kenil818282/caratbridge-secret-finder1/service"
)

// MonitorHandler exposes the single action endpoint driving the monitor:
// start/stop the scan flag, manage tags, dump the store, run a scan.
type MonitorHandler struct {
	store   service.Store
	scanner *service.Scanner
}

func NewMonitorHandler(store service.Store, scanner *service.Scanner) *MonitorHandler {
	return &MonitorHandler{store: store, scanner: scanner}
}

type MonitorRequest struct {
	Action string `json:"action" binding:"required"`
	Tag    string `json:"tag"`
	Force  bool   `json:"force"`
	Limit  int    `json:"limit"`
}

// Handle dispatches one monitor action
func (h *MonitorHandler) Handle(c *gin.Context) {
	var req MonitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	switch req.Action {
	case "start":
		if err := h.store.SetRunning(true); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})

	case "stop":
		if err := h.store.SetRunning(false); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})

	case "add":
		if service.NormalizeTag(req.Tag) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tag required"})
			return
		}
		if err := h.store.AddTag(req.Tag); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})

	case "remove":
		if err := h.store.RemoveTag(req.Tag); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})

	case "load":
		doc, err := h.store.Load()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, doc)

	case "scan":
		result, err := h.scanner.Run(c.Request.Context(), service.ScanOptions{
			Force: req.Force,
			Limit: req.Limit,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		if !result.Success {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": result.Message})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"newLeads":  result.NewLeads,
			"tagCounts": result.TagCounts,
		})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Action"})
	}
}
