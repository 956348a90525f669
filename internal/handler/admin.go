// internal/handler/admin.go

package handler

import (
	"net/http"

	"github.com/diagtap/diagtap/internal/logger"
	"github.com/gin-gonic/gin"
)

// queuedRecord is the JSON shape of one drained record.
type queuedRecord struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// NewDrainHandler creates a handler for GET /logs: it atomically drains the
// deferred queue and returns the records oldest first. Draining transfers
// ownership, so two successive calls never return the same record twice.
func NewDrainHandler(facility *logger.Facility) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		records := facility.DrainQueue()
		out := make([]queuedRecord, 0, len(records))
		for _, r := range records {
			out = append(out, queuedRecord{
				Time:    logger.FormatTime(r.Time),
				Level:   r.Level.String(),
				Name:    r.Name,
				Message: r.Message,
			})
		}
		ctx.JSON(http.StatusOK, gin.H{"records": out})
	}
}

// NewLevelGetHandler creates a handler for GET /level.
func NewLevelGetHandler(facility *logger.Facility) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"level": facility.Level().String()})
	}
}

// NewLevelSetHandler creates a handler for PUT /level.
func NewLevelSetHandler(facility *logger.Facility) gin.HandlerFunc {
	type body struct {
		Level string `json:"level" binding:"required"`
	}
	return func(ctx *gin.Context) {
		var req body
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if err := facility.SetLevelFromString(req.Level); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"level": facility.Level().String()})
	}
}

// NewQueueModeGetHandler creates a handler for GET /queue.
func NewQueueModeGetHandler(facility *logger.Facility) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"enabled": facility.QueueEnabled(),
			"length":  facility.QueueLength(),
		})
	}
}

// NewQueueModeSetHandler creates a handler for PUT /queue. Toggling the
// mode never touches records already buffered.
func NewQueueModeSetHandler(facility *logger.Facility) gin.HandlerFunc {
	type body struct {
		Enabled *bool `json:"enabled" binding:"required"`
	}
	return func(ctx *gin.Context) {
		var req body
		if err := ctx.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		facility.SetQueueEnabled(*req.Enabled)
		ctx.JSON(http.StatusOK, gin.H{"enabled": facility.QueueEnabled()})
	}
}
