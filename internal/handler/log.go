// internal/handler/log.go

package handler

import (
	"net/http"

	"github.com/diagtap/diagtap/internal/config"
	"github.com/diagtap/diagtap/internal/logger"
	"github.com/diagtap/diagtap/internal/truncate"
	"github.com/diagtap/diagtap/internal/validation"
	"github.com/gin-gonic/gin"
)

// LogRequestBody defines the structure for the POST /log request body
type LogRequestBody struct {
	Level   string `json:"level" binding:"required"`
	Name    string `json:"name"` // Optional subsystem label
	Message string `json:"message" binding:"required"`
	File    string `json:"file"` // Optional remote call-site identity
	Line    int    `json:"line"`
}

// LogHandlerDependencies holds dependencies for the log intake handler
type LogHandlerDependencies struct {
	Facility *logger.Facility
	Config   *config.Config
}

// NewLogHandler creates a Gin handler function for the POST /log endpoint.
// It lets a remote process feed records into the local facility; filtering,
// suppression and routing apply exactly as for local emits.
func NewLogHandler(deps LogHandlerDependencies) gin.HandlerFunc {
	if deps.Facility == nil {
		panic("LogHandler requires a non-nil Facility")
	}
	if deps.Config == nil {
		panic("LogHandler requires a non-nil Config")
	}

	return func(ctx *gin.Context) {
		// Limit request body size BEFORE parsing JSON
		if deps.Config.Server.RequestLimits.MaxBodySize > 0 {
			ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, int64(deps.Config.Server.RequestLimits.MaxBodySize))
		}

		var reqBody LogRequestBody
		if err := ctx.ShouldBindJSON(&reqBody); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		level, err := logger.ParseLevel(reqBody.Level)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if reqBody.Name != "" {
			if err := validation.IsValidName(reqBody.Name, validation.DefaultMaxNameLength); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid name"})
				return
			}
		}

		message := validation.SanitizeString(reqBody.Message, validation.DefaultMaxMessageLength)
		message = truncate.Marked(message, validation.DefaultMaxMessageLength)
		if message == "" {
			// Empty after sanitization is a silent no-op, like a local
			// empty emit.
			ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}

		file := reqBody.File
		if file == "" {
			file = "remote"
		}

		deps.Facility.Emit(file, reqBody.Line, level, reqBody.Name, message)
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
