package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diagtap/diagtap/internal/logger"
)

func performHandlerRequest(t *testing.T, h gin.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req, err := http.NewRequest(method, "/", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h(c)
	return w
}

func decodeJSONBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestDrainHandler(t *testing.T) {
	facility := logger.New(&recordingSink{})
	facility.SetLevel(logger.LevelTrace)
	facility.SetQueueEnabled(true)

	for i := 0; i < 3; i++ {
		facility.Emit("queue.go", i, logger.LevelInfo, "net", fmt.Sprintf("msg-%d", i))
	}

	w := performHandlerRequest(t, NewDrainHandler(facility), http.MethodGet, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Records []queuedRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Records, 3)
	assert.Equal(t, "msg-0", resp.Records[0].Message, "Oldest record comes first")
	assert.Equal(t, "INFO", resp.Records[0].Level)
	assert.Equal(t, "net", resp.Records[0].Name)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}$`, resp.Records[0].Time)

	// A second drain finds nothing; ownership moved to the first caller.
	w = performHandlerRequest(t, NewDrainHandler(facility), http.MethodGet, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Records)
}

func TestLevelHandlers(t *testing.T) {
	facility := logger.New(&recordingSink{})

	w := performHandlerRequest(t, NewLevelGetHandler(facility), http.MethodGet, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ERROR", decodeJSONBody(t, w)["level"])

	w = performHandlerRequest(t, NewLevelSetHandler(facility), http.MethodPut, `{"level":"debug"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DEBUG", decodeJSONBody(t, w)["level"])
	assert.Equal(t, logger.LevelDebug, facility.Level())

	w = performHandlerRequest(t, NewLevelSetHandler(facility), http.MethodPut, `{"level":"loudest"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, logger.LevelDebug, facility.Level(), "Failed update must not change the level")

	w = performHandlerRequest(t, NewLevelSetHandler(facility), http.MethodPut, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueueModeHandlers(t *testing.T) {
	sink := &recordingSink{}
	facility := logger.New(sink)
	facility.SetLevel(logger.LevelTrace)

	w := performHandlerRequest(t, NewQueueModeGetHandler(facility), http.MethodGet, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeJSONBody(t, w)
	assert.Equal(t, false, body["enabled"])
	assert.Equal(t, float64(0), body["length"])

	w = performHandlerRequest(t, NewQueueModeSetHandler(facility), http.MethodPut, `{"enabled":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, facility.QueueEnabled())

	facility.Emit("a.go", 1, logger.LevelInfo, "net", "buffered")

	w = performHandlerRequest(t, NewQueueModeGetHandler(facility), http.MethodGet, "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeJSONBody(t, w)
	assert.Equal(t, true, body["enabled"])
	assert.Equal(t, float64(1), body["length"])

	// Disabling deferral leaves the buffered record in place.
	w = performHandlerRequest(t, NewQueueModeSetHandler(facility), http.MethodPut, `{"enabled":false}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, facility.QueueEnabled())
	assert.Equal(t, 1, facility.QueueLength())
	assert.Empty(t, sink.all())

	w = performHandlerRequest(t, NewQueueModeSetHandler(facility), http.MethodPut, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performHandlerRequest(t, NewQueueModeSetHandler(facility), http.MethodPut, `{"enabled":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
