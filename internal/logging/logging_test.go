package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(t *testing.T) (*logrus.Logger, *bytes.Buffer) {
	t.Helper()
	logger := SetupLogging("debug")
	buf := &bytes.Buffer{}
	logger.Out = buf
	return logger, buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	dec := json.NewDecoder(buf)
	for dec.More() {
		line := map[string]interface{}{}
		require.NoError(t, dec.Decode(&line))
		lines = append(lines, line)
	}
	return lines
}

func TestSetupLogging_Level(t *testing.T) {
	assert.Equal(t, logrus.WarnLevel, SetupLogging("warn").Level)
	assert.Equal(t, logrus.InfoLevel, SetupLogging("nonsense").Level)
}

func TestSetupLogging_UsesLoglevelKey(t *testing.T) {
	logger, buf := newBufferedLogger(t)

	logger.Info("hello")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "info", lines[0]["loglevel"])
	assert.Equal(t, "hello", lines[0]["msg"])
}

func TestLogData_Fields(t *testing.T) {
	logger, buf := newBufferedLogger(t)
	logData := NewLogData(logger)

	logData.AddData("childID", "abc")
	stop := logData.AddTiming("queryMs")
	stop()
	logData.Log().Info("done")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "abc", lines[0]["childID"])
	assert.Contains(t, lines[0], "queryMs")
}

func TestContextHelpers(t *testing.T) {
	logger, _ := newBufferedLogger(t)
	logData := NewLogData(logger)

	assert.Nil(t, GetLogData(context.Background()))
	AddData(context.Background(), "ignored", 1)
	StartTiming(context.Background(), "ignored")()

	ctx := WithLogData(context.Background(), logData)
	assert.Same(t, logData, GetLogData(ctx))
	AddData(ctx, "count", 3)
	assert.Equal(t, 3, logData.dataItems["count"])
}

func TestLoggingWrapper_FreshLogDataPerRequest(t *testing.T) {
	logger, buf := newBufferedLogger(t)
	calls := 0
	handler := LoggingWrapper("Status", logger, func(w http.ResponseWriter, req *http.Request, logData *LogData) error {
		calls++
		assert.Same(t, logData, GetLogData(req.Context()))
		if calls == 1 {
			logData.AddData("first", true)
			w.WriteHeader(http.StatusOK)
			return nil
		}
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("bad request")
	})

	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/status", nil))
	handler(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/status", nil))

	var completes, failures []map[string]interface{}
	for _, line := range decodeLines(t, buf) {
		switch line["msg"] {
		case "Handler.Status.Complete":
			completes = append(completes, line)
		case "Handler.Status.Error":
			failures = append(failures, line)
		}
	}
	require.Len(t, completes, 1)
	require.Len(t, failures, 1)
	assert.Equal(t, true, completes[0]["first"])
	assert.NotContains(t, failures[0], "first")
}

func TestMiddleware_AttachesLogData(t *testing.T) {
	logger, buf := newBufferedLogger(t)
	_, api := humatest.New(t)
	api.UseMiddleware(Middleware(logger))

	type output struct {
		Body struct {
			HasLogData bool `json:"hasLogData"`
		}
	}
	huma.Register(api, huma.Operation{
		OperationID: "ping",
		Method:      http.MethodGet,
		Path:        "/ping",
	}, func(ctx context.Context, _ *struct{}) (*output, error) {
		out := &output{}
		out.Body.HasLogData = GetLogData(ctx) != nil
		AddData(ctx, "pinged", true)
		return out, nil
	})

	resp := api.Get("/ping")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"hasLogData":true`)

	var found bool
	for _, line := range decodeLines(t, buf) {
		if line["msg"] == "Handler.ping.Complete" {
			found = true
			assert.Equal(t, true, line["pinged"])
			assert.Equal(t, "/ping", line["path"])
		}
	}
	assert.True(t, found)
}
