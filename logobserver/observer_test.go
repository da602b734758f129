package logobserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/xmidt-org/httphook"
)

type traceKey struct{}

// traceHandler adds the trace value found in the context to each record
type traceHandler struct {
	slog.Handler
}

func (th traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if v, ok := ctx.Value(traceKey{}).(string); ok {
		r.AddAttrs(slog.String("trace", v))
	}

	return th.Handler.Handle(ctx, r)
}

type ObserverSuite struct {
	suite.Suite
	output *bytes.Buffer
	logger *slog.Logger
}

func (suite *ObserverSuite) SetupTest() {
	suite.output = new(bytes.Buffer)
	suite.logger = slog.New(slog.NewJSONHandler(suite.output, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func (suite *ObserverSuite) entries() (entries []map[string]any) {
	scanner := bufio.NewScanner(suite.output)
	for scanner.Scan() {
		var e map[string]any
		suite.Require().NoError(json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}

	return
}

func (suite *ObserverSuite) TestThroughHook() {
	var (
		hook = httphook.New().
			Register(New(suite.logger, WithBodySize(true))).
			MustBuild()

		handler = hook.Then(httphook.ConstantText("Hi there!"))
	)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/hey?a=b", strings.NewReader("12345")))

	entries := suite.entries()
	suite.Require().Len(entries, 2)

	suite.Equal("request started", entries[0]["msg"])
	suite.Equal("INFO", entries[0]["level"])
	suite.Equal("POST", entries[0]["method"])
	suite.Equal("/hey?a=b", entries[0]["uri"])
	suite.Equal(float64(5), entries[0]["bodySize"])

	suite.Equal("request ended", entries[1]["msg"])
	suite.Equal("INFO", entries[1]["level"])
	suite.Equal(float64(http.StatusOK), entries[1]["status"])
	suite.Equal(entries[0]["requestID"], entries[1]["requestID"])
	suite.Contains(entries[1], "elapsedMS")
}

func (suite *ObserverSuite) TestLevels() {
	var (
		o  = New(suite.logger, WithStarted(false), WithLevel(slog.LevelDebug), WithSlowThreshold(time.Second))
		id = uuid.New()
	)

	o.OnRequestStarted(httphook.StartData{RequestID: id})
	o.OnRequestEnded(httphook.EndData{RequestID: id, StatusCode: 200})
	o.OnRequestEnded(httphook.EndData{RequestID: id, StatusCode: 404})
	o.OnRequestEnded(httphook.EndData{RequestID: id, StatusCode: 200, Elapsed: 2 * time.Second})
	o.OnRequestEnded(httphook.EndData{RequestID: id, StatusCode: 503})
	o.OnRequestEnded(httphook.EndData{RequestID: id, StatusCode: 200, Err: errors.New("expected")})

	entries := suite.entries()
	suite.Require().Len(entries, 5)
	suite.Equal("DEBUG", entries[0]["level"])
	suite.Equal("WARN", entries[1]["level"])
	suite.Equal("WARN", entries[2]["level"])
	suite.Equal(true, entries[2]["slow"])
	suite.Equal("ERROR", entries[3]["level"])
	suite.Equal("ERROR", entries[4]["level"])
	suite.Equal("expected", entries[4]["error"])

	for _, e := range entries {
		suite.Equal(id.String(), e["requestID"])
	}
}

func (suite *ObserverSuite) TestRequestContext() {
	var (
		logger = slog.New(traceHandler{Handler: suite.logger.Handler()})
		hook   = httphook.New().Register(New(logger)).MustBuild()

		handler = hook.Then(httphook.ConstantText("ok"))
		request = httptest.NewRequest("GET", "/traced", nil)
	)

	request = request.WithContext(context.WithValue(request.Context(), traceKey{}, "abc123"))
	handler.ServeHTTP(httptest.NewRecorder(), request)

	entries := suite.entries()
	suite.Require().Len(entries, 2)
	suite.Equal("request started", entries[0]["msg"])
	suite.Equal("abc123", entries[0]["trace"])
	suite.Equal("request ended", entries[1]["msg"])
	suite.Equal("abc123", entries[1]["trace"])
}

func (suite *ObserverSuite) TestDefaultLogger() {
	o := New(nil)
	suite.Equal(slog.Default(), o.logger)
	suite.True(o.logStarted)
}

func TestObserver(t *testing.T) {
	suite.Run(t, new(ObserverSuite))
}
