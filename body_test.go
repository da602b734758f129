package httphook

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// closeRecorder tracks whether the original body was closed
type closeRecorder struct {
	io.Reader
	closed bool
}

func (cr *closeRecorder) Close() error {
	cr.closed = true
	return nil
}

func testCaptureBodyNone(t *testing.T) {
	var (
		assert  = assert.New(t)
		request = httptest.NewRequest("GET", "/", nil)
	)

	request.Body = http.NoBody
	replay, cb := captureBody(request)
	assert.True(replay == request)
	assert.Nil(cb.data)
	assert.NoError(cb.err)
	assert.Nil(cb.observed())

	request.Body = nil
	replay, _ = captureBody(request)
	assert.True(replay == request)
}

func testCaptureBodyReplay(t *testing.T) {
	var (
		assert   = assert.New(t)
		require  = require.New(t)
		original = &closeRecorder{Reader: strings.NewReader("payload")}
		request  = httptest.NewRequest("POST", "/", nil)
	)

	request.Body = original
	replay, cb := captureBody(request)
	require.False(replay == request)
	assert.True(request.Body == original, "the original request must not be modified")
	assert.Equal("payload", string(cb.data))
	assert.NoError(cb.err)

	observed := cb.observed()
	observed[0] = 'X'

	b, err := io.ReadAll(replay.Body)
	assert.NoError(err)
	assert.Equal("payload", string(b))

	assert.False(original.closed)
	assert.NoError(replay.Body.Close())
	assert.True(original.closed)

	require.NotNil(replay.GetBody)
	again, err := replay.GetBody()
	require.NoError(err)
	b, err = io.ReadAll(again)
	assert.NoError(err)
	assert.Equal("payload", string(b))
}

func testCaptureBodyError(t *testing.T) {
	var (
		assert   = assert.New(t)
		expected = errors.New("expected")
		request  = httptest.NewRequest("POST", "/", nil)
	)

	request.Body = io.NopCloser(io.MultiReader(
		strings.NewReader("part"),
		iotest.ErrReader(expected),
	))

	replay, cb := captureBody(request)
	assert.Equal("part", string(cb.data))
	assert.ErrorIs(cb.err, expected)

	b, err := io.ReadAll(replay.Body)
	assert.Equal("part", string(b))
	assert.ErrorIs(err, expected)
}

func TestCaptureBody(t *testing.T) {
	t.Run("None", testCaptureBodyNone)
	t.Run("Replay", testCaptureBodyReplay)
	t.Run("Error", testCaptureBodyError)
}
