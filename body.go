package httphook

import (
	"bytes"
	"io"
	"net/http"
)

// errReader is an io.Reader that always returns an error
type errReader struct {
	err error
}

func (er errReader) Read([]byte) (int, error) {
	return 0, er.err
}

// replayBody is the request body handed to the decorated handler.  It reads from
// the captured bytes, but closes the original body.
type replayBody struct {
	io.Reader
	original io.Closer
}

func (rb *replayBody) Close() error {
	return rb.original.Close()
}

// capturedBody is a request body drained into memory.
type capturedBody struct {
	data []byte
	err  error
}

// newReader returns a reader that replays exactly what was read from the original
// body, including any error that interrupted the read.
func (cb capturedBody) newReader() io.Reader {
	r := io.Reader(bytes.NewReader(cb.data))
	if cb.err != nil {
		r = io.MultiReader(r, errReader{err: cb.err})
	}

	return r
}

// observed returns the copy of the body that gets dispatched to observers.
func (cb capturedBody) observed() []byte {
	return bytes.Clone(cb.data)
}

// captureBody drains the body of the given request.  The returned request is a shallow
// copy of the original whose body replays the captured bytes, and it is the request that
// must be passed to the next handler.  Requests without a body are returned as is.
func captureBody(request *http.Request) (*http.Request, capturedBody) {
	var cb capturedBody
	if request.Body == nil || request.Body == http.NoBody {
		return request, cb
	}

	cb.data, cb.err = io.ReadAll(request.Body)

	replay := new(http.Request)
	*replay = *request
	replay.Body = &replayBody{
		Reader:   cb.newReader(),
		original: request.Body,
	}

	replay.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(cb.newReader()), nil
	}

	return replay, cb
}
