package observe

import (
	"bufio"
	"io"
	"net"
	"net/http"
)

// Writer is the decorator interface for http.ResponseWriter instances whose outcome
// is reported to request observers.  Instances are created with New.
type Writer interface {
	http.ResponseWriter

	// StatusCode returns the response code established through WriteHeader, either
	// explicitly or implicitly through Write, ReadFrom, or Flush.  If nothing has
	// been written yet, this method returns zero (0).
	StatusCode() int

	// ContentLength returns the count of bytes written to the response body so far.
	// It does not consult the Content-Length header.
	ContentLength() int64

	// Hijacked tests if the underlying connection was taken over by the handler.
	// A hijacked response has no status code unless one was written beforehand.
	Hijacked() bool

	// Unwrap returns the decorated http.ResponseWriter.  This allows
	// http.ResponseController to reach optional methods of the delegate.
	Unwrap() http.ResponseWriter
}

// writer is the basic Writer implementation
type writer struct {
	http.ResponseWriter
	statusCode    int
	contentLength int64
	hijacked      bool
}

func (w *writer) StatusCode() int {
	return w.statusCode
}

func (w *writer) ContentLength() int64 {
	return w.contentLength
}

func (w *writer) Hijacked() bool {
	return w.hijacked
}

func (w *writer) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *writer) Write(p []byte) (int, error) {
	if w.statusCode == 0 {
		w.WriteHeader(http.StatusOK)
	}

	c, err := w.ResponseWriter.Write(p)
	w.contentLength += int64(c)
	return c, err
}

func (w *writer) WriteHeader(statusCode int) {
	// informational responses may precede the real one
	if w.statusCode == 0 && (statusCode >= 200 || statusCode == http.StatusSwitchingProtocols) {
		w.statusCode = statusCode
	}

	// a second WriteHeader is a bug in the handler, so let net/http complain about it
	w.ResponseWriter.WriteHeader(statusCode)
}

type flusher struct {
	*writer
}

func (f flusher) Flush() {
	if f.statusCode == 0 {
		f.WriteHeader(http.StatusOK)
	}

	f.ResponseWriter.(http.Flusher).Flush()
}

type hijacker struct {
	*writer
}

func (h hijacker) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	c, rw, err := h.ResponseWriter.(http.Hijacker).Hijack()
	if err == nil {
		h.hijacked = true
	}

	return c, rw, err
}

type readerFrom struct {
	*writer
}

func (rf readerFrom) ReadFrom(r io.Reader) (int64, error) {
	if rf.statusCode == 0 {
		rf.WriteHeader(http.StatusOK)
	}

	c, err := rf.ResponseWriter.(io.ReaderFrom).ReadFrom(r)
	rf.contentLength += c
	return c, err
}

const (
	flusherMask = 1 << iota
	hijackerMask
	readerFromMask
)

// decorators produces a Writer for each combination of optional interfaces.
// The index into this array is the bit mask of interfaces the delegate implements.
var decorators = [8]func(*writer) Writer{
	// none
	func(w *writer) Writer {
		return w
	},
	// http.Flusher
	func(w *writer) Writer {
		return struct {
			*writer
			http.Flusher
		}{w, flusher{w}}
	},
	// http.Hijacker
	func(w *writer) Writer {
		return struct {
			*writer
			http.Hijacker
		}{w, hijacker{w}}
	},
	// http.Hijacker, http.Flusher
	func(w *writer) Writer {
		return struct {
			*writer
			http.Hijacker
			http.Flusher
		}{w, hijacker{w}, flusher{w}}
	},
	// io.ReaderFrom
	func(w *writer) Writer {
		return struct {
			*writer
			io.ReaderFrom
		}{w, readerFrom{w}}
	},
	// io.ReaderFrom, http.Flusher
	func(w *writer) Writer {
		return struct {
			*writer
			io.ReaderFrom
			http.Flusher
		}{w, readerFrom{w}, flusher{w}}
	},
	// io.ReaderFrom, http.Hijacker
	func(w *writer) Writer {
		return struct {
			*writer
			io.ReaderFrom
			http.Hijacker
		}{w, readerFrom{w}, hijacker{w}}
	},
	// io.ReaderFrom, http.Hijacker, http.Flusher
	func(w *writer) Writer {
		return struct {
			*writer
			io.ReaderFrom
			http.Hijacker
			http.Flusher
		}{w, readerFrom{w}, hijacker{w}, flusher{w}}
	},
}

// New decorates an http.ResponseWriter so that its outcome can be examined after
// a handler returns.  A fresh Writer is always created, even if delegate is itself
// a Writer, so that each caller sees only what happened downstream of it.
//
// The returned Writer implements http.Flusher, http.Hijacker, and io.ReaderFrom
// exactly when the delegate does.  Any other optional methods remain reachable
// through http.ResponseController, which uses Unwrap.
func New(delegate http.ResponseWriter) Writer {
	w := &writer{
		ResponseWriter: delegate,
	}

	mask := 0
	if _, ok := delegate.(http.Flusher); ok {
		mask |= flusherMask
	}

	if _, ok := delegate.(http.Hijacker); ok {
		mask |= hijackerMask
	}

	if _, ok := delegate.(io.ReaderFrom); ok {
		mask |= readerFromMask
	}

	return decorators[mask](w)
}
