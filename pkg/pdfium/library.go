// Package pdfium is a convenience layer over the PDFium rendering
// library. It wraps the raw ABI with document, page and bitmap types that
// manage buffer ownership, expose zero-copy views and translate between
// bitmap and page coordinates.
//
// The native library is treated as accessible from a single logical
// thread of control at a time per document or bitmap; this package
// performs no internal locking.
package pdfium

import (
	"github.com/novvoo/go-pdfium/pkg/pdfium/raw"
)

// Library is a loaded instance of the native rendering library.
type Library struct {
	raw raw.Library
}

// Load loads the native PDFium library and returns a Library wrapping it.
// Optional names are extra shared-object candidates tried before the
// defaults.
func Load(names ...string) (*Library, error) {
	r, err := raw.Load(names...)
	if err != nil {
		return nil, err
	}
	return New(r), nil
}

// New wraps an existing raw library implementation. Useful for tests and
// for callers that manage loading themselves.
func New(r raw.Library) *Library {
	return &Library{raw: r}
}

// Raw returns the underlying raw library for callers that need to drop
// below the helper layer.
func (l *Library) Raw() raw.Library {
	return l.raw
}

// Close releases the native library. No handles created from this
// Library may be used afterwards.
func (l *Library) Close() {
	l.raw.Close()
}
