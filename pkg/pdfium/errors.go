package pdfium

import (
	"errors"
	"fmt"

	"github.com/novvoo/go-pdfium/pkg/pdfium/raw"
)

// Errors returned by the helper layer. All failures surface immediately
// at the call site; nothing in this package retries or falls back.
var (
	// ErrAllocation means the library returned a null or invalid buffer
	// where one was required.
	ErrAllocation = errors.New("pdfium: buffer allocation failed")
	// ErrInvalidArgument means a caller-supplied stride, buffer or
	// rectangle violates the minimum-size or bounds invariant.
	ErrInvalidArgument = errors.New("pdfium: invalid argument")
	// ErrTranslation means a native coordinate-transform call failed.
	ErrTranslation = errors.New("pdfium: coordinate translation failed")
	// ErrPageMismatch means coordinate translation was requested against
	// a page that does not match, or no longer exists relative to, the
	// bitmap's recorded render context.
	ErrPageMismatch = errors.New("pdfium: bitmap does not belong to the given page")
	// ErrBufferInUse means a library-owned buffer cannot be released
	// because array or image views of it are still open.
	ErrBufferInUse = errors.New("pdfium: buffer has outstanding views")
	// ErrClosed means the operation was attempted on a closed handle.
	ErrClosed = errors.New("pdfium: object is closed")
)

// Document load errors, mapped from the library's last-error code.
var (
	ErrUnknown   = errors.New("pdfium: unknown error")
	ErrBadFile   = errors.New("pdfium: file not found or could not be opened")
	ErrBadFormat = errors.New("pdfium: file is not a PDF or is corrupted")
	ErrPassword  = errors.New("pdfium: password required or incorrect password")
	ErrSecurity  = errors.New("pdfium: unsupported security scheme")
	ErrBadPage   = errors.New("pdfium: page not found or content error")
)

func loadError(code uint64) error {
	switch code {
	case raw.ErrFile:
		return ErrBadFile
	case raw.ErrFormat:
		return ErrBadFormat
	case raw.ErrPassword:
		return ErrPassword
	case raw.ErrSecurity:
		return ErrSecurity
	case raw.ErrPage:
		return ErrBadPage
	default:
		return fmt.Errorf("%w (code %d)", ErrUnknown, code)
	}
}
