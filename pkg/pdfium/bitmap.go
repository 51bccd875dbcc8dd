package pdfium

import (
	"fmt"
	"image/color"

	"github.com/novvoo/go-pdfium/pkg/pdfium/raw"
)

// Format identifies the channel layout and bit depth of a bitmap. The
// values match the native FPDFBitmap_* constants.
type Format int

const (
	// FormatGray is 8 bits per pixel, one channel.
	FormatGray Format = raw.FormatGray
	// FormatBGR is 24 bits per pixel, three channels.
	FormatBGR Format = raw.FormatBGR
	// FormatBGRx is 32 bits per pixel, the fourth byte unused.
	FormatBGRx Format = raw.FormatBGRx
	// FormatBGRA is 32 bits per pixel with alpha.
	FormatBGRA Format = raw.FormatBGRA
)

// Channels returns the number of channels per pixel.
func (f Format) Channels() int {
	switch f {
	case FormatGray:
		return 1
	case FormatBGR:
		return 3
	case FormatBGRx, FormatBGRA:
		return 4
	default:
		return 0
	}
}

// Mode returns the symbolic mode string for the format, taking the
// byte-order flag into account.
func (f Format) Mode(reverseByteOrder bool) string {
	if reverseByteOrder {
		switch f {
		case FormatGray:
			return "L"
		case FormatBGR:
			return "RGB"
		case FormatBGRx:
			return "RGBX"
		case FormatBGRA:
			return "RGBA"
		}
	} else {
		switch f {
		case FormatGray:
			return "L"
		case FormatBGR:
			return "BGR"
		case FormatBGRx:
			return "BGRX"
		case FormatBGRA:
			return "BGRA"
		}
	}
	return ""
}

func (f Format) valid() bool {
	return f.Channels() != 0
}

// Bitmap wraps a native bitmap handle together with its pixel buffer.
//
// A bitmap is either native (the buffer was allocated by this wrapper or
// supplied by the caller; destroying the handle leaves the buffer alone)
// or foreign (the buffer was allocated by the rendering library;
// destroying the handle frees it). Close refuses to destroy a foreign
// bitmap while array or image views of its buffer are open.
type Bitmap struct {
	lib *Library
	raw raw.Bitmap
	buf []byte

	width    int
	height   int
	stride   int
	format   Format
	reverse  bool
	channels int
	mode     string

	// freeBuffer is set for foreign bitmaps: destroying the handle
	// frees the buffer, so the buf slice dies with the handle.
	freeBuffer bool
	views      int
	closed     bool

	// render context recorded when a page was rasterized into this
	// bitmap; nil otherwise
	pos *renderContext
}

// BitmapOptions carries the optional parameters of NewBitmap.
type BitmapOptions struct {
	// ReverseByteOrder marks the bitmap as using reversed channel order
	// (RGB(A) instead of BGR(A)).
	ReverseByteOrder bool
	// Buffer is a caller-supplied pixel buffer. It must hold at least
	// stride*height bytes. If nil, a zeroed buffer is allocated.
	Buffer []byte
	// Stride is an explicit row length in bytes. It must be at least
	// width*channels. If zero, the fully packed stride is used.
	Stride int
}

// NewBitmap creates a bitmap whose buffer is owned on the Go side: either
// the caller's, or freshly allocated here. Destroying the handle never
// frees the buffer.
func (l *Library) NewBitmap(width, height int, format Format, opts *BitmapOptions) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: bitmap size %dx%d", ErrInvalidArgument, width, height)
	}
	if !format.valid() {
		return nil, fmt.Errorf("%w: unknown bitmap format %d", ErrInvalidArgument, format)
	}
	if opts == nil {
		opts = &BitmapOptions{}
	}

	stride := opts.Stride
	if stride == 0 {
		stride = width * format.Channels()
	} else if stride < width*format.Channels() {
		return nil, fmt.Errorf("%w: stride %d below minimum %d", ErrInvalidArgument, stride, width*format.Channels())
	}

	buf := opts.Buffer
	if buf == nil {
		buf = make([]byte, stride*height)
	} else if len(buf) < stride*height {
		return nil, fmt.Errorf("%w: buffer length %d below minimum %d", ErrInvalidArgument, len(buf), stride*height)
	}

	h := l.raw.BitmapCreateEx(width, height, int(format), buf, stride)
	if h == 0 {
		return nil, fmt.Errorf("%w: FPDFBitmap_CreateEx returned null", ErrAllocation)
	}
	return l.BitmapFromRaw(h, opts.ReverseByteOrder, buf)
}

// NewForeignBitmap creates a bitmap whose buffer is allocated by the
// rendering library. Unless forcePacked is set, the library may pad rows
// beyond width*channels. Destroying the handle frees the buffer.
func (l *Library) NewForeignBitmap(width, height int, format Format, reverseByteOrder, forcePacked bool) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: bitmap size %dx%d", ErrInvalidArgument, width, height)
	}
	if !format.valid() {
		return nil, fmt.Errorf("%w: unknown bitmap format %d", ErrInvalidArgument, format)
	}
	stride := 0
	if forcePacked {
		stride = width * format.Channels()
	}
	h := l.raw.BitmapCreateEx(width, height, int(format), nil, stride)
	if h == 0 {
		return nil, fmt.Errorf("%w: FPDFBitmap_CreateEx returned null", ErrAllocation)
	}
	return l.BitmapFromRaw(h, reverseByteOrder, nil)
}

// NewForeignBitmapSimple creates a bitmap through the library's simplest
// creation path: BGRA when alpha is set, BGRx otherwise, always
// library-owned.
func (l *Library) NewForeignBitmapSimple(width, height int, alpha, reverseByteOrder bool) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: bitmap size %dx%d", ErrInvalidArgument, width, height)
	}
	h := l.raw.BitmapCreate(width, height, alpha)
	if h == 0 {
		return nil, fmt.Errorf("%w: FPDFBitmap_Create returned null", ErrAllocation)
	}
	return l.BitmapFromRaw(h, reverseByteOrder, nil)
}

// BitmapFromRaw wraps an existing native bitmap handle. Width, height,
// format and stride are queried from the library. If externalBuf is nil,
// the library's own buffer is fetched and the bitmap is treated as
// foreign (destroy frees it); a non-nil externalBuf is the buffer the
// library was told to use directly, which destroy must not free.
func (l *Library) BitmapFromRaw(h raw.Bitmap, reverseByteOrder bool, externalBuf []byte) (*Bitmap, error) {
	width := l.raw.BitmapWidth(h)
	height := l.raw.BitmapHeight(h)
	format := Format(l.raw.BitmapFormat(h))
	stride := l.raw.BitmapStride(h)

	var buf []byte
	freeBuffer := false
	if externalBuf == nil {
		buf = l.raw.BitmapBuffer(h)
		if buf == nil {
			return nil, fmt.Errorf("%w: FPDFBitmap_GetBuffer returned null", ErrAllocation)
		}
		freeBuffer = true
	} else {
		buf = externalBuf
	}

	return &Bitmap{
		lib:        l,
		raw:        h,
		buf:        buf,
		width:      width,
		height:     height,
		stride:     stride,
		format:     format,
		reverse:    reverseByteOrder,
		channels:   format.Channels(),
		mode:       format.Mode(reverseByteOrder),
		freeBuffer: freeBuffer,
	}, nil
}

// Width returns the bitmap width in pixels.
func (b *Bitmap) Width() int { return b.width }

// Height returns the bitmap height in pixels.
func (b *Bitmap) Height() int { return b.height }

// Stride returns the number of bytes per row. It can exceed
// width*channels when the buffer has row padding.
func (b *Bitmap) Stride() int { return b.stride }

// Format returns the pixel format.
func (b *Bitmap) Format() Format { return b.format }

// ReverseByteOrder reports whether the bitmap uses reversed channel order.
func (b *Bitmap) ReverseByteOrder() bool { return b.reverse }

// Channels returns the number of channels per pixel.
func (b *Bitmap) Channels() int { return b.channels }

// Mode returns the symbolic mode string, e.g. "BGRA" or "RGBA".
func (b *Bitmap) Mode() string { return b.mode }

// Foreign reports whether the buffer is owned by the rendering library,
// i.e. whether Close frees it.
func (b *Bitmap) Foreign() bool { return b.freeBuffer }

// Raw returns the native bitmap handle.
func (b *Bitmap) Raw() raw.Bitmap { return b.raw }

// Buffer returns the pixel buffer, stride*height bytes. The slice aliases
// the bitmap memory: writes are visible to the library and to all views.
// For foreign bitmaps it must not be used after Close.
func (b *Bitmap) Buffer() []byte {
	if b.closed {
		return nil
	}
	return b.buf
}

// FillRect overwrites the pixels of a sub-rectangle with the given color.
// No alpha compositing is performed. The rectangle must lie within the
// bitmap bounds.
func (b *Bitmap) FillRect(left, top, width, height int, c color.RGBA) error {
	if b.closed {
		return ErrClosed
	}
	if left < 0 || top < 0 || width < 0 || height < 0 ||
		left+width > b.width || top+height > b.height {
		return fmt.Errorf("%w: rectangle (%d,%d,%d,%d) outside bitmap %dx%d",
			ErrInvalidArgument, left, top, width, height, b.width, b.height)
	}
	b.lib.raw.BitmapFillRect(b.raw, left, top, width, height, colorToHex(c, b.reverse))
	return nil
}

// colorToHex packs an RGBA color into the 8888 format FillRect expects:
// ARGB normally, ABGR for reverse byte order.
func colorToHex(c color.RGBA, reverseByteOrder bool) uint32 {
	if reverseByteOrder {
		return uint32(c.A)<<24 | uint32(c.B)<<16 | uint32(c.G)<<8 | uint32(c.R)
	}
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Close destroys the native bitmap handle.
//
// For a foreign bitmap this frees the pixel buffer, so Close fails with
// ErrBufferInUse while array or image views are still open. For a native
// bitmap the buffer stays valid; its lifetime is whoever allocated it.
// Closing an already closed bitmap is a no-op.
func (b *Bitmap) Close() error {
	if b.closed {
		return nil
	}
	if b.freeBuffer && b.views > 0 {
		return fmt.Errorf("%w: %d open", ErrBufferInUse, b.views)
	}
	b.lib.raw.BitmapDestroy(b.raw)
	if b.freeBuffer {
		b.buf = nil
	}
	b.closed = true
	return nil
}

func (b *Bitmap) addView() error {
	if b.closed {
		return ErrClosed
	}
	b.views++
	return nil
}

func (b *Bitmap) dropView() {
	if b.views > 0 {
		b.views--
	}
}
