package pdfium

import (
	"fmt"
	"image/color"
	"math"
	"sync/atomic"

	"github.com/novvoo/go-pdfium/pkg/pdfium/raw"
)

// pageTokens issues process-unique page identities for render-context
// bookkeeping.
var pageTokens atomic.Uint64

// Page represents a loaded page of a document.
type Page struct {
	doc    *Document
	raw    raw.Page
	index  int
	token  uint64
	closed bool
}

// Index returns the zero-based page index.
func (p *Page) Index() int { return p.index }

// Raw returns the native page handle.
func (p *Page) Raw() raw.Page { return p.raw }

// Width returns the page width in points.
func (p *Page) Width() float64 { return p.doc.lib.raw.PageWidth(p.raw) }

// Height returns the page height in points.
func (p *Page) Height() float64 { return p.doc.lib.raw.PageHeight(p.raw) }

// Close releases the page handle. Closing twice is a no-op.
func (p *Page) Close() error {
	if p.closed {
		return nil
	}
	p.doc.lib.raw.ClosePage(p.raw)
	p.closed = true
	p.doc.forgetPage(p)
	return nil
}

// RenderOptions controls page rasterization.
type RenderOptions struct {
	// Scale is the zoom factor relative to 72 dpi. Zero means 1.
	Scale float64
	// Rotation rotates the output by 0, 90, 180 or 270 degrees
	// clockwise.
	Rotation int
	// Grayscale renders into a single-channel bitmap.
	Grayscale bool
	// ReverseByteOrder asks the library to emit RGB(A) instead of
	// BGR(A) channel order.
	ReverseByteOrder bool
	// DrawAnnotations includes annotations in the output.
	DrawAnnotations bool
	// LCDText optimizes text rendering for LCD displays.
	LCDText bool
	// FillColor is the color the bitmap is filled with before
	// rendering. The zero value means opaque white. An alpha below 255
	// switches the output format to BGRA.
	FillColor *color.RGBA
}

// deviceRotation converts a rotation in degrees to the library's
// quarter-turn constant.
func deviceRotation(degrees int) (int, error) {
	switch degrees {
	case 0:
		return 0, nil
	case 90:
		return 1, nil
	case 180:
		return 2, nil
	case 270:
		return 3, nil
	default:
		return 0, fmt.Errorf("%w: rotation %d", ErrInvalidArgument, degrees)
	}
}

// Render rasterizes the page into a new native bitmap and records the
// render context on it, so PosConv can translate coordinates later.
func (p *Page) Render(opts RenderOptions) (*Bitmap, error) {
	if p.closed {
		return nil, ErrClosed
	}
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	if scale < 0 {
		return nil, fmt.Errorf("%w: scale %v", ErrInvalidArgument, scale)
	}
	rotate, err := deviceRotation(opts.Rotation)
	if err != nil {
		return nil, err
	}

	fill := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if opts.FillColor != nil {
		fill = *opts.FillColor
	}

	width := int(math.Ceil(p.Width() * scale))
	height := int(math.Ceil(p.Height() * scale))
	if rotate%2 == 1 {
		width, height = height, width
	}

	format := FormatBGR
	switch {
	case opts.Grayscale:
		format = FormatGray
	case fill.A < 255:
		format = FormatBGRA
	}

	bm, err := p.doc.lib.NewBitmap(width, height, format, &BitmapOptions{
		ReverseByteOrder: opts.ReverseByteOrder,
	})
	if err != nil {
		return nil, err
	}
	if err := bm.FillRect(0, 0, width, height, fill); err != nil {
		bm.Close()
		return nil, err
	}

	flags := 0
	if opts.DrawAnnotations {
		flags |= raw.FlagAnnot
	}
	if opts.LCDText {
		flags |= raw.FlagLCDText
	}
	if opts.Grayscale {
		flags |= raw.FlagGrayscale
	}
	if opts.ReverseByteOrder {
		flags |= raw.FlagReverseByteOrder
	}

	p.doc.lib.raw.RenderPageBitmap(bm.raw, p.raw, 0, 0, width, height, rotate, flags)
	bm.pos = &renderContext{
		pageToken: p.token,
		startX:    0, startY: 0,
		sizeX: width, sizeY: height,
		rotate: rotate,
	}
	return bm, nil
}

// Text extracts the page text in natural order.
func (p *Page) Text() (string, error) {
	if p.closed {
		return "", ErrClosed
	}
	tp := p.doc.lib.raw.LoadTextPage(p.raw)
	if tp == 0 {
		return "", fmt.Errorf("%w: FPDFText_LoadPage returned null", ErrAllocation)
	}
	defer p.doc.lib.raw.CloseTextPage(tp)

	count := p.doc.lib.raw.TextCountChars(tp)
	if count < 0 {
		return "", fmt.Errorf("pdfium: could not count characters on page %d", p.index)
	}
	if count == 0 {
		return "", nil
	}
	return decodeUTF16(p.doc.lib.raw.TextGetText(tp, 0, count))
}
