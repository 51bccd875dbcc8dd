package pdfium

import (
	"fmt"
)

// renderContext is the set of device parameters a page was rendered with,
// plus a token identifying the source page. The token is a relation, not
// an ownership: bitmap and page can be closed independently.
type renderContext struct {
	pageToken uint64
	startX    int
	startY    int
	sizeX     int
	sizeY     int
	rotate    int
}

// PosConv translates between coordinates on a bitmap and the page it was
// rendered from.
type PosConv struct {
	lib  *Library
	page *Page
	ctx  renderContext
}

// PosConv returns a translator between bitmap and page coordinates.
//
// The page must be passed in explicitly: the bitmap only records a page
// token, so that bitmap and page lifetimes stay independent. If the
// bitmap was not rendered from a page, the given page is not the one it
// was rendered from, or that page has been closed, PosConv fails with
// ErrPageMismatch before any native call is made.
func (b *Bitmap) PosConv(page *Page) (*PosConv, error) {
	if b.pos == nil {
		return nil, fmt.Errorf("%w: bitmap has no render context", ErrPageMismatch)
	}
	if page == nil || page.token != b.pos.pageToken {
		return nil, ErrPageMismatch
	}
	if page.closed {
		return nil, fmt.Errorf("%w: page is closed", ErrPageMismatch)
	}
	return &PosConv{lib: b.lib, page: page, ctx: *b.pos}, nil
}

// ToPage translates bitmap coordinates to page coordinates.
func (pc *PosConv) ToPage(bitmapX, bitmapY int) (pageX, pageY float64, err error) {
	if pc.page.closed {
		return 0, 0, fmt.Errorf("%w: page is closed", ErrPageMismatch)
	}
	px, py, ok := pc.lib.raw.DeviceToPage(pc.page.raw,
		pc.ctx.startX, pc.ctx.startY, pc.ctx.sizeX, pc.ctx.sizeY, pc.ctx.rotate,
		bitmapX, bitmapY)
	if !ok {
		return 0, 0, fmt.Errorf("%w: device to page", ErrTranslation)
	}
	return px, py, nil
}

// ToBitmap translates page coordinates to bitmap coordinates. The result
// is pixel-snapped.
func (pc *PosConv) ToBitmap(pageX, pageY float64) (bitmapX, bitmapY int, err error) {
	if pc.page.closed {
		return 0, 0, fmt.Errorf("%w: page is closed", ErrPageMismatch)
	}
	bx, by, ok := pc.lib.raw.PageToDevice(pc.page.raw,
		pc.ctx.startX, pc.ctx.startY, pc.ctx.sizeX, pc.ctx.sizeY, pc.ctx.rotate,
		pageX, pageY)
	if !ok {
		return 0, 0, fmt.Errorf("%w: page to device", ErrTranslation)
	}
	return bx, by, nil
}
