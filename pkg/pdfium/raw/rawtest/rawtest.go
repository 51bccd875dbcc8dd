// Package rawtest provides an in-memory implementation of raw.Library for
// tests. It models the parts of the native library the helper layer
// depends on: bitmap allocation with instrumented frees, rectangle fills,
// the device/page affine transforms, and canned document content.
package rawtest

import (
	"unicode/utf16"

	"github.com/novvoo/go-pdfium/pkg/pdfium/raw"
)

// PageSpec describes one fake page.
type PageSpec struct {
	Width  float64 // points
	Height float64
	Text   string
}

// OutlineSpec describes one fake bookmark node.
type OutlineSpec struct {
	Title    string
	Children []OutlineSpec
}

// DocSpec describes a fake document registered under a path.
type DocSpec struct {
	Pages       []PageSpec
	Meta        map[string]string
	Password    string
	Version     int // PDF version * 10
	Permissions uint64
	Outline     []OutlineSpec
}

type bitmap struct {
	width, height  int
	stride, format int
	buf            []byte
	external       bool // caller-supplied buffer, never freed by the library
}

type page struct {
	doc  *DocSpec
	spec PageSpec
}

type bookmark struct {
	doc  *DocSpec
	node OutlineSpec
	next []OutlineSpec // remaining siblings
}

// Lib is a fake raw.Library. Not safe for concurrent use, matching the
// threading model of the real library.
type Lib struct {
	next      uintptr
	docs      map[string]*DocSpec
	docHandle map[raw.Document]*DocSpec
	pages     map[raw.Page]*page
	texts     map[raw.TextPage]*page
	bitmaps   map[raw.Bitmap]*bitmap
	bookmarks map[raw.Bookmark]*bookmark
	lastError uint64

	// FreedForeign counts destroyed bitmaps whose buffer the fake
	// library had allocated. Tests use it as leak instrumentation.
	FreedForeign int
	// FailBufferFetch makes BitmapBuffer return nil, simulating a null
	// buffer pointer from the library.
	FailBufferFetch bool
	// FailTransforms makes DeviceToPage and PageToDevice report failure.
	FailTransforms bool
	// RenderFill is the byte written over the render area by
	// RenderPageBitmap.
	RenderFill byte

	closed bool
}

// New returns an empty fake library.
func New() *Lib {
	return &Lib{
		docs:       make(map[string]*DocSpec),
		docHandle:  make(map[raw.Document]*DocSpec),
		pages:      make(map[raw.Page]*page),
		texts:      make(map[raw.TextPage]*page),
		bitmaps:    make(map[raw.Bitmap]*bitmap),
		bookmarks:  make(map[raw.Bookmark]*bookmark),
		RenderFill: 0x33,
	}
}

// AddDocument registers a document spec under a fake path and returns the
// path for use with LoadDocument.
func (l *Lib) AddDocument(path string, spec DocSpec) string {
	d := spec
	l.docs[path] = &d
	return path
}

// OpenBitmaps reports the number of live bitmap handles.
func (l *Lib) OpenBitmaps() int { return len(l.bitmaps) }

// Closed reports whether Close was called.
func (l *Lib) Closed() bool { return l.closed }

func (l *Lib) handle() uintptr {
	l.next++
	return l.next
}

func (l *Lib) Close() { l.closed = true }

func (l *Lib) LoadDocument(path, password string) raw.Document {
	spec, ok := l.docs[path]
	if !ok {
		l.lastError = raw.ErrFile
		return 0
	}
	if spec.Password != "" && password != spec.Password {
		l.lastError = raw.ErrPassword
		return 0
	}
	h := raw.Document(l.handle())
	l.docHandle[h] = spec
	l.lastError = raw.ErrSuccess
	return h
}

func (l *Lib) LoadMemDocument(data []byte, password string) raw.Document {
	// The fake keys documents by their leading bytes, registered as a
	// pseudo-path via AddDocument.
	return l.LoadDocument(string(data), password)
}

func (l *Lib) CloseDocument(doc raw.Document) {
	delete(l.docHandle, doc)
}

func (l *Lib) LastError() uint64 { return l.lastError }

func (l *Lib) FileVersion(doc raw.Document) (int, bool) {
	spec, ok := l.docHandle[doc]
	if !ok || spec.Version == 0 {
		return 0, false
	}
	return spec.Version, true
}

func (l *Lib) DocPermissions(doc raw.Document) uint64 {
	if spec, ok := l.docHandle[doc]; ok {
		return spec.Permissions
	}
	return 0
}

func (l *Lib) PageCount(doc raw.Document) int {
	if spec, ok := l.docHandle[doc]; ok {
		return len(spec.Pages)
	}
	return 0
}

func (l *Lib) MetaText(doc raw.Document, tag string) []byte {
	spec, ok := l.docHandle[doc]
	if !ok {
		return nil
	}
	return encodeUTF16(spec.Meta[tag])
}

func (l *Lib) LoadPage(doc raw.Document, index int) raw.Page {
	spec, ok := l.docHandle[doc]
	if !ok || index < 0 || index >= len(spec.Pages) {
		l.lastError = raw.ErrPage
		return 0
	}
	h := raw.Page(l.handle())
	l.pages[h] = &page{doc: spec, spec: spec.Pages[index]}
	return h
}

func (l *Lib) ClosePage(p raw.Page) {
	delete(l.pages, p)
}

func (l *Lib) PageWidth(p raw.Page) float64 {
	if pg, ok := l.pages[p]; ok {
		return pg.spec.Width
	}
	return 0
}

func (l *Lib) PageHeight(p raw.Page) float64 {
	if pg, ok := l.pages[p]; ok {
		return pg.spec.Height
	}
	return 0
}

func (l *Lib) RenderPageBitmap(bm raw.Bitmap, p raw.Page, startX, startY, sizeX, sizeY, rotate, flags int) {
	b, ok := l.bitmaps[bm]
	if !ok {
		return
	}
	channels := channelCount(b.format)
	for y := startY; y < startY+sizeY && y < b.height; y++ {
		if y < 0 {
			continue
		}
		row := b.buf[y*b.stride:]
		for x := startX; x < startX+sizeX && x < b.width; x++ {
			if x < 0 {
				continue
			}
			for c := 0; c < channels; c++ {
				row[x*channels+c] = l.RenderFill
			}
		}
	}
}

func channelCount(format int) int {
	switch format {
	case raw.FormatGray:
		return 1
	case raw.FormatBGR:
		return 3
	default:
		return 4
	}
}

func (l *Lib) BitmapCreate(width, height int, alpha bool) raw.Bitmap {
	format := raw.FormatBGRx
	if alpha {
		format = raw.FormatBGRA
	}
	return l.BitmapCreateEx(width, height, format, nil, 0)
}

func (l *Lib) BitmapCreateEx(width, height, format int, buf []byte, stride int) raw.Bitmap {
	if width <= 0 || height <= 0 {
		return 0
	}
	external := buf != nil
	if stride == 0 {
		// library-chosen stride: rows padded to a 4-byte boundary
		stride = (width*channelCount(format) + 3) &^ 3
	}
	if buf == nil {
		buf = make([]byte, stride*height)
	}
	h := raw.Bitmap(l.handle())
	l.bitmaps[h] = &bitmap{
		width: width, height: height,
		stride: stride, format: format,
		buf: buf, external: external,
	}
	return h
}

func (l *Lib) BitmapDestroy(bm raw.Bitmap) {
	b, ok := l.bitmaps[bm]
	if !ok {
		return
	}
	if !b.external {
		l.FreedForeign++
	}
	delete(l.bitmaps, bm)
}

func (l *Lib) BitmapWidth(bm raw.Bitmap) int {
	if b, ok := l.bitmaps[bm]; ok {
		return b.width
	}
	return 0
}

func (l *Lib) BitmapHeight(bm raw.Bitmap) int {
	if b, ok := l.bitmaps[bm]; ok {
		return b.height
	}
	return 0
}

func (l *Lib) BitmapStride(bm raw.Bitmap) int {
	if b, ok := l.bitmaps[bm]; ok {
		return b.stride
	}
	return 0
}

func (l *Lib) BitmapFormat(bm raw.Bitmap) int {
	if b, ok := l.bitmaps[bm]; ok {
		return b.format
	}
	return raw.FormatUnknown
}

func (l *Lib) BitmapBuffer(bm raw.Bitmap) []byte {
	if l.FailBufferFetch {
		return nil
	}
	if b, ok := l.bitmaps[bm]; ok {
		return b.buf
	}
	return nil
}

func (l *Lib) BitmapFillRect(bm raw.Bitmap, left, top, width, height int, color uint32) {
	b, ok := l.bitmaps[bm]
	if !ok {
		return
	}
	a := byte(color >> 24)
	c0 := byte(color >> 16)
	c1 := byte(color >> 8)
	c2 := byte(color)
	channels := channelCount(b.format)
	for y := top; y < top+height && y < b.height; y++ {
		if y < 0 {
			continue
		}
		row := b.buf[y*b.stride:]
		for x := left; x < left+width && x < b.width; x++ {
			if x < 0 {
				continue
			}
			px := row[x*channels : x*channels+channels]
			switch b.format {
			case raw.FormatGray:
				px[0] = c2
			case raw.FormatBGR:
				px[0], px[1], px[2] = c2, c1, c0
			case raw.FormatBGRx:
				px[0], px[1], px[2], px[3] = c2, c1, c0, 0xFF
			case raw.FormatBGRA:
				px[0], px[1], px[2], px[3] = c2, c1, c0, a
			}
		}
	}
}

// displayMatrix reproduces the page-to-device matrix the native library
// builds for a render context: a*x + c*y + e, b*x + d*y + f.
func (l *Lib) displayMatrix(p raw.Page, startX, startY, sizeX, sizeY, rotate int) (a, b, c, d, e, f float64, ok bool) {
	pg, found := l.pages[p]
	if !found || pg.spec.Width == 0 || pg.spec.Height == 0 {
		return 0, 0, 0, 0, 0, 0, false
	}
	pw, ph := pg.spec.Width, pg.spec.Height
	xPos, yPos := float64(startX), float64(startY)
	xSize, ySize := float64(sizeX), float64(sizeY)

	var x0, y0, x1, y1, x2, y2 float64
	switch rotate & 3 {
	case 0:
		x0, y0 = xPos, yPos+ySize
		x1, y1 = xPos, yPos
		x2, y2 = xPos+xSize, yPos+ySize
	case 1:
		x0, y0 = xPos, yPos
		x1, y1 = xPos+xSize, yPos
		x2, y2 = xPos, yPos+ySize
	case 2:
		x0, y0 = xPos+xSize, yPos
		x1, y1 = xPos+xSize, yPos+ySize
		x2, y2 = xPos, yPos
	case 3:
		x0, y0 = xPos+xSize, yPos+ySize
		x1, y1 = xPos, yPos+ySize
		x2, y2 = xPos+xSize, yPos
	}
	return (x2 - x0) / pw, (y2 - y0) / pw, (x1 - x0) / ph, (y1 - y0) / ph, x0, y0, true
}

func (l *Lib) DeviceToPage(p raw.Page, startX, startY, sizeX, sizeY, rotate, deviceX, deviceY int) (float64, float64, bool) {
	if l.FailTransforms {
		return 0, 0, false
	}
	a, b, c, d, e, f, ok := l.displayMatrix(p, startX, startY, sizeX, sizeY, rotate)
	if !ok {
		return 0, 0, false
	}
	det := a*d - b*c
	if det == 0 {
		return 0, 0, false
	}
	dx, dy := float64(deviceX)-e, float64(deviceY)-f
	px := (dx*d - dy*c) / det
	py := (dy*a - dx*b) / det
	return px, py, true
}

func (l *Lib) PageToDevice(p raw.Page, startX, startY, sizeX, sizeY, rotate int, pageX, pageY float64) (int, int, bool) {
	if l.FailTransforms {
		return 0, 0, false
	}
	a, b, c, d, e, f, ok := l.displayMatrix(p, startX, startY, sizeX, sizeY, rotate)
	if !ok {
		return 0, 0, false
	}
	dx := a*pageX + c*pageY + e
	dy := b*pageX + d*pageY + f
	return int(dx + 0.5), int(dy + 0.5), true
}

func (l *Lib) LoadTextPage(p raw.Page) raw.TextPage {
	pg, ok := l.pages[p]
	if !ok {
		return 0
	}
	h := raw.TextPage(l.handle())
	l.texts[h] = pg
	return h
}

func (l *Lib) CloseTextPage(tp raw.TextPage) {
	delete(l.texts, tp)
}

func (l *Lib) TextCountChars(tp raw.TextPage) int {
	pg, ok := l.texts[tp]
	if !ok {
		return -1
	}
	return len(utf16.Encode([]rune(pg.spec.Text)))
}

func (l *Lib) TextGetText(tp raw.TextPage, start, count int) []byte {
	pg, ok := l.texts[tp]
	if !ok {
		return nil
	}
	units := utf16.Encode([]rune(pg.spec.Text))
	if start < 0 || start >= len(units) || count <= 0 {
		return nil
	}
	end := start + count
	if end > len(units) {
		end = len(units)
	}
	out := make([]byte, 0, 2*(end-start))
	for _, u := range units[start:end] {
		out = append(out, byte(u), byte(u>>8))
	}
	return out
}

func (l *Lib) BookmarkFirstChild(doc raw.Document, parent raw.Bookmark) raw.Bookmark {
	spec, ok := l.docHandle[doc]
	if !ok {
		return 0
	}
	var children []OutlineSpec
	if parent == 0 {
		children = spec.Outline
	} else {
		node, ok := l.bookmarks[parent]
		if !ok {
			return 0
		}
		children = node.node.Children
	}
	return l.bookmarkHandle(spec, children)
}

func (l *Lib) BookmarkNextSibling(doc raw.Document, bm raw.Bookmark) raw.Bookmark {
	node, ok := l.bookmarks[bm]
	if !ok {
		return 0
	}
	return l.bookmarkHandle(node.doc, node.next)
}

func (l *Lib) bookmarkHandle(doc *DocSpec, nodes []OutlineSpec) raw.Bookmark {
	if len(nodes) == 0 {
		return 0
	}
	h := raw.Bookmark(l.handle())
	l.bookmarks[h] = &bookmark{doc: doc, node: nodes[0], next: nodes[1:]}
	return h
}

func (l *Lib) BookmarkTitle(bm raw.Bookmark) []byte {
	node, ok := l.bookmarks[bm]
	if !ok {
		return nil
	}
	return encodeUTF16(node.node.Title)
}

func encodeUTF16(s string) []byte {
	if s == "" {
		return nil
	}
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, 2*len(units))
	for _, u := range units {
		out = append(out, byte(u), byte(u>>8))
	}
	return out
}
