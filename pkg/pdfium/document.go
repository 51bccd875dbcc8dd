package pdfium

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/novvoo/go-pdfium/pkg/pdfium/raw"
)

// Document represents an open PDF document.
type Document struct {
	lib *Library
	raw raw.Document
	// data pins the source buffer of a memory-loaded document; the
	// library reads from it for the whole document lifetime
	data   []byte
	pages  map[*Page]struct{}
	closed bool
}

// OpenDocument opens a document from a file path. password may be empty.
func (l *Library) OpenDocument(path, password string) (*Document, error) {
	h := l.raw.LoadDocument(path, password)
	if h == 0 {
		return nil, fmt.Errorf("open %s: %w", path, loadError(l.raw.LastError()))
	}
	return &Document{lib: l, raw: h, pages: make(map[*Page]struct{})}, nil
}

// OpenDocumentBytes opens a document from a memory buffer. The buffer
// must not be modified while the document is open; the document keeps it
// referenced.
func (l *Library) OpenDocumentBytes(data []byte, password string) (*Document, error) {
	h := l.raw.LoadMemDocument(data, password)
	if h == 0 {
		return nil, fmt.Errorf("open memory document: %w", loadError(l.raw.LastError()))
	}
	return &Document{lib: l, raw: h, data: data, pages: make(map[*Page]struct{})}, nil
}

// Raw returns the native document handle.
func (d *Document) Raw() raw.Document { return d.raw }

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.lib.raw.PageCount(d.raw)
}

// Page loads the page with the given zero-based index. The caller owns
// the returned page; pages still open when the document is closed are
// closed with it.
func (d *Document) Page(index int) (*Page, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if index < 0 || index >= d.PageCount() {
		return nil, fmt.Errorf("%w: page index %d of %d", ErrInvalidArgument, index, d.PageCount())
	}
	h := d.lib.raw.LoadPage(d.raw, index)
	if h == 0 {
		return nil, fmt.Errorf("load page %d: %w", index, loadError(d.lib.raw.LastError()))
	}
	p := &Page{doc: d, raw: h, index: index, token: pageTokens.Add(1)}
	d.pages[p] = struct{}{}
	return p, nil
}

func (d *Document) forgetPage(p *Page) {
	delete(d.pages, p)
}

// Metadata returns the value of a metadata tag such as "Title", "Author",
// "Subject", "Keywords", "Creator", "Producer", "CreationDate" or
// "ModDate". Missing tags yield an empty string.
func (d *Document) Metadata(tag string) (string, error) {
	if d.closed {
		return "", ErrClosed
	}
	return decodeUTF16(d.lib.raw.MetaText(d.raw, tag))
}

// FileVersion returns the PDF version of the document multiplied by ten,
// e.g. 17 for PDF 1.7. ok is false if the version is unavailable (for
// instance for documents created in memory).
func (d *Document) FileVersion() (version int, ok bool) {
	return d.lib.raw.FileVersion(d.raw)
}

// Permissions returns the document permission flags.
func (d *Document) Permissions() uint64 {
	return d.lib.raw.DocPermissions(d.raw)
}

// OutlineItem is one entry of the document outline (table of contents).
type OutlineItem struct {
	Title    string
	Children []OutlineItem
}

// Outline returns the document's bookmark tree.
func (d *Document) Outline() ([]OutlineItem, error) {
	if d.closed {
		return nil, ErrClosed
	}
	return d.outlineChildren(0)
}

func (d *Document) outlineChildren(parent raw.Bookmark) ([]OutlineItem, error) {
	var items []OutlineItem
	for bm := d.lib.raw.BookmarkFirstChild(d.raw, parent); bm != 0; bm = d.lib.raw.BookmarkNextSibling(d.raw, bm) {
		title, err := decodeUTF16(d.lib.raw.BookmarkTitle(bm))
		if err != nil {
			return nil, err
		}
		children, err := d.outlineChildren(bm)
		if err != nil {
			return nil, err
		}
		items = append(items, OutlineItem{Title: title, Children: children})
	}
	return items, nil
}

// Close closes any pages still open, then the document itself. Closing
// twice is a no-op.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	for p := range d.pages {
		p.Close()
	}
	d.lib.raw.CloseDocument(d.raw)
	d.data = nil
	d.closed = true
	return nil
}

// decodeUTF16 decodes the UTF-16LE byte strings the library produces.
func decodeUTF16(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(b)
	if err != nil {
		return "", fmt.Errorf("pdfium: decode UTF-16 string: %w", err)
	}
	return string(out), nil
}
