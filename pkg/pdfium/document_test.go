package pdfium

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/novvoo/go-pdfium/pkg/pdfium/raw/rawtest"
)

// TestOpenDocumentErrors tests the mapping of native load error codes.
func TestOpenDocumentErrors(t *testing.T) {
	lib, fake := newTestLib()
	fake.AddDocument("secret.pdf", rawtest.DocSpec{
		Pages:    []rawtest.PageSpec{{Width: 10, Height: 10}},
		Password: "hunter2",
	})

	if _, err := lib.OpenDocument("missing.pdf", ""); !errors.Is(err, ErrBadFile) {
		t.Errorf("expected ErrBadFile, got %v", err)
	}
	if _, err := lib.OpenDocument("secret.pdf", "wrong"); !errors.Is(err, ErrPassword) {
		t.Errorf("expected ErrPassword, got %v", err)
	}
	if _, err := lib.OpenDocument("secret.pdf", "hunter2"); err != nil {
		t.Errorf("expected successful open, got %v", err)
	}
}

// TestOpenDocumentBytes tests memory-buffer loading.
func TestOpenDocumentBytes(t *testing.T) {
	lib, fake := newTestLib()
	data := []byte("%PDF-fake")
	fake.AddDocument(string(data), rawtest.DocSpec{Pages: []rawtest.PageSpec{{Width: 10, Height: 10}}})

	doc, err := lib.OpenDocumentBytes(data, "")
	if err != nil {
		t.Fatalf("OpenDocumentBytes: %v", err)
	}
	if doc.PageCount() != 1 {
		t.Errorf("expected 1 page, got %d", doc.PageCount())
	}
}

// TestDocumentMetadata tests metadata lookup and UTF-16 decoding.
func TestDocumentMetadata(t *testing.T) {
	lib, fake := newTestLib()
	fake.AddDocument("doc.pdf", rawtest.DocSpec{
		Pages: []rawtest.PageSpec{{Width: 10, Height: 10}},
		Meta: map[string]string{
			"Title":  "Annual Report — naïve 日本語",
			"Author": "novvoo",
		},
		Version:     17,
		Permissions: 0xFFFFFFFC,
	})
	doc, err := lib.OpenDocument("doc.pdf", "")
	if err != nil {
		t.Fatalf("OpenDocument: %v", err)
	}

	title, err := doc.Metadata("Title")
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if title != "Annual Report — naïve 日本語" {
		t.Errorf("unexpected title %q", title)
	}
	missing, err := doc.Metadata("Subject")
	if err != nil || missing != "" {
		t.Errorf("expected empty subject, got %q, %v", missing, err)
	}
	if v, ok := doc.FileVersion(); !ok || v != 17 {
		t.Errorf("expected version 17, got %d (%v)", v, ok)
	}
	if doc.Permissions() != 0xFFFFFFFC {
		t.Errorf("unexpected permissions %#x", doc.Permissions())
	}
}

// TestDocumentOutline tests the bookmark tree walk.
func TestDocumentOutline(t *testing.T) {
	lib, fake := newTestLib()
	fake.AddDocument("doc.pdf", rawtest.DocSpec{
		Pages: []rawtest.PageSpec{{Width: 10, Height: 10}},
		Outline: []rawtest.OutlineSpec{
			{Title: "Introduction"},
			{Title: "Details", Children: []rawtest.OutlineSpec{
				{Title: "Part 1"},
				{Title: "Part 2"},
			}},
		},
	})
	doc, err := lib.OpenDocument("doc.pdf", "")
	if err != nil {
		t.Fatalf("OpenDocument: %v", err)
	}

	outline, err := doc.Outline()
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	want := []OutlineItem{
		{Title: "Introduction"},
		{Title: "Details", Children: []OutlineItem{
			{Title: "Part 1"},
			{Title: "Part 2"},
		}},
	}
	if diff := cmp.Diff(want, outline); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}
}

// TestPageText tests text extraction and decoding.
func TestPageText(t *testing.T) {
	lib, fake := newTestLib()
	fake.AddDocument("doc.pdf", rawtest.DocSpec{
		Pages: []rawtest.PageSpec{{Width: 10, Height: 10, Text: "Hello, 世界!"}},
	})
	doc, err := lib.OpenDocument("doc.pdf", "")
	if err != nil {
		t.Fatalf("OpenDocument: %v", err)
	}
	page, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	text, err := page.Text()
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if text != "Hello, 世界!" {
		t.Errorf("unexpected text %q", text)
	}
}

// TestPageIndexValidation tests page range checks.
func TestPageIndexValidation(t *testing.T) {
	lib, fake := newTestLib()
	fake.AddDocument("doc.pdf", rawtest.DocSpec{Pages: []rawtest.PageSpec{{Width: 10, Height: 10}}})
	doc, err := lib.OpenDocument("doc.pdf", "")
	if err != nil {
		t.Fatalf("OpenDocument: %v", err)
	}
	if _, err := doc.Page(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := doc.Page(1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

// TestDocumentCloseClosesPages tests that closing the document closes
// pages still open.
func TestDocumentCloseClosesPages(t *testing.T) {
	lib, fake := newTestLib()
	fake.AddDocument("doc.pdf", rawtest.DocSpec{Pages: []rawtest.PageSpec{{Width: 10, Height: 10}}})
	doc, err := lib.OpenDocument("doc.pdf", "")
	if err != nil {
		t.Fatalf("OpenDocument: %v", err)
	}
	page, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if err := doc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := page.Render(RenderOptions{}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed after document close, got %v", err)
	}
}
