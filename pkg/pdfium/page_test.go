package pdfium

import (
	"errors"
	"image/color"
	"testing"

	"github.com/novvoo/go-pdfium/pkg/pdfium/raw/rawtest"
)

func renderTestDoc(t *testing.T) (*Library, *Document) {
	t.Helper()
	lib, fake := newTestLib()
	fake.AddDocument("doc.pdf", rawtest.DocSpec{
		Pages: []rawtest.PageSpec{{Width: 100, Height: 200}},
	})
	doc, err := lib.OpenDocument("doc.pdf", "")
	if err != nil {
		t.Fatalf("OpenDocument: %v", err)
	}
	return lib, doc
}

// TestRenderDefaults tests the default render path: 72 dpi, white fill,
// three-channel output.
func TestRenderDefaults(t *testing.T) {
	_, doc := renderTestDoc(t)
	page, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}

	bm, err := page.Render(RenderOptions{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if bm.Width() != 100 || bm.Height() != 200 {
		t.Errorf("expected 100x200, got %dx%d", bm.Width(), bm.Height())
	}
	if bm.Format() != FormatBGR {
		t.Errorf("expected FormatBGR, got %v", bm.Format())
	}
	// the fake stamps its render fill over the whole bitmap
	if bm.Buffer()[0] != 0x33 {
		t.Errorf("expected rendered content in buffer, got %#x", bm.Buffer()[0])
	}
}

// TestRenderFormatSelection tests the fill-color and grayscale rules
// that pick the output format.
func TestRenderFormatSelection(t *testing.T) {
	tests := []struct {
		name string
		opts RenderOptions
		want Format
	}{
		{"default", RenderOptions{}, FormatBGR},
		{"grayscale", RenderOptions{Grayscale: true}, FormatGray},
		{"translucent fill", RenderOptions{FillColor: &color.RGBA{A: 128}}, FormatBGRA},
		{"opaque fill", RenderOptions{FillColor: &color.RGBA{R: 255, A: 255}}, FormatBGR},
		{"grayscale wins", RenderOptions{Grayscale: true, FillColor: &color.RGBA{A: 0}}, FormatGray},
	}
	for _, tt := range tests {
		_, doc := renderTestDoc(t)
		page, err := doc.Page(0)
		if err != nil {
			t.Fatalf("%s: Page: %v", tt.name, err)
		}
		bm, err := page.Render(tt.opts)
		if err != nil {
			t.Fatalf("%s: Render: %v", tt.name, err)
		}
		if bm.Format() != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, bm.Format())
		}
	}
}

// TestRenderScale tests that the output size is the page size times the
// zoom factor, rounded up.
func TestRenderScale(t *testing.T) {
	_, doc := renderTestDoc(t)
	page, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}

	bm, err := page.Render(RenderOptions{Scale: 1.5})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if bm.Width() != 150 || bm.Height() != 300 {
		t.Errorf("expected 150x300, got %dx%d", bm.Width(), bm.Height())
	}
	if _, err := page.Render(RenderOptions{Scale: -1}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for negative scale, got %v", err)
	}
}

// TestRenderRotation tests the dimension swap for quarter turns and the
// rejection of other angles.
func TestRenderRotation(t *testing.T) {
	_, doc := renderTestDoc(t)
	page, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}

	bm, err := page.Render(RenderOptions{Rotation: 90})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if bm.Width() != 200 || bm.Height() != 100 {
		t.Errorf("expected 200x100 after 90 degree turn, got %dx%d", bm.Width(), bm.Height())
	}

	bm, err = page.Render(RenderOptions{Rotation: 180})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if bm.Width() != 100 || bm.Height() != 200 {
		t.Errorf("expected 100x200 after 180 degree turn, got %dx%d", bm.Width(), bm.Height())
	}

	if _, err := page.Render(RenderOptions{Rotation: 45}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for 45 degrees, got %v", err)
	}
}

// TestRenderClosedPage tests that render refuses a stale page handle.
func TestRenderClosedPage(t *testing.T) {
	_, doc := renderTestDoc(t)
	page, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if err := page.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := page.Render(RenderOptions{}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if _, err := page.Text(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from Text, got %v", err)
	}
}

// TestPageDimensions tests the point-unit size accessors.
func TestPageDimensions(t *testing.T) {
	_, doc := renderTestDoc(t)
	page, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if page.Width() != 100 || page.Height() != 200 {
		t.Errorf("expected 100x200 points, got %vx%v", page.Width(), page.Height())
	}
	if page.Index() != 0 {
		t.Errorf("expected index 0, got %d", page.Index())
	}
}
