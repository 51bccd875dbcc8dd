package pdfium

import (
	"errors"
	"image/color"
	"testing"

	"github.com/novvoo/go-pdfium/pkg/pdfium/raw"
	"github.com/novvoo/go-pdfium/pkg/pdfium/raw/rawtest"
)

func newTestLib() (*Library, *rawtest.Lib) {
	fake := rawtest.New()
	return New(fake), fake
}

// TestNewBitmapPackedStride tests that bitmaps without a custom stride
// are fully packed for every format.
func TestNewBitmapPackedStride(t *testing.T) {
	lib, _ := newTestLib()

	tests := []struct {
		format   Format
		channels int
	}{
		{FormatGray, 1},
		{FormatBGR, 3},
		{FormatBGRx, 4},
		{FormatBGRA, 4},
	}
	for _, tt := range tests {
		bm, err := lib.NewBitmap(7, 5, tt.format, nil)
		if err != nil {
			t.Fatalf("NewBitmap(%v): %v", tt.format, err)
		}
		if bm.Channels() != tt.channels {
			t.Errorf("format %v: expected %d channels, got %d", tt.format, tt.channels, bm.Channels())
		}
		if bm.Stride() != 7*tt.channels {
			t.Errorf("format %v: expected stride %d, got %d", tt.format, 7*tt.channels, bm.Stride())
		}
		if len(bm.Buffer()) != bm.Stride()*5 {
			t.Errorf("format %v: expected buffer length %d, got %d", tt.format, bm.Stride()*5, len(bm.Buffer()))
		}
		if err := bm.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}
}

// TestNewBitmapStrideTooSmall tests rejection of strides below the
// packed minimum.
func TestNewBitmapStrideTooSmall(t *testing.T) {
	lib, _ := newTestLib()

	_, err := lib.NewBitmap(8, 8, FormatBGRA, &BitmapOptions{Stride: 8*4 - 1})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

// TestNewBitmapBufferTooSmall tests rejection of undersized caller
// buffers.
func TestNewBitmapBufferTooSmall(t *testing.T) {
	lib, _ := newTestLib()

	_, err := lib.NewBitmap(8, 8, FormatBGR, &BitmapOptions{Buffer: make([]byte, 8*8*3-1)})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

// TestNewBitmapCustomStride tests that an explicit stride with padding
// is honored.
func TestNewBitmapCustomStride(t *testing.T) {
	lib, _ := newTestLib()

	bm, err := lib.NewBitmap(5, 3, FormatBGR, &BitmapOptions{Stride: 20})
	if err != nil {
		t.Fatalf("NewBitmap: %v", err)
	}
	if bm.Stride() != 20 {
		t.Errorf("expected stride 20, got %d", bm.Stride())
	}
	if len(bm.Buffer()) != 60 {
		t.Errorf("expected buffer length 60, got %d", len(bm.Buffer()))
	}
}

// TestNewForeignBitmapStride tests library-chosen versus forced-packed
// strides for foreign bitmaps.
func TestNewForeignBitmapStride(t *testing.T) {
	lib, _ := newTestLib()

	padded, err := lib.NewForeignBitmap(5, 3, FormatBGR, false, false)
	if err != nil {
		t.Fatalf("NewForeignBitmap: %v", err)
	}
	if padded.Stride() != 16 { // 15 rounded up to a word boundary
		t.Errorf("expected library stride 16, got %d", padded.Stride())
	}
	if !padded.Foreign() {
		t.Error("expected a foreign bitmap")
	}

	packed, err := lib.NewForeignBitmap(5, 3, FormatBGR, false, true)
	if err != nil {
		t.Fatalf("NewForeignBitmap packed: %v", err)
	}
	if packed.Stride() != 15 {
		t.Errorf("expected packed stride 15, got %d", packed.Stride())
	}
}

// TestNewForeignBitmapSimple tests the simple creation path's format
// selection.
func TestNewForeignBitmapSimple(t *testing.T) {
	lib, _ := newTestLib()

	alpha, err := lib.NewForeignBitmapSimple(4, 4, true, false)
	if err != nil {
		t.Fatalf("NewForeignBitmapSimple: %v", err)
	}
	if alpha.Format() != FormatBGRA {
		t.Errorf("expected FormatBGRA, got %v", alpha.Format())
	}

	opaque, err := lib.NewForeignBitmapSimple(4, 4, false, false)
	if err != nil {
		t.Fatalf("NewForeignBitmapSimple: %v", err)
	}
	if opaque.Format() != FormatBGRx {
		t.Errorf("expected FormatBGRx, got %v", opaque.Format())
	}
}

// TestModeStrings tests the symbolic mode for both byte orders.
func TestModeStrings(t *testing.T) {
	tests := []struct {
		format  Format
		reverse bool
		mode    string
	}{
		{FormatGray, false, "L"},
		{FormatGray, true, "L"},
		{FormatBGR, false, "BGR"},
		{FormatBGR, true, "RGB"},
		{FormatBGRx, false, "BGRX"},
		{FormatBGRx, true, "RGBX"},
		{FormatBGRA, false, "BGRA"},
		{FormatBGRA, true, "RGBA"},
	}
	for _, tt := range tests {
		if got := tt.format.Mode(tt.reverse); got != tt.mode {
			t.Errorf("Mode(%v, %v): expected %q, got %q", tt.format, tt.reverse, tt.mode, got)
		}
	}
}

// TestFillRect tests that the rectangle is overwritten in the bitmap's
// channel order and the outside stays untouched.
func TestFillRect(t *testing.T) {
	lib, _ := newTestLib()

	bm, err := lib.NewBitmap(8, 8, FormatBGRA, nil)
	if err != nil {
		t.Fatalf("NewBitmap: %v", err)
	}
	red := color.RGBA{R: 200, G: 10, B: 30, A: 255}
	if err := bm.FillRect(2, 1, 3, 4, red); err != nil {
		t.Fatalf("FillRect: %v", err)
	}

	buf := bm.Buffer()
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			px := buf[y*bm.Stride()+x*4 : y*bm.Stride()+x*4+4]
			inside := x >= 2 && x < 5 && y >= 1 && y < 5
			if inside {
				if px[0] != 30 || px[1] != 10 || px[2] != 200 || px[3] != 255 {
					t.Fatalf("pixel (%d,%d): expected BGRA 30,10,200,255, got %v", x, y, px)
				}
			} else {
				if px[0] != 0 || px[1] != 0 || px[2] != 0 || px[3] != 0 {
					t.Fatalf("pixel (%d,%d) outside rect was modified: %v", x, y, px)
				}
			}
		}
	}
}

// TestFillRectReverseByteOrder tests the channel order of fills on
// reverse-byte-order bitmaps.
func TestFillRectReverseByteOrder(t *testing.T) {
	lib, _ := newTestLib()

	bm, err := lib.NewBitmap(2, 1, FormatBGRA, &BitmapOptions{ReverseByteOrder: true})
	if err != nil {
		t.Fatalf("NewBitmap: %v", err)
	}
	if err := bm.FillRect(0, 0, 2, 1, color.RGBA{R: 200, G: 10, B: 30, A: 40}); err != nil {
		t.Fatalf("FillRect: %v", err)
	}
	px := bm.Buffer()[:4]
	if px[0] != 200 || px[1] != 10 || px[2] != 30 || px[3] != 40 {
		t.Errorf("expected RGBA 200,10,30,40 in memory, got %v", px)
	}
}

// TestFillRectOutOfBounds tests bounds validation.
func TestFillRectOutOfBounds(t *testing.T) {
	lib, _ := newTestLib()

	bm, err := lib.NewBitmap(8, 8, FormatBGRA, nil)
	if err != nil {
		t.Fatalf("NewBitmap: %v", err)
	}
	cases := [][4]int{
		{-1, 0, 2, 2},
		{0, -1, 2, 2},
		{7, 0, 2, 2},
		{0, 7, 2, 2},
		{0, 0, 9, 1},
		{0, 0, 1, 9},
	}
	for _, c := range cases {
		if err := bm.FillRect(c[0], c[1], c[2], c[3], color.RGBA{}); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("FillRect(%v): expected ErrInvalidArgument, got %v", c, err)
		}
	}
}

// TestArrayZeroCopy tests that the array view and the raw buffer alias
// the same memory.
func TestArrayZeroCopy(t *testing.T) {
	lib, _ := newTestLib()

	bm, err := lib.NewBitmap(4, 3, FormatBGR, &BitmapOptions{Stride: 16})
	if err != nil {
		t.Fatalf("NewBitmap: %v", err)
	}
	a, err := bm.Array()
	if err != nil {
		t.Fatalf("Array: %v", err)
	}

	h, w, c := a.Shape()
	if h != 3 || w != 4 || c != 3 {
		t.Fatalf("expected shape (3,4,3), got (%d,%d,%d)", h, w, c)
	}
	row, pixel, value := a.Strides()
	if row != 16 || pixel != 3 || value != 1 {
		t.Fatalf("expected strides (16,3,1), got (%d,%d,%d)", row, pixel, value)
	}

	// buffer write is visible through the view
	bm.Buffer()[2*16+1*3+2] = 0x7E
	if got := a.At(2, 1, 2); got != 0x7E {
		t.Errorf("expected 0x7E through view, got %#x", got)
	}
	// view write is visible through the buffer
	a.Set(1, 3, 0, 0x55)
	if got := bm.Buffer()[1*16+3*3]; got != 0x55 {
		t.Errorf("expected 0x55 through buffer, got %#x", got)
	}
	// rows are stride-trimmed
	if len(a.Row(0)) != 12 {
		t.Errorf("expected row length 12, got %d", len(a.Row(0)))
	}
}

// TestNativeCloseKeepsBuffer tests that destroying a native bitmap does
// not touch the caller-supplied buffer.
func TestNativeCloseKeepsBuffer(t *testing.T) {
	lib, fake := newTestLib()

	buf := make([]byte, 4*4*4)
	bm, err := lib.NewBitmap(4, 4, FormatBGRA, &BitmapOptions{Buffer: buf})
	if err != nil {
		t.Fatalf("NewBitmap: %v", err)
	}
	if bm.Foreign() {
		t.Fatal("caller-buffer bitmap must not be foreign")
	}
	if err := bm.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// the caller still owns the memory and can use it freely
	buf[0] = 0xFF
	if fake.FreedForeign != 0 {
		t.Errorf("native close freed a library buffer: %d", fake.FreedForeign)
	}
	if fake.OpenBitmaps() != 0 {
		t.Errorf("expected no live handles, got %d", fake.OpenBitmaps())
	}
}

// TestForeignCloseFreesBuffer tests that destroying a foreign bitmap
// releases the library allocation exactly once.
func TestForeignCloseFreesBuffer(t *testing.T) {
	lib, fake := newTestLib()

	bm, err := lib.NewForeignBitmap(4, 4, FormatBGRA, false, false)
	if err != nil {
		t.Fatalf("NewForeignBitmap: %v", err)
	}
	if err := bm.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if fake.FreedForeign != 1 {
		t.Errorf("expected 1 freed library buffer, got %d", fake.FreedForeign)
	}
	if bm.Buffer() != nil {
		t.Error("buffer still reachable after foreign close")
	}
	// closing again is a no-op
	if err := bm.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if fake.FreedForeign != 1 {
		t.Errorf("double free: %d", fake.FreedForeign)
	}
}

// TestForeignCloseRefusedWhileViewOpen tests the view-counting upgrade of
// the release contract.
func TestForeignCloseRefusedWhileViewOpen(t *testing.T) {
	lib, fake := newTestLib()

	bm, err := lib.NewForeignBitmap(4, 4, FormatBGRA, false, false)
	if err != nil {
		t.Fatalf("NewForeignBitmap: %v", err)
	}
	a, err := bm.Array()
	if err != nil {
		t.Fatalf("Array: %v", err)
	}

	if err := bm.Close(); !errors.Is(err, ErrBufferInUse) {
		t.Fatalf("expected ErrBufferInUse, got %v", err)
	}
	if fake.FreedForeign != 0 {
		t.Fatalf("buffer freed despite refusal: %d", fake.FreedForeign)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("view Close: %v", err)
	}
	if err := bm.Close(); err != nil {
		t.Fatalf("Close after view release: %v", err)
	}
	if fake.FreedForeign != 1 {
		t.Errorf("expected 1 freed library buffer, got %d", fake.FreedForeign)
	}
}

// TestFromRawNullBuffer tests the allocation error on a null buffer
// pointer.
func TestFromRawNullBuffer(t *testing.T) {
	lib, fake := newTestLib()

	fake.FailBufferFetch = true
	_, err := lib.NewForeignBitmap(4, 4, FormatBGRA, false, false)
	if !errors.Is(err, ErrAllocation) {
		t.Errorf("expected ErrAllocation, got %v", err)
	}
}

// TestBitmapFromRawQueriesGeometry tests that wrapping an existing handle
// picks up geometry from the library.
func TestBitmapFromRawQueriesGeometry(t *testing.T) {
	lib, fake := newTestLib()

	h := fake.BitmapCreateEx(6, 2, raw.FormatBGR, nil, 0)
	bm, err := lib.BitmapFromRaw(h, true, nil)
	if err != nil {
		t.Fatalf("BitmapFromRaw: %v", err)
	}
	if bm.Width() != 6 || bm.Height() != 2 {
		t.Errorf("expected 6x2, got %dx%d", bm.Width(), bm.Height())
	}
	if bm.Format() != FormatBGR || bm.Mode() != "RGB" {
		t.Errorf("expected FormatBGR/RGB, got %v/%s", bm.Format(), bm.Mode())
	}
	if !bm.Foreign() {
		t.Error("wrapped library buffer must be foreign")
	}
}
