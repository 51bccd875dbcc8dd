package pdfium

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// ImageView is an image-typed representation of a bitmap buffer.
//
// Shared reports whether the image aliases the bitmap memory. When it
// does, writes to either side are visible to the other, and the view
// keeps the buffer referenced until Close. When the bitmap's layout has
// no aliasing Go image type, the pixel data is a converted copy and
// Shared is false.
type ImageView struct {
	image.Image
	Shared bool

	bm     *Bitmap
	closed bool
}

// Close releases the view's hold on the bitmap buffer. A no-op for
// non-shared views and on repeated calls.
func (v *ImageView) Close() error {
	if v.closed || !v.Shared {
		v.closed = true
		return nil
	}
	v.closed = true
	v.bm.dropView()
	return nil
}

// Image returns an image-typed view of the bitmap.
//
// Zero-copy sharing is achieved for layouts the Go image types can alias:
// grayscale bitmaps (image.Gray) and reverse-byte-order BGRA bitmaps
// (image.RGBA). All other layouts are converted into a fresh image.RGBA;
// channel values are copied verbatim, only reordered.
func (b *Bitmap) Image() (*ImageView, error) {
	if b.closed {
		return nil, ErrClosed
	}
	rect := image.Rect(0, 0, b.width, b.height)

	switch {
	case b.format == FormatGray:
		if err := b.addView(); err != nil {
			return nil, err
		}
		return &ImageView{
			Image:  &image.Gray{Pix: b.buf, Stride: b.stride, Rect: rect},
			Shared: true,
			bm:     b,
		}, nil

	case b.format == FormatBGRA && b.reverse:
		// buffer already is RGBA in memory order
		if err := b.addView(); err != nil {
			return nil, err
		}
		return &ImageView{
			Image:  &image.RGBA{Pix: b.buf, Stride: b.stride, Rect: rect},
			Shared: true,
			bm:     b,
		}, nil
	}

	img := image.NewRGBA(rect)
	for y := 0; y < b.height; y++ {
		src := b.buf[y*b.stride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < b.width; x++ {
			s := src[x*b.channels : x*b.channels+b.channels]
			d := dst[x*4 : x*4+4]
			switch {
			case b.reverse: // RGB or RGBX
				d[0], d[1], d[2] = s[0], s[1], s[2]
				d[3] = 0xFF
			case b.format == FormatBGR:
				d[0], d[1], d[2] = s[2], s[1], s[0]
				d[3] = 0xFF
			case b.format == FormatBGRx:
				d[0], d[1], d[2] = s[2], s[1], s[0]
				d[3] = 0xFF
			case b.format == FormatBGRA:
				d[0], d[1], d[2], d[3] = s[2], s[1], s[0], s[3]
			}
		}
	}
	return &ImageView{Image: img, Shared: false, bm: b}, nil
}

// BitmapFromImage converts a Go image into a bitmap. The pixel data is
// always a freshly allocated copy, never a view, because the source
// image's memory layout cannot be assumed stable. The resulting bitmap
// uses normal (BGR) channel order and should be treated as immutable.
//
// Grayscale images map to FormatGray; RGBA-like images map to FormatBGRA
// with the red and blue channels swapped; everything else is first
// converted to NRGBA.
func (l *Library) BitmapFromImage(img image.Image) (*Bitmap, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidArgument)
	}

	switch src := img.(type) {
	case *image.Gray:
		buf := make([]byte, w*h)
		for y := 0; y < h; y++ {
			copy(buf[y*w:(y+1)*w], src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):])
		}
		return l.NewBitmap(w, h, FormatGray, &BitmapOptions{Buffer: buf})

	case *image.RGBA:
		return l.bitmapFromRGBAPix(w, h, src.Pix, src.Stride, src.PixOffset(bounds.Min.X, bounds.Min.Y))

	case *image.NRGBA:
		return l.bitmapFromRGBAPix(w, h, src.Pix, src.Stride, src.PixOffset(bounds.Min.X, bounds.Min.Y))

	default:
		converted := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Copy(converted, image.Point{}, img, bounds, draw.Src, nil)
		return l.bitmapFromRGBAPix(w, h, converted.Pix, converted.Stride, 0)
	}
}

// bitmapFromRGBAPix copies 4-channel RGBA-ordered pixel data into a fresh
// packed BGRA buffer.
func (l *Library) bitmapFromRGBAPix(w, h int, pix []byte, stride, offset int) (*Bitmap, error) {
	buf := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		src := pix[offset+y*stride:]
		dst := buf[y*w*4:]
		for x := 0; x < w; x++ {
			s := src[x*4 : x*4+4]
			d := dst[x*4 : x*4+4]
			d[0], d[1], d[2], d[3] = s[2], s[1], s[0], s[3]
		}
	}
	return l.NewBitmap(w, h, FormatBGRA, &BitmapOptions{Buffer: buf})
}
