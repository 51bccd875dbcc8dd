package pdfium

// Array is a row-major, three-axis (height x width x channels) view over
// a bitmap's buffer. It shares memory with the bitmap: writes through
// either side are visible to the other. The view keeps the bitmap's
// buffer referenced; a foreign bitmap cannot be closed while the view is
// open.
type Array struct {
	bm     *Bitmap
	data   []byte
	closed bool
}

// Array returns a strided view over the bitmap buffer.
func (b *Bitmap) Array() (*Array, error) {
	if err := b.addView(); err != nil {
		return nil, err
	}
	return &Array{bm: b, data: b.buf}, nil
}

// Shape returns the view dimensions: height, width, channels.
func (a *Array) Shape() (height, width, channels int) {
	return a.bm.height, a.bm.width, a.bm.channels
}

// Strides returns the byte distance between consecutive rows, pixels and
// channel values.
func (a *Array) Strides() (row, pixel, value int) {
	return a.bm.stride, a.bm.channels, 1
}

// At returns the channel value at (y, x, c).
func (a *Array) At(y, x, c int) byte {
	return a.data[y*a.bm.stride+x*a.bm.channels+c]
}

// Set writes the channel value at (y, x, c).
func (a *Array) Set(y, x, c int, v byte) {
	a.data[y*a.bm.stride+x*a.bm.channels+c] = v
}

// Row returns the pixel data of one row without stride padding,
// width*channels bytes, aliasing the buffer.
func (a *Array) Row(y int) []byte {
	off := y * a.bm.stride
	return a.data[off : off+a.bm.width*a.bm.channels]
}

// Close releases the view. After Close the bitmap may be destroyed again.
// Closing twice is a no-op.
func (a *Array) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.data = nil
	a.bm.dropView()
	return nil
}
