// Package raw exposes the subset of the PDFium ABI used by the helper
// layer. It marshals arguments to and from the native library and nothing
// else; all higher-level semantics (ownership, validation, coordinate
// bookkeeping) live in the pdfium package.
package raw

// Opaque native handles. A zero value means the library returned NULL.
type (
	// Document is an FPDF_DOCUMENT handle.
	Document uintptr
	// Page is an FPDF_PAGE handle.
	Page uintptr
	// Bitmap is an FPDF_BITMAP handle.
	Bitmap uintptr
	// TextPage is an FPDF_TEXTPAGE handle.
	TextPage uintptr
	// Bookmark is an FPDF_BOOKMARK handle.
	Bookmark uintptr
)

// Bitmap formats (FPDFBitmap_* constants).
const (
	FormatUnknown = 0
	FormatGray    = 1
	FormatBGR     = 2
	FormatBGRx    = 3
	FormatBGRA    = 4
)

// Page rendering flags (FPDF_* constants).
const (
	FlagAnnot            = 0x01
	FlagLCDText          = 0x02
	FlagNoNativeText     = 0x04
	FlagGrayscale        = 0x08
	FlagReverseByteOrder = 0x10

	FlagRenderLimitedCache  = 0x80
	FlagRenderForceHalftone = 0x400
	FlagPrinting            = 0x800
)

// Document load error codes (FPDF_ERR_* constants, as reported by
// FPDF_GetLastError after a failed load).
const (
	ErrSuccess  = 0
	ErrUnknown  = 1
	ErrFile     = 2
	ErrFormat   = 3
	ErrPassword = 4
	ErrSecurity = 5
	ErrPage     = 6
)

// Library is the set of native entry points the helper layer calls. The
// production implementation is returned by Load; tests use the in-memory
// implementation from the rawtest package.
//
// String data (metadata, extracted text, bookmark titles) is returned as
// raw UTF-16LE bytes without the terminating NUL, exactly as the library
// produced it. Decoding is the caller's business.
type Library interface {
	// Close releases the native library (FPDF_DestroyLibrary).
	Close()

	// LoadDocument opens a document from a file path
	// (FPDF_LoadDocument). A zero handle means failure; consult
	// LastError for the reason.
	LoadDocument(path, password string) Document
	// LoadMemDocument opens a document from a memory buffer
	// (FPDF_LoadMemDocument). The buffer must stay valid and unchanged
	// for the lifetime of the document.
	LoadMemDocument(data []byte, password string) Document
	// CloseDocument closes a document handle (FPDF_CloseDocument).
	CloseDocument(doc Document)
	// LastError returns the error code of the last failed load
	// (FPDF_GetLastError).
	LastError() uint64
	// FileVersion reports the PDF version of the document multiplied by
	// ten, e.g. 17 for PDF 1.7 (FPDF_GetFileVersion).
	FileVersion(doc Document) (int, bool)
	// DocPermissions returns the document permission flags
	// (FPDF_GetDocPermissions).
	DocPermissions(doc Document) uint64
	// PageCount returns the number of pages (FPDF_GetPageCount).
	PageCount(doc Document) int
	// MetaText returns the value of a metadata tag such as "Title" or
	// "Author" (FPDF_GetMetaText), as UTF-16LE bytes.
	MetaText(doc Document, tag string) []byte

	// LoadPage loads a page by zero-based index (FPDF_LoadPage).
	LoadPage(doc Document, index int) Page
	// ClosePage closes a page handle (FPDF_ClosePage).
	ClosePage(page Page)
	// PageWidth returns the page width in points (FPDF_GetPageWidthF).
	PageWidth(page Page) float64
	// PageHeight returns the page height in points (FPDF_GetPageHeightF).
	PageHeight(page Page) float64
	// RenderPageBitmap rasterizes a page into a bitmap
	// (FPDF_RenderPageBitmap). The five device arguments define the
	// render context: startX/startY are the top-left corner of the
	// target area, sizeX/sizeY its dimensions, rotate a quarter-turn
	// count (0..3, clockwise).
	RenderPageBitmap(bm Bitmap, page Page, startX, startY, sizeX, sizeY, rotate, flags int)

	// BitmapCreate allocates a bitmap with a library-owned buffer
	// (FPDFBitmap_Create). alpha selects BGRA over BGRx.
	BitmapCreate(width, height int, alpha bool) Bitmap
	// BitmapCreateEx creates a bitmap in the given format
	// (FPDFBitmap_CreateEx). If buf is non-nil the library uses it
	// directly and never frees it; if buf is nil the library allocates,
	// using the given stride, or one of its own choice when stride is
	// zero.
	BitmapCreateEx(width, height, format int, buf []byte, stride int) Bitmap
	// BitmapDestroy destroys a bitmap handle (FPDFBitmap_Destroy),
	// freeing the buffer if and only if the library allocated it.
	BitmapDestroy(bm Bitmap)
	// BitmapWidth returns the bitmap width in pixels (FPDFBitmap_GetWidth).
	BitmapWidth(bm Bitmap) int
	// BitmapHeight returns the bitmap height in pixels (FPDFBitmap_GetHeight).
	BitmapHeight(bm Bitmap) int
	// BitmapStride returns the number of bytes per row (FPDFBitmap_GetStride).
	BitmapStride(bm Bitmap) int
	// BitmapFormat returns the bitmap format constant (FPDFBitmap_GetFormat).
	BitmapFormat(bm Bitmap) int
	// BitmapBuffer returns a byte slice aliasing the bitmap's pixel
	// memory, stride*height bytes long (FPDFBitmap_GetBuffer). Returns
	// nil if the library returned a null pointer. The slice is only
	// valid until the bitmap is destroyed.
	BitmapBuffer(bm Bitmap) []byte
	// BitmapFillRect overwrites a rectangle with a color given in
	// 8888 ARGB (FPDFBitmap_FillRect). No alpha compositing.
	BitmapFillRect(bm Bitmap, left, top, width, height int, color uint32)

	// DeviceToPage translates device (bitmap) coordinates to page
	// coordinates for the given render context (FPDF_DeviceToPage).
	// ok is false if the transform could not be computed.
	DeviceToPage(page Page, startX, startY, sizeX, sizeY, rotate, deviceX, deviceY int) (pageX, pageY float64, ok bool)
	// PageToDevice translates page coordinates to device (bitmap)
	// coordinates for the given render context (FPDF_PageToDevice).
	PageToDevice(page Page, startX, startY, sizeX, sizeY, rotate int, pageX, pageY float64) (deviceX, deviceY int, ok bool)

	// LoadTextPage prepares a page for text extraction (FPDFText_LoadPage).
	LoadTextPage(page Page) TextPage
	// CloseTextPage releases a text page handle (FPDFText_ClosePage).
	CloseTextPage(tp TextPage)
	// TextCountChars returns the number of characters on the text page
	// (FPDFText_CountChars). Negative on failure.
	TextCountChars(tp TextPage) int
	// TextGetText extracts a character range (FPDFText_GetText), as
	// UTF-16LE bytes.
	TextGetText(tp TextPage, start, count int) []byte

	// BookmarkFirstChild returns the first child of a bookmark, or the
	// root bookmark when parent is zero (FPDFBookmark_GetFirstChild).
	BookmarkFirstChild(doc Document, parent Bookmark) Bookmark
	// BookmarkNextSibling returns the next sibling of a bookmark
	// (FPDFBookmark_GetNextSibling).
	BookmarkNextSibling(doc Document, bm Bookmark) Bookmark
	// BookmarkTitle returns the bookmark title (FPDFBookmark_GetTitle),
	// as UTF-16LE bytes.
	BookmarkTitle(bm Bookmark) []byte
}
