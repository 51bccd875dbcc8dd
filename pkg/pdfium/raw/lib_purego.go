package raw

import (
	"fmt"
	"os"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Candidate sonames tried in order by Load.
var libNames = []string{
	"libpdfium.so",
	"libpdfium.so.1",
	"pdfium.so",
	"libpdfium.dylib",
}

// EnvLibraryPath names an environment variable that, when set, is tried
// before the default soname candidates.
const EnvLibraryPath = "PDFIUM_LIBRARY_PATH"

var (
	fpdfInitLibrary    func()
	fpdfDestroyLibrary func()

	fpdfLoadDocument      func(path string, password string) uintptr
	fpdfLoadMemDocument   func(data unsafe.Pointer, size int32, password string) uintptr
	fpdfCloseDocument     func(doc uintptr)
	fpdfGetLastError      func() uint64
	fpdfGetFileVersion    func(doc uintptr, version *int32) int32
	fpdfGetDocPermissions func(doc uintptr) uint64
	fpdfGetPageCount      func(doc uintptr) int32
	fpdfGetMetaText       func(doc uintptr, tag string, buffer unsafe.Pointer, buflen uint64) uint64

	fpdfLoadPage         func(doc uintptr, index int32) uintptr
	fpdfClosePage        func(page uintptr)
	fpdfGetPageWidthF    func(page uintptr) float32
	fpdfGetPageHeightF   func(page uintptr) float32
	fpdfRenderPageBitmap func(bm uintptr, page uintptr, startX, startY, sizeX, sizeY, rotate, flags int32)

	fpdfBitmapCreate    func(width, height, alpha int32) uintptr
	fpdfBitmapCreateEx  func(width, height, format int32, buffer unsafe.Pointer, stride int32) uintptr
	fpdfBitmapDestroy   func(bm uintptr)
	fpdfBitmapGetWidth  func(bm uintptr) int32
	fpdfBitmapGetHeight func(bm uintptr) int32
	fpdfBitmapGetStride func(bm uintptr) int32
	fpdfBitmapGetFormat func(bm uintptr) int32
	fpdfBitmapGetBuffer func(bm uintptr) uintptr
	fpdfBitmapFillRect  func(bm uintptr, left, top, width, height int32, color uint32)

	fpdfDeviceToPage func(page uintptr, startX, startY, sizeX, sizeY, rotate, deviceX, deviceY int32, pageX, pageY *float64) int32
	fpdfPageToDevice func(page uintptr, startX, startY, sizeX, sizeY, rotate int32, pageX, pageY float64, deviceX, deviceY *int32) int32

	fpdfTextLoadPage   func(page uintptr) uintptr
	fpdfTextClosePage  func(tp uintptr)
	fpdfTextCountChars func(tp uintptr) int32
	fpdfTextGetText    func(tp uintptr, start, count int32, result unsafe.Pointer) int32

	fpdfBookmarkGetFirstChild  func(doc uintptr, parent uintptr) uintptr
	fpdfBookmarkGetNextSibling func(doc uintptr, bm uintptr) uintptr
	fpdfBookmarkGetTitle       func(bm uintptr, buffer unsafe.Pointer, buflen uint64) uint64
)

var (
	loadOnce sync.Once
	loaded   Library
	loadErr  error
)

// Load opens the PDFium shared library, registers the symbols the helper
// layer needs and initializes the library. The result is cached: repeated
// calls return the same instance. Candidates from names are tried first,
// then the EnvLibraryPath environment variable, then the default sonames.
func Load(names ...string) (Library, error) {
	loadOnce.Do(func() {
		candidates := append([]string{}, names...)
		if p := os.Getenv(EnvLibraryPath); p != "" {
			candidates = append(candidates, p)
		}
		candidates = append(candidates, libNames...)

		var handle uintptr
		var err error
		for _, name := range candidates {
			handle, err = purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
			if handle != 0 {
				break
			}
		}
		if handle == 0 {
			loadErr = fmt.Errorf("raw: could not load pdfium from %v: %v", candidates, err)
			return
		}

		register(handle)
		fpdfInitLibrary()
		loaded = &pdfium{}
	})
	return loaded, loadErr
}

func register(lib uintptr) {
	purego.RegisterLibFunc(&fpdfInitLibrary, lib, "FPDF_InitLibrary")
	purego.RegisterLibFunc(&fpdfDestroyLibrary, lib, "FPDF_DestroyLibrary")

	purego.RegisterLibFunc(&fpdfLoadDocument, lib, "FPDF_LoadDocument")
	purego.RegisterLibFunc(&fpdfLoadMemDocument, lib, "FPDF_LoadMemDocument")
	purego.RegisterLibFunc(&fpdfCloseDocument, lib, "FPDF_CloseDocument")
	purego.RegisterLibFunc(&fpdfGetLastError, lib, "FPDF_GetLastError")
	purego.RegisterLibFunc(&fpdfGetFileVersion, lib, "FPDF_GetFileVersion")
	purego.RegisterLibFunc(&fpdfGetDocPermissions, lib, "FPDF_GetDocPermissions")
	purego.RegisterLibFunc(&fpdfGetPageCount, lib, "FPDF_GetPageCount")
	purego.RegisterLibFunc(&fpdfGetMetaText, lib, "FPDF_GetMetaText")

	purego.RegisterLibFunc(&fpdfLoadPage, lib, "FPDF_LoadPage")
	purego.RegisterLibFunc(&fpdfClosePage, lib, "FPDF_ClosePage")
	purego.RegisterLibFunc(&fpdfGetPageWidthF, lib, "FPDF_GetPageWidthF")
	purego.RegisterLibFunc(&fpdfGetPageHeightF, lib, "FPDF_GetPageHeightF")
	purego.RegisterLibFunc(&fpdfRenderPageBitmap, lib, "FPDF_RenderPageBitmap")

	purego.RegisterLibFunc(&fpdfBitmapCreate, lib, "FPDFBitmap_Create")
	purego.RegisterLibFunc(&fpdfBitmapCreateEx, lib, "FPDFBitmap_CreateEx")
	purego.RegisterLibFunc(&fpdfBitmapDestroy, lib, "FPDFBitmap_Destroy")
	purego.RegisterLibFunc(&fpdfBitmapGetWidth, lib, "FPDFBitmap_GetWidth")
	purego.RegisterLibFunc(&fpdfBitmapGetHeight, lib, "FPDFBitmap_GetHeight")
	purego.RegisterLibFunc(&fpdfBitmapGetStride, lib, "FPDFBitmap_GetStride")
	purego.RegisterLibFunc(&fpdfBitmapGetFormat, lib, "FPDFBitmap_GetFormat")
	purego.RegisterLibFunc(&fpdfBitmapGetBuffer, lib, "FPDFBitmap_GetBuffer")
	purego.RegisterLibFunc(&fpdfBitmapFillRect, lib, "FPDFBitmap_FillRect")

	purego.RegisterLibFunc(&fpdfDeviceToPage, lib, "FPDF_DeviceToPage")
	purego.RegisterLibFunc(&fpdfPageToDevice, lib, "FPDF_PageToDevice")

	purego.RegisterLibFunc(&fpdfTextLoadPage, lib, "FPDFText_LoadPage")
	purego.RegisterLibFunc(&fpdfTextClosePage, lib, "FPDFText_ClosePage")
	purego.RegisterLibFunc(&fpdfTextCountChars, lib, "FPDFText_CountChars")
	purego.RegisterLibFunc(&fpdfTextGetText, lib, "FPDFText_GetText")

	purego.RegisterLibFunc(&fpdfBookmarkGetFirstChild, lib, "FPDFBookmark_GetFirstChild")
	purego.RegisterLibFunc(&fpdfBookmarkGetNextSibling, lib, "FPDFBookmark_GetNextSibling")
	purego.RegisterLibFunc(&fpdfBookmarkGetTitle, lib, "FPDFBookmark_GetTitle")
}

// pdfium implements Library on top of the registered symbols.
type pdfium struct{}

func (*pdfium) Close() {
	fpdfDestroyLibrary()
}

func (*pdfium) LoadDocument(path, password string) Document {
	return Document(fpdfLoadDocument(path, password))
}

func (*pdfium) LoadMemDocument(data []byte, password string) Document {
	if len(data) == 0 {
		return 0
	}
	return Document(fpdfLoadMemDocument(unsafe.Pointer(&data[0]), int32(len(data)), password))
}

func (*pdfium) CloseDocument(doc Document) {
	fpdfCloseDocument(uintptr(doc))
}

func (*pdfium) LastError() uint64 {
	return fpdfGetLastError()
}

func (*pdfium) FileVersion(doc Document) (int, bool) {
	var v int32
	ok := fpdfGetFileVersion(uintptr(doc), &v)
	return int(v), ok != 0
}

func (*pdfium) DocPermissions(doc Document) uint64 {
	return fpdfGetDocPermissions(uintptr(doc))
}

func (*pdfium) PageCount(doc Document) int {
	return int(fpdfGetPageCount(uintptr(doc)))
}

func (*pdfium) MetaText(doc Document, tag string) []byte {
	n := fpdfGetMetaText(uintptr(doc), tag, nil, 0)
	if n <= 2 {
		return nil
	}
	buf := make([]byte, n)
	fpdfGetMetaText(uintptr(doc), tag, unsafe.Pointer(&buf[0]), n)
	return buf[:n-2] // strip UTF-16 NUL terminator
}

func (*pdfium) LoadPage(doc Document, index int) Page {
	return Page(fpdfLoadPage(uintptr(doc), int32(index)))
}

func (*pdfium) ClosePage(page Page) {
	fpdfClosePage(uintptr(page))
}

func (*pdfium) PageWidth(page Page) float64 {
	return float64(fpdfGetPageWidthF(uintptr(page)))
}

func (*pdfium) PageHeight(page Page) float64 {
	return float64(fpdfGetPageHeightF(uintptr(page)))
}

func (*pdfium) RenderPageBitmap(bm Bitmap, page Page, startX, startY, sizeX, sizeY, rotate, flags int) {
	fpdfRenderPageBitmap(uintptr(bm), uintptr(page),
		int32(startX), int32(startY), int32(sizeX), int32(sizeY), int32(rotate), int32(flags))
}

func (*pdfium) BitmapCreate(width, height int, alpha bool) Bitmap {
	var a int32
	if alpha {
		a = 1
	}
	return Bitmap(fpdfBitmapCreate(int32(width), int32(height), a))
}

func (*pdfium) BitmapCreateEx(width, height, format int, buf []byte, stride int) Bitmap {
	var ptr unsafe.Pointer
	if buf != nil {
		ptr = unsafe.Pointer(&buf[0])
	}
	return Bitmap(fpdfBitmapCreateEx(int32(width), int32(height), int32(format), ptr, int32(stride)))
}

func (*pdfium) BitmapDestroy(bm Bitmap) {
	fpdfBitmapDestroy(uintptr(bm))
}

func (*pdfium) BitmapWidth(bm Bitmap) int {
	return int(fpdfBitmapGetWidth(uintptr(bm)))
}

func (*pdfium) BitmapHeight(bm Bitmap) int {
	return int(fpdfBitmapGetHeight(uintptr(bm)))
}

func (*pdfium) BitmapStride(bm Bitmap) int {
	return int(fpdfBitmapGetStride(uintptr(bm)))
}

func (*pdfium) BitmapFormat(bm Bitmap) int {
	return int(fpdfBitmapGetFormat(uintptr(bm)))
}

func (p *pdfium) BitmapBuffer(bm Bitmap) []byte {
	ptr := fpdfBitmapGetBuffer(uintptr(bm))
	if ptr == 0 {
		return nil
	}
	size := p.BitmapStride(bm) * p.BitmapHeight(bm)
	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), size)
}

func (*pdfium) BitmapFillRect(bm Bitmap, left, top, width, height int, color uint32) {
	fpdfBitmapFillRect(uintptr(bm), int32(left), int32(top), int32(width), int32(height), color)
}

func (*pdfium) DeviceToPage(page Page, startX, startY, sizeX, sizeY, rotate, deviceX, deviceY int) (float64, float64, bool) {
	var px, py float64
	ok := fpdfDeviceToPage(uintptr(page),
		int32(startX), int32(startY), int32(sizeX), int32(sizeY), int32(rotate),
		int32(deviceX), int32(deviceY), &px, &py)
	return px, py, ok != 0
}

func (*pdfium) PageToDevice(page Page, startX, startY, sizeX, sizeY, rotate int, pageX, pageY float64) (int, int, bool) {
	var dx, dy int32
	ok := fpdfPageToDevice(uintptr(page),
		int32(startX), int32(startY), int32(sizeX), int32(sizeY), int32(rotate),
		pageX, pageY, &dx, &dy)
	return int(dx), int(dy), ok != 0
}

func (*pdfium) LoadTextPage(page Page) TextPage {
	return TextPage(fpdfTextLoadPage(uintptr(page)))
}

func (*pdfium) CloseTextPage(tp TextPage) {
	fpdfTextClosePage(uintptr(tp))
}

func (*pdfium) TextCountChars(tp TextPage) int {
	return int(fpdfTextCountChars(uintptr(tp)))
}

func (*pdfium) TextGetText(tp TextPage, start, count int) []byte {
	if count <= 0 {
		return nil
	}
	buf := make([]uint16, count+1)
	n := fpdfTextGetText(uintptr(tp), int32(start), int32(count), unsafe.Pointer(&buf[0]))
	if n <= 1 {
		return nil
	}
	out := make([]byte, 0, 2*(int(n)-1))
	for _, u := range buf[:n-1] {
		out = append(out, byte(u), byte(u>>8))
	}
	return out
}

func (*pdfium) BookmarkFirstChild(doc Document, parent Bookmark) Bookmark {
	return Bookmark(fpdfBookmarkGetFirstChild(uintptr(doc), uintptr(parent)))
}

func (*pdfium) BookmarkNextSibling(doc Document, bm Bookmark) Bookmark {
	return Bookmark(fpdfBookmarkGetNextSibling(uintptr(doc), uintptr(bm)))
}

func (*pdfium) BookmarkTitle(bm Bookmark) []byte {
	n := fpdfBookmarkGetTitle(uintptr(bm), nil, 0)
	if n <= 2 {
		return nil
	}
	buf := make([]byte, n)
	fpdfBookmarkGetTitle(uintptr(bm), unsafe.Pointer(&buf[0]), n)
	return buf[:n-2]
}
