package pdfium

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Version descriptors are packaged with the module and parsed once per
// process. The records are immutable by construction: all fields are
// unexported and only reachable through accessors.

//go:embed version.json
var bindingVersionJSON []byte

//go:embed pdfium_version.json
var pdfiumVersionJSON []byte

// Version describes this binding layer's own version.
type Version struct {
	major      int
	minor      int
	patch      int
	beta       int
	hasBeta    bool
	nCommits   int
	hash       string
	dirty      bool
	dataSource string
}

// Major returns the major version cipher.
func (v Version) Major() int { return v.major }

// Minor returns the minor version cipher.
func (v Version) Minor() int { return v.minor }

// Patch returns the patch version cipher.
func (v Version) Patch() int { return v.patch }

// Beta returns the beta cipher and whether this is a beta version.
func (v Version) Beta() (int, bool) { return v.beta, v.hasBeta }

// CommitsAfterTag returns the number of commits after the release tag at
// build time; zero for a release.
func (v Version) CommitsAfterTag() int { return v.nCommits }

// Hash returns the head commit hash when CommitsAfterTag is nonzero.
func (v Version) Hash() string { return v.hash }

// Dirty reports uncommitted changes at build time.
func (v Version) Dirty() bool { return v.dirty }

// DataSource names where the version info came from ("git", "given" or
// "record").
func (v Version) DataSource() string { return v.dataSource }

// APITag returns the version ciphers as a comparable tuple, excluding a
// possible beta cipher.
func (v Version) APITag() [3]int { return [3]int{v.major, v.minor, v.patch} }

// Tag returns the release tag, e.g. "1.2.0" or "1.2.0b1".
func (v Version) Tag() string {
	tag := fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
	if v.hasBeta {
		tag += fmt.Sprintf("b%d", v.beta)
	}
	return tag
}

// Desc returns the non-cipher descriptors, e.g. "+3.abc1234.dirty".
func (v Version) Desc() string {
	desc := craftDesc(v.nCommits, v.hash, v.dirty)
	if v.dataSource != "git" {
		desc += ":" + v.dataSource
	}
	return desc
}

// String returns the joined tag and descriptors.
func (v Version) String() string { return v.Tag() + v.Desc() }

// PdfiumVersion describes the native library build.
type PdfiumVersion struct {
	major    int
	minor    int
	build    int
	patch    int
	nCommits int
	hash     string
	origin   string
	flags    []string
}

// Major returns the Chromium major cipher.
func (v PdfiumVersion) Major() int { return v.major }

// Minor returns the Chromium minor cipher.
func (v PdfiumVersion) Minor() int { return v.minor }

// Build returns the build cipher, which uniquely identifies the PDFium
// sources the binary was built from.
func (v PdfiumVersion) Build() int { return v.build }

// Patch returns the Chromium patch cipher.
func (v PdfiumVersion) Patch() int { return v.patch }

// CommitsAfterTag returns the number of commits after the tagged build
// commit.
func (v PdfiumVersion) CommitsAfterTag() int { return v.nCommits }

// Hash returns the head commit hash when CommitsAfterTag is nonzero.
func (v PdfiumVersion) Hash() string { return v.hash }

// Origin names where the binary came from ("pdfium-binaries",
// "sourcebuild" or "system").
func (v PdfiumVersion) Origin() string { return v.origin }

// Flags returns the feature flags the binary was built with, e.g. V8 or
// XFA. The returned slice is a copy.
func (v PdfiumVersion) Flags() []string {
	out := make([]string, len(v.flags))
	copy(out, v.flags)
	return out
}

// APITag returns the version ciphers as a comparable tuple.
func (v PdfiumVersion) APITag() [4]int {
	return [4]int{v.major, v.minor, v.build, v.patch}
}

// Tag returns the version ciphers joined as a string.
func (v PdfiumVersion) Tag() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.major, v.minor, v.build, v.patch)
}

// Desc returns the non-cipher descriptors (commits, flags, origin).
func (v PdfiumVersion) Desc() string {
	desc := craftDesc(v.nCommits, v.hash, false)
	if len(v.flags) > 0 {
		desc += ":{" + strings.Join(v.flags, ",") + "}"
	}
	if v.origin != "pdfium-binaries" {
		desc += "@" + v.origin
	}
	return desc
}

// String returns the joined tag and descriptors.
func (v PdfiumVersion) String() string { return v.Tag() + v.Desc() }

func craftDesc(nCommits int, hash string, dirty bool) string {
	var local []string
	if nCommits > 0 {
		local = append(local, fmt.Sprint(nCommits), hash)
	}
	if dirty {
		local = append(local, "dirty")
	}
	if len(local) == 0 {
		return ""
	}
	return "+" + strings.Join(local, ".")
}

var (
	versionOnce sync.Once
	bindingInfo Version
	pdfiumInfo  PdfiumVersion
)

func loadVersions() {
	var b struct {
		Major      int    `json:"major"`
		Minor      int    `json:"minor"`
		Patch      int    `json:"patch"`
		Beta       *int   `json:"beta"`
		NCommits   int    `json:"n_commits"`
		Hash       string `json:"hash"`
		Dirty      bool   `json:"dirty"`
		DataSource string `json:"data_source"`
	}
	if err := json.Unmarshal(bindingVersionJSON, &b); err != nil {
		panic(fmt.Sprintf("pdfium: corrupt packaged version.json: %v", err))
	}
	bindingInfo = Version{
		major: b.Major, minor: b.Minor, patch: b.Patch,
		nCommits: b.NCommits, hash: b.Hash, dirty: b.Dirty,
		dataSource: b.DataSource,
	}
	if b.Beta != nil {
		bindingInfo.beta, bindingInfo.hasBeta = *b.Beta, true
	}

	var p struct {
		Major    int      `json:"major"`
		Minor    int      `json:"minor"`
		Build    int      `json:"build"`
		Patch    int      `json:"patch"`
		NCommits int      `json:"n_commits"`
		Hash     string   `json:"hash"`
		Origin   string   `json:"origin"`
		Flags    []string `json:"flags"`
	}
	if err := json.Unmarshal(pdfiumVersionJSON, &p); err != nil {
		panic(fmt.Sprintf("pdfium: corrupt packaged pdfium_version.json: %v", err))
	}
	pdfiumInfo = PdfiumVersion{
		major: p.Major, minor: p.Minor, build: p.Build, patch: p.Patch,
		nCommits: p.NCommits, hash: p.Hash, origin: p.Origin, flags: p.Flags,
	}
}

// Info returns the binding layer's version record.
func Info() Version {
	versionOnce.Do(loadVersions)
	return bindingInfo
}

// NativeInfo returns the packaged native library's version record.
func NativeInfo() PdfiumVersion {
	versionOnce.Do(loadVersions)
	return pdfiumInfo
}
