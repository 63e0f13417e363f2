// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package comic

import (
	"archive/zip"
	"bytes"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/cbx"
	"github.com/woozymasta/cbx/metadata"
)

// entry is one archive member used by test fixtures.
type entry struct {
	name string
	data []byte
}

// pngBytes encodes a blank w x h PNG.
func pngBytes(t *testing.T, w int, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

// writeZip creates a zip container with entries in order.
func writeZip(t *testing.T, path string, entries []entry) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write(e.data)
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

// writeTar packs entries into a .cbt container under dir and returns its path.
func writeTar(t *testing.T, dir string, stem string, entries []entry) string {
	t.Helper()

	src := filepath.Join(dir, "src-"+stem)
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		p := filepath.Join(src, filepath.FromSlash(e.name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, e.data, 0o644))
		files = append(files, p)
	}

	out, err := cbx.TarFormat().CreateFromFiles(src, stem, files)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(src))
	return out
}

// testOptions isolates locks per test and captures logs.
func testOptions(t *testing.T, logs *bytes.Buffer) Options {
	t.Helper()

	opts := Options{LockDir: t.TempDir()}
	if logs != nil {
		opts.Logger = slog.New(slog.NewTextHandler(logs, nil))
	}

	return opts
}

// openTest opens path and closes it with the test.
func openTest(t *testing.T, path string, opts Options) *Comic {
	t.Helper()

	c, err := Open(path, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

const sampleComicInfo = `<?xml version="1.0" encoding="UTF-8"?>
<ComicInfo><Series>Example Series</Series><Number>2</Number><Publisher>Example Publisher</Publisher><Volume>1</Volume></ComicInfo>`

func sampleMetron() *metadata.MetronInfo {
	return &metadata.MetronInfo{
		Publisher: &metadata.Publisher{Name: "Example Publisher"},
		Series: metadata.Series{
			Name:   "Example Series",
			Lang:   metadata.DefaultSeriesLang,
			Volume: 1,
			Format: metadata.FormatTradePaperback,
		},
		Number: "2",
	}
}

func TestOpenClassifiesEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "book.cbz")
	writeZip(t, path, []entry{
		{name: "page10.jpg", data: []byte("j10")},
		{name: "Thumbs.db", data: []byte("x")},
		{name: "page2.JPG", data: []byte("j2")},
		{name: "ComicInfo.xml", data: []byte(sampleComicInfo)},
		{name: "scans/page1.png", data: []byte("p1")},
	})

	c := openTest(t, path, testOptions(t, nil))

	images, err := c.Images()
	require.NoError(t, err)
	assert.Equal(t, []string{"page2.JPG", "page10.jpg", "scans/page1.png"}, images)

	extras, err := c.Extras()
	require.NoError(t, err)
	assert.Equal(t, []string{"Thumbs.db"}, extras)

	require.NotNil(t, c.ComicInfo())
	assert.Equal(t, "Example Series", c.ComicInfo().Series)
	assert.Nil(t, c.MetronInfo())
	assert.Equal(t, cbx.KindZip, c.Kind())
}

func TestOpenLocksArchive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "book.cbz")
	writeZip(t, path, []entry{{name: "001.jpg", data: []byte("a")}})

	opts := testOptions(t, nil)
	first, err := Open(path, opts)
	require.NoError(t, err)

	_, err = Open(path, opts)
	require.ErrorIs(t, err, ErrLocked)

	require.NoError(t, first.Close())
	require.NoError(t, first.Close())

	_, err = first.Images()
	require.ErrorIs(t, err, ErrClosed)

	second, err := Open(path, opts)
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestOpenUnsupported(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "notes.cbz")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := Open(path, testOptions(t, nil))
	require.ErrorIs(t, err, cbx.ErrUnsupportedFormat)
}

func TestInvalidSidecarIsLogged(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "book.cbz")
	writeZip(t, path, []entry{
		{name: "001.jpg", data: []byte("a")},
		{name: "ComicInfo.xml", data: []byte("<ComicInfo><Series>")},
	})

	var logs bytes.Buffer
	c := openTest(t, path, testOptions(t, &logs))

	assert.Nil(t, c.ComicInfo())
	assert.Contains(t, logs.String(), "invalid sidecar")
}

func TestReadSidecarAcceptsLeadingSlash(t *testing.T) {
	t.Parallel()

	r := mapReader{"/MetronInfo.xml": []byte("m"), "ComicInfo.xml": []byte("c")}
	entries, _ := r.List()

	data, err := readSidecar(r, entries, metadata.MetronInfoFilename)
	require.NoError(t, err)
	assert.Equal(t, []byte("m"), data)

	data, err = readSidecar(r, entries, metadata.ComicInfoFilename)
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), data)

	data, err = readSidecar(r, []string{"x.jpg"}, metadata.ComicInfoFilename)
	require.NoError(t, err)
	assert.Nil(t, data)
}

// mapReader serves entries from memory.
type mapReader map[string][]byte

func (m mapReader) List() ([]string, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	cbx.SortNatural(names)
	return names, nil
}

func (m mapReader) Read(name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, cbx.ErrEntryNotFound
	}
	return data, nil
}

func TestWriteMetadata(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		make func(t *testing.T, dir string) string
	}{
		{
			name: "zip",
			make: func(t *testing.T, dir string) string {
				path := filepath.Join(dir, "book.cbz")
				writeZip(t, path, []entry{{name: "001.jpg", data: []byte("a")}})
				return path
			},
		},
		{
			name: "tar staged",
			make: func(t *testing.T, dir string) string {
				return writeTar(t, dir, "book", []entry{{name: "001.jpg", data: []byte("a")}})
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := tc.make(t, t.TempDir())
			c := openTest(t, path, testOptions(t, nil))
			require.Nil(t, c.MetronInfo())

			require.NoError(t, c.WriteMetadata(sampleMetron(), &metadata.ComicInfo{Series: "Example Series"}))
			require.NotNil(t, c.MetronInfo())
			assert.Equal(t, "Example Series", c.MetronInfo().Series.Name)
			require.NotNil(t, c.ComicInfo())

			again := openTestReopen(t, c)
			require.NotNil(t, again.MetronInfo())
			assert.Equal(t, metadata.FormatTradePaperback, again.MetronInfo().Series.Format)

			images, err := again.Images()
			require.NoError(t, err)
			assert.Equal(t, []string{"001.jpg"}, images)
		})
	}
}

// openTestReopen closes c and opens its path again.
func openTestReopen(t *testing.T, c *Comic) *Comic {
	t.Helper()

	path, lockDir := c.Path(), c.lockDir
	require.NoError(t, c.Close())
	return openTest(t, path, Options{LockDir: lockDir})
}

func TestClean(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "book.cbz")
	writeZip(t, path, []entry{
		{name: "001.jpg", data: []byte("a")},
		{name: "readme.txt", data: []byte("x")},
		{name: "ComicInfo.xml", data: []byte(sampleComicInfo)},
	})

	c := openTest(t, path, testOptions(t, nil))

	removed, err := c.Clean()
	require.NoError(t, err)
	assert.Equal(t, []string{"readme.txt"}, removed)

	names, err := c.Archive().List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"001.jpg", "ComicInfo.xml"}, names)

	removed, err = c.Clean()
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestConvertTarToZip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeTar(t, dir, "book", []entry{
		{name: "001.jpg", data: []byte("a")},
		{name: "002.jpg", data: []byte("b")},
		{name: "ComicInfo.xml", data: []byte(sampleComicInfo)},
	})

	c := openTest(t, path, testOptions(t, nil))
	require.Equal(t, cbx.KindTar, c.Kind())

	require.NoError(t, c.Convert(cbx.KindZip))
	assert.Equal(t, cbx.KindZip, c.Kind())
	assert.Equal(t, filepath.Join(dir, "book.cbz"), c.Path())
	assert.NoFileExists(t, path)

	images, err := c.Images()
	require.NoError(t, err)
	assert.Equal(t, []string{"001.jpg", "002.jpg"}, images)

	data, err := c.Archive().Read("002.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), data)

	require.NoError(t, c.Convert(cbx.KindZip))
	require.ErrorIs(t, c.Convert(cbx.KindRar), cbx.ErrConversionUnsupported)
}

func TestMoveTo(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "library")
	path := filepath.Join(dir, "incoming.cbz")
	writeZip(t, path, []entry{{name: "001.jpg", data: []byte("a")}})

	c := openTest(t, path, testOptions(t, nil))

	target, moved, err := c.MoveTo("/Publisher/Series-v1/Series-v1_#001", out)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, filepath.Join(out, "Publisher", "Series-v1", "Series-v1_#001.cbz"), target)
	assert.FileExists(t, target)
	assert.NoFileExists(t, path)
	assert.Equal(t, target, c.Path())

	_, moved, err = c.MoveTo("Publisher/Series-v1/Series-v1_#001", out)
	require.NoError(t, err)
	assert.False(t, moved)

	other := filepath.Join(dir, "other.cbz")
	writeZip(t, other, []entry{{name: "001.jpg", data: []byte("b")}})
	oc := openTest(t, other, Options{LockDir: c.lockDir})

	kept, moved, err := oc.MoveTo("Publisher/Series-v1/Series-v1_#001", out)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, other, kept)
	assert.FileExists(t, other)
}

func TestMoveToLockedTargetKeepsNewPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "library")
	path := filepath.Join(dir, "incoming.cbz")
	writeZip(t, path, []entry{{name: "001.jpg", data: []byte("a")}})

	opts := testOptions(t, nil)
	c := openTest(t, path, opts)

	want := filepath.Join(out, "Series_#001.cbz")
	held, err := acquireLock(opts.LockDir, want)
	require.NoError(t, err)
	t.Cleanup(func() { _ = held.Unlock() })

	target, moved, err := c.MoveTo("Series_#001", out)
	require.ErrorIs(t, err, ErrLocked)
	assert.True(t, moved)
	assert.Equal(t, want, target)
	assert.Equal(t, want, c.Path())
	assert.FileExists(t, want)

	images, err := c.Images()
	require.NoError(t, err)
	assert.Equal(t, []string{"001.jpg"}, images)
}

func TestNeedsRefresh(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	policy := RefreshPolicy{
		StaleAfter:  28 * 24 * time.Hour,
		MissingDate: time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	recent := now.Add(-24 * time.Hour)
	old := now.Add(-30 * 24 * time.Hour)
	future := now.Add(365 * 24 * time.Hour)

	testCases := []struct {
		name      string
		metron    *metadata.MetronInfo
		comicInfo *metadata.ComicInfo
		want      bool
	}{
		{name: "no metadata", want: true},
		{name: "comic info only", comicInfo: &metadata.ComicInfo{}, want: true},
		{name: "metron without date", metron: &metadata.MetronInfo{}, want: true},
		{name: "metron recent", metron: &metadata.MetronInfo{LastModified: &recent}, want: false},
		{name: "metron old", metron: &metadata.MetronInfo{LastModified: &old}, want: true},
		{name: "metron in future", metron: &metadata.MetronInfo{LastModified: &future}, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := &Comic{metron: tc.metron, comicInfo: tc.comicInfo}
			assert.Equal(t, tc.want, c.NeedsRefresh(now, policy))
		})
	}
}

func TestBuildPages(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "book.cbz")
	cover := pngBytes(t, 10, 20)
	spread := pngBytes(t, 40, 20)
	back := pngBytes(t, 10, 20)
	writeZip(t, path, []entry{
		{name: "003.png", data: back},
		{name: "001.png", data: cover},
		{name: "002.png", data: spread},
		{name: "004.jxl", data: []byte("not decodable")},
		{name: "ComicInfo.xml", data: []byte(`<ComicInfo><Pages><Page Image="2" Type="Advertisement"/></Pages></ComicInfo>`)},
	})

	var logs bytes.Buffer
	c := openTest(t, path, testOptions(t, &logs))

	pages, err := c.BuildPages(nil)
	require.NoError(t, err)
	require.Len(t, pages, 4)

	assert.Equal(t, metadata.PageFrontCover, pages[0].Type)
	assert.Equal(t, 10, pages[0].ImageWidth)
	assert.Equal(t, 20, pages[0].ImageHeight)
	assert.False(t, pages[0].DoublePage)
	assert.Equal(t, int64(len(cover)), pages[0].ImageSize)

	assert.Equal(t, metadata.PageStory, pages[1].Type)
	assert.True(t, pages[1].DoublePage)

	assert.Equal(t, metadata.PageAdvertisement, pages[2].Type)

	assert.Equal(t, metadata.PageBackCover, pages[3].Type)
	assert.Zero(t, pages[3].ImageWidth)
	assert.False(t, pages[3].DoublePage)
	assert.Contains(t, logs.String(), "cannot probe page")
}

func TestDecodeProber(t *testing.T) {
	t.Parallel()

	w, h, err := DecodeProber{}.Probe(pngBytes(t, 3, 7))
	require.NoError(t, err)
	assert.Equal(t, 3, w)
	assert.Equal(t, 7, h)

	_, _, err = DecodeProber{}.Probe([]byte("junk"))
	require.Error(t, err)

	fixed := ProberFunc(func([]byte) (int, int, error) { return 5, 5, nil })
	w, h, err = fixed.Probe(nil)
	require.NoError(t, err)
	assert.Equal(t, 5, w)
	assert.Equal(t, 5, h)
}
