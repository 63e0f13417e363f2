// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package cbx

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const benchDefaultPages = 128

var (
	// benchListSink prevents compiler elimination in list benchmark loops.
	benchListSink int
)

func BenchmarkZipList(b *testing.B) {
	path := createBenchZip(b, benchDefaultPages)
	archive := ZipFormat(ZipOptions{}).Open(path)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		names, err := archive.List()
		if err != nil {
			b.Fatal(err)
		}
		benchListSink = len(names)
	}
}

func BenchmarkZipRead(b *testing.B) {
	path := createBenchZip(b, benchDefaultPages)
	archive := ZipFormat(ZipOptions{}).Open(path)
	name := benchPageName(benchDefaultPages / 2)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data, err := archive.Read(name)
		if err != nil {
			b.Fatal(err)
		}
		benchListSink = len(data)
	}
}

func BenchmarkZipWriteReplace(b *testing.B) {
	path := createBenchZip(b, benchDefaultPages)
	archive := ZipFormat(ZipOptions{}).Open(path)
	payload := []byte("<ComicInfo/>")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := archive.Write("ComicInfo.xml", payload); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkZipExtractAll(b *testing.B) {
	benchmarkExtractAll(b, createBenchZip(b, benchDefaultPages), ZipFormat(ZipOptions{}))
}

func BenchmarkTarExtractAll(b *testing.B) {
	benchmarkExtractAll(b, createBenchTar(b, benchDefaultPages), TarFormat())
}

// benchmarkExtractAll benchmarks full extraction into a fresh directory per run.
func benchmarkExtractAll(b *testing.B, path string, format Format) {
	archive := format.Open(path)
	dir := b.TempDir()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out := filepath.Join(dir, fmt.Sprintf("run%d", i))
		if err := archive.ExtractAll(out); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTarSessionCommit(b *testing.B) {
	path := createBenchTar(b, benchDefaultPages)
	archive := TarFormat().Open(path)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		err := WithSession(archive, func(s *Session) error {
			return s.Write("MetronInfo.xml", []byte(fmt.Sprintf("<MetronInfo>%d</MetronInfo>", i)))
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCreateZipCompressNoMatch(b *testing.B) {
	source, files := createBenchTree(b, benchDefaultPages)
	format := ZipFormat(ZipOptions{Compress: includeRules("*.txt")})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := format.CreateFromFiles(source, fmt.Sprintf("out%d", i), files); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCreateZipCompressAll(b *testing.B) {
	source, files := createBenchTree(b, benchDefaultPages)
	format := ZipFormat(ZipOptions{Compress: includeRules("*")})

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := format.CreateFromFiles(source, fmt.Sprintf("out%d", i), files); err != nil {
			b.Fatal(err)
		}
	}
}

// createBenchTree writes numPages fake pages under a fresh source directory.
func createBenchTree(b *testing.B, numPages int) (string, []string) {
	b.Helper()

	source := filepath.Join(b.TempDir(), "src")
	payload := bytes.Repeat([]byte("page"), 512)
	files := make([]string, 0, numPages)
	for i := 0; i < numPages; i++ {
		path := filepath.Join(source, filepath.FromSlash(benchPageName(i)))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			b.Fatal(err)
		}
		if err := os.WriteFile(path, payload, 0o600); err != nil {
			b.Fatal(err)
		}
		files = append(files, path)
	}

	return source, files
}

func createBenchZip(b *testing.B, numPages int) string {
	b.Helper()

	source, files := createBenchTree(b, numPages)
	path, err := ZipFormat(ZipOptions{}).CreateFromFiles(source, "bench", files)
	if err != nil {
		b.Fatal(err)
	}

	return path
}

func createBenchTar(b *testing.B, numPages int) string {
	b.Helper()

	source, files := createBenchTree(b, numPages)
	path, err := TarFormat().CreateFromFiles(source, "bench", files)
	if err != nil {
		b.Fatal(err)
	}

	return path
}

func benchPageName(i int) string {
	return fmt.Sprintf("pages/%03d.jpg", i)
}
