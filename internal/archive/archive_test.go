package archive

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

const doc = `<?xml version="1.0" encoding="UTF-8"?>
<tmx version="1.4"><body><tu><tuv xml:lang="EN"><seg>Hello</seg></tuv></tu></body></tmx>
`

func writeDoc(t *testing.T, path string) {
	t.Helper()
	out, err := CreateOutput(path)
	if err != nil {
		t.Fatalf("CreateOutput(%q) failed: %v", path, err)
	}
	if _, err := io.WriteString(out, doc); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func readDoc(t *testing.T, path string) (string, Compression) {
	t.Helper()
	in, err := OpenInput(path)
	if err != nil {
		t.Fatalf("OpenInput(%q) failed: %v", path, err)
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	return string(data), in.Compression
}

// TestRoundTrip verifies that each compression format reads back unchanged.
func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		file string
		want Compression
	}{
		{"plain", "doc.tmx", None},
		{"gzip", "doc.tmx.gz", Gzip},
		{"xz", "doc.tmx.xz", XZ},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			writeDoc(t, path)

			got, comp := readDoc(t, path)
			if got != doc {
				t.Errorf("read back %q, want %q", got, doc)
			}
			if comp != tt.want {
				t.Errorf("Compression = %v, want %v", comp, tt.want)
			}
		})
	}
}

// TestCompressedOnDisk verifies compressed outputs differ from the document.
func TestCompressedOnDisk(t *testing.T) {
	for _, name := range []string{"doc.gz", "doc.xz"} {
		path := filepath.Join(t.TempDir(), name)
		writeDoc(t, path)

		raw, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if string(raw) == doc {
			t.Errorf("%s was written uncompressed", name)
		}
	}
}

// TestDetectionIgnoresSuffix verifies input compression is sniffed.
func TestDetectionIgnoresSuffix(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "doc.xz")
	writeDoc(t, src)

	renamed := filepath.Join(dir, "doc.bin")
	if err := os.Rename(src, renamed); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	got, comp := readDoc(t, renamed)
	if comp != XZ || got != doc {
		t.Errorf("got %v %q, want xz document", comp, got)
	}
}

func TestOpenInputEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.tmx")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	got, comp := readDoc(t, path)
	if got != "" || comp != None {
		t.Errorf("got %v %q, want empty plain input", comp, got)
	}
}

func TestOpenInputMissing(t *testing.T) {
	if _, err := OpenInput(filepath.Join(t.TempDir(), "missing.tmx")); err == nil {
		t.Error("OpenInput should fail for a missing file")
	}
}

func TestOpenInputCorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gz")
	if err := os.WriteFile(path, []byte{0x1f, 0x8b, 0x00}, 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := OpenInput(path); err == nil {
		t.Error("OpenInput should fail for a truncated gzip header")
	}
}

func TestCreateOutputBadDir(t *testing.T) {
	if _, err := CreateOutput(filepath.Join(t.TempDir(), "no", "such", "out.tmx")); err == nil {
		t.Error("CreateOutput should fail when the directory is missing")
	}
}

func TestCompressionFor(t *testing.T) {
	tests := map[string]Compression{
		"a.tmx":    None,
		"a.tmx.gz": Gzip,
		"a.tmx.xz": XZ,
		"-":        None,
		"":         None,
	}
	for path, want := range tests {
		if got := CompressionFor(path); got != want {
			t.Errorf("CompressionFor(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestIsStdio(t *testing.T) {
	if !IsStdio("") || !IsStdio("-") || IsStdio("a.tmx") {
		t.Error("IsStdio misclassified a path")
	}
}

func TestCompressionString(t *testing.T) {
	if None.String() != "none" || Gzip.String() != "gzip" || XZ.String() != "xz" {
		t.Error("unexpected Compression names")
	}
}
