package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "steps.bin")

	if err := WriteFile(path, []byte("hello world")); err != nil {
		t.Fatalf("write file: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	got, err := Read(f, 6, 5)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "world" {
		t.Fatalf("read mismatch: got %q want %q", got, "world")
	}

	short, err := Read(f, 8, 10)
	if err != nil {
		t.Fatalf("short read: %v", err)
	}
	if string(short) != "rld" {
		t.Fatalf("short read mismatch: got %q", short)
	}
}

func TestWriteFileReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "steps.bin")

	if err := WriteFile(path, []byte("first version")); err != nil {
		t.Fatalf("write first: %v", err)
	}
	if err := WriteFile(path, []byte("second")); err != nil {
		t.Fatalf("write second: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("expected replaced content, got %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, found %d entries", len(entries))
	}
}
