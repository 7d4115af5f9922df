package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/autolysis/internal/utils"
)

func TestEnsureDirIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results", "goodreads")
	for i := 0; i < 2; i++ {
		if err := utils.EnsureDir(dir); err != nil {
			t.Fatalf("EnsureDir #%d: %v", i+1, err)
		}
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Fatalf("dir not created: %v", err)
	}
}

func TestSafeWriteFileReplacesAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "README.md")
	if err := utils.SafeWriteFile(p, []byte("one")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := utils.SafeWriteFile(p, []byte("two")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "two" {
		t.Fatalf("content = %q, err = %v", b, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected only README.md in %s, got %d entries (err %v)", dir, len(entries), err)
	}
}

func TestSafeWriteFileOntoDirectoryFails(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "pairplot.png")
	if err := os.Mkdir(p, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := utils.SafeWriteFile(p, []byte("x")); err == nil {
		t.Fatalf("expected error replacing a directory")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temp file left behind: %d entries", len(entries))
	}
}

func TestSafeWriteFileMissingDir(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nope", "README.md")
	if err := utils.SafeWriteFile(p, []byte("x")); err == nil {
		t.Fatalf("expected error writing into a missing directory")
	}
}
