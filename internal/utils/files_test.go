package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSafeWriteFileReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := SafeWriteFile(path, []byte("top_k: 3\n")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "top_k: 3\n" {
		t.Fatalf("unexpected content %q", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestSafeWriteFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "config.yaml")
	if err := SafeWriteFile(path, []byte("x")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]any{"exact": true})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{\n  \"exact\": true\n}" {
		t.Fatalf("unexpected json %q", b)
	}
	if _, err := PrettyJSON(make(chan int)); err == nil {
		t.Fatal("expected marshal error")
	}
}
