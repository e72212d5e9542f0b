package imagestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestSaveReturnsServableURL(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "/files/images/", zap.NewNop())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	url, err := s.Save(context.Background(), "photo.PNG", strings.NewReader("fake-png-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(url, "/files/images/") {
		t.Errorf("url = %q, want /files/images/ prefix", url)
	}
	if !strings.HasSuffix(url, ".png") {
		t.Errorf("url = %q, want lowercased .png extension", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "fake-png-bytes" {
		t.Errorf("stored content = %q", data)
	}
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "/files/images", zap.NewNop())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	u1, err := s.Save(context.Background(), "a.jpg", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	u2, err := s.Save(context.Background(), "a.jpg", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if u1 == u2 {
		t.Errorf("two uploads of the same name produced the same url %q", u1)
	}
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "/files/images", zap.NewNop())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	for _, name := range []string{"doc.pdf", "script.sh", "noext", "image.gif"} {
		if _, err := s.Save(context.Background(), name, strings.NewReader("x")); !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("Save(%q) err = %v, want ErrUnsupportedType", name, err)
		}
	}
}

func TestNewLocalStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "images")
	if _, err := NewLocalStore(dir, "/files/images", zap.NewNop()); err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("upload dir not created: %v", err)
	}
}
