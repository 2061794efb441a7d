package osfilesystem

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFileSystem_WriteAndReadFile(t *testing.T) {
	fs := New()

	tmpDir, err := os.MkdirTemp("", "osfilesystem_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	testPath := filepath.Join(tmpDir, "run_header.json")
	testData := []byte(`{"fps": 20.0}`)

	if err := fs.WriteFile(testPath, testData); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile(testPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != string(testData) {
		t.Errorf("expected %q, got %q", testData, data)
	}
}

func TestFileSystem_WriteFileCreatesParentDirs(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	testPath := filepath.Join(tmpDir, "frames", "000000.png")
	if err := fs.WriteFile(testPath, []byte("png")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	exists, err := fs.Exists(testPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected file to exist")
	}
}

func TestFileSystem_OpenAppendKeepsExistingContent(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "meta.jsonl")

	if err := os.WriteFile(path, []byte("line1\n"), 0644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	f, err := fs.OpenAppend(path)
	if err != nil {
		t.Fatalf("OpenAppend failed: %v", err)
	}
	if _, err := f.Write([]byte("line2\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := f.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "line1\nline2\n" {
		t.Errorf("expected appended content, got %q", data)
	}
}

func TestFileSystem_OpenAppendCreatesFile(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "nested", "meta.jsonl")

	f, err := fs.OpenAppend(path)
	if err != nil {
		t.Fatalf("OpenAppend failed: %v", err)
	}
	f.Close()

	exists, _ := fs.Exists(path)
	if !exists {
		t.Error("expected file to be created")
	}
}

func TestFileSystem_ReadDir(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	for _, name := range []string{"000002.png", "000000.png", "000001.png"} {
		os.WriteFile(filepath.Join(tmpDir, name), []byte{}, 0644)
	}

	names, err := fs.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}

	expected := []string{"000000.png", "000001.png", "000002.png"}
	if !reflect.DeepEqual(names, expected) {
		t.Errorf("expected %v, got %v", expected, names)
	}
}

func TestFileSystem_Exists(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	testPath := filepath.Join(tmpDir, "test.txt")
	os.WriteFile(testPath, []byte("test"), 0644)

	exists, err := fs.Exists(testPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected file to exist")
	}

	exists, err = fs.Exists(filepath.Join(tmpDir, "nonexistent.txt"))
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected file to not exist")
	}
}
