package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRenderDriveFileExactContent(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"ABC123", `{ "driveAuthCode": "ABC123" }`},
		{"TOK.1-2_3", `{ "driveAuthCode": "TOK.1-2_3" }`},
		{"WV42", `{ "driveAuthCode": "WV42" }`},
	}
	for _, tt := range tests {
		got, err := RenderDriveFile(tt.code)
		if err != nil {
			t.Fatalf("RenderDriveFile(%q) error: %v", tt.code, err)
		}
		if string(got) != tt.want {
			t.Errorf("RenderDriveFile(%q) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestSaveWritesOnceNextToDirectory(t *testing.T) {
	dir := t.TempDir()
	s := NewDriveFileStore(dir)

	path, err := s.Save("ABC123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(dir, "drive.json") {
		t.Fatalf("unexpected path %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read drive.json: %v", err)
	}
	if string(data) != `{ "driveAuthCode": "ABC123" }` {
		t.Fatalf("unexpected content %q", data)
	}

	if _, err = s.Save("SECOND"); !errors.Is(err, ErrAlreadySaved) {
		t.Fatalf("expected ErrAlreadySaved, got %v", err)
	}
	code, err := LoadDriveFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if code != "ABC123" {
		t.Fatalf("second save must not overwrite, got %q", code)
	}
}

func TestSaveRejectsEmptyCode(t *testing.T) {
	s := NewDriveFileStore(t.TempDir())
	if _, err := s.Save("  "); !errors.Is(err, ErrEmptyCode) {
		t.Fatalf("expected ErrEmptyCode, got %v", err)
	}
	if s.Exists() {
		t.Fatalf("no file may be written for an empty code")
	}
	if _, err := s.Save("ABC"); err != nil {
		t.Fatalf("an empty code must not consume the single write: %v", err)
	}
}

func TestSaveTruncatesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "drive.json")
	if err := os.WriteFile(path, []byte(`{ "driveAuthCode": "AN-OLDER-AND-LONGER-CODE" }`), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	s := NewDriveFileStore(dir)
	if !s.Exists() {
		t.Fatalf("expected existing file to be detected")
	}
	if _, err := s.Save("NEW"); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != `{ "driveAuthCode": "NEW" }` {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestSaveReportsPersistError(t *testing.T) {
	s := NewDriveFileStore(filepath.Join(t.TempDir(), "missing", "dir"))
	_, err := s.Save("ABC")
	var persistErr *PersistError
	if !errors.As(err, &persistErr) {
		t.Fatalf("expected PersistError, got %v", err)
	}
	if s.Exists() {
		t.Fatalf("no file expected after a failed write")
	}
}

func TestLoadDriveFileRejectsForeignJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drive.json")
	if err := os.WriteFile(path, []byte(`{"driveRefreshToken":"x"}`), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := LoadDriveFile(path); err == nil {
		t.Fatalf("expected error for missing key")
	}
}
