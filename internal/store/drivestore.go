// Package store persists the captured Alipan authorization code as the drive.json artifact
// that TYSS reads from the SD card.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"github.com/tyss-project/adrivehelper/internal/constant"
	"github.com/tyss-project/adrivehelper/internal/misc"
	"github.com/tyss-project/adrivehelper/internal/util"
)

// driveFileKey is the only key of the artifact.
const driveFileKey = "driveAuthCode"

// driveFileTemplate fixes the layout of the artifact; sjson fills the value in place.
const driveFileTemplate = `{ "driveAuthCode": "" }`

var (
	// ErrEmptyCode is returned when Save is called without a code.
	ErrEmptyCode = errors.New("store: authorization code is empty")

	// ErrAlreadySaved is returned by every Save after the first one.
	ErrAlreadySaved = errors.New("store: drive.json was already written by this process")
)

// PersistError reports a filesystem failure while writing drive.json.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// DriveFileStore writes drive.json into a fixed directory at most once per process.
type DriveFileStore struct {
	mu        sync.Mutex
	dir       string
	attempted bool
}

// NewDriveFileStore creates a store that writes into dir.
func NewDriveFileStore(dir string) *DriveFileStore {
	return &DriveFileStore{dir: filepath.Clean(dir)}
}

// NewDefaultDriveFileStore creates a store rooted next to the executable, or at WRITABLE_PATH when set.
func NewDefaultDriveFileStore() (*DriveFileStore, error) {
	dir, err := util.BaseDir()
	if err != nil {
		return nil, fmt.Errorf("store: resolve output directory: %w", err)
	}
	return NewDriveFileStore(dir), nil
}

// Path returns the absolute location of drive.json.
func (s *DriveFileStore) Path() string {
	return filepath.Join(s.dir, constant.DriveFileName)
}

// Exists reports whether a drive.json is already present, e.g. from an earlier run.
func (s *DriveFileStore) Exists() bool {
	info, err := os.Stat(s.Path())
	return err == nil && info.Mode().IsRegular()
}

// Save writes code to drive.json with a single create-or-truncate write and returns the path.
// Only the first call touches the filesystem; later calls return ErrAlreadySaved.
func (s *DriveFileStore) Save(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", ErrEmptyCode
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attempted {
		return "", ErrAlreadySaved
	}
	s.attempted = true

	data, err := RenderDriveFile(code)
	if err != nil {
		return "", err
	}

	path := s.Path()
	misc.LogSavingCredentials(path)
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return "", &PersistError{Path: path, Err: err}
	}
	log.WithField("file", path).Debugf("saved authorization code %s", util.MaskAuthCode(code))
	return path, nil
}

// RenderDriveFile returns the exact bytes of drive.json for code.
func RenderDriveFile(code string) ([]byte, error) {
	out, err := sjson.SetBytes([]byte(driveFileTemplate), driveFileKey, code)
	if err != nil {
		return nil, fmt.Errorf("store: render drive.json: %w", err)
	}
	return out, nil
}

// LoadDriveFile reads the authorization code back from a drive.json file.
func LoadDriveFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("store: %s is not valid JSON", path)
	}
	result := gjson.GetBytes(data, driveFileKey)
	if !result.Exists() || result.Type != gjson.String {
		return "", fmt.Errorf("store: %s has no %s string", path, driveFileKey)
	}
	return result.String(), nil
}
