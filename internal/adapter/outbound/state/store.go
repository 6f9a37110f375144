// Package state persists the opaque session credential across process
// runs. The credential lives in a single file with 0600 permissions,
// written atomically (write-tmp-then-rename) under a file lock.
package state

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// FileCredentialStore stores the credential in a single file.
// It implements outbound.CredentialStore.
type FileCredentialStore struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewFileCredentialStore creates a store backed by the given file path.
func NewFileCredentialStore(path string, logger *slog.Logger) *FileCredentialStore {
	return &FileCredentialStore{
		path:   path,
		logger: logger,
	}
}

// Load reads the stored credential. A missing file means no credential
// and is not an error. Warns if the file permissions are more open than
// 0600.
func (s *FileCredentialStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read credential file: %w", err)
	}

	// Unix permission bits are meaningless on Windows.
	if runtime.GOOS != "windows" {
		if info, statErr := os.Stat(s.path); statErr == nil {
			mode := info.Mode().Perm()
			if mode&0077 != 0 { // group or other has access
				s.logger.Warn("credential file has too-open permissions, should be 0600",
					"path", s.path, "current_mode", fmt.Sprintf("%04o", mode))
			}
		}
	}

	credential := strings.TrimSpace(string(data))
	if credential != "" {
		s.logger.Debug("credential loaded", "fingerprint", fingerprint(credential))
	}
	return credential, nil
}

// Save writes the credential to disk atomically.
//
// The write sequence is:
//  1. Acquire in-process mutex
//  2. Create the parent directory (0700) if needed
//  3. Acquire flock on path+".lock"
//  4. Write to path+".tmp" with 0600 permissions
//  5. Fsync the temp file
//  6. Rename path+".tmp" -> path
//  7. Release flock and mutex
func (s *FileCredentialStore) Save(credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create credential directory: %w", err)
	}

	lockPath := s.path + ".lock"
	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer func() { _ = lockFile.Close() }()

	if err := flockLock(lockFile.Fd()); err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	defer flockUnlock(lockFile.Fd()) //nolint:errcheck

	tmpPath := s.path + ".tmp"
	tmpFile, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmpFile.WriteString(credential); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	s.logger.Debug("credential saved", "path", s.path, "fingerprint", fingerprint(credential))
	return nil
}

// Clear removes the stored credential. Clearing an absent credential is
// not an error.
func (s *FileCredentialStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	s.logger.Debug("credential cleared", "path", s.path)
	return nil
}

// fingerprint returns a short stable hash of the credential so logs can
// correlate credentials without revealing them.
func fingerprint(credential string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(credential))
}
