package persist

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/josephgoksu/TaskQuest/internal/store"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"
)

// Format is a snapshot file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

const (
	checksumSuffix = ".checksum"
	lockRetryDelay = 50 * time.Millisecond
)

// SnapshotFileName returns the default file name for a format.
func SnapshotFileName(f Format) string {
	return "state." + string(f)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Marshal encodes a snapshot in the given format.
func Marshal(st store.State, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.MarshalIndent(st, "", "  ")
	case FormatYAML:
		return yaml.Marshal(st)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(st); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Unmarshal decodes a snapshot in the given format.
func Unmarshal(data []byte, f Format) (*store.State, error) {
	var st store.State
	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &st)
	case FormatYAML:
		err = yaml.Unmarshal(data, &st)
	case FormatTOML:
		err = toml.Unmarshal(data, &st)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// File persists state as a single snapshot file next to a SHA-256 checksum.
// On the OS filesystem, access is serialised across processes with a lock
// file.
type File struct {
	fs     afero.Fs
	path   string
	format Format
	lock   *flock.Flock
}

// FileOption configures a File.
type FileOption func(*File)

// WithFS swaps the filesystem, e.g. for afero.NewMemMapFs in tests. Locking
// is only used on the OS filesystem.
func WithFS(fsys afero.Fs) FileOption {
	return func(f *File) { f.fs = fsys }
}

// NewFile creates a file persister for path.
func NewFile(path string, format Format, opts ...FileOption) (*File, error) {
	switch format {
	case FormatJSON, FormatYAML, FormatTOML:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	f := &File{fs: afero.NewOsFs(), path: path, format: format}
	for _, opt := range opts {
		opt(f)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := f.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	if _, ok := f.fs.(*afero.OsFs); ok {
		f.lock = flock.New(path + ".lock")
	}
	return f, nil
}

// Path returns the snapshot path.
func (f *File) Path() string { return f.path }

// Close implements Closer.
func (f *File) Close() error {
	if f.lock != nil {
		return f.lock.Close()
	}
	return nil
}

func (f *File) withLock(ctx context.Context, shared bool, fn func() error) error {
	if f.lock == nil {
		return fn()
	}
	var err error
	if shared {
		_, err = f.lock.TryRLockContext(ctx, lockRetryDelay)
	} else {
		_, err = f.lock.TryLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return fmt.Errorf("lock %s: %w", f.path, err)
	}
	defer func() { _ = f.lock.Unlock() }()
	return fn()
}

// Load implements store.Persister. A missing or empty file yields (nil, nil);
// a checksum mismatch is an error.
func (f *File) Load(ctx context.Context) (*store.State, error) {
	var st *store.State
	err := f.withLock(ctx, true, func() error {
		data, err := afero.ReadFile(f.fs, f.path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", f.path, err)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		if err := f.verify(data); err != nil {
			return err
		}
		st, err = Unmarshal(data, f.format)
		if err != nil {
			return fmt.Errorf("decode %s: %w", f.path, err)
		}
		return nil
	})
	return st, err
}

func (f *File) verify(data []byte) error {
	sum, err := afero.ReadFile(f.fs, f.path+checksumSuffix)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read checksum: %w", err)
	}
	if want, got := strings.TrimSpace(string(sum)), checksum(data); want != got {
		return fmt.Errorf("checksum mismatch for %s: file is corrupt or was edited", f.path)
	}
	return nil
}

// Save implements store.Persister. Data and checksum are written to
// temporary files and renamed into place.
func (f *File) Save(ctx context.Context, st store.State) error {
	data, err := Marshal(st, f.format)
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.format, err)
	}
	return f.withLock(ctx, false, func() error {
		tmp := f.path + ".tmp"
		sumPath := f.path + checksumSuffix
		tmpSum := sumPath + ".tmp"
		defer func() { _ = f.fs.Remove(tmp) }()
		defer func() { _ = f.fs.Remove(tmpSum) }()

		if err := afero.WriteFile(f.fs, tmp, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", tmp, err)
		}
		if err := afero.WriteFile(f.fs, tmpSum, []byte(checksum(data)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", tmpSum, err)
		}
		if err := f.fs.Rename(tmp, f.path); err != nil {
			return fmt.Errorf("rename %s: %w", tmp, err)
		}
		if err := f.fs.Rename(tmpSum, sumPath); err != nil {
			return fmt.Errorf("data file %s updated but checksum was not: %w", f.path, err)
		}
		return nil
	})
}

func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
