// Package project finds the project-local .taskquest directory so a repo can
// carry its own configuration.
//
// Detection walks up from the start directory. The first .taskquest
// directory wins. The walk stops at the enclosing git root, so a config in
// a parent of the repository is never picked up by accident.
package project

import (
	"errors"
	"path/filepath"

	"github.com/spf13/afero"
)

// DirName is the project-local configuration directory.
const DirName = ".taskquest"

// ErrNoProjectFound is returned when no .taskquest directory is reachable.
var ErrNoProjectFound = errors.New("no project root found")

// MarkerType records what anchored the detected root.
type MarkerType int

const (
	MarkerNone MarkerType = iota
	MarkerTaskQuest
	MarkerGit
)

func (m MarkerType) String() string {
	switch m {
	case MarkerTaskQuest:
		return DirName
	case MarkerGit:
		return ".git"
	default:
		return "none"
	}
}

// Context describes a detected project.
type Context struct {
	// RootPath is the directory holding the marker.
	RootPath   string
	MarkerType MarkerType
	// GitRoot is the enclosing repository root, or empty outside git.
	GitRoot string
}

// ConfigDir is RootPath/.taskquest, or empty when the root is not anchored
// by a .taskquest directory.
func (c *Context) ConfigDir() string {
	if c.MarkerType != MarkerTaskQuest {
		return ""
	}
	return filepath.Join(c.RootPath, DirName)
}

// Detector finds project roots on a filesystem.
type Detector struct {
	fs afero.Fs
}

func NewDetector(fs afero.Fs) *Detector {
	return &Detector{fs: fs}
}

// Detect walks from startPath to the filesystem root. It returns the
// nearest .taskquest directory at or below the git root, else the git root
// itself with MarkerGit, else ErrNoProjectFound.
func (d *Detector) Detect(startPath string) (*Context, error) {
	dir, err := filepath.Abs(startPath)
	if err != nil {
		return nil, err
	}
	for {
		if d.isDir(filepath.Join(dir, DirName)) {
			return &Context{RootPath: dir, MarkerType: MarkerTaskQuest, GitRoot: d.gitRoot(dir)}, nil
		}
		if d.exists(filepath.Join(dir, ".git")) {
			return &Context{RootPath: dir, MarkerType: MarkerGit, GitRoot: dir}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrNoProjectFound
		}
		dir = parent
	}
}

// gitRoot returns the nearest ancestor of dir (inclusive) containing .git.
func (d *Detector) gitRoot(dir string) string {
	for {
		if d.exists(filepath.Join(dir, ".git")) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func (d *Detector) isDir(path string) bool {
	ok, err := afero.IsDir(d.fs, path)
	return err == nil && ok
}

// exists accepts .git files too, as used by worktrees and submodules.
func (d *Detector) exists(path string) bool {
	ok, err := afero.Exists(d.fs, path)
	return err == nil && ok
}
