package release

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"sarpublish.run/internal/constants"
)

// Workspace is a uniquely named, disposable build directory. It is owned
// exclusively by one release run and removed unconditionally at run end.
type Workspace struct {
	dir string
}

// NewWorkspace creates a fresh, empty workspace directory under the system
// temp dir.
func NewWorkspace() (*Workspace, error) {
	dir := filepath.Join(os.TempDir(), "sarpublish-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}

	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace root.
func (w *Workspace) Dir() string { return w.dir }

// Path joins the given elements onto the workspace root.
func (w *Workspace) Path(elem ...string) string {
	return filepath.Join(append([]string{w.dir}, elem...)...)
}

// ApplicationDir returns the subtree holding the staged application sources.
func (w *Workspace) ApplicationDir() string {
	return w.Path(constants.ApplicationSubdir)
}

// Remove tears the workspace down. Best effort: a missing directory or a
// failed removal never fails the run.
func (w *Workspace) Remove() {
	_ = os.RemoveAll(w.dir)
}

// StageSpec describes which parts of the source tree are staged into the
// workspace. Paths are relative to the source root; file destinations are
// relative to the application subtree.
type StageSpec struct {
	Files   map[string]string
	Dirs    []string
	Exclude []string
}

// DefaultStageSpec returns the forwarder source layout: runtime Dockerfile,
// dependency manifest, entrypoint, license, README and the application
// source directories, with Python build caches excluded.
func DefaultStageSpec() StageSpec {
	return StageSpec{
		Files: map[string]string{
			"Dockerfile":         "Dockerfile",
			"requirements.txt":   "requirements.txt",
			"main_aws.py":        "main_aws.py",
			"LICENSE.txt":        "LICENSE.txt",
			"docs/README-AWS.md": "README.md",
		},
		Dirs:    []string{"handlers", "share", "shippers", "storage"},
		Exclude: []string{"__pycache__", "*.pyc"},
	}
}

// Stage copies the source files and directories named by spec into the
// workspace application subtree, preserving relative paths. The source tree
// is never mutated. A missing or unreadable input is a StagingError.
func (w *Workspace) Stage(srcRoot string, spec StageSpec) error {
	for src, dst := range spec.Files {
		if err := copyFile(
			filepath.Join(srcRoot, src), w.Path(constants.ApplicationSubdir, dst),
		); err != nil {
			return &StagingError{Path: src, Err: err}
		}
	}

	for _, dir := range spec.Dirs {
		if err := w.stageDir(srcRoot, dir, spec.Exclude); err != nil {
			return err
		}
	}

	return nil
}

func (w *Workspace) stageDir(srcRoot, dir string, exclude []string) error {
	root := filepath.Join(srcRoot, dir)
	if _, err := os.Stat(root); err != nil {
		return &StagingError{Path: dir, Err: err}
	}

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if excluded(entry.Name(), exclude) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(srcRoot, path)
		if err != nil {
			return err
		}
		dst := w.Path(constants.ApplicationSubdir, rel)

		if entry.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}
		return copyFile(path, dst)
	})
	if err != nil {
		return &StagingError{Path: dir, Err: err}
	}

	return nil
}

func excluded(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
