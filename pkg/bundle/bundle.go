// Package bundle ships the Filament skills with the binary. The skill tree is
// embedded at compile time and materialized on disk on first use, because the
// writer copies skills from a directory.
package bundle

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aipencil/smoothie/pkg/version"
	"github.com/pkg/errors"
)

//go:embed skills
var content embed.FS

const (
	root       = "skills"
	markerFile = ".smoothie-bundle"
)

// FS returns the embedded skills tree.
func FS() fs.FS {
	sub, err := fs.Sub(content, root)
	if err != nil {
		panic(err)
	}
	return sub
}

// Extract writes the embedded skills tree into dest, creating directories as
// needed and overwriting existing files.
func Extract(dest string) error {
	return fs.WalkDir(FS(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		target := filepath.Join(dest, filepath.FromSlash(path))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		data, err := fs.ReadFile(FS(), path)
		if err != nil {
			return errors.Wrapf(err, "failed to read embedded file %s", path)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", target)
		}
		return nil
	})
}

// Dir returns a directory holding the bundled skills. Release builds reuse
// the extracted tree of their version; dev builds extract on every call.
func Dir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}

	dest := filepath.Join(cacheDir, "smoothie", "skills", version.Version)
	marker := filepath.Join(dest, markerFile)

	if version.Version != version.DevVersion {
		if _, err := os.Stat(marker); err == nil {
			return dest, nil
		}
	}

	if err := os.RemoveAll(dest); err != nil {
		return "", errors.Wrap(err, "failed to clear bundled skills directory")
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", errors.Wrap(err, "failed to create bundled skills directory")
	}
	if err := Extract(dest); err != nil {
		return "", errors.Wrap(err, "failed to extract bundled skills")
	}
	if err := os.WriteFile(marker, []byte(version.Version), 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write bundle marker")
	}

	return dest, nil
}
