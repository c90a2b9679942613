package bundle

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bundledSkills = []string{"actions", "forms", "infolists", "notifications", "tables", "widgets"}

func TestFSContainsBundledSkills(t *testing.T) {
	for _, name := range bundledSkills {
		t.Run(name, func(t *testing.T) {
			data, err := fs.ReadFile(FS(), name+"/SKILL.blade.php")
			require.NoError(t, err)
			assert.Contains(t, string(data), "description: >-")
		})
	}
}

func TestExtract(t *testing.T) {
	dest := t.TempDir()
	require.NoError(t, Extract(dest))

	for _, name := range bundledSkills {
		_, err := os.Stat(filepath.Join(dest, name, "SKILL.blade.php"))
		assert.NoError(t, err)
	}

	// Extracting again overwrites in place
	require.NoError(t, os.WriteFile(filepath.Join(dest, "forms", "SKILL.blade.php"), []byte("changed"), 0o644))
	require.NoError(t, Extract(dest))

	data, err := os.ReadFile(filepath.Join(dest, "forms", "SKILL.blade.php"))
	require.NoError(t, err)
	assert.NotEqual(t, "changed", string(data))
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	dir, err := Dir()
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "actions", "SKILL.blade.php"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, markerFile))
	assert.NoError(t, err)
}
