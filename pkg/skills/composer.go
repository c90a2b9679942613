package skills

import (
	"context"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aipencil/smoothie/pkg/bundle"
	"github.com/aipencil/smoothie/pkg/logger"
	"github.com/pkg/errors"
)

const (
	// SkillFileName marks a directory as a skill bundle
	SkillFileName = "SKILL.blade.php"

	// DefaultDescription is used when the frontmatter has no folded description
	DefaultDescription = "A Smoothie Filament skill"

	// UserSkillsDir is the project relative directory of user authored skills
	UserSkillsDir = ".ai/smoothie"
)

// descriptionPattern matches a folded (>-) description inside the leading
// frontmatter block. The value ends at the closing delimiter or at the next
// unindented key.
var descriptionPattern = regexp.MustCompile(`(?s)^---\s*\n.*?description:\s*>-\s*\n\s*(.+?)(?:\n---|\n[A-Za-z_][A-Za-z0-9_-]*:)`)

// Composer discovers skills from the bundled and user skill directories and
// caches the result until ResetSkills is called.
type Composer struct {
	bundledDir string
	userDir    string
	skills     map[string]Skill
}

// Option is a function that configures a Composer
type Option func(*Composer) error

// WithBundledDir sets the directory scanned for bundled skills
func WithBundledDir(dir string) Option {
	return func(c *Composer) error {
		c.bundledDir = dir
		return nil
	}
}

// WithUserDir sets the directory scanned for user authored skills
func WithUserDir(dir string) Option {
	return func(c *Composer) error {
		c.userDir = dir
		return nil
	}
}

// WithDefaultDirs uses the embedded skill bundle and ./.ai/smoothie
func WithDefaultDirs() Option {
	return func(c *Composer) error {
		dir, err := bundle.Dir()
		if err != nil {
			return errors.Wrap(err, "failed to prepare bundled skills")
		}
		c.bundledDir = dir
		c.userDir = UserSkillsDir
		return nil
	}
}

// NewComposer creates a new skill composer
func NewComposer(opts ...Option) (*Composer, error) {
	c := &Composer{}

	if len(opts) == 0 {
		opts = []Option{WithDefaultDirs()}
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// ResetSkills drops the cached catalog so the next Skills call scans again.
func (c *Composer) ResetSkills() *Composer {
	c.skills = nil
	return c
}

// Skills returns every discovered skill keyed by name. Bundled skills are
// loaded first and user skills are merged on top, so a user skill replaces a
// bundled skill of the same name.
func (c *Composer) Skills(ctx context.Context) map[string]Skill {
	if c.skills == nil {
		all := make(map[string]Skill)
		maps.Copy(all, c.discover(ctx, c.bundledDir, PackageBundled))

		for name, skill := range c.discover(ctx, c.userDir, PackageUser) {
			all[name] = skill.WithCustom(true)
		}

		logger.G(ctx).WithField("count", len(all)).Debug("discovered skills")
		c.skills = all
	}

	return maps.Clone(c.skills)
}

// discover scans the immediate subdirectories of dir, in name order, for skill
// bundles. A missing directory contributes nothing.
func (c *Composer) discover(ctx context.Context, dir, pkg string) map[string]Skill {
	found := make(map[string]Skill)
	if dir == "" {
		return found
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.G(ctx).WithField("dir", dir).WithError(err).Debug("skipping skills directory")
		return found
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		entryPath := filepath.Join(dir, name)
		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		skillFile := filepath.Join(entryPath, SkillFileName)
		if info, err := os.Stat(skillFile); err != nil || info.IsDir() {
			continue
		}

		absPath, err := filepath.Abs(entryPath)
		if err != nil {
			absPath = entryPath
		}

		found[name] = Skill{
			Name:        name,
			Package:     pkg,
			Path:        absPath,
			Description: ExtractDescription(ctx, skillFile),
		}
	}

	return found
}

// ExtractDescription reads the folded description from a skill definition
// file. Read failures and files without a folded description yield
// DefaultDescription.
func ExtractDescription(ctx context.Context, path string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.G(ctx).WithField("path", path).WithError(err).Debug("failed to read skill file")
		return DefaultDescription
	}

	return ParseDescription(string(content))
}

// ParseDescription extracts the folded description from skill definition text.
func ParseDescription(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	matches := descriptionPattern.FindStringSubmatch(content)
	if matches == nil {
		return DefaultDescription
	}

	return strings.TrimSpace(matches[1])
}
