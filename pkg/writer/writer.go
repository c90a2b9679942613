// Package writer installs skills into an environment: it copies a skill's
// files into the environment's install directory, rendering guideline
// templates to markdown on the way, then registers the skill with the
// environment's guidelines. Re-running an install overwrites the previous copy.
package writer

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aipencil/smoothie/pkg/environment"
	"github.com/aipencil/smoothie/pkg/logger"
	"github.com/aipencil/smoothie/pkg/render"
	"github.com/aipencil/smoothie/pkg/skills"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const (
	// TemplateSuffix marks files rendered during installation
	TemplateSuffix = ".blade.php"
	// DocumentSuffix replaces TemplateSuffix on rendered files
	DocumentSuffix = ".md"
)

// ErrInvalidSkillName is returned for skill names that are not safe to use as
// a directory name. It points at a broken skill bundle rather than a runtime
// condition, so it aborts the install.
var ErrInvalidSkillName = errors.New("invalid skill name")

var skillNamePattern = regexp.MustCompile(`(?i)^[a-z0-9_-]+$`)

// Outcome is the result of installing one skill
type Outcome int

const (
	// Created means the skill was not installed before
	Created Outcome = iota
	// Updated means an existing installation was overwritten
	Updated
	// Failed means the skill could not be copied
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ValidSkillName reports whether name may be used as a skill directory name.
func ValidSkillName(name string) bool {
	return skillNamePattern.MatchString(name)
}

// Writer installs skills for one environment
type Writer struct {
	env         environment.Environment
	projectRoot string
	renderer    render.Renderer
	exclude     []string
	strategy    Strategy
}

// Option configures a Writer
type Option func(*Writer) error

// WithProjectRoot sets the directory the environment paths are relative to
func WithProjectRoot(root string) Option {
	return func(w *Writer) error {
		abs, err := filepath.Abs(root)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve project root %s", root)
		}
		w.projectRoot = abs
		return nil
	}
}

// WithRenderer sets the renderer used for template files
func WithRenderer(r render.Renderer) Option {
	return func(w *Writer) error {
		if r == nil {
			return errors.New("renderer cannot be nil")
		}
		w.renderer = r
		return nil
	}
}

// WithExclude skips source files whose slash separated path relative to the
// skill directory matches one of the doublestar patterns.
func WithExclude(patterns ...string) Option {
	return func(w *Writer) error {
		for _, pattern := range patterns {
			if !doublestar.ValidatePattern(pattern) {
				return errors.Errorf("invalid exclude pattern %q", pattern)
			}
		}
		w.exclude = append(w.exclude, patterns...)
		return nil
	}
}

// WithStrategy selects how skills are registered with the guidelines
func WithStrategy(s Strategy) Option {
	return func(w *Writer) error {
		parsed, err := ParseStrategy(string(s))
		if err != nil {
			return err
		}
		w.strategy = parsed
		return nil
	}
}

// New creates a writer for the given environment. Without options it
// installs relative to the current directory.
func New(env environment.Environment, opts ...Option) (*Writer, error) {
	w := &Writer{
		env:      env,
		renderer: render.New(),
		strategy: StrategyInstructions,
	}

	opts = append([]Option{WithProjectRoot(".")}, opts...)
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}

	return w, nil
}

// Write installs a single skill. The error is non-nil only for an invalid
// skill name, in which case nothing is written; copy failures are reported as
// Failed.
func (w *Writer) Write(ctx context.Context, skill skills.Skill) (Outcome, error) {
	if !ValidSkillName(skill.Name) {
		return Failed, errors.Wrapf(ErrInvalidSkillName, "%q", skill.Name)
	}

	log := logger.G(ctx).WithField("skill", skill.Name)
	target := w.env.SkillDir(w.projectRoot, skill.Name)

	existed := false
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		existed = true
	}

	if err := w.copyDir(ctx, skill.Path, target); err != nil {
		log.WithError(err).Warn("failed to install skill")
		return Failed, nil
	}

	w.registerSkill(ctx, skill)

	if existed {
		log.Debug("skill updated")
		return Updated, nil
	}
	log.Debug("skill created")
	return Created, nil
}

// WriteAll installs each skill independently and returns the outcome per
// skill name. All names are validated before anything is written.
func (w *Writer) WriteAll(ctx context.Context, list []skills.Skill) (map[string]Outcome, error) {
	for _, skill := range list {
		if !ValidSkillName(skill.Name) {
			return nil, errors.Wrapf(ErrInvalidSkillName, "%q", skill.Name)
		}
	}

	results := make(map[string]Outcome, len(list))
	for _, skill := range list {
		outcome, err := w.Write(ctx, skill)
		if err != nil {
			return results, err
		}
		results[skill.Name] = outcome
	}

	return results, nil
}

// copyDir copies every file under src into dst. It keeps going after a file
// fails so a re-run has as little as possible left to do, and returns all
// failures together.
func (w *Writer) copyDir(ctx context.Context, src, dst string) error {
	resolved, err := filepath.EvalSymlinks(src)
	if err != nil {
		return errors.Wrapf(err, "skill source %s not found", src)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return errors.Wrapf(err, "skill source %s not found", src)
	}
	if !info.IsDir() {
		return errors.Errorf("skill source %s is not a directory", src)
	}

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory %s", dst)
	}

	var result *multierror.Error
	written := make(map[string]string)
	walkErr := filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result = multierror.Append(result, err)
			return nil
		}

		relPath, err := filepath.Rel(resolved, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		if w.excluded(filepath.ToSlash(relPath)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		// Linked directories are not traversed, matching how skill
		// sources are discovered.
		if d.Type()&fs.ModeSymlink != 0 {
			if fi, err := os.Stat(path); err == nil && fi.IsDir() {
				logger.G(ctx).WithField("path", path).Debug("skipping symlinked directory")
				return nil
			}
		}

		target := targetPath(relPath)
		if first, ok := written[target]; ok {
			logger.G(ctx).WithFields(map[string]interface{}{
				"target":  filepath.ToSlash(target),
				"kept":    filepath.ToSlash(first),
				"skipped": filepath.ToSlash(relPath),
			}).Warn("skill source has two files for the same target")
			return nil
		}
		written[target] = relPath

		if err := w.copyFile(ctx, path, filepath.Join(dst, target)); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "failed to copy %s", filepath.ToSlash(relPath)))
		}
		return nil
	})
	if walkErr != nil {
		result = multierror.Append(result, walkErr)
	}

	return result.ErrorOrNil()
}

func (w *Writer) excluded(relPath string) bool {
	for _, pattern := range w.exclude {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
	}
	return false
}

// targetPath maps a source path to the path it is installed under.
func targetPath(relPath string) string {
	if strings.HasSuffix(relPath, TemplateSuffix) {
		return strings.TrimSuffix(relPath, TemplateSuffix) + DocumentSuffix
	}
	return relPath
}

// copyFile copies src to dst. Template sources are rendered instead.
func (w *Writer) copyFile(ctx context.Context, src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	if strings.HasSuffix(src, TemplateSuffix) {
		return w.renderFile(ctx, src, dst)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	// Keep the copy writable by its owner so the next install can overwrite it.
	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm()|0o200)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}

func (w *Writer) renderFile(ctx context.Context, src, dst string) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	rendered := strings.TrimSpace(w.renderer.Render(ctx, string(content)))
	return os.WriteFile(dst, []byte(rendered), 0o644)
}
