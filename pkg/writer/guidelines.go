package writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aipencil/smoothie/pkg/logger"
	"github.com/aipencil/smoothie/pkg/skills"
	"github.com/aymanbagabas/go-udiff"
	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"
)

// Strategy selects how an installed skill is made known to the agent
type Strategy string

const (
	// StrategyInstructions writes one instruction file per skill next to the
	// guidelines file.
	StrategyInstructions Strategy = "instructions"
	// StrategySection appends the skill to a "Skills Activation" section of
	// an existing guidelines file.
	StrategySection Strategy = "section"
)

// ParseStrategy converts a configuration value into a Strategy
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyInstructions, "":
		return StrategyInstructions, nil
	case StrategySection:
		return StrategySection, nil
	default:
		return "", errors.Errorf("unknown guidelines strategy %q (expected %q or %q)", s, StrategyInstructions, StrategySection)
	}
}

const activationHeading = "## Skills Activation"

var (
	filamentRulesPattern     = regexp.MustCompile(`(?i)===\s*filament/filament\s*rules\s*===`)
	activationHeadingPattern = regexp.MustCompile(`(?im)^##\s*Skills Activation[ \t]*$`)
	nextSectionPattern       = regexp.MustCompile(`\n(?:#{1,2} |===)`)
)

// registerSkill runs after a successful copy. Failures here never fail the
// install; the skill files are already in place.
func (w *Writer) registerSkill(ctx context.Context, skill skills.Skill) {
	if !w.env.SupportsInstructionFiles() {
		return
	}

	// Only the section strategy needs an existing guidelines file;
	// instruction files are written regardless.
	var err error
	switch w.strategy {
	case StrategySection:
		err = w.patchGuidelines(ctx, skill)
	default:
		err = w.writeInstructions(ctx, skill)
	}
	if err != nil {
		logger.G(ctx).WithError(err).WithField("skill", skill.Name).Warn("failed to register skill with guidelines")
	}
}

// InstructionsPath returns where the instruction file for skillName is written
func (w *Writer) InstructionsPath(skillName string) string {
	return filepath.Join(w.projectRoot, filepath.FromSlash(w.env.InstructionsDir()), skillName+".instructions.md")
}

// InstructionsContent builds the instruction file that scopes a skill to its
// install directory.
func InstructionsContent(installDir string, skill skills.Skill) string {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "applyTo: \"%s/%s/**\"\n", installDir, skill.Name)
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "# %s\n\n", skill.Name)
	b.WriteString(strings.Join(strings.Fields(skill.Description), " "))
	b.WriteString("\n")
	return b.String()
}

func (w *Writer) writeInstructions(ctx context.Context, skill skills.Skill) error {
	path := w.InstructionsPath(skill.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create instructions directory %s", filepath.Dir(path))
	}

	content := InstructionsContent(w.env.InstallDir, skill)
	w.logChange(ctx, path, content)

	if err := lockedfile.Write(path, strings.NewReader(content), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write instructions file %s", path)
	}
	return nil
}

// patchGuidelines lists the skill under the "Skills Activation" section of the
// filament rules in the guidelines file. A missing guidelines file or one
// without filament rules is left alone.
func (w *Writer) patchGuidelines(ctx context.Context, skill skills.Skill) error {
	path := filepath.Join(w.projectRoot, filepath.FromSlash(w.env.GuidelinesPath()))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.G(ctx).WithField("path", path).Debug("guidelines file not found, skipping")
			return nil
		}
		return errors.Wrapf(err, "failed to read guidelines file %s", path)
	}

	updated, changed := AddActivationEntry(string(data), skill)
	if !changed {
		return nil
	}

	w.logChange(ctx, path, updated)
	if err := lockedfile.Write(path, strings.NewReader(updated), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write guidelines file %s", path)
	}
	return nil
}

// AddActivationEntry adds a "- `name` — description" line to the Skills
// Activation section following the filament rules header, creating the section
// when needed. It reports false when the content already mentions the skill
// or has no filament rules header.
func AddActivationEntry(content string, skill skills.Skill) (string, bool) {
	if strings.Contains(content, "`"+skill.Name+"`") {
		return content, false
	}

	header := filamentRulesPattern.FindStringIndex(content)
	if header == nil {
		return content, false
	}

	heading := activationHeadingPattern.FindStringIndex(content[header[1]:])
	if heading == nil {
		content = content[:header[1]] + "\n\n" + activationHeading + "\n" + content[header[1]:]
		heading = activationHeadingPattern.FindStringIndex(content[header[1]:])
	}

	start := header[1] + heading[0]
	end := len(content)
	if next := nextSectionPattern.FindStringIndex(content[start+1:]); next != nil {
		end = start + 1 + next[0]
	}

	entry := fmt.Sprintf("- `%s` — %s", skill.Name, strings.Join(strings.Fields(skill.Description), " "))

	section := strings.TrimRight(content[start:end], "\n")
	if activationHeadingPattern.MatchString(strings.TrimSpace(section)) && !strings.Contains(strings.TrimSpace(section), "\n") {
		section = strings.TrimSpace(section) + "\n\n" + entry
	} else {
		section += "\n" + entry
	}

	return content[:start] + section + "\n" + content[end:], true
}

func (w *Writer) logChange(ctx context.Context, path, content string) {
	existing, err := os.ReadFile(path)
	if err != nil || string(existing) == content {
		return
	}
	logger.G(ctx).WithField("path", path).Debugf("updating file\n%s", udiff.Unified(path, path, string(existing), content))
}
