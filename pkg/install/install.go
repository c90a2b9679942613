// Package install runs the interactive install flow: pick an environment,
// pick skills, write them, report what happened.
package install

import (
	"context"
	"fmt"

	"github.com/aipencil/smoothie/pkg/environment"
	"github.com/aipencil/smoothie/pkg/logger"
	"github.com/aipencil/smoothie/pkg/presenter"
	"github.com/aipencil/smoothie/pkg/prompt"
	"github.com/aipencil/smoothie/pkg/skills"
	"github.com/aipencil/smoothie/pkg/writer"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// User facing text of the install flow
const (
	IntroTitle      = "🌊 Smoothie Skills Installer"
	EditorLabel     = "Which code editor do you use?"
	SkillsLabel     = "Which Filament skills would you like to install?"
	SkillsHint      = "Use space to select, enter to confirm"
	InstalledSuffix = " ✓ (already installed)"

	MsgCancelled   = "Installation cancelled."
	MsgNoSkills    = "No skills available to install."
	MsgNoSelection = "No skills selected for installation."
	MsgInstalling  = "Installing skills for %s..."
	MsgDone        = "Smoothie skills installed successfully!"
)

// Installer wires environment selection, discovery and the writer together
type Installer struct {
	prompter      prompt.Prompter
	presenter     presenter.Presenter
	composer      *skills.Composer
	environments  []environment.Environment
	projectRoot   string
	writerOptions []writer.Option
	markInstalled bool
}

// Option configures an Installer
type Option func(*Installer) error

// WithPrompter sets how choices are made
func WithPrompter(p prompt.Prompter) Option {
	return func(i *Installer) error {
		i.prompter = p
		return nil
	}
}

// WithPresenter sets where progress and results are reported
func WithPresenter(p presenter.Presenter) Option {
	return func(i *Installer) error {
		i.presenter = p
		return nil
	}
}

// WithComposer sets the skill catalog
func WithComposer(c *skills.Composer) Option {
	return func(i *Installer) error {
		i.composer = c
		return nil
	}
}

// WithEnvironments restricts the environments offered. Defaults to the registry.
func WithEnvironments(envs ...environment.Environment) Option {
	return func(i *Installer) error {
		if len(envs) == 0 {
			return errors.New("at least one environment is required")
		}
		i.environments = envs
		return nil
	}
}

// WithProjectRoot sets the directory skills are installed into
func WithProjectRoot(root string) Option {
	return func(i *Installer) error {
		i.projectRoot = root
		return nil
	}
}

// WithWriterOptions passes options through to the writer
func WithWriterOptions(opts ...writer.Option) Option {
	return func(i *Installer) error {
		i.writerOptions = append(i.writerOptions, opts...)
		return nil
	}
}

// WithMarkInstalled annotates skills already present in the chosen
// environment when offering them for selection.
func WithMarkInstalled(mark bool) Option {
	return func(i *Installer) error {
		i.markInstalled = mark
		return nil
	}
}

// New creates an installer. A prompter is required; the composer defaults to
// the embedded bundle plus the project's user skills.
func New(opts ...Option) (*Installer, error) {
	i := &Installer{
		presenter:    presenter.Default(),
		environments: environment.All(),
		projectRoot:  ".",
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}

	if i.prompter == nil {
		return nil, errors.New("a prompter is required")
	}

	if i.composer == nil {
		c, err := skills.NewComposer()
		if err != nil {
			return nil, err
		}
		i.composer = c
	}

	return i, nil
}

// Run performs one install. Backing out or choosing nothing is not an error.
// The only error from writing is an invalid skill name; per skill copy
// failures are reported in the results instead.
func (i *Installer) Run(ctx context.Context) error {
	ctx = logger.WithFields(ctx, logrus.Fields{"run_id": uuid.NewString()})
	log := logger.G(ctx)

	i.presenter.Intro(IntroTitle)

	env, ok, err := i.selectEnvironment(ctx)
	if err != nil {
		return err
	}
	if !ok {
		i.presenter.Info(MsgCancelled)
		return nil
	}
	log = log.WithField("environment", env.Name)

	available := skills.Sorted(i.composer.Skills(ctx))
	if len(available) == 0 {
		i.presenter.Warning(MsgNoSkills)
		return nil
	}

	var installed []string
	if i.markInstalled {
		installed = env.InstalledSkills(i.projectRoot)
		log.WithField("installed", installed).Debug("found installed skills")
	}

	selected, err := i.selectSkills(ctx, available, installed)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		i.presenter.Info(MsgNoSelection)
		return nil
	}

	i.presenter.Info(fmt.Sprintf(MsgInstalling, env.Label))

	opts := append([]writer.Option{writer.WithProjectRoot(i.projectRoot)}, i.writerOptions...)
	w, err := writer.New(env, opts...)
	if err != nil {
		return errors.Wrap(err, "failed to create skill writer")
	}

	results, err := w.WriteAll(ctx, selected)
	if err != nil {
		return err
	}

	i.presenter.Note(ResultLines(selected, results)...)
	i.presenter.Success(MsgDone)

	log.WithField("count", len(selected)).Info("install finished")
	return nil
}

func (i *Installer) selectEnvironment(ctx context.Context) (environment.Environment, bool, error) {
	options := make([]prompt.Option, 0, len(i.environments))
	for _, env := range i.environments {
		options = append(options, prompt.Option{Value: env.Name, Label: env.Label})
	}

	name, ok, err := i.prompter.Select(ctx, EditorLabel, options)
	if err != nil {
		return environment.Environment{}, false, errors.Wrap(err, "failed to select environment")
	}
	if !ok {
		return environment.Environment{}, false, nil
	}

	for _, env := range i.environments {
		if env.Name == name {
			return env, true, nil
		}
	}
	return environment.Environment{}, false, errors.Errorf("unknown environment %q", name)
}

// selectSkills returns the chosen skills in catalog order
func (i *Installer) selectSkills(ctx context.Context, available []skills.Skill, installed []string) ([]skills.Skill, error) {
	options := make([]prompt.Option, 0, len(available))
	for _, skill := range available {
		options = append(options, prompt.Option{Value: skill.Name, Label: SkillLabel(skill, installed)})
	}

	names, err := i.prompter.MultiSelect(ctx, SkillsLabel, options, SkillsHint)
	if err != nil {
		return nil, errors.Wrap(err, "failed to select skills")
	}

	chosen := make(map[string]bool, len(names))
	for _, name := range names {
		chosen[name] = true
	}

	var selected []skills.Skill
	for _, skill := range available {
		if chosen[skill.Name] {
			selected = append(selected, skill)
		}
	}
	return selected, nil
}

// SkillLabel is the menu label of a skill, flagged when already installed
func SkillLabel(skill skills.Skill, installed []string) string {
	label := skill.DisplayName()
	for _, name := range installed {
		if name == skill.Name {
			return label + InstalledSuffix
		}
	}
	return label
}

// ResultLines formats one line per written skill, in the order given
func ResultLines(written []skills.Skill, results map[string]writer.Outcome) []string {
	lines := make([]string, 0, len(written))
	for _, skill := range written {
		outcome, ok := results[skill.Name]
		if !ok {
			continue
		}

		switch outcome {
		case writer.Created:
			lines = append(lines, fmt.Sprintf("✓ %s installed", skill.Name))
		case writer.Updated:
			lines = append(lines, fmt.Sprintf("↻ %s updated", skill.Name))
		case writer.Failed:
			lines = append(lines, fmt.Sprintf("✗ %s failed", skill.Name))
		}
	}
	return lines
}
