package main

import (
	"os"

	"github.com/aipencil/smoothie/pkg/environment"
	"github.com/aipencil/smoothie/pkg/install"
	"github.com/aipencil/smoothie/pkg/prompt"
	"github.com/aipencil/smoothie/pkg/skills"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// InstallConfig holds the selection flags shared by install and skill
type InstallConfig struct {
	Editor string
	Skills []string
	All    bool
}

// NewInstallConfig returns the flag defaults shared by install and skill
func NewInstallConfig() *InstallConfig {
	return &InstallConfig{
		Editor: "",
		Skills: nil,
		All:    false,
	}
}

// NonInteractive reports whether the flags answer the prompts up front
func (c *InstallConfig) NonInteractive() bool {
	return c.Editor != "" || len(c.Skills) > 0 || c.All
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install Filament skills for an editor or agent",
	Long: `Choose an editor or coding agent and the skills to install for it. Each skill
is copied into the agent's skills directory, with .blade.php guideline
templates rendered to markdown.

Without flags you are prompted interactively. In scripts and CI pass the
choices as flags instead.

Examples:
  smoothie install
  smoothie install --editor cursor --all
  smoothie install --editor claude_code --skills forms,tables`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runInstall(cmd, getInstallConfigFromFlags(cmd), false)
	},
}

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Install skills, marking the ones already installed",
	Long: `Same as install, but the skill list shows which skills are already present for
the chosen editor so you can tell an update from a new install.

Examples:
  smoothie skill
  smoothie skill --editor vscode --skills actions`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runInstall(cmd, getInstallConfigFromFlags(cmd), true)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{installCmd, skillCmd} {
		defaults := NewInstallConfig()
		cmd.Flags().StringP("editor", "e", defaults.Editor, "Editor or agent to install for ("+joinNames(environment.Names())+")")
		cmd.Flags().StringSliceP("skills", "s", defaults.Skills, "Comma separated skills to install")
		cmd.Flags().BoolP("all", "a", defaults.All, "Install every available skill")
		rootCmd.AddCommand(cmd)
	}
}

func getInstallConfigFromFlags(cmd *cobra.Command) *InstallConfig {
	config := NewInstallConfig()
	if editor, err := cmd.Flags().GetString("editor"); err == nil {
		config.Editor = editor
	}
	if list, err := cmd.Flags().GetStringSlice("skills"); err == nil {
		config.Skills = list
	}
	if all, err := cmd.Flags().GetBool("all"); err == nil {
		config.All = all
	}
	return config
}

// isTerminal reports whether prompts can be shown
var isTerminal = func() bool {
	stdin := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	stderr := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	return stdin && stderr
}

func newPrompter(c *InstallConfig) (prompt.Prompter, error) {
	if c.NonInteractive() {
		if c.Editor == "" {
			return nil, errors.New("--editor is required when --skills or --all is given")
		}
		if _, ok := environment.ByName(c.Editor); !ok {
			return nil, errors.Errorf("unknown editor %q (available: %s)", c.Editor, joinNames(environment.Names()))
		}
		return &prompt.Static{Choice: c.Editor, Choices: c.Skills, All: c.All}, nil
	}

	if !isTerminal() {
		return nil, errors.New("no terminal available for prompts; pass --editor with --skills or --all")
	}
	return prompt.NewTerminal(os.Stdin, os.Stderr), nil
}

func runInstall(cmd *cobra.Command, c *InstallConfig, markInstalled bool) error {
	prompter, err := newPrompter(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	composer, err := skills.NewComposer(cfg.ComposerOptions()...)
	if err != nil {
		return err
	}

	installer, err := install.New(
		install.WithPrompter(prompter),
		install.WithComposer(composer),
		install.WithProjectRoot(cfg.ProjectDir),
		install.WithWriterOptions(cfg.WriterOptions()...),
		install.WithMarkInstalled(markInstalled),
	)
	if err != nil {
		return err
	}

	return installer.Run(cmd.Context())
}
