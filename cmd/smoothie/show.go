package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aipencil/smoothie/pkg/presenter"
	"github.com/aipencil/smoothie/pkg/render"
	"github.com/aipencil/smoothie/pkg/skills"
	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <skill>",
	Short: "Show a skill as it will be installed",
	Long: `Render a skill's SKILL.blade.php the same way install does and display it.

Examples:
  smoothie show forms
  smoothie show forms --raw > forms.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		composer, err := skills.NewComposer(cfg.ComposerOptions()...)
		if err != nil {
			return err
		}

		skill, ok := composer.Skills(cmd.Context())[args[0]]
		if !ok {
			return errors.Errorf("skill %q not found, run 'smoothie list' to see available skills", args[0])
		}

		path := filepath.Join(skill.Path, skills.SkillFileName)
		source, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "failed to read %s", path)
		}

		content := render.New(render.WithArtisanCommand(cfg.ArtisanCommand)).Render(cmd.Context(), string(source))
		if raw {
			fmt.Fprintln(cmd.OutOrStdout(), content)
			return nil
		}

		title := skill.DisplayName()
		if fm, err := skills.ReadFrontmatter(path); err == nil && fm.Name != "" {
			title = fmt.Sprintf("%s (%s)", fm.Name, skill.Package)
		}
		presenter.Section(title)

		rendered, err := renderMarkdown(content)
		if err != nil {
			presenter.Warning(fmt.Sprintf("failed to render markdown: %s", err))
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("raw", false, "Print the rendered markdown without terminal styling")
	rootCmd.AddCommand(showCmd)
}

// renderMarkdown styles markdown for the terminal. On failure the content is
// returned as is.
func renderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return content, err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content, err
	}
	return rendered, nil
}
