package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aipencil/smoothie/pkg/skills"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// skillEntry is the serialized form of a skill in list output
type skillEntry struct {
	Name        string `json:"name" yaml:"name"`
	Package     string `json:"package" yaml:"package"`
	Description string `json:"description" yaml:"description"`
	Path        string `json:"path" yaml:"path"`
	Custom      bool   `json:"custom" yaml:"custom"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available skills",
	Long: `List the bundled skills and the user skills found in .ai/smoothie. A user skill
with the same name as a bundled one replaces it and is marked with a *.

Examples:
  smoothie list
  smoothie list --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		composer, err := skills.NewComposer(cfg.ComposerOptions()...)
		if err != nil {
			return err
		}

		return printSkills(cmd.OutOrStdout(), skills.Sorted(composer.Skills(cmd.Context())), format)
	},
}

func init() {
	listCmd.Flags().StringP("format", "o", "table", "Output format (table, json, yaml)")
	rootCmd.AddCommand(listCmd)
}

func printSkills(w io.Writer, list []skills.Skill, format string) error {
	entries := make([]skillEntry, 0, len(list))
	for _, s := range list {
		entries = append(entries, skillEntry{
			Name:        s.Name,
			Package:     s.Package,
			Description: s.Description,
			Path:        s.Path,
			Custom:      s.Custom,
		})
	}

	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode skills")
		}
		fmt.Fprintln(w, string(data))
	case "yaml":
		data, err := yaml.Marshal(entries)
		if err != nil {
			return errors.Wrap(err, "failed to encode skills")
		}
		fmt.Fprint(w, string(data))
	case "table", "":
		if len(list) == 0 {
			fmt.Fprintln(w, "No skills found.")
			return nil
		}

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tPACKAGE\tDESCRIPTION")
		fmt.Fprintln(tw, "----\t-------\t-----------")
		for _, s := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.DisplayName(), s.Package, truncate(s.Description, 60))
		}
		return tw.Flush()
	default:
		return errors.Errorf("unknown format %q (expected table, json or yaml)", format)
	}

	return nil
}

func truncate(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
