package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aipencil/smoothie/pkg/environment"
	"github.com/spf13/cobra"
)

var environmentsCmd = &cobra.Command{
	Use:     "environments",
	Aliases: []string{"editors"},
	Short:   "List supported editors and agents",
	Long:    `List the editors and coding agents skills can be installed for, with the paths used for each.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printEnvironments(cmd.OutOrStdout(), environment.All())
	},
}

func init() {
	rootCmd.AddCommand(environmentsCmd)
}

func printEnvironments(w io.Writer, envs []environment.Environment) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLABEL\tSKILLS DIR\tGUIDELINES\tINSTRUCTION FILES")
	fmt.Fprintln(tw, "----\t-----\t----------\t----------\t-----------------")
	for _, env := range envs {
		instructions := "no"
		if env.SupportsInstructionFiles() {
			instructions = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", env.Name, env.Label, env.InstallDir, env.GuidelinesPath(), instructions)
	}
	return tw.Flush()
}
