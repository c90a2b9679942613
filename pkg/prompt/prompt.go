// Package prompt asks the user to pick from a list of options, either
// interactively in the terminal or from values given up front on the command
// line.
package prompt

import (
	"context"
)

// Option is one selectable entry
type Option struct {
	Value string // Returned when the option is chosen
	Label string // Shown to the user
}

// Prompter picks values out of a list of options
type Prompter interface {
	// Select picks a single value. ok is false when the user backed out.
	Select(ctx context.Context, label string, options []Option) (value string, ok bool, err error)
	// MultiSelect picks any number of values, in option order.
	MultiSelect(ctx context.Context, label string, options []Option, hint string) ([]string, error)
}

func values(options []Option) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		out = append(out, o.Value)
	}
	return out
}
