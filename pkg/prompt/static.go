package prompt

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Static answers prompts from preset values, for non-interactive runs
type Static struct {
	Choice  string   // Value returned by Select
	Choices []string // Values returned by MultiSelect
	All     bool     // MultiSelect returns every option
}

// Select returns the preset choice. An empty choice counts as backing out.
func (s *Static) Select(_ context.Context, label string, options []Option) (string, bool, error) {
	if s.Choice == "" {
		return "", false, nil
	}

	for _, o := range options {
		if o.Value == s.Choice {
			return o.Value, true, nil
		}
	}

	return "", false, errors.Errorf("%q is not a valid answer to %q (expected one of: %s)",
		s.Choice, label, strings.Join(values(options), ", "))
}

// MultiSelect returns the preset choices in option order. Unknown values are
// an error so a typo never silently installs less than asked for.
func (s *Static) MultiSelect(_ context.Context, label string, options []Option, _ string) ([]string, error) {
	if s.All {
		return values(options), nil
	}

	wanted := make(map[string]bool, len(s.Choices))
	for _, c := range s.Choices {
		wanted[c] = true
	}

	var selected []string
	for _, o := range options {
		if wanted[o.Value] {
			selected = append(selected, o.Value)
			delete(wanted, o.Value)
		}
	}

	if len(wanted) > 0 {
		var unknown []string
		for _, c := range s.Choices {
			if wanted[c] {
				unknown = append(unknown, c)
				delete(wanted, c)
			}
		}
		return nil, errors.Errorf("unknown value(s) %s for %q (expected any of: %s)",
			strings.Join(unknown, ", "), label, strings.Join(values(options), ", "))
	}

	return selected, nil
}
