// Package render expands skill guideline templates (.blade.php files) into
// plain markdown. Only the small directive set used by skill guidelines is
// understood; anything else makes the renderer hand back the source unchanged.
package render

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aipencil/smoothie/pkg/logger"
	"github.com/pkg/errors"
)

const (
	// DefaultArtisanCommand prefixes expanded artisan commands
	DefaultArtisanCommand = "php artisan"

	defaultSnippetLang = "html"
)

var (
	snippetPattern     = regexp.MustCompile(`(?s)@boostsnippet\(\s*["']([^"']*)["']\s*(?:,\s*["']([^"']*)["']\s*)?\)(.*?)@endboostsnippet`)
	phpBlockPattern    = regexp.MustCompile(`(?s)@php\b.*?@endphp[ \t]*\n?`)
	commentPattern     = regexp.MustCompile(`(?s)\{\{--.*?--\}\}`)
	echoPattern        = regexp.MustCompile(`\{\{\s*(.*?)\s*\}\}|\{!!\s*(.*?)\s*!!\}`)
	artisanPattern     = regexp.MustCompile(`^\$assist->artisanCommand\(\s*'((?:[^'\\]|\\.)*)'\s*\)$`)
	danglingDirectives = regexp.MustCompile(`(?m)^[ \t]*@(boostsnippet|endboostsnippet|php|endphp)\b`)
)

// Renderer turns template source into plain text. Implementations never fail:
// on error they return the source unchanged.
type Renderer interface {
	Render(ctx context.Context, source string) string
}

// Func adapts a plain function to the Renderer interface
type Func func(ctx context.Context, source string) string

// Render calls f(ctx, source)
func (f Func) Render(ctx context.Context, source string) string {
	return f(ctx, source)
}

// GuidelineRenderer renders skill guideline templates
type GuidelineRenderer struct {
	artisan string
}

// Option configures a GuidelineRenderer
type Option func(*GuidelineRenderer)

// WithArtisanCommand sets the command that artisan invocations expand to,
// e.g. "vendor/bin/sail artisan".
func WithArtisanCommand(command string) Option {
	return func(r *GuidelineRenderer) {
		if command != "" {
			r.artisan = command
		}
	}
}

// New creates a guideline renderer
func New(opts ...Option) *GuidelineRenderer {
	r := &GuidelineRenderer{
		artisan: DefaultArtisanCommand,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render expands the template, returning source unchanged when it uses
// anything the renderer does not support.
func (r *GuidelineRenderer) Render(ctx context.Context, source string) string {
	out, err := r.render(source)
	if err != nil {
		logger.G(ctx).WithError(err).Debug("failed to render template, using raw source")
		return source
	}
	return out
}

func (r *GuidelineRenderer) render(source string) (string, error) {
	// Snippet bodies are example code and stay verbatim, so they are swapped
	// for placeholders before any other directive is processed.
	var snippets []string
	body := snippetPattern.ReplaceAllStringFunc(source, func(match string) string {
		parts := snippetPattern.FindStringSubmatch(match)
		lang := parts[2]
		if lang == "" {
			lang = defaultSnippetLang
		}
		snippets = append(snippets, fmt.Sprintf("<code-snippet name=%q lang=%q>%s</code-snippet>", parts[1], lang, parts[3]))
		return placeholder(len(snippets) - 1)
	})

	body = phpBlockPattern.ReplaceAllString(body, "")
	body = commentPattern.ReplaceAllString(body, "")

	if m := danglingDirectives.FindStringSubmatch(body); m != nil {
		return "", errors.Errorf("unterminated @%s directive", m[1])
	}

	var renderErr error
	body = echoPattern.ReplaceAllStringFunc(body, func(match string) string {
		parts := echoPattern.FindStringSubmatch(match)
		expr := parts[1]
		if expr == "" {
			expr = parts[2]
		}

		value, err := r.evaluate(expr)
		if err != nil {
			if renderErr == nil {
				renderErr = err
			}
			return match
		}
		return value
	})
	if renderErr != nil {
		return "", renderErr
	}

	for i, snippet := range snippets {
		body = strings.Replace(body, placeholder(i), snippet, 1)
	}

	return body, nil
}

func (r *GuidelineRenderer) evaluate(expr string) (string, error) {
	if m := artisanPattern.FindStringSubmatch(expr); m != nil {
		return r.artisan + " " + unquote(m[1]), nil
	}
	return "", errors.Errorf("unsupported expression %q", expr)
}

// unquote resolves the escapes of a single quoted PHP string
func unquote(s string) string {
	return strings.NewReplacer(`\\`, `\`, `\'`, `'`).Replace(s)
}

func placeholder(i int) string {
	return fmt.Sprintf("\x00snippet-%d\x00", i)
}
