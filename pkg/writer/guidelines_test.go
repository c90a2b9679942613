package writer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aipencil/smoothie/pkg/environment"
	"github.com/aipencil/smoothie/pkg/skills"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstructionsContent(t *testing.T) {
	skill := skills.Skill{Name: "forms", Description: "  Builds\tforms\n\nfast  "}
	assert.Equal(t,
		"---\napplyTo: \".github/skills/filament-development/forms/**\"\n---\n\n# forms\n\nBuilds forms fast\n",
		InstructionsContent(".github/skills/filament-development", skill))
}

func TestInstructionsPathPerEnvironment(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{env: "vscode", want: ".github/instructions/forms.instructions.md"},
		{env: "cursor", want: ".cursor/rules/instructions/forms.instructions.md"},
		{env: "codex", want: "instructions/forms.instructions.md"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			env, ok := environment.ByName(tt.env)
			require.True(t, ok)

			w, project := newTestWriter(t, env)
			assert.Equal(t, filepath.Join(project, filepath.FromSlash(tt.want)), w.InstructionsPath("forms"))
		})
	}
}

func TestAddActivationEntry(t *testing.T) {
	forms := skills.Skill{Name: "forms", Description: "Designs forms"}

	tests := []struct {
		name    string
		content string
		want    string
		changed bool
	}{
		{
			name:    "no filament rules",
			content: "# Project\n\nSome text\n",
			want:    "# Project\n\nSome text\n",
		},
		{
			name:    "already mentioned",
			content: "=== filament/filament rules ===\n\n- `forms` is here\n",
			want:    "=== filament/filament rules ===\n\n- `forms` is here\n",
		},
		{
			name:    "creates section",
			content: "=== filament/filament rules ===\n\n## Filament\n- Use resources\n",
			want:    "=== filament/filament rules ===\n\n## Skills Activation\n\n- `forms` — Designs forms\n\n## Filament\n- Use resources\n",
			changed: true,
		},
		{
			name:    "creates section at end of file",
			content: "=== filament/filament rules ===\n",
			want:    "=== filament/filament rules ===\n\n## Skills Activation\n\n- `forms` — Designs forms\n",
			changed: true,
		},
		{
			name:    "appends to existing section",
			content: "=== filament/filament rules ===\n\n## Skills Activation\n\n- `tables` — Designs tables\n\n=== other/package rules ===\n",
			want:    "=== filament/filament rules ===\n\n## Skills Activation\n\n- `tables` — Designs tables\n- `forms` — Designs forms\n\n=== other/package rules ===\n",
			changed: true,
		},
		{
			name:    "case insensitive header",
			content: "===  Filament/Filament Rules  ===\n\n## Skills Activation\n\n- `tables` — Designs tables\n",
			want:    "===  Filament/Filament Rules  ===\n\n## Skills Activation\n\n- `tables` — Designs tables\n- `forms` — Designs forms\n",
			changed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := AddActivationEntry(tt.content, forms)
			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSectionStrategy(t *testing.T) {
	ctx := context.Background()
	env := environment.New("x", "X", ".x/skills", "AGENTS.md", true)
	w, project := newTestWriter(t, env, WithStrategy(StrategySection))
	source := t.TempDir()

	forms := makeSkill(t, source, "forms", "Designs forms", map[string]string{"README.md": "f"})

	// Missing guidelines file: skill is installed, nothing else is created.
	outcome, err := w.Write(ctx, forms)
	require.NoError(t, err)
	assert.Equal(t, Created, outcome)
	assert.NoFileExists(t, filepath.Join(project, "AGENTS.md"))
	assert.NoDirExists(t, filepath.Join(project, "instructions"))

	guidelines := filepath.Join(project, "AGENTS.md")
	require.NoError(t, os.WriteFile(guidelines, []byte("=== filament/filament rules ===\n\n## Filament\n- Use resources\n"), 0o644))

	outcome, err = w.Write(ctx, forms)
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)

	tables := makeSkill(t, source, "tables", "Designs tables", map[string]string{"README.md": "t"})
	_, err = w.Write(ctx, tables)
	require.NoError(t, err)

	// Re-running does not duplicate entries.
	_, err = w.Write(ctx, forms)
	require.NoError(t, err)

	data, err := os.ReadFile(guidelines)
	require.NoError(t, err)
	assert.Equal(t,
		"=== filament/filament rules ===\n\n## Skills Activation\n\n- `forms` — Designs forms\n- `tables` — Designs tables\n\n## Filament\n- Use resources\n",
		string(data))
}
