// Package environment describes the editors and coding agents that skills can be
// installed for. The registry is a fixed, ordered list: the order is the order in
// which environments are offered to the user.
package environment

import (
	"os"
	"path"
	"path/filepath"
	"sort"
)

// Environment is a target editor or agent integration.
type Environment struct {
	Name       string // Unique identifier, e.g. "vscode"
	Label      string // Human readable name shown in menus
	InstallDir string // Slash separated path under the project root where skills are installed

	guidelines       string
	instructionFiles bool
}

// New builds an environment value outside the registry. Lookups through
// ByName never return it.
func New(name, label, installDir, guidelinesPath string, instructionFiles bool) Environment {
	return Environment{
		Name:             name,
		Label:            label,
		InstallDir:       installDir,
		guidelines:       guidelinesPath,
		instructionFiles: instructionFiles,
	}
}

// GuidelinesPath returns the project relative path of the environment's guidelines document.
func (e Environment) GuidelinesPath() string {
	return e.guidelines
}

// SupportsInstructionFiles reports whether the environment reads per-skill
// instruction files with applyTo patterns. Environments that load skills on
// their own (Claude Code) get no companion file.
func (e Environment) SupportsInstructionFiles() bool {
	return e.instructionFiles
}

// InstructionsDir returns the directory holding per-skill instruction files,
// which sits beside the guidelines document.
func (e Environment) InstructionsDir() string {
	return path.Join(path.Dir(e.guidelines), "instructions")
}

// SkillDir returns the absolute directory a skill is installed to.
func (e Environment) SkillDir(projectRoot, skillName string) string {
	return filepath.Join(projectRoot, filepath.FromSlash(e.InstallDir), skillName)
}

// InstalledSkills returns the sorted names of the skill directories already
// present under the environment's install directory. A missing install
// directory yields no names.
func (e Environment) InstalledSkills(projectRoot string) []string {
	entries, err := os.ReadDir(filepath.Join(projectRoot, filepath.FromSlash(e.InstallDir)))
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

var registry = []Environment{
	{
		Name:             "vscode",
		Label:            "VS Code",
		InstallDir:       ".github/skills/filament-development",
		guidelines:       ".github/copilot-instructions.md",
		instructionFiles: true,
	},
	{
		Name:             "phpstorm",
		Label:            "PhpStorm",
		InstallDir:       ".junie/skills/filament-development",
		guidelines:       ".junie/guidelines.md",
		instructionFiles: true,
	},
	{
		Name:             "cursor",
		Label:            "Cursor",
		InstallDir:       ".cursor/skills/filament-development",
		guidelines:       ".cursor/rules/filament.md",
		instructionFiles: true,
	},
	{
		Name:             "claude_code",
		Label:            "Claude Code",
		InstallDir:       ".claude/skills/filament-development",
		guidelines:       "CLAUDE.md",
		instructionFiles: false,
	},
	{
		Name:             "codex",
		Label:            "Codex",
		InstallDir:       ".codex/skills/filament-development",
		guidelines:       "AGENTS.md",
		instructionFiles: true,
	},
	{
		Name:             "copilot",
		Label:            "GitHub Copilot",
		InstallDir:       ".github/copilot/skills/filament-development",
		guidelines:       ".github/copilot-instructions.md",
		instructionFiles: true,
	},
	{
		Name:             "gemini",
		Label:            "Gemini",
		InstallDir:       ".gemini/skills/filament-development",
		guidelines:       "GEMINI.md",
		instructionFiles: true,
	},
	{
		Name:             "opencode",
		Label:            "OpenCode",
		InstallDir:       ".opencode/skills/filament-development",
		guidelines:       "AGENTS.md",
		instructionFiles: true,
	},
}

// All returns a copy of every environment in presentation order.
func All() []Environment {
	out := make([]Environment, len(registry))
	copy(out, registry)
	return out
}

// Names returns all environment names in presentation order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, env := range registry {
		names = append(names, env.Name)
	}
	return names
}

// ByName returns the environment with the given name. The boolean is false
// when no environment matches.
func ByName(name string) (Environment, bool) {
	for _, env := range registry {
		if env.Name == name {
			return env, true
		}
	}
	return Environment{}, false
}
