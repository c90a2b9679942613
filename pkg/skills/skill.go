// Package skills discovers skill bundles: directories holding a SKILL.blade.php
// definition whose YAML frontmatter describes what the skill teaches. Skills
// come from the bundle shipped with smoothie and from a project local directory
// of user authored skills.
package skills

import (
	"fmt"
	"sort"
)

// Origin tags for Skill.Package
const (
	PackageBundled = "smoothie"
	PackageUser    = "user"
)

// Skill represents a discovered skill bundle
type Skill struct {
	Name        string // Directory name, also the install directory name
	Package     string // Origin tag, PackageBundled or PackageUser
	Path        string // Absolute path to the skill source directory
	Description string // Folded description from the frontmatter
	Custom      bool   // True for skills found under the user skills directory
}

// DisplayName returns the label used in selection menus. User authored
// skills are marked so they stand out from the bundled ones.
func (s Skill) DisplayName() string {
	if s.Custom {
		return fmt.Sprintf(".ai/%s*", s.Name)
	}
	return s.Name
}

// WithCustom returns a copy of the skill with the custom flag set.
func (s Skill) WithCustom(custom bool) Skill {
	s.Custom = custom
	return s
}

// Sorted returns the skills ordered by name.
func Sorted(skills map[string]Skill) []Skill {
	out := make([]Skill, 0, len(skills))
	for _, skill := range skills {
		out = append(out, skill)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
