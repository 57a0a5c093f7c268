package scenario

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed demos/*.yaml
var demoFS embed.FS

// Demos lists the names of the built-in demo scenarios.
func Demos() []string {
	entries, _ := fs.ReadDir(demoFS, "demos")
	var out []string
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	slices.Sort(out)
	return out
}

// Demo returns the built-in demo scenario called name.
func Demo(name string) (*Scenario, error) {
	data, err := demoFS.ReadFile(path.Join("demos", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown demo %q (have %s)", name, strings.Join(Demos(), ", "))
	}
	return Parse(data)
}
