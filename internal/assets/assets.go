package assets

import (
	"io/fs"
	"sort"
	"strings"
)

// StyleNames returns the names of all embedded stylesheets, sorted.
func StyleNames() []string {
	return embeddedNames(styles, "styles", ".css")
}

// ScriptNames returns the names of all embedded scripts, sorted.
func ScriptNames() []string {
	return embeddedNames(scripts, "scripts", ".js")
}

func embeddedNames(fsys fs.FS, dir, ext string) []string {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(names)
	return names
}
