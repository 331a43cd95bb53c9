package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const fileSuffix = "Fixture"

type entry struct {
	id   string
	path string
}

// Discover lists the fixture identifiers available in dir. File stems lose a
// trailing "Fixture"; a plugin scope prefixes every identifier with
// "<plugin>.".
func Discover(dir, plugin string) ([]string, error) {
	entries, err := scan(dir, plugin)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.id
	}
	return ids, nil
}

func scan(dir, plugin string) ([]entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read fixture dir %s: %w", dir, err)
	}

	var entries []entry
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		ext := filepath.Ext(f.Name())
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		stem := strings.TrimSuffix(f.Name(), ext)
		if trimmed := strings.TrimSuffix(stem, fileSuffix); trimmed != "" {
			stem = trimmed
		}
		entries = append(entries, entry{
			id:   Identifier(plugin, stem),
			path: filepath.Join(dir, f.Name()),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	return entries, nil
}

// Identifier joins an optional plugin scope and a fixture name.
func Identifier(plugin, name string) string {
	if plugin == "" {
		return name
	}
	return plugin + "." + name
}

// SplitIdentifier is the inverse of Identifier.
func SplitIdentifier(id string) (plugin, name string) {
	if i := strings.LastIndex(id, "."); i >= 0 {
		return id[:i], id[i+1:]
	}
	return "", id
}
