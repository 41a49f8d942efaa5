// Copyright (c) 2025-2026, s0up and the autobrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package suggest

import (
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"
)

// Entry is one catalog title. In catalog files an entry is either a bare
// string or an object with a name and optional aliases.
type Entry struct {
	Name    string   `json:"name" yaml:"name"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*e = Entry{Name: name}
		return nil
	}

	type plain Entry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Entry(p)
	return nil
}

func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*e = Entry{Name: node.Value}
		return nil
	}

	type plain Entry
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*e = Entry(p)
	return nil
}

// Catalog is an immutable list of titles searched by fuzzy matching.
type Catalog struct {
	names   []string
	targets []string
	owner   []int // target index -> names index
}

// NewCatalog builds a catalog. Blank names are skipped and case-insensitive
// duplicates keep their first spelling.
func NewCatalog(entries []Entry) *Catalog {
	c := &Catalog{}
	seen := make(map[string]int, len(entries))

	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		idx, ok := seen[key]
		if !ok {
			idx = len(c.names)
			seen[key] = idx
			c.names = append(c.names, name)
			c.addTarget(name, idx)
		}
		for _, alias := range e.Aliases {
			if alias = strings.TrimSpace(alias); alias != "" {
				c.addTarget(alias, idx)
			}
		}
	}
	return c
}

// NewCatalogFromNames builds a catalog from bare names.
func NewCatalogFromNames(names ...string) *Catalog {
	entries := make([]Entry, 0, len(names))
	for _, n := range names {
		entries = append(entries, Entry{Name: n})
	}
	return NewCatalog(entries)
}

func (c *Catalog) addTarget(target string, owner int) {
	c.targets = append(c.targets, target)
	c.owner = append(c.owner, owner)
}

// LoadCatalog reads a JSON or YAML catalog, chosen by file extension.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var entries []Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &entries)
	default:
		err = json.Unmarshal(data, &entries)
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	return NewCatalog(entries), nil
}

// Len returns the number of distinct titles.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Find returns up to limit titles matching term, closest first. A title
// matched through several aliases is reported once at its best distance.
func (c *Catalog) Find(term string, limit int) []string {
	term = strings.TrimSpace(term)
	if term == "" || c.Len() == 0 || limit <= 0 {
		return []string{}
	}

	ranks := fuzzy.RankFindNormalizedFold(term, c.targets)
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		return cmp.Or(
			cmp.Compare(a.Distance, b.Distance),
			cmp.Compare(a.OriginalIndex, b.OriginalIndex),
		)
	})

	results := make([]string, 0, min(limit, len(ranks)))
	added := make(map[int]struct{}, len(ranks))
	for _, r := range ranks {
		owner := c.owner[r.OriginalIndex]
		if _, ok := added[owner]; ok {
			continue
		}
		added[owner] = struct{}{}
		results = append(results, c.names[owner])
		if len(results) == limit {
			break
		}
	}
	return results
}
