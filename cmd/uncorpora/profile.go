package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// profile holds flag values loaded from a YAML file. Top-level keys apply
// to every command; a key named after a command holds values for that
// command only and wins over the top level:
//
//	log-level: debug
//	filter:
//	  langs: [EN, FR]
//	  novote: true
//	runs:
//	  list:
//	    limit: 50
type profile struct {
	values map[string]any
}

// loadProfile is the kong.ConfigurationLoader for --profile.
func loadProfile(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	p := &profile{values: values}
	return kong.ResolverFunc(p.resolve), nil
}

func (p *profile) resolve(ctx *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	v, ok := p.lookup(commandPath(ctx.Selected()), flag.Name)
	if !ok {
		return nil, nil
	}
	return flagValue(v), nil
}

// lookup finds name in the deepest section along path that defines it.
func (p *profile) lookup(path []string, name string) (any, bool) {
	keys := []string{name}
	if alt := strings.ReplaceAll(name, "-", "_"); alt != name {
		keys = append(keys, alt)
	}

	for depth := len(path); depth >= 0; depth-- {
		section, ok := p.section(path[:depth])
		if !ok {
			continue
		}
		for _, key := range keys {
			v, found := section[key]
			if !found || v == nil {
				continue
			}
			if _, nested := v.(map[string]any); nested {
				continue
			}
			return v, true
		}
	}
	return nil, false
}

func (p *profile) section(path []string) (map[string]any, bool) {
	m := p.values
	for _, name := range path {
		sub, ok := m[name].(map[string]any)
		if !ok {
			return nil, false
		}
		m = sub
	}
	return m, true
}

// commandPath returns the command names from the root down to n.
func commandPath(n *kong.Node) []string {
	var names []string
	for ; n != nil; n = n.Parent {
		if n.Type == kong.CommandNode {
			names = append([]string{n.Name}, names...)
		}
	}
	return names
}

// flagValue renders a YAML value the way it would be typed on the command
// line. Lists become comma-separated code lists.
func flagValue(v any) string {
	if list, ok := v.([]any); ok {
		parts := make([]string, len(list))
		for i, item := range list {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}
