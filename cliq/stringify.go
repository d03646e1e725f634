package cliq

import (
	"fmt"
	"strings"
)

// Stringify renders a command path plus an options record back into a
// command line that parses to an equivalent result: positional-eligible
// values are emitted in slot order, everything else as --key flags in sorted
// order. Nil values are omitted.
func (c *CLI) Stringify(path string, options map[string]any) (string, error) {
	cmd := c.root.Find(path)
	if cmd == nil {
		return "", errCommandNotFound(path, c.suggestPath(path))
	}
	return stringifyCommand(cmd, options), nil
}

func stringifyCommand(cmd *Command, options map[string]any) string {
	var parts []string

	// Path segments, root name excluded: parse accepts either form and the
	// shorter one round-trips through resolve cleanly.
	if cmd.parent != nil {
		var segments []string
		for cur := cmd; cur.parent != nil; cur = cur.parent {
			segments = append([]string{cur.name}, segments...)
		}
		parts = append(parts, segments...)
	}

	used := make(map[string]bool)
	for _, slot := range cmd.positional {
		name, variadic := strings.CutPrefix(slot, "...")
		val, ok := options[name]
		if !ok || val == nil {
			// A later positional can still be reached by flag form, so stop
			// consuming slots at the first gap.
			break
		}
		if variadic {
			for _, item := range toStrings(val) {
				parts = append(parts, quoteArg(item))
			}
		} else {
			parts = append(parts, quoteArg(fmt.Sprintf("%v", val)))
		}
		used[name] = true
	}

	keys := make([]string, 0, len(options))
	for k := range options {
		if !used[k] && options[k] != nil {
			keys = append(keys, k)
		}
	}
	sortStrings(keys)

	for _, key := range keys {
		switch v := options[key].(type) {
		case bool:
			if v {
				parts = append(parts, "--"+key)
			} else {
				parts = append(parts, "--no-"+key)
			}
		case []string:
			for _, item := range v {
				parts = append(parts, "--"+key+"="+quoteArg(item))
			}
		case []any:
			for _, item := range v {
				parts = append(parts, "--"+key+"="+quoteArg(fmt.Sprintf("%v", item)))
			}
		default:
			parts = append(parts, "--"+key+"="+quoteArg(fmt.Sprintf("%v", v)))
		}
	}

	return strings.Join(parts, " ")
}

func toStrings(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, fmt.Sprintf("%v", item))
		}
		return out
	default:
		return []string{fmt.Sprintf("%v", v)}
	}
}

// quoteArg wraps values the tokenizer would otherwise misread: whitespace
// splits fields, quote characters open a quoted span, and a leading bracket
// turns a flag value into a list literal. Quoting keeps each one a plain
// scalar on the way back in.
func quoteArg(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, " \t\"'`") && s[0] != '[' {
		return s
	}
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}
