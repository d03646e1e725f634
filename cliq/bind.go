package cliq

import "strings"

// bindContext carries the external data sources the binder merges beneath
// CLI-supplied values. Everything is passed explicitly; the binder never
// reads process state itself.
type bindContext struct {
	// env is the raw process environment, keyed by variable name.
	env map[string]string
	// envData is env-schema-derived data keyed by option name. It is
	// consulted before raw env lookups.
	envData map[string]any
	// configData is the (possibly nested) config-file mapping.
	configData map[string]any
}

// bind merges CLI flags, positional arguments, environment variables and
// config-file data into one flat record under the fixed precedence
// CLI > environment > config file, applied independently per key.
//
// The binder never fails: a positional slot with no argument simply leaves
// its key absent for the schema's required-field validation to catch, and
// alias keys with no declared canonical option pass through literally so ad
// hoc flags survive to the handler.
func bind(cmd *Command, tokens []Token, args []string, ctx bindContext) map[string]any {
	out := make(map[string]any)
	aliasMap := cmd.aliasMap()
	intro, _ := cmd.schema.(Introspector)

	// Flag-derived values first; they own the key space.
	for _, tok := range tokens {
		if tok.Kind != TokenOption && tok.Kind != TokenAlias {
			continue
		}

		key := tok.Key
		if tok.Kind == TokenAlias {
			if canonical, ok := aliasMap[key]; ok {
				key = canonical
			}
		}
		if key == "" {
			continue
		}

		if tok.Negated {
			// --no-key forces false, no further value logic for this key.
			out[key] = false
			continue
		}

		if intro != nil && intro.IsArray(key) {
			out[key] = appendValues(out[key], tok)
			continue
		}

		switch {
		case tok.IsList:
			out[key] = append([]string(nil), tok.List...)
		case tok.HasValue:
			out[key] = tok.Value
		default:
			out[key] = true
		}
	}

	fillPositional(cmd, out, args)

	// External sources only fill keys the command line left empty.
	for _, name := range cmd.OptionNames() {
		if _, set := out[name]; set {
			continue
		}
		if v, ok := envValue(cmd, name, ctx); ok {
			out[name] = v
			continue
		}
		if v, ok := configValue(cmd, name, ctx.configData); ok {
			out[name] = v
		}
	}

	return out
}

// appendValues accumulates a repeatable array-typed option: every occurrence
// appends, scalar and bracket-list values alike, and a bare occurrence seeds
// an empty array.
func appendValues(existing any, tok Token) []string {
	list, _ := existing.([]string)
	if list == nil {
		list = []string{}
	}
	switch {
	case tok.IsList:
		return append(list, tok.List...)
	case tok.HasValue:
		return append(list, tok.Value)
	default:
		return list
	}
}

// fillPositional assigns positional arguments to the command's declared
// slots. Non-variadic slots take one argument each in order; the at-most-one
// variadic slot takes a contiguous run sized so that every later non-variadic
// slot still gets its trailing argument. Slots only fill keys the flags did
// not already set, but an argument is consumed by its slot either way so
// later slots stay aligned.
func fillPositional(cmd *Command, out map[string]any, args []string) {
	slots := cmd.positional
	next := 0

	for i, slot := range slots {
		name, variadic := strings.CutPrefix(slot, "...")

		if variadic {
			reserved := 0
			for _, later := range slots[i+1:] {
				if !strings.HasPrefix(later, "...") {
					reserved++
				}
			}
			take := len(args) - next - reserved
			if take < 0 {
				take = 0
			}
			run := append([]string{}, args[next:next+take]...)
			next += take
			if _, set := out[name]; !set {
				out[name] = run
			}
			continue
		}

		if next >= len(args) {
			// Requiredness is the schema's concern, not the binder's.
			continue
		}
		if _, set := out[name]; !set {
			out[name] = args[next]
		}
		next++
	}
}

// envValue resolves an environment-sourced value for an option: schema-shaped
// env data first, then the option's declared env variable names in order.
func envValue(cmd *Command, name string, ctx bindContext) (any, bool) {
	if v, ok := ctx.envData[name]; ok {
		return v, true
	}
	meta, _ := cmd.meta[name]
	for _, envName := range meta.Env {
		if v, ok := ctx.env[envName]; ok && v != "" {
			return v, true
		}
	}
	return nil, false
}

// configValue resolves a config-file value for an option, following the
// option's dot-separated config key path (defaulting to the option name).
func configValue(cmd *Command, name string, data map[string]any) (any, bool) {
	if data == nil {
		return nil, false
	}
	key := name
	if meta, ok := cmd.meta[name]; ok && meta.ConfigKey != "" {
		key = meta.ConfigKey
	}
	return lookupPath(data, key)
}

// lookupPath walks a dot-separated key path through nested maps.
func lookupPath(data map[string]any, path string) (any, bool) {
	segments := strings.Split(path, ".")
	cur := any(data)
	for _, seg := range segments {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
