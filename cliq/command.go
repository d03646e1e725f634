package cliq

import "strings"

// Handler is the function a command runs with its validated options.
type Handler func(*Context) (any, error)

// OptionMeta carries the per-option metadata the binder, help renderer and
// completion generator consume.
type OptionMeta struct {
	// Aliases are short names usable as -x in place of --name.
	Aliases []string
	// Env lists environment variable names checked in order; the first
	// variable present in the environment supplies the value.
	Env []string
	// ConfigKey is a dot-separated path into config-file data. Empty means
	// the option name itself is used as the key.
	ConfigKey string
	// Deprecated, when non-empty, marks the option deprecated; the text is
	// logged as a notice when the option is supplied on the command line.
	Deprecated string
	// Hidden options are omitted from help output except at full detail.
	Hidden bool
	// Examples are sample values shown in full-detail help.
	Examples []string
	// Description is the one-line help text for the option.
	Description string
}

// Command is a node in the immutable command tree. Commands are built once
// through a Builder before any parsing; after Build the tree is never
// mutated, so concurrent Parse/Run/Cli calls against it are safe.
type Command struct {
	name         string
	description  string
	aliases      []string
	parent       *Command
	children     []*Command // insertion order, used for help listing
	schema       Schema
	envSchema    Schema   // nil means inherit from parent
	configSchema Schema   // nil means inherit from parent
	meta         map[string]OptionMeta
	positional   []string // option names; a "..." prefix marks the variadic slot
	configFiles  []string // nil means inherit; empty non-nil means explicitly none
	handler      Handler
	hidden       bool
	examples     []string
}

// Name returns the token users type to select this command.
func (c *Command) Name() string { return c.name }

// Description returns the one-line help text.
func (c *Command) Description() string { return c.description }

// Aliases returns the alternate names for this command at its tree position.
func (c *Command) Aliases() []string { return c.aliases }

// Parent returns the enclosing command, nil for the root.
func (c *Command) Parent() *Command { return c.parent }

// Children returns the sub-commands in declaration order.
func (c *Command) Children() []*Command { return c.children }

// Hidden reports whether the command is omitted from help listings.
func (c *Command) Hidden() bool { return c.hidden }

// Examples returns usage examples attached by the builder.
func (c *Command) Examples() []string { return c.examples }

// Schema returns the options schema, nil when the command declares none.
func (c *Command) Schema() Schema { return c.schema }

// Meta returns the metadata for a single option.
func (c *Command) Meta(option string) (OptionMeta, bool) {
	m, ok := c.meta[option]
	return m, ok
}

// OptionNames returns the option names that carry metadata, combined with the
// schema's field names when the schema is introspectable, deduplicated and in
// a stable order (schema order first, then metadata-only names sorted in).
func (c *Command) OptionNames() []string {
	seen := make(map[string]bool)
	var names []string
	if in, ok := c.schema.(Introspector); ok {
		for _, name := range in.FieldNames() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	extra := make([]string, 0, len(c.meta))
	for name := range c.meta {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sortStrings(extra)
	return append(names, extra...)
}

// Positional returns the positional slot spec: option names in slot order,
// with the at-most-one variadic slot prefixed by "...".
func (c *Command) Positional() []string { return c.positional }

// Runnable reports whether the command has a handler. Commands without one
// are pure grouping nodes and cannot be run directly.
func (c *Command) Runnable() bool { return c.handler != nil }

// Path returns the space-joined name from the root to this node.
func (c *Command) Path() string {
	if c.parent == nil {
		return c.name
	}
	return c.parent.Path() + " " + c.name
}

// Root walks parents up to the tree root.
func (c *Command) Root() *Command {
	cur := c
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Find resolves a space- or dot-separated path against this command's
// subtree by exact names and aliases. A leading segment equal to this
// command's own name is skipped, so "weather current" and "current" both
// resolve from the weather root. Returns nil when the path does not resolve.
func (c *Command) Find(path string) *Command {
	segments := strings.FieldsFunc(path, func(r rune) bool {
		return r == ' ' || r == '.'
	})
	if len(segments) > 0 && segments[0] == c.name {
		segments = segments[1:]
	}
	cur := c
	for _, seg := range segments {
		next := cur.childByName(seg)
		if next == nil {
			next = cur.childByAlias(seg)
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// childByName matches a direct child by exact name.
func (c *Command) childByName(name string) *Command {
	for _, child := range c.children {
		if child.name == name {
			return child
		}
	}
	return nil
}

// childByAlias matches a direct child by alias. Callers must exhaust
// childByName across all siblings first: an exact name always wins over
// another sibling's alias.
func (c *Command) childByAlias(name string) *Command {
	for _, child := range c.children {
		for _, alias := range child.aliases {
			if alias == name {
				return child
			}
		}
	}
	return nil
}

// effectiveConfigFiles resolves the config-file list honoring inheritance:
// nil means "ask the parent", an empty non-nil slice means "explicitly no
// config files" and stops the walk.
func (c *Command) effectiveConfigFiles() []string {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.configFiles != nil {
			return cur.configFiles
		}
	}
	return nil
}

// effectiveEnvSchema resolves the env schema with the same inherit rule.
func (c *Command) effectiveEnvSchema() Schema {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.envSchema != nil {
			return cur.envSchema
		}
	}
	return nil
}

// effectiveConfigSchema resolves the config schema with the same inherit rule.
func (c *Command) effectiveConfigSchema() Schema {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.configSchema != nil {
			return cur.configSchema
		}
	}
	return nil
}

// aliasMap builds the option alias lookup table: alias name to canonical
// option name, from per-option metadata.
func (c *Command) aliasMap() map[string]string {
	out := make(map[string]string)
	for name, meta := range c.meta {
		for _, alias := range meta.Aliases {
			out[alias] = name
		}
	}
	return out
}

// sortStrings is an in-place insertion sort; option lists are tiny and this
// keeps the hot path free of package imports it does not otherwise need.
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
