package cliq

import (
	"fmt"
	"strings"
)

// Builder assembles an immutable command tree with a fluent API. Every
// configuration call returns a derived builder value, so intermediate
// builders can be shared and reused without aliasing surprises; nothing a
// finished tree holds is reachable through the builder that produced it.
//
//	root := cliq.New("weather", "Weather in your terminal").
//		Command(cliq.New("current", "Current conditions").
//			Options(schema).
//			Option("unit", cliq.OptionMeta{Aliases: []string{"u"}}).
//			Positional("city").
//			Action(showCurrent))
//	cmd, err := root.Build()
type Builder struct {
	spec commandSpec
}

// commandSpec is the mutable shadow of a Command while it is being built.
type commandSpec struct {
	name         string
	description  string
	aliases      []string
	children     []commandSpec
	schema       Schema
	envSchema    Schema
	configSchema Schema
	meta         map[string]OptionMeta
	positional   []string
	configFiles  []string
	handler      Handler
	hidden       bool
	examples     []string
}

// New starts a builder for a command with the given name and description.
func New(name, description string) *Builder {
	return &Builder{spec: commandSpec{name: name, description: description}}
}

// clone produces a detached copy so every builder method can return a fresh
// value. Schemas and handlers are shared by reference; they are read-only.
func (s commandSpec) clone() commandSpec {
	out := s
	out.aliases = append([]string(nil), s.aliases...)
	out.children = append([]commandSpec(nil), s.children...)
	out.positional = append([]string(nil), s.positional...)
	out.examples = append([]string(nil), s.examples...)
	if s.configFiles != nil {
		out.configFiles = append([]string{}, s.configFiles...)
	}
	if s.meta != nil {
		out.meta = make(map[string]OptionMeta, len(s.meta))
		for k, v := range s.meta {
			out.meta[k] = v
		}
	}
	return out
}

func (b *Builder) derive(mutate func(*commandSpec)) *Builder {
	spec := b.spec.clone()
	mutate(&spec)
	return &Builder{spec: spec}
}

// Alias adds alternate names usable interchangeably with the command name.
func (b *Builder) Alias(names ...string) *Builder {
	return b.derive(func(s *commandSpec) {
		s.aliases = append(s.aliases, names...)
	})
}

// Options attaches the command's options schema.
func (b *Builder) Options(schema Schema) *Builder {
	return b.derive(func(s *commandSpec) {
		s.schema = schema
	})
}

// Option attaches metadata (aliases, env names, config key, deprecation,
// examples) to a single option.
func (b *Builder) Option(name string, meta OptionMeta) *Builder {
	return b.derive(func(s *commandSpec) {
		if s.meta == nil {
			s.meta = make(map[string]OptionMeta)
		}
		s.meta[name] = meta
	})
}

// Positional declares which options fill from positional tokens, in slot
// order. Prefix one name with "..." to make that slot variadic.
func (b *Builder) Positional(slots ...string) *Builder {
	return b.derive(func(s *commandSpec) {
		s.positional = append([]string(nil), slots...)
	})
}

// ConfigFiles sets the config filenames searched for on disk. Calling it
// with no arguments records "explicitly no config files"; not calling it at
// all leaves the command inheriting its parent's list.
func (b *Builder) ConfigFiles(names ...string) *Builder {
	return b.derive(func(s *commandSpec) {
		s.configFiles = append([]string{}, names...)
	})
}

// EnvSchema sets the transform/validation schema for environment data.
// Unset means inherit from the parent command.
func (b *Builder) EnvSchema(schema Schema) *Builder {
	return b.derive(func(s *commandSpec) {
		s.envSchema = schema
	})
}

// ConfigSchema sets the validation schema for config-file data. Unset means
// inherit from the parent command.
func (b *Builder) ConfigSchema(schema Schema) *Builder {
	return b.derive(func(s *commandSpec) {
		s.configSchema = schema
	})
}

// Action sets the handler invoked with the command's validated options.
// A command without one is a pure grouping node.
func (b *Builder) Action(fn Handler) *Builder {
	return b.derive(func(s *commandSpec) {
		s.handler = fn
	})
}

// Hidden omits the command from help listings.
func (b *Builder) Hidden() *Builder {
	return b.derive(func(s *commandSpec) {
		s.hidden = true
	})
}

// Example adds usage examples shown in full-detail help.
func (b *Builder) Example(lines ...string) *Builder {
	return b.derive(func(s *commandSpec) {
		s.examples = append(s.examples, lines...)
	})
}

// Command attaches a sub-command built by another builder. The child's
// current state is captured at attach time.
func (b *Builder) Command(child *Builder) *Builder {
	return b.derive(func(s *commandSpec) {
		s.children = append(s.children, child.spec.clone())
	})
}

// Build freezes the tree into immutable Command values, validating the
// structural invariants: sibling names unique, sibling aliases unique and
// not shadowing sibling names, at most one variadic positional slot.
func (b *Builder) Build() (*Command, error) {
	return buildCommand(b.spec, nil)
}

func buildCommand(spec commandSpec, parent *Command) (*Command, error) {
	if spec.name == "" {
		return nil, fmt.Errorf("cliq: command name must not be empty")
	}

	variadics := 0
	for _, slot := range spec.positional {
		if strings.HasPrefix(slot, "...") {
			variadics++
		}
	}
	if variadics > 1 {
		return nil, fmt.Errorf("cliq: command %q declares %d variadic positional slots, at most one is allowed", spec.name, variadics)
	}

	cmd := &Command{
		name:         spec.name,
		description:  spec.description,
		aliases:      append([]string(nil), spec.aliases...),
		parent:       parent,
		schema:       spec.schema,
		envSchema:    spec.envSchema,
		configSchema: spec.configSchema,
		positional:   append([]string(nil), spec.positional...),
		handler:      spec.handler,
		hidden:       spec.hidden,
		examples:     append([]string(nil), spec.examples...),
	}
	if spec.configFiles != nil {
		cmd.configFiles = append([]string{}, spec.configFiles...)
	}
	cmd.meta = make(map[string]OptionMeta, len(spec.meta))
	for k, v := range spec.meta {
		cmd.meta[k] = v
	}

	// Names must be unique among siblings, and so must aliases. An alias
	// colliding with another sibling's name is legal; resolution gives the
	// exact name priority.
	names := make(map[string]string)
	aliases := make(map[string]string)
	for _, childSpec := range spec.children {
		if owner, clash := names[childSpec.name]; clash {
			return nil, fmt.Errorf("cliq: command %q: name %q already used by sibling %q", spec.name, childSpec.name, owner)
		}
		names[childSpec.name] = childSpec.name
		for _, alias := range childSpec.aliases {
			if owner, clash := aliases[alias]; clash {
				return nil, fmt.Errorf("cliq: command %q: alias %q already used by sibling %q", spec.name, alias, owner)
			}
			aliases[alias] = childSpec.name
		}

		child, err := buildCommand(childSpec, cmd)
		if err != nil {
			return nil, err
		}
		cmd.children = append(cmd.children, child)
	}

	return cmd, nil
}

// MustBuild is Build for static trees assembled at program start.
func (b *Builder) MustBuild() *Command {
	cmd, err := b.Build()
	if err != nil {
		panic(err)
	}
	return cmd
}
