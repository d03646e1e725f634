package cliq

import (
	"strings"

	"github.com/dzonerzy/go-cliq/help"
)

// Describe flattens a command into the renderer's document form. The doc is
// a snapshot: mutating it never touches the command tree.
func (c *CLI) Describe(cmd *Command) help.CommandDoc {
	return c.describe(cmd)
}

func (c *CLI) describe(cmd *Command) help.CommandDoc {
	doc := help.CommandDoc{
		Name:        cmd.name,
		Path:        cmd.Path(),
		Description: cmd.description,
		Aliases:     append([]string(nil), cmd.aliases...),
		Runnable:    cmd.Runnable(),
		Examples:    append([]string(nil), cmd.examples...),
	}
	if cmd.parent == nil {
		doc.Version = c.version
	}

	for _, child := range cmd.children {
		doc.Commands = append(doc.Commands, help.SubcommandDoc{
			Name:        child.name,
			Aliases:     append([]string(nil), child.aliases...),
			Description: child.description,
			Hidden:      child.hidden,
		})
	}

	for _, slot := range cmd.positional {
		name, variadic := strings.CutPrefix(slot, "...")
		doc.Positionals = append(doc.Positionals, help.PositionalDoc{
			Name:     name,
			Variadic: variadic,
		})
	}

	schema, _ := cmd.schema.(*ObjectSchema)
	for _, name := range cmd.OptionNames() {
		opt := help.OptionDoc{Name: name}
		if meta, ok := cmd.meta[name]; ok {
			opt.Aliases = append([]string(nil), meta.Aliases...)
			opt.Description = meta.Description
			opt.Env = append([]string(nil), meta.Env...)
			opt.Deprecated = meta.Deprecated
			opt.Hidden = meta.Hidden
			opt.Examples = append([]string(nil), meta.Examples...)
		}
		if schema != nil {
			if field, ok := schema.fields[name]; ok {
				opt.Type = string(field.Type)
				opt.Required = field.Required
				opt.Default = field.Default
				opt.Choices = append([]string(nil), field.Choices...)
			}
		} else if in, ok := cmd.schema.(Introspector); ok {
			opt.Required = in.IsRequired(name)
			switch {
			case in.IsBool(name):
				opt.Type = "bool"
			case in.IsArray(name):
				opt.Type = "list"
			}
		}
		doc.Options = append(doc.Options, opt)
	}

	return doc
}
