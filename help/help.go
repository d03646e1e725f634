// Package help renders command documentation in several output formats.
// It consumes a structured description of a command and knows nothing about
// how that description was produced.
package help

import (
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/fatih/color"
)

// CommandDoc is the renderer's input: everything help output needs about a
// single command, already flattened.
type CommandDoc struct {
	Name        string          `json:"name"`
	Path        string          `json:"path"`
	Description string          `json:"description,omitempty"`
	Aliases     []string        `json:"aliases,omitempty"`
	Version     string          `json:"version,omitempty"`
	Runnable    bool            `json:"runnable"`
	Options     []OptionDoc     `json:"options,omitempty"`
	Positionals []PositionalDoc `json:"positionals,omitempty"`
	Commands    []SubcommandDoc `json:"commands,omitempty"`
	Examples    []string        `json:"examples,omitempty"`
}

// OptionDoc describes one named option.
type OptionDoc struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type,omitempty"`
	Required    bool     `json:"required,omitempty"`
	Default     any      `json:"default,omitempty"`
	Choices     []string `json:"choices,omitempty"`
	Env         []string `json:"env,omitempty"`
	Deprecated  string   `json:"deprecated,omitempty"`
	Hidden      bool     `json:"-"`
	Examples    []string `json:"examples,omitempty"`
}

// PositionalDoc describes one positional slot.
type PositionalDoc struct {
	Name     string `json:"name"`
	Variadic bool   `json:"variadic,omitempty"`
}

// SubcommandDoc is the one-line summary of a child command.
type SubcommandDoc struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description,omitempty"`
	Hidden      bool     `json:"-"`
}

// Detail selects how much of the doc is rendered.
type Detail string

const (
	DetailMinimal  Detail = "minimal"
	DetailStandard Detail = "standard"
	DetailFull     Detail = "full"
)

// Format selects the output markup.
type Format string

const (
	FormatAuto     Format = "auto"
	FormatText     Format = "text"
	FormatANSI     Format = "ansi"
	FormatConsole  Format = "console"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// Options configures a Render call. The zero value means standard detail in
// auto format.
type Options struct {
	Detail Detail
	Format Format
}

// Render produces help text for a command doc. Unknown detail levels fall
// back to standard; an unknown format is an error.
func Render(doc CommandDoc, opts Options) (string, error) {
	detail := opts.Detail
	switch detail {
	case DetailMinimal, DetailStandard, DetailFull:
	default:
		detail = DetailStandard
	}

	switch opts.Format {
	case FormatText:
		return renderText(doc, detail, false), nil
	case FormatANSI, FormatConsole:
		return renderText(doc, detail, true), nil
	case FormatAuto, "":
		// The color package downgrades to plain text off a terminal.
		return renderText(doc, detail, !color.NoColor), nil
	case FormatMarkdown:
		return renderMarkdown(doc, detail), nil
	case FormatHTML:
		return renderHTML(doc, detail), nil
	case FormatJSON:
		return renderJSON(doc, detail)
	default:
		return "", fmt.Errorf("help: unknown format %q", opts.Format)
	}
}

func visibleOptions(doc CommandDoc, detail Detail) []OptionDoc {
	out := make([]OptionDoc, 0, len(doc.Options))
	for _, opt := range doc.Options {
		if opt.Hidden && detail != DetailFull {
			continue
		}
		out = append(out, opt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func visibleCommands(doc CommandDoc, detail Detail) []SubcommandDoc {
	out := make([]SubcommandDoc, 0, len(doc.Commands))
	for _, sub := range doc.Commands {
		if sub.Hidden && detail != DetailFull {
			continue
		}
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func usageLine(doc CommandDoc) string {
	var b strings.Builder
	b.WriteString(doc.Path)
	if len(doc.Commands) > 0 {
		b.WriteString(" [command]")
	}
	for _, pos := range doc.Positionals {
		if pos.Variadic {
			fmt.Fprintf(&b, " <%s...>", pos.Name)
		} else {
			fmt.Fprintf(&b, " <%s>", pos.Name)
		}
	}
	if len(doc.Options) > 0 {
		b.WriteString(" [options]")
	}
	return b.String()
}

func optionLabel(opt OptionDoc) string {
	label := "--" + opt.Name
	for _, a := range opt.Aliases {
		label += ", -" + a
	}
	if opt.Type != "" && opt.Type != "bool" {
		label += " <" + opt.Type + ">"
	}
	return label
}

func renderText(doc CommandDoc, detail Detail, ansi bool) string {
	heading := func(s string) string { return s }
	emph := func(s string) string { return s }
	dim := func(s string) string { return s }
	if ansi {
		heading = func(s string) string { return color.New(color.Bold, color.FgCyan).Sprint(s) }
		emph = func(s string) string { return color.New(color.Bold).Sprint(s) }
		dim = func(s string) string { return color.New(color.Faint).Sprint(s) }
	}

	var b strings.Builder

	if doc.Description != "" {
		b.WriteString(doc.Description)
		b.WriteString("\n\n")
	}
	b.WriteString(heading("Usage:"))
	b.WriteString("\n  ")
	b.WriteString(usageLine(doc))
	b.WriteString("\n")

	if detail == DetailMinimal {
		return strings.TrimRight(b.String(), "\n")
	}

	if len(doc.Aliases) > 0 {
		b.WriteString("\n")
		b.WriteString(heading("Aliases:"))
		b.WriteString("\n  ")
		b.WriteString(strings.Join(doc.Aliases, ", "))
		b.WriteString("\n")
	}

	if subs := visibleCommands(doc, detail); len(subs) > 0 {
		b.WriteString("\n")
		b.WriteString(heading("Commands:"))
		b.WriteString("\n")
		width := 0
		for _, sub := range subs {
			if len(sub.Name) > width {
				width = len(sub.Name)
			}
		}
		for _, sub := range subs {
			pad := strings.Repeat(" ", width-len(sub.Name))
			fmt.Fprintf(&b, "  %s%s  %s\n", emph(sub.Name), pad, sub.Description)
		}
	}

	if opts := visibleOptions(doc, detail); len(opts) > 0 {
		b.WriteString("\n")
		b.WriteString(heading("Options:"))
		b.WriteString("\n")
		labels := make([]string, len(opts))
		width := 0
		for i, opt := range opts {
			labels[i] = optionLabel(opt)
			if len(labels[i]) > width {
				width = len(labels[i])
			}
		}
		for i, opt := range opts {
			desc := opt.Description
			if opt.Required {
				desc += " (required)"
			}
			if opt.Default != nil {
				desc += fmt.Sprintf(" (default: %v)", opt.Default)
			}
			if opt.Deprecated != "" {
				desc += dim(" [deprecated: " + opt.Deprecated + "]")
			}
			fmt.Fprintf(&b, "  %-*s  %s\n", width, labels[i], strings.TrimSpace(desc))
			if detail == DetailFull {
				if len(opt.Choices) > 0 {
					fmt.Fprintf(&b, "  %-*s  %s\n", width, "", dim("choices: "+strings.Join(opt.Choices, ", ")))
				}
				if len(opt.Env) > 0 {
					fmt.Fprintf(&b, "  %-*s  %s\n", width, "", dim("env: "+strings.Join(opt.Env, ", ")))
				}
			}
		}
	}

	if detail == DetailFull && len(doc.Examples) > 0 {
		b.WriteString("\n")
		b.WriteString(heading("Examples:"))
		b.WriteString("\n")
		for _, ex := range doc.Examples {
			b.WriteString("  ")
			b.WriteString(ex)
			b.WriteString("\n")
		}
	}

	if doc.Version != "" && detail == DetailFull {
		b.WriteString("\n")
		b.WriteString(dim("Version: " + doc.Version))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderMarkdown(doc CommandDoc, detail Detail) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", doc.Path)
	if doc.Description != "" {
		b.WriteString(doc.Description)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "```\n%s\n```\n", usageLine(doc))

	if detail == DetailMinimal {
		return strings.TrimRight(b.String(), "\n")
	}

	if subs := visibleCommands(doc, detail); len(subs) > 0 {
		b.WriteString("\n## Commands\n\n")
		for _, sub := range subs {
			fmt.Fprintf(&b, "- **%s**: %s\n", sub.Name, sub.Description)
		}
	}

	if opts := visibleOptions(doc, detail); len(opts) > 0 {
		b.WriteString("\n## Options\n\n")
		b.WriteString("| Option | Description |\n|---|---|\n")
		for _, opt := range opts {
			fmt.Fprintf(&b, "| `%s` | %s |\n", optionLabel(opt), opt.Description)
		}
	}

	if detail == DetailFull && len(doc.Examples) > 0 {
		b.WriteString("\n## Examples\n\n")
		for _, ex := range doc.Examples {
			fmt.Fprintf(&b, "```\n%s\n```\n", ex)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderHTML(doc CommandDoc, detail Detail) string {
	esc := html.EscapeString

	var b strings.Builder
	fmt.Fprintf(&b, "<section class=\"cliq-help\">\n<h1>%s</h1>\n", esc(doc.Path))
	if doc.Description != "" {
		fmt.Fprintf(&b, "<p>%s</p>\n", esc(doc.Description))
	}
	fmt.Fprintf(&b, "<pre>%s</pre>\n", esc(usageLine(doc)))

	if detail != DetailMinimal {
		if subs := visibleCommands(doc, detail); len(subs) > 0 {
			b.WriteString("<h2>Commands</h2>\n<ul>\n")
			for _, sub := range subs {
				fmt.Fprintf(&b, "<li><code>%s</code> %s</li>\n", esc(sub.Name), esc(sub.Description))
			}
			b.WriteString("</ul>\n")
		}
		if opts := visibleOptions(doc, detail); len(opts) > 0 {
			b.WriteString("<h2>Options</h2>\n<dl>\n")
			for _, opt := range opts {
				fmt.Fprintf(&b, "<dt><code>%s</code></dt>\n<dd>%s</dd>\n", esc(optionLabel(opt)), esc(opt.Description))
			}
			b.WriteString("</dl>\n")
		}
	}

	b.WriteString("</section>")
	return b.String()
}

func renderJSON(doc CommandDoc, detail Detail) (string, error) {
	if detail != DetailFull {
		doc.Options = visibleOptions(doc, detail)
		doc.Commands = visibleCommands(doc, detail)
		if detail == DetailMinimal {
			doc.Examples = nil
		}
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("help: encode doc: %w", err)
	}
	return string(out), nil
}
