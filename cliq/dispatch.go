package cliq

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dzonerzy/go-cliq/completion"
	"github.com/dzonerzy/go-cliq/help"
	"github.com/dzonerzy/go-cliq/internal/fuzzy"
)

// CLI binds a built command tree to explicit ambient inputs: environment,
// working directory, config data and output streams all arrive through the
// composition root, never from inside the parsing and binding functions.
// A CLI is safe for concurrent use once configured.
type CLI struct {
	root          *Command
	version       string
	env           map[string]string
	cwd           string
	configData    map[string]any
	loaders       map[string]LoaderFunc
	dynamicLoader LoaderFunc
	logger        *Logger
	out           io.Writer
}

// NewCLI wraps a command tree for parsing and dispatch.
func NewCLI(root *Command) *CLI {
	return &CLI{
		root:    root,
		env:     make(map[string]string),
		loaders: builtinLoaders(),
		logger:  NewLogger(os.Stderr),
		out:     os.Stdout,
	}
}

// Version sets the version string reported by --version and the version
// command.
func (c *CLI) Version(v string) *CLI {
	c.version = v
	return c
}

// Env supplies the environment mapping consulted during binding.
func (c *CLI) Env(env map[string]string) *CLI {
	c.env = env
	return c
}

// Cwd sets the directory config-file discovery is rooted at.
func (c *CLI) Cwd(dir string) *CLI {
	c.cwd = dir
	return c
}

// ConfigData injects an already-loaded config mapping, bypassing file
// discovery. Useful for tests and for embedders with their own config layer.
func (c *CLI) ConfigData(data map[string]any) *CLI {
	c.configData = data
	return c
}

// ConfigLoader registers a loader for a filename extension (".ini", ...).
func (c *CLI) ConfigLoader(ext string, fn LoaderFunc) *CLI {
	c.loaders[strings.ToLower(ext)] = fn
	return c
}

// DynamicConfigLoader registers the fallback loader consulted for
// extensions with no registered loader.
func (c *CLI) DynamicConfigLoader(fn LoaderFunc) *CLI {
	c.dynamicLoader = fn
	return c
}

// Logger replaces the logger used for config warnings and deprecation
// notices.
func (c *CLI) Logger(l *Logger) *CLI {
	c.logger = l
	return c
}

// Output sets the writer help, version and completion output goes to.
func (c *CLI) Output(w io.Writer) *CLI {
	c.out = w
	return c
}

// Root returns the wrapped command tree.
func (c *CLI) Root() *Command {
	return c.root
}

// EnvFromOS converts the process environment into the mapping Env expects.
// Call it at the composition root only.
func EnvFromOS() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	return out
}

// ParseResult is what Parse returns: the resolved command and the merged,
// unvalidated options record. No schema has run and no handler has been
// invoked.
type ParseResult struct {
	Command *Command
	Raw     map[string]any
	Args    []string
	// ConfigPath is the explicit --config/-c path seen on the line, if any.
	ConfigPath string
}

// RunResult is what Run and Cli return on success. When options validation
// reported issues, Issues is populated, Options is nil and no handler ran;
// that outcome is data, not an error, so wrappers can render per-field
// messages.
type RunResult struct {
	Command *Command
	Options map[string]any
	Issues  []Issue
	Result  any
}

// invocation is the shared tokenize/resolve/partition step behind Parse and
// Cli.
type invocation struct {
	tokens     []Token
	command    *Command
	args       []string
	configPath string
}

func (c *CLI) eval(input string) invocation {
	tokens := Tokenize(input)
	allTerms := terms(tokens)
	cmd, consumed := resolve(c.root, allTerms)

	// --config/-c selects a config file, unless the resolved command claims
	// either spelling for itself.
	_, configTaken := cmd.meta["config"]
	if !configTaken {
		configTaken = declaresOption(cmd, "config")
	}
	_, cTaken := cmd.aliasMap()["c"]

	var configPath string
	kept := tokens[:0:0]
	for _, tok := range tokens {
		isConfig := (tok.Kind == TokenOption && tok.Key == "config" && !configTaken) ||
			(tok.Kind == TokenAlias && tok.Key == "c" && !cTaken)
		if isConfig && tok.HasValue && !tok.Negated {
			configPath = tok.Value
			continue
		}
		kept = append(kept, tok)
	}

	// Unmatched terms become positional args, ahead of tokenizer Args.
	args := append(append([]string{}, allTerms[consumed:]...), argValues(kept)...)

	return invocation{tokens: kept, command: cmd, args: args, configPath: configPath}
}

// declaresOption reports whether the command's schema names the option.
func declaresOption(cmd *Command, name string) bool {
	in, ok := cmd.schema.(Introspector)
	if !ok {
		return false
	}
	for _, field := range in.FieldNames() {
		if field == name {
			return true
		}
	}
	return false
}

// Parse tokenizes, resolves and binds without invoking schema validation or
// the handler. It is side-effect free and safe to call repeatedly: two calls
// with the same input and the same external env/config data yield
// structurally equal results.
func (c *CLI) Parse(input string) *ParseResult {
	inv := c.eval(input)
	configData, _ := c.resolveConfig(inv.command, inv.configPath)
	raw := bind(inv.command, inv.tokens, inv.args, bindContext{
		env:        c.env,
		configData: configData,
	})
	return &ParseResult{
		Command:    inv.command,
		Raw:        raw,
		Args:       inv.args,
		ConfigPath: inv.configPath,
	}
}

// Run looks up a command by path and invokes its handler with the given
// options. The options are assumed validated; Run does not consult schemas.
func (c *CLI) Run(path string, options map[string]any) (*RunResult, error) {
	cmd := c.root.Find(path)
	if cmd == nil {
		return nil, errCommandNotFound(path, c.suggestPath(path))
	}
	return c.RunCommand(cmd, options)
}

// RunCommand invokes the handler of an already-resolved command.
func (c *CLI) RunCommand(cmd *Command, options map[string]any) (*RunResult, error) {
	return c.runCommand(cmd, options, nil)
}

func (c *CLI) runCommand(cmd *Command, options map[string]any, args []string) (*RunResult, error) {
	if cmd == nil {
		return nil, errCommandNotFound("", "")
	}
	if cmd.handler == nil {
		return nil, errNoHandler(cmd)
	}
	result, err := cmd.handler(&Context{
		Command: cmd,
		Options: options,
		Args:    args,
		cli:     c,
	})
	if err != nil {
		return nil, err
	}
	return &RunResult{Command: cmd, Options: options, Result: result}, nil
}

// Cli is the full pipeline: built-in interception (help, version,
// completion), then parse, schema validation and dispatch.
//
// Interception priority: --help flag > help term > --version flag (root
// only) > version term > completion term. A user-defined command of the same
// name disables the corresponding term interception.
func (c *CLI) Cli(input string) (*RunResult, error) {
	inv := c.eval(input)

	if intercepted, res, err := c.intercept(inv); intercepted {
		return res, err
	}

	cmd := inv.command

	// Config data, strictly validated: config files are operator controlled.
	configData, cfgPath := c.resolveConfig(cmd, inv.configPath)
	if schema := cmd.effectiveConfigSchema(); schema != nil && configData != nil {
		res := schema.Validate(configData)
		switch {
		case res.Pending:
			return nil, errAsyncValidation("config")
		case len(res.Issues) > 0:
			return nil, errConfigInvalid(cfgPath, res.Issues)
		default:
			configData = res.Value
		}
	}

	// Env data, leniently validated: env vars are ambient and may be
	// partially absent or invalid without blocking the CLI.
	var envData map[string]any
	if schema := cmd.effectiveEnvSchema(); schema != nil {
		envInput := make(map[string]any, len(c.env))
		for k, v := range c.env {
			envInput[k] = v
		}
		res := schema.Validate(envInput)
		switch {
		case res.Pending:
			return nil, errAsyncValidation("env")
		case len(res.Issues) > 0:
			c.logger.Debugf("env validation issues ignored: %d issue(s)", len(res.Issues))
		default:
			envData = res.Value
		}
	}

	raw := bind(cmd, inv.tokens, inv.args, bindContext{
		env:        c.env,
		envData:    envData,
		configData: configData,
	})
	c.warnDeprecated(cmd, inv.tokens)

	options := raw
	if cmd.schema != nil {
		res := cmd.schema.Validate(raw)
		switch {
		case res.Pending:
			return nil, errAsyncValidation("options")
		case len(res.Issues) > 0:
			return &RunResult{Command: cmd, Issues: res.Issues}, nil
		default:
			options = res.Value
		}
	}

	run, err := c.runCommand(cmd, options, inv.args)
	if err != nil {
		return nil, err
	}
	run.Options = options
	return run, nil
}

// intercept handles the built-in surface before normal dispatch.
func (c *CLI) intercept(inv invocation) (bool, *RunResult, error) {
	tl := terms(inv.tokens)
	if len(tl) > 0 && tl[0] == c.root.name {
		tl = tl[1:]
	}

	if hasFlag(inv.tokens, "help", "h") {
		return c.interceptHelp(inv.command, inv.tokens)
	}

	if len(tl) > 0 && tl[0] == "help" && c.root.childByName("help") == nil {
		target := c.root
		if len(tl) > 1 {
			path := strings.Join(tl[1:], " ")
			target = c.root.Find(path)
			if target == nil {
				return true, nil, errCommandNotFound(path, c.suggestPath(path))
			}
		}
		return c.interceptHelp(target, inv.tokens)
	}

	atRoot := inv.command == c.root
	if atRoot && (hasFlag(inv.tokens, "version", "v") || hasFlag(inv.tokens, "", "V")) {
		return c.interceptVersion()
	}
	if len(tl) > 0 && tl[0] == "version" && c.root.childByName("version") == nil {
		return c.interceptVersion()
	}

	if len(tl) > 0 && tl[0] == "completion" && c.root.childByName("completion") == nil {
		return c.interceptCompletion(tl[1:], argValues(inv.tokens))
	}

	return false, nil, nil
}

func (c *CLI) interceptHelp(cmd *Command, tokens []Token) (bool, *RunResult, error) {
	detail := flagValue(tokens, "detail", "d")
	if detail == "" {
		detail = string(help.DetailStandard)
	}
	format := flagValue(tokens, "format", "f")
	if format == "" {
		format = string(help.FormatAuto)
	}

	text, err := help.Render(c.describe(cmd), help.Options{
		Detail: help.Detail(detail),
		Format: help.Format(format),
	})
	if err != nil {
		return true, nil, err
	}
	fmt.Fprintln(c.out, text)
	return true, &RunResult{Command: cmd, Result: text}, nil
}

func (c *CLI) interceptVersion() (bool, *RunResult, error) {
	version := c.version
	if version == "" {
		version = "unknown"
	}
	fmt.Fprintf(c.out, "%s %s\n", c.root.name, version)
	return true, &RunResult{Command: c.root, Result: version}, nil
}

func (c *CLI) interceptCompletion(rest, extra []string) (bool, *RunResult, error) {
	// "completion candidates <line...>" is the callback the generated
	// scripts use; everything else selects the shell to emit a script for.
	// extra carries quoted fields, which tokenize as values rather than
	// terms.
	if len(rest) > 0 && rest[0] == "candidates" {
		line := strings.Join(append(append([]string{}, rest[1:]...), extra...), " ")
		candidates := c.Candidates(line)
		fmt.Fprintln(c.out, strings.Join(candidates, "\n"))
		return true, &RunResult{Command: c.root, Result: candidates}, nil
	}

	shell := "bash"
	if len(rest) > 0 {
		shell = rest[0]
	} else if len(extra) > 0 {
		shell = extra[0]
	}
	script, err := completion.Script(shell, c.root.name)
	if err != nil {
		return true, nil, errUnknownShell(shell)
	}
	fmt.Fprintln(c.out, script)
	return true, &RunResult{Command: c.root, Result: script}, nil
}

// warnDeprecated logs a notice for every deprecated option present on the
// command line.
func (c *CLI) warnDeprecated(cmd *Command, tokens []Token) {
	aliasMap := cmd.aliasMap()
	warned := make(map[string]bool)
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
		meta, ok := cmd.meta[key]
		if !ok || meta.Deprecated == "" || warned[key] {
			continue
		}
		warned[key] = true
		c.logger.Warnf("option --%s is deprecated: %s", key, meta.Deprecated)
	}
}

// suggestPath fuzzy-matches a failed lookup against every command path and
// name in the tree.
func (c *CLI) suggestPath(path string) string {
	var candidates []string
	var walk func(cmd *Command, prefix string)
	walk = func(cmd *Command, prefix string) {
		for _, child := range cmd.children {
			full := child.name
			if prefix != "" {
				full = prefix + " " + child.name
			}
			candidates = append(candidates, full)
			walk(child, full)
		}
	}
	walk(c.root, "")
	return fuzzy.Suggest(path, candidates, 2)
}

// hasFlag reports whether the token stream carries the given long option or
// single-dash alias. Built-ins check the raw stream so they win over any
// user alias mapping.
func hasFlag(tokens []Token, long, alias string) bool {
	for _, tok := range tokens {
		if long != "" && tok.Kind == TokenOption && tok.Key == long && !tok.Negated {
			return true
		}
		if alias != "" && tok.Kind == TokenAlias && tok.Key == alias {
			return true
		}
	}
	return false
}

// flagValue returns the bound value of the given long option or alias.
func flagValue(tokens []Token, long, alias string) string {
	for _, tok := range tokens {
		match := (tok.Kind == TokenOption && tok.Key == long) ||
			(tok.Kind == TokenAlias && tok.Key == alias)
		if match && tok.HasValue {
			return tok.Value
		}
	}
	return ""
}
