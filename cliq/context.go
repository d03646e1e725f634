package cliq

// Context is what a handler receives: the resolved command, its validated
// options and the raw positional arguments that fed them. It also exposes
// the owning CLI so handlers can reach the configured output and logger.
type Context struct {
	Command *Command
	Options map[string]any
	Args    []string

	cli *CLI
}

// CLI returns the dispatcher that invoked the handler.
func (c *Context) CLI() *CLI {
	return c.cli
}

// String returns the named option as a string, with ok reporting presence.
func (c *Context) String(name string) (string, bool) {
	v, ok := c.Options[name].(string)
	return v, ok
}

// MustString returns the named string option or the fallback.
func (c *Context) MustString(name, fallback string) string {
	if v, ok := c.String(name); ok {
		return v
	}
	return fallback
}

// Bool returns the named option as a bool, with ok reporting presence.
func (c *Context) Bool(name string) (bool, bool) {
	v, ok := c.Options[name].(bool)
	return v, ok
}

// MustBool returns the named bool option or the fallback.
func (c *Context) MustBool(name string, fallback bool) bool {
	if v, ok := c.Bool(name); ok {
		return v
	}
	return fallback
}

// Int returns the named option as an int, with ok reporting presence.
func (c *Context) Int(name string) (int, bool) {
	v, ok := c.Options[name].(int)
	return v, ok
}

// MustInt returns the named int option or the fallback.
func (c *Context) MustInt(name string, fallback int) int {
	if v, ok := c.Int(name); ok {
		return v
	}
	return fallback
}

// Strings returns the named option as a string slice, with ok reporting
// presence.
func (c *Context) Strings(name string) ([]string, bool) {
	v, ok := c.Options[name].([]string)
	return v, ok
}
