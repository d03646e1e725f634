package cliq

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// LoaderFunc parses raw config-file bytes into a key/value mapping. Loaders
// are registered per filename extension; JSON/JSONC, YAML and TOML ship
// built in, everything else is delegated to a caller-registered loader.
type LoaderFunc func(data []byte) (map[string]any, error)

func decodeJSON(data []byte) (map[string]any, error) {
	// hujson tolerates comments and trailing commas, so plain .json and
	// .jsonc files go through the same path.
	standard, err := hujson.Standardize(data)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(standard, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeYAML(data []byte) (map[string]any, error) {
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeTOML(data []byte) (map[string]any, error) {
	var out map[string]any
	if err := toml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func builtinLoaders() map[string]LoaderFunc {
	return map[string]LoaderFunc{
		".json":  decodeJSON,
		".jsonc": decodeJSON,
		".yaml":  decodeYAML,
		".yml":   decodeYAML,
		".toml":  decodeTOML,
	}
}

// loadConfigFile reads and parses one file. Failures are reported to the
// caller, which logs them and continues without config data; a broken config
// file must not abort the whole command.
func (c *CLI) loadConfigFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DispatchError{
			Type:    ErrorTypeConfigUnreadable,
			Message: "config file not readable: " + path,
			Path:    path,
			Cause:   err,
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	loader, ok := c.loaders[ext]
	if !ok {
		loader = c.dynamicLoader
	}
	if loader == nil {
		return nil, &DispatchError{
			Type:    ErrorTypeConfigUnreadable,
			Message: "no loader registered for config file: " + path,
			Path:    path,
		}
	}

	out, err := loader(data)
	if err != nil {
		return nil, &DispatchError{
			Type:    ErrorTypeConfigUnreadable,
			Message: "config file not parsable: " + path,
			Path:    path,
			Cause:   err,
		}
	}
	return out, nil
}

// resolveConfig produces the config data for a command. An explicit path
// (--config) wins over discovery; discovery walks the command's effective
// config-file list against the CLI's working directory and takes the first
// file that exists and parses. Errors are logged, never fatal here.
func (c *CLI) resolveConfig(cmd *Command, explicit string) (map[string]any, string) {
	if explicit != "" {
		data, err := c.loadConfigFile(c.absPath(explicit))
		if err != nil {
			c.logger.Warnf("%v", err)
			return nil, ""
		}
		return data, explicit
	}

	if c.configData != nil {
		return c.configData, ""
	}

	for _, name := range cmd.effectiveConfigFiles() {
		path := c.absPath(name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		data, err := c.loadConfigFile(path)
		if err != nil {
			c.logger.Warnf("%v", err)
			continue
		}
		return data, path
	}
	return nil, ""
}

func (c *CLI) absPath(name string) string {
	if filepath.IsAbs(name) || c.cwd == "" {
		return name
	}
	return filepath.Join(c.cwd, name)
}
