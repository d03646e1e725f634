package cliq

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func configTestCLI(dir string) (*CLI, *bytes.Buffer) {
	root := New("app", "").
		ConfigFiles("app.jsonc", "app.yaml", "app.toml").
		Option("city", OptionMeta{}).
		Option("units", OptionMeta{ConfigKey: "display.units"}).
		Action(func(ctx *Context) (any, error) {
			return ctx.MustString("city", "") + "/" + ctx.MustString("units", ""), nil
		})

	var log bytes.Buffer
	cli := NewCLI(root.MustBuild()).
		Cwd(dir).
		Output(&bytes.Buffer{}).
		Logger(NewLogger(&log))
	return cli, &log
}

func TestConfigDiscoveryJSONC(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.jsonc", `{
		// comments and trailing commas are fine
		"city": "Lima",
		"display": {"units": "imperial",},
	}`)
	cli, _ := configTestCLI(dir)

	res, err := cli.Cli("")
	if err != nil {
		t.Fatal(err)
	}
	if res.Result != "Lima/imperial" {
		t.Errorf("result = %v", res.Result)
	}
}

func TestConfigDiscoveryYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.yaml", "city: Oslo\ndisplay:\n  units: metric\n")
	cli, _ := configTestCLI(dir)

	res, err := cli.Cli("")
	if err != nil {
		t.Fatal(err)
	}
	if res.Result != "Oslo/metric" {
		t.Errorf("result = %v", res.Result)
	}
}

func TestConfigDiscoveryTOML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.toml", "city = \"Quito\"\n[display]\nunits = \"metric\"\n")
	cli, _ := configTestCLI(dir)

	res, err := cli.Cli("")
	if err != nil {
		t.Fatal(err)
	}
	if res.Result != "Quito/metric" {
		t.Errorf("result = %v", res.Result)
	}
}

func TestConfigDiscoveryFirstFileWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.jsonc", `{"city": "First"}`)
	writeFile(t, dir, "app.yaml", "city: Second\n")
	cli, _ := configTestCLI(dir)

	res, err := cli.Cli("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.Result.(string), "First/") {
		t.Errorf("result = %v, want the first discovered file", res.Result)
	}
}

func TestConfigMissingFilesAreSilentlySkipped(t *testing.T) {
	cli, log := configTestCLI(t.TempDir())

	res, err := cli.Cli("")
	if err != nil {
		t.Fatal(err)
	}
	if res.Result != "/" {
		t.Errorf("result = %v", res.Result)
	}
	if strings.Contains(log.String(), "WARN") {
		t.Errorf("missing config files should not warn: %q", log.String())
	}
}

func TestConfigBrokenFileLogsAndContinues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.jsonc", `{broken`)
	writeFile(t, dir, "app.yaml", "city: Fallback\n")
	cli, log := configTestCLI(dir)

	res, err := cli.Cli("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.Result.(string), "Fallback/") {
		t.Errorf("result = %v, want the next file in the list", res.Result)
	}
	if !strings.Contains(log.String(), "not parsable") {
		t.Errorf("broken file should be logged: %q", log.String())
	}
}

func TestConfigExplicitPathOverridesDiscovery(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.jsonc", `{"city": "Discovered"}`)
	explicit := writeFile(t, dir, "special.yaml", "city: Explicit\n")
	cli, _ := configTestCLI(dir)

	res, err := cli.Cli("--config=" + explicit)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.Result.(string), "Explicit/") {
		t.Errorf("result = %v", res.Result)
	}
}

func TestConfigExplicitPathUnreadableLogsAndContinues(t *testing.T) {
	cli, log := configTestCLI(t.TempDir())

	res, err := cli.Cli("--config=/nonexistent/conf.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if res.Result != "/" {
		t.Errorf("result = %v", res.Result)
	}
	if !strings.Contains(log.String(), "not readable") {
		t.Errorf("unreadable explicit config should be logged: %q", log.String())
	}
}

func TestConfigDynamicLoader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.custom", "city=Dyn")
	root := New("app", "").
		ConfigFiles("app.custom").
		Option("city", OptionMeta{}).
		Action(func(ctx *Context) (any, error) {
			return ctx.MustString("city", ""), nil
		})
	cli := NewCLI(root.MustBuild()).
		Cwd(dir).
		Output(&bytes.Buffer{}).
		DynamicConfigLoader(func(data []byte) (map[string]any, error) {
			k, v, _ := strings.Cut(strings.TrimSpace(string(data)), "=")
			return map[string]any{k: v}, nil
		})

	res, err := cli.Cli("")
	if err != nil {
		t.Fatal(err)
	}
	if res.Result != "Dyn" {
		t.Errorf("result = %v", res.Result)
	}
}

func TestConfigRegisteredLoaderByExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.ini", "ignored")
	root := New("app", "").
		ConfigFiles("app.ini").
		Option("city", OptionMeta{}).
		Action(func(ctx *Context) (any, error) {
			return ctx.MustString("city", ""), nil
		})
	cli := NewCLI(root.MustBuild()).
		Cwd(dir).
		Output(&bytes.Buffer{}).
		ConfigLoader(".ini", func([]byte) (map[string]any, error) {
			return map[string]any{"city": "FromIni"}, nil
		})

	res, err := cli.Cli("")
	if err != nil {
		t.Fatal(err)
	}
	if res.Result != "FromIni" {
		t.Errorf("result = %v", res.Result)
	}
}
