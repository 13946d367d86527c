package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
)

// siteMarkers maps marker files to the generator that uses them and its
// output directory.
var siteMarkers = []struct {
	Marker  string
	Name    string
	SiteDir string
}{
	{"_config.yml", "Jekyll", "_site"},
	{"_config.yaml", "Jekyll", "_site"},
	{"hugo.toml", "Hugo", "public"},
	{"config.toml", "Hugo", "public"},
}

// detectSite checks dir for well-known static site generator markers.
func detectSite(dir string) (name, siteDir string) {
	for _, m := range siteMarkers {
		if _, err := os.Stat(filepath.Join(dir, m.Marker)); err == nil {
			return m.Name, m.SiteDir
		}
	}
	return "", "_site"
}

// permalinkStyles are the permalink presets offered by the wizard.
var permalinkStyles = []struct {
	Label   string
	Pattern string
}{
	{"pretty  /:categories/:year/:month/:day/:title/", "/:categories/:year/:month/:day/:title/"},
	{"date    /:categories/:year/:month/:day/:title.html", "/:categories/:year/:month/:day/:title.html"},
	{"none    /:categories/:title.html", "/:categories/:title.html"},
}

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string, out io.Writer) (*Config, error) {
	fmt.Fprintln(out, "Welcome to blognav! Let's configure your blog.")
	fmt.Fprintln(out)

	cfg := DefaultConfig()
	gen, siteDir := detectSite(".")
	if gen != "" {
		fmt.Fprintf(out, "Detected site generator: %s\n\n", gen)
	}

	// 1. Directories.
	postsDir, err := (&promptui.Prompt{Label: "Posts directory", Default: cfg.PostsDir}).Run()
	if err != nil {
		return nil, fmt.Errorf("posts dir: %w", err)
	}
	siteOut, err := (&promptui.Prompt{Label: "Built site directory", Default: siteDir}).Run()
	if err != nil {
		return nil, fmt.Errorf("site dir: %w", err)
	}

	// 2. Permalink style.
	labels := make([]string, len(permalinkStyles))
	for i, s := range permalinkStyles {
		labels[i] = s.Label
	}
	styleIdx, _, err := (&promptui.Select{Label: "Permalink style", Items: labels}).Run()
	if err != nil {
		return nil, fmt.Errorf("permalink selection: %w", err)
	}

	// 3. Extra exclude patterns.
	excludeStr, err := (&promptui.Prompt{
		Label:   "Extra exclude patterns (comma-separated, leave blank for defaults)",
		Default: "",
	}).Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}

	// 4. Log format.
	_, format, err := (&promptui.Select{Label: "Log format", Items: []string{string(LogText), string(LogJSON)}}).Run()
	if err != nil {
		return nil, fmt.Errorf("log format: %w", err)
	}

	cfg.PostsDir = postsDir
	cfg.SiteDir = siteOut
	cfg.Permalink = permalinkStyles[styleIdx].Pattern
	cfg.Exclude = append(cfg.Exclude, splitAndTrim(excludeStr)...)
	cfg.LogFormat = LogFormat(format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// WriteDefaults saves the default configuration, adjusted for the site
// generator detected in the working directory, without prompting.
func WriteDefaults(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, siteDir := detectSite("."); siteDir != "" {
		cfg.SiteDir = siteDir
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}
	return cfg, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
