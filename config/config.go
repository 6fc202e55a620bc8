// Package config reads project settings for the shorthand command from a
// .shorthand.yaml file and SHORTHAND_* environment variables.
//
// A project file looks like this:
//
//	format:
//	  lineBreak: lf        # lf or crlf
//	  entitySpacing: 1     # blank lines between entities without captured spacing
//	  indent: ""           # indentation of rules added in code
//	  canonical: false     # ignore captured whitespace and comments
//	  escapeStyle: original
//	load:
//	  recursive: true
//	  extensions: [".fsh"]
//	  verify: true
//	log:
//	  level: info
//
// Settings are applied in order: defaults, project file, environment,
// command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mstoykov/envconfig"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/robinvdvleuten/shorthand/formatter"
	"github.com/robinvdvleuten/shorthand/loader"
)

// Filename is the name of the project file looked up by Find.
const Filename = ".shorthand.yaml"

// EnvPrefix prefixes the environment variables read by ApplyEnv.
const EnvPrefix = "shorthand"

// Config holds the settings of one project.
type Config struct {
	Format FormatConfig `yaml:"format"`
	Load   LoadConfig   `yaml:"load"`
	Log    LogConfig    `yaml:"log"`

	// Path is the file the configuration was read from, if any.
	Path string `yaml:"-"`
}

// FormatConfig configures the formatter.
type FormatConfig struct {
	LineBreak     string `yaml:"lineBreak"`
	EntitySpacing int    `yaml:"entitySpacing"`
	Indent        string `yaml:"indent"`
	Canonical     bool   `yaml:"canonical"`
	EscapeStyle   string `yaml:"escapeStyle"`
}

// LoadConfig configures the loader.
type LoadConfig struct {
	Recursive  bool     `yaml:"recursive"`
	Extensions []string `yaml:"extensions"`
	Verify     bool     `yaml:"verify"`
}

// LogConfig configures diagnostics of the command.
type LogConfig struct {
	Level string `yaml:"level"`
}

// envConfig lists the settings that can be overridden from the
// environment. Unset variables leave the pointers nil.
type envConfig struct {
	LineBreak     *string `envconfig:"LINE_BREAK"`
	EntitySpacing *int    `envconfig:"ENTITY_SPACING"`
	Indent        *string `envconfig:"INDENT"`
	Canonical     *bool   `envconfig:"CANONICAL"`
	EscapeStyle   *string `envconfig:"ESCAPE_STYLE"`
	Recursive     *bool   `envconfig:"RECURSIVE"`
	LogLevel      *string `envconfig:"LOG_LEVEL"`
}

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Format: FormatConfig{
			LineBreak:     "lf",
			EntitySpacing: formatter.DefaultEntitySpacing,
			EscapeStyle:   "original",
		},
		Load: LoadConfig{
			Recursive:  true,
			Extensions: loader.DefaultExtensions,
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Find looks for a project file in dir and its parents and returns its
// path.
func Find(fs afero.Fs, dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		path := filepath.Join(dir, Filename)
		if ok, _ := afero.Exists(fs, path); ok {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Load reads the project file at path on top of the defaults. Unknown keys
// are rejected.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from SHORTHAND_* environment variables.
func (c *Config) ApplyEnv() error {
	var env envConfig
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return err
	}

	if env.LineBreak != nil {
		c.Format.LineBreak = *env.LineBreak
	}
	if env.EntitySpacing != nil {
		c.Format.EntitySpacing = *env.EntitySpacing
	}
	if env.Indent != nil {
		c.Format.Indent = *env.Indent
	}
	if env.Canonical != nil {
		c.Format.Canonical = *env.Canonical
	}
	if env.EscapeStyle != nil {
		c.Format.EscapeStyle = *env.EscapeStyle
	}
	if env.Recursive != nil {
		c.Load.Recursive = *env.Recursive
	}
	if env.LogLevel != nil {
		c.Log.Level = *env.LogLevel
	}

	return c.Validate()
}

// Validate checks every enumerated setting.
func (c *Config) Validate() error {
	if _, err := lineBreak(c.Format.LineBreak); err != nil {
		return err
	}
	if _, err := escapeStyle(c.Format.EscapeStyle); err != nil {
		return err
	}
	if c.Format.EntitySpacing < 0 {
		return fmt.Errorf("%w: entitySpacing must not be negative, got %d", ErrInvalid, c.Format.EntitySpacing)
	}
	if strings.Trim(c.Format.Indent, " \t") != "" {
		return fmt.Errorf("%w: indent may only contain spaces and tabs, got %q", ErrInvalid, c.Format.Indent)
	}
	for _, ext := range c.Load.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: extension %q must start with a dot", ErrInvalid, ext)
		}
	}
	return nil
}

// FormatterOptions returns the formatter options for the settings.
func (c *Config) FormatterOptions() []formatter.Option {
	lb, _ := lineBreak(c.Format.LineBreak)
	style, _ := escapeStyle(c.Format.EscapeStyle)

	return []formatter.Option{
		formatter.WithLineBreak(lb),
		formatter.WithEntitySpacing(c.Format.EntitySpacing),
		formatter.WithIndent(c.Format.Indent),
		formatter.WithCanonical(c.Format.Canonical),
		formatter.WithStringEscapeStyle(style),
	}
}

// LoaderOptions returns the loader options for the settings.
func (c *Config) LoaderOptions(fs afero.Fs) []loader.Option {
	opts := []loader.Option{
		loader.WithFS(fs),
		loader.WithExtensions(c.Load.Extensions...),
	}
	if c.Load.Recursive {
		opts = append(opts, loader.WithRecursive())
	}
	if c.Load.Verify {
		opts = append(opts, loader.WithVerify())
	}
	return opts
}

func lineBreak(name string) (string, error) {
	switch strings.ToLower(name) {
	case "", "lf":
		return "\n", nil
	case "crlf":
		return "\r\n", nil
	}
	return "", fmt.Errorf("%w: lineBreak must be lf or crlf, got %q", ErrInvalid, name)
}

func escapeStyle(name string) (formatter.StringEscapeStyle, error) {
	switch strings.ToLower(name) {
	case "", "original":
		return formatter.EscapeStyleOriginal, nil
	case "c", "cstyle":
		return formatter.EscapeStyleCStyle, nil
	case "none":
		return formatter.EscapeStyleNone, nil
	}
	return 0, fmt.Errorf("%w: escapeStyle must be original, c or none, got %q", ErrInvalid, name)
}
