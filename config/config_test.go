package config

import (
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/spf13/afero"

	"github.com/robinvdvleuten/shorthand/ast"
	"github.com/robinvdvleuten/shorthand/formatter"
	"github.com/robinvdvleuten/shorthand/loader"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "lf", cfg.Format.LineBreak)
	assert.Equal(t, 1, cfg.Format.EntitySpacing)
	assert.True(t, cfg.Load.Recursive)
	assert.Equal(t, []string{".fsh"}, cfg.Load.Extensions)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
format:
  lineBreak: crlf
  entitySpacing: 2
  indent: "  "
load:
  recursive: false
  extensions: [".fsh", ".shorthand"]
log:
  level: debug
`))
	assert.NoError(t, err)
	assert.Equal(t, "crlf", cfg.Format.LineBreak)
	assert.Equal(t, 2, cfg.Format.EntitySpacing)
	assert.Equal(t, "  ", cfg.Format.Indent)
	assert.Equal(t, "original", cfg.Format.EscapeStyle)
	assert.False(t, cfg.Load.Recursive)
	assert.Equal(t, []string{".fsh", ".shorthand"}, cfg.Load.Extensions)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	assert.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		invalid bool
	}{
		{"UnknownKey", "format:\n  tabs: true\n", false},
		{"BadLineBreak", "format:\n  lineBreak: cr\n", true},
		{"BadEscapeStyle", "format:\n  escapeStyle: json\n", true},
		{"NegativeSpacing", "format:\n  entitySpacing: -1\n", true},
		{"BadIndent", "format:\n  indent: \"--\"\n", true},
		{"BadExtension", "load:\n  extensions: [fsh]\n", true},
		{"NotYAML", "format: [\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
			assert.Equal(t, tt.invalid, errors.Is(err, ErrInvalid))
		})
	}
}

func TestFindAndLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	assert.NoError(t, afero.WriteFile(fs, "/project/"+Filename, []byte("format:\n  canonical: true\n"), 0o644))
	assert.NoError(t, fs.MkdirAll("/project/input/fsh", 0o755))

	path, ok := Find(fs, "/project/input/fsh")
	assert.True(t, ok)
	assert.Equal(t, "/project/"+Filename, path)

	cfg, err := Load(fs, path)
	assert.NoError(t, err)
	assert.True(t, cfg.Format.Canonical)
	assert.Equal(t, path, cfg.Path)

	_, ok = Find(fs, "/elsewhere")
	assert.False(t, ok)

	_, err = Load(fs, "/missing.yaml")
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SHORTHAND_LINE_BREAK", "crlf")
	t.Setenv("SHORTHAND_ENTITY_SPACING", "0")
	t.Setenv("SHORTHAND_CANONICAL", "true")
	t.Setenv("SHORTHAND_LOG_LEVEL", "info")

	cfg := Default()
	cfg.Format.Indent = "  "
	assert.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "crlf", cfg.Format.LineBreak)
	assert.Equal(t, 0, cfg.Format.EntitySpacing)
	assert.True(t, cfg.Format.Canonical)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "  ", cfg.Format.Indent) // unset variables keep file values
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv("SHORTHAND_ESCAPE_STYLE", "yaml")
	assert.True(t, errors.Is(Default().ApplyEnv(), ErrInvalid))
}

func TestFormatterOptions(t *testing.T) {
	cfg := Default()
	cfg.Format.LineBreak = "crlf"
	cfg.Format.EntitySpacing = 0

	doc := ast.NewDocument(ast.NewAlias("A", "http://a"), ast.NewProfile("P"))
	out, err := formatter.Format(context.Background(), doc, cfg.FormatterOptions()...)
	assert.NoError(t, err)
	assert.Equal(t, "Alias: A = http://a\r\nProfile: P\r\n", out)
}

func TestLoaderOptions(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := Default()
	cfg.Load.Verify = true

	ldr := loader.New(cfg.LoaderOptions(fs)...)
	assert.True(t, ldr.FS == fs)
	assert.True(t, ldr.Recursive)
	assert.True(t, ldr.Verify)
	assert.Equal(t, []string{".fsh"}, ldr.Extensions)
}
