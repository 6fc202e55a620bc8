// Package cli implements the shorthand command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/term"

	"github.com/robinvdvleuten/shorthand/config"
	"github.com/robinvdvleuten/shorthand/loader"
	"github.com/robinvdvleuten/shorthand/output"
	"github.com/robinvdvleuten/shorthand/telemetry"
)

const stdinName = "<stdin>"

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"})
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		successStyle.Render(successSymbol),
		message,
	)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		errorStyle.Render(errorSymbol),
		errorStyle.Render(message),
	)
}

func printInfof(w io.Writer, format string, args ...interface{}) {
	formatted := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(w, "%s %s\n",
		infoStyle.Render(infoSymbol),
		formatted,
	)
}

// promptYesNo prompts the user with a yes/no question.
// Returns false by default if stdin is not a terminal.
func promptYesNo(question string) (bool, error) {
	if !isTerminal() {
		return false, nil
	}

	var confirm bool

	form := huh.NewConfirm().
		Title(question).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm)

	err := form.Run()
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	return confirm, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// session carries what a command needs while it runs: the resolved
// settings, the logger, the file system and the telemetry collector.
type session struct {
	ctx       context.Context
	cfg       *config.Config
	log       *logrus.Logger
	fs        afero.Fs
	styles    *output.Styles
	collector telemetry.Collector
	stderr    io.Writer
}

// begin resolves the settings for a run on target and sets up logging and
// telemetry.
func (g *Globals) begin(kctx *kong.Context, target string) (*session, error) {
	fs := g.fileSystem()

	cfg, err := g.settings(fs, target)
	if err != nil {
		return nil, err
	}

	log, err := newLogger(kctx.Stderr, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		log.WithField("path", cfg.Path).Debug("using project file")
	}

	s := &session{
		ctx:    context.Background(),
		cfg:    cfg,
		log:    log,
		fs:     fs,
		styles: output.NewStyles(kctx.Stderr),
		stderr: kctx.Stderr,
	}

	if g.Telemetry {
		s.collector = telemetry.NewTimingCollector()
		s.ctx = telemetry.WithCollector(s.ctx, s.collector)
	}

	return s, nil
}

// end writes the telemetry report, if one was requested.
func (s *session) end() {
	if s.collector == nil {
		return
	}
	_, _ = fmt.Fprintln(s.stderr)
	s.collector.Report(s.stderr, s.styles)
}

// loader returns a loader configured from the project settings.
func (s *session) loader() *loader.Loader {
	return loader.New(s.cfg.LoaderOptions(s.fs)...)
}

// FileOrStdin accepts either a path or "-" for stdin.
// For stdin: Filename="<stdin>", Contents populated.
// For paths: Filename set, Contents nil. Paths are resolved by the loader on
// the command's file system, so a missing path is reported there.
type FileOrStdin struct {
	Filename string
	Contents []byte
}

// Decode implements kong.MapperValue.
func (f *FileOrStdin) Decode(ctx *kong.DecodeContext) error {
	var filename string
	if err := ctx.Scan.PopValueInto("filename", &filename); err != nil {
		return err
	}

	if filename == "-" || filename == "" {
		return f.readStdin()
	}

	f.Filename = filename
	f.Contents = nil

	return nil
}

// EnsureContents populates Contents from stdin if Filename is empty.
func (f *FileOrStdin) EnsureContents() error {
	if f.Filename == "" {
		return f.readStdin()
	}
	return nil
}

func (f *FileOrStdin) readStdin() error {
	contents, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read from stdin: %w", err)
	}
	f.Filename = stdinName
	f.Contents = contents
	return nil
}

// IsStdin reports whether the input was read from stdin.
func (f *FileOrStdin) IsStdin() bool {
	return f.Filename == stdinName
}

// Dir returns the directory project settings are searched from.
func (f *FileOrStdin) Dir() string {
	if f.IsStdin() {
		return "."
	}
	return filepath.Dir(f.GetAbsoluteFilename())
}

// GetAbsoluteFilename returns the absolute path, or "<stdin>" for stdin.
func (f *FileOrStdin) GetAbsoluteFilename() string {
	if f.IsStdin() {
		return f.Filename
	}
	absPath, err := filepath.Abs(f.Filename)
	if err != nil {
		return f.Filename
	}
	return absPath
}

// LoadProject loads the input using LoadBytes for stdin or Load for paths.
// Stdin yields a project with a single file.
func (f *FileOrStdin) LoadProject(ctx context.Context, ldr *loader.Loader) (*loader.Project, error) {
	if f.IsStdin() {
		file, err := ldr.LoadBytes(ctx, f.Filename, f.Contents)
		if err != nil {
			return nil, err
		}
		return &loader.Project{Root: f.Filename, Files: []*loader.File{file}}, nil
	}
	return ldr.Load(ctx, f.GetAbsoluteFilename())
}

// Source returns the input bytes for error context. Paths are read from
// fs.
func (f *FileOrStdin) Source(fs afero.Fs) []byte {
	if f.IsStdin() {
		return f.Contents
	}
	data, err := afero.ReadFile(fs, f.GetAbsoluteFilename())
	if err != nil {
		return nil
	}
	return data
}
