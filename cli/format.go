package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/robinvdvleuten/shorthand/formatter"
	"github.com/robinvdvleuten/shorthand/loader"
)

type FormatCmd struct {
	File          FileOrStdin `help:"FSH file or directory (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Write         bool        `help:"Write the result back to the source files instead of stdout." short:"w"`
	Yes           bool        `help:"Do not ask for confirmation before writing." short:"y"`
	Canonical     bool        `help:"Drop comments and layout and use canonical spacing throughout."`
	Indent        string      `help:"Indentation of rules that have none of their own."`
	LineBreak     string      `help:"Line break for new lines (lf or crlf). Defaults to the project file."`
	EntitySpacing int         `help:"Blank lines between entities (project file if negative)." default:"-1"`
}

// formatted is one file whose output differs from its source.
type formatted struct {
	path   string
	output string
}

func (cmd *FormatCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s, err := globals.begin(ctx, cmd.File.GetAbsoluteFilename())
	if err != nil {
		return err
	}
	defer s.end()

	if err := cmd.validate(); err != nil {
		return err
	}

	project, err := cmd.File.LoadProject(s.ctx, s.loader())
	if err != nil {
		renderer := NewErrorRenderer(cmd.File.Source(s.fs), s.styles)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "parse error")
		return NewCommandError(ExitProblems)
	}

	f := formatter.New(cmd.options(s.cfg.FormatterOptions())...)

	if !cmd.Write && len(project.Files) == 1 {
		return f.Format(s.ctx, project.Files[0].Document(), ctx.Stdout)
	}

	changed, err := cmd.changes(s.ctx, f, project)
	if err != nil {
		return err
	}

	if !cmd.Write {
		for _, c := range changed {
			_, _ = fmt.Fprintln(ctx.Stdout, c.path)
		}
		return nil
	}

	if cmd.File.IsStdin() {
		return fmt.Errorf("cannot write back to %s", stdinName)
	}

	if len(changed) == 0 {
		printSuccess(ctx.Stdout, fmt.Sprintf("%d file(s) already formatted", len(project.Files)))
		return nil
	}

	if !cmd.Yes {
		ok, err := promptYesNo(fmt.Sprintf("Write %d file(s)?", len(changed)))
		if err != nil {
			return err
		}
		if !ok {
			printInfof(ctx.Stdout, "Nothing written")
			return nil
		}
	}

	var written uint64
	for _, c := range changed {
		if err := writeFile(s.fs, c.path, c.output); err != nil {
			return err
		}
		written += uint64(len(c.output))
		s.log.WithField("path", c.path).Info("formatted")
		printInfof(ctx.Stdout, "%s", pathStyle.Render(c.path))
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Formatted %d file(s), %s written", len(changed), humanize.Bytes(written)))
	return nil
}

func (cmd *FormatCmd) validate() error {
	switch cmd.LineBreak {
	case "", "lf", "crlf":
		return nil
	}
	return fmt.Errorf("invalid line break %q, expected lf or crlf", cmd.LineBreak)
}

// options appends the flag overrides to the project options.
func (cmd *FormatCmd) options(opts []formatter.Option) []formatter.Option {
	switch cmd.LineBreak {
	case "lf":
		opts = append(opts, formatter.WithLineBreak("\n"))
	case "crlf":
		opts = append(opts, formatter.WithLineBreak("\r\n"))
	}
	if cmd.Indent != "" {
		opts = append(opts, formatter.WithIndent(cmd.Indent))
	}
	if cmd.EntitySpacing >= 0 {
		opts = append(opts, formatter.WithEntitySpacing(cmd.EntitySpacing))
	}
	if cmd.Canonical {
		opts = append(opts, formatter.WithCanonical(true))
	}
	return opts
}

func (cmd *FormatCmd) changes(ctx context.Context, f *formatter.Formatter, project *loader.Project) ([]formatted, error) {
	var changed []formatted
	for _, file := range project.Files {
		out, err := f.FormatString(ctx, file.Document())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file.Path, err)
		}
		if out != string(file.Source) {
			changed = append(changed, formatted{path: file.Path, output: out})
		}
	}
	return changed, nil
}

// writeFile replaces the contents of path, keeping its permissions.
func writeFile(fs afero.Fs, path, contents string) error {
	mode := os.FileMode(0o644)
	if info, err := fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := afero.WriteFile(fs, path, []byte(contents), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
