package cli

import (
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"

	"github.com/robinvdvleuten/shorthand"
	"github.com/robinvdvleuten/shorthand/errors"
	"github.com/robinvdvleuten/shorthand/loader"
	"github.com/robinvdvleuten/shorthand/telemetry"
)

type CheckCmd struct {
	File   FileOrStdin `help:"FSH file or directory (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Output string      `help:"Output format of problems (text or json)." enum:"text,json" default:"text"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s, err := globals.begin(ctx, cmd.File.GetAbsoluteFilename())
	if err != nil {
		return err
	}
	defer s.end()

	timer := telemetry.FromContext(s.ctx).Start(fmt.Sprintf("check %s", filepath.Base(cmd.File.Filename)))
	defer timer.End()

	project, err := cmd.File.LoadProject(s.ctx, s.loader())
	if err != nil {
		timer.End()
		cmd.report(ctx, s, []problem{{source: cmd.File.Source(s.fs), err: err}})
		printError(ctx.Stderr, "parse error")
		return NewCommandError(ExitProblems)
	}

	problems := checkProject(s, project)
	timer.End()

	if len(problems) > 0 {
		cmd.report(ctx, s, problems)
		err := problemsFound(len(problems))
		printError(ctx.Stderr, err.Error())
		return err
	}

	var size uint64
	for _, f := range project.Files {
		size += uint64(len(f.Source))
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Check passed (%d file(s), %s)", len(project.Files), humanize.Bytes(size)))

	return nil
}

// problem is an error together with the source it points into.
type problem struct {
	source []byte
	err    error
}

// checkProject round-trips every file of project and looks for names that
// are declared twice.
func checkProject(s *session, project *loader.Project) []problem {
	var problems []problem
	sources := make(map[string][]byte, len(project.Files))

	for _, file := range project.Files {
		sources[file.Path] = file.Source
		if err := shorthand.CheckResult(s.ctx, file.Path, file.Result); err != nil {
			s.log.WithField("path", file.Path).WithError(err).Debug("round trip failed")
			problems = append(problems, problem{source: file.Source, err: err})
			continue
		}
		s.log.WithField("path", file.Path).Debug("round trip ok")
	}

	for _, err := range project.Duplicates() {
		var source []byte
		if dup, ok := err.(*loader.DuplicateNameError); ok {
			source = sources[dup.Pos.Filename]
		}
		problems = append(problems, problem{source: source, err: err})
	}

	return problems
}

func (cmd *CheckCmd) report(ctx *kong.Context, s *session, problems []problem) {
	if cmd.Output == "json" {
		errs := make([]error, len(problems))
		for i, p := range problems {
			errs[i] = p.err
		}
		_, _ = fmt.Fprintln(ctx.Stdout, errors.NewJSONFormatter().FormatAll(errs))
		return
	}

	for _, p := range problems {
		renderer := NewErrorRenderer(p.source, s.styles)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(p.err))
		_, _ = fmt.Fprintln(ctx.Stderr)
	}
}
