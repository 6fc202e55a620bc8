package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/shorthand/ast"
	"github.com/robinvdvleuten/shorthand/builder"
	"github.com/robinvdvleuten/shorthand/loader"
	"github.com/robinvdvleuten/shorthand/parser"
)

// DoctorCmd provides doctor utilities for debugging FSH files.
type DoctorCmd struct {
	Tokens TokensCmd `cmd:"" help:"Show lexical tokens from an FSH file, hidden channel included."`
	AST    ASTCmd    `cmd:"" name:"ast" help:"Dump the parse tree or syntax tree of an FSH file."`
	Claims ClaimsCmd `cmd:"" help:"Show which node owns every comment, line break and space."`
	Stats  StatsCmd  `cmd:"" help:"Summarize the entities and rules of FSH files."`
}

// TokensCmd shows lexical tokens from an FSH file.
type TokensCmd struct {
	File        FileOrStdin `help:"FSH input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Significant bool        `help:"Leave out hidden tokens."`
}

// Run executes the tokens command.
func (cmd *TokensCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	content := cmd.File.Source(globals.fileSystem())
	if content == nil && !cmd.File.IsStdin() {
		return fmt.Errorf("failed to read %s", cmd.File.Filename)
	}

	stream := parser.Tokenize(content, cmd.File.Filename)
	writeTokens(ctx.Stdout, stream, cmd.Significant)
	return nil
}

// writeTokens prints one token per line: TYPE line:col "content".
func writeTokens(w io.Writer, stream *parser.TokenStream, significant bool) {
	width := 0
	for _, tok := range stream.Tokens() {
		width = max(width, runewidth.StringWidth(tok.Type.String()))
	}

	for _, tok := range stream.Tokens() {
		if tok.Type == parser.EOF || (significant && tok.Hidden()) {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s %d:%d    %q\n",
			runewidth.FillRight(tok.Type.String(), width),
			tok.Line,
			tok.Column,
			tok.String(stream.Source()))
	}
}

// ASTCmd dumps the trees of an FSH file.
type ASTCmd struct {
	File FileOrStdin `help:"FSH input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Tree bool        `help:"Dump the parse tree instead of the syntax tree."`
}

// Run executes the ast command.
func (cmd *ASTCmd) Run(ctx *kong.Context, globals *Globals) error {
	file, err := loadSingle(ctx, globals, &cmd.File)
	if err != nil {
		return err
	}

	if cmd.Tree {
		tree, err := parser.Parse(context.Background(), file.Path, file.Source)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(ctx.Stdout, tree.Tree.Dump(tree.Stream))
		return nil
	}

	_, _ = fmt.Fprintln(ctx.Stdout, repr.String(file.Document(), repr.Indent("  ")))
	return nil
}

// ClaimsCmd lists the hidden tokens of an FSH file with their owners.
type ClaimsCmd struct {
	File FileOrStdin `help:"FSH input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

// Run executes the claims command.
func (cmd *ClaimsCmd) Run(ctx *kong.Context, globals *Globals) error {
	file, err := loadSingle(ctx, globals, &cmd.File)
	if err != nil {
		return err
	}

	writeClaims(ctx.Stdout, file.Result)

	if err := file.Result.Verify(); err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(ExitProblems)
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("%d hidden token(s), each owned once", file.Result.Claims.Len()))
	return nil
}

// writeClaims prints one line per owned hidden token: index, side, owner
// kind and text. Glue is shown with index "-".
func writeClaims(w io.Writer, result *builder.Result) {
	for _, owner := range builder.Ownership(result.Document) {
		index := "-"
		if owner.Token.TokenIndex != ast.NoIndex {
			index = fmt.Sprint(owner.Token.TokenIndex)
		}
		_, _ = fmt.Fprintf(w, "%5s  %-8s %-20s %-12s %q\n",
			index,
			owner.Side,
			owner.Node.Kind(),
			owner.Token.Kind,
			owner.Token.Text)
	}
}

// StatsCmd summarizes FSH files.
type StatsCmd struct {
	File FileOrStdin `help:"FSH file or directory (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

// Run executes the stats command.
func (cmd *StatsCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	s, err := globals.begin(ctx, cmd.File.GetAbsoluteFilename())
	if err != nil {
		return err
	}
	defer s.end()

	project, err := cmd.File.LoadProject(s.ctx, s.loader())
	if err != nil {
		renderer := NewErrorRenderer(cmd.File.Source(s.fs), s.styles)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		return NewCommandError(ExitProblems)
	}

	_, _ = fmt.Fprintln(ctx.Stdout, renderStats(project))
	return nil
}

// fileStats counts what one file declares.
type fileStats struct {
	entities int
	profiles int // profiles, extensions and logical models
	rules    int
	comments int
	size     uint64
}

func statsOf(file *loader.File) fileStats {
	idx := ast.NewIndex(file.Document())
	st := fileStats{
		entities: len(idx.Entities),
		rules:    idx.Rules,
		size:     uint64(len(file.Source)),
	}
	for _, kind := range []ast.NodeKind{ast.ProfileKind, ast.ExtensionKind, ast.LogicalKind} {
		st.profiles += len(idx.Names[kind])
	}
	for _, tok := range file.Result.Stream.Tokens() {
		switch tok.Type {
		case parser.LINECOMMENT, parser.BLOCKCOMMENT:
			st.comments++
		}
	}
	return st
}

// renderStats renders a table with one row per file and a total footer.
func renderStats(project *loader.Project) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Format.Footer = text.FormatDefault

	tbl.AppendHeader(table.Row{"File", "Entities", "Profiles", "Rules", "Comments", "Size"})

	var total fileStats
	for _, file := range project.Files {
		st := statsOf(file)
		total.entities += st.entities
		total.profiles += st.profiles
		total.rules += st.rules
		total.comments += st.comments
		total.size += st.size

		tbl.AppendRow(table.Row{displayPath(project.Root, file.Path), st.entities, st.profiles, st.rules, st.comments, humanize.Bytes(st.size)})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d file(s)", len(project.Files)), total.entities, total.profiles, total.rules, total.comments, humanize.Bytes(total.size)})

	return tbl.Render()
}

// displayPath returns path relative to root when it lies below it.
func displayPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || filepath.IsAbs(rel) {
		return filepath.Base(path)
	}
	return rel
}

// loadSingle loads a single input file with the project settings.
func loadSingle(ctx *kong.Context, globals *Globals, input *FileOrStdin) (*loader.File, error) {
	if err := input.EnsureContents(); err != nil {
		return nil, err
	}

	s, err := globals.begin(ctx, input.GetAbsoluteFilename())
	if err != nil {
		return nil, err
	}
	defer s.end()

	project, err := input.LoadProject(s.ctx, s.loader())
	if err != nil {
		renderer := NewErrorRenderer(input.Source(s.fs), s.styles)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		return nil, NewCommandError(ExitProblems)
	}
	if len(project.Files) != 1 {
		return nil, fmt.Errorf("expected a single file, found %d", len(project.Files))
	}
	return project.Files[0], nil
}
