// Package loader reads FSH files from disk and turns each one into a built
// document. It accepts a single file or a project directory, in which case
// every file with an FSH extension is loaded in path order. A directory
// that holds an input/fsh directory is treated as a FSH project root and
// its sources are loaded from input/fsh and all directories below it.
//
// Files are processed one after another. Each file gets its own token
// stream, claim set and document; nothing is shared between builds.
// Cancellation of the context is checked between files, never inside one.
//
// Example usage:
//
//	ldr := loader.New(loader.WithRecursive())
//	project, err := ldr.Load(ctx, "input/fsh")
//	for _, file := range project.Files {
//	    fmt.Println(file.Path, len(file.Document().Entities))
//	}
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/exp/slices"

	"github.com/robinvdvleuten/shorthand/ast"
	"github.com/robinvdvleuten/shorthand/builder"
	"github.com/robinvdvleuten/shorthand/parser"
	"github.com/robinvdvleuten/shorthand/telemetry"
)

// DefaultExtensions are the file extensions loaded from directories.
var DefaultExtensions = []string{".fsh"}

// SourcePath is where a FSH project keeps its sources, relative to the
// project root.
var SourcePath = filepath.Join("input", "fsh")

// Loader loads FSH files and project directories.
//
// Configure the loader using functional options passed to New:
//
//	ldr := loader.New(loader.WithRecursive(), loader.WithVerify())
type Loader struct {
	// FS is the filesystem files are read from.
	FS afero.Fs

	// Recursive descends into subdirectories when loading a directory.
	Recursive bool

	// Extensions lists the file extensions loaded from directories. Files
	// named explicitly are always loaded.
	Extensions []string

	// Verify checks the hidden-token partition of every built file and
	// fails the load when it does not hold.
	Verify bool
}

// Option configures how files are loaded.
type Option func(*Loader)

// WithFS sets the filesystem to read from.
func WithFS(fs afero.Fs) Option {
	return func(l *Loader) {
		l.FS = fs
	}
}

// WithRecursive loads subdirectories of project directories too.
func WithRecursive() Option {
	return func(l *Loader) {
		l.Recursive = true
	}
}

// WithExtensions sets the extensions loaded from directories.
func WithExtensions(exts ...string) Option {
	return func(l *Loader) {
		l.Extensions = exts
	}
}

// WithVerify enables partition verification after each build.
func WithVerify() Option {
	return func(l *Loader) {
		l.Verify = true
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{
		FS:         afero.NewOsFs(),
		Extensions: DefaultExtensions,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// File is one loaded source file.
type File struct {
	Path   string
	Source []byte
	Result *builder.Result
}

// Document returns the built document of the file.
func (f *File) Document() *ast.Document {
	return f.Result.Document
}

// Project is the result of a load: one or more files under a root.
type Project struct {
	// Root is the absolute path that was loaded.
	Root  string
	Files []*File
}

// Documents returns the documents of all files in load order.
func (p *Project) Documents() []*ast.Document {
	docs := make([]*ast.Document, len(p.Files))
	for i, f := range p.Files {
		docs[i] = f.Document()
	}
	return docs
}

// Load loads path, which may be a file, a directory or a FSH project root.
func (l *Loader) Load(ctx context.Context, path string) (*Project, error) {
	timer := telemetry.FromContext(ctx).Start("loader.load")
	defer timer.End()

	path, recursive := l.SourceDir(path)
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", path, err)
	}

	paths, err := l.collect(path, recursive)
	if err != nil {
		return nil, err
	}

	project := &Project{Root: root}
	for _, p := range paths {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		file, err := l.LoadFile(ctx, p)
		if err != nil {
			return nil, err
		}
		project.Files = append(project.Files, file)
	}

	return project, nil
}

// SourceDir returns the directory sources are loaded from for path and
// whether it is walked recursively. For a project root that is its
// input/fsh directory, always walked recursively; any other path is
// returned unchanged.
func (l *Loader) SourceDir(path string) (string, bool) {
	dir := filepath.Join(path, SourcePath)
	if ok, err := afero.IsDir(l.FS, dir); err == nil && ok {
		return dir, true
	}
	return path, l.Recursive
}

// LoadFile reads and builds a single file.
func (l *Loader) LoadFile(ctx context.Context, filename string) (*File, error) {
	data, err := afero.ReadFile(l.FS, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return l.LoadBytes(ctx, filename, data)
}

// LoadBytes builds a file from source already in memory. The filename is
// used for positions only.
func (l *Loader) LoadBytes(ctx context.Context, filename string, data []byte) (*File, error) {
	file, err := parser.Parse(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	result, err := builder.BuildResult(ctx, file)
	if err != nil {
		return nil, err
	}

	if l.Verify {
		if err := result.Verify(); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	}

	return &File{Path: filename, Source: data, Result: result}, nil
}

// MustLoad is like Load but panics on error. Intended for tests.
func (l *Loader) MustLoad(ctx context.Context, path string) *Project {
	project, err := l.Load(ctx, path)
	if err != nil {
		panic(err)
	}
	return project
}

// MustLoadBytes is like LoadBytes but panics on error. Intended for tests.
func (l *Loader) MustLoadBytes(ctx context.Context, filename string, data []byte) *File {
	file, err := l.LoadBytes(ctx, filename, data)
	if err != nil {
		panic(err)
	}
	return file
}

// collect lists the files to load for path in lexical order.
func (l *Loader) collect(path string, recursive bool) ([]string, error) {
	info, err := l.FS.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var paths []string
	err = afero.Walk(l.FS, path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if p != path && (!recursive || strings.HasPrefix(info.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if l.Matches(p) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", path, err)
	}

	slices.Sort(paths)
	return paths, nil
}

// Matches reports whether a file at path would be loaded from a directory.
func (l *Loader) Matches(path string) bool {
	return slices.Contains(l.Extensions, strings.ToLower(filepath.Ext(path)))
}
