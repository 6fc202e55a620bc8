package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/robinvdvleuten/shorthand/config"
)

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool   `help:"Show timing telemetry for operations."`
	Config    string `help:"Project file to use instead of searching for .shorthand.yaml." placeholder:"PATH"`
	LogLevel  string `help:"Log level (debug, info, warn, error). Overrides the project file."`

	// FS is the file system commands read from and write to. The
	// operating system is used when nil.
	FS afero.Fs `kong:"-"`
}

type Commands struct {
	Globals

	Check  CheckCmd  `cmd:"" help:"Check that FSH files survive a parse and format round trip unchanged."`
	Doctor DoctorCmd `cmd:"" help:"Doctor utilities for debugging FSH files."`
	Format FormatCmd `cmd:"" help:"Format FSH files, keeping comments and layout unless asked otherwise."`
	Watch  WatchCmd  `cmd:"" help:"Check FSH files again whenever they change."`
}

func (g *Globals) fileSystem() afero.Fs {
	if g.FS == nil {
		g.FS = afero.NewOsFs()
	}
	return g.FS
}

// settings returns the project settings for a run on target: the file
// named by --config, or the nearest project file, or the defaults. The
// environment and --log-level are applied on top.
func (g *Globals) settings(fs afero.Fs, target string) (*config.Config, error) {
	cfg := config.Default()

	path := g.Config
	if path == "" {
		dir := target
		if ok, _ := afero.IsDir(fs, target); !ok {
			dir = filepath.Dir(target)
		}
		path, _ = config.Find(fs, dir)
	}

	if path != "" {
		loaded, err := config.Load(fs, path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}

	return cfg, nil
}
