// Package cli implements the swarm-janitor CLI commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LvcidPsyche/swarm-janitor/internal/archive"
	"github.com/LvcidPsyche/swarm-janitor/internal/config"
	"github.com/LvcidPsyche/swarm-janitor/internal/janitor"
)

var (
	configPath  string
	sessionsDir string
	formatFlag  string
	verbose     bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "swarm-janitor",
	Short: "Clean up orphaned agent-swarm sessions",
	Long: "Scans a swarm sessions directory, classifies transcripts as active or orphaned,\n" +
		"archives orphans and deletes them under retention rules. Dry-run by default.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $SWARM_JANITOR_CONFIG or ~/.swarm-janitor/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&sessionsDir, "sessions-dir", "s", "", "Sessions directory (overrides config)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text or json")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func loadConfig() (*config.Config, error) {
	path := configPath
	explicit := path != ""
	if !explicit {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, err
	}
	if sessionsDir != "" {
		cfg.SessionsDir = sessionsDir
	}
	return cfg, nil
}

func newLogger() *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg = zap.NewDevelopmentConfig()
	}
	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// openArchiver builds the configured archive backend, or nil when archiving
// is disabled.
func openArchiver(cfg *config.Config) (archive.Archiver, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}
	switch cfg.Archive.Backend {
	case "dir":
		return archive.NewDirArchive(cfg.Archive.Path)
	default:
		return archive.NewSQLiteArchive(cfg.Archive.Path)
	}
}

// openSQLiteArchive is for the commands that read the archive back
// (stats, search, prune); they need the SQLite backend.
func openSQLiteArchive(cfg *config.Config) (*archive.SQLiteArchive, error) {
	if cfg.Archive.Backend != "sqlite" {
		return nil, fmt.Errorf("archive backend is %q; this command needs the sqlite backend", cfg.Archive.Backend)
	}
	return archive.NewSQLiteArchive(cfg.Archive.Path)
}

func emitReport(w io.Writer, report *janitor.Report) {
	var err error
	if formatFlag == "json" {
		err = report.WriteJSON(w)
	} else {
		err = report.WriteText(w)
	}
	if err != nil {
		exitErr("write report", err)
	}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
