package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LvcidPsyche/swarm-janitor/internal/config"
	"github.com/LvcidPsyche/swarm-janitor/internal/janitor"
	"github.com/LvcidPsyche/swarm-janitor/internal/liveness"
)

func init() {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Run a cleanup pass",
		Long: "Scans, classifies, archives and deletes orphaned sessions.\n" +
			"Without --delete this is a dry run and nothing on disk changes.",
		Run: runClean,
	}

	cmd.Flags().Bool("delete", false, "Actually delete orphaned sessions (default is dry-run)")
	cmd.Flags().Bool("no-archive", false, "Skip archiving before deletion (not recommended)")
	cmd.Flags().BoolP("yes", "y", false, "Skip the bulk-delete confirmation prompt")
	cmd.Flags().Int("retention-days", -1, "Override min_age_days from config")
	cmd.Flags().Int("keep", -1, "Override min_keep from config")
	cmd.Flags().Int64("max-size-mb", -1, "Override max_size_mb from config")
	cmd.Flags().Int("bulk-threshold", -1, "Override bulk_threshold from config")

	RootCmd.AddCommand(cmd)
}

func runClean(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}

	del, _ := cmd.Flags().GetBool("delete")
	noArchive, _ := cmd.Flags().GetBool("no-archive")
	yes, _ := cmd.Flags().GetBool("yes")

	cfg.Delete = del
	cfg.Force = yes || os.Getenv(config.EnvForce) != ""
	if noArchive {
		cfg.Archive.Enabled = false
	}
	if v, _ := cmd.Flags().GetInt("retention-days"); v >= 0 {
		cfg.Retention.MinAgeDays = v
	}
	if v, _ := cmd.Flags().GetInt("keep"); v >= 0 {
		cfg.Retention.MinKeep = v
	}
	if v, _ := cmd.Flags().GetInt64("max-size-mb"); v >= 0 {
		cfg.Retention.MaxSizeMB = v
	}
	if v, _ := cmd.Flags().GetInt("bulk-threshold"); v >= 0 {
		cfg.BulkThreshold = v
	}

	logger := newLogger()
	defer logger.Sync()

	archiver, err := openArchiver(cfg)
	if err != nil {
		exitErr("open archive", err)
	}
	if archiver != nil {
		defer archiver.Close()
	}

	jan := janitor.New(cfg, liveness.ProcessOracle{}, archiver, promptConfirm, logger)
	report, err := jan.Run(cmd.Context())
	if err != nil {
		emitReport(cmd.OutOrStdout(), report)
		exitErr("clean", err)
	}

	emitReport(cmd.OutOrStdout(), report)

	if report.Failed() {
		os.Exit(1)
	}
}

// promptConfirm asks on the terminal before a bulk deletion. A non-interactive
// stdin (EOF) counts as a refusal.
func promptConfirm(count int) bool {
	fmt.Fprintf(os.Stderr, "Delete %d orphaned sessions? [y/N]: ", count)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}
