package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LvcidPsyche/swarm-janitor/internal/config"
	"github.com/LvcidPsyche/swarm-janitor/internal/janitor"
	"github.com/LvcidPsyche/swarm-janitor/internal/liveness"
	"github.com/LvcidPsyche/swarm-janitor/internal/schedule"
)

func init() {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run cleanup passes on a cron schedule",
		Long: "Stays in the foreground and runs a cleanup pass at each cron tick.\n" +
			"Without --delete every scheduled pass is a dry run.",
		Run: runSchedule,
	}

	cmd.Flags().String("cron", "", "Cron expression (overrides config, e.g. \"0 3 * * *\")")
	cmd.Flags().Bool("delete", false, "Actually delete orphaned sessions on each pass")
	cmd.Flags().BoolP("yes", "y", false, "Allow bulk deletions without confirmation")

	RootCmd.AddCommand(cmd)
}

func runSchedule(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}

	del, _ := cmd.Flags().GetBool("delete")
	yes, _ := cmd.Flags().GetBool("yes")
	cfg.Delete = del
	cfg.Force = yes || os.Getenv(config.EnvForce) != ""
	if spec, _ := cmd.Flags().GetString("cron"); spec != "" {
		cfg.Schedule = spec
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

	// No terminal to ask on: bulk deletions happen only with --yes.
	jan := janitor.New(cfg, liveness.ProcessOracle{}, archiver, janitor.DenyAll, logger)

	sched := schedule.New(jan, cfg.Schedule, logger)
	if err := sched.Start(cmd.Context()); err != nil {
		exitErr("start scheduler", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down", zap.String("reason", "signal"))
	sched.Stop()
}
