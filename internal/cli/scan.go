package cli

import (
	"github.com/spf13/cobra"

	"github.com/LvcidPsyche/swarm-janitor/internal/janitor"
	"github.com/LvcidPsyche/swarm-janitor/internal/liveness"
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Preview what a cleanup run would do",
		Long:  "Scans and classifies sessions without touching anything, then prints the would-be partition.",
		Run:   runScan,
	}

	RootCmd.AddCommand(cmd)
}

func runScan(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	cfg.Delete = false

	logger := newLogger()
	defer logger.Sync()

	jan := janitor.New(cfg, liveness.ProcessOracle{}, nil, nil, logger)
	report, err := jan.Run(cmd.Context())
	if err != nil {
		exitErr("scan", err)
	}

	emitReport(cmd.OutOrStdout(), report)
}
