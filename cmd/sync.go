package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cms-sync/feature/ingest"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dryRunSync bool

// syncCmd runs a single sync and exits.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync against the configured CMS",
	Long: `Fetch every configured content type, download referenced media and
reconcile the node store.

Examples:
  # Full sync
  cms-sync sync

  # Report planned node changes without applying them
  cms-sync sync --dry-run`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Plan node changes without applying them")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.logger.Sync()
	defer a.close()

	a.logger.Info("Starting sync", zap.String("source", a.cfg.Source.ApiURL), zap.Bool("dry_run", dryRunSync))

	report, err := a.service.Run(ctx, ingest.RunOptions{DryRun: dryRunSync})
	if err != nil {
		return err
	}

	printRunReport(a.logger, report)
	if dryRunSync {
		a.logger.Info("Dry-run mode: No node changes were made.")
	}
	return nil
}

// printRunReport prints a formatted run report using logger.
func printRunReport(l *zap.Logger, report *ingest.RunReport) {
	for name, tr := range report.Types {
		l.Info("Content type",
			zap.String("type", name),
			zap.Int("fetched", tr.Fetched),
			zap.Int("nodes", tr.Nodes),
			zap.Int("skipped", tr.Skipped),
		)
	}

	l.Info("Sync report",
		zap.Int("existing", report.Plan.Existing),
		zap.Int("kept", report.Plan.Kept),
		zap.Int("create_actions", report.Plan.CreateActions),
		zap.Int("delete_actions", report.Plan.DeleteActions),
		zap.Int("executed", report.Executed),
		zap.Int("media_downloaded", report.Media.Downloaded),
		zap.Int("media_reused", report.Media.Reused),
		zap.Int("media_failed", report.Media.Failed),
		zap.String("duration", report.Duration),
	)
}
