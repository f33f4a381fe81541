package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"restyle/internal/audit"
	"restyle/internal/config"
	"restyle/internal/engine"
	"restyle/internal/local"
	"restyle/internal/report"
	"restyle/internal/rules"
	"restyle/internal/walker"
)

var (
	sourceDir   string
	reportPath  string
	dryRun      bool
	autoApprove bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze all documents, confirm, then apply and commit",
	Long: `Loads the rule catalog, walks every document in every non-excluded
namespace, and stages the resulting mutations. Nothing is written until
the staged batch is confirmed; the audit report is produced either way.

Required environment:
  RESTYLE_TOKEN    credential for the persistence backend
  RESTYLE_BRANCH   working-copy branch the batch commits to

Optional environment:
  RESTYLE_TARGET_TYPES        comma-separated element-type allowlist
  RESTYLE_EXCLUDE_NAMESPACES  comma-separated namespaces to skip`,
	RunE: runRemediation,
}

func init() {
	runCmd.Flags().StringVar(&sourceDir, "source", ".", "document export directory")
	runCmd.Flags().StringVar(&reportPath, "report", "remediation-report.csv", "audit report output path")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "analyze and report only, never prompt or commit")
	runCmd.Flags().BoolVarP(&autoApprove, "yes", "y", false, "apply without prompting")
}

func runRemediation(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	catalog, err := rules.Load(rulesPath)
	if err != nil {
		return err
	}
	printCatalogSummary(catalog)

	store, err := local.Open(sourceDir, logger)
	if err != nil {
		return err
	}

	proc := engine.NewProcessor(rules.NewIndex(catalog), cfg.TargetTypes, logger)
	w := walker.New(store, store, proc, askYesNo, walker.Options{
		Branch:            cfg.Branch,
		ExcludeNamespaces: cfg.ExcludeNamespaces,
		ContainerTypes:    config.DefaultContainerTypes,
		DryRun:            dryRun,
		AutoApprove:       autoApprove,
	}, logger)

	stats, records, runErr := w.Run(cmd.Context())

	if err := writeReports(stats, records); err != nil {
		logger.Warn("writing audit report failed", zap.Error(err))
	}
	printRunSummary(stats)

	// Commit failure is fatal and surfaced verbatim, after the report is
	// already on disk.
	return runErr
}

func writeReports(stats *walker.RunStats, records []audit.Record) error {
	if err := report.WriteCSV(reportPath, records); err != nil {
		return err
	}
	summaryPath := strings.TrimSuffix(reportPath, ".csv") + "-summary.csv"
	return report.WriteSummary(summaryPath, report.Summary{
		RunID:             stats.RunID,
		Counts:            stats.Counts,
		Namespaces:        stats.Namespaces,
		Documents:         stats.Documents,
		Elements:          stats.Elements,
		NativeLayoutSkips: stats.NativeLayoutSkips,
		MutationsQueued:   stats.MutationsQueued,
		Committed:         stats.Committed,
	})
}

func printRunSummary(stats *walker.RunStats) {
	fmt.Printf("\nRun %s\n", stats.RunID)
	fmt.Printf("  Documents analyzed:    %d (%d native-layout skipped)\n", stats.Documents, stats.NativeLayoutSkips)
	fmt.Printf("  Elements visited:      %d\n", stats.Elements)
	fmt.Printf("  Mapped:                %d\n", stats.Counts[audit.DecisionMapped])
	fmt.Printf("  Removed:               %d\n", stats.Counts[audit.DecisionRemoved])
	fmt.Printf("  Attributes set:        %d\n", stats.Counts[audit.DecisionAttributeSet])
	fmt.Printf("  Skipped:               %d\n", stats.Counts[audit.DecisionSkipped])
	fmt.Printf("  Mutations queued:      %d\n", stats.MutationsQueued)
	switch {
	case stats.Committed:
		fmt.Printf("  Committed:             yes (%d mutations)\n", stats.MutationsCommitted)
	case stats.Declined:
		fmt.Println("  Committed:             no (declined, batch discarded)")
	default:
		fmt.Println("  Committed:             no")
	}
	if stats.TraversalFailures > 0 || stats.ApplyFailures > 0 {
		fmt.Printf("  Failures:              %d traversal, %d apply (see log)\n",
			stats.TraversalFailures, stats.ApplyFailures)
	}
	fmt.Printf("  Report:                %s\n", reportPath)
}
