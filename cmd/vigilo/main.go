package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vigilo/internal/config"
	"vigilo/internal/helpers"
	"vigilo/internal/models"
	"vigilo/internal/repositories"
	"vigilo/internal/services"

	"github.com/spf13/cobra"
)

var configFile string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "vigilo",
		Short: "Vigilo - FSSAI compliance analysis for food businesses",
		Long: `Vigilo runs a multi-stage regulatory compliance analysis against the
remote compliance service and turns the result into an actionable plan.`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config.yaml", "Configuration file path")

	// Analyze command
	var analyzeCmd = &cobra.Command{
		Use:   "analyze",
		Short: "Run a compliance analysis",
		Long:  "Resolve the company id, run the remote compliance check and display the synthesized plan",
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().String("company", "", "Company id to analyze (overrides the cached one)")
	analyzeCmd.Flags().Bool("seed", false, "Ask the backend to seed synthetic amendment data first")
	analyzeCmd.Flags().Bool("json", false, "Print the raw analysis snapshot as JSON")
	rootCmd.AddCommand(analyzeCmd)

	// Amendments command
	var amendmentsCmd = &cobra.Command{
		Use:   "amendments",
		Short: "List regulatory amendments",
		RunE:  runAmendments,
	}
	amendmentsCmd.Flags().StringP("source", "s", "all", "Amendment source (all, dgft, gst, rbi)")
	amendmentsCmd.Flags().IntP("limit", "n", 0, "Show at most this many amendments (0 = all)")
	rootCmd.AddCommand(amendmentsCmd)

	// Company command
	var companyCmd = &cobra.Command{
		Use:   "company",
		Short: "Show or update the cached company id",
		RunE:  runCompany,
	}
	companyCmd.Flags().String("set", "", "Cache this company id")
	companyCmd.Flags().Bool("resolve", false, "Resolve the latest company id from the backend and cache it")
	rootCmd.AddCommand(companyCmd)

	// Watch command
	var watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Poll for new amendments and surface them as notifications",
		RunE:  runWatch,
	}
	watchCmd.Flags().StringP("source", "s", "all", "Amendment source to watch")
	watchCmd.Flags().IntP("interval", "i", 60, "Polling interval in seconds")
	rootCmd.AddCommand(watchCmd)

	if err := rootCmd.Execute(); err != nil {
		helpers.PrintError("Error: %v", err)
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	companyID, _ := cmd.Flags().GetString("company")
	seed, _ := cmd.Flags().GetBool("seed")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := helpers.EnsureDir(cfg.State.Dir); err != nil {
		return err
	}

	backend := repositories.NewBackendRepository(&cfg.Backend)
	store := repositories.NewCompanyStore(cfg.State.Dir)
	queue := services.NewNotificationQueue(time.Duration(cfg.Notifications.AutoDismissSeconds) * time.Second)
	runLog := helpers.NewRunLog(helpers.StatePath(cfg.State.Dir, "vigilo.log"))
	defer runLog.Close()

	ctx := cmd.Context()

	if seed {
		// Best-effort: a seeding failure never aborts the analysis.
		if err := backend.SeedSynthetic(ctx); err != nil {
			helpers.PrintWarning("Seeding synthetic data failed: %v", err)
		} else {
			helpers.PrintInfo("Synthetic amendment data seeded")
		}
		if err := backend.UpdateAmendments(ctx); err != nil {
			helpers.PrintWarning("Amendment refresh failed: %v", err)
		}
	}

	orchestrator := services.NewOrchestrator(backend, store, queue, &cfg.Analysis, runLog)
	if !asJSON && helpers.IsTerminal() {
		orchestrator.OnStage = helpers.PrintStage
	}

	helpers.PrintTitle("Running Compliance Analysis")

	analysis, err := orchestrator.RunAnalysis(ctx, companyID)
	if err != nil {
		services.DisplayNotifications(queue.List())
		return err
	}

	for i := range analysis.Findings {
		if analysis.Findings[i].PDFURL == "" && analysis.Findings[i].DocumentID != "" {
			analysis.Findings[i].PDFURL = backend.PDFURL(analysis.Findings[i].DocumentID)
		}
	}

	snapshotPath := helpers.StatePath(cfg.State.Dir, helpers.GenerateOutputFilename("analysis", "json"))
	if err := helpers.SaveJSON(analysis, snapshotPath); err != nil {
		helpers.PrintWarning("Could not save analysis snapshot: %v", err)
	}

	if asJSON {
		encoded, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode analysis: %w", err)
		}
		fmt.Println(string(encoded))
		return nil
	}

	services.DisplayAnalysis(analysis)
	services.DisplayNotifications(queue.List())
	helpers.PrintSuccess("Analysis completed successfully! Snapshot: %s", snapshotPath)
	return nil
}

func runAmendments(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	backend := repositories.NewBackendRepository(&cfg.Backend)

	amendments, err := backend.ListAmendments(cmd.Context(), source)
	if err != nil {
		return err
	}

	for i := range amendments {
		if amendments[i].PDFURL == "" && amendments[i].DocumentID != "" {
			amendments[i].PDFURL = backend.PDFURL(amendments[i].DocumentID)
		}
	}

	services.DisplayAmendments(amendments, limit)
	return nil
}

func runCompany(cmd *cobra.Command, args []string) error {
	setID, _ := cmd.Flags().GetString("set")
	resolve, _ := cmd.Flags().GetBool("resolve")

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store := repositories.NewCompanyStore(cfg.State.Dir)

	if setID != "" {
		if err := store.Save(setID); err != nil {
			return err
		}
		helpers.PrintSuccess("Cached company id: %s", setID)
		return nil
	}

	if resolve {
		backend := repositories.NewBackendRepository(&cfg.Backend)
		latest, err := backend.LatestCompanyID(cmd.Context())
		if err != nil {
			return err
		}
		if err := store.Save(latest); err != nil {
			return err
		}
		helpers.PrintSuccess("Resolved and cached company id: %s", latest)
		return nil
	}

	cached := store.Load()
	if cached == "" {
		helpers.PrintWarning("No company id cached. Use --set or --resolve.")
		return nil
	}

	helpers.PrintInfo("Cached company id: %s", cached)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	interval, _ := cmd.Flags().GetInt("interval")

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	backend := repositories.NewBackendRepository(&cfg.Backend)
	queue := services.NewNotificationQueue(time.Duration(cfg.Notifications.AutoDismissSeconds) * time.Second)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	helpers.PrintTitle("Watching %s amendments every %ds (Ctrl+C to stop)", source, interval)

	seen := make(map[string]bool)
	first := true
	ticker := time.NewTicker(time.Duration(interval) * time.Second)
	defer ticker.Stop()

	poll := func() {
		amendments, err := backend.ListAmendments(ctx, source)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			helpers.PrintWarning("Poll failed: %v", err)
			return
		}
		for _, amendment := range amendments {
			key := amendmentKey(amendment)
			if seen[key] {
				continue
			}
			if !first {
				// Passive background updates auto-dismiss; only show them once.
				queue.EnqueueTransient(fmt.Sprintf("New amendment: %s", amendment.Title), models.NotificationUpdate)
			}
			seen[key] = true
		}
		first = false
		services.DisplayNotifications(queue.List())
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			helpers.PrintInfo("Watch stopped")
			return nil
		case <-ticker.C:
			poll()
		}
	}
}

func amendmentKey(a models.AmendmentMeta) string {
	if a.DocumentID != "" {
		return a.DocumentID
	}
	return a.Title + "|" + a.Date
}
