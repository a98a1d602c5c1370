package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/a11y-audit/internal/config"
	"github.com/jonathan/a11y-audit/internal/observability"
	"github.com/jonathan/a11y-audit/internal/pipeline"
	"github.com/jonathan/a11y-audit/internal/types"
)

var planCommand = &cobra.Command{
	Use:   "plan",
	Short: "Compute a multi-year remediation plan for a campaign",
	Long: `Loads the campaign's completed scans, groups issues across pages and distributes them over a quarter-bucketed remediation timeline. Quick wins are scheduled first.

The previous plan of the campaign, if any, is replaced.`,
	RunE: runPlanCmd,
}

var (
	planConfigPath  string
	planCampaignID  string
	planYears       int
	planTargetRate  float64
	planVerbose     bool
	planDatabaseURL string
)

func init() {
	planCommand.Flags().StringVar(&planConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	planCommand.Flags().StringVarP(&planCampaignID, "campaign", "c", "", "Campaign UUID to plan for")
	planCommand.Flags().IntVarP(&planYears, "years", "y", 0, "Remediation window in years (1-5)")
	planCommand.Flags().Float64Var(&planTargetRate, "target-rate", 0, "Target conformity rate (0-100)")
	planCommand.Flags().BoolVarP(&planVerbose, "verbose", "v", false, "Print detailed debug information")

	planCommand.Flags().StringVar(&planDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(planCommand)
}

func runPlanCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if planConfigPath != "" {
		loadedCfg, err := config.LoadConfig(planConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
	}

	if cmd.Flags().Changed("campaign") {
		cfg.CampaignID = planCampaignID
	}
	if cmd.Flags().Changed("years") {
		cfg.DurationYears = planYears
	}
	if cmd.Flags().Changed("target-rate") {
		cfg.TargetRate = planTargetRate
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = planVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = planDatabaseURL
	}

	if cfg.CampaignID == "" {
		return fmt.Errorf("--campaign must be provided (via flag or config)")
	}
	campaignID, err := uuid.Parse(cfg.CampaignID)
	if err != nil {
		return fmt.Errorf("invalid campaign id format: %w", err)
	}
	if cfg.DurationYears == 0 {
		cfg.DurationYears = 3
	}
	if cfg.TargetRate == 0 {
		cfg.TargetRate = 100
	}

	// Database is required: the plan spans persisted scans
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	request := types.PlanRequest{
		CampaignID:    campaignID,
		DurationYears: cfg.DurationYears,
		TargetRate:    cfg.TargetRate,
	}

	plan, err := pipeline.RunPlan(ctx, pipeline.PlanOptions{
		Request:     request,
		DatabaseURL: cfg.DatabaseURL,
		Verbose:     cfg.Verbose,
	})
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintPlan(plan)
	fmt.Printf("Done! Plan stored with %d scheduled item(s).\n", len(plan.Items))
	return nil
}
