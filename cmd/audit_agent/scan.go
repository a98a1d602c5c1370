package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/a11y-audit/internal/config"
	"github.com/jonathan/a11y-audit/internal/normalize"
	"github.com/jonathan/a11y-audit/internal/observability"
	"github.com/jonathan/a11y-audit/internal/pipeline"
	"github.com/jonathan/a11y-audit/internal/taxonomy"
	"github.com/jonathan/a11y-audit/internal/types"
)

var scanCommand = &cobra.Command{
	Use:   "scan",
	Short: "Audit one page: normalize, classify, group, enrich and score its findings",
	Long: `Runs the single-page audit pipeline: fetch -> feature detection -> normalization -> grouping -> enrichment -> scoring -> conformity.

Checker findings are read from a JSON file (--findings). Configuration can be loaded from a JSON file using --config; command-line arguments override config file values.`,
	RunE: runScanCmd,
}

var (
	scanConfigPath  string
	scanURL         string
	scanFindings    string
	scanCampaignID  string
	scanTaxonomy    string
	scanAPIKey      string
	scanUseBrowser  bool
	scanVerbose     bool
	scanDatabaseURL string
)

func init() {
	// Config file flag (processed first)
	scanCommand.Flags().StringVar(&scanConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	scanCommand.Flags().StringVarP(&scanURL, "url", "u", "", "Page URL to audit")
	scanCommand.Flags().StringVarP(&scanFindings, "findings", "f", "", "Path to checker findings JSON file")
	scanCommand.Flags().StringVarP(&scanCampaignID, "campaign", "c", "", "Campaign UUID to attach the scan to")
	scanCommand.Flags().StringVar(&scanTaxonomy, "taxonomy", "", "Path to a criteria reference file (defaults to the embedded reference)")
	scanCommand.Flags().BoolVar(&scanUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	scanCommand.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	scanCommand.Flags().StringVar(&scanAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for scan persistence
	scanCommand.Flags().StringVar(&scanDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(scanCommand)
}

// readFindings loads a checker findings JSON file.
func readFindings(path string) ([]normalize.CheckResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read findings file %s: %w", path, err)
	}
	var results []normalize.CheckResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse findings JSON: %w", err)
	}
	return results, nil
}

func runScanCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if scanConfigPath != "" {
		loadedCfg, err := config.LoadConfig(scanConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
		if scanVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", scanConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	if cmd.Flags().Changed("url") {
		cfg.URL = scanURL
	}
	if cmd.Flags().Changed("findings") {
		cfg.Findings = scanFindings
	}
	if cmd.Flags().Changed("campaign") {
		cfg.CampaignID = scanCampaignID
	}
	if cmd.Flags().Changed("taxonomy") {
		cfg.Taxonomy = scanTaxonomy
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = scanAPIKey
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = scanUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = scanVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = scanDatabaseURL
	}

	// Step 3: Validate required fields
	if cfg.URL == "" {
		return fmt.Errorf("--url must be provided (via flag or config)")
	}
	request := types.ScanRequest{URL: cfg.URL, UseBrowser: cfg.UseBrowser}
	if err := request.Validate(); err != nil {
		return fmt.Errorf("invalid scan request: %w", err)
	}

	var campaignID uuid.UUID
	if cfg.CampaignID != "" {
		var err error
		campaignID, err = uuid.Parse(cfg.CampaignID)
		if err != nil {
			return fmt.Errorf("invalid campaign id format: %w", err)
		}
	}

	// Step 4: API key and database URL from environment as fallback.
	// Both are optional: without an API key enrichment uses keyword
	// fallback, without a database nothing is persisted.
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	// Step 5: Load inputs
	var results []normalize.CheckResult
	if cfg.Findings != "" {
		var err error
		results, err = readFindings(cfg.Findings)
		if err != nil {
			return err
		}
	}

	var ref *taxonomy.Reference
	if cfg.Taxonomy != "" {
		var err error
		ref, err = taxonomy.LoadFile(cfg.Taxonomy)
		if err != nil {
			return fmt.Errorf("failed to load criteria reference: %w", err)
		}
	}

	outcome, err := pipeline.RunScan(ctx, pipeline.ScanOptions{
		CampaignID:  campaignID,
		URL:         cfg.URL,
		Results:     results,
		APIKey:      cfg.APIKey,
		UseBrowser:  cfg.UseBrowser,
		Verbose:     cfg.Verbose,
		DatabaseURL: cfg.DatabaseURL,
		Taxonomy:    ref,
	})
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintGroups(outcome.Groups)
	printer.PrintConformity(outcome.Conformity)
	fmt.Printf("Done! Scan %s completed with %d issue(s) in %d group(s).\n",
		outcome.Scan.ID, len(outcome.Scan.Issues), len(outcome.Groups))
	return nil
}
