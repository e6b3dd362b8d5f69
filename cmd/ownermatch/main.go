package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/townreach/ownermatch/internal/classify"
	"github.com/townreach/ownermatch/internal/config"
	"github.com/townreach/ownermatch/internal/entity"
	"github.com/townreach/ownermatch/internal/export"
	"github.com/townreach/ownermatch/internal/groups"
	"github.com/townreach/ownermatch/internal/observability"
	"github.com/townreach/ownermatch/internal/run"
	"github.com/townreach/ownermatch/internal/source"
	"github.com/townreach/ownermatch/internal/store"
	"github.com/townreach/ownermatch/internal/web"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "ownermatch",
		Short: "Property owner reconciliation across assessor and donor records",
		Long:  `Classifies owner name strings into typed entities, resolves same-parcel collisions, and builds cross-source owner groups for outreach.`,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")

	rootCmd.AddCommand(createIngestCmd())
	rootCmd.AddCommand(createReconcileCmd())
	rootCmd.AddCommand(createExportCmd())
	rootCmd.AddCommand(createServeCmd())
	rootCmd.AddCommand(createPingCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger every command shares.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	return cfg, observability.NewLogger(cfg.Logging), nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "postgres":
		return store.NewPostgresStore(cfg.Store.DSN)
	default:
		return store.NewSQLiteStore(cfg.Store.Path)
	}
}

func loadFeeds(cfg *config.Config) ([]source.Record, []source.Record, error) {
	assessor, err := source.LoadAssessorCSV(cfg.Feeds.AssessorCSV)
	if err != nil {
		return nil, nil, err
	}
	donor, err := source.LoadDonorCSV(cfg.Feeds.DonorCSV)
	if err != nil {
		return nil, nil, err
	}
	return assessor, donor, nil
}

// createIngestCmd loads the feeds, classifies every record and saves the
// resulting entities to the store for inspection.
func createIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Load and classify source feeds, saving entities to the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			assessor, donor, err := loadFeeds(cfg)
			if err != nil {
				return err
			}

			classifier := classify.New(logger)
			ctx := context.Background()
			saved, failed := 0, 0
			for _, rec := range append(assessor, donor...) {
				e, err := classifier.Classify(rec.OwnerName, rec)
				if err != nil {
					failed++
					logger.Warn().
						Str("record_id", rec.RecordID).
						Str("source", rec.SourceTag).
						Err(err).
						Msg("classification failed")
					continue
				}
				body, err := entity.Marshal(e)
				if err != nil {
					return fmt.Errorf("failed to encode entity %s: %w", e.Base().RefKey(), err)
				}
				if err := st.Save(ctx, "entity:"+e.Base().RefKey(), body); err != nil {
					return err
				}
				saved++
			}

			fmt.Printf("Ingested %d records (%d assessor, %d donor): %d entities saved, %d failed\n",
				len(assessor)+len(donor), len(assessor), len(donor), saved, failed)
			return nil
		},
	}
}

// createReconcileCmd runs a full reconciliation and saves the run document.
func createReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Run a full reconciliation and save the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			assessor, donor, err := loadFeeds(cfg)
			if err != nil {
				return err
			}

			var overrides *groups.OverrideSet
			if cfg.Feeds.OverridesCSV != "" {
				overrides, err = source.LoadOverridesCSV(cfg.Feeds.OverridesCSV)
				if err != nil {
					return err
				}
				fmt.Printf("Loaded %d override rules\n", overrides.Len())
			}

			start := time.Now()
			reconciler := run.New(logger, run.Options{
				CollisionPassThrough: cfg.Matching.CollisionPassThrough,
				ProgressEvery:        cfg.Matching.ProgressEvery,
				Overrides:            overrides,
				Progress: func(stage string, done, total int) {
					fmt.Printf("  %s: %d/%d\n", stage, done, total)
				},
			})
			result := reconciler.Run(assessor, donor)

			if err := result.Save(context.Background(), st); err != nil {
				return err
			}

			c := result.Counts
			fmt.Printf("Run %s complete in %s\n", result.RunID, time.Since(start).Round(time.Millisecond))
			fmt.Printf("  classified: %d  failed: %d  flagged: %d\n", c.Classified, c.Failed, c.Flagged)
			fmt.Printf("  merged: %d  suffixed: %d\n", c.Merged, c.Suffixed)
			fmt.Printf("  groups: %d  near-misses: %d\n", c.Groups, c.NearMisses)
			for _, f := range result.Failures {
				fmt.Printf("  FAILED %s:%s %q: %s\n", f.SourceTag, f.RecordID, f.OwnerName, f.Reason)
			}
			return nil
		},
	}
}

// createExportCmd renders a saved run into the report CSVs.
func createExportCmd() *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "Export a saved run as group roster and mailing list CSVs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			doc, err := run.LoadDocument(context.Background(), st, args[0])
			if err != nil {
				return err
			}

			exporter := export.NewExporter(logger)
			if err := exporter.ExportAll(doc, outputDir); err != nil {
				return err
			}
			fmt.Printf("Exported %d groups to %s\n", len(doc.Groups), outputDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output", "o", "exports", "output directory")
	return cmd
}

// createServeCmd starts the review API server.
func createServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the review API over saved runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}

			server := web.NewServer(cfg.Server, st, logger)
			return server.Start()
		},
	}
}

// createPingCmd checks store connectivity.
func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test store connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if pinger, ok := st.(interface{ Ping(context.Context) error }); ok {
				if err := pinger.Ping(context.Background()); err != nil {
					return err
				}
			}
			fmt.Printf("Store connection successful (%s)\n", cfg.Store.Backend)
			return nil
		},
	}
}
