// Package main provides the CLI entry point for the preprocessing step.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Latif-Arib/ML-Project/pkg/config"
	"github.com/Latif-Arib/ML-Project/pkg/logger"
	"github.com/Latif-Arib/ML-Project/pkg/metadatastore"
	"github.com/Latif-Arib/ML-Project/pkg/preprocess"
	"github.com/Latif-Arib/ML-Project/pkg/scheduler"
)

var (
	// Global flags
	configPath string
	logLevel   string

	// Run command flags
	trainPath string
	testPath  string

	// Schedule command flags
	cronExpr string

	// Artifacts command flags
	limit int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Fit and apply the tabular preprocessing transform",
	Long: `preprocess reads a train/test CSV pair, imputes missing values, scales
numeric features and one-hot encodes categorical features. The fitted
transform is written to the processed data path for reuse on new data.

Examples:
  # Fit on the configured train/test files
  preprocess run

  # Fit on explicit files
  preprocess run --train data/raw/train.csv --test data/raw/test.csv

  # Apply the persisted transform to new data
  preprocess apply data/raw/new.csv`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fit the transform on train data and apply it to train and test",
	Args:  cobra.NoArgs,
	RunE:  runTransform,
}

var applyCmd = &cobra.Command{
	Use:   "apply <data-file>",
	Short: "Apply the persisted transform to a new file",
	Args:  cobra.ExactArgs(1),
	RunE:  runApply,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Refit the transform on a cron schedule until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runSchedule,
}

var artifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "List recorded transform artifacts, newest first",
	Args:  cobra.NoArgs,
	RunE:  runArtifacts,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file (environment variables override it)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	runCmd.Flags().StringVar(&trainPath, "train", "", "Train CSV file (default from config)")
	runCmd.Flags().StringVar(&testPath, "test", "", "Test CSV file (default from config)")

	scheduleCmd.Flags().StringVar(&trainPath, "train", "", "Train CSV file (default from config)")
	scheduleCmd.Flags().StringVar(&testPath, "test", "", "Test CSV file (default from config)")
	scheduleCmd.Flags().StringVar(&cronExpr, "cron", "", "Cron expression (default from config)")

	artifactsCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of records to show")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(artifactsCmd)
}

// app holds what every command needs
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	store *metadatastore.SQLiteStore
}

func setup() (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadConfigFile(configPath)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	a := &app{
		cfg: cfg,
		log: logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr),
	}

	if cfg.MetadataDBPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.MetadataDBPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create metadata directory: %w", err)
		}
		a.store, err = metadatastore.NewSQLiteStore(cfg.MetadataDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite storage: %w", err)
		}
		log.Printf("Recording transform artifacts in %s", cfg.MetadataDBPath)
	}
	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

func (a *app) preprocessor() (*preprocess.Preprocessor, error) {
	p, err := preprocess.New(a.cfg, a.log.WithFields(logger.Component("preprocess")))
	if err != nil {
		return nil, err
	}
	if a.store != nil {
		p.WithRecorder(a.store)
	}
	return p, nil
}

func (a *app) inputs() (string, string) {
	train, test := a.cfg.TrainPath, a.cfg.TestPath
	if trainPath != "" {
		train = trainPath
	}
	if testPath != "" {
		test = testPath
	}
	return train, test
}

func runTransform(_ *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	p, err := a.preprocessor()
	if err != nil {
		return err
	}

	train, test := a.inputs()
	res, err := p.Transform(train, test)
	if err != nil {
		return err
	}

	xTrain, xTest, _, _ := res.Outputs()
	trainRows, features := xTrain.Dims()
	testRows, _ := xTest.Dims()
	fmt.Printf("Train features: %d x %d\n", trainRows, features)
	fmt.Printf("Test features:  %d x %d\n", testRows, features)
	fmt.Printf("Transform written to %s (run %s)\n", res.ArtifactPath, res.RunID)
	return nil
}

func runApply(_ *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	p, err := a.preprocessor()
	if err != nil {
		return err
	}

	batch, err := p.Apply(args[0])
	if err != nil {
		return err
	}
	rows, features := batch.Features.Dims()
	fmt.Printf("Features: %d x %d\n", rows, features)
	if batch.Targets != nil {
		fmt.Printf("Targets:  %d\n", len(batch.Targets))
	}
	return nil
}

func runSchedule(_ *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	expr := a.cfg.Schedule
	if cronExpr != "" {
		expr = cronExpr
	}
	if expr == "" {
		return fmt.Errorf("no schedule: set PREPROCESS_SCHEDULE or pass --cron")
	}

	p, err := a.preprocessor()
	if err != nil {
		return err
	}

	train, test := a.inputs()
	svc := scheduler.NewService(p, a.log)
	if _, err := svc.Schedule(scheduler.Job{
		Name:      "refit",
		Schedule:  expr,
		TrainPath: train,
		TestPath:  test,
	}); err != nil {
		return err
	}

	svc.Start()
	log.Printf("Refitting %s / %s on schedule %q", train, test, expr)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down scheduler...")
	svc.Stop()
	return nil
}

func runArtifacts(_ *cobra.Command, _ []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()

	if a.store == nil {
		return fmt.Errorf("artifact recording is disabled: set METADATA_DB_PATH")
	}

	artifacts, err := a.store.ListArtifacts(limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSTATUS\tFEATURES\tTRAIN\tTEST\tPATH")
	for _, art := range artifacts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			art.ID,
			art.CreatedAt.Format("2006-01-02 15:04:05"),
			art.Status,
			art.NumFeatures(),
			art.TrainRows,
			art.TestRows,
			art.Path,
		)
	}
	return w.Flush()
}
