// casecontrol selects matched case/control cohorts for a disease or condition
// term from ontology-annotated sample metadata, and extracts numeric series
// such as age for samples bearing a term.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"github.com/carbocation/casecontrol"
	"github.com/carbocation/casecontrol/compileinfo"
	"github.com/carbocation/casecontrol/config"
	"github.com/carbocation/casecontrol/metadata"
	"github.com/carbocation/pfx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	BufferSize = 4096 * 8
	STDOUT     = bufio.NewWriterSize(os.Stdout, BufferSize)
)

var (
	configPath string
	cfg        *config.Config
	log        *zap.SugaredLogger

	// storageClient is created on first use of a gs:// path
	storageClient *storage.Client
)

var rootCmd = &cobra.Command{
	Use:   "casecontrol",
	Short: "Select matched case/control sample cohorts from ontology-annotated metadata",
	Long: `casecontrol splits annotated samples into cases (bearing a term) and controls
(not bearing it), drops samples with poor metadata, cell lines and
differentiated cells, and keeps the tissue/cell type groups present on both
sides. Terms carried by every case or every control are reported as confounds.

Metadata is read from a directory of JSON mappings (local or gs://), or from a
BigQuery dataset.`,
	Version:           compileinfo.Get().Version(),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML configuration file")
	pf.String("metadata", "", "Directory (local or gs://) holding the metadata JSON files")
	pf.String("available", "", "Optional JSON list of sample IDs; only these samples are considered")
	pf.String("project", "", "Google Cloud project used for billing when reading from BigQuery")
	pf.String("database", "", "BigQuery dataset holding the metadata tables, formatted as project.dataset")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("log-format", "", "console or json")

	rootCmd.AddCommand(matchCmd, seriesCmd, plotCmd, versionCmd)
}

func main() {
	defer STDOUT.Flush()

	if err := rootCmd.Execute(); err != nil {
		STDOUT.Flush()
		os.Exit(1)
	}
}

// setup loads the configuration, lets flags override it, and installs the
// logger.
func setup(cmd *cobra.Command, args []string) error {
	var err error

	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	pf := cmd.Flags()
	for flag, dst := range map[string]*string{
		"metadata":   &cfg.Metadata.Dir,
		"available":  &cfg.Metadata.Available,
		"project":    &cfg.Metadata.Project,
		"database":   &cfg.Metadata.Database,
		"log-level":  &cfg.Log.Level,
		"log-format": &cfg.Log.Format,
	} {
		if pf.Changed(flag) {
			if *dst, err = pf.GetString(flag); err != nil {
				return err
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	log = logger.Sugar()

	return nil
}

func gsClient(ctx context.Context, paths ...string) (*storage.Client, error) {
	if storageClient != nil {
		return storageClient, nil
	}

	needed := false
	for _, path := range paths {
		if casecontrol.IsGSPath(path) {
			needed = true
		}
	}
	if !needed {
		return nil, nil
	}

	var err error
	storageClient, err = storage.NewClient(ctx)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("connecting to google storage: %w", err))
	}

	return storageClient, nil
}

// loadMetadata reads metadata from wherever the configuration points.
func loadMetadata(ctx context.Context) (*metadata.Metadata, error) {
	if cfg.Metadata.UseBigQuery() {
		BQ := &metadata.WrappedBigQuery{
			Context:  ctx,
			Project:  cfg.Metadata.Project,
			Database: cfg.Metadata.Database,
		}

		var err error
		BQ.Client, err = bigquery.NewClient(BQ.Context, BQ.Project)
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("connecting to BigQuery: %w", err))
		}
		defer BQ.Client.Close()

		md, err := metadata.LoadBigQuery(BQ)
		if err != nil {
			return nil, err
		}
		if cfg.Metadata.Available != "" {
			if err := restrictAvailable(ctx, md); err != nil {
				return nil, err
			}
		}

		return md, nil
	}

	client, err := gsClient(ctx, cfg.Metadata.Dir, cfg.Metadata.Available)
	if err != nil {
		return nil, err
	}

	return metadata.Load(ctx, cfg.Metadata.Dir, cfg.Metadata.Available, client)
}

func restrictAvailable(ctx context.Context, md *metadata.Metadata) error {
	client, err := gsClient(ctx, cfg.Metadata.Available)
	if err != nil {
		return err
	}

	available, err := metadata.ReadSampleList(ctx, cfg.Metadata.Available, client)
	if err != nil {
		return err
	}
	md.RestrictTo(available)

	return nil
}

// createOutput opens path for writing, or returns STDOUT if path is empty.
func createOutput(ctx context.Context, path string) (io.Writer, func() error, error) {
	if path == "" {
		return STDOUT, STDOUT.Flush, nil
	}

	client, err := gsClient(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	wc, err := casecontrol.CreateFileOrGS(ctx, path, client)
	if err != nil {
		return nil, nil, err
	}

	return wc, wc.Close, nil
}
