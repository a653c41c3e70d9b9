package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/permit-registry/internal/ingest"
	"github.com/sells-group/permit-registry/internal/load"
)

var (
	loadMappingPath string
	loadForce       bool
	loadConcurrency int
)

var loadCmd = &cobra.Command{
	Use:   "load <file-or-url>...",
	Short: "Load portal export files into the registry",
	Long:  "Fetches CSV/XLSX/JSON/ZIP exports from local paths or http(s)/ftp URLs, maps columns per a portal mapping file, and ingests the records in batches. Files whose content was already loaded are skipped unless --force is given.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mapping, err := load.LoadMapping(loadMappingPath)
		if err != nil {
			return err
		}

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		var journal *load.Journal
		if cfg.Load.JournalPath != "" {
			journal, err = load.OpenJournal(cfg.Load.JournalPath)
			if err != nil {
				return err
			}
			defer journal.Close() //nolint:errcheck
		}

		loadCfg := cfg.Load
		if loadConcurrency > 0 {
			loadCfg.Concurrency = loadConcurrency
		}

		engine := ingest.New(pool, cfg.Ingest)
		loader := load.NewLoader(engine, journal, loadCfg)

		results, err := loader.LoadFiles(ctx, mapping, args, loadForce)
		if err != nil {
			return eris.Wrap(err, "load")
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SOURCE\tRECORDS\tINSERTED\tUPDATED\tSKIPPED\tERRORS")
		for _, res := range results {
			if res.Skipped {
				fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t- (unchanged)\n", res.Source)
				continue
			}
			var inserted, updated, skipped, errs int
			for _, b := range res.Batches {
				inserted += b.Inserted
				updated += b.Updated
				skipped += b.Skipped
				errs += b.Errors
			}
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\n",
				res.Source, res.Records, inserted, updated, skipped, errs)
		}
		return tw.Flush()
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadMappingPath, "mapping", "", "portal column-mapping YAML file (required)")
	loadCmd.Flags().BoolVar(&loadForce, "force", false, "reload files even if already journaled")
	loadCmd.Flags().IntVar(&loadConcurrency, "concurrency", 0, "parallel file loads (default from config)")
	_ = loadCmd.MarkFlagRequired("mapping")
	rootCmd.AddCommand(loadCmd)
}
