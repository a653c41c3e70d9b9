package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/permit-registry/internal/census"
	"github.com/sells-group/permit-registry/internal/store"
)

var refCmd = &cobra.Command{
	Use:   "ref",
	Short: "Inspect and load reference data",
}

var refStatesCmd = &cobra.Command{
	Use:   "states",
	Short: "List states",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		states, err := store.New(pool).ListStates(ctx)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CODE\tNAME\tFIPS")
		for _, st := range states {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", st.Code, st.Name, strDeref(st.FIPSCode))
		}
		return tw.Flush()
	},
}

var refCountiesState string

var refCountiesCmd = &cobra.Command{
	Use:   "counties",
	Short: "List counties",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		var codes []string
		if refCountiesState != "" {
			codes = []string{refCountiesState}
		}
		counties, err := store.New(pool).ListCountiesByState(ctx, codes)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tFIPS\tSTATE ID")
		for _, c := range counties {
			fips := "-"
			if c.FIPSCode != nil {
				fips = *c.FIPSCode
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", c.ID, c.Name, fips, c.StateID)
		}
		return tw.Flush()
	},
}

var refSystemTypesCmd = &cobra.Command{
	Use:   "system-types",
	Short: "List septic system types",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		types, err := store.New(pool).ListSystemTypes(ctx)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCODE\tNAME")
		for _, t := range types {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", t.ID, t.Code, t.Name)
		}
		return tw.Flush()
	},
}

var refPortalsCmd = &cobra.Command{
	Use:   "portals",
	Short: "List source portals",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		portals, err := store.New(pool).ListPortals(ctx)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCODE\tNAME\tSCRAPED\tLAST SCRAPE")
		for _, p := range portals {
			last := "-"
			if p.LastScrapedAt != nil {
				last = p.LastScrapedAt.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n",
				p.ID, p.Code, p.Name, p.TotalRecordsScraped, last)
		}
		return tw.Flush()
	},
}

var refLoadCountiesCmd = &cobra.Command{
	Use:   "load-counties <shapefile>",
	Short: "Load county reference data from a Census TIGER shapefile",
	Long:  "Reads county names, FIPS codes, centroids, and bounding boxes from a TIGER/Line county shapefile and upserts them keyed on (state, normalized name).",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		n, err := census.LoadCounties(ctx, pool, args[0])
		if err != nil {
			return err
		}

		zap.L().Info("county load complete", zap.Int("counties", n))
		fmt.Printf("Loaded %d counties\n", n)
		return nil
	},
}

func init() {
	refCountiesCmd.Flags().StringVar(&refCountiesState, "state", "", "two-letter state code filter")
	refCmd.AddCommand(refStatesCmd, refCountiesCmd, refSystemTypesCmd, refPortalsCmd, refLoadCountiesCmd)
	rootCmd.AddCommand(refCmd)
}
