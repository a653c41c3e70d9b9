package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/permit-registry/internal/search"
)

var (
	searchStates   []string
	searchCity     string
	searchZip      string
	searchPage     int
	searchPageSize int
	searchSortBy   string
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search permits",
	Long:  "Full-text and fuzzy search over active permits with optional state, city, and zip filters.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		params := &search.Params{
			StateCodes: searchStates,
			City:       searchCity,
			ZipCode:    searchZip,
			Page:       searchPage,
			PageSize:   searchPageSize,
			SortBy:     searchSortBy,
		}
		if len(args) == 1 {
			params.Query = args[0]
		}
		if err := params.Normalize(); err != nil {
			return err
		}

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		result, err := search.Execute(ctx, pool, params)
		if err != nil {
			return err
		}

		if searchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		if len(result.Items) == 0 {
			fmt.Fprintln(os.Stderr, "No permits found.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tPERMIT #\tSTATE\tADDRESS\tOWNER\tSCORE")
		for _, item := range result.Items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.3f\n",
				item.Permit.ID,
				strDeref(item.Permit.PermitNumber),
				item.StateCode,
				strDeref(item.Permit.Address),
				strDeref(item.Permit.OwnerName),
				item.Score,
			)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Printf("\nPage %d of %d (%d total, %dms)\n",
			result.Page, result.TotalPages, result.Total, int(result.ExecutionMs))
		return nil
	},
}

func strDeref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchStates, "state", nil, "state code filter (repeatable)")
	searchCmd.Flags().StringVar(&searchCity, "city", "", "city filter")
	searchCmd.Flags().StringVar(&searchZip, "zip", "", "zip code filter")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "result page")
	searchCmd.Flags().IntVar(&searchPageSize, "page-size", 20, "results per page")
	searchCmd.Flags().StringVar(&searchSortBy, "sort", "", "sort key: relevance, permit_date, address, owner_name")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "emit raw JSON")
	rootCmd.AddCommand(searchCmd)
}
