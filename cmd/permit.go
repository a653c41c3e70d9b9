package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/permit-registry/internal/store"
)

var permitCmd = &cobra.Command{
	Use:   "permit",
	Short: "Inspect individual permits",
}

var permitGetCmd = &cobra.Command{
	Use:   "get <permit-id>",
	Short: "Show a permit with its reference data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		detail, err := store.New(pool).GetPermitDetail(ctx, args[0])
		if err != nil {
			return err
		}
		if detail == nil {
			return eris.Errorf("permit %s not found", args[0])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(detail)
	},
}

var permitHistoryCmd = &cobra.Command{
	Use:   "history <permit-id>",
	Short: "Show a permit's version history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		st := store.New(pool)
		permit, err := st.GetPermit(ctx, args[0])
		if err != nil {
			return err
		}
		if permit == nil {
			return eris.Errorf("permit %s not found", args[0])
		}

		versions, err := st.ListVersions(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Permit %s (current version %d, %d archived)\n",
			permit.ID, permit.Version, len(versions))
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(versions)
	},
}

var (
	lookupPermitNumber string
	lookupStateCode    string
)

var permitLookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Find the active permit for a permit number and state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		permit, err := store.New(pool).LookupPermit(ctx, lookupPermitNumber, lookupStateCode)
		if err != nil {
			return err
		}
		if permit == nil {
			return eris.Errorf("no active permit %s in %s", lookupPermitNumber, lookupStateCode)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(permit)
	},
}

func init() {
	permitLookupCmd.Flags().StringVar(&lookupPermitNumber, "permit-number", "", "permit number (required)")
	permitLookupCmd.Flags().StringVar(&lookupStateCode, "state", "", "two-letter state code (required)")
	_ = permitLookupCmd.MarkFlagRequired("permit-number")
	_ = permitLookupCmd.MarkFlagRequired("state")

	permitCmd.AddCommand(permitGetCmd, permitHistoryCmd, permitLookupCmd)
	rootCmd.AddCommand(permitCmd)
}
