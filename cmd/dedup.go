package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/permit-registry/internal/dedup"
	"github.com/sells-group/permit-registry/internal/model"
	"github.com/sells-group/permit-registry/internal/store"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Find and resolve duplicate permits",
}

var dedupScanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for candidate duplicate pairs",
	Long:  "Runs the permit-number, address-hash, and fuzzy-address passes over active permits and records new candidate pairs for review.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		result, err := dedup.Scan(ctx, pool)
		if err != nil {
			return err
		}

		zap.L().Info("dedup scan complete",
			zap.Int("permit_number_pairs", result.PermitNumberPairs),
			zap.Int("address_hash_pairs", result.AddressHashPairs),
			zap.Int("fuzzy_address_pairs", result.FuzzyAddressPairs),
		)
		fmt.Printf("Found %d new candidate pairs (%d permit-number, %d address-hash, %d fuzzy-address)\n",
			result.Total(), result.PermitNumberPairs, result.AddressHashPairs, result.FuzzyAddressPairs)
		return nil
	},
}

var (
	dedupListStatus string
	dedupListLimit  int
)

var dedupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List candidate duplicate pairs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		pairs, err := store.New(pool).ListDuplicatePairs(ctx,
			model.DuplicateStatus(dedupListStatus), dedupListLimit)
		if err != nil {
			return err
		}
		if len(pairs) == 0 {
			fmt.Fprintln(os.Stderr, "No duplicate pairs found.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tPERMIT 1\tPERMIT 2\tMETHOD\tCONFIDENCE\tSTATUS")
		for _, p := range pairs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.0f\t%s\n",
				p.ID, p.PermitID1, p.PermitID2, p.DetectionMethod, p.ConfidenceScore, p.Status)
		}
		return tw.Flush()
	},
}

var (
	resolveAction    string
	resolveCanonical string
	resolveBy        string
	resolveNotes     string
)

var dedupResolveCmd = &cobra.Command{
	Use:   "resolve <pair-id>",
	Short: "Apply a review decision to a pending pair",
	Long:  "Merge deactivates the non-canonical permit and links it to the canonical one; reject and review just mark the pair.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := openPool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		pair, err := dedup.Resolve(ctx, pool, args[0], dedup.Resolution{
			Action:      model.ResolutionAction(resolveAction),
			CanonicalID: resolveCanonical,
			ResolvedBy:  resolveBy,
			Notes:       resolveNotes,
		})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pair)
	},
}

func init() {
	dedupListCmd.Flags().StringVar(&dedupListStatus, "status", "pending", "filter: pending, merged, rejected, reviewed")
	dedupListCmd.Flags().IntVar(&dedupListLimit, "limit", 50, "maximum pairs to list")

	dedupResolveCmd.Flags().StringVar(&resolveAction, "action", "", "merge, reject, or review (required)")
	dedupResolveCmd.Flags().StringVar(&resolveCanonical, "canonical", "", "surviving permit id (required for merge)")
	dedupResolveCmd.Flags().StringVar(&resolveBy, "by", "", "reviewer name")
	dedupResolveCmd.Flags().StringVar(&resolveNotes, "notes", "", "resolution notes")
	_ = dedupResolveCmd.MarkFlagRequired("action")

	dedupCmd.AddCommand(dedupScanCmd, dedupListCmd, dedupResolveCmd)
	rootCmd.AddCommand(dedupCmd)
}
