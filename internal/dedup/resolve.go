package dedup

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/permit-registry/internal/db"
	"github.com/sells-group/permit-registry/internal/model"
	"github.com/sells-group/permit-registry/internal/store"
)

var (
	// ErrPairNotFound marks an unknown duplicate-pair ID.
	ErrPairNotFound = eris.New("dedup: duplicate pair not found")
	// ErrAlreadyResolved marks a pair that is no longer pending.
	ErrAlreadyResolved = eris.New("dedup: pair already resolved")
	// ErrCanonicalNotInPair marks a merge whose chosen canonical ID is
	// neither member of the pair.
	ErrCanonicalNotInPair = eris.New("dedup: canonical id not in pair")
	// ErrUnknownAction marks a resolution action outside merge/reject/review.
	ErrUnknownAction = eris.New("dedup: unknown action")
)

// Resolution is a reviewer's decision on a pending pair.
type Resolution struct {
	Action      model.ResolutionAction `json:"action"`
	CanonicalID string                 `json:"canonical_id,omitempty"`
	ResolvedBy  string                 `json:"resolved_by,omitempty"`
	Notes       string                 `json:"notes,omitempty"`
}

// Resolve applies a review decision to a pending pair. A merge deactivates
// the non-canonical permit and links it to the canonical one; reject and
// review only transition the pair's status. The whole decision commits
// atomically.
func Resolve(ctx context.Context, pool db.Pool, pairID string, res Resolution) (*model.DuplicatePair, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "dedup: begin resolve")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	st := store.New(tx)

	pair, err := st.GetDuplicatePairForUpdate(ctx, pairID)
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, eris.Wrapf(ErrPairNotFound, "%s", pairID)
	}
	if pair.Status != model.DuplicateStatusPending {
		return nil, eris.Wrapf(ErrAlreadyResolved, "%s is %s", pairID, pair.Status)
	}

	switch res.Action {
	case model.ResolutionMerge:
		other, ok := pair.Other(res.CanonicalID)
		if !ok {
			return nil, eris.Wrapf(ErrCanonicalNotInPair, "%s", res.CanonicalID)
		}
		if err := st.DeactivatePermit(ctx, other, res.CanonicalID); err != nil {
			return nil, err
		}
		pair.Status = model.DuplicateStatusMerged
		pair.CanonicalID = &res.CanonicalID

	case model.ResolutionReject:
		pair.Status = model.DuplicateStatusRejected

	case model.ResolutionReview:
		pair.Status = model.DuplicateStatusReviewed

	default:
		return nil, eris.Wrapf(ErrUnknownAction, "%q", res.Action)
	}

	if res.ResolvedBy != "" {
		pair.ResolvedBy = &res.ResolvedBy
	}
	if res.Notes != "" {
		pair.ResolutionNotes = &res.Notes
	}

	if err := st.ResolveDuplicatePair(ctx, pair); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, eris.Wrap(err, "dedup: commit resolve")
	}

	zap.L().Info("duplicate pair resolved",
		zap.String("component", "dedup"),
		zap.String("pair_id", pairID),
		zap.String("action", string(res.Action)),
		zap.String("status", string(pair.Status)),
	)

	return pair, nil
}
