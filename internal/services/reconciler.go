package services

import (
	"context"
	"errors"
	"sync"

	"bidding-system/internal/domain"
	"bidding-system/pkg/logger"

	"github.com/robfig/cron/v3"
)

// PriceIndexReconciler periodically compares every price index entry with its
// item's price and rewrites diverged entries. Only the elected leader runs it,
// and every item is checked under that item's lease.
type PriceIndexReconciler struct {
	cron       *cron.Cron
	schedule   string
	leader     domain.LeaderElection
	instanceID string
	locks      domain.LockManager
	items      domain.ItemStore
	index      domain.PriceIndex
	log        logger.Logger

	mu sync.Mutex
}

func NewPriceIndexReconciler(
	schedule string,
	leader domain.LeaderElection,
	instanceID string,
	locks domain.LockManager,
	items domain.ItemStore,
	index domain.PriceIndex,
	log logger.Logger,
) *PriceIndexReconciler {
	return &PriceIndexReconciler{
		cron:       cron.New(),
		schedule:   schedule,
		leader:     leader,
		instanceID: instanceID,
		locks:      locks,
		items:      items,
		index:      index,
		log:        log,
	}
}

func (r *PriceIndexReconciler) Start(ctx context.Context) error {
	r.log.Info("Starting price index reconciler", "schedule", r.schedule, "instance", r.instanceID)

	_, err := r.cron.AddFunc(r.schedule, func() {
		r.runIfLeader(ctx)
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	return nil
}

// Stop waits for a running pass and gives up leadership.
func (r *PriceIndexReconciler) Stop(ctx context.Context) error {
	r.log.Info("Stopping price index reconciler")
	<-r.cron.Stop().Done()
	return r.leader.ReleaseLeadership(ctx, r.instanceID)
}

func (r *PriceIndexReconciler) runIfLeader(ctx context.Context) {
	isLeader, err := r.leader.IsLeader(ctx, r.instanceID)
	if err != nil {
		r.log.Error("Failed to check leadership", "error", err)
		return
	}
	if !isLeader {
		isLeader, err = r.leader.BecomeLeader(ctx, r.instanceID)
		if err != nil {
			r.log.Error("Failed to run for leadership", "error", err)
			return
		}
	}
	if !isLeader {
		r.log.Debug("Not the leader, skipping reconciliation", "instance", r.instanceID)
		return
	}

	if _, err := r.Reconcile(ctx); err != nil {
		r.log.Error("Price index reconciliation failed", "error", err)
	}
}

// Reconcile makes one pass over the index and returns how many entries it
// rewrote. Items it could not lease are skipped until the next pass.
func (r *PriceIndexReconciler) Reconcile(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids, err := r.index.ItemIDs(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return repaired, ctx.Err()
		}

		fixed, err := r.reconcileItem(ctx, id)
		switch {
		case err == nil:
			if fixed {
				repaired++
			}
		case errors.Is(err, domain.ErrLockTimeout), errors.Is(err, domain.ErrLockLost):
			r.log.Debug("Skipping item, lease unavailable", "item_id", id, "error", err)
		default:
			r.log.Error("Failed to reconcile item", "item_id", id, "error", err)
		}
	}

	r.log.Info("Price index reconciled", "items", len(ids), "repaired", repaired)
	return repaired, nil
}

func (r *PriceIndexReconciler) reconcileItem(ctx context.Context, itemID string) (bool, error) {
	fixed := false
	err := r.locks.WithLock(ctx, itemID, func(ctx context.Context, lease domain.Lease) error {
		item, err := r.items.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			r.log.Warn("Price index entry without item", "item_id", itemID)
			return nil
		}

		score, ok, err := r.index.Score(ctx, itemID)
		if err != nil {
			return err
		}
		if ok && score == item.Price {
			return nil
		}

		r.log.Warn("Price index diverged from item price", "item_id", itemID,
			"indexed", score, "price", item.Price)
		if err := r.index.Repair(ctx, lease, itemID, item.Price); err != nil {
			return err
		}
		fixed = true
		return nil
	})
	return fixed, err
}
