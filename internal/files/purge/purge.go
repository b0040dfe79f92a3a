// Package purge drains the file purge queue. Deleting a project only
// removes its metadata rows; the stored object versions are queued and
// deleted here, off the request path.
package purge

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/spshpau/project-service/internal/files/repository"
	"github.com/spshpau/project-service/internal/storage"
)

type Queue interface {
	DequeuePurgeBatch(ctx context.Context, limit int) ([]repository.PurgeItem, error)
	DeletePurgeItem(ctx context.Context, id int64) error
}

type Purger struct {
	queue     Queue
	store     storage.ObjectStorage
	batchSize int
}

func NewPurger(queue Queue, store storage.ObjectStorage, batchSize int) *Purger {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Purger{queue: queue, store: store, batchSize: batchSize}
}

// RunOnce drains at most one batch. A failed storage delete leaves the
// item queued for the next run. Returns the number of items purged.
func (p *Purger) RunOnce(ctx context.Context) (int, error) {
	items, err := p.queue.DequeuePurgeBatch(ctx, p.batchSize)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, it := range items {
		if err := p.store.DeleteVersion(ctx, it.StorageKey, it.StorageVersionID); err != nil {
			log.Printf("purge: delete %s@%s failed: %v", it.StorageKey, it.StorageVersionID, err)
			continue
		}
		if err := p.queue.DeletePurgeItem(ctx, it.ID); err != nil {
			log.Printf("purge: dequeue item %d failed: %v", it.ID, err)
			continue
		}
		purged++
	}
	return purged, nil
}

// StartScheduler runs the purger on the given 6-field cron schedule and
// returns the scheduler so the caller can stop it on shutdown.
func StartScheduler(p *Purger, schedule string) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		n, err := p.RunOnce(ctx)
		if err != nil {
			log.Printf("purge: run failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("purge: removed %d stored object versions", n)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("Cron scheduler started (file purge at %q)", schedule)
	return c, nil
}
