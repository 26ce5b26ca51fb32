package worker

import (
	"context"
	"log"
	"time"

	"atcoder_bingo/internal/app/service"
	"atcoder_bingo/internal/platform/config"
	"atcoder_bingo/pkg/metrics"
)

// SyncWorker drives the submission synchronization loop.
type SyncWorker struct {
	syncService *service.SyncService
}

func NewSyncWorker(syncService *service.SyncService) *SyncWorker {
	return &SyncWorker{syncService: syncService}
}

func (w *SyncWorker) Start(ctx context.Context) {
	log.Println("Submission sync worker started")
	for {
		changed, err := w.syncService.SyncRecent(ctx, config.AppConfig.SyncWindow)
		if err != nil {
			metrics.SyncFailures.Inc()
			log.Printf("ERROR: Failed to sync submissions: %v", err)
		} else {
			metrics.SyncCycles.Inc()
			if changed > 0 {
				log.Printf("Submission sync finished, %d statuses changed.", changed)
			}
		}

		select {
		case <-ctx.Done():
			log.Println("Submission sync worker stopping...")
			return
		case <-time.After(config.AppConfig.SyncInterval):
		}
	}
}
