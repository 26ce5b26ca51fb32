package worker

import (
	"context"
	"log"
	"time"

	"atcoder_bingo/internal/app/service"
	"atcoder_bingo/internal/platform/config"
	"atcoder_bingo/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// BoardWorker drives the daily board generation loop. GenerateDaily is
// idempotent on its own, but the Redis lock keeps two deployment
// instances from fetching the feeds and racing the insert concurrently.
type BoardWorker struct {
	rdb          *redis.Client
	boardService *service.BoardService
}

func NewBoardWorker(rdb *redis.Client, boardService *service.BoardService) *BoardWorker {
	return &BoardWorker{rdb: rdb, boardService: boardService}
}

func (w *BoardWorker) Start(ctx context.Context) {
	log.Println("Board generation worker started")
	for {
		w.runCycle(ctx)
		select {
		case <-ctx.Done():
			log.Println("Board generation worker stopping...")
			return
		case <-time.After(config.AppConfig.GenerationInterval):
		}
	}
}

// runCycle attempts one generation under the Redis lock. Any failure is
// logged and swallowed; the loop is the fault boundary and must outlive
// arbitrary downstream errors.
func (w *BoardWorker) runCycle(ctx context.Context) {
	lockValue := uuid.NewString()
	lockTTL := time.Duration(config.AppConfig.GenerationLockTTLSeconds) * time.Second

	ok, err := w.rdb.SetNX(ctx, config.AppConfig.GenerationLockKey, lockValue, lockTTL).Result()
	if err != nil {
		log.Printf("ERROR: Failed to attempt generation lock acquisition: %v", err)
		return
	}
	if !ok {
		log.Println("INFO: Generation lock held elsewhere, skipping cycle.")
		return
	}
	defer w.releaseLock(ctx, lockValue)

	generated, err := w.boardService.GenerateDaily(ctx)
	switch {
	case err != nil:
		metrics.GenerationFailures.Inc()
		log.Printf("ERROR: Failed to generate board: %v", err)
	case generated:
		metrics.BoardsGenerated.Inc()
		log.Println("New bingo board generated.")
	default:
		log.Println("Today's board already exists.")
	}
}

// releaseLock deletes the lock only if this cycle still holds it, so an
// expired lock taken over by another instance is left alone.
func (w *BoardWorker) releaseLock(ctx context.Context, lockValue string) {
	script := redis.NewScript(`
        if redis.call("get", KEYS[1]) == ARGV[1] then
            return redis.call("del", KEYS[1])
        else
            return 0
        end
    `)
	if _, err := script.Run(ctx, w.rdb, []string{config.AppConfig.GenerationLockKey}, lockValue).Result(); err != nil {
		log.Printf("ERROR: Failed to release generation lock: %v", err)
	}
}
