package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"banana-image-pipeline/modules/schedule"
)

// Worker - BRPOP loop over the pair queue. Jobs run strictly one at a
// time so the pacing delay between external calls stays meaningful.
type Worker struct {
	rdb      *redis.Client
	pipeline schedule.PairProcessor
	store    schedule.GameStore
	delay    time.Duration
}

func NewWorker(rdb *redis.Client, pipeline schedule.PairProcessor, store schedule.GameStore, delay time.Duration) *Worker {
	return &Worker{
		rdb:      rdb,
		pipeline: pipeline,
		store:    store,
		delay:    delay,
	}
}

// Run - watch the queue forever
func (w *Worker) Run() {
	log.Println("🔄 Pair queue worker starting...")
	log.Printf("👀 Watching queue: %s", pairQueue)

	ctx := context.Background()

	for {
		result, err := w.rdb.BRPop(ctx, 0, pairQueue).Result()
		if err != nil {
			log.Printf("❌ Redis BRPOP error: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		// result[0] is the queue name, result[1] the job payload
		var job PairJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("❌ Invalid pair job payload: %v", err)
			continue
		}

		log.Printf("🎯 Received pair job: %s (%s)", job.JobID, job.URL)
		w.processJob(ctx, job)

		time.Sleep(w.delay)
	}
}

// processJob - resolve the game (when a date was supplied) and run the
// pipeline once. A failure is logged and the worker moves on.
func (w *Worker) processJob(ctx context.Context, job PairJob) {
	gameID := ""
	if job.GameDate != "" {
		id, err := w.store.GetOrCreateGame(job.GameDate)
		if err != nil {
			log.Printf("❌ Job %s: failed to resolve game for %s: %v", job.JobID, job.GameDate, err)
			return
		}
		gameID = id
	}

	result, err := w.pipeline.ProcessPair(ctx, job.URL, gameID)
	if err != nil {
		log.Printf("❌ Job %s failed: %v", job.JobID, err)
		return
	}

	log.Printf("✅ Job %s completed: real=%s generated=%s", job.JobID, result.RealFileID, result.GeneratedFileID)
}
