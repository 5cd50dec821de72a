package worker

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"banana-image-pipeline/modules/schedule"
)

// PairJob - one queued pipeline run. GameDate is optional; when set,
// the worker attaches the pair to that day's game.
type PairJob struct {
	JobID    string `json:"job_id"`
	URL      string `json:"url"`
	GameDate string `json:"game_date,omitempty"`
}

// EnqueueHandler - accepts pair jobs over HTTP and pushes them onto
// the Redis queue
type EnqueueHandler struct {
	rdb *redis.Client
}

// EnqueueRequest - POST /enqueue body
type EnqueueRequest struct {
	URL      string `json:"url"`
	GameDate string `json:"game_date,omitempty"`
}

// EnqueueResponse - POST /enqueue reply
type EnqueueResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
	JobID         string `json:"job_id,omitempty"`
	Queue         string `json:"queue,omitempty"`
	QueuePosition int64  `json:"queuePosition,omitempty"`
}

func NewEnqueueHandler(rdb *redis.Client) *EnqueueHandler {
	return &EnqueueHandler{rdb: rdb}
}

// RegisterRoutes - mount the queue endpoints
func (h *EnqueueHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/enqueue", h.HandleEnqueue).Methods("POST", "OPTIONS")
	r.HandleFunc("/queue", h.HandleQueueLength).Methods("GET")
	log.Println("✅ Queue routes registered: /enqueue, /queue")
}

// HandleEnqueue - POST /enqueue
func (h *EnqueueHandler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req EnqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ [Enqueue] Invalid request: %v", err)
		json.NewEncoder(w).Encode(EnqueueResponse{Success: false, Error: "Invalid request body"})
		return
	}

	if req.URL == "" {
		json.NewEncoder(w).Encode(EnqueueResponse{Success: false, Error: "url is required"})
		return
	}
	if req.GameDate != "" {
		if _, err := time.Parse(schedule.DateLayout, req.GameDate); err != nil {
			json.NewEncoder(w).Encode(EnqueueResponse{Success: false, Error: "game_date must be YYYY-MM-DD"})
			return
		}
	}

	job := PairJob{
		JobID:    uuid.NewString(),
		URL:      req.URL,
		GameDate: req.GameDate,
	}
	payload, err := json.Marshal(job)
	if err != nil {
		json.NewEncoder(w).Encode(EnqueueResponse{Success: false, Error: err.Error()})
		return
	}

	log.Printf("📥 [Enqueue] Received pair job %s for %s", job.JobID, job.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := h.rdb.LPush(ctx, pairQueue, payload).Result(); err != nil {
		log.Printf("❌ [Enqueue] Redis LPUSH failed: %v", err)
		json.NewEncoder(w).Encode(EnqueueResponse{Success: false, Error: err.Error()})
		return
	}

	queueLen, _ := h.rdb.LLen(ctx, pairQueue).Result()

	log.Printf("✅ [Enqueue] Job %s enqueued successfully (position: %d)", job.JobID, queueLen)

	json.NewEncoder(w).Encode(EnqueueResponse{
		Success:       true,
		Message:       "Pair job enqueued successfully",
		JobID:         job.JobID,
		Queue:         pairQueue,
		QueuePosition: queueLen,
	})
}

// HandleQueueLength - GET /queue
func (h *EnqueueHandler) HandleQueueLength(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	queueLen, err := h.rdb.LLen(ctx, pairQueue).Result()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"queue":  pairQueue,
		"length": queueLen,
	})
}
