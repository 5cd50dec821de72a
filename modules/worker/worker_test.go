package worker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"banana-image-pipeline/modules/pair"
)

type stubPipeline struct {
	urls    []string
	gameIDs []string
	err     error
}

func (p *stubPipeline) ProcessPair(ctx context.Context, realURL string, gameID string) (*pair.Result, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.urls = append(p.urls, realURL)
	p.gameIDs = append(p.gameIDs, gameID)
	return &pair.Result{RealFileID: "file-real", GeneratedFileID: "file-generated"}, nil
}

type stubGameStore struct {
	dates []string
	err   error
}

func (s *stubGameStore) GetOrCreateGame(date string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.dates = append(s.dates, date)
	return "game-1", nil
}

func TestProcessJobWithGameDate(t *testing.T) {
	pipeline := &stubPipeline{}
	store := &stubGameStore{}
	w := NewWorker(nil, pipeline, store, 0)

	w.processJob(context.Background(), PairJob{
		JobID:    "job-1",
		URL:      "https://images.example.com/photo-1",
		GameDate: "2025-12-25",
	})

	if len(store.dates) != 1 || store.dates[0] != "2025-12-25" {
		t.Errorf("expected game resolution for the job date, got %v", store.dates)
	}
	if len(pipeline.gameIDs) != 1 || pipeline.gameIDs[0] != "game-1" {
		t.Errorf("expected the pair attached to the resolved game, got %v", pipeline.gameIDs)
	}
}

func TestProcessJobWithoutGameDate(t *testing.T) {
	pipeline := &stubPipeline{}
	store := &stubGameStore{}
	w := NewWorker(nil, pipeline, store, 0)

	w.processJob(context.Background(), PairJob{
		JobID: "job-2",
		URL:   "https://images.example.com/photo-2",
	})

	if len(store.dates) != 0 {
		t.Error("no game resolution may happen without a date")
	}
	if len(pipeline.gameIDs) != 1 || pipeline.gameIDs[0] != "" {
		t.Errorf("expected an unattached pair, got %v", pipeline.gameIDs)
	}
}

func TestProcessJobGameFailureSkipsPipeline(t *testing.T) {
	pipeline := &stubPipeline{}
	store := &stubGameStore{err: errors.New("insert rejected")}
	w := NewWorker(nil, pipeline, store, 0)

	w.processJob(context.Background(), PairJob{
		JobID:    "job-3",
		URL:      "https://images.example.com/photo-3",
		GameDate: "2025-12-25",
	})

	if len(pipeline.urls) != 0 {
		t.Error("the pipeline may not run when the game cannot be resolved")
	}
}

func decodeEnqueueResponse(t *testing.T, rec *httptest.ResponseRecorder) EnqueueResponse {
	var resp EnqueueResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestHandleEnqueueMissingURL(t *testing.T) {
	h := NewEnqueueHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/enqueue", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.HandleEnqueue(rec, req)

	resp := decodeEnqueueResponse(t, rec)
	if resp.Success {
		t.Error("expected rejection for missing url")
	}
	if resp.Error != "url is required" {
		t.Errorf("unexpected error message %q", resp.Error)
	}
}

func TestHandleEnqueueBadGameDate(t *testing.T) {
	h := NewEnqueueHandler(nil)

	body := `{"url": "https://images.example.com/photo-1", "game_date": "25-12-2025"}`
	req := httptest.NewRequest(http.MethodPost, "/enqueue", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleEnqueue(rec, req)

	resp := decodeEnqueueResponse(t, rec)
	if resp.Success {
		t.Error("expected rejection for malformed game_date")
	}
	if resp.Error != "game_date must be YYYY-MM-DD" {
		t.Errorf("unexpected error message %q", resp.Error)
	}
}

func TestHandleEnqueueInvalidBody(t *testing.T) {
	h := NewEnqueueHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/enqueue", strings.NewReader(`not json`))
	rec := httptest.NewRecorder()
	h.HandleEnqueue(rec, req)

	resp := decodeEnqueueResponse(t, rec)
	if resp.Success {
		t.Error("expected rejection for invalid body")
	}
}
