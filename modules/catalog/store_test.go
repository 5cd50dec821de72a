package catalog

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"banana-image-pipeline/modules/common/fault"
)

// fakePostgrest routes rest calls by method and table path, recording
// insert bodies for assertions
type fakePostgrest struct {
	selectResponses map[string]string
	insertResponses map[string]string
	insertBodies    map[string][]string
}

func newFakePostgrest() *fakePostgrest {
	return &fakePostgrest{
		selectResponses: map[string]string{},
		insertResponses: map[string]string{},
		insertBodies:    map[string][]string{},
	}
}

func (f *fakePostgrest) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodGet:
			if resp, ok := f.selectResponses[r.URL.Path]; ok {
				w.Write([]byte(resp))
				return
			}
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			f.insertBodies[r.URL.Path] = append(f.insertBodies[r.URL.Path], string(body))
			if resp, ok := f.insertResponses[r.URL.Path]; ok {
				w.WriteHeader(http.StatusCreated)
				w.Write([]byte(resp))
				return
			}
		}

		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func newTestStore(t *testing.T, fake *fakePostgrest) *SupabaseStore {
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	store, err := NewSupabaseStore(server.URL, "service-key")
	if err != nil {
		t.Fatalf("NewSupabaseStore failed: %v", err)
	}
	return store
}

func TestGetOrCreateModelExisting(t *testing.T) {
	fake := newFakePostgrest()
	fake.selectResponses["/rest/v1/models"] = `[{"id": "model-1", "name": "Gemini 2.5 Flash Image"}]`

	store := newTestStore(t, fake)
	id, err := store.GetOrCreateModel(GeneratorModelName)
	if err != nil {
		t.Fatalf("GetOrCreateModel failed: %v", err)
	}
	if id != "model-1" {
		t.Errorf("expected existing model id, got %q", id)
	}
	if len(fake.insertBodies["/rest/v1/models"]) != 0 {
		t.Error("no insert may happen when the model already exists")
	}
}

func TestGetOrCreateModelInserts(t *testing.T) {
	fake := newFakePostgrest()
	fake.selectResponses["/rest/v1/models"] = `[]`
	fake.insertResponses["/rest/v1/models"] = `[{"id": "model-2", "name": "Gemini 2.5 Flash Image"}]`

	store := newTestStore(t, fake)
	id, err := store.GetOrCreateModel(GeneratorModelName)
	if err != nil {
		t.Fatalf("GetOrCreateModel failed: %v", err)
	}
	if id != "model-2" {
		t.Errorf("expected inserted model id, got %q", id)
	}
	if len(fake.insertBodies["/rest/v1/models"]) != 1 {
		t.Fatal("expected exactly one model insert")
	}
}

func TestGetOrCreateGame(t *testing.T) {
	fake := newFakePostgrest()
	fake.selectResponses["/rest/v1/games"] = `[]`
	fake.insertResponses["/rest/v1/games"] = `[{"id": "game-1", "date": "2025-12-25"}]`

	store := newTestStore(t, fake)
	id, err := store.GetOrCreateGame("2025-12-25")
	if err != nil {
		t.Fatalf("GetOrCreateGame failed: %v", err)
	}
	if id != "game-1" {
		t.Errorf("expected new game id, got %q", id)
	}
}

func TestInsertFile(t *testing.T) {
	fake := newFakePostgrest()
	fake.insertResponses["/rest/v1/files"] = `[{"id": "file-1", "url": "https://blob.example.com/generated-1.jpg"}]`

	store := newTestStore(t, fake)

	modelID := "model-1"
	prompt := "a red barn at dusk"
	id, err := store.InsertFile("https://blob.example.com/generated-1.jpg", SourceTypeGenerated, &modelID, &prompt)
	if err != nil {
		t.Fatalf("InsertFile failed: %v", err)
	}
	if id != "file-1" {
		t.Errorf("expected inserted file id, got %q", id)
	}

	bodies := fake.insertBodies["/rest/v1/files"]
	if len(bodies) != 1 {
		t.Fatal("expected exactly one file insert")
	}
	for _, field := range []string{`"source_type":"generated"`, `"source_id":"model-1"`, `"prompt":"a red barn at dusk"`} {
		if !strings.Contains(bodies[0], field) {
			t.Errorf("insert body missing %s: %s", field, bodies[0])
		}
	}
}

func TestInsertFilePair(t *testing.T) {
	fake := newFakePostgrest()
	fake.insertResponses["/rest/v1/file_pairs"] = `[{"id": "pair-1"}]`

	store := newTestStore(t, fake)
	id, err := store.InsertFilePair("file-real", "file-generated", "game-1")
	if err != nil {
		t.Fatalf("InsertFilePair failed: %v", err)
	}
	if id != "pair-1" {
		t.Errorf("expected inserted pair id, got %q", id)
	}

	bodies := fake.insertBodies["/rest/v1/file_pairs"]
	if len(bodies) != 1 {
		t.Fatal("expected exactly one pair insert")
	}
	for _, field := range []string{`"real_vote_count":0`, `"generated_vote_count":0`, `"game_id":"game-1"`} {
		if !strings.Contains(bodies[0], field) {
			t.Errorf("insert body missing %s: %s", field, bodies[0])
		}
	}
}

func TestFetchExistingRealURLs(t *testing.T) {
	fake := newFakePostgrest()
	fake.selectResponses["/rest/v1/files"] = `[
		{"url": "https://images.unsplash.com/photo-1"},
		{"url": "https://images.unsplash.com/photo-2"}
	]`

	store := newTestStore(t, fake)
	existing, err := store.FetchExistingRealURLs()
	if err != nil {
		t.Fatalf("FetchExistingRealURLs failed: %v", err)
	}

	if len(existing) != 2 {
		t.Fatalf("expected 2 urls, got %d", len(existing))
	}
	if _, ok := existing["https://images.unsplash.com/photo-1"]; !ok {
		t.Error("expected photo-1 in the exclusion set")
	}
}

func TestInsertFileEmptyResponse(t *testing.T) {
	fake := newFakePostgrest()
	fake.insertResponses["/rest/v1/files"] = `[]`

	store := newTestStore(t, fake)
	_, err := store.InsertFile("https://example.com/x.jpg", SourceTypeReal, nil, nil)
	if err == nil {
		t.Fatal("expected error when no record is returned")
	}
	if !fault.IsKind(err, fault.Persistence) {
		t.Errorf("expected persistence fault, got %v", err)
	}
}
