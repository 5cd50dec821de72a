package catalog

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/supabase-community/supabase-go"

	"banana-image-pipeline/modules/common/fault"
)

// SupabaseStore - Store implementation backed by Supabase postgrest
type SupabaseStore struct {
	supabase *supabase.Client
}

// NewSupabaseStore - create the catalog client
func NewSupabaseStore(url, serviceKey string) (*SupabaseStore, error) {
	client, err := supabase.NewClient(url, serviceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	return &SupabaseStore{supabase: client}, nil
}

// GetOrCreateModel - select the model by its unique name, insert if absent.
// Select-then-insert is not atomic against concurrent callers; uniqueness
// belongs to the database schema.
func (s *SupabaseStore) GetOrCreateModel(name string) (string, error) {
	var models []ModelRecord

	data, _, err := s.supabase.From("models").
		Select("id", "", false).
		Eq("name", name).
		Execute()
	if err != nil {
		return "", fault.Wrap(fault.Persistence, fmt.Errorf("failed to query models: %w", err))
	}
	if err := json.Unmarshal(data, &models); err != nil {
		return "", fault.Wrap(fault.Persistence, fmt.Errorf("failed to parse models response: %w", err))
	}

	if len(models) > 0 {
		return models[0].ID, nil
	}

	data, _, err = s.supabase.From("models").
		Insert(map[string]interface{}{"name": name}, false, "", "", "").
		Execute()
	if err != nil {
		return "", fault.Wrap(fault.Persistence, fmt.Errorf("failed to create model record: %w", err))
	}
	if err := json.Unmarshal(data, &models); err != nil {
		return "", fault.Wrap(fault.Persistence, fmt.Errorf("failed to parse insert response: %w", err))
	}
	if len(models) == 0 {
		return "", fault.New(fault.Persistence, "no model record returned for %q", name)
	}

	log.Printf("💾 Created model record: %s (%s)", models[0].ID, name)
	return models[0].ID, nil
}

// GetOrCreateGame - select the game by its unique date, insert if absent
func (s *SupabaseStore) GetOrCreateGame(date string) (string, error) {
	log.Printf("🎮 Getting/creating game for date: %s", date)

	var games []GameRecord

	data, _, err := s.supabase.From("games").
		Select("id", "", false).
		Eq("date", date).
		Execute()
	if err != nil {
		return "", fault.Wrap(fault.Persistence, fmt.Errorf("failed to query games: %w", err))
	}
	if err := json.Unmarshal(data, &games); err != nil {
		return "", fault.Wrap(fault.Persistence, fmt.Errorf("failed to parse games response: %w", err))
	}

	if len(games) > 0 {
		log.Printf("✅ Game already exists: %s", games[0].ID)
		return games[0].ID, nil
	}

	data, _, err = s.supabase.From("games").
		Insert(map[string]interface{}{"date": date}, false, "", "", "").
		Execute()
	if err != nil {
		return "", fault.Wrap(fault.Persistence, fmt.Errorf("failed to create game for date %s: %w", date, err))
	}
	if err := json.Unmarshal(data, &games); err != nil {
		return "", fault.Wrap(fault.Persistence, fmt.Errorf("failed to parse insert response: %w", err))
	}
	if len(games) == 0 {
		return "", fault.New(fault.Persistence, "no game record returned for date %s", date)
	}

	log.Printf("✅ Created new game: %s", games[0].ID)
	return games[0].ID, nil
}

// InsertFile - insert a file record and return its id. Files are
// immutable once created.
func (s *SupabaseStore) InsertFile(url, sourceType string, modelID, prompt *string) (string, error) {
	log.Printf("💾 Inserting %s file record...", sourceType)

	insertData := map[string]interface{}{
		"url":         url,
		"source_type": sourceType,
		"source_id":   modelID,
		"prompt":      prompt,
	}

	data, _, err := s.supabase.From("files").
		Insert(insertData, false, "", "", "").
		Execute()
	if err != nil {
		return "", fault.Wrap(fault.Persistence, fmt.Errorf("failed to insert file record: %w", err))
	}

	var files []FileRecord
	if err := json.Unmarshal(data, &files); err != nil {
		return "", fault.Wrap(fault.Persistence, fmt.Errorf("failed to parse file response: %w", err))
	}
	if len(files) == 0 {
		return "", fault.New(fault.Persistence, "no file record returned")
	}

	log.Printf("✅ Created file record: %s", files[0].ID)
	return files[0].ID, nil
}

// InsertFilePair - link a real and a generated file to a game. Vote
// counts start at zero.
func (s *SupabaseStore) InsertFilePair(realFileID, generatedFileID, gameID string) (string, error) {
	log.Printf("🔗 Creating file pair for game %s", gameID)

	insertData := map[string]interface{}{
		"real_file_id":         realFileID,
		"generated_file_id":    generatedFileID,
		"game_id":              gameID,
		"real_vote_count":      0,
		"generated_vote_count": 0,
	}

	data, _, err := s.supabase.From("file_pairs").
		Insert(insertData, false, "", "", "").
		Execute()
	if err != nil {
		return "", fault.Wrap(fault.Persistence, fmt.Errorf("failed to create file pair: %w", err))
	}

	var pairs []FilePairRecord
	if err := json.Unmarshal(data, &pairs); err != nil {
		return "", fault.Wrap(fault.Persistence, fmt.Errorf("failed to parse file pair response: %w", err))
	}
	if len(pairs) == 0 {
		return "", fault.New(fault.Persistence, "no file pair record returned")
	}

	log.Printf("✅ Created file pair: %s", pairs[0].ID)
	return pairs[0].ID, nil
}

// FetchExistingRealURLs - all real-image URLs already catalogued, used
// by discovery for deduplication
func (s *SupabaseStore) FetchExistingRealURLs() (map[string]struct{}, error) {
	log.Println("🔍 Fetching existing real-image URLs from database...")

	data, _, err := s.supabase.From("files").
		Select("url", "", false).
		Eq("source_type", SourceTypeReal).
		Execute()
	if err != nil {
		return nil, fault.Wrap(fault.Persistence, fmt.Errorf("failed to query existing urls: %w", err))
	}

	var files []FileRecord
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, fault.Wrap(fault.Persistence, fmt.Errorf("failed to parse files response: %w", err))
	}

	existing := make(map[string]struct{}, len(files))
	for _, f := range files {
		existing[f.URL] = struct{}{}
	}

	log.Printf("✅ Found %d existing URLs in database", len(existing))
	return existing, nil
}
