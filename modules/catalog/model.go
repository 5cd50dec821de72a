package catalog

// Source types for file records
const (
	SourceTypeReal      = "real"
	SourceTypeGenerated = "generated"
)

// GeneratorModelName - the fixed name registered for generated files
const GeneratorModelName = "Gemini 2.5 Flash Image"

// ModelRecord - a row in the models table (name is the unique key)
type ModelRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GameRecord - a row in the games table (one game per calendar date)
type GameRecord struct {
	ID   string `json:"id"`
	Date string `json:"date"`
}

// FileRecord - a row in the files table. A real file has no model or
// prompt; a generated file always has both.
type FileRecord struct {
	ID         string  `json:"id"`
	URL        string  `json:"url"`
	SourceType string  `json:"source_type"`
	SourceID   *string `json:"source_id"`
	Prompt     *string `json:"prompt"`
}

// FilePairRecord - a row in the file_pairs table linking one real and
// one generated file to a game. Vote counts are owned by gameplay.
type FilePairRecord struct {
	ID                 string `json:"id"`
	RealFileID         string `json:"real_file_id"`
	GeneratedFileID    string `json:"generated_file_id"`
	GameID             string `json:"game_id"`
	RealVoteCount      int    `json:"real_vote_count"`
	GeneratedVoteCount int    `json:"generated_vote_count"`
}

// Store - the persistence façade the pipeline and scheduler depend on
type Store interface {
	GetOrCreateModel(name string) (string, error)
	GetOrCreateGame(date string) (string, error)
	InsertFile(url, sourceType string, modelID, prompt *string) (string, error)
	InsertFilePair(realFileID, generatedFileID, gameID string) (string, error)
	FetchExistingRealURLs() (map[string]struct{}, error)
}
