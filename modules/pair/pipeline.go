package pair

import (
	"context"
	"fmt"
	"log"
	"time"

	"banana-image-pipeline/modules/catalog"
)

// Publisher - uploads bytes to blob storage and returns the public URL
type Publisher interface {
	Publish(ctx context.Context, filename string, data []byte) (string, error)
}

// Result - outcome of one pipeline run. FilePairID is empty when no
// game id was supplied.
type Result struct {
	RealFileID      string
	GeneratedFileID string
	Prompt          string
	FilePairID      string
}

// Pipeline - orchestrates fetch → describe → generate → publish →
// persist into one real/generated pair. Each step hard-depends on the
// previous one succeeding.
//
// There is no partial rollback: if a file insert fails after the blob
// upload succeeded, the uploaded blob and any already-inserted file
// row remain. Accepted limitation of this batch workflow.
type Pipeline struct {
	fetcher   Fetcher
	describer Describer
	generator Generator
	publisher Publisher
	store     catalog.Store

	now func() time.Time
}

// NewPipeline - wire the pipeline with explicit collaborators
func NewPipeline(fetcher Fetcher, describer Describer, generator Generator, publisher Publisher, store catalog.Store) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		describer: describer,
		generator: generator,
		publisher: publisher,
		store:     store,
		now:       time.Now,
	}
}

// ProcessPair - run the full pipeline for one real-image URL. When
// gameID is non-empty the resulting pair is attached to that game.
func (p *Pipeline) ProcessPair(ctx context.Context, realURL string, gameID string) (*Result, error) {
	log.Println("=== Processing Image Pair ===")
	log.Printf("Real image URL: %s", realURL)

	// 1. Download the real image
	realImageData, err := p.fetcher.Fetch(ctx, realURL)
	if err != nil {
		return nil, err
	}

	// 2. Describe it with the vision model
	prompt, err := p.describer.Describe(ctx, realImageData)
	if err != nil {
		return nil, err
	}

	// 3. Synthesize the counterfeit
	generatedImageData, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// 4. Publish the counterfeit under a millisecond-timestamp filename
	timestamp := p.now().UnixMilli()
	filename := fmt.Sprintf("generated-%d.jpg", timestamp)
	generatedURL, err := p.publisher.Publish(ctx, filename, generatedImageData)
	if err != nil {
		return nil, err
	}

	// 5. Resolve the generator model record
	modelID, err := p.store.GetOrCreateModel(catalog.GeneratorModelName)
	if err != nil {
		return nil, err
	}

	// 6. Insert both file records
	realFileID, err := p.store.InsertFile(realURL, catalog.SourceTypeReal, nil, nil)
	if err != nil {
		return nil, err
	}
	generatedFileID, err := p.store.InsertFile(generatedURL, catalog.SourceTypeGenerated, &modelID, &prompt)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RealFileID:      realFileID,
		GeneratedFileID: generatedFileID,
		Prompt:          prompt,
	}

	// 7. Attach the pair to the game when one was supplied
	if gameID != "" {
		filePairID, err := p.store.InsertFilePair(realFileID, generatedFileID, gameID)
		if err != nil {
			return nil, err
		}
		result.FilePairID = filePairID
	}

	log.Println("=== Success! ===")
	log.Printf("Real file ID: %s", result.RealFileID)
	log.Printf("Generated file ID: %s", result.GeneratedFileID)
	if result.FilePairID != "" {
		log.Printf("File pair ID: %s", result.FilePairID)
	}

	return result, nil
}
