package discovery

import (
	"fmt"
	"log"
	"math/rand"
	"strings"

	"banana-image-pipeline/modules/catalog"
	"banana-image-pipeline/modules/common/fault"
)

// AvailableCategories - category slugs eligible for random pool fills
var AvailableCategories = []string{
	"people",
	"animals",
	"nature",
	"architecture",
	"travel",
	"street-photography",
}

const categoryBaseURL = "https://unsplash.com/t/"

// CategoryURL - listing page for a category slug
func CategoryURL(category string) string {
	return categoryBaseURL + category
}

// Service - Source Discovery: scraping plus catalog deduplication
type Service struct {
	scraper *Scraper
	store   catalog.Store
}

func NewService(scraper *Scraper, store catalog.Store) *Service {
	return &Service{scraper: scraper, store: store}
}

// ExistingURLs - exclusion set pre-fetched from the catalog. A fetch
// failure downgrades to an empty set so scraping can proceed without
// duplicate checking.
func (s *Service) ExistingURLs() map[string]struct{} {
	existing, err := s.store.FetchExistingRealURLs()
	if err != nil {
		log.Printf("⚠️  Could not fetch existing URLs from database: %v", err)
		log.Println("   Continuing without duplicate checking...")
		return map[string]struct{}{}
	}
	return existing
}

// ScrapeCategories - scrape a fixed set of categories, perCategory
// images each. Categories that fail are reported empty; the rest
// proceed.
func (s *Service) ScrapeCategories(categories []string, perCategory int) map[string][]string {
	exclude := s.ExistingURLs()
	results := make(map[string][]string, len(categories))

	for _, category := range categories {
		urls, err := s.scraper.ScrapeCategory(CategoryURL(category), perCategory, exclude)
		if err != nil {
			log.Printf("❌ Failed to scrape '%s' category: %v", category, err)
			results[category] = nil
			continue
		}
		for _, u := range urls {
			exclude[u] = struct{}{}
		}
		results[category] = urls
		log.Printf("✅ Scraped %d images from '%s' category", len(urls), category)
	}

	return results
}

// ScrapeFromRandomCategories - fill a pool of exactly totalNeeded
// unique URLs by scraping the fixed category list in shuffled order,
// requesting only the remaining shortfall from each. Strict: fails
// with an insufficient-source fault rather than returning a short
// pool.
func (s *Service) ScrapeFromRandomCategories(totalNeeded int) ([]string, error) {
	categories := make([]string, len(AvailableCategories))
	copy(categories, AvailableCategories)
	rand.Shuffle(len(categories), func(i, j int) {
		categories[i], categories[j] = categories[j], categories[i]
	})

	exclude := s.ExistingURLs()

	var pool []string
	var usedCategories []string

	for _, category := range categories {
		if len(pool) >= totalNeeded {
			break
		}

		log.Printf("--- Scraping category: %s ---", category)
		shortfall := totalNeeded - len(pool)

		urls, err := s.scraper.ScrapeCategory(CategoryURL(category), shortfall, exclude)
		if err != nil {
			log.Printf("❌ Failed to scrape '%s': %v", category, err)
			continue
		}
		if len(urls) == 0 {
			log.Printf("⚠️  No new images found in '%s'", category)
			continue
		}

		for _, u := range urls {
			exclude[u] = struct{}{}
		}
		pool = append(pool, urls...)
		usedCategories = append(usedCategories, category)
		log.Printf("✅ Added %d images from '%s' (total: %d/%d)", len(urls), category, len(pool), totalNeeded)
	}

	log.Printf("Categories used: %s", strings.Join(usedCategories, ", "))

	if len(pool) < totalNeeded {
		return nil, fault.New(fault.InsufficientSource,
			"not enough images: needed %d, found %d", totalNeeded, len(pool))
	}

	return pool[:totalNeeded], nil
}

// Discover - the Scheduler-facing contract: exactly totalNeeded URLs
// or an insufficient-source failure
func (s *Service) Discover(totalNeeded int) ([]string, error) {
	if totalNeeded <= 0 {
		return nil, fmt.Errorf("totalNeeded must be positive, got %d", totalNeeded)
	}
	return s.ScrapeFromRandomCategories(totalNeeded)
}
