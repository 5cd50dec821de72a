package discovery

import (
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	premiumHost   = "plus.unsplash.com"
	premiumMarker = "premium_photo"
	freeImageHost = "images.unsplash.com"
)

// srcsetURLPattern - candidates in a responsive source set:
// "url1 400w, url2 800w, url3 1200w"
var srcsetURLPattern = regexp.MustCompile(`(https://\S+)\s+\d+w`)

// Scraper - collects free, not-yet-catalogued image URLs from category
// listing pages by scrolling a headless browser
type Scraper struct {
	newBrowser  func() (Browser, func(), error)
	maxScrolls  int
	settle      time.Duration
	initialWait time.Duration
}

// NewScraper - maxScrolls bounds the scroll budget per category,
// settle is the wait after each scroll for lazy content to load
func NewScraper(newBrowser func() (Browser, func(), error), maxScrolls int, settle time.Duration) *Scraper {
	return &Scraper{
		newBrowser:  newBrowser,
		maxScrolls:  maxScrolls,
		settle:      settle,
		initialWait: 3 * time.Second,
	}
}

// ScrapeCategory - collect up to maxImages unique free image URLs from
// one category page, skipping anything in exclude. May return fewer
// than maxImages when the scroll budget runs out; the caller decides
// whether that is fatal.
func (s *Scraper) ScrapeCategory(categoryURL string, maxImages int, exclude map[string]struct{}) ([]string, error) {
	log.Printf("🌐 Scraping category: %s", categoryURL)
	log.Printf("   Looking for up to %d free images (excluding premium and duplicates)...", maxImages)

	browser, cleanup, err := s.newBrowser()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := browser.Navigate(categoryURL); err != nil {
		return nil, err
	}
	time.Sleep(s.initialWait)

	found := []string{}
	seen := map[string]struct{}{}
	skippedPremium := 0
	skippedDuplicates := 0

	for scroll := 1; scroll <= s.maxScrolls && len(found) < maxImages; scroll++ {
		if err := browser.ScrollToBottom(); err != nil {
			return nil, err
		}
		time.Sleep(s.settle)

		html, err := browser.HTML()
		if err != nil {
			return nil, err
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return nil, err
		}

		doc.Find("img[srcset]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
			srcset, _ := img.Attr("srcset")

			// First candidate of the source set, in encounter order
			match := srcsetURLPattern.FindStringSubmatch(srcset)
			if match == nil {
				return true
			}
			url := match[1]

			if strings.Contains(url, premiumHost) || strings.Contains(url, premiumMarker) {
				skippedPremium++
				return true
			}
			if !strings.Contains(url, freeImageHost) {
				return true
			}

			// Normalize: strip size/quality query parameters
			url = strings.SplitN(url, "?", 2)[0]

			if _, dup := seen[url]; dup {
				return true
			}
			if _, known := exclude[url]; known {
				skippedDuplicates++
				return true
			}

			seen[url] = struct{}{}
			found = append(found, url)
			log.Printf("   Found NEW image %d: %s", len(found), url)

			return len(found) < maxImages
		})

		log.Printf("   Scroll %d/%d: %d new images (skipped %d premium, %d duplicates)",
			scroll, s.maxScrolls, len(found), skippedPremium, skippedDuplicates)
	}

	log.Printf("✅ Scraped %d new image URLs (%d premium skipped, %d duplicates skipped)",
		len(found), skippedPremium, skippedDuplicates)

	if len(found) < maxImages {
		log.Printf("⚠️  Only found %d/%d new images after exhausting the scroll budget", len(found), maxImages)
	}

	return found, nil
}
