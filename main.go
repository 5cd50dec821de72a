package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"banana-image-pipeline/modules/blob"
	"banana-image-pipeline/modules/catalog"
	"banana-image-pipeline/modules/common/config"
	"banana-image-pipeline/modules/discovery"
	"banana-image-pipeline/modules/pair"
	"banana-image-pipeline/modules/schedule"
	"banana-image-pipeline/modules/worker"
)

const (
	defaultImagesPerDay = 10
	defaultStartOffset  = 2
	defaultScrapeCount  = 10
)

// deps - the explicit dependency objects constructed once at process
// start and passed into every mode
type deps struct {
	store     *catalog.SupabaseStore
	pipeline  *pair.Pipeline
	discovery *discovery.Service
	scheduler *schedule.Scheduler
}

func buildDeps(ctx context.Context, cfg *config.Config) (*deps, error) {
	store, err := catalog.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseServiceKey)
	if err != nil {
		return nil, err
	}

	genaiClient, err := pair.NewGenaiClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	pipeline := pair.NewPipeline(
		pair.NewHTTPFetcher(),
		pair.NewGeminiDescriber(genaiClient, cfg.GeminiVisionModel),
		pair.NewGeminiGenerator(genaiClient, cfg.GeminiImageModel),
		blob.NewPublisher(cfg.BlobStoreURL, cfg.BlobToken),
		store,
	)

	scraper := discovery.NewScraper(func() (discovery.Browser, func(), error) {
		browser, cleanup, err := discovery.NewChromeBrowser()
		if err != nil {
			return nil, nil, err
		}
		return browser, cleanup, nil
	}, cfg.ScrapeMaxScrolls, cfg.ScrapeSettle)

	disc := discovery.NewService(scraper, store)
	scheduler := schedule.NewScheduler(pipeline, disc, store, cfg.PairDelay)

	return &deps{
		store:     store,
		pipeline:  pipeline,
		discovery: disc,
		scheduler: scheduler,
	}, nil
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  1. Process a single image URL:")
	fmt.Println("     banana-image-pipeline <image-url>")
	fmt.Println()
	fmt.Println("  2. Scrape categories:")
	fmt.Println("     banana-image-pipeline --scrape <category1> <category2> ... [--count N]")
	fmt.Println()
	fmt.Println("  3. Scrape and process images:")
	fmt.Println("     banana-image-pipeline --scrape-and-process <category1> <category2> ... [--count N]")
	fmt.Println()
	fmt.Println("  4. Create a week of games (recommended):")
	fmt.Println("     banana-image-pipeline --create-week [--per-day N] [--start-offset N]")
	fmt.Println()
	fmt.Println("  5. Create a single day:")
	fmt.Println("     banana-image-pipeline --create-day <YYYY-MM-DD> [--count N]")
	fmt.Println()
	fmt.Println("  6. Run the queue server:")
	fmt.Println("     banana-image-pipeline --serve")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  banana-image-pipeline https://example.com/image.jpg")
	fmt.Println("  banana-image-pipeline --scrape people animals nature --count 5")
	fmt.Println("  banana-image-pipeline --create-week --per-day 10 --start-offset 2")
	fmt.Println("  banana-image-pipeline --create-day 2025-12-25 --count 10")
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx := context.Background()
	d, err := buildDeps(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize clients: %v", err)
	}

	mode := os.Args[1]
	switch {
	case !strings.HasPrefix(mode, "--"):
		runSingle(ctx, d, mode)
	case mode == "--scrape" || mode == "--scrape-and-process":
		runScrape(ctx, d, cfg, mode, os.Args[2:])
	case mode == "--create-week":
		runCreateWeek(ctx, d, os.Args[2:])
	case mode == "--create-day":
		runCreateDay(ctx, d, os.Args[2:])
	case mode == "--serve":
		runServe(cfg, d)
	default:
		fmt.Printf("Unknown mode: %s\n", mode)
		printUsage()
		os.Exit(1)
	}
}

// runSingle - process one pair with no game linkage
func runSingle(ctx context.Context, d *deps, imageURL string) {
	result, err := d.pipeline.ProcessPair(ctx, imageURL, "")
	if err != nil {
		fmt.Printf("Failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Result ===")
	fmt.Printf("  Real File ID: %s\n", result.RealFileID)
	fmt.Printf("  Generated File ID: %s\n", result.GeneratedFileID)
	fmt.Printf("  Prompt: %s\n", result.Prompt)
}

// runScrape - scrape the named categories; with --scrape-and-process,
// run the pipeline per scraped URL without a game
func runScrape(ctx context.Context, d *deps, cfg *config.Config, mode string, args []string) {
	var categories []string
	perCategory := defaultScrapeCount

	for i := 0; i < len(args); i++ {
		if args[i] == "--count" && i+1 < len(args) {
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				fmt.Printf("Error: invalid --count value %q\n", args[i+1])
				os.Exit(1)
			}
			perCategory = n
			i++
		} else {
			categories = append(categories, args[i])
		}
	}

	if len(categories) == 0 {
		fmt.Println("Error: Please specify at least one category to scrape")
		fmt.Println("Example: banana-image-pipeline --scrape people animals --count 5")
		os.Exit(1)
	}

	log.Printf("=== Scraping %d categories (%d images each) ===", len(categories), perCategory)

	results := d.discovery.ScrapeCategories(categories, perCategory)

	fmt.Println("=== Scraping Complete ===")
	total := 0
	for _, category := range categories {
		fmt.Printf("%s: %d images\n", category, len(results[category]))
		total += len(results[category])
	}
	fmt.Printf("Total: %d images\n", total)

	if mode == "--scrape" {
		fmt.Println("Image URLs:")
		for _, category := range categories {
			fmt.Printf("\n%s:\n", strings.ToUpper(category))
			for _, url := range results[category] {
				fmt.Printf("  %s\n", url)
			}
		}
		return
	}

	// --scrape-and-process: every scraped URL through the pipeline
	processed := 0
	failed := 0
	for _, category := range categories {
		urls := results[category]
		for idx, url := range urls {
			log.Printf("[%s %d/%d] Processing: %s", category, idx+1, len(urls), url)
			result, err := d.pipeline.ProcessPair(ctx, url, "")
			if err != nil {
				failed++
				log.Printf("❌ Failed: %v", err)
			} else {
				processed++
				log.Printf("✅ Success - Real: %s, Generated: %s", result.RealFileID, result.GeneratedFileID)
			}
			if idx < len(urls)-1 {
				time.Sleep(cfg.PairDelay)
			}
		}
	}

	fmt.Println("=== Processing Complete ===")
	fmt.Printf("Successfully processed: %d\n", processed)
	fmt.Printf("Failed: %d\n", failed)
}

// runCreateWeek - schedule the next 7 game days
func runCreateWeek(ctx context.Context, d *deps, args []string) {
	imagesPerDay := defaultImagesPerDay
	startOffset := defaultStartOffset

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--per-day" && i+1 < len(args):
			if n, err := strconv.Atoi(args[i+1]); err == nil {
				imagesPerDay = n
			}
			i++
		case args[i] == "--start-offset" && i+1 < len(args):
			if n, err := strconv.Atoi(args[i+1]); err == nil {
				startOffset = n
			}
			i++
		default:
			fmt.Printf("Warning: Unknown argument '%s' - ignoring\n", args[i])
		}
	}

	report, err := d.scheduler.CreateWeek(ctx, imagesPerDay, startOffset)
	if err != nil {
		fmt.Printf("Failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Games created for:")
	for _, day := range report.Days {
		fmt.Printf("  • %s (processed: %d, failed: %d)\n", day.Date, day.Processed, day.Failed)
	}
}

// runCreateDay - schedule a single game day
func runCreateDay(ctx context.Context, d *deps, args []string) {
	if len(args) < 1 {
		fmt.Println("Error: Please specify a date")
		fmt.Println("Example: banana-image-pipeline --create-day 2025-12-25 --count 10")
		os.Exit(1)
	}

	gameDate := args[0]
	if _, err := time.Parse(schedule.DateLayout, gameDate); err != nil {
		fmt.Printf("Error: Invalid date format '%s'\n", gameDate)
		fmt.Println("Please use YYYY-MM-DD format (e.g., 2025-12-25)")
		os.Exit(1)
	}

	count := defaultScrapeCount
	for i := 1; i < len(args); i++ {
		if args[i] == "--count" && i+1 < len(args) {
			if n, err := strconv.Atoi(args[i+1]); err == nil {
				count = n
			}
			i++
		} else {
			fmt.Printf("Warning: Unknown argument '%s' - ignoring\n", args[i])
		}
	}

	report, err := d.scheduler.CreateDay(ctx, gameDate, count)
	if err != nil {
		fmt.Printf("Failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Game Creation Complete ===")
	fmt.Printf("Date: %s\n", report.Date)
	fmt.Printf("Game ID: %s\n", report.GameID)
	fmt.Printf("Successfully processed: %d/%d\n", report.Processed, count)
	fmt.Printf("Failed: %d\n", report.Failed)
}

// enableCORS - allow the game frontend to hit the queue endpoints
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "banana-image-pipeline",
	})
}

// runServe - queue server mode: Redis pair worker + HTTP enqueue
// routes + optional weekly cron
func runServe(cfg *config.Config, d *deps) {
	rdb := worker.ConnectRedis(cfg)
	if rdb == nil {
		log.Fatal("❌ Failed to connect to Redis")
	}
	log.Println("✅ Redis connected successfully")

	pairWorker := worker.NewWorker(rdb, d.pipeline, d.store, cfg.PairDelay)
	go pairWorker.Run()

	if cfg.WeeklyCron != "" {
		if _, err := worker.StartWeeklyCron(cfg.WeeklyCron, d.scheduler, defaultImagesPerDay, defaultStartOffset); err != nil {
			log.Fatalf("❌ Failed to start weekly cron: %v", err)
		}
	}

	r := mux.NewRouter()
	r.Use(enableCORS)
	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	worker.NewEnqueueHandler(rdb).RegisterRoutes(r)

	log.Printf("🚀 Pair pipeline server starting on port %s", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("📥 Enqueue: POST http://localhost:%s/enqueue", cfg.Port)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
