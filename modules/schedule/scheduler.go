package schedule

import (
	"context"
	"log"
	"time"

	"banana-image-pipeline/modules/common/fault"
	"banana-image-pipeline/modules/pair"
)

// DateLayout - calendar-day key format for game records
const DateLayout = "2006-01-02"

// DaysPerWeek - size of one game schedule window
const DaysPerWeek = 7

// PairProcessor - the Pair Pipeline contract the scheduler drives
type PairProcessor interface {
	ProcessPair(ctx context.Context, realURL string, gameID string) (*pair.Result, error)
}

// SourceDiscoverer - supplies exactly totalNeeded source URLs or fails
type SourceDiscoverer interface {
	Discover(totalNeeded int) ([]string, error)
}

// GameStore - the slice of the catalog the scheduler needs
type GameStore interface {
	GetOrCreateGame(date string) (string, error)
}

// DayReport - outcome of processing one game day
type DayReport struct {
	Date      string
	GameID    string
	Processed int
	Failed    int
}

// WeekReport - aggregated outcome of a 7-day schedule run
type WeekReport struct {
	Days           []DayReport
	TotalProcessed int
	TotalFailed    int
}

// Scheduler - partitions a source-image pool across game days and
// drives the Pair Pipeline once per image, strictly sequentially
type Scheduler struct {
	pipeline  PairProcessor
	discovery SourceDiscoverer
	store     GameStore

	// delay - cooperative pacing between pipeline runs, not a rate
	// limiter
	delay time.Duration
	now   func() time.Time
	sleep func(time.Duration)
}

func NewScheduler(pipeline PairProcessor, discovery SourceDiscoverer, store GameStore, delay time.Duration) *Scheduler {
	return &Scheduler{
		pipeline:  pipeline,
		discovery: discovery,
		store:     store,
		delay:     delay,
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

// WeekDates - numDays consecutive YYYY-MM-DD dates starting daysAhead
// from now
func (s *Scheduler) WeekDates(daysAhead, numDays int) []string {
	start := s.now().AddDate(0, 0, daysAhead)
	dates := make([]string, 0, numDays)
	for i := 0; i < numDays; i++ {
		dates = append(dates, start.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates
}

// PartitionPool - split the pool into contiguous, non-overlapping
// slices of perDay in list order. Concatenating the slices reproduces
// the pool.
func PartitionPool(pool []string, perDay int) [][]string {
	var slices [][]string
	for start := 0; start < len(pool); start += perDay {
		end := start + perDay
		if end > len(pool) {
			end = len(pool)
		}
		slices = append(slices, pool[start:end])
	}
	return slices
}

// CreateWeek - schedule 7 consecutive game days starting
// startOffsetDays from now, imagesPerDay pairs each. The whole pool is
// discovered up front; a single image failure never aborts the rest of
// its day or subsequent days.
func (s *Scheduler) CreateWeek(ctx context.Context, imagesPerDay, startOffsetDays int) (*WeekReport, error) {
	dates := s.WeekDates(startOffsetDays, DaysPerWeek)
	totalNeeded := DaysPerWeek * imagesPerDay

	log.Println("============================================================")
	log.Println("  CREATING WEEKLY GAME SCHEDULE")
	log.Println("============================================================")
	log.Printf("Images per day: %d", imagesPerDay)
	log.Printf("Start date: %s, end date: %s", dates[0], dates[len(dates)-1])
	log.Printf("Total images needed: %d", totalNeeded)

	pool, err := s.discovery.Discover(totalNeeded)
	if err != nil {
		return nil, err
	}

	daySlices := PartitionPool(pool, imagesPerDay)

	report := &WeekReport{}
	for dayIdx, date := range dates {
		log.Println("------------------------------------------------------------")
		log.Printf("  DAY %d/%d - %s", dayIdx+1, DaysPerWeek, date)
		log.Println("------------------------------------------------------------")

		day := s.processDay(ctx, date, daySlices[dayIdx])
		report.Days = append(report.Days, day)
		report.TotalProcessed += day.Processed
		report.TotalFailed += day.Failed
	}

	log.Println("============================================================")
	log.Println("  WEEKLY SCHEDULE COMPLETE!")
	log.Printf("Successfully processed: %d/%d", report.TotalProcessed, totalNeeded)
	log.Printf("Failed: %d", report.TotalFailed)
	log.Println("============================================================")

	return report, nil
}

// CreateDay - schedule a single game day with count pairs
func (s *Scheduler) CreateDay(ctx context.Context, date string, count int) (*DayReport, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, err
	}

	log.Println("============================================================")
	log.Printf("  CREATING GAME FOR %s", date)
	log.Println("============================================================")
	log.Printf("Images needed: %d", count)

	pool, err := s.discovery.Discover(count)
	if err != nil {
		return nil, err
	}

	day := s.processDay(ctx, date, pool)
	return &day, nil
}

// ProcessForDate - run one pool of URLs against an existing date
// without discovery (used by --scrape-and-process style callers)
func (s *Scheduler) ProcessForDate(ctx context.Context, date string, urls []string) DayReport {
	return s.processDay(ctx, date, urls)
}

// processDay - get-or-create the game, then run the pipeline per URL
// in pool order, tallying outcomes. Stage failures are logged by kind
// and counted; the loop always continues.
func (s *Scheduler) processDay(ctx context.Context, date string, urls []string) DayReport {
	report := DayReport{Date: date}

	gameID, err := s.store.GetOrCreateGame(date)
	if err != nil {
		log.Printf("❌ Failed to create game for %s: %v", date, err)
		report.Failed = len(urls)
		return report
	}
	report.GameID = gameID

	for i, url := range urls {
		log.Printf("[Image %d/%d] %s", i+1, len(urls), url)

		result, err := s.pipeline.ProcessPair(ctx, url, gameID)
		if err != nil {
			report.Failed++
			if kind := fault.KindOf(err); kind != "" {
				log.Printf("❌ Failed at %s stage: %v", kind, err)
			} else {
				log.Printf("❌ Failed: %v", err)
			}
		} else {
			report.Processed++
			log.Printf("✅ Success - Pair %s", result.FilePairID)
		}

		// Pacing between external calls
		if i < len(urls)-1 {
			s.sleep(s.delay)
		}
	}

	return report
}
