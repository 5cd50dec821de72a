package worker

import (
	"context"
	"log"

	"github.com/go-co-op/gocron/v2"

	"banana-image-pipeline/modules/schedule"
)

// StartWeeklyCron - run CreateWeek automatically on a crontab
// schedule. Returns the scheduler so the caller owns shutdown.
func StartWeeklyCron(crontab string, sched *schedule.Scheduler, imagesPerDay, startOffsetDays int) (gocron.Scheduler, error) {
	cronSched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = cronSched.NewJob(
		gocron.CronJob(crontab, false),
		gocron.NewTask(func() {
			log.Printf("⏰ [Cron] Weekly schedule run starting (per-day: %d, offset: %d)", imagesPerDay, startOffsetDays)
			report, err := sched.CreateWeek(context.Background(), imagesPerDay, startOffsetDays)
			if err != nil {
				log.Printf("❌ [Cron] Weekly schedule run failed: %v", err)
				return
			}
			log.Printf("✅ [Cron] Weekly schedule run finished: %d processed, %d failed",
				report.TotalProcessed, report.TotalFailed)
		}),
	)
	if err != nil {
		return nil, err
	}

	cronSched.Start()
	log.Printf("🔄 Weekly schedule cron started: %q", crontab)
	return cronSched, nil
}
