package discovery

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

const scraperUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Browser - the minimal headless-browser surface the scraper needs:
// load a page, scroll it, read back the current DOM
type Browser interface {
	Navigate(url string) error
	ScrollToBottom() error
	HTML() (string, error)
}

// ChromeBrowser - Browser over a headless Chrome instance via chromedp
type ChromeBrowser struct {
	ctx context.Context
}

// NewChromeBrowser - start a headless Chrome tab. The returned cleanup
// func releases the browser.
func NewChromeBrowser() (*ChromeBrowser, func(), error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(scraperUserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	taskCtx, cancelTask := chromedp.NewContext(allocCtx)

	// Force the browser process to start so failures surface here
	if err := chromedp.Run(taskCtx); err != nil {
		cancelTask()
		cancelAlloc()
		return nil, nil, fmt.Errorf("failed to start headless browser: %w", err)
	}

	cleanup := func() {
		cancelTask()
		cancelAlloc()
	}
	return &ChromeBrowser{ctx: taskCtx}, cleanup, nil
}

func (b *ChromeBrowser) Navigate(url string) error {
	return chromedp.Run(b.ctx, chromedp.Navigate(url))
}

func (b *ChromeBrowser) ScrollToBottom() error {
	return chromedp.Run(b.ctx,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight);`, nil))
}

func (b *ChromeBrowser) HTML() (string, error) {
	var html string
	if err := chromedp.Run(b.ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", err
	}
	return html, nil
}
