package scraper

import "context"

// Capturer renders a web page to an image.
type Capturer interface {
	// CaptureScreenshot loads url and returns a PNG of the visible viewport.
	CaptureScreenshot(ctx context.Context, url string) ([]byte, error)
}
