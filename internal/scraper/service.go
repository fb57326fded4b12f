package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// Viewport size used for brand page captures.
const (
	viewportWidth  = 1280
	viewportHeight = 800
)

// ErrBrowserNotFound is returned when no Chromium binary is available to rod.
var ErrBrowserNotFound = errors.New("rod browser dependency not found")

// RodCapturer implements Capturer using the rod library.
type RodCapturer struct {
	log     logrus.FieldLogger
	timeout time.Duration
}

// NewRodCapturer creates a capturer that gives each page at most timeout to load.
func NewRodCapturer(logger logrus.FieldLogger, timeout time.Duration) *RodCapturer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RodCapturer{
		log:     logger.WithField("component", "scraper"),
		timeout: timeout,
	}
}

// ValidateURL accepts only absolute http(s) URLs.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url has no host")
	}
	return nil
}

// CaptureScreenshot launches a browser, loads pageURL and screenshots the viewport.
func (s *RodCapturer) CaptureScreenshot(ctx context.Context, pageURL string) (img []byte, err error) {
	log := s.log.WithField("url", pageURL)
	if err := ValidateURL(pageURL); err != nil {
		return nil, err
	}
	log.Info("Capturing page screenshot")

	path, exists := launcher.LookPath()
	if !exists {
		log.Error("Cannot find browser executable for rod")
		return nil, ErrBrowserNotFound
	}
	u, err := launcher.New().Bin(path).Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		log.WithError(err).Error("Failed to connect to rod browser")
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() {
		if closeErr := browser.Close(); closeErr != nil {
			log.WithError(closeErr).Error("Error closing rod browser instance")
			if err == nil {
				err = fmt.Errorf("error closing browser: %w", closeErr)
			}
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		log.WithError(err).Error("Failed to create rod page")
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	pageCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	page = page.Context(pageCtx)

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	if err := page.WaitLoad(); err != nil {
		if errors.Is(pageCtx.Err(), context.DeadlineExceeded) {
			log.WithError(pageCtx.Err()).Warn("Page capture timed out")
			return nil, fmt.Errorf("capture timed out for %s: %w", pageURL, pageCtx.Err())
		}
		log.WithError(err).Error("Failed to wait for page load")
		return nil, fmt.Errorf("failed waiting for page load: %w", err)
	}

	img, err = page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		log.WithError(err).Error("Failed to take screenshot")
		return nil, fmt.Errorf("failed to take screenshot: %w", err)
	}

	log.WithField("bytes", len(img)).Info("Page captured")
	return img, nil
}
