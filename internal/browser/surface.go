package browser

import (
	"context"

	"github.com/adhruv/bms-events/internal/extract"
)

// Surface is one live rendered page, exclusively owned for the duration
// of a scrape. Real implementations wrap a headless browser tab; tests
// inject scripted fakes, so the stabilization loop and the extraction
// pipeline never need a running browser.
type Surface interface {
	// Navigate loads the given URL and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error

	// ScrollTo moves the vertical scroll position to y pixels.
	ScrollTo(ctx context.Context, y int) error

	// ScrollPosition reports the current vertical scroll position.
	ScrollPosition(ctx context.Context) (int, error)

	// ContentHeight reports the full document height. It grows as the
	// virtually-scrolling list lazy-loads more content.
	ContentHeight(ctx context.Context) (int, error)

	// ViewportHeight reports the window height.
	ViewportHeight(ctx context.Context) (int, error)

	// LinkCount counts listing-detail anchors currently in the DOM.
	LinkCount(ctx context.Context) (int, error)

	// Links captures every listing-detail anchor with its rendered text
	// and first card image.
	Links(ctx context.Context) ([]extract.CardLink, error)

	// HTML returns the serialized current DOM.
	HTML(ctx context.Context) (string, error)

	Close() error
}

// Factory opens a fresh Surface for one scrape. The caller owns the
// returned surface and must close it.
type Factory interface {
	Open(ctx context.Context) (Surface, error)
}
