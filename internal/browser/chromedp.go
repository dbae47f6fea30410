package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"

	"github.com/adhruv/bms-events/internal/extract"
)

const defaultLinkSelector = `a[href*="/events/"]`

// ChromeFactory opens headless Chromium tabs via chromedp.
type ChromeFactory struct {
	Headless     bool
	UserAgent    string
	LinkSelector string // defaults to the listing-detail anchor selector
}

// Open launches a browser and returns a surface wrapping a fresh tab.
func (f ChromeFactory) Open(ctx context.Context) (Surface, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.WindowSize(1920, 1080),
	)
	if f.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	sel := f.LinkSelector
	if sel == "" {
		sel = defaultLinkSelector
	}
	return &chromeSurface{
		linkSelector: sel,
		tab:          tabCtx,
		tabCancel:    tabCancel,
		allocCancel:  allocCancel,
	}, nil
}

// chromeSurface is a Surface backed by one Chromium tab.
type chromeSurface struct {
	linkSelector string
	tab          context.Context
	tabCancel    context.CancelFunc
	allocCancel  context.CancelFunc
}

// run executes actions on the tab while honoring the caller's context.
// The tab has its own lifetime; a caller timeout abandons the action and
// the tab is torn down on Close.
func (c *chromeSurface) run(ctx context.Context, actions ...chromedp.Action) error {
	done := make(chan error, 1)
	go func() { done <- chromedp.Run(c.tab, actions...) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *chromeSurface) evaluate(ctx context.Context, expr string, res any) error {
	return c.run(ctx, chromedp.Evaluate(expr, res))
}

func (c *chromeSurface) Navigate(ctx context.Context, url string) error {
	return c.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body"))
}

func (c *chromeSurface) ScrollTo(ctx context.Context, y int) error {
	return c.evaluate(ctx, fmt.Sprintf(`window.scrollTo({top: %d, behavior: "smooth"})`, y), nil)
}

func (c *chromeSurface) ScrollPosition(ctx context.Context) (int, error) {
	var y int
	err := c.evaluate(ctx, `Math.round(window.scrollY)`, &y)
	return y, err
}

func (c *chromeSurface) ContentHeight(ctx context.Context) (int, error) {
	var h int
	err := c.evaluate(ctx, `document.body.scrollHeight`, &h)
	return h, err
}

func (c *chromeSurface) ViewportHeight(ctx context.Context) (int, error) {
	var h int
	err := c.evaluate(ctx, `window.innerHeight`, &h)
	return h, err
}

func (c *chromeSurface) LinkCount(ctx context.Context) (int, error) {
	var n int
	err := c.evaluate(ctx, fmt.Sprintf(`document.querySelectorAll(%q).length`, c.linkSelector), &n)
	return n, err
}

func (c *chromeSurface) Links(ctx context.Context) ([]extract.CardLink, error) {
	expr := fmt.Sprintf(`Array.from(document.querySelectorAll(%q)).map(a => {
		const img = a.querySelector("img");
		return {
			href: a.getAttribute("href") || "",
			text: a.innerText || "",
			image_src: img ? (img.getAttribute("src") || "") : "",
		};
	})`, c.linkSelector)

	var links []extract.CardLink
	if err := c.evaluate(ctx, expr, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (c *chromeSurface) HTML(ctx context.Context) (string, error) {
	var html string
	err := c.run(ctx, chromedp.OuterHTML("html", &html))
	return html, err
}

func (c *chromeSurface) Close() error {
	c.tabCancel()
	c.allocCancel()
	return nil
}
