// Package browser abstracts the rendering surface behind the scrape and
// implements the scroll-until-stable controller. The Surface interface
// and injected Clock keep the controller testable without a browser; the
// chromedp-backed implementation drives a real headless Chromium tab.
package browser
