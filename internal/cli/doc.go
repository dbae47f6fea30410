// Package cli wires the scrape pipeline, storage, scheduler, and HTTP
// server behind cobra commands: scrape, serve, and list.
package cli
