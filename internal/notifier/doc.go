// Package notifier announces newly discovered events. The Twitter
// implementation posts one tweet per event; the dry-run implementation
// prints what would be posted, for local testing.
package notifier
