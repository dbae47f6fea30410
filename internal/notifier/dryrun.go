package notifier

import (
	"fmt"

	"github.com/adhruv/bms-events/internal/event"
)

// DryRunNotifier prints what would be posted without posting it.
type DryRunNotifier struct{}

// NewDryRunNotifier creates a dry-run notifier.
func NewDryRunNotifier() *DryRunNotifier {
	return &DryRunNotifier{}
}

// Notify prints the posts that would be sent.
func (n *DryRunNotifier) Notify(events []event.Event) error {
	for i, ev := range events {
		post := formatPost(ev)
		fmt.Printf("--- Post %d/%d ---\n", i+1, len(events))
		fmt.Println(post)
		fmt.Printf("\n(Length: %d characters)\n\n", len(post))
	}
	return nil
}
