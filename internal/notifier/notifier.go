package notifier

import (
	"github.com/adhruv/bms-events/internal/event"
)

// Notifier posts announcements for newly discovered events.
type Notifier interface {
	Notify(events []event.Event) error
}
