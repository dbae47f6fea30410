package notifier

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/adhruv/bms-events/internal/event"
)

// TwitterNotifier announces newly discovered city events on Twitter.
type TwitterNotifier struct {
	client *twitter.Client
}

// NewTwitterNotifier creates a Twitter notifier from environment
// variables: TWITTER_API_KEY, TWITTER_API_SECRET, TWITTER_ACCESS_TOKEN,
// TWITTER_ACCESS_SECRET.
func NewTwitterNotifier() (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return &TwitterNotifier{client: twitter.NewClient(httpClient)}, nil
}

// Notify posts one tweet per event, pausing between posts to stay under
// rate limits.
func (n *TwitterNotifier) Notify(events []event.Event) error {
	for i, ev := range events {
		post := formatPost(ev)

		_, _, err := n.client.Statuses.Update(post, nil)
		if err != nil {
			return fmt.Errorf("posting tweet for %s: %w", ev.SourceURL, err)
		}

		if i < len(events)-1 {
			time.Sleep(2 * time.Second)
		}
	}
	return nil
}

// formatPost renders one event announcement, capped at the 280-character
// tweet limit.
func formatPost(ev event.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New event in %s!\n\n", titleCity(ev.City))
	fmt.Fprintf(&b, "%s\n", ev.Name)
	if ev.Date != "" {
		fmt.Fprintf(&b, "Date: %s\n", ev.Date)
	}
	if ev.Venue != "" {
		fmt.Fprintf(&b, "Venue: %s\n", ev.Venue)
	}
	if ev.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", ev.Category)
	}
	fmt.Fprintf(&b, "\n%s", ev.SourceURL)

	post := b.String()
	if len(post) > 280 {
		post = post[:277] + "..."
	}
	return post
}

// titleCity capitalizes a lower-cased city identifier for display.
func titleCity(city string) string {
	if city == "" {
		return city
	}
	return strings.ToUpper(city[:1]) + city[1:]
}
