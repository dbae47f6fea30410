package extract

import "testing"

func TestParseCard(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		city  string
		want  Candidate
	}{
		{
			name:  "Typical card",
			lines: []string{"Comedy Night", "Thu, 20 Feb", "Laugh Club: Jaipur", "Comedy"},
			city:  "jaipur",
			want: Candidate{
				Name:     "Comedy Night",
				DateText: "Thu, 20 Feb",
				Venue:    "Laugh Club",
				Category: "Comedy",
				Source:   SourceDOMText,
			},
		},
		{
			name:  "Price lines skipped",
			lines: []string{"Indie Gig", "₹499 onwards", "1 Mar", "The Den: Mumbai"},
			city:  "mumbai",
			want: Candidate{
				Name:     "Indie Gig",
				DateText: "1 Mar",
				Venue:    "The Den",
				Source:   SourceDOMText,
			},
		},
		{
			name:  "Free and count lines skipped",
			lines: []string{"Open Mic", "FREE", "250", "Today", "Backyard Cafe: Delhi"},
			city:  "delhi",
			want: Candidate{
				Name:     "Open Mic",
				DateText: "Today",
				Venue:    "Backyard Cafe",
				Source:   SourceDOMText,
			},
		},
		{
			name:  "Multiple venues",
			lines: []string{"City Food Walk", "Multiple Dates", "Multiple Venues", "Food & Drinks"},
			city:  "jaipur",
			want: Candidate{
				Name:     "City Food Walk",
				DateText: "Multiple Dates",
				Venue:    "Multiple Venues",
				Category: "Food & Drinks",
				Source:   SourceDOMText,
			},
		},
		{
			name:  "City name is not a category",
			lines: []string{"Art Expo", "Sat, 28 Mar", "JKK: Jaipur", "Jaipur"},
			city:  "jaipur",
			want: Candidate{
				Name:     "Art Expo",
				DateText: "Sat, 28 Mar",
				Venue:    "JKK",
				Source:   SourceDOMText,
			},
		},
		{
			name:  "First date wins",
			lines: []string{"Weekend Fest", "20 Feb", "22 Feb", "Central Park: Lucknow"},
			city:  "lucknow",
			want: Candidate{
				Name:     "Weekend Fest",
				DateText: "20 Feb",
				Venue:    "Central Park",
				Source:   SourceDOMText,
			},
		},
		{
			name:  "Name only",
			lines: []string{"Mystery Event"},
			city:  "jaipur",
			want:  Candidate{Name: "Mystery Event", Source: SourceDOMText},
		},
		{
			name:  "Empty card",
			lines: nil,
			city:  "jaipur",
			want:  Candidate{Source: SourceDOMText},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCard(tt.lines, tt.city)
			if got != tt.want {
				t.Errorf("ParseCard() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLooksLikeDate(t *testing.T) {
	yes := []string{"20 Feb", "Feb 20", "Thu, 20 Feb", "Today", "Tomorrow", "Multiple Dates", "₹499 onwards"}
	no := []string{"Laugh Club: Jaipur", "Comedy", "FREE", "250"}

	for _, line := range yes {
		if !looksLikeDate(line) {
			t.Errorf("looksLikeDate(%q) = false, want true", line)
		}
	}
	for _, line := range no {
		if looksLikeDate(line) {
			t.Errorf("looksLikeDate(%q) = true, want false", line)
		}
	}
}
