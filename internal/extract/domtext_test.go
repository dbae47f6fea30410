package extract

import "testing"

const baseURL = "https://in.bookmyshow.com"

func TestDOMText(t *testing.T) {
	links := []CardLink{
		{
			Href: "/events/comedy-night/ET00012345",
			Text: "Comedy Night\nThu, 20 Feb\nLaugh Club: Jaipur\nComedy",
		},
		{
			// Repeat anchor for the same card, e.g. the image link.
			Href: "/events/comedy-night/ET00012345",
			Text: "Comedy Night",
		},
		{
			Href: "https://in.bookmyshow.com/events/indie-gig/ET00012346",
			Text: "Indie Gig\n₹499 onwards\n1 Mar\nThe Den: Jaipur",
		},
		{
			// Not a detail link.
			Href: "/explore/events-jaipur",
			Text: "See all events",
		},
		{
			// Venueless card, dropped by the quality gate.
			Href: "/events/banner-promo/ET00012347",
			Text: "Mega Sale\n20 Feb",
		},
	}

	got := DOMText(links, "jaipur", baseURL)
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}

	first := got[0]
	if first.URL != baseURL+"/events/comedy-night/ET00012345" {
		t.Errorf("relative href not absolutized: %q", first.URL)
	}
	if first.Name != "Comedy Night" || first.Venue != "Laugh Club" || first.Category != "Comedy" {
		t.Errorf("first candidate = %+v", first)
	}
	if first.Source != SourceDOMText {
		t.Errorf("source = %v, want %v", first.Source, SourceDOMText)
	}

	second := got[1]
	if second.Name != "Indie Gig" || second.DateText != "1 Mar" {
		t.Errorf("second candidate = %+v", second)
	}
}

func TestDOMTextOverlayOverridesCardDate(t *testing.T) {
	// ie-U2F0LCAyOCBNYXI= decodes to "Sat, 28 Mar".
	links := []CardLink{
		{
			Href:     "/events/art-expo/ET00012348",
			Text:     "Art Expo\n20 Feb - 30 Mar\nJKK: Jaipur",
			ImageSrc: "https://cdn.example/img/tr:w-300,l-text,ie-U2F0LCAyOCBNYXI=,co-white/poster.jpg",
		},
	}

	got := DOMText(links, "jaipur", baseURL)
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	if got[0].DateText != "Sat, 28 Mar" {
		t.Errorf("date = %q, want the image overlay to win over the card range", got[0].DateText)
	}
}

func TestImageOverlayDate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "Plain overlay",
			src:  "https://cdn.example/tr:l-text,ie-U2F0LCAyOCBNYXI=,co-white/p.jpg",
			want: "Sat, 28 Mar",
		},
		{
			name: "Percent-encoded overlay",
			src:  "https://cdn.example/tr%3Al-text%2Cie-U2F0LCAyOCBNYXI%3D%2Cco-white/p.jpg",
			want: "Sat, 28 Mar",
		},
		{
			name: "No overlay parameter",
			src:  "https://cdn.example/tr:w-300/p.jpg",
			want: "",
		},
		{
			// "hello world" is valid base64 payload but not a date.
			name: "Decoded text is not a date",
			src:  "https://cdn.example/tr:l-text,ie-aGVsbG8gd29ybGQ=,co-white/p.jpg",
			want: "",
		},
		{
			name: "Empty source",
			src:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ImageOverlayDate(tt.src); got != tt.want {
				t.Errorf("ImageOverlayDate(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}
