package youtube

import "testing"

func TestExtractPlaylistID(t *testing.T) {
	testCases := []struct {
		name     string
		url      string
		expected string
	}{
		{"playlist url", "https://www.youtube.com/playlist?list=PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf", "PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf"},
		{"watch url with list", "https://www.youtube.com/watch?v=abc123&list=PLtest_42-x", "PLtest_42-x"},
		{"no list parameter", "https://www.youtube.com/watch?v=abc123", ""},
		{"not a url", "hello world", ""},
		{"empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractPlaylistID(tc.url); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestParseISODuration(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
	}{
		{"PT4M13S", 253},
		{"PT1H2M3S", 3723},
		{"PT45S", 45},
		{"PT2H", 7200},
		{"PT10M", 600},
		{"", 0},
		{"garbage", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if got := ParseISODuration(tc.input); got != tc.expected {
				t.Errorf("ParseISODuration(%q): expected %d, got %d", tc.input, tc.expected, got)
			}
		})
	}
}
