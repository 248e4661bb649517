package youtube

import (
	"strings"
	"testing"
)

func TestJoinTranscript(t *testing.T) {
	raw := []byte(`<?xml version="1.0" encoding="utf-8"?>
<transcript>
	<text start="0.5" dur="3.2">Welcome to the course</text>
	<text start="3.7" dur="2.1">today we learn about channels</text>
	<text start="5.8" dur="1.0">   </text>
	<text start="6.8" dur="2.0">&amp; goroutines</text>
</transcript>`)

	got := JoinTranscript(raw)
	expected := "Welcome to the course today we learn about channels & goroutines"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestJoinTranscriptInvalidXML(t *testing.T) {
	if got := JoinTranscript([]byte("not xml at all <")); got != "" {
		t.Errorf("Expected empty string for invalid XML, got %q", got)
	}
}

func TestJoinTranscriptCapsLength(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<transcript>")
	for i := 0; i < 2000; i++ {
		sb.WriteString("<text>some spoken words here</text>")
	}
	sb.WriteString("</transcript>")

	got := JoinTranscript([]byte(sb.String()))
	if len(got) > MaxTranscriptChars {
		t.Errorf("Expected transcript capped at %d chars, got %d", MaxTranscriptChars, len(got))
	}
	if len(got) != MaxTranscriptChars {
		t.Errorf("Expected cap to be hit exactly, got %d", len(got))
	}
}
