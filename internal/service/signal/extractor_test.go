package signal

import (
	"testing"

	"github.com/staffpulse/backend/internal/domain"
)

func TestExtract_DigitTakesPrecedenceOverKeywords(t *testing.T) {
	t.Parallel()

	// Surrounding keywords must not override the digit rule.
	tests := []struct {
		text string
		want int
	}{
		{"3", 3},
		{"  5  ", 5},
		{"I'd say 2, feeling tired", 2},
		{"great week, maybe a 1", 1},
		{"terrible... 4 though", 4},
	}

	for _, tt := range tests {
		got := Extract(tt.text)
		if got.MoodScore == nil {
			t.Fatalf("Extract(%q) mood score = nil, want %d", tt.text, tt.want)
		}
		if *got.MoodScore != tt.want {
			t.Errorf("Extract(%q) mood score = %d, want %d", tt.text, *got.MoodScore, tt.want)
		}
	}
}

func TestExtract_KeywordFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want int
	}{
		{"feeling great today", 5},
		{"Amazing sprint!", 5},
		{"all good here", 4},
		{"okay I guess", 4},
		{"pretty tired honestly", 2},
		{"bad day", 2},
		{"totally stressed out", 1},
		{"awful, just awful", 1},
		// most-positive category wins when several match
		{"great but tired", 5},
	}

	for _, tt := range tests {
		got := Extract(tt.text)
		if got.MoodScore == nil {
			t.Fatalf("Extract(%q) mood score = nil, want %d", tt.text, tt.want)
		}
		if *got.MoodScore != tt.want {
			t.Errorf("Extract(%q) mood score = %d, want %d", tt.text, *got.MoodScore, tt.want)
		}
	}
}

func TestExtract_NoDigitNoKeyword(t *testing.T) {
	t.Parallel()

	got := Extract("just another day at the office")
	if got.MoodScore != nil {
		t.Errorf("mood score = %d, want nil", *got.MoodScore)
	}
	if got.SentimentLabel != domain.SentimentNeutral {
		t.Errorf("sentiment label = %s, want neutral", got.SentimentLabel)
	}
	if got.SentimentScore != 0 {
		t.Errorf("sentiment score = %v, want 0", got.SentimentScore)
	}
}

func TestExtract_SentimentIndependentOfMoodScore(t *testing.T) {
	t.Parallel()

	// Digit sets the mood score, keywords still drive sentiment.
	got := Extract("5 but honestly stressed and overwhelmed")
	if got.MoodScore == nil || *got.MoodScore != 5 {
		t.Fatalf("mood score = %v, want 5", got.MoodScore)
	}
	if got.SentimentLabel != domain.SentimentNegative {
		t.Errorf("sentiment label = %s, want negative", got.SentimentLabel)
	}
	if got.SentimentScore > -0.3 {
		t.Errorf("sentiment score = %v, want <= -0.4", got.SentimentScore)
	}
}

func TestExtract_SentimentClamped(t *testing.T) {
	t.Parallel()

	neg := Extract("sad bad terrible awful stressed tired anxious frustrated overwhelmed sad bad")
	if neg.SentimentScore != -1 {
		t.Errorf("negative pile-up score = %v, want clamped -1", neg.SentimentScore)
	}

	pos := Extract("happy great good excellent amazing love enjoy motivated productive happy")
	if pos.SentimentScore != 1 {
		t.Errorf("positive pile-up score = %v, want clamped 1", pos.SentimentScore)
	}
}

func TestExtract_LabelThresholds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want domain.SentimentLabel
	}{
		{"happy", domain.SentimentPositive},  // +0.2 > 0.1
		{"sad", domain.SentimentNegative},    // −0.2 < −0.1
		{"nothing to report", domain.SentimentNeutral},
		{"happy but sad", domain.SentimentNeutral}, // 0.0
	}

	for _, tt := range tests {
		if got := Extract(tt.text); got.SentimentLabel != tt.want {
			t.Errorf("Extract(%q) label = %s, want %s", tt.text, got.SentimentLabel, tt.want)
		}
	}
}
