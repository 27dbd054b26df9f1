// Package signal parses free-text chat replies into structured mood
// signals. It is a deterministic keyword/threshold classifier, not a
// trained model: the extraction is a pure function over the input text.
package signal

import (
	"strings"

	"github.com/staffpulse/backend/internal/domain"
)

// Extraction is the structured result of parsing one inbound message.
type Extraction struct {
	// MoodScore is 1–5, or nil when neither a digit nor a mood keyword
	// was found. A nil score is a valid outcome — the message is still
	// a check-in, just an unscored one.
	MoodScore *int

	SentimentScore float64 // −1..1
	SentimentLabel domain.SentimentLabel
}

// moodCategory maps a keyword set to a score. Categories are scanned in
// order from most positive to most negative; first match wins.
type moodCategory struct {
	score    int
	keywords []string
}

var moodCategories = []moodCategory{
	{5, []string{"great", "excellent", "amazing", "fantastic", "awesome"}},
	{4, []string{"good", "fine", "okay", "well", "alright"}},
	{2, []string{"bad", "poor", "tired", "meh", "down", "low"}},
	{1, []string{"terrible", "awful", "stressed", "horrible", "exhausted", "burned out"}},
}

// positiveKeywords and negativeKeywords drive the sentiment score,
// independently of the mood score. Each occurrence moves the score by 0.2.
var (
	positiveKeywords = []string{"happy", "great", "good", "excellent", "amazing", "love", "enjoy", "motivated", "productive"}
	negativeKeywords = []string{"sad", "bad", "terrible", "awful", "stressed", "tired", "hate", "overwhelmed", "anxious", "frustrated"}
)

const sentimentStep = 0.2

// Extract parses a raw chat reply. The algorithm, first match wins:
//
//  1. The first digit 1–5 anywhere in the trimmed text is the mood score.
//  2. Otherwise the first matching keyword category (most positive first)
//     sets the score; no match leaves it nil.
//
// The sentiment score is computed independently from fixed positive and
// negative keyword sets, ±0.2 per occurrence, clamped to [−1, 1].
func Extract(raw string) Extraction {
	text := strings.TrimSpace(raw)
	lower := strings.ToLower(text)

	score := sentimentScore(lower)

	return Extraction{
		MoodScore:      moodScore(text, lower),
		SentimentScore: score,
		SentimentLabel: labelFor(score),
	}
}

func moodScore(text, lower string) *int {
	for _, r := range text {
		if r >= '1' && r <= '5' {
			n := int(r - '0')
			return &n
		}
	}

	for _, cat := range moodCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				n := cat.score
				return &n
			}
		}
	}

	return nil
}

func sentimentScore(lower string) float64 {
	var score float64
	for _, kw := range positiveKeywords {
		score += sentimentStep * float64(strings.Count(lower, kw))
	}
	for _, kw := range negativeKeywords {
		score -= sentimentStep * float64(strings.Count(lower, kw))
	}

	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}

func labelFor(score float64) domain.SentimentLabel {
	switch {
	case score > 0.1:
		return domain.SentimentPositive
	case score < -0.1:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
