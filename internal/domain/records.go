package domain

import "time"

type DrillKind string

const (
	DrillRSVP              DrillKind = "rsvp"
	DrillSpeedSprint       DrillKind = "speed-sprint"
	DrillBlurredWords      DrillKind = "blurred-words"
	DrillReversedSentences DrillKind = "reversed-sentences"
	DrillChunking          DrillKind = "chunking"
	DrillPeripheralVision  DrillKind = "peripheral-vision"
	DrillWordPairs         DrillKind = "word-pairs"
	DrillSchulteTable      DrillKind = "schulte-table"
)

var DrillKinds = []DrillKind{
	DrillRSVP,
	DrillSpeedSprint,
	DrillBlurredWords,
	DrillReversedSentences,
	DrillChunking,
	DrillPeripheralVision,
	DrillWordPairs,
	DrillSchulteTable,
}

func (k DrillKind) Valid() bool {
	for _, known := range DrillKinds {
		if k == known {
			return true
		}
	}
	return false
}

type DrillRecord struct {
	ID                 string    `json:"id"`
	AccountID          string    `json:"account_id"`
	DrillType          DrillKind `json:"drill_type"`
	WPM                int       `json:"wpm"`
	ComprehensionScore *int      `json:"comprehension_score,omitempty"`
	DurationSeconds    int       `json:"duration_seconds"`
	PassageID          string    `json:"passage_id,omitempty"`
	PassageTitle       string    `json:"passage_title,omitempty"`
	WordsRead          *int      `json:"words_read,omitempty"`
	CompletedAt        time.Time `json:"completed_at"`
}

type ReadingSessionRecord struct {
	ID              string    `json:"id"`
	AccountID       string    `json:"account_id"`
	PassageID       string    `json:"passage_id"`
	PassageTitle    string    `json:"passage_title"`
	StartWPM        int       `json:"start_wpm"`
	EndWPM          int       `json:"end_wpm"`
	WasRamping      bool      `json:"was_ramping"`
	DurationSeconds int       `json:"duration_seconds"`
	WordsRead       int       `json:"words_read"`
	CompletedAt     time.Time `json:"completed_at"`
}
