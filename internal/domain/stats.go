package domain

import "time"

type UserStats struct {
	AverageWPM           int             `json:"average_wpm"`
	BestWPM              int             `json:"best_wpm"`
	TotalSessions        int             `json:"total_sessions"`
	AverageComprehension int             `json:"average_comprehension"`
	TotalWordsRead       int64           `json:"total_words_read"`
	ReadingStreak        int             `json:"reading_streak"`
	DrillBreakdown       []DrillTypeStat `json:"drill_breakdown"`
}

type DrillTypeStat struct {
	DrillType  DrillKind `json:"drill_type"`
	Count      int       `json:"count"`
	AverageWPM int       `json:"average_wpm"`
	BestWPM    int       `json:"best_wpm"`
}

// DrillTotals is the raw SQL rollup of one account's drill records.
type DrillTotals struct {
	Count       int
	SumWPM      int64
	BestWPM     int
	ScoredCount int
	SumScore    int64
	WordsRead   int64
	ByKind      []DrillKindTotals
}

type DrillKindTotals struct {
	DrillType DrillKind
	Count     int
	SumWPM    int64
	BestWPM   int
}

// ReadingTotals is the raw SQL rollup of one account's reading sessions.
type ReadingTotals struct {
	Count     int
	WordsRead int64
}

const DefaultLeaderboardLimit = 10

type LeaderboardEntry struct {
	Rank               int       `json:"rank"`
	RecordID           string    `json:"record_id"`
	AccountID          string    `json:"account_id"`
	Name               string    `json:"name"`
	Image              string    `json:"image,omitempty"`
	DrillType          DrillKind `json:"drill_type"`
	WPM                int       `json:"wpm"`
	ComprehensionScore *int      `json:"comprehension_score,omitempty"`
	CompletedAt        time.Time `json:"completed_at"`
}
