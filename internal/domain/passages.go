package domain

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

type Passage struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Content         string     `json:"content,omitempty"`
	Excerpt         string     `json:"excerpt"`
	WordCount       int        `json:"word_count"`
	ReadingTimeMins int        `json:"reading_time_minutes"`
	Difficulty      Difficulty `json:"difficulty"`
	Category        string     `json:"category"`
}
