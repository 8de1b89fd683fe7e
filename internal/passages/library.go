// Package passages holds the built-in reading library seeded into the store at startup.
package passages

import (
	"math"
	"strings"
	"unicode/utf8"

	"SpeedReaderwebserver/internal/domain"
)

// AverageReaderWPM is the speed used to estimate reading time for a passage.
const AverageReaderWPM = 200

const excerptRunes = 160

type entry struct {
	title      string
	category   string
	difficulty domain.Difficulty
	content    string
}

var library = []entry{
	{
		title:      "The Lighthouse Keeper",
		category:   "Fiction",
		difficulty: domain.DifficultyEasy,
		content: `Every evening at dusk, Mara climbed the one hundred and twelve steps of the lighthouse. She counted them out of habit, although she had long ago stopped needing to. At the top she trimmed the wick, polished the great lens with a soft cloth, and struck a match. The flame caught, the lens gathered it, and a beam of light swept out across the dark water.
Ships she would never meet relied on that beam. Fishermen returning late, cargo boats heading for the harbour, and once a small yacht lost in a storm had all found their way home because Mara climbed the stairs. She liked to think of the light as a conversation with strangers, a quiet message repeated every few seconds: here is the rock, here is the shore, you are not alone.
When the automatic lamp was finally installed, the harbour master offered her a comfortable cottage in town. Mara accepted, but on clear nights she still walked to the end of the pier and watched the beam turn, counting the seconds between flashes the way she had once counted the stairs.`,
	},
	{
		title:      "How Bees Choose a Home",
		category:   "Science",
		difficulty: domain.DifficultyMedium,
		content: `When a honeybee colony grows too large, the old queen leaves with roughly half of the workers to found a new nest. The swarm settles temporarily on a branch while a few hundred scouts search the surrounding countryside for a suitable cavity. A good site is dry, sheltered from wind, high above the ground, and large enough to store honey for the winter.
Each scout that finds a promising location returns to the swarm and performs a waggle dance. The angle of the dance encodes the direction of the site relative to the sun, and its duration encodes the distance. Crucially, the enthusiasm of the dance reflects the quality of the site: a scout that found an excellent cavity dances longer and repeats the performance more times than one that found a mediocre hollow.
Other scouts are recruited by these dances, inspect the sites themselves, and return to dance in turn. Because poor sites attract fewer and fewer supporters while good sites gather momentum, the swarm gradually converges on a single choice. When enough scouts are present at one location at the same time, a quorum is reached, and the entire swarm takes flight toward its new home. Researchers have compared this process to a well designed election, in which independent evaluation and open competition between options lead the group to a sound decision.`,
	},
	{
		title:      "The Invention of the Index Card",
		category:   "History",
		difficulty: domain.DifficultyMedium,
		content: `Long before databases, librarians faced the problem of finding one book among hundreds of thousands. Bound catalogues were expensive to print and out of date the moment a new volume arrived. In the late eighteenth century, revolutionary France confiscated vast numbers of books from monasteries and aristocratic households, and officials needed a way to record them quickly. Their solution was to write each title on the blank back of a playing card.
The idea spread. A card could be filed, refiled, removed, or corrected without rewriting an entire list. By the late nineteenth century, libraries across Europe and North America had standardised the size of their cards and built cabinets of shallow drawers to hold them. Businesses adopted the same technique for customers, invoices, and inventory.
The card catalogue encouraged a particular way of thinking. Information was broken into small, independent units that could be rearranged to reveal new relationships. Scholars used cards to collect quotations and notes, shuffling them into different orders as their arguments took shape. In that sense, the humble index card anticipated many of the ideas that would later define the design of computer files and records.`,
	},
	{
		title:      "Attention and the Reading Eye",
		category:   "Psychology",
		difficulty: domain.DifficultyHard,
		content: `Readers tend to believe that their eyes glide smoothly along a line of text, but eye tracking studies reveal a very different picture. The eye moves in rapid jumps called saccades, separated by brief pauses called fixations. Almost all useful visual information is acquired during fixations, which typically last between two hundred and two hundred and fifty milliseconds. During a saccade the visual system is effectively suppressed, so that the reader does not perceive the blur of motion.
The region of sharp vision, the fovea, covers only a small portion of the visual field, roughly six to eight letters at normal reading distance. Beyond it lies the parafovea, where letters can be detected but not reliably identified. Skilled readers nonetheless extract useful information from the parafovea, such as the length of the upcoming word and its first few letters, which allows them to plan the next saccade and sometimes to skip short, predictable words entirely.
Approximately ten to fifteen percent of saccades move backward, returning to earlier words. These regressions often signal difficulty with comprehension, for example when a sentence has an unexpected grammatical structure. Techniques that prevent regressions, such as presenting one word at a time in the same location, can raise apparent reading speed. However, the evidence suggests that comprehension frequently suffers, because the reader loses the opportunity to revisit and repair misunderstandings. Genuine improvements in reading rate usually come from broader vocabulary and background knowledge rather than from changing the mechanics of eye movement.`,
	},
	{
		title:      "A Short Walk in the Rain",
		category:   "Essay",
		difficulty: domain.DifficultyEasy,
		content: `Most people hurry through the rain with their heads down, thinking only about where they are going. Try slowing down instead. Notice the way the pavement darkens unevenly, how puddles collect in the low corners of the street, and how the sound of traffic softens into a steady hiss.
Rain changes the smell of a city. Dust, leaves, and warm stone release a scent that is hard to describe but easy to remember. Trees drip long after the shower has passed, and gutters carry small rivers of water toward drains with surprising speed.
A short walk in the rain asks for nothing more than a coat and a few spare minutes. In return, it offers a familiar place seen in an unfamiliar light.`,
	},
	{
		title:      "Compound Interest Explained",
		category:   "Finance",
		difficulty: domain.DifficultyHard,
		content: `Compound interest is interest calculated on both the original principal and the interest that has already accumulated. If you deposit one thousand dollars at an annual rate of five percent, you earn fifty dollars in the first year. In the second year, however, the interest is computed on one thousand and fifty dollars, producing fifty two dollars and fifty cents. The difference seems trivial at first, but it grows with every period.
The frequency of compounding matters as well. Interest that compounds monthly grows slightly faster than interest that compounds annually at the same nominal rate, because each month's interest begins earning interest sooner. As the compounding period shrinks toward zero, the growth approaches a limit described by the mathematical constant e.
A useful approximation called the rule of seventy two estimates how long it takes an investment to double: divide seventy two by the annual percentage rate. At six percent, money doubles in roughly twelve years; at nine percent, in about eight. The same arithmetic applies to debt, which is why unpaid balances on high interest credit cards can grow alarmingly quickly. Understanding compounding is therefore valuable not only for saving but also for borrowing wisely.`,
	},
}

// BuiltIn returns the fixed library with derived fields filled in.
func BuiltIn() []domain.Passage {
	out := make([]domain.Passage, 0, len(library))
	for _, e := range library {
		out = append(out, Build(e.title, e.category, e.difficulty, e.content))
	}
	return out
}

func Build(title, category string, difficulty domain.Difficulty, content string) domain.Passage {
	content = strings.TrimSpace(content)
	words := WordCount(content)
	return domain.Passage{
		Title:           title,
		Content:         content,
		Excerpt:         Excerpt(content, excerptRunes),
		WordCount:       words,
		ReadingTimeMins: ReadingTimeMinutes(words, AverageReaderWPM),
		Difficulty:      difficulty,
		Category:        category,
	}
}

func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ReadingTimeMinutes rounds up and never reports less than one minute for non-empty text.
func ReadingTimeMinutes(words, wpm int) int {
	if words <= 0 || wpm <= 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / float64(wpm)))
}

// Excerpt cuts text at the last word boundary before max runes and appends an ellipsis.
func Excerpt(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:max])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "..."
}
