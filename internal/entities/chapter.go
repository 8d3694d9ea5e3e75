package entities

import "fmt"

// ViewMode selects which language columns the reader shows.
type ViewMode string

const (
	ViewModeSource   ViewMode = "greek"
	ViewModeTarget   ViewMode = "english"
	ViewModeParallel ViewMode = "parallel" // Stacked on narrow screens, side by side otherwise
)

// Valid reports whether m is one of the known view modes.
func (m ViewMode) Valid() bool {
	switch m {
	case ViewModeSource, ViewModeTarget, ViewModeParallel:
		return true
	}
	return false
}

type Verse struct {
	Number int    `json:"verse"`
	Source string `json:"greek"`   // Source-language text
	Target string `json:"english"` // Target-language text
}

// ChapterData is one chapter in both languages, verses in reading order.
type ChapterData struct {
	Book    string  `json:"book"`
	Chapter int     `json:"chapter"`
	Verses  []Verse `json:"verses"`
}

// Verse returns the verse with the given number.
func (c *ChapterData) Verse(number int) (Verse, bool) {
	for _, v := range c.Verses {
		if v.Number == number {
			return v, true
		}
	}
	return Verse{}, false
}

// Reference formats a human-readable verse reference, e.g. "John 1:1".
func (c *ChapterData) Reference(verse int) string {
	return fmt.Sprintf("%s %d:%d", c.Book, c.Chapter, verse)
}

// SelectionState is the tapped word together with the verse it came from.
type SelectionState struct {
	Word           string `json:"word"`
	VerseContext   string `json:"verse_context"`
	VerseReference string `json:"verse_reference"`
}
