package entities

// WordAnalysis is the analyzer's description of one word occurrence.
// It is produced by the text-generation service and persisted as-is.
type WordAnalysis struct {
	Original     string `gorm:"size:128" json:"original"`
	Romanization string `gorm:"size:128" json:"romanization"`
	Gloss        string `gorm:"size:512" json:"gloss"`
	Lemma        string `gorm:"size:128" json:"lemma"`
	PartOfSpeech string `gorm:"size:64" json:"part_of_speech"`
	Parsing      string `gorm:"size:256" json:"parsing"` // e.g. "Accusative Singular Masculine"
}

// Flashcard is a saved WordAnalysis owned by a single identity.
// Owner and content never change after creation.
type Flashcard struct {
	ID             string       `gorm:"primaryKey;size:64" json:"id"`
	UserID         string       `gorm:"index;size:128;not null" json:"user_id"`
	WordAnalysis   WordAnalysis `gorm:"embedded" json:"analysis"`
	VerseReference string       `gorm:"size:128" json:"verse_reference"`
	CreatedAt      int64        `gorm:"index;autoCreateTime:milli" json:"created_at"` // Unix milliseconds
}

func (Flashcard) TableName() string {
	return "flashcards"
}
