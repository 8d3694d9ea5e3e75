package session

import (
	"github.com/mrlokans/interlinear/internal/entities"
	"github.com/mrlokans/interlinear/internal/identity"
)

// ChapterState is the state of the displayed chapter.
type ChapterState string

const (
	Idle           ChapterState = "idle"
	LoadingChapter ChapterState = "loading_chapter"
	ChapterReady   ChapterState = "chapter_ready"
	ChapterFailed  ChapterState = "chapter_failed"
)

// SelectionPhase is the state of the word-detail view.
type SelectionPhase string

const (
	NoSelection    SelectionPhase = "no_selection"
	AnalyzingWord  SelectionPhase = "analyzing_word"
	AnalysisReady  SelectionPhase = "analysis_ready"
	AnalysisFailed SelectionPhase = "analysis_failed"
	Saving         SelectionPhase = "saving"
	Saved          SelectionPhase = "saved"
)

// SaveResult tells the caller what a save request did.
type SaveResult string

const (
	SaveStarted     SaveResult = "save_started"
	SaveIgnored     SaveResult = "save_ignored"
	SignInRequested SaveResult = "sign_in_requested"
)

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	Book         string                `json:"book"`
	Chapter      int                   `json:"chapter"`
	ChapterState ChapterState          `json:"chapter_state"`
	ChapterData  *entities.ChapterData `json:"chapter_data,omitempty"`
	ChapterError string                `json:"chapter_error,omitempty"`
	ViewMode     entities.ViewMode     `json:"view_mode"`

	Selection     SelectionPhase           `json:"selection"`
	Selected      *entities.SelectionState `json:"selected,omitempty"`
	Analysis      *entities.WordAnalysis   `json:"analysis,omitempty"`
	AnalysisError string                   `json:"analysis_error,omitempty"`
	SaveError     string                   `json:"save_error,omitempty"`
	SavedCard     *entities.Flashcard      `json:"saved_card,omitempty"`

	Identity *identity.Identity `json:"identity,omitempty"`
}

func copyChapter(c *entities.ChapterData) *entities.ChapterData {
	if c == nil {
		return nil
	}
	out := *c
	out.Verses = append([]entities.Verse(nil), c.Verses...)
	return &out
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
