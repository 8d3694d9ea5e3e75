// Package session drives the reader: which chapter is shown, which word is
// selected, its analysis, and saving it as a flashcard.
//
// Every asynchronous call captures a staleness token when it starts. When
// the call resolves, its result is applied only if the token is still
// current, so a newer navigation or tap always wins over an older response.
// Superseded calls are not cancelled; their results are dropped.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/mrlokans/interlinear/internal/entities"
	"github.com/mrlokans/interlinear/internal/generation"
	"github.com/mrlokans/interlinear/internal/identity"
)

var (
	ErrInvalidTransition = errors.New("action not allowed in current state")
	ErrInvalidChapter    = errors.New("invalid book or chapter")
	ErrUnknownVerse      = errors.New("verse not in displayed chapter")
	ErrInvalidViewMode   = errors.New("invalid view mode")
)

// FlashcardStore persists analyzed words.
type FlashcardStore interface {
	Save(ctx context.Context, owner string, analysis entities.WordAnalysis, verseRef string) (*entities.Flashcard, error)
}

// SignInStarter starts the external sign-in flow. Its outcome arrives later
// through SetIdentity.
type SignInStarter interface {
	SignIn(ctx context.Context) error
}

// Options configures a new controller.
type Options struct {
	InitialBook    string
	InitialChapter int
	ViewMode       entities.ViewMode
}

// Controller is the reader state machine. All methods are safe for
// concurrent use.
type Controller struct {
	gen    generation.Client
	store  FlashcardStore
	signIn SignInStarter

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu             sync.Mutex
	chapterToken   uint64
	selectionToken uint64
	state          Snapshot

	notifyMu  sync.Mutex
	subMu     sync.Mutex
	nextSubID int
	subs      map[int]func(Snapshot)
}

// New creates a controller in the Idle state. Call Start to load the first chapter.
func New(gen generation.Client, store FlashcardStore, signIn SignInStarter, opts Options) *Controller {
	if opts.InitialChapter < 1 {
		opts.InitialChapter = 1
	}
	if !opts.ViewMode.Valid() {
		opts.ViewMode = entities.ViewModeParallel
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		gen:    gen,
		store:  store,
		signIn: signIn,
		ctx:    ctx,
		cancel: cancel,
		state: Snapshot{
			Book:         opts.InitialBook,
			Chapter:      opts.InitialChapter,
			ChapterState: Idle,
			ViewMode:     opts.ViewMode,
			Selection:    NoSelection,
		},
		subs: make(map[int]func(Snapshot)),
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := c.state
	s.ChapterData = copyChapter(s.ChapterData)
	s.Selected = copyPtr(s.Selected)
	s.Analysis = copyPtr(s.Analysis)
	s.SavedCard = copyPtr(s.SavedCard)
	s.Identity = copyPtr(s.Identity)
	return s
}

// Subscribe calls fn with the current snapshot and after every change.
// fn runs on the goroutine that made the change and must not call back
// into the controller synchronously.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.subMu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn
	c.subMu.Unlock()

	fn(c.Snapshot())

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

func (c *Controller) notify() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.subMu.Lock()
	subs := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.subMu.Unlock()

	if len(subs) == 0 {
		return
	}
	snap := c.Snapshot()
	for _, fn := range subs {
		fn(snap)
	}
}

// Wait blocks until every in-flight call has resolved.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels in-flight calls and waits for them.
func (c *Controller) Close() {
	c.cancel()
	c.wg.Wait()
}

func (c *Controller) goAsync(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}

// Start leaves Idle and loads the configured chapter.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.state.ChapterState != Idle {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.beginChapterLoadLocked(c.state.Book, c.state.Chapter)
	c.mu.Unlock()

	c.notify()
	return nil
}

// SetBook navigates to chapter 1 of book.
func (c *Controller) SetBook(book string) error {
	return c.navigate(book, 1)
}

// SetChapter navigates within the current book.
func (c *Controller) SetChapter(chapter int) error {
	c.mu.Lock()
	book := c.state.Book
	c.mu.Unlock()
	return c.navigate(book, chapter)
}

func (c *Controller) navigate(book string, chapter int) error {
	if book == "" || chapter < 1 {
		return ErrInvalidChapter
	}

	c.mu.Lock()
	c.beginChapterLoadLocked(book, chapter)
	c.mu.Unlock()

	c.notify()
	return nil
}

// Retry reloads the chapter that failed.
func (c *Controller) Retry() error {
	c.mu.Lock()
	if c.state.ChapterState != ChapterFailed {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.beginChapterLoadLocked(c.state.Book, c.state.Chapter)
	c.mu.Unlock()

	c.notify()
	return nil
}

// beginChapterLoadLocked invalidates the chapter and the selection in flight
// and issues a new fetch.
func (c *Controller) beginChapterLoadLocked(book string, chapter int) {
	c.chapterToken++
	token := c.chapterToken

	c.state.Book = book
	c.state.Chapter = chapter
	c.state.ChapterState = LoadingChapter
	c.state.ChapterData = nil
	c.state.ChapterError = ""
	c.clearSelectionLocked()

	log.Printf("[SESSION] Loading %s %d", book, chapter)
	c.goAsync(func() {
		data, err := c.gen.FetchChapter(c.ctx, book, chapter)
		c.resolveChapter(token, data, err)
	})
}

func (c *Controller) resolveChapter(token uint64, data *entities.ChapterData, err error) {
	c.mu.Lock()
	if token != c.chapterToken {
		c.mu.Unlock()
		log.Printf("[SESSION] Dropping stale chapter result")
		return
	}

	if err != nil {
		c.state.ChapterState = ChapterFailed
		c.state.ChapterError = "Failed to load chapter. Please check your connection or API key."
		log.Printf("[SESSION] Chapter %s %d failed: %v", c.state.Book, c.state.Chapter, err)
	} else {
		c.state.ChapterState = ChapterReady
		c.state.ChapterData = copyChapter(data)
	}
	c.mu.Unlock()

	c.notify()
}

// SelectWord selects a word of a verse in the displayed chapter.
func (c *Controller) SelectWord(verse int, word string) error {
	c.mu.Lock()
	if c.state.ChapterState != ChapterReady || c.state.ChapterData == nil {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	v, ok := c.state.ChapterData.Verse(verse)
	if !ok {
		c.mu.Unlock()
		return ErrUnknownVerse
	}
	sel := entities.SelectionState{
		Word:           word,
		VerseContext:   v.Source,
		VerseReference: c.state.ChapterData.Reference(verse),
	}
	c.mu.Unlock()

	return c.Select(sel)
}

// Select handles a word tap. A tap that is only punctuation or whitespace
// is ignored. Any earlier selection is replaced and its analysis dropped.
func (c *Controller) Select(sel entities.SelectionState) error {
	sel.Word = NormalizeWord(sel.Word)

	c.mu.Lock()
	if c.state.ChapterState != ChapterReady {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	if sel.Word == "" {
		c.mu.Unlock()
		return nil
	}
	c.clearSelectionLocked()
	c.state.Selected = &sel
	c.beginAnalysisLocked()
	c.mu.Unlock()

	c.notify()
	return nil
}

// RetryAnalysis re-runs a failed analysis for the same selection.
func (c *Controller) RetryAnalysis() error {
	c.mu.Lock()
	if c.state.Selection != AnalysisFailed || c.state.Selected == nil {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.beginAnalysisLocked()
	c.mu.Unlock()

	c.notify()
	return nil
}

func (c *Controller) beginAnalysisLocked() {
	c.selectionToken++
	token := c.selectionToken
	sel := *c.state.Selected

	c.state.Selection = AnalyzingWord
	c.state.Analysis = nil
	c.state.AnalysisError = ""
	c.state.SaveError = ""

	c.goAsync(func() {
		analysis, err := c.gen.AnalyzeWord(c.ctx, sel.Word, sel.VerseContext)
		c.resolveAnalysis(token, analysis, err)
	})
}

func (c *Controller) resolveAnalysis(token uint64, analysis *entities.WordAnalysis, err error) {
	c.mu.Lock()
	if token != c.selectionToken || c.state.Selection != AnalyzingWord {
		c.mu.Unlock()
		return
	}

	if err != nil {
		c.state.Selection = AnalysisFailed
		c.state.AnalysisError = "Could not analyze this word."
		log.Printf("[SESSION] Analysis of %q failed: %v", c.state.Selected.Word, err)
	} else {
		c.state.Selection = AnalysisReady
		c.state.Analysis = copyPtr(analysis)
	}
	c.mu.Unlock()

	c.notify()
}

// CloseSelection closes the word-detail view and drops anything in flight for it.
func (c *Controller) CloseSelection() {
	c.mu.Lock()
	if c.state.Selection == NoSelection {
		c.mu.Unlock()
		return
	}
	c.clearSelectionLocked()
	c.mu.Unlock()

	c.notify()
}

func (c *Controller) clearSelectionLocked() {
	c.selectionToken++
	c.state.Selection = NoSelection
	c.state.Selected = nil
	c.state.Analysis = nil
	c.state.AnalysisError = ""
	c.state.SaveError = ""
	c.state.SavedCard = nil
}

// Save stores the current analysis as a flashcard for the signed-in identity.
// Without an identity it starts sign-in instead and changes nothing.
// Saving twice, or while a save is running, does nothing.
func (c *Controller) Save() (SaveResult, error) {
	c.mu.Lock()
	switch c.state.Selection {
	case Saving, Saved:
		c.mu.Unlock()
		return SaveIgnored, nil
	case AnalysisReady:
	default:
		c.mu.Unlock()
		return "", ErrInvalidTransition
	}

	if c.state.Identity == nil {
		c.mu.Unlock()
		c.goAsync(func() {
			if err := c.signIn.SignIn(c.ctx); err != nil {
				log.Printf("[SESSION] Sign-in failed: %v", err)
			}
		})
		return SignInRequested, nil
	}

	token := c.selectionToken
	owner := c.state.Identity.UserID
	analysis := *c.state.Analysis
	ref := c.state.Selected.VerseReference

	c.state.Selection = Saving
	c.state.SaveError = ""
	c.mu.Unlock()
	c.notify()

	c.goAsync(func() {
		card, err := c.store.Save(c.ctx, owner, analysis, ref)
		c.resolveSave(token, card, err)
	})
	return SaveStarted, nil
}

func (c *Controller) resolveSave(token uint64, card *entities.Flashcard, err error) {
	c.mu.Lock()
	if token != c.selectionToken || c.state.Selection != Saving {
		c.mu.Unlock()
		return
	}

	if err != nil {
		c.state.Selection = AnalysisReady
		c.state.SaveError = fmt.Sprintf("Could not save flashcard: %s", saveErrorMessage(err))
	} else {
		c.state.Selection = Saved
		c.state.SavedCard = copyPtr(card)
	}
	c.mu.Unlock()

	c.notify()
}

func saveErrorMessage(err error) string {
	if errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	return "the flashcard store is unavailable, try again"
}

// SetIdentity handles identity changes. Losing the identity closes the
// word-detail view.
func (c *Controller) SetIdentity(id *identity.Identity) {
	c.mu.Lock()
	c.state.Identity = copyPtr(id)
	if id == nil {
		c.clearSelectionLocked()
	}
	c.mu.Unlock()

	c.notify()
}

// SetViewMode switches the displayed language columns.
func (c *Controller) SetViewMode(mode entities.ViewMode) error {
	if !mode.Valid() {
		return ErrInvalidViewMode
	}

	c.mu.Lock()
	c.state.ViewMode = mode
	c.mu.Unlock()

	c.notify()
	return nil
}
