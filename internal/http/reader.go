package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/interlinear/internal/entities"
	"github.com/mrlokans/interlinear/internal/generation"
	"github.com/mrlokans/interlinear/internal/session"
)

// ReaderController exposes the session state machine to the reader UI.
// Every transition answers with the resulting snapshot.
type ReaderController struct {
	session SessionController
}

func NewReaderController(s SessionController) *ReaderController {
	return &ReaderController{session: s}
}

type setBookRequest struct {
	Book string `json:"book" binding:"required"`
}

type setChapterRequest struct {
	Chapter int `json:"chapter" binding:"required"`
}

type selectWordRequest struct {
	Verse int    `json:"verse" binding:"required"`
	Word  string `json:"word"`
}

type viewModeRequest struct {
	Mode entities.ViewMode `json:"mode" binding:"required"`
}

type saveResponse struct {
	Result  session.SaveResult `json:"result"`
	Session session.Snapshot   `json:"session"`
}

// GetSession returns the current snapshot.
// GET /api/session
func (rc *ReaderController) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, rc.session.Snapshot())
}

// SetBook navigates to chapter 1 of a catalog book.
// POST /api/session/book
func (rc *ReaderController) SetBook(c *gin.Context) {
	var req setBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book is required")
		return
	}
	if !generation.IsKnownBook(req.Book) {
		respondBadRequest(c, "unknown book: "+req.Book)
		return
	}

	rc.transition(c, rc.session.SetBook(req.Book))
}

// SetChapter navigates within the current book.
// POST /api/session/chapter
func (rc *ReaderController) SetChapter(c *gin.Context) {
	var req setChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "chapter is required")
		return
	}
	book := rc.session.Snapshot().Book
	if !generation.ValidChapter(book, req.Chapter) {
		respondBadRequest(c, "chapter out of range for "+book)
		return
	}

	rc.transition(c, rc.session.SetChapter(req.Chapter))
}

// Retry reloads a chapter that failed to load.
// POST /api/session/retry
func (rc *ReaderController) Retry(c *gin.Context) {
	rc.transition(c, rc.session.Retry())
}

// SelectWord opens the word-detail view for a tapped word.
// POST /api/session/selection
func (rc *ReaderController) SelectWord(c *gin.Context) {
	var req selectWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "verse is required")
		return
	}

	rc.transition(c, rc.session.SelectWord(req.Verse, req.Word))
}

// CloseSelection closes the word-detail view.
// DELETE /api/session/selection
func (rc *ReaderController) CloseSelection(c *gin.Context) {
	rc.session.CloseSelection()
	c.JSON(http.StatusOK, rc.session.Snapshot())
}

// RetryAnalysis re-runs a failed word analysis.
// POST /api/session/selection/retry
func (rc *ReaderController) RetryAnalysis(c *gin.Context) {
	rc.transition(c, rc.session.RetryAnalysis())
}

// Save stores the current analysis as a flashcard, or starts sign-in.
// POST /api/session/save
func (rc *ReaderController) Save(c *gin.Context) {
	result, err := rc.session.Save()
	if err != nil {
		rc.transition(c, err)
		return
	}

	status := http.StatusOK
	if result == session.SaveStarted {
		status = http.StatusAccepted
	}
	c.JSON(status, saveResponse{Result: result, Session: rc.session.Snapshot()})
}

// SetViewMode switches between greek, english and parallel columns.
// POST /api/session/view-mode
func (rc *ReaderController) SetViewMode(c *gin.Context) {
	var req viewModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "mode is required")
		return
	}

	rc.transition(c, rc.session.SetViewMode(req.Mode))
}

func (rc *ReaderController) transition(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, rc.session.Snapshot())
	case errors.Is(err, session.ErrInvalidTransition):
		respondError(c, http.StatusConflict, CodeInvalidTransition, "action not allowed in current state")
	case errors.Is(err, session.ErrInvalidChapter),
		errors.Is(err, session.ErrUnknownVerse),
		errors.Is(err, session.ErrInvalidViewMode):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, "session transition")
	}
}

// Books lists the catalog.
// GET /api/books
func (rc *ReaderController) Books(c *gin.Context) {
	books := generation.Books()
	c.JSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}
