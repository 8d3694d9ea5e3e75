package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mrlokans/interlinear/internal/config"
	"github.com/mrlokans/interlinear/internal/entities"
)

const (
	chapterInstruction  = "You are a precise biblical scholar database. Provide accurate Greek and English texts. Answer with JSON only."
	analysisInstruction = "You are an expert ancient Greek linguist. Answer with JSON only."
)

// OpenAIClient implements Client over an OpenAI-compatible chat API.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIClient creates a client from the generation settings.
func NewOpenAIClient(cfg config.Generation) (*OpenAIClient, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	model := cfg.Model
	if model == "" {
		model = config.DefaultGenerationModel
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		timeout: cfg.Timeout,
	}, nil
}

type chapterResponse struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verses  []struct {
		Verse   int    `json:"verse"`
		Greek   string `json:"greek"`
		English string `json:"english"`
	} `json:"verses"`
}

type analysisResponse struct {
	Original     string `json:"original"`
	Romanization string `json:"romanization"`
	Gloss        string `json:"gloss"`
	Lemma        string `json:"lemma"`
	PartOfSpeech string `json:"partOfSpeech"`
	Parsing      string `json:"parsing"`
}

// FetchChapter asks for the Koine Greek text and the KJV translation of one chapter.
func (c *OpenAIClient) FetchChapter(ctx context.Context, book string, chapter int) (*entities.ChapterData, error) {
	prompt := fmt.Sprintf(`Provide the full text of %s Chapter %d in the original Koine Greek (Textus Receptus or Nestle-Aland style) and the King James Version (KJV) English.
Ensure verse numbers match perfectly. Return a JSON object of the form
{"book": string, "chapter": integer, "verses": [{"verse": integer, "greek": string, "english": string}]}.`, book, chapter)

	var resp chapterResponse
	if err := c.complete(ctx, chapterInstruction, prompt, &resp); err != nil {
		log.Printf("[GEN] Chapter fetch failed for %s %d: %v", book, chapter, err)
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	data, err := resp.toChapter(book, chapter)
	if err != nil {
		log.Printf("[GEN] Rejected chapter %s %d: %v", book, chapter, err)
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return data, nil
}

// AnalyzeWord asks for a morphological analysis of word within verseContext.
func (c *OpenAIClient) AnalyzeWord(ctx context.Context, word, verseContext string) (*entities.WordAnalysis, error) {
	prompt := fmt.Sprintf(`Analyze the Greek word "%s" as it appears in this verse context: "%s".
Provide the Romanization (transliteration), English gloss (brief definition), the lemma (lexical form), the part of speech, and the morphological parsing (case, gender, number, tense, voice, mood, etc).
Return a JSON object with the string fields "original", "romanization", "gloss", "lemma", "partOfSpeech" and "parsing".`, word, verseContext)

	var resp analysisResponse
	if err := c.complete(ctx, analysisInstruction, prompt, &resp); err != nil {
		log.Printf("[GEN] Analysis failed for %q: %v", word, err)
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	analysis, err := resp.toAnalysis(word)
	if err != nil {
		log.Printf("[GEN] Rejected analysis for %q: %v", word, err)
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	return analysis, nil
}

func (c *OpenAIClient) complete(ctx context.Context, instruction, prompt string, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: instruction,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return err
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return fmt.Errorf("%w: empty content", ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func (r chapterResponse) toChapter(book string, chapter int) (*entities.ChapterData, error) {
	if r.Chapter != chapter {
		return nil, fmt.Errorf("%w: asked for chapter %d, got %d", ErrMalformedResponse, chapter, r.Chapter)
	}
	if len(r.Verses) == 0 {
		return nil, fmt.Errorf("%w: no verses", ErrMalformedResponse)
	}

	data := &entities.ChapterData{
		Book:    book,
		Chapter: chapter,
		Verses:  make([]entities.Verse, 0, len(r.Verses)),
	}
	seen := make(map[int]bool, len(r.Verses))
	for _, v := range r.Verses {
		if v.Verse <= 0 || seen[v.Verse] {
			return nil, fmt.Errorf("%w: bad verse number %d", ErrMalformedResponse, v.Verse)
		}
		seen[v.Verse] = true
		data.Verses = append(data.Verses, entities.Verse{
			Number: v.Verse,
			Source: strings.TrimSpace(v.Greek),
			Target: strings.TrimSpace(v.English),
		})
	}
	return data, nil
}

func (r analysisResponse) toAnalysis(word string) (*entities.WordAnalysis, error) {
	if r.Gloss == "" || r.Lemma == "" {
		return nil, fmt.Errorf("%w: missing gloss or lemma", ErrMalformedResponse)
	}
	original := r.Original
	if original == "" {
		original = word
	}
	return &entities.WordAnalysis{
		Original:     original,
		Romanization: r.Romanization,
		Gloss:        r.Gloss,
		Lemma:        r.Lemma,
		PartOfSpeech: r.PartOfSpeech,
		Parsing:      r.Parsing,
	}, nil
}
