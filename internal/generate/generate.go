// Package generate builds survey boards from a topic via a generative
// text API. The sync core treats this purely as an alternate Game
// constructor; nothing else depends on how the board came to be.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/feudhost/feudhost/internal/feud"
)

// Generator produces a playable board for a topic in the given language
// (en, ru, or es).
type Generator interface {
	Generate(ctx context.Context, topic, lang string) (feud.Game, error)
}

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultModel is the text model used unless config overrides it.
	DefaultModel = "gemini-3-flash-preview"
)

// Gemini calls the Google generative-language REST API.
type Gemini struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{
		baseURL: defaultBaseURL,
		model:   model,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// WithBaseURL points the client at a different endpoint. Tests use this
// to talk to a local stub server.
func (g *Gemini) WithBaseURL(baseURL string) *Gemini {
	g.baseURL = strings.TrimSuffix(baseURL, "/")
	return g
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// responseSchema constrains the model to the board shape we parse below.
var responseSchema = json.RawMessage(`{
	"type": "OBJECT",
	"properties": {
		"title": {"type": "STRING"},
		"questions": {
			"type": "ARRAY",
			"items": {
				"type": "OBJECT",
				"properties": {
					"prompt": {"type": "STRING"},
					"answers": {
						"type": "ARRAY",
						"items": {
							"type": "OBJECT",
							"properties": {
								"text": {"type": "STRING"},
								"points": {"type": "INTEGER"}
							},
							"required": ["text", "points"]
						}
					}
				},
				"required": ["prompt", "answers"]
			}
		}
	},
	"required": ["title", "questions"]
}`)

type generatedBoard struct {
	Title     string `json:"title"`
	Questions []struct {
		Prompt  string `json:"prompt"`
		Answers []struct {
			Text   string `json:"text"`
			Points int    `json:"points"`
		} `json:"answers"`
	} `json:"questions"`
}

func languagePhrase(lang string) string {
	switch lang {
	case "ru":
		return "in Russian"
	case "es":
		return "in Spanish"
	default:
		return "in English"
	}
}

// Generate asks the model for five questions of six to eight answers
// each, point values roughly summing to 100, and maps the result onto a
// fresh Game with the default strike penalty.
func (g *Gemini) Generate(ctx context.Context, topic, lang string) (feud.Game, error) {
	phrase := languagePhrase(lang)
	prompt := fmt.Sprintf(
		`Generate a Family Feud style game for the topic: %q %s. Create 5 unique questions. `+
			`Each question should have 6-8 popular answers with point values that roughly sum to 100. `+
			`Make the answers funny, realistic, and representative of what people would actually say in a survey. `+
			`IMPORTANT: All text content MUST be %s.`,
		topic, phrase, phrase,
	)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   responseSchema,
		},
	})
	if err != nil {
		return feud.Game{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return feud.Game{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return feud.Game{}, fmt.Errorf("calling generation api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(resp.Body)
		return feud.Game{}, fmt.Errorf("generation api returned %d: %s", resp.StatusCode, detail)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return feud.Game{}, fmt.Errorf("decoding response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return feud.Game{}, fmt.Errorf("generation api returned no candidates")
	}

	var board generatedBoard
	raw := strings.TrimSpace(gr.Candidates[0].Content.Parts[0].Text)
	if err := json.Unmarshal([]byte(raw), &board); err != nil {
		return feud.Game{}, fmt.Errorf("parsing generated board: %w", err)
	}
	if board.Title == "" || len(board.Questions) == 0 {
		return feud.Game{}, fmt.Errorf("generated board is empty")
	}

	game := feud.Game{
		ID:            uuid.NewString(),
		Title:         board.Title,
		StrikePenalty: feud.DefaultStrikePenalty,
		CreatedAt:     time.Now().UTC(),
	}
	for _, q := range board.Questions {
		question := feud.Question{
			ID:     uuid.NewString(),
			Prompt: q.Prompt,
		}
		for _, a := range q.Answers {
			question.Answers = append(question.Answers, feud.Answer{
				ID:     uuid.NewString(),
				Text:   a.Text,
				Points: a.Points,
			})
		}
		game.Questions = append(game.Questions, question)
	}
	return game, nil
}
