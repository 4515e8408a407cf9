package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

// User-facing fallback text. Upstream failures are never surfaced as errors
// to the client, only as these strings.
const (
	ChatFallback     = "I'm experiencing technical difficulties. Please try again later."
	AnalysisFallback = "Analysis temporarily unavailable."
)

const carelySystemPrompt = `You are Carely, a compassionate AI assistant designed to support healthcare professionals with burnout and stress management.

Your role:
- Provide empathetic, understanding responses
- Focus on mental health and wellbeing for healthcare workers
- Offer evidence-based advice and coping strategies
- Recognize burnout symptoms and stress indicators
- Encourage professional help when appropriate
- Keep responses helpful but concise (2-3 paragraphs max)
- Never provide medical diagnoses or treatment
- Maintain a supportive, professional tone

Important: You're speaking with a healthcare professional who may be experiencing work-related stress or burnout.`

const analysisSystemPrompt = `You are an AI assistant that analyzes journal entries from healthcare professionals to provide supportive insights about emotional wellbeing and stress patterns.

Analyze the journal entry and provide:
1. Emotional tone (positive/neutral/negative/mixed)
2. Key themes or concerns
3. Stress indicators (if present)
4. Supportive observations
5. Self-care recommendations

Keep analysis professional, supportive, and concise (2-3 sentences maximum).`

// ChatTurn is one message of conversation history handed to the model.
type ChatTurn struct {
	Role    string // "user" or "assistant"
	Content string
}

// Assistant wraps the locally hosted model behind the two operations the
// rest of the service needs.
type Assistant struct {
	llm       llms.Model
	serverURL string
	modelName string
	logger    *zap.Logger
}

func NewAssistant(serverURL, modelName string, logger *zap.Logger) (*Assistant, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	return &Assistant{
		llm:       llm,
		serverURL: serverURL,
		modelName: modelName,
		logger:    logger,
	}, nil
}

// Reply generates Carely's answer given conversation history, newest last.
// Only the last 10 turns are sent to keep the context window small.
func (a *Assistant) Reply(ctx context.Context, history []ChatTurn) (string, error) {
	if len(history) > 10 {
		history = history[len(history)-10:]
	}

	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, carelySystemPrompt),
	}
	for _, turn := range history {
		role := schema.ChatMessageTypeHuman
		if turn.Role == "assistant" {
			role = schema.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, turn.Content))
	}

	resp, err := a.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(500),
		llms.WithTopP(0.9),
		llms.WithTopK(40),
		llms.WithRepetitionPenalty(1.1),
	)
	if err != nil {
		a.logger.Error("chat generation failed", zap.Error(err))
		return "", err
	}
	return contentOf(resp)
}

// AnalyzeJournal produces a short supportive analysis of one journal entry.
// Lower temperature than chat so repeated analyses stay consistent.
func (a *Assistant) AnalyzeJournal(ctx context.Context, journalText, userContext string) (string, error) {
	var user strings.Builder
	if userContext != "" {
		fmt.Fprintf(&user, "User context: %s\n\n", userContext)
	}
	fmt.Fprintf(&user, "Journal entry to analyze:\n%s\n\nPlease provide your analysis:", journalText)

	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, analysisSystemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, user.String()),
	}

	resp, err := a.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(0.3),
		llms.WithMaxTokens(300),
		llms.WithTopP(0.8),
		llms.WithTopK(30),
		llms.WithRepetitionPenalty(1.05),
	)
	if err != nil {
		a.logger.Error("journal analysis failed", zap.Error(err))
		return "", err
	}
	return contentOf(resp)
}

func contentOf(resp *llms.ContentResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty model response")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

// Available reports whether the configured model is pulled on the Ollama
// host. Used by the health endpoint only.
func (a *Assistant) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.serverURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false
	}
	var body struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	for _, m := range body.Models {
		if strings.HasPrefix(m.Name, a.modelName) {
			return true
		}
	}
	return false
}
