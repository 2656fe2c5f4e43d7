package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/questforge/questforge-backend/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

// TextGenerator produces a structured content payload from a kind and a
// free-text scenario prompt. Implemented by the OpenAI-compatible client;
// tests substitute a stub.
type TextGenerator interface {
	Generate(ctx context.Context, kind, prompt string) (map[string]interface{}, error)
}

type openAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator creates a TextGenerator backed by an
// OpenAI-compatible chat completion endpoint.
func NewOpenAIGenerator(apiKey, baseURL, model string) TextGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &openAIGenerator{client: openai.NewClientWithConfig(cfg), model: model}
}

func (g *openAIGenerator) Generate(ctx context.Context, kind, prompt string) (map[string]interface{}, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(kind)},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("text generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("text generation returned no choices")
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("decode generated payload: %w", err)
	}
	return payload, nil
}

func systemPrompt(kind string) string {
	switch kind {
	case domain.KindCharacter:
		return "You are a tabletop RPG assistant. Generate a character for the given scenario as a single JSON object with descriptive top-level fields (name, race, class, appearance, personality, backstory, stats)."
	case domain.KindEnvironment:
		return "You are a tabletop RPG assistant. Generate an environment for the given scenario as a single JSON object with descriptive top-level fields (name, terrain, climate, atmosphere, inhabitants, points_of_interest)."
	case domain.KindMission:
		return "You are a tabletop RPG assistant. Generate a mission for the given scenario as a single JSON object with descriptive top-level fields (title, objective, hook, obstacles, rewards, twists)."
	}
	return "You are a tabletop RPG assistant. Generate content for the given scenario as a single JSON object."
}
