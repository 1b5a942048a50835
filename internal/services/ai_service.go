package services

import (
	"context"
	"encoding/json"
	"fmt"

	"mindmap/pkg/openai"
)

// Completer is the generic completion capability the AI gateway delegates to.
// *openai.Client satisfies it.
type Completer interface {
	ChatCompletion(ctx context.Context, messages []openai.Message, opts openai.Options) openai.Result
}

const generateMindMapSystemPrompt = `You are an expert mind map generator. Based on the user's input,
generate a structured mind map in JSON form. The output must follow this shape:

{
  "title": "Main theme",
  "children": [
    { "title": "Subtheme 1", "children": [], "type": "idea" },
    { "title": "Subtheme 2", "children": [], "type": "task" }
  ],
  "type": "default"
}

Use one of the following node types:
- default: standard node
- idea: idea node
- task: task node
- question: question node
- note: note node

Return only the JSON. Do not include explanations or extra text.`

const expandNodeSystemPrompt = `You are an expert mind map author. For the given node, generate
highly relevant child nodes. The output must follow this JSON shape:

[
  { "title": "Child node 1", "type": "idea" },
  { "title": "Child node 2", "type": "task" },
  { "title": "Child node 3", "type": "question" }
]

Use one of the following node types:
- default: standard node
- idea: idea node
- task: task node
- question: question node
- note: note node

Return only the JSON. Do not include explanations or extra text.`

const insightsSystemPrompt = `You are an expert mind map analyst. Analyze the provided mind map and
offer key insights, patterns, connections, and suggested next steps.
Structure the analysis into the following sections:

1. Key insights
2. Patterns and connections found
3. Potential blind spots or areas that may be overlooked
4. Suggested next steps

Answer in markdown.`

// AIService translates mind-map operations into completion calls. It is
// stateless and best-effort: the model's output is passed through verbatim,
// never parsed or validated against the prompted JSON shape.
type AIService struct {
	client    Completer
	maxTokens int
}

// NewAIService creates a new AIService.
func NewAIService(client Completer) *AIService {
	return &AIService{
		client:    client,
		maxTokens: 1000,
	}
}

// GenerateMindMap asks the model for a whole mind map tree. The current map,
// if present, is appended as extra context.
func (s *AIService) GenerateMindMap(ctx context.Context, prompt string, currentMap json.RawMessage) openai.Result {
	messages := []openai.Message{
		{Role: "system", Content: generateMindMapSystemPrompt},
		{Role: "user", Content: prompt},
	}
	if len(currentMap) > 0 {
		messages = append(messages, openai.Message{
			Role:    "user",
			Content: fmt.Sprintf("Current mind map: %s", string(currentMap)),
		})
	}
	return s.client.ChatCompletion(ctx, messages, openai.Options{
		Temperature: 0.7,
		MaxTokens:   s.maxTokens,
	})
}

// ExpandNode asks the model for 5-7 child nodes of an existing node.
func (s *AIService) ExpandNode(ctx context.Context, nodeTitle, nodeContent, mapContext string) openai.Result {
	prompt := fmt.Sprintf("Generate 5-7 highly relevant child nodes for the following node:\n\nTitle: %s", nodeTitle)
	if nodeContent != "" {
		prompt += fmt.Sprintf("\n\nNode content: %s", nodeContent)
	}
	if mapContext != "" {
		prompt += fmt.Sprintf("\n\nMap context: %s", mapContext)
	}

	messages := []openai.Message{
		{Role: "system", Content: expandNodeSystemPrompt},
		{Role: "user", Content: prompt},
	}
	return s.client.ChatCompletion(ctx, messages, openai.Options{
		Temperature: 0.8,
		MaxTokens:   s.maxTokens,
	})
}

// GenerateInsights asks the model for a four-section markdown analysis of a
// mind map. No JSON contract applies to the response.
func (s *AIService) GenerateInsights(ctx context.Context, mapData json.RawMessage) openai.Result {
	prompt := fmt.Sprintf("Analyze the following mind map and provide insights:\n\n%s", string(mapData))

	messages := []openai.Message{
		{Role: "system", Content: insightsSystemPrompt},
		{Role: "user", Content: prompt},
	}
	return s.client.ChatCompletion(ctx, messages, openai.Options{
		Temperature: 0.7,
		MaxTokens:   s.maxTokens,
	})
}
