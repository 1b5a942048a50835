package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"mindmap/internal/services"
	"mindmap/pkg/openai"
)

// stubCompleter records the last completion call and returns a canned result.
type stubCompleter struct {
	lastMessages []openai.Message
	lastOpts     openai.Options
	result       openai.Result
}

func (s *stubCompleter) ChatCompletion(_ context.Context, messages []openai.Message, opts openai.Options) openai.Result {
	s.lastMessages = messages
	s.lastOpts = opts
	return s.result
}

func TestAIService_GenerateMindMap(t *testing.T) {
	stub := &stubCompleter{result: openai.Result{Success: true, Content: `{"title":"Go","children":[],"type":"default"}`}}
	service := services.NewAIService(stub)

	result := service.GenerateMindMap(context.Background(), "A mind map about Go", nil)
	assert.True(t, result.Success)
	assert.Contains(t, result.Content, "Go")

	assert.Len(t, stub.lastMessages, 2)
	assert.Equal(t, "system", stub.lastMessages[0].Role)
	assert.Contains(t, stub.lastMessages[0].Content, `"children"`)
	for _, nodeType := range []string{"default", "idea", "task", "question", "note"} {
		assert.Contains(t, stub.lastMessages[0].Content, nodeType)
	}
	assert.Equal(t, "A mind map about Go", stub.lastMessages[1].Content)
	assert.Equal(t, 0.7, stub.lastOpts.Temperature)
	assert.Equal(t, 1000, stub.lastOpts.MaxTokens)
}

func TestAIService_GenerateMindMapWithContext(t *testing.T) {
	stub := &stubCompleter{result: openai.Result{Success: true}}
	service := services.NewAIService(stub)

	currentMap := json.RawMessage(`{"title":"Existing","children":[],"type":"default"}`)
	service.GenerateMindMap(context.Background(), "Extend this", currentMap)

	// The current map rides along as an extra user message.
	assert.Len(t, stub.lastMessages, 3)
	assert.Equal(t, "user", stub.lastMessages[2].Role)
	assert.Contains(t, stub.lastMessages[2].Content, "Existing")
}

func TestAIService_ExpandNode(t *testing.T) {
	stub := &stubCompleter{result: openai.Result{Success: true, Content: `[{"title":"Child","type":"idea"}]`}}
	service := services.NewAIService(stub)

	result := service.ExpandNode(context.Background(), "Testing", "unit and integration", "part of a QA map")
	assert.True(t, result.Success)

	assert.Len(t, stub.lastMessages, 2)
	assert.Contains(t, stub.lastMessages[0].Content, `"type"`)
	assert.Contains(t, stub.lastMessages[1].Content, "5-7")
	assert.Contains(t, stub.lastMessages[1].Content, "Title: Testing")
	assert.Contains(t, stub.lastMessages[1].Content, "Node content: unit and integration")
	assert.Contains(t, stub.lastMessages[1].Content, "Map context: part of a QA map")
	assert.Equal(t, 0.8, stub.lastOpts.Temperature)
}

func TestAIService_ExpandNodeOmitsEmptyContext(t *testing.T) {
	stub := &stubCompleter{result: openai.Result{Success: true}}
	service := services.NewAIService(stub)

	service.ExpandNode(context.Background(), "Testing", "", "")
	assert.NotContains(t, stub.lastMessages[1].Content, "Node content:")
	assert.NotContains(t, stub.lastMessages[1].Content, "Map context:")
}

func TestAIService_GenerateInsights(t *testing.T) {
	stub := &stubCompleter{result: openai.Result{Success: true, Content: "## Key insights\n..."}}
	service := services.NewAIService(stub)

	mapData := json.RawMessage(`{"title":"Project","children":[],"type":"default"}`)
	result := service.GenerateInsights(context.Background(), mapData)
	assert.True(t, result.Success)

	assert.Contains(t, stub.lastMessages[0].Content, "blind spots")
	assert.Contains(t, stub.lastMessages[0].Content, "markdown")
	assert.Contains(t, stub.lastMessages[1].Content, "Project")
	assert.Equal(t, 0.7, stub.lastOpts.Temperature)
}

func TestAIService_UpstreamFailurePassesThrough(t *testing.T) {
	stub := &stubCompleter{result: openai.Result{Success: false, Error: "rate limited"}}
	service := services.NewAIService(stub)

	result := service.GenerateMindMap(context.Background(), "anything", nil)
	assert.False(t, result.Success)
	assert.Equal(t, "rate limited", result.Error)
	assert.Empty(t, result.Content)
}
