package llm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/xhad/kbase/pkg/llm"
)

type fakeModel struct {
	reply    string
	messages []llms.MessageContent
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.reply}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestNewWithConfig(t *testing.T) {
	engine, err := llm.NewWithConfig(llm.ChatConfig{
		Model:       "testmodel",
		Temperature: 0.5,
		MaxTokens:   1000,
		BaseURL:     "http://localhost:1234",
	})
	assert.NoError(t, err)
	assert.NotNil(t, engine)

	_, err = llm.NewWithConfig(llm.ChatConfig{Temperature: 5})
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	assert.Equal(t, "q", llm.BuildPrompt("q", nil))
	assert.Equal(t, "a\n---\nb\n---\nq", llm.BuildPrompt("q", []string{"a", "b"}))
}

func TestGenerate(t *testing.T) {
	model := &fakeModel{reply: "The secret code is PURPLE-UNICORN-42."}
	engine, err := llm.NewWithModel(llm.ChatConfig{Temperature: 0.2}, model)
	require.NoError(t, err)

	answer, err := engine.Generate(context.Background(), "What is the code?", []string{"The secret code for Mercy Shop is: PURPLE-UNICORN-42."})
	require.NoError(t, err)
	assert.Equal(t, "The secret code is PURPLE-UNICORN-42.", answer)

	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
	part, ok := model.messages[1].Parts[0].(llms.TextContent)
	require.True(t, ok)
	assert.Equal(t, "The secret code for Mercy Shop is: PURPLE-UNICORN-42.\n---\nWhat is the code?", part.Text)
}

func TestGenerateEmptyReply(t *testing.T) {
	engine, err := llm.NewWithModel(llm.ChatConfig{}, &fakeModel{reply: "  "})
	require.NoError(t, err)

	answer, err := engine.Generate(context.Background(), "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, llm.NoResponse, answer)
}
