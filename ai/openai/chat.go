package openai

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// errNoChoices is returned when the model responds without any choices.
var errNoChoices = errors.New("no choices returned from model")

// newChatClient creates an OpenAI-compatible chat client for the given
// host and model. Uses "none" as token for local services that don't
// require authentication.
func newChatClient(host, model string) (llms.Model, error) {
	return openai.New(
		openai.WithBaseURL(host),
		openai.WithToken("none"),
		openai.WithModel(model),
	)
}

// completeText issues a single user-prompt chat call and returns the first
// choice's text content.
func completeText(ctx context.Context, client llms.Model, prompt string, opts ...llms.CallOption) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	response, err := client.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", errNoChoices
	}
	return response.Choices[0].Content, nil
}
