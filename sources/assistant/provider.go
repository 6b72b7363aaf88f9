package assistant

import (
	"context"
	"errors"
	"time"
	"pawkeeper/sources/configuration"
	"pawkeeper/sources/metrics"
	"pawkeeper/sources/platform"
	"pawkeeper/sources/tracing"

	"github.com/sashabaranov/go-openai"
)

var ErrEmptyCompletion = errors.New("assistant returned no choices")

// AssistantProvider wraps the OpenAI client behind the two calls the product
// actually makes. Prompts and models come from configuration so they can be
// tuned without a release.
type AssistantProvider struct {
	ai      *openai.Client
	config  *configuration.Config
	metrics *metrics.MetricsService
}

func NewAssistantProvider(ai *openai.Client, config *configuration.Config, metrics *metrics.MetricsService) *AssistantProvider {
	return &AssistantProvider{ai: ai, config: config, metrics: metrics}
}

func (x *AssistantProvider) Chat(log *tracing.Logger, question string) (string, error) {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 2*time.Minute)
	defer cancel()

	model := x.config.AI.ChatModel
	log = log.With(tracing.AiKind, "openai/chat", tracing.AiModel, model)

	request := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: x.config.AI.ChatPrompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
	}

	log.I("chat requested")
	started := time.Now()

	response, err := x.ai.CreateChatCompletion(ctx, request)
	x.metrics.ObserveAssistantRequest(model, time.Since(started))

	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			log.E("OpenAI API error in chat", "code", apiErr.Code, "http_status", apiErr.HTTPStatusCode, tracing.InnerError, err)
			return "", err
		}
		log.E("Failed to get chat completion", tracing.InnerError, err)
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	log.I("chat completed")
	return response.Choices[0].Message.Content, nil
}

// AnalyzeDocument sends a veterinary document or photo through the vision
// model. The image goes by URL, not bytes; upload and signing happen upstream.
func (x *AssistantProvider) AnalyzeDocument(log *tracing.Logger, imageURL string, question string) (string, error) {
	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 5*time.Minute)
	defer cancel()

	model := x.config.AI.AnalysisModel
	log = log.With(tracing.AiKind, "openai/analysis", tracing.AiModel, model)

	if question == "" {
		question = x.config.AI.AnalysisPrompt
	}

	request := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: x.config.AI.AnalysisPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: question},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: imageURL, Detail: openai.ImageURLDetailHigh}},
				},
			},
		},
	}

	log.I("analysis requested")
	started := time.Now()

	response, err := x.ai.CreateChatCompletion(ctx, request)
	x.metrics.ObserveAssistantRequest(model, time.Since(started))

	if err != nil {
		log.E("Failed to analyze document", tracing.InnerError, err)
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	log.I("analysis completed")
	return response.Choices[0].Message.Content, nil
}
