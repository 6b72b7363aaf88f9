package assistant

import (
	"net/http"
	"time"
	"pawkeeper/sources/configuration"

	"github.com/sashabaranov/go-openai"
)

func NewOpenAIClient(config *configuration.Config) *openai.Client {
	timeout := config.AI.RequestTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	openaiConfig := openai.DefaultConfig(config.AI.OpenAIToken)
	openaiConfig.HTTPClient = &http.Client{Timeout: timeout}
	return openai.NewClientWithConfig(openaiConfig)
}
