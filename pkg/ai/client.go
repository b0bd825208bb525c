package ai

import (
	"context"
	"log"
	"os"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

var (
	client  *openai.Client
	enabled bool
)

// InitializeAIService wires the OpenAI client from the environment. Without
// credentials the feature stays off and description endpoints report 503.
func InitializeAIService() {
	endpoint := os.Getenv("AZURE_OPENAI_ENDPOINT")
	apiKey := os.Getenv("AZURE_OPENAI_API_KEY")
	if endpoint == "" || apiKey == "" {
		log.Println("AI features disabled: AZURE_OPENAI_ENDPOINT / AZURE_OPENAI_API_KEY not set")
		enabled = false
		return
	}

	c := openai.NewClient(
		option.WithBaseURL(endpoint),
		option.WithAPIKey(apiKey),
	)
	client = &c
	enabled = true
	log.Println("AI features enabled")
}

func IsEnabled() bool {
	return enabled && client != nil
}

func generateCompletion(ctx context.Context, systemMessage, userMessage string) (string, error) {
	if !IsEnabled() {
		return "", &AIError{Message: "AI service is not enabled"}
	}

	model := os.Getenv("AZURE_OPENAI_DEPLOYMENT_NAME")
	if model == "" {
		model = "gpt-35-turbo"
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemMessage),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(userMessage),
					},
				},
			},
		},
		MaxTokens:   openai.Int(400),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		log.Printf("AI completion error: %v", err)
		return "", &AIError{Message: "Failed to generate AI response", Cause: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &AIError{Message: "AI returned empty response"}
	}
	return resp.Choices[0].Message.Content, nil
}

// AIError wraps failures from the completion API so handlers can
// distinguish them from validation errors.
type AIError struct {
	Message string
	Cause   error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}
