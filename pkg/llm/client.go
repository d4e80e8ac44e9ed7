// Package llm talks to an OpenAI-compatible generative model. It annotates article text with a summary,
// category and sentiment under a strict JSON contract and composes answers from retrieved context.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-pkgz/lgr"
	"github.com/sashabaranov/go-openai"

	"github.com/umputun/newsstream/pkg/config"
	"github.com/umputun/newsstream/pkg/domain"
)

// response format modes for enrichment
const (
	FormatJSONObject = "json_object"
	FormatJSONSchema = "json_schema"
	FormatText       = "text"
)

// Client wraps chat completions for enrichment and answers
type Client struct {
	client     *openai.Client
	config     config.LLMConfig
	categories []string
	schema     *openai.ChatCompletionResponseFormatJSONSchema
}

// NewClient makes a client for the configured endpoint. Categories is the fixed set the model must pick from.
func NewClient(cfg config.LLMConfig, categories []string) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.ResponseFormat == "" {
		cfg.ResponseFormat = FormatJSONObject
	}

	res := &Client{
		client:     openai.NewClientWithConfig(clientConfig),
		config:     cfg,
		categories: categories,
	}
	if cfg.ResponseFormat == FormatJSONSchema {
		res.schema = annotationSchema(categories)
	}
	return res
}

// complete sends one chat completion and returns the first choice content
func (c *Client) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerativeCall, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response from llm", domain.ErrGenerativeCall)
	}
	lgr.Printf("[DEBUG] llm response, %d prompt tokens, %d completion tokens",
		resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	return resp.Choices[0].Message.Content, nil
}

// errEmptyResponse is returned for a completion without any content
var errEmptyResponse = errors.New("empty llm response")

// messages makes a system+user message pair
func messages(system, user string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: user},
	}
}
