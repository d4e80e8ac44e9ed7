package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const answerSystemPrompt = "You are a helpful news assistant."

// Answer asks the model to answer the question strictly from the news context
func (c *Client) Answer(ctx context.Context, question, newsContext string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Temperature: float32(c.config.Temperature),
		MaxTokens:   c.config.MaxTokens,
		Messages:    messages(answerSystemPrompt, answerPrompt(question, newsContext)),
	}
	content, err := c.complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("answer: %w", err)
	}
	return content, nil
}

func answerPrompt(question, newsContext string) string {
	var sb strings.Builder
	sb.WriteString("You are a News Intelligence Agent. Use the provided news summaries to answer the user's question.\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("1. Answer strictly based on the provided context.\n")
	sb.WriteString("2. If the context contains relevant information, summarize it to answer the question.\n")
	sb.WriteString("3. Mention the source titles when possible.\n")
	sb.WriteString("4. If the context is empty or irrelevant, politely state you don't have that info.\n\n")
	sb.WriteString("News Context:\n")
	sb.WriteString(newsContext)
	sb.WriteString("\n\nUser Question: ")
	sb.WriteString(question)
	return sb.String()
}
