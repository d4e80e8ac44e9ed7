package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-pkgz/repeater/v2"
	"github.com/invopop/jsonschema"
	"github.com/sashabaranov/go-openai"

	"github.com/umputun/newsstream/pkg/domain"
)

const annotateSystemPrompt = `You are a News Intelligence Agent. You analyze news article text and respond only with valid JSON.`

// annotationResponse is the strict three-field object the model must return
type annotationResponse struct {
	Summary   string `json:"summary" jsonschema:"required,description=Concise summary of the article in at most 2 sentences"`
	Category  string `json:"category" jsonschema:"required,description=Exactly one category from the allowed set"`
	Sentiment string `json:"sentiment" jsonschema:"required,enum=Positive,enum=Negative,enum=Neutral,description=Overall sentiment"`
}

// errBadResponse marks unparsable model output, the only case retried
var errBadResponse = errors.New("bad annotation response")

// Annotate asks the model for summary, category and sentiment of the text.
// Unparsable responses are retried up to the configured number of attempts, call failures are not retried.
// Returned errors wrap domain.ErrGenerativeCall, the caller decides how to degrade.
func (c *Client) Annotate(ctx context.Context, text string) (domain.Annotation, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Temperature: float32(c.config.Temperature),
		MaxTokens:   c.config.MaxTokens,
		Messages:    messages(annotateSystemPrompt, c.annotatePrompt(text)),
	}
	switch c.config.ResponseFormat {
	case FormatJSONObject:
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	case FormatJSONSchema:
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type:       openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: c.schema,
		}
	}

	attempts := max(c.config.Retries, 1)
	var res domain.Annotation
	var callErr error
	err := repeater.NewFixed(attempts, 0).Do(ctx, func() error {
		content, err := c.complete(ctx, req)
		if err != nil {
			callErr = err
			return nil // stop, network and api failures are not retried
		}
		ann, err := c.parseAnnotation(content)
		if err != nil {
			return err
		}
		res = ann
		return nil
	})
	if callErr != nil {
		return domain.Annotation{}, callErr
	}
	if err != nil {
		return domain.Annotation{}, fmt.Errorf("%w: failed after %d attempts: %w", domain.ErrGenerativeCall, attempts, err)
	}
	return res, nil
}

// annotatePrompt makes the user prompt for one article
func (c *Client) annotatePrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following news article text.\n\n")
	sb.WriteString("Text: \"")
	sb.WriteString(text)
	sb.WriteString("\"\n\n")
	sb.WriteString("Task:\n")
	sb.WriteString("1. Summarize the article concisely (max 2 sentences).\n")
	sb.WriteString(fmt.Sprintf("2. Classify it into exactly ONE of these categories: %s.\n", strings.Join(c.categories, ", ")))
	sb.WriteString("3. Determine the sentiment (Positive, Negative, Neutral).\n\n")
	sb.WriteString("Output strictly in valid JSON format with exactly these fields:\n")
	sb.WriteString(`{"summary": "...", "category": "...", "sentiment": "..."}`)
	return sb.String()
}

// parseAnnotation extracts the JSON object from model output and normalizes category and sentiment
func (c *Client) parseAnnotation(content string) (domain.Annotation, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Annotation{}, fmt.Errorf("%w: %w", errBadResponse, errEmptyResponse)
	}

	// text mode may wrap the object in prose or a code fence
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || start >= end {
		return domain.Annotation{}, fmt.Errorf("%w: no json object found", errBadResponse)
	}

	var resp annotationResponse
	if err := json.Unmarshal([]byte(content[start:end+1]), &resp); err != nil {
		return domain.Annotation{}, fmt.Errorf("%w: failed to parse json: %w", errBadResponse, err)
	}
	summary := strings.TrimSpace(resp.Summary)
	if summary == "" {
		return domain.Annotation{}, fmt.Errorf("%w: missing summary", errBadResponse)
	}

	return domain.Annotation{
		Summary:   summary,
		Category:  c.canonicalCategory(resp.Category),
		Sentiment: domain.ParseSentiment(resp.Sentiment),
	}, nil
}

// canonicalCategory maps model output to a configured category, case-insensitively, or to Unclassified
func (c *Client) canonicalCategory(category string) string {
	category = strings.TrimSpace(category)
	for _, known := range c.categories {
		if strings.EqualFold(known, category) {
			return known
		}
	}
	return domain.CategoryUnclassified
}

// annotationSchema reflects the response struct into a strict JSON schema with the category enum filled in
func annotationSchema(categories []string) *openai.ChatCompletionResponseFormatJSONSchema {
	reflector := jsonschema.Reflector{DoNotReference: true, Anonymous: true}
	schema := reflector.Reflect(&annotationResponse{})
	schema.Version = ""
	if prop, ok := schema.Properties.Get("category"); ok && len(categories) > 0 {
		prop.Enum = make([]any, 0, len(categories))
		for _, cat := range categories {
			prop.Enum = append(prop.Enum, cat)
		}
	}
	return &openai.ChatCompletionResponseFormatJSONSchema{
		Name:        "article_annotation",
		Description: "summary, category and sentiment of a news article",
		Schema:      schema,
		Strict:      true,
	}
}
