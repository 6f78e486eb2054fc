package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrEmptyInput is returned when there is nothing to summarize.
var ErrEmptyInput = errors.New("ai: nothing to summarize")

// VideoContext is what the model gets to know about one video.
type VideoContext struct {
	URL          string
	Title        string
	ChannelTitle string
	Description  string
}

// Summarizer defines the AI summary interface used by the API and the digest agent.
type Summarizer interface {
	// SummarizeVideo identifies the main topics of a video and summarizes each.
	SummarizeVideo(ctx context.Context, v VideoContext) (string, error)
	// CombineSummaries merges many per-video summaries into one narrative.
	CombineSummaries(ctx context.Context, summaries string) (string, error)
}

// OpenAIClient implements Summarizer on any OpenAI-compatible Chat Completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
}

func NewOpenAI(cfg Config) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ai: API key is not configured")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("ai: model must be specified")
	}
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	return &OpenAIClient{client: c, model: cfg.Model}, nil
}

const videoSystemPrompt = `You summarize YouTube videos.
Identify the main topics and provide a concise summary for each.
Format every topic as a bold heading followed by one short paragraph.
Plain Markdown only, no preamble.`

const combineSystemPrompt = `Role: You are an expert synthesizer of information.
Goal: Combine information from multiple topical summaries into one comprehensive and coherent final summary.
Input: a numbered list of key points from a number of YouTube videos. Each point has a descriptive title and a summary of that aspect.
Task:
1. Read through all the provided title-summary pairs.
2. Identify the connections and overarching narrative across the sections.
3. Write a single, flowing final summary that integrates the key information from all the provided summaries.
4. Make sure every concept represented by the bold headings is explicitly mentioned or clearly addressed.
5. Keep it easy to read and understand, presenting a unified overview of the collective information.`

func (o *OpenAIClient) SummarizeVideo(ctx context.Context, v VideoContext) (string, error) {
	// set timeout to 120s for video-level summary
	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()
	if strings.TrimSpace(v.URL) == "" {
		return "", ErrEmptyInput
	}
	desc := strings.TrimSpace(v.Description)
	if len([]rune(desc)) > 4000 {
		desc = string([]rune(desc)[:4000])
	}

	b := &strings.Builder{}
	fmt.Fprintf(b, "Video: %s\n", v.URL)
	if v.Title != "" {
		fmt.Fprintf(b, "Title: %s\n", v.Title)
	}
	if v.ChannelTitle != "" {
		fmt.Fprintf(b, "Channel: %s\n", v.ChannelTitle)
	}
	if desc != "" {
		fmt.Fprintf(b, "Description:\n%s\n", desc)
	}
	b.WriteString("\nTask: identify the main topics and provide concise summary for each.")

	out, err := o.create(ctx, videoSystemPrompt, b.String())
	if err != nil {
		slog.Error("openai: summarize video error", "url", v.URL, "err", err)
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (o *OpenAIClient) CombineSummaries(ctx context.Context, summaries string) (string, error) {
	// set timeout to 300s for the combined summary
	ctx, cancel := context.WithTimeout(ctx, 300*time.Second)
	defer cancel()
	summaries = strings.TrimSpace(summaries)
	if summaries == "" {
		return "", ErrEmptyInput
	}
	user := "Generate the final summary based on the provided input data:\n" + summaries
	out, err := o.create(ctx, combineSystemPrompt, user)
	if err != nil {
		slog.Error("openai: combine summaries error", "err", err)
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (o *OpenAIClient) create(ctx context.Context, system, user string) (string, error) {
	// Default timeout guard, if caller didn't set one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 300*time.Second)
		defer cancel()
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}
