package genai

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	apperrors "github.com/jpaulsen/lawflow/internal/errors"
	"github.com/jpaulsen/lawflow/internal/logger"
)

const defaultMaxTokens = 4096

// Client is the Anthropic-backed Collaborator.
type Client struct {
	client *anthropic.Client
	model  string
}

// NewClient builds a Collaborator over the Anthropic API.
func NewClient(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, apperrors.NewValidationError("api_key", "anthropic API key is required")
	}
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Client{client: &c, model: model}, nil
}

// complete sends one system+user exchange and returns the text content.
func (c *Client) complete(ctx context.Context, operation, system, user string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("genai")
	log.Debug("collaborator request operation=%s prompt_chars=%d", operation, len(user))

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: defaultMaxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", apperrors.NewCollaboratorError(operation, err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			log.Debug("collaborator response operation=%s input_tokens=%d output_tokens=%d",
				operation, msg.Usage.InputTokens, msg.Usage.OutputTokens)
			return block.Text, nil
		}
	}
	return "", apperrors.NewCollaboratorError(operation, nil)
}

func (c *Client) TagContent(ctx context.Context, subject, content string) (*TagResult, error) {
	raw, err := c.complete(ctx, "tag_content", tagSystem, tagPrompt(subject, content))
	if err != nil {
		return nil, err
	}
	var out TagResult
	if err := decodeJSON(raw, &out); err != nil {
		return nil, apperrors.NewCollaboratorError("tag_content", err)
	}
	return &out, nil
}

func (c *Client) GenerateQuestions(ctx context.Context, req QuestionRequest) ([]GeneratedQuestion, error) {
	raw, err := c.complete(ctx, "generate_questions", questionSystem, questionPrompt(req))
	if err != nil {
		return nil, err
	}
	var out []GeneratedQuestion
	if err := decodeJSON(raw, &out); err != nil {
		return nil, apperrors.NewCollaboratorError("generate_questions", err)
	}
	return out, nil
}

func (c *Client) GenerateCards(ctx context.Context, subject, topic, content string) ([]GeneratedCard, error) {
	raw, err := c.complete(ctx, "generate_cards", cardSystem, cardPrompt(subject, topic, content))
	if err != nil {
		return nil, err
	}
	var out []GeneratedCard
	if err := decodeJSON(raw, &out); err != nil {
		return nil, apperrors.NewCollaboratorError("generate_cards", err)
	}
	return out, nil
}

func (c *Client) GradeEssay(ctx context.Context, req GradeRequest) (*EssayGrade, error) {
	raw, err := c.complete(ctx, "grade_essay", essayGradeSystem, essayGradePrompt(req))
	if err != nil {
		return nil, err
	}
	var out EssayGrade
	if err := decodeJSON(raw, &out); err != nil {
		return nil, apperrors.NewCollaboratorError("grade_essay", err)
	}
	return &out, nil
}

func (c *Client) GradeIssueSpot(ctx context.Context, req GradeRequest) (*IssueSpotGrade, error) {
	raw, err := c.complete(ctx, "grade_issue_spot", essayGradeSystem, issueSpotGradePrompt(req))
	if err != nil {
		return nil, err
	}
	var out IssueSpotGrade
	if err := decodeJSON(raw, &out); err != nil {
		return nil, apperrors.NewCollaboratorError("grade_issue_spot", err)
	}
	return &out, nil
}

func (c *Client) AnalyzeExam(ctx context.Context, subject, text string) (*ExamAnalysis, error) {
	raw, err := c.complete(ctx, "analyze_exam", examAnalysisSystem, examAnalysisPrompt(subject, text))
	if err != nil {
		return nil, err
	}
	var out ExamAnalysis
	if err := decodeJSON(raw, &out); err != nil {
		return nil, apperrors.NewCollaboratorError("analyze_exam", err)
	}
	return &out, nil
}

var _ Collaborator = (*Client)(nil)
