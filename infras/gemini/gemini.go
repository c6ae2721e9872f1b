package gemini

import (
	"context"
	"errors"
	"fmt"
	"kiosk/config"
	"kiosk/infras/otel"
	dialogue "kiosk/internal/domains/dialogue/model"
	"kiosk/shared/constant"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

const (
	roleUser  = "user"
	roleModel = "model"
)

var errEmptyResponse = errors.New("gemini returned no candidates")

// Client is the Gemini-backed advisor.
type Client struct {
	client *genai.Client
	model  string
	otel   otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) *Client {
	if cfg.Advisor.APIKey == constant.Empty {
		log.Warn().Msg("ADVISOR_API_KEY is empty, every turn will fall back")
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Advisor.APIKey))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	log.Info().Str("model", cfg.Advisor.Model).Msg("Gemini advisor initialized")

	return &Client{
		client: client,
		model:  cfg.Advisor.Model,
		otel:   otel,
	}
}

// Advise sends one chat turn and returns the raw text of the first candidate.
func (c *Client) Advise(ctx context.Context, prompt dialogue.Prompt) (out string, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".Gemini.Advise")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute("gemini.model", c.model)

	model := c.client.GenerativeModel(c.model)
	model.ResponseMIMEType = constant.ContentTypeJSON
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(prompt.System)}}

	chat := model.StartChat()
	chat.History = history(prompt.History)

	resp, err := chat.SendMessage(ctx, genai.Text(prompt.Message))
	if err != nil {
		return constant.Empty, fmt.Errorf("gemini generate error: %w", err)
	}

	return text(resp)
}

func (c *Client) Close() error {
	return c.client.Close() //nolint:wrapcheck
}

func history(turns []dialogue.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))

	for _, turn := range turns {
		role := roleUser
		if turn.Role == dialogue.RoleAssistant {
			role = roleModel
		}

		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}

	return contents
}

func text(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return constant.Empty, errEmptyResponse
	}

	var sb strings.Builder

	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}

	return sb.String(), nil
}
