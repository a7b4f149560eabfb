package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
)

// TransportError marks a network, timeout or non-success-status failure of
// the remote judgment call.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("classifier transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedReplyError marks a reply that reached us but did not parse as a
// judgment, or carried a value outside the enumerations.
type MalformedReplyError struct {
	Reason string
	Err    error
}

func (e *MalformedReplyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("classifier reply malformed: %s: %v", e.Reason, e.Err)
	}
	return "classifier reply malformed: " + e.Reason
}

func (e *MalformedReplyError) Unwrap() error {
	return e.Err
}

// RemoteConfig configures the hosted judgment model.
type RemoteConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// RemoteClassifier asks the hosted model for a structured judgment over one
// inbound message. Each call carries a bounded timeout and is never retried;
// the caller falls back to the keyword ladder on any error.
type RemoteClassifier struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewRemoteClassifier constructs the classifier client.
func NewRemoteClassifier(cfg RemoteConfig) (*RemoteClassifier, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("classifier API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "llama-3.1-70b-versatile"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &RemoteClassifier{
		client:  openai.NewClient(opts...),
		model:   model,
		timeout: timeout,
	}, nil
}

const systemPrompt = "You are an expert IT ticket analyzer. Respond only with valid JSON."

const promptTemplate = `Analyze this IT support email and provide structured categorization:

From: %s
Subject: %s
Body: %s

Classify this email and respond with ONLY valid JSON:
{
    "category": "security|access|hardware|software|network|general",
    "priority": "high|medium|low",
    "route_to": "SOFTWARE_SECURITY_OFFICER|IT_HELPDESK_MANAGER|HR_COORDINATOR|PROCUREMENT_OFFICER|NETWORK_ADMIN",
    "issue_type": "brief description of the issue",
    "urgency_reason": "explanation for priority level"
}

Routing Rules:
- Security issues, password resets -> SOFTWARE_SECURITY_OFFICER (HIGH)
- New employee setup, departures -> HR_COORDINATOR (MEDIUM)
- Hardware problems, software issues -> IT_HELPDESK_MANAGER (MEDIUM/HIGH)
- Network/VPN problems -> NETWORK_ADMIN (HIGH)
- Software purchases, licenses -> PROCUREMENT_OFFICER (LOW)`

// judgmentReply mirrors the JSON object the model must return.
type judgmentReply struct {
	Category      string `json:"category"`
	Priority      string `json:"priority"`
	RouteTo       string `json:"route_to"`
	IssueType     string `json:"issue_type"`
	UrgencyReason string `json:"urgency_reason"`
}

var judgmentSchema = func() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(judgmentReply{})
}()

// Judge performs one classification call.
func (r *RemoteClassifier) Judge(ctx context.Context, msg domain.InboundMessage) (domain.Judgment, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: r.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(fmt.Sprintf(promptTemplate, msg.Sender, msg.Subject, msg.Body)),
		},
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(300),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "ticket_judgment",
					Schema: judgmentSchema,
					Strict: openai.Bool(true),
				},
			},
		},
	}

	resp, err := r.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return domain.Judgment{}, &TransportError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return domain.Judgment{}, &MalformedReplyError{Reason: "no choices in response"}
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	var reply judgmentReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return domain.Judgment{}, &MalformedReplyError{Reason: "invalid JSON", Err: err}
	}
	return reply.toJudgment()
}

// toJudgment validates every field against the fixed enumerations. External
// input is never trusted opaquely; any unknown value rejects the whole reply.
func (r judgmentReply) toJudgment() (domain.Judgment, error) {
	category, err := domain.ParseCategory(r.Category)
	if err != nil {
		return domain.Judgment{}, &MalformedReplyError{Reason: "category outside enumeration", Err: err}
	}
	priority, err := domain.ParsePriority(r.Priority)
	if err != nil {
		return domain.Judgment{}, &MalformedReplyError{Reason: "priority outside enumeration", Err: err}
	}
	role, err := domain.ParseStaffRole(r.RouteTo)
	if err != nil {
		return domain.Judgment{}, &MalformedReplyError{Reason: "route_to outside enumeration", Err: err}
	}
	return domain.Judgment{
		Category:      category,
		Priority:      priority,
		RouteTo:       role,
		IssueType:     r.IssueType,
		UrgencyReason: r.UrgencyReason,
	}, nil
}
