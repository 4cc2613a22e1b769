package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"strings"
	"text/template"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/josephgoksu/TaskQuest/internal/llm"
	"github.com/josephgoksu/TaskQuest/internal/logger"
	"github.com/josephgoksu/TaskQuest/internal/utils"
)

const (
	// MaxGenerationRetries is the maximum number of attempts for one request.
	MaxGenerationRetries = 3

	// RetryDelay is the base delay between attempts.
	RetryDelay = 500 * time.Millisecond

	// MaxPendingInPrompt bounds how many pending tasks are shown to the model.
	MaxPendingInPrompt = 25
)

// GenerationResult contains the result of a structured generation.
type GenerationResult[T any] struct {
	Result    T
	RawOutput string
	Attempts  int
	Duration  time.Duration
}

// Option configures a Generator.
type Option func(*Generator)

// WithChatModel uses m instead of building one from the LLM config.
func WithChatModel(m model.BaseChatModel) Option {
	return func(g *Generator) { g.chatModel = m }
}

// WithRetryDelay overrides RetryDelay.
func WithRetryDelay(d time.Duration) Option {
	return func(g *Generator) { g.retryDelay = d }
}

// WithLogger sets the logger used for attempt diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// Generator is a Provider backed by an Eino chat model. Model output is
// parsed, validated and fed back to the model on failure.
type Generator struct {
	cfg        llm.Config
	chatModel  model.BaseChatModel
	closer     io.Closer
	retryDelay time.Duration
	logger     *slog.Logger
}

var _ Provider = (*Generator)(nil)

// NewGenerator creates a generator. The chat model is created lazily on the
// first request unless one is injected.
func NewGenerator(cfg llm.Config, opts ...Option) *Generator {
	g := &Generator{cfg: cfg, retryDelay: RetryDelay, logger: slog.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Close releases LLM resources.
func (g *Generator) Close() error {
	if g.closer != nil {
		return g.closer.Close()
	}
	return nil
}

// Suggest implements Provider.
func (g *Generator) Suggest(ctx context.Context, req Request) (*Response, error) {
	res, err := g.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return &res.Result, nil
}

// Generate produces a validated Response together with attempt metadata.
func (g *Generator) Generate(ctx context.Context, req Request) (*GenerationResult[Response], error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}
	pending := req.Context.PendingTasks
	if len(pending) > MaxPendingInPrompt {
		pending = pending[:MaxPendingInPrompt]
	}
	pendingJSON, err := json.MarshalIndent(pending, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode pending tasks: %w", err)
	}

	return generateWithRetry(ctx, g, coachPromptTemplate,
		map[string]any{
			"Message":   strings.TrimSpace(req.Message),
			"Pending":   string(pendingJSON),
			"Yesterday": req.Context.YesterdayCompletedCount,
			"Streak":    req.Context.Streak,
		},
		func(r *Response) ValidationResult { return r.Validate() },
	)
}

func (g *Generator) ensureModel(ctx context.Context) error {
	if g.chatModel != nil {
		return nil
	}
	cm, err := llm.NewCloseableChatModel(ctx, g.cfg)
	if err != nil {
		return fmt.Errorf("create chat model: %w", err)
	}
	g.chatModel = cm
	g.closer = cm
	return nil
}

// generateWithRetry is the generation loop with validation and error feedback.
func generateWithRetry[T any](
	ctx context.Context,
	g *Generator,
	promptTemplate string,
	input map[string]any,
	validate func(*T) ValidationResult,
) (*GenerationResult[T], error) {
	start := time.Now()

	if err := g.ensureModel(ctx); err != nil {
		return nil, err
	}

	tmpl, err := template.New("prompt").Parse(promptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var lastErr error
	var feedback string

	for attempt := 1; attempt <= MaxGenerationRetries; attempt++ {
		promptInput := copyMap(input)
		if feedback != "" {
			promptInput["ValidationErrors"] = feedback
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, promptInput); err != nil {
			return nil, fmt.Errorf("execute template: %w", err)
		}

		prompt := buf.String()
		logger.SetLastPrompt(prompt)

		resp, err := g.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
		if err != nil {
			lastErr = fmt.Errorf("LLM generate: %w", err)
			if isTransientError(err) && attempt < MaxGenerationRetries {
				g.logger.Debug("transient LLM error, retrying", "attempt", attempt, "error", err)
				if err := g.wait(ctx, g.retryDelay*time.Duration(attempt)); err != nil {
					return nil, err
				}
				continue
			}
			return nil, lastErr
		}

		result, err := utils.ExtractAndParseJSON[T](resp.Content)
		if err != nil {
			lastErr = fmt.Errorf("parse JSON (attempt %d): %w", attempt, err)
			feedback = formatErrorFeedback("JSON Parse Error", err.Error(), resp.Content)
		} else if vr := validate(&result); !vr.Valid {
			lastErr = fmt.Errorf("validation failed (attempt %d): %s", attempt, vr.ErrorSummary())
			feedback = formatValidationFeedback(vr)
		} else {
			g.logger.Debug("suggestion generated", "attempts", attempt, "duration", time.Since(start))
			return &GenerationResult[T]{
				Result:    result,
				RawOutput: resp.Content,
				Attempts:  attempt,
				Duration:  time.Since(start),
			}, nil
		}

		g.logger.Debug("suggestion rejected", "attempt", attempt, "error", lastErr)
		if attempt < MaxGenerationRetries {
			if err := g.wait(ctx, g.retryDelay); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("generation failed after %d attempts: %w", MaxGenerationRetries, lastErr)
}

func (g *Generator) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func formatErrorFeedback(errorType, errorMsg, rawOutput string) string {
	return fmt.Sprintf(`
PREVIOUS ATTEMPT FAILED - PLEASE FIX

Error Type: %s
Error: %s

Your previous output (which failed):
%s

Please ensure your response is valid JSON matching the required schema.
`, errorType, errorMsg, utils.Truncate(rawOutput, 500))
}

func formatValidationFeedback(result ValidationResult) string {
	var sb strings.Builder
	sb.WriteString("\nPREVIOUS ATTEMPT FAILED - SCHEMA VALIDATION ERRORS\n\n")
	sb.WriteString("Please fix the following issues:\n")
	for i, e := range result.Errors {
		fmt.Fprintf(&sb, "%d. Field '%s': %s\n", i+1, e.Field, e.Message)
		if e.Value != nil {
			fmt.Fprintf(&sb, "   Current value: %v\n", e.Value)
		}
	}
	sb.WriteString("\nPlease regenerate the response with these issues corrected.\n")
	return sb.String()
}

func copyMap(m map[string]any) map[string]any {
	result := make(map[string]any, len(m))
	maps.Copy(result, m)
	return result
}

// isTransientError reports rate limits and network hiccups.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"rate limit", "429", "too many requests", "quota exceeded", "timeout", "connection", "temporary"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

const coachPromptTemplate = `You are an upbeat productivity coach inside a gamified task tracker.

USER MESSAGE:
{{.Message}}

CURRENT SITUATION:
- Pending tasks:
{{.Pending}}
- Tasks completed yesterday: {{.Yesterday}}
- Current streak: {{.Streak}} days
{{if .ValidationErrors}}
{{.ValidationErrors}}
{{end}}
INSTRUCTIONS:
Reflect briefly on the message and suggest a few concrete tasks. Respond with JSON:

{
  "reflection": "string (required, one or two encouraging sentences)",
  "suggestedTasks": [
    {
      "title": "string (max 200 chars, action-oriented)",
      "priority": "low|medium|high|critical",
      "estimatedTime": 0-480 (minutes),
      "reason": "string (max 500 chars)"
    }
  ],
  "focusAdvice": "string (one sentence)"
}

RULES:
- At most 10 suggested tasks; prefer 1 to 3
- Do not repeat tasks that are already pending
- Rolled-over tasks deserve attention before new work
- Output ONLY valid JSON, no markdown or explanation

Generate the response JSON now:`
