package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/josephgoksu/TaskQuest/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedChatModel replies with the next entry of replies on every call.
type scriptedChatModel struct {
	replies []string
	errs    []error
	prompts []string
}

func (m *scriptedChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	i := len(m.prompts)
	m.prompts = append(m.prompts, input[len(input)-1].Content)
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i >= len(m.replies) {
		return nil, errors.New("no scripted reply")
	}
	return schema.AssistantMessage(m.replies[i], nil), nil
}

func (m *scriptedChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

const goodReply = `{"reflection": "Nice momentum!", "suggestedTasks": [{"title": "Plan tomorrow", "priority": "medium", "estimatedTime": 15, "reason": "Keeps the streak"}], "focusAdvice": "One thing at a time."}`

func newTestGenerator(m *scriptedChatModel) *Generator {
	return NewGenerator(llmConfigForTest(), WithChatModel(m), WithRetryDelay(0))
}

func testRequest() Request {
	return Request{
		Message: "I feel behind on everything",
		Context: Context{
			PendingTasks: []PendingTask{
				{Title: "File taxes", Priority: task.PriorityHigh, Horizon: task.HorizonMonthly, IsRolledOver: true},
			},
			YesterdayCompletedCount: 2,
			Streak:                  4,
		},
	}
}

func TestGenerator_FirstAttempt(t *testing.T) {
	m := &scriptedChatModel{replies: []string{"```json\n" + goodReply + "\n```"}}
	g := newTestGenerator(m)

	res, err := g.Generate(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, "Nice momentum!", res.Result.Reflection)
	require.Len(t, res.Result.SuggestedTasks, 1)
	assert.Equal(t, task.PriorityMedium, res.Result.SuggestedTasks[0].Priority)
	assert.Equal(t, 15, res.Result.SuggestedTasks[0].EstimatedTime)

	require.Len(t, m.prompts, 1)
	assert.Contains(t, m.prompts[0], "I feel behind on everything")
	assert.Contains(t, m.prompts[0], "File taxes")
	assert.Contains(t, m.prompts[0], "Current streak: 4 days")
	assert.NotContains(t, m.prompts[0], "PREVIOUS ATTEMPT FAILED")
}

func TestGenerator_RetriesWithValidationFeedback(t *testing.T) {
	bad := `{"reflection": "  ", "suggestedTasks": [{"title": "x", "priority": "urgent"}]}`
	m := &scriptedChatModel{replies: []string{bad, goodReply}}
	g := newTestGenerator(m)

	resp, err := g.Suggest(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "One thing at a time.", resp.FocusAdvice)

	require.Len(t, m.prompts, 2)
	assert.Contains(t, m.prompts[1], "SCHEMA VALIDATION ERRORS")
	assert.Contains(t, m.prompts[1], "Reflection")
	assert.Contains(t, m.prompts[1], "urgent")
}

func TestGenerator_RetriesAfterParseError(t *testing.T) {
	m := &scriptedChatModel{replies: []string{"Sorry, I can't do JSON today.", goodReply}}
	g := newTestGenerator(m)

	res, err := g.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempts)
	assert.Contains(t, m.prompts[1], "JSON Parse Error")
}

func TestGenerator_GivesUp(t *testing.T) {
	m := &scriptedChatModel{replies: []string{"nope", "nope", "nope", goodReply}}
	g := newTestGenerator(m)

	_, err := g.Generate(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation failed after 3 attempts")
	assert.Len(t, m.prompts, MaxGenerationRetries)
}

func TestGenerator_TransientErrorRetried(t *testing.T) {
	m := &scriptedChatModel{
		errs:    []error{errors.New("429 Too Many Requests")},
		replies: []string{"", goodReply},
	}
	g := newTestGenerator(m)

	res, err := g.Generate(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempts)
}

func TestGenerator_PermanentErrorNotRetried(t *testing.T) {
	m := &scriptedChatModel{errs: []error{errors.New("invalid api key")}}
	g := newTestGenerator(m)

	_, err := g.Generate(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
	assert.Len(t, m.prompts, 1)
}

func TestGenerator_EmptyMessage(t *testing.T) {
	m := &scriptedChatModel{}
	g := newTestGenerator(m)

	_, err := g.Suggest(context.Background(), Request{Message: " \n\t"})
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, m.prompts)
}

func TestGenerator_CancelledWhileWaiting(t *testing.T) {
	m := &scriptedChatModel{replies: []string{"garbage", goodReply}}
	g := NewGenerator(llmConfigForTest(), WithChatModel(m))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Generate(ctx, testRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerator_PendingTasksCapped(t *testing.T) {
	req := testRequest()
	req.Context.PendingTasks = nil
	for i := 0; i < MaxPendingInPrompt+5; i++ {
		req.Context.PendingTasks = append(req.Context.PendingTasks, PendingTask{Title: "pending-item", Priority: task.PriorityLow})
	}
	m := &scriptedChatModel{replies: []string{goodReply}}
	_, err := newTestGenerator(m).Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, MaxPendingInPrompt, strings.Count(m.prompts[0], "pending-item"))
}

func TestFormatErrorFeedback_Truncation(t *testing.T) {
	long := strings.Repeat("a", 600)
	feedback := formatErrorFeedback("Test Error", "test message", long)

	assert.Contains(t, feedback, "Test Error")
	assert.Contains(t, feedback, "test message")
	assert.NotContains(t, feedback, long)
	assert.Contains(t, feedback, "...")
}

func TestIsTransientError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("rate limit exceeded"), true},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("context deadline exceeded (Client.Timeout)"), true},
		{errors.New("model not found"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isTransientError(tt.err), "%v", tt.err)
	}
}
