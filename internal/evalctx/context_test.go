package evalctx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/N3mes1s/sentra/internal/matcher"
)

func TestNew_PrecomputesScanText(t *testing.T) {
	req := &Request{
		PlannerContext: PlannerContext{UserMessage: "Hello"},
		ToolDefinition: ToolDefinition{Name: "Tool"},
	}
	ctx := New(req, "corr-1", time.Second, matcher.New(nil, nil, nil))

	assert.Equal(t, "hello tool", ctx.LowercasedText)
	assert.Equal(t, "Hello Tool", ctx.RawText)
	assert.Equal(t, "corr-1", ctx.CorrelationID)
}

func TestDeadlineExceeded_FalseImmediately(t *testing.T) {
	req := &Request{PlannerContext: PlannerContext{UserMessage: "x"}, ToolDefinition: ToolDefinition{Name: "y"}}
	ctx := New(req, "", time.Second, matcher.New(nil, nil, nil))
	assert.False(t, ctx.DeadlineExceeded())
}

func TestDeadlineExceeded_TrueAfterBudgetElapses(t *testing.T) {
	req := &Request{PlannerContext: PlannerContext{UserMessage: "x"}, ToolDefinition: ToolDefinition{Name: "y"}}
	ctx := New(req, "", time.Millisecond, matcher.New(nil, nil, nil))
	time.Sleep(5 * time.Millisecond)
	assert.True(t, ctx.DeadlineExceeded())
}
