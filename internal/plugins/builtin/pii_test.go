package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIIPlugin_BlocksExternalEmail(t *testing.T) {
	p := NewPII("acme.com")
	ctx := newTestContext(t, "send this to someone@external.com", "noop", nil)
	out := p.Evaluate(ctx)
	require.True(t, out.Blocked)
	assert.Equal(t, "email", out.Diagnostics["code"])
}

func TestPIIPlugin_AllowsInternalEmail(t *testing.T) {
	p := NewPII("acme.com")
	ctx := newTestContext(t, "loop in colleague@acme.com", "noop", nil)
	out := p.Evaluate(ctx)
	assert.False(t, out.Blocked)
}

func TestPIIPlugin_BlocksIBAN(t *testing.T) {
	p := NewPII("acme.com")
	ctx := newTestContext(t, "wire it to DE89370400440532013000", "noop", nil)
	out := p.Evaluate(ctx)
	require.True(t, out.Blocked)
	assert.Equal(t, "iban", out.Diagnostics["code"])
}

func TestPIIPlugin_BlocksInternationalPhone(t *testing.T) {
	p := NewPII("acme.com")
	ctx := newTestContext(t, "call me at +14155550100", "noop", nil)
	out := p.Evaluate(ctx)
	require.True(t, out.Blocked)
	assert.Equal(t, "phone", out.Diagnostics["code"])
}

func TestPIIPlugin_BlocksConfiguredKeyword(t *testing.T) {
	p := NewPII("acme.com")
	ctx := newTestContext(t, "my social security number is on file", "noop", nil)
	out := p.Evaluate(ctx)
	require.True(t, out.Blocked)
	assert.Equal(t, "keyword", out.Diagnostics["code"])
}

func TestPIIPlugin_AllowsCleanText(t *testing.T) {
	p := NewPII("acme.com")
	ctx := newTestContext(t, "please summarize the meeting notes", "noop", nil)
	out := p.Evaluate(ctx)
	assert.False(t, out.Blocked)
}
