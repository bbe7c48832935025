package evalctx

import (
	"time"

	"github.com/N3mes1s/sentra/internal/matcher"
)

// Context is the immutable per-request bundle handed to every plugin
// (spec.md §3). It is built once before the pipeline runs and never
// mutated afterward.
type Context struct {
	Request *Request

	// LowercasedText is Request.LowercasedScanText(), precomputed once so
	// every text-scanning plugin reuses it instead of recomputing.
	LowercasedText string

	// RawText is Request.RawScanText(), precomputed once for plugins whose
	// patterns are case-sensitive (e.g. AWS access-key ids).
	RawText string

	// CorrelationID is echoed from the x-ms-correlation-id header, empty
	// if the header was absent.
	CorrelationID string

	// Deadline is a soft hint: start time plus the configured plugin
	// budget. Built-in plugins always run to completion regardless
	// (spec.md §4.2, §5); only the external-HTTP plugin treats a deadline
	// as something it actually enforces, via its own timeoutMs.
	Deadline time.Time

	// Matchers is the shared, read-only matcher bundle (spec.md §9).
	Matchers *matcher.Matchers
}

// New builds an EvaluationContext for a single request.
func New(req *Request, correlationID string, pluginBudget time.Duration, matchers *matcher.Matchers) *Context {
	return &Context{
		Request:        req,
		LowercasedText: req.LowercasedScanText(),
		RawText:        req.RawScanText(),
		CorrelationID:  correlationID,
		Deadline:       time.Now().Add(pluginBudget),
		Matchers:       matchers,
	}
}

// DeadlineExceeded reports whether the soft plugin budget has already
// elapsed at the moment of the call.
func (c *Context) DeadlineExceeded() bool {
	return time.Now().After(c.Deadline)
}
