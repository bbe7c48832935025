// Package external implements the external-HTTP plugin (spec.md §4.5): one
// instance per configured remote policy service, rendering a request
// template, dispatching it under a deadline and circuit breaker, and
// interpreting the JSON response into a plugin outcome.
package external

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/N3mes1s/sentra/internal/evalctx"
	"github.com/N3mes1s/sentra/internal/matcher"
	"github.com/N3mes1s/sentra/internal/plugin"
)

// Definition is the static configuration for one external plugin instance
// (mirrors ExternalPluginDefinition in spec.md §3).
type Definition struct {
	Name                 string
	Method               string
	URL                  string
	Headers              map[string]string
	BearerToken          string
	RequestTemplate      string
	TimeoutMs            int
	BlockField           string
	NonEmptyPointerBlocks bool
	ReasonCode           uint32
	Reason               string
	FailOpen             bool
}

// Plugin dispatches one external policy check over HTTP, wrapped in a
// per-definition circuit breaker (spec.md §4.13).
type Plugin struct {
	def     Definition
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// New builds an external-HTTP plugin instance from its static definition.
func New(def Definition, log zerolog.Logger) *Plugin {
	settings := gobreaker.Settings{
		Name:        def.Name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &Plugin{
		def:     def,
		client:  &http.Client{},
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     log.With().Str("external_plugin", def.Name).Logger(),
	}
}

func (p *Plugin) Name() string { return p.def.Name }

func (p *Plugin) Evaluate(ctx *evalctx.Context) plugin.Outcome {
	resp, err := p.dispatch(ctx)
	if err != nil {
		return p.errorOutcome(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return p.errorOutcome(readError{err})
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return p.errorOutcome(parseError{errors.New(resp.Status)})
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return p.errorOutcome(parseError{err})
	}

	blocked := p.interpret(doc)
	if !blocked {
		return plugin.Allow()
	}
	return plugin.Block(p.def.ReasonCode, p.def.Reason, map[string]any{
		"plugin": "external_http",
		"code":   "block",
		"status": resp.StatusCode,
	})
}

func (p *Plugin) dispatch(ctx *evalctx.Context) (*http.Response, error) {
	timeout := time.Duration(p.def.TimeoutMs) * time.Millisecond
	reqCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	body := renderBody(p.def.RequestTemplate, ctx)
	method := p.def.Method
	if method == "" {
		method = http.MethodPost
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		httpReq, err := http.NewRequestWithContext(reqCtx, method, p.def.URL, bytes.NewBufferString(body))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if p.def.BearerToken != "" {
			httpReq.Header.Set("Authorization", "Bearer "+p.def.BearerToken)
		}
		for k, v := range p.def.Headers {
			httpReq.Header.Set(k, v)
		}
		return p.client.Do(httpReq)
	})
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return nil, timeoutError{err}
		}
		return nil, networkError{err}
	}
	return result.(*http.Response), nil
}

// interpret applies the blockField interpretation rules from spec.md §4.5.
func (p *Plugin) interpret(doc any) bool {
	switch p.def.BlockField {
	case "block":
		m, ok := doc.(map[string]any)
		if !ok {
			return false
		}
		b, _ := m["block"].(bool)
		return b
	case "allow":
		m, ok := doc.(map[string]any)
		if !ok {
			return false
		}
		a, ok := m["allow"].(bool)
		if !ok {
			return false
		}
		return !a
	default:
		target, found := matcher.ResolvePointer(doc, p.def.BlockField)
		if !found {
			return false
		}
		if b, ok := target.(bool); ok {
			return b
		}
		if !p.def.NonEmptyPointerBlocks {
			return false
		}
		switch v := target.(type) {
		case []any:
			return len(v) > 0
		case map[string]any:
			return len(v) > 0
		default:
			return false
		}
	}
}

func (p *Plugin) errorOutcome(err error) plugin.Outcome {
	p.log.Warn().Err(err).Msg("external plugin call failed")
	if p.def.FailOpen {
		return plugin.Allow()
	}
	return plugin.Block(p.def.ReasonCode, p.def.Reason, map[string]any{
		"plugin": "external_http",
		"code":   errorCode(err),
	})
}

type networkError struct{ error }
type timeoutError struct{ error }
type parseError struct{ error }
type readError struct{ error }

func errorCode(err error) string {
	switch err.(type) {
	case timeoutError:
		return "timeout"
	case parseError:
		return "parse_error"
	case readError:
		return "read_error"
	default:
		return "network_error"
	}
}
