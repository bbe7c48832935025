// Command sentra wires configuration, matchers, the plugin pipeline,
// telemetry sink, metrics registry, and the HTTP server together, and
// performs graceful shutdown on SIGINT/SIGTERM (SPEC_FULL.md §2, §4.9).
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/N3mes1s/sentra/internal/config"
	"github.com/N3mes1s/sentra/internal/httpapi"
	"github.com/N3mes1s/sentra/internal/logging"
	"github.com/N3mes1s/sentra/internal/matcher"
	"github.com/N3mes1s/sentra/internal/metrics"
	"github.com/N3mes1s/sentra/internal/pipeline"
	"github.com/N3mes1s/sentra/internal/plugin"
	"github.com/N3mes1s/sentra/internal/plugins/builtin"
	"github.com/N3mes1s/sentra/internal/plugins/external"
	"github.com/N3mes1s/sentra/internal/telemetry"
)

const telemetrySchemaVersion = pipeline.SchemaVersion

func main() {
	logging.Init(envOr("SENTRA_LOG_LEVEL", "info"), os.Getenv("SENTRA_LOG_PRETTY") == "true")
	log := logging.Log

	rec, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := rec.Validate(builtin.Known()); err != nil {
		log.Fatal().Err(err).Msg("configuration failed startup validation")
	}

	matchers := matcher.New(rec.PolicyConfig.ExfilPhrases, rec.PolicyConfig.PIIKeywords, rec.PolicyConfig.DomainBlocklist)
	reg := metrics.New(rec.BuildVersion, telemetrySchemaVersion)

	plugins, err := newPluginSet(rec)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build plugin pipeline")
	}

	sink, err := telemetry.New(telemetry.Config{
		FilePath:       rec.Telemetry.FilePath,
		AuditFilePath:  rec.Telemetry.AuditFilePath,
		MirrorStdout:   rec.Telemetry.MirrorStdout,
		SampleEveryN:   rec.Telemetry.SampleEveryN,
		MaxBytes:       rec.Telemetry.MaxBytes,
		RotateKeep:     rec.Telemetry.RotateKeep,
		RotateCompress: rec.Telemetry.RotateCompress,
	}, reg, logging.Telemetry())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open telemetry sink")
	}
	defer sink.Close()

	pb := time.Duration(rec.PluginBudgetMs) * time.Millisecond
	pw := time.Duration(rec.PluginWarnMs) * time.Millisecond
	pl := pipeline.New(plugins, matchers, pb, pw, rec.AuditOnly, reg, logging.Pipeline())

	server := &httpapi.Server{
		Pipeline:    pl,
		Telemetry:   sink,
		Metrics:     reg,
		Log:         logging.HTTPAPI(),
		Version:     rec.BuildVersion,
		PluginCount: len(plugins),
		BudgetMs:    rec.PluginBudgetMs,
	}

	router := httpapi.NewRouter(server, httpapi.RouterConfig{
		StrictAuth:              rec.StrictAuth,
		StrictAuthAllowedTokens: rec.StrictAuthAllowedTokens,
		MaxRequestBytes:         rec.MaxRequestBytes,
		RequestTimeout:          time.Duration(rec.RequestTimeoutMs) * time.Millisecond,
	}, logging.HTTPAPI())

	srv := &http.Server{
		Addr:    ":" + envOr("SENTRA_PORT", "8080"),
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Int("plugins", len(plugins)).Msg("sentra listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info().Str("signal", sig.String()).Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), httpapi.ShutdownGrace)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http server forced to shutdown")
	} else {
		log.Info().Msg("http server stopped gracefully")
	}

	if err := sink.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close telemetry sink")
	}
}

// newPluginSet resolves rec.Plugins into concrete plugin.Plugin instances,
// in configured order (spec.md §3 invariant: plugin order is fixed at
// startup and never reordered at runtime).
func newPluginSet(rec *config.Record) ([]plugin.Plugin, error) {
	externalPlugins := externalDefinitions(rec)
	rules := policyRules(rec)

	plugins := make([]plugin.Plugin, 0, len(rec.Plugins))
	for _, name := range rec.Plugins {
		switch name {
		case builtin.NameExfil:
			plugins = append(plugins, builtin.NewExfil())
		case builtin.NameSecrets:
			plugins = append(plugins, builtin.NewSecrets())
		case builtin.NamePII:
			plugins = append(plugins, builtin.NewPII(rec.PolicyConfig.CompanyDomain))
		case builtin.NameEmailBCC:
			plugins = append(plugins, builtin.NewEmailBCC(rec.PolicyConfig.MailTools, rec.PolicyConfig.CompanyDomain))
		case builtin.NameDomainBlock:
			plugins = append(plugins, builtin.NewDomainBlock())
		case builtin.NamePolicyPack:
			plugins = append(plugins, builtin.NewPolicyPack(rules))
		default:
			def, ok := externalPlugins[name]
			if !ok {
				return nil, fmt.Errorf("plugin %q is neither a built-in nor a registered external definition", name)
			}
			plugins = append(plugins, def)
		}
	}
	return plugins, nil
}

func externalDefinitions(rec *config.Record) map[string]*external.Plugin {
	out := make(map[string]*external.Plugin, len(rec.PolicyConfig.ExternalHTTP))
	for _, d := range rec.PolicyConfig.ExternalHTTP {
		out[d.Name] = external.New(external.Definition{
			Name:                  d.Name,
			Method:                d.EffectiveMethod(),
			URL:                   d.URL,
			Headers:               d.Headers,
			BearerToken:           d.BearerToken,
			RequestTemplate:       d.RequestTemplate,
			TimeoutMs:             d.EffectiveTimeoutMs(),
			BlockField:            d.BlockField,
			NonEmptyPointerBlocks: d.NonEmptyPointerBlocks,
			ReasonCode:            d.EffectiveReasonCode(),
			Reason:                d.Reason,
			FailOpen:              d.EffectiveFailOpen(),
		}, logging.ExternalHTTP())
	}
	return out
}

func policyRules(rec *config.Record) []*builtin.PolicyRule {
	out := make([]*builtin.PolicyRule, 0, len(rec.PolicyConfig.Policies))
	for _, p := range rec.PolicyConfig.Policies {
		out = append(out, &builtin.PolicyRule{
			Tool:       p.Tool,
			Arg:        p.Arg,
			Contains:   p.Contains,
			Regex:      p.Regex,
			ReasonCode: p.ReasonCode,
			Reason:     p.Reason,
		})
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
