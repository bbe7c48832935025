// Package config resolves Sentra's ConfigRecord (spec.md §6): plugin
// order, strict-auth allowlist, request-size ceiling, plugin budget, audit
// mode, policy configuration, and telemetry sink settings. Parsing
// environment variables and YAML is itself out of the evaluation core's
// scope (spec.md §1); this package is the external collaborator that
// resolves the record the core consumes.
package config

// PolicyRule is one `policy_pack` rule (spec.md §4.4): blocks when `Tool`
// equals (case-insensitively) the request's tool name and either a
// `Contains` substring or a `Regex` pattern is found in
// `inputValues[Arg]`.
type PolicyRule struct {
	Tool       string   `yaml:"tool" mapstructure:"tool" validate:"required"`
	Arg        string   `yaml:"arg" mapstructure:"arg" validate:"required"`
	Contains   []string `yaml:"contains" mapstructure:"contains"`
	Regex      []string `yaml:"regex" mapstructure:"regex"`
	ReasonCode uint32   `yaml:"reasonCode" mapstructure:"reasonCode"`
	Reason     string   `yaml:"reason" mapstructure:"reason"`
}

// ExternalHTTPDefinition configures one external-HTTP plugin instance
// (spec.md §3, §4.5).
type ExternalHTTPDefinition struct {
	Name                  string         `yaml:"name" mapstructure:"name" validate:"required"`
	URL                   string         `yaml:"url" mapstructure:"url" validate:"required"`
	Method                string         `yaml:"method" mapstructure:"method"`
	TimeoutMs             int            `yaml:"timeoutMs" mapstructure:"timeoutMs"`
	BearerToken           string            `yaml:"bearerToken" mapstructure:"bearerToken"`
	Headers               map[string]string `yaml:"headers" mapstructure:"headers"`
	RequestTemplate       string            `yaml:"requestTemplate" mapstructure:"requestTemplate"`
	BlockField            string         `yaml:"blockField" mapstructure:"blockField" validate:"required"`
	NonEmptyPointerBlocks bool           `yaml:"nonEmptyPointerBlocks" mapstructure:"nonEmptyPointerBlocks"`
	ReasonCode            uint32         `yaml:"reasonCode" mapstructure:"reasonCode"`
	Reason                string         `yaml:"reason" mapstructure:"reason"`
	FailOpen              *bool          `yaml:"failOpen" mapstructure:"failOpen"`
}

// EffectiveFailOpen applies the documented default (true) when unset.
func (d ExternalHTTPDefinition) EffectiveFailOpen() bool {
	if d.FailOpen == nil {
		return true
	}
	return *d.FailOpen
}

// EffectiveMethod applies the documented default (POST) when unset.
func (d ExternalHTTPDefinition) EffectiveMethod() string {
	if d.Method == "" {
		return "POST"
	}
	return d.Method
}

// EffectiveTimeoutMs applies the documented default (500ms) when unset.
func (d ExternalHTTPDefinition) EffectiveTimeoutMs() int {
	if d.TimeoutMs <= 0 {
		return 500
	}
	return d.TimeoutMs
}

// EffectiveReasonCode applies the documented default (801) when unset.
func (d ExternalHTTPDefinition) EffectiveReasonCode() uint32 {
	if d.ReasonCode == 0 {
		return 801
	}
	return d.ReasonCode
}

// PolicyConfig bundles every policy-driven input the built-in and
// external plugins consume (spec.md §6 "Configuration record").
type PolicyConfig struct {
	Policies        []PolicyRule             `yaml:"policies" mapstructure:"policies"`
	PIIKeywords     []string                 `yaml:"piiKeywords" mapstructure:"piiKeywords"`
	DomainBlocklist []string                 `yaml:"domainBlocklist" mapstructure:"domainBlocklist"`
	CompanyDomain   string                   `yaml:"companyDomain" mapstructure:"companyDomain"`
	ExternalHTTP    []ExternalHTTPDefinition `yaml:"externalHttp" mapstructure:"externalHttp"`
	MailTools       []string                 `yaml:"mailTools" mapstructure:"mailTools"`
	ExfilPhrases    []string                 `yaml:"exfilPhrases" mapstructure:"exfilPhrases"`
}

// TelemetryConfig configures the telemetry/audit sink (spec.md §4.7, §6).
type TelemetryConfig struct {
	FilePath       string `mapstructure:"filePath"`
	AuditFilePath  string `mapstructure:"auditFilePath"`
	MirrorStdout   bool   `mapstructure:"mirrorStdout"`
	SampleEveryN   int    `mapstructure:"sampleEveryN"`
	MaxBytes       int64  `mapstructure:"maxBytes"`
	RotateKeep     int    `mapstructure:"rotateKeep"`
	RotateCompress bool   `mapstructure:"rotateCompress"`
}

// Record is the fully resolved configuration the evaluation core consumes.
type Record struct {
	Plugins                 []string `mapstructure:"plugins"`
	StrictAuth               bool     `mapstructure:"strictAuth"`
	StrictAuthAllowedTokens []string `mapstructure:"strictAuthAllowedTokens"`
	MaxRequestBytes          int64    `mapstructure:"maxRequestBytes"`
	PluginBudgetMs           int      `mapstructure:"pluginBudgetMs"`
	PluginWarnMs             int      `mapstructure:"pluginWarnMs"`
	RequestTimeoutMs         int      `mapstructure:"requestTimeoutMs"`
	AuditOnly                bool     `mapstructure:"auditOnly"`
	PolicyConfig             PolicyConfig
	Telemetry                TelemetryConfig

	// BuildVersion is surfaced on /healthz and the sentra_build_info gauge.
	BuildVersion string `mapstructure:"buildVersion"`
}
