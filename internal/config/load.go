package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load resolves a Record from SENTRA_-prefixed environment variables and,
// if SENTRA_POLICY_FILE is set, a YAML policy document. Grounded on
// artur0sky-sonantica's services/go-core/config/config.go (a viper loader
// with explicit defaults and BindEnv calls).
func Load() (*Record, error) {
	v := viper.New()

	v.SetDefault("plugins", []string{"exfil", "secrets", "pii", "email_bcc", "domain_block", "policy_pack"})
	v.SetDefault("strictAuth", false)
	v.SetDefault("maxRequestBytes", int64(1<<20)) // 1 MiB
	v.SetDefault("pluginBudgetMs", 500)
	v.SetDefault("pluginWarnMs", 200)
	v.SetDefault("requestTimeoutMs", 5000)
	v.SetDefault("auditOnly", false)
	v.SetDefault("buildVersion", "dev")
	v.SetDefault("telemetry.mirrorStdout", false)
	v.SetDefault("telemetry.sampleEveryN", 1)
	v.SetDefault("telemetry.maxBytes", int64(100<<20)) // 100 MiB
	v.SetDefault("telemetry.rotateKeep", 5)
	v.SetDefault("telemetry.rotateCompress", true)

	v.SetEnvPrefix("SENTRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{
		"plugins", "strictAuth", "strictAuthAllowedTokens", "maxRequestBytes",
		"pluginBudgetMs", "pluginWarnMs", "requestTimeoutMs", "auditOnly", "buildVersion",
		"telemetry.filePath", "telemetry.auditFilePath", "telemetry.mirrorStdout",
		"telemetry.sampleEveryN", "telemetry.maxBytes", "telemetry.rotateKeep",
		"telemetry.rotateCompress", "policyFile",
	} {
		_ = v.BindEnv(key)
	}

	rec := &Record{}
	rec.Plugins = v.GetStringSlice("plugins")
	rec.StrictAuth = v.GetBool("strictAuth")
	rec.StrictAuthAllowedTokens = v.GetStringSlice("strictAuthAllowedTokens")
	rec.MaxRequestBytes = v.GetInt64("maxRequestBytes")
	rec.PluginBudgetMs = v.GetInt("pluginBudgetMs")
	rec.PluginWarnMs = v.GetInt("pluginWarnMs")
	rec.RequestTimeoutMs = v.GetInt("requestTimeoutMs")
	rec.AuditOnly = v.GetBool("auditOnly")
	rec.BuildVersion = v.GetString("buildVersion")
	rec.Telemetry = TelemetryConfig{
		FilePath:       v.GetString("telemetry.filePath"),
		AuditFilePath:  v.GetString("telemetry.auditFilePath"),
		MirrorStdout:   v.GetBool("telemetry.mirrorStdout"),
		SampleEveryN:   v.GetInt("telemetry.sampleEveryN"),
		MaxBytes:       v.GetInt64("telemetry.maxBytes"),
		RotateKeep:     v.GetInt("telemetry.rotateKeep"),
		RotateCompress: v.GetBool("telemetry.rotateCompress"),
	}

	if policyFile := v.GetString("policyFile"); policyFile != "" {
		policy, err := loadPolicyFile(policyFile)
		if err != nil {
			return nil, fmt.Errorf("loading policy config from %s: %w", policyFile, err)
		}
		rec.PolicyConfig = *policy
	}

	return rec, nil
}

func loadPolicyFile(path string) (*PolicyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var policy PolicyConfig
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, fmt.Errorf("unparseable policy config: %w", err)
	}
	return &policy, nil
}
