package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	rec, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"exfil", "secrets", "pii", "email_bcc", "domain_block", "policy_pack"}, rec.Plugins)
	assert.False(t, rec.StrictAuth)
	assert.Equal(t, int64(1<<20), rec.MaxRequestBytes)
	assert.Equal(t, 500, rec.PluginBudgetMs)
	assert.Equal(t, 200, rec.PluginWarnMs)
	assert.Equal(t, 5000, rec.RequestTimeoutMs)
	assert.Equal(t, "dev", rec.BuildVersion)
	assert.Equal(t, 5, rec.Telemetry.RotateKeep)
	assert.True(t, rec.Telemetry.RotateCompress)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SENTRA_STRICTAUTH", "true")
	t.Setenv("SENTRA_PLUGINBUDGETMS", "750")
	t.Setenv("SENTRA_BUILDVERSION", "1.2.3")

	rec, err := Load()
	require.NoError(t, err)

	assert.True(t, rec.StrictAuth)
	assert.Equal(t, 750, rec.PluginBudgetMs)
	assert.Equal(t, "1.2.3", rec.BuildVersion)
}

func TestLoad_PolicyFileIsParsed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
companyDomain: acme.com
piiKeywords:
  - social security number
domainBlocklist:
  - bad.com
`), 0o644))

	t.Setenv("SENTRA_POLICYFILE", path)

	rec, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "acme.com", rec.PolicyConfig.CompanyDomain)
	assert.Equal(t, []string{"social security number"}, rec.PolicyConfig.PIIKeywords)
	assert.Equal(t, []string{"bad.com"}, rec.PolicyConfig.DomainBlocklist)
}

func TestLoad_MissingPolicyFileErrors(t *testing.T) {
	t.Setenv("SENTRA_POLICYFILE", "/nonexistent/path/policy.yaml")
	_, err := Load()
	assert.Error(t, err)
}
