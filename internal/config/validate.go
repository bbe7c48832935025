package config

import (
	"fmt"
	"strings"
)

// Validate enforces the startup invariants from spec.md §3/§7: plugin
// names are unique and every configured name resolves to either a known
// built-in or a registered external definition; external definitions have
// unique, `external_`-prefixed names. A failure here is fatal — the
// process must refuse to start.
func (r *Record) Validate(knownBuiltins map[string]bool) error {
	seenPlugin := make(map[string]bool, len(r.Plugins))
	for _, name := range r.Plugins {
		if seenPlugin[name] {
			return fmt.Errorf("plugin %q is configured more than once in the pipeline order", name)
		}
		seenPlugin[name] = true
	}

	seenExternal := make(map[string]bool, len(r.PolicyConfig.ExternalHTTP))
	for _, ext := range r.PolicyConfig.ExternalHTTP {
		if !strings.HasPrefix(ext.Name, "external_") {
			return fmt.Errorf("external plugin definition %q must be prefixed \"external_\"", ext.Name)
		}
		if seenExternal[ext.Name] {
			return fmt.Errorf("external plugin definition %q is registered more than once", ext.Name)
		}
		seenExternal[ext.Name] = true
	}

	for _, name := range r.Plugins {
		if knownBuiltins[name] {
			continue
		}
		if seenExternal[name] {
			continue
		}
		return fmt.Errorf("plugin %q appears in the configured order but is not registered as a built-in or external plugin", name)
	}

	return nil
}
