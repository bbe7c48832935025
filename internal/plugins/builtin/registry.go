package builtin

// Known reports the fixed set of built-in plugin names, used by
// config.Record.Validate to distinguish a built-in from an external
// plugin reference (spec.md §3, §7).
func Known() map[string]bool {
	return map[string]bool{
		NameExfil:       true,
		NameSecrets:     true,
		NamePII:         true,
		NameEmailBCC:    true,
		NameDomainBlock: true,
		NamePolicyPack:  true,
	}
}
