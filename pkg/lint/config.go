package lint

// Config selects rules and adjusts how their findings are reported.
type Config struct {
	// DisabledRules holds rule IDs that are never run.
	DisabledRules map[string]bool

	// SeverityOverrides replaces a rule's severity.
	SeverityOverrides map[string]Severity

	// MinSeverity drops findings less severe than this level after
	// overrides are applied. The zero value keeps errors only, so
	// NewConfig sets it to SeverityHint.
	MinSeverity Severity
}

// NewConfig enables every rule and reports every finding.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]Severity),
		MinSeverity:       SeverityHint,
	}
}

// IsDisabled reports whether ruleID is switched off.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[ruleID]
}

// GetSeverity returns the override for ruleID, or severity when none is set.
func (c *Config) GetSeverity(ruleID string, severity Severity) Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[ruleID]; ok {
			return sev
		}
	}
	return severity
}

// Keeps reports whether a finding of severity s survives MinSeverity.
// Lower Severity values are more severe.
func (c *Config) Keeps(s Severity) bool {
	if c == nil {
		return true
	}
	return s <= c.MinSeverity
}

// Disable switches off a rule.
func (c *Config) Disable(ruleID string) *Config {
	c.DisabledRules[ruleID] = true
	return c
}

// SetSeverity overrides the severity reported for a rule.
func (c *Config) SetSeverity(ruleID string, severity Severity) *Config {
	c.SeverityOverrides[ruleID] = severity
	return c
}

// SetMinSeverity hides findings less severe than s.
func (c *Config) SetMinSeverity(s Severity) *Config {
	c.MinSeverity = s
	return c
}
