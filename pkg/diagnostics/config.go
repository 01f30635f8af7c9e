package diagnostics

// Config controls which rules run and at what severity.
type Config struct {
	// Rules maps rule name to enabled. Rules absent from the map run.
	Rules map[string]bool `yaml:"rules"`

	// Severities maps rule name to an override severity.
	Severities map[string]Severity `yaml:"severities"`
}

// DefaultConfig returns a config with every rule enabled at its default
// severity.
func DefaultConfig() *Config {
	return &Config{
		Rules:      make(map[string]bool),
		Severities: make(map[string]Severity),
	}
}

// RuleEnabled reports whether the named rule should run.
func (c *Config) RuleEnabled(name string) bool {
	if c == nil || c.Rules == nil {
		return true
	}
	enabled, ok := c.Rules[name]
	if !ok {
		return true
	}
	return enabled
}

// SeverityOverride returns the configured severity for a rule, if any.
func (c *Config) SeverityOverride(name string) (Severity, bool) {
	if c == nil || c.Severities == nil {
		return "", false
	}
	sev, ok := c.Severities[name]
	return sev, ok
}
