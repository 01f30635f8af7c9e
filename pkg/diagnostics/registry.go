package diagnostics

import "sort"

// Rule is implemented by every diagnostic rule.
type Rule interface {
	Name() string
	Category() Category
	Severity() Severity
	Description() string
	Check(ctx *RuleContext) []Diagnostic
}

// Registry manages the available rules.
type Registry struct {
	rules map[string]Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds a rule, replacing any rule with the same name.
func (r *Registry) Register(rule Rule) {
	r.rules[rule.Name()] = rule
}

// Rule retrieves a rule by name.
func (r *Registry) Rule(name string) (Rule, bool) {
	rule, ok := r.rules[name]
	return rule, ok
}

// AllRules returns every registered rule, sorted by name.
func (r *Registry) AllRules() []Rule {
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)

	rules := make([]Rule, 0, len(names))
	for _, name := range names {
		rules = append(rules, r.rules[name])
	}
	return rules
}

// EnabledRules returns the rules the config has not disabled, sorted by name.
func (r *Registry) EnabledRules(config *Config) []Rule {
	rules := make([]Rule, 0, len(r.rules))
	for _, rule := range r.AllRules() {
		if config.RuleEnabled(rule.Name()) {
			rules = append(rules, rule)
		}
	}
	return rules
}

// RulesByCategory returns the registered rules in a category, sorted by name.
func (r *Registry) RulesByCategory(category Category) []Rule {
	rules := make([]Rule, 0)
	for _, rule := range r.AllRules() {
		if rule.Category() == category {
			rules = append(rules, rule)
		}
	}
	return rules
}
