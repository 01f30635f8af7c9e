package rules

import (
	"github.com/protolens/protolens/pkg/diagnostics"
)

// Registry is the registration surface of the diagnostics engine.
type Registry interface {
	Register(rule diagnostics.Rule)
}

// RegisterDefaultRules registers all built-in diagnostic rules.
func RegisterDefaultRules(registry Registry) {
	// Naming rules
	registry.Register(NewMessageNamingRule())
	registry.Register(NewFieldNamingRule())
	registry.Register(NewEnumNamingRule())
	registry.Register(NewEnumValueNamingRule())
	registry.Register(NewServiceNamingRule())

	// Numbering rules
	registry.Register(NewDuplicateFieldNumberRule())
	registry.Register(NewReservedFieldNumberRule())
	registry.Register(NewFirstEnumValueZeroRule())

	// Type resolution rules
	registry.Register(NewUnknownTypeRule())
	registry.Register(NewUnqualifiedReferenceRule())

	// Editions rules
	registry.Register(NewEditionsFieldPresenceRule())
}
