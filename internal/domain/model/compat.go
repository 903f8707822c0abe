package model

// Checker decides whether two interface definitions can be connected.
type Checker interface {
	Check(defA, defB string) CompatibilityStatus
}

// CheckCompatibility is the identity rule: two definitions are compatible
// exactly when they are the same definition.
func CheckCompatibility(defA, defB string) CompatibilityStatus {
	if defA == defB {
		return StatusCompatible
	}
	return StatusIncompatible
}

// IdentityChecker applies CheckCompatibility.
type IdentityChecker struct{}

func (IdentityChecker) Check(defA, defB string) CompatibilityStatus {
	return CheckCompatibility(defA, defB)
}

// CompatibilityRule is one entry of a RuleSet.
type CompatibilityRule struct {
	SourceInterfaceID string `json:"sourceInterfaceId" yaml:"source" validate:"required"`
	TargetInterfaceID string `json:"targetInterfaceId" yaml:"target" validate:"required"`
	IsCompatible      bool   `json:"isCompatible" yaml:"compatible"`
	Message           string `json:"message,omitempty" yaml:"message,omitempty"`
}

// RuleSet is a symmetric lookup table of rules. Pairs without a rule are unknown.
type RuleSet []CompatibilityRule

func (rs RuleSet) Check(defA, defB string) CompatibilityStatus {
	for _, r := range rs {
		if (r.SourceInterfaceID == defA && r.TargetInterfaceID == defB) ||
			(r.SourceInterfaceID == defB && r.TargetInterfaceID == defA) {
			if r.IsCompatible {
				return StatusCompatible
			}
			return StatusIncompatible
		}
	}
	return StatusUnknown
}

// IsFullyDefined reports whether a connection with this status counts as fully defined.
func IsFullyDefined(status CompatibilityStatus) bool {
	return status == StatusCompatible
}
