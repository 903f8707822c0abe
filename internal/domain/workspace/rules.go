package workspace

import (
	"github.com/rpggio/require/internal/domain/model"
	"github.com/rpggio/require/internal/persist"
)

// ruleChecker applies the persisted rule overrides. Pairs no rule names fall
// back to the store's own checker.
type ruleChecker struct {
	rules    *persist.Cache[model.RuleSet]
	fallback model.Checker
}

func (c ruleChecker) Check(defA, defB string) model.CompatibilityStatus {
	if status := c.rules.Get().Check(defA, defB); status != model.StatusUnknown {
		return status
	}
	return c.fallback.Check(defA, defB)
}
