package service

import (
	"fmt"
	"strings"

	"github.com/fraudguard/fraudguard/pkg/fraud"
)

// Explainer turns a scorer rationale into text a customer can read. The
// headline is the stored risk level and the closing advice follows the
// recommended action.
type Explainer struct {
	policy *fraud.ActionPolicy
}

// NewExplainer creates an Explainer using policy for the action.
func NewExplainer(policy *fraud.ActionPolicy) *Explainer {
	return &Explainer{policy: policy}
}

// Explain returns the recommended action and its explanation.
func (e *Explainer) Explain(score float64, rationale string) (fraud.Action, string) {
	action := e.policy.Recommend(score)
	return action, Explanation(fraud.Classify(score), action, rationale)
}

// Explanation formats rationale under a level headline with advice for
// action.
func Explanation(level fraud.RiskLevel, action fraud.Action, rationale string) string {
	rationale = strings.TrimRight(strings.TrimSpace(rationale), ".")
	if rationale == "" {
		rationale = "No rationale provided"
	}
	return fmt.Sprintf("%s: %s. %s", headline(level), rationale, advice(action))
}

func headline(level fraud.RiskLevel) string {
	switch {
	case level.Equal(fraud.RiskLevelHigh):
		return "🚨 High Risk"
	case level.Equal(fraud.RiskLevelMedium):
		return "⚠️ Medium Risk"
	default:
		return "⚡ Low Risk"
	}
}

func advice(action fraud.Action) string {
	switch {
	case action.Equal(fraud.ActionHold):
		return "This transaction requires immediate attention."
	case action.Equal(fraud.ActionStepUp):
		return "Additional verification recommended."
	case action.Equal(fraud.ActionNotify):
		return "Monitor for patterns."
	default:
		return "Transaction appears legitimate."
	}
}
