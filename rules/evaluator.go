// Package rules evaluates badge eligibility rules against a snapshot of
// user metrics. It is pure computation with no storage dependencies.
package rules

import "fitquest/models"

// Metrics maps a metric type to its observed value for one user. Metric
// types that were never computed read as 0.
type Metrics map[string]int

// Value returns the observed value for a metric type, defaulting to 0 for
// unknown or unimplemented types rather than failing.
func (m Metrics) Value(metricType string) int {
	return m[metricType]
}

// Evaluate checks a single rule against an observed value. Unknown
// operators evaluate to false so that rule definitions added by a newer
// admin UI degrade to "not eligible" instead of erroring.
func Evaluate(rule models.BadgeRule, observed int) bool {
	switch rule.Operator {
	case models.OpEqual:
		return observed == rule.Value
	case models.OpGreater:
		return observed > rule.Value
	case models.OpGreaterOrEqual:
		return observed >= rule.Value
	case models.OpLess:
		return observed < rule.Value
	case models.OpLessOrEqual:
		return observed <= rule.Value
	}
	return false
}

// EvaluateCompound checks a rule list against the metrics snapshot. AND
// requires every rule to pass, OR at least one. Each rule is matched
// against the metric its own type names.
func EvaluateCompound(ruleList []models.BadgeRule, metrics Metrics, logic string) bool {
	if logic == models.LogicOr {
		for _, rule := range ruleList {
			if Evaluate(rule, metrics.Value(rule.Type)) {
				return true
			}
		}
		return false
	}

	for _, rule := range ruleList {
		if !Evaluate(rule, metrics.Value(rule.Type)) {
			return false
		}
	}
	return len(ruleList) > 0
}

// EvaluateBadge resolves the badge's rule form and evaluates it. Badges
// with a custom evaluator reference are never auto-assigned: the hook has
// no implementation, so guessing at its behavior would award badges the
// admin did not define.
func EvaluateBadge(badge *models.Badge, metrics Metrics) bool {
	if badge.Rules == nil {
		return false
	}
	switch {
	case badge.Rules.Evaluator != "":
		return false
	case badge.Rules.Single != nil:
		return Evaluate(*badge.Rules.Single, metrics.Value(badge.Rules.Single.Type))
	case badge.Rules.Multiple != nil:
		return EvaluateCompound(badge.Rules.Multiple.Rules, metrics, badge.Rules.Multiple.Logic)
	}
	return false
}
