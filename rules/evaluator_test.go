package rules

import (
	"testing"

	"fitquest/models"
)

func TestEvaluateOperators(t *testing.T) {
	cases := []struct {
		operator string
		observed int
		value    int
		want     bool
	}{
		{models.OpEqual, 10, 10, true},
		{models.OpEqual, 9, 10, false},
		{models.OpGreater, 11, 10, true},
		{models.OpGreater, 10, 10, false},
		{models.OpGreaterOrEqual, 10, 10, true},
		{models.OpGreaterOrEqual, 9, 10, false},
		{models.OpLess, 9, 10, true},
		{models.OpLess, 10, 10, false},
		{models.OpLessOrEqual, 10, 10, true},
		{models.OpLessOrEqual, 11, 10, false},
	}

	for _, tc := range cases {
		rule := models.BadgeRule{Type: models.MetricTotalPoints, Operator: tc.operator, Value: tc.value}
		if got := Evaluate(rule, tc.observed); got != tc.want {
			t.Errorf("Evaluate(%s, %d vs %d) = %v, want %v", tc.operator, tc.observed, tc.value, got, tc.want)
		}
	}
}

func TestEvaluateUnknownOperator(t *testing.T) {
	rule := models.BadgeRule{Type: models.MetricTotalPoints, Operator: "between", Value: 10}
	if Evaluate(rule, 10) {
		t.Error("unknown operator should evaluate to false, not error")
	}
}

func TestEvaluateCompoundAnd(t *testing.T) {
	metrics := Metrics{
		models.MetricTotalPoints:         100,
		models.MetricChallengesCompleted: 3,
	}
	ruleList := []models.BadgeRule{
		{Type: models.MetricTotalPoints, Operator: models.OpGreaterOrEqual, Value: 100},
		{Type: models.MetricChallengesCompleted, Operator: models.OpGreaterOrEqual, Value: 2},
	}

	if !EvaluateCompound(ruleList, metrics, models.LogicAnd) {
		t.Error("expected AND compound to pass when every rule passes")
	}

	ruleList[1].Value = 5
	if EvaluateCompound(ruleList, metrics, models.LogicAnd) {
		t.Error("expected AND compound to fail when one rule fails")
	}
}

func TestEvaluateCompoundOr(t *testing.T) {
	metrics := Metrics{
		models.MetricTotalPoints: 50,
		models.MetricStreakDays:  7,
	}
	ruleList := []models.BadgeRule{
		{Type: models.MetricTotalPoints, Operator: models.OpGreaterOrEqual, Value: 100},
		{Type: models.MetricStreakDays, Operator: models.OpGreaterOrEqual, Value: 5},
	}

	if !EvaluateCompound(ruleList, metrics, models.LogicOr) {
		t.Error("expected OR compound to pass when one rule passes")
	}

	ruleList[1].Value = 10
	if EvaluateCompound(ruleList, metrics, models.LogicOr) {
		t.Error("expected OR compound to fail when no rule passes")
	}
}

func TestEvaluateCompoundMissingMetricDefaultsToZero(t *testing.T) {
	metrics := Metrics{models.MetricTotalPoints: 100}
	ruleList := []models.BadgeRule{
		{Type: models.MetricGymAttendance, Operator: models.OpGreaterOrEqual, Value: 1},
	}

	if EvaluateCompound(ruleList, metrics, models.LogicAnd) {
		t.Error("missing metric should read as 0 and fail a >= 1 rule")
	}

	ruleList[0].Operator = models.OpEqual
	ruleList[0].Value = 0
	if !EvaluateCompound(ruleList, metrics, models.LogicAnd) {
		t.Error("missing metric should read as 0 and pass an == 0 rule")
	}
}

func TestEvaluateBadgeForms(t *testing.T) {
	metrics := Metrics{models.MetricTotalPoints: 100}

	single := &models.Badge{
		Name: "100 Points Master",
		Rules: &models.BadgeRules{
			Single: &models.BadgeRule{Type: models.MetricTotalPoints, Operator: models.OpGreaterOrEqual, Value: 100},
		},
	}
	if !EvaluateBadge(single, metrics) {
		t.Error("single-rule badge should be eligible at 100 points")
	}

	custom := &models.Badge{
		Name:  "Mystery",
		Rules: &models.BadgeRules{Evaluator: "legacy-hook-17"},
	}
	if EvaluateBadge(custom, metrics) {
		t.Error("custom evaluator badges must never auto-assign")
	}

	noRules := &models.Badge{Name: "Manual Only"}
	if EvaluateBadge(noRules, metrics) {
		t.Error("badge without rules must never auto-assign")
	}
}
