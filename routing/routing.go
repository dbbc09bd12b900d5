// Package routing decides which questions of a form are currently visible,
// given the answers collected so far.
package routing

import (
	"fmt"
	"strings"

	"github.com/mbolis/quick-forms/model"
)

// One comparison function per condition. Answers are stringified before
// comparison, including checkbox lists, so "contains" on a list matches
// against its joined rendering rather than per element.
var compare = map[model.Condition]func(answer, value string) bool{
	model.Equals: func(answer, value string) bool {
		return answer == value
	},
	model.NotEquals: func(answer, value string) bool {
		return answer != value
	},
	model.Contains: func(answer, value string) bool {
		return strings.Contains(strings.ToLower(answer), strings.ToLower(value))
	},
}

// IsVisible reports whether a question should currently be shown.
//
// A question without a routing rule is always visible. With a rule, an
// absent source answer or an empty scalar hides the question no matter the
// condition, notEquals included: downstream questions stay hidden until
// their dependency is answered. An empty list is past that gate and
// compares as "", so notEquals can match it.
func IsVisible(q model.Question, answers model.AnswerSet) bool {
	rule := q.RoutingRule
	if rule == nil {
		return true
	}
	answer, ok := answers[rule.SourceQuestionID]
	if !ok {
		return false
	}
	if !answer.IsList() && answer.Empty() {
		return false
	}

	cmp, ok := compare[rule.Condition]
	if !ok {
		// unknown condition: fail open, same as no rule
		return true
	}
	return cmp(stringify(answer), rule.Value)
}

// stringify renders an answer for rule comparison: scalars verbatim, lists
// comma-joined with no space. The ", " join of Answer.String is display
// only and never matches rule values authored against list answers.
func stringify(a model.Answer) string {
	return strings.Join(a.List(), ",")
}

// VisibleFields filters the ordered field list down to the currently
// visible questions, preserving order.
func VisibleFields(fields []model.Question, answers model.AnswerSet) []model.Question {
	visible := make([]model.Question, 0, len(fields))
	for _, q := range fields {
		if IsVisible(q, answers) {
			visible = append(visible, q)
		}
	}
	return visible
}

// AnswerKey returns the key a question's answer is stored under: its id, or
// a positional fallback when it has none.
func AnswerKey(q model.Question, index int) string {
	if q.ID != "" {
		return q.ID
	}
	return fmt.Sprintf("q-%d", index)
}

// MissingRequired returns the visible required questions that have no
// non-empty answer. Hidden questions are exempt from required-ness even
// when flagged required, so they never appear in the result.
func MissingRequired(fields []model.Question, answers model.AnswerSet) []model.Question {
	var missing []model.Question
	for i, q := range fields {
		if !q.Required || !IsVisible(q, answers) {
			continue
		}
		if answer, ok := answers[AnswerKey(q, i)]; !ok || answer.Empty() {
			missing = append(missing, q)
		}
	}
	return missing
}
