package routing

import (
	"testing"

	"github.com/mbolis/quick-forms/model"
)

func ruled(condition model.Condition, value string) model.Question {
	return model.Question{
		ID:    "q2",
		Type:  model.TypeText,
		Label: "follow-up",
		RoutingRule: &model.RoutingRule{
			SourceQuestionID: "q1",
			Condition:        condition,
			Value:            value,
		},
	}
}

func TestIsVisible_NoRule(t *testing.T) {
	q := model.Question{ID: "q1", Type: model.TypeText, Label: "anything"}

	if !IsVisible(q, model.AnswerSet{}) {
		t.Error("question without rule should be visible with no answers")
	}
	if !IsVisible(q, model.AnswerSet{"q1": model.Value("whatever")}) {
		t.Error("question without rule should be visible regardless of answers")
	}
}

func TestIsVisible_UnansweredSource(t *testing.T) {
	for _, condition := range []model.Condition{model.Equals, model.NotEquals, model.Contains} {
		q := ruled(condition, "Yes")

		if IsVisible(q, model.AnswerSet{}) {
			t.Errorf("%s: absent source answer should hide the question", condition)
		}
		if IsVisible(q, model.AnswerSet{"q1": model.Value("")}) {
			t.Errorf("%s: empty source answer should hide the question", condition)
		}
	}
}

func TestIsVisible_Equals(t *testing.T) {
	q := ruled(model.Equals, "Yes")

	if !IsVisible(q, model.AnswerSet{"q1": model.Value("Yes")}) {
		t.Error("exact match should be visible")
	}
	if IsVisible(q, model.AnswerSet{"q1": model.Value("yes")}) {
		t.Error("equals is case-sensitive: \"yes\" should not match \"Yes\"")
	}
	if IsVisible(q, model.AnswerSet{"q1": model.Value("No")}) {
		t.Error("mismatch should not be visible")
	}
}

func TestIsVisible_NotEquals(t *testing.T) {
	q := ruled(model.NotEquals, "No")

	if IsVisible(q, model.AnswerSet{"q1": model.Value("No")}) {
		t.Error("notEquals with matching answer should not be visible")
	}
	if !IsVisible(q, model.AnswerSet{"q1": model.Value("Yes")}) {
		t.Error("notEquals with different answer should be visible")
	}
	// not a contradiction: unanswered trumps condition polarity
	if IsVisible(q, model.AnswerSet{}) {
		t.Error("notEquals with unanswered source should still be hidden")
	}
}

func TestIsVisible_Contains(t *testing.T) {
	q := ruled(model.Contains, "ye")

	if !IsVisible(q, model.AnswerSet{"q1": model.Value("Yes please")}) {
		t.Error("contains should match case-insensitively")
	}
	if !IsVisible(q, model.AnswerSet{"q1": model.Value("OH YEAH")}) {
		t.Error("contains should lowercase both sides")
	}
	if IsVisible(q, model.AnswerSet{"q1": model.Value("nope")}) {
		t.Error("contains with no match should not be visible")
	}
}

func TestIsVisible_ListAnswer(t *testing.T) {
	// checkbox answers compare through their comma-joined rendering,
	// not per element
	q := ruled(model.Equals, "A,B")
	if !IsVisible(q, model.AnswerSet{"q1": model.Values("A", "B")}) {
		t.Error("equals should match the comma-joined list rendering")
	}

	q = ruled(model.Equals, "A, B")
	if IsVisible(q, model.AnswerSet{"q1": model.Values("A", "B")}) {
		t.Error("the display join with a space is not the comparison rendering")
	}

	q = ruled(model.Equals, "A")
	if IsVisible(q, model.AnswerSet{"q1": model.Values("A", "B")}) {
		t.Error("equals should not match a single element of a list")
	}

	q = ruled(model.Contains, "b")
	if !IsVisible(q, model.AnswerSet{"q1": model.Values("A", "B")}) {
		t.Error("contains should search the joined list rendering")
	}

	q = ruled(model.Contains, "a,b")
	if !IsVisible(q, model.AnswerSet{"q1": model.Values("A", "B", "C")}) {
		t.Error("contains may span elements through the comma join")
	}
}

func TestIsVisible_EmptyList(t *testing.T) {
	// an empty list is an answer: it passes the unanswered gate and
	// compares as ""
	q := ruled(model.NotEquals, "No")
	if !IsVisible(q, model.AnswerSet{"q1": model.Values()}) {
		t.Error("notEquals over an empty list should be visible")
	}

	q = ruled(model.Equals, "Yes")
	if IsVisible(q, model.AnswerSet{"q1": model.Values()}) {
		t.Error("equals over an empty list should not match a non-empty value")
	}

	q = ruled(model.Contains, "no")
	if IsVisible(q, model.AnswerSet{"q1": model.Values()}) {
		t.Error("contains over an empty list should not match")
	}

	// the gate still applies to empty scalars
	q = ruled(model.NotEquals, "No")
	if IsVisible(q, model.AnswerSet{"q1": model.Value("")}) {
		t.Error("notEquals over an empty scalar should stay hidden")
	}
}

func TestIsVisible_UnknownCondition(t *testing.T) {
	q := ruled(model.Condition("matches"), "Yes")

	if !IsVisible(q, model.AnswerSet{"q1": model.Value("No")}) {
		t.Error("unknown condition should fail open")
	}
}

func TestIsVisible_DanglingSource(t *testing.T) {
	// rule referencing a deleted question: never satisfiable
	q := ruled(model.NotEquals, "No")
	answers := model.AnswerSet{"other": model.Value("Yes")}

	if IsVisible(q, answers) {
		t.Error("rule referencing a missing question should hide its owner")
	}
}

func TestVisibleFields_PreservesOrder(t *testing.T) {
	fields := []model.Question{
		{ID: "q1", Type: model.TypeSelect, Label: "first", Options: []string{"A", "B"}},
		ruled(model.Equals, "A"),
		{ID: "q3", Type: model.TypeText, Label: "last"},
	}

	visible := VisibleFields(fields, model.AnswerSet{"q1": model.Value("A")})
	if len(visible) != 3 {
		t.Fatalf("expected 3 visible questions, got %d", len(visible))
	}
	for i, id := range []string{"q1", "q2", "q3"} {
		if visible[i].ID != id {
			t.Errorf("expected %s at position %d, got %s", id, i, visible[i].ID)
		}
	}

	visible = VisibleFields(fields, model.AnswerSet{"q1": model.Value("B")})
	if len(visible) != 2 {
		t.Fatalf("expected 2 visible questions, got %d", len(visible))
	}
	if visible[0].ID != "q1" || visible[1].ID != "q3" {
		t.Errorf("expected q1, q3; got %s, %s", visible[0].ID, visible[1].ID)
	}
}

func TestAnswerKey_PositionalFallback(t *testing.T) {
	withId := model.Question{ID: "q7"}
	if key := AnswerKey(withId, 3); key != "q7" {
		t.Errorf("expected id key, got %q", key)
	}

	anonymous := model.Question{}
	if key := AnswerKey(anonymous, 3); key != "q-3" {
		t.Errorf("expected positional key q-3, got %q", key)
	}
}

func TestMissingRequired(t *testing.T) {
	fields := []model.Question{
		{ID: "q1", Type: model.TypeSelect, Label: "choice", Required: true, Options: []string{"A", "B"}},
		{
			ID: "q2", Type: model.TypeText, Label: "why A", Required: true,
			RoutingRule: &model.RoutingRule{SourceQuestionID: "q1", Condition: model.Equals, Value: "A"},
		},
	}

	missing := MissingRequired(fields, model.AnswerSet{})
	if len(missing) != 1 || missing[0].ID != "q1" {
		t.Fatalf("expected only the visible required question, got %+v", missing)
	}

	// q2 becomes visible and required once q1 is answered "A"
	missing = MissingRequired(fields, model.AnswerSet{"q1": model.Value("A")})
	if len(missing) != 1 || missing[0].ID != "q2" {
		t.Fatalf("expected q2 missing, got %+v", missing)
	}

	// with q1 = "B" the routed question is invisible, hence exempt
	missing = MissingRequired(fields, model.AnswerSet{"q1": model.Value("B")})
	if len(missing) != 0 {
		t.Fatalf("hidden required question should not block, got %+v", missing)
	}

	missing = MissingRequired(fields, model.AnswerSet{
		"q1": model.Value("A"),
		"q2": model.Value("because"),
	})
	if len(missing) != 0 {
		t.Fatalf("all answered, expected nothing missing, got %+v", missing)
	}

	// an empty answer does not satisfy a required field
	missing = MissingRequired(fields, model.AnswerSet{"q1": model.Value("A"), "q2": model.Value("")})
	if len(missing) != 1 || missing[0].ID != "q2" {
		t.Fatalf("empty answer should leave q2 missing, got %+v", missing)
	}
}
