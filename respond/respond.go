// Package respond drives one respondent through a published form: collect
// answers, keep the visible question set current, validate and submit.
package respond

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mbolis/quick-forms/client"
	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/routing"
)

// ErrAlreadySubmitted is reported by Submit after a successful submission:
// the session is terminal at that point.
var ErrAlreadySubmitted = errors.New("response already submitted")

// MissingRequiredError means a visible required question has no answer.
// The submission was not sent.
type MissingRequiredError struct {
	Labels []string
}

func (e *MissingRequiredError) Error() string {
	return "missing required fields: " + strings.Join(e.Labels, ", ")
}

type Session struct {
	form      model.Form
	answers   model.AnswerSet
	submitted bool
}

func NewSession(form model.Form) *Session {
	return &Session{
		form:    form,
		answers: model.AnswerSet{},
	}
}

func (s *Session) Form() model.Form {
	return s.form
}

// Key returns the answer key for the question at index, so callers can
// address questions that came without an id.
func (s *Session) Key(index int) (string, error) {
	if index < 0 || index >= len(s.form.Fields) {
		return "", fmt.Errorf("no question at index %d", index)
	}
	return routing.AnswerKey(s.form.Fields[index], index), nil
}

func (s *Session) SetAnswer(key string, answer model.Answer) {
	s.answers[key] = answer
}

func (s *Session) Answer(key string) (model.Answer, bool) {
	answer, ok := s.answers[key]
	return answer, ok
}

// Visible recomputes the currently visible question sequence from the full
// field list and the answers so far. No caching: form sizes are tens of
// questions at most.
func (s *Session) Visible() []model.Question {
	return routing.VisibleFields(s.form.Fields, s.answers)
}

func (s *Session) Submitted() bool {
	return s.submitted
}

// Submit validates required visible questions and sends the full
// accumulated answer set, including answers to questions that have since
// become hidden. A validation or transport failure leaves the session
// retryable; success makes it terminal.
func (s *Session) Submit(ctx context.Context, api *client.Client) error {
	if s.submitted {
		return ErrAlreadySubmitted
	}

	missing := routing.MissingRequired(s.form.Fields, s.answers)
	if len(missing) > 0 {
		labels := make([]string, len(missing))
		for i, q := range missing {
			labels[i] = q.Label
		}
		return &MissingRequiredError{Labels: labels}
	}

	err := api.SubmitResponse(ctx, s.form.ID, s.answers)
	if err != nil {
		return err
	}

	s.submitted = true
	return nil
}
