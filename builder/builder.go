// Package builder holds the in-memory draft of a form under edit,
// independent of persistence. It mirrors what the form-builder UI does:
// append, tweak, remove and reorder questions, then save the whole thing.
package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"

	"github.com/mbolis/quick-forms/client"
	"github.com/mbolis/quick-forms/model"
	"github.com/mbolis/quick-forms/theme"
)

// ErrUntitled is reported by Save when the trimmed title is empty.
// Nothing is sent to the server in that case.
var ErrUntitled = errors.New("form title is required")

type Draft struct {
	Title       string
	Description string
	ColorTheme  theme.Color

	id     int
	fields []model.Question
}

func NewDraft() *Draft {
	return &Draft{ColorTheme: theme.Purple}
}

// DraftOf starts editing an existing form. Questions loaded without an id
// get one assigned, so later routing rules have something to point at.
func DraftOf(form model.Form) *Draft {
	fields := make([]model.Question, len(form.Fields))
	copy(fields, form.Fields)
	for i := range fields {
		if fields[i].ID == "" {
			fields[i].ID = newQuestionId()
		}
	}

	return &Draft{
		Title:       form.Title,
		Description: form.Description,
		ColorTheme:  form.ColorTheme,
		id:          form.ID,
		fields:      fields,
	}
}

// ID is the persisted form id, zero until the first successful Save.
func (d *Draft) ID() int {
	return d.id
}

// Questions is a read-only view of the draft's field sequence.
func (d *Draft) Questions() []model.Question {
	return d.fields
}

// AddQuestion appends a blank text question and returns it.
func (d *Draft) AddQuestion() model.Question {
	q := model.Question{
		ID:      newQuestionId(),
		Type:    model.TypeText,
		Label:   "",
		Options: []string{},
	}
	d.fields = append(d.fields, q)
	return q
}

// The setters replace one field of the question at index, nothing else.
// In particular, switching type away from a choice type does not clear
// stale options: that is left to the user, as in the editor UI.

func (d *Draft) SetLabel(index int, label string) error {
	q, err := d.question(index)
	if err != nil {
		return err
	}
	q.Label = label
	return nil
}

func (d *Draft) SetType(index int, t model.QuestionType) error {
	q, err := d.question(index)
	if err != nil {
		return err
	}
	q.Type = t
	return nil
}

func (d *Draft) SetRequired(index int, required bool) error {
	q, err := d.question(index)
	if err != nil {
		return err
	}
	q.Required = required
	return nil
}

func (d *Draft) SetOptions(index int, options ...string) error {
	q, err := d.question(index)
	if err != nil {
		return err
	}
	q.Options = options
	return nil
}

func (d *Draft) SetRoutingRule(index int, rule *model.RoutingRule) error {
	q, err := d.question(index)
	if err != nil {
		return err
	}
	q.RoutingRule = rule
	return nil
}

// RemoveQuestion deletes by position. Routing rules in later questions
// that referenced the removed question are not repaired: they become
// permanently unsatisfiable, and that is on the user.
func (d *Draft) RemoveQuestion(index int) error {
	if index < 0 || index >= len(d.fields) {
		return fmt.Errorf("no question at index %d", index)
	}
	d.fields = append(d.fields[:index], d.fields[index+1:]...)
	return nil
}

// Reorder moves the question at from to position to, shifting the rest.
// Rules are not re-validated after the move: dragging a source question
// below a question that routes on it silently breaks that rule.
func (d *Draft) Reorder(from, to int) error {
	if from < 0 || from >= len(d.fields) {
		return fmt.Errorf("no question at index %d", from)
	}
	if to < 0 || to >= len(d.fields) {
		return fmt.Errorf("no question at index %d", to)
	}

	q := d.fields[from]
	d.fields = append(d.fields[:from], d.fields[from+1:]...)

	rest := append([]model.Question{q}, d.fields[to:]...)
	d.fields = append(d.fields[:to:to], rest...)
	return nil
}

// RuleCandidates returns the questions a routing rule on the question at
// index may reference: strictly earlier ones only.
func (d *Draft) RuleCandidates(index int) []model.Question {
	if index < 0 || index > len(d.fields) {
		return nil
	}
	return d.fields[:index]
}

// Save validates and persists the draft: a create on first save, a full
// field-sequence replace afterwards. The draft remembers the assigned id.
func (d *Draft) Save(ctx context.Context, api *client.Client) (*model.Form, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return nil, ErrUntitled
	}

	payload := model.Form{
		Title:       title,
		Description: d.Description,
		ColorTheme:  d.ColorTheme,
		Fields:      d.fields,
	}

	var saved *model.Form
	var err error
	if d.id == 0 {
		saved, err = api.CreateForm(ctx, payload)
	} else {
		saved, err = api.UpdateForm(ctx, d.id, payload)
	}
	if err != nil {
		return nil, err
	}

	d.id = saved.ID
	d.fields = saved.Fields
	return saved, nil
}

func (d *Draft) question(index int) (*model.Question, error) {
	if index < 0 || index >= len(d.fields) {
		return nil, fmt.Errorf("no question at index %d", index)
	}
	return &d.fields[index], nil
}

func newQuestionId() string {
	return uuid.Must(uuid.NewV4()).String()
}
