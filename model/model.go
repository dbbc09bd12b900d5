package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mbolis/quick-forms/theme"
)

// QuestionType enumerates the input kinds a question can take.
type QuestionType string

const (
	TypeText     QuestionType = "text"
	TypeEmail    QuestionType = "email"
	TypeNumber   QuestionType = "number"
	TypeTextarea QuestionType = "textarea"
	TypeSelect   QuestionType = "select"
	TypeRadio    QuestionType = "radio"
	TypeCheckbox QuestionType = "checkbox"
	TypeDate     QuestionType = "date"
)

// HasOptions reports whether the type is a choice type, i.e. whether
// Question.Options is meaningful for it.
func (t QuestionType) HasOptions() bool {
	switch t {
	case TypeSelect, TypeRadio, TypeCheckbox:
		return true
	}
	return false
}

// Condition enumerates the comparison operators a routing rule can use.
// The set is closed: evaluation dispatches through an explicit table, not
// through string matching at arbitrary call sites.
type Condition string

const (
	Equals    Condition = "equals"
	NotEquals Condition = "notEquals"
	Contains  Condition = "contains"
)

// RoutingRule makes the owning question visible only when the answer to an
// earlier question matches. SourceQuestionID is a back-reference by id: the
// editor only offers earlier questions, but nothing here re-checks that, so
// a rule pointing at a deleted or later question just never matches.
type RoutingRule struct {
	SourceQuestionID string    `json:"sourceQuestionId"`
	Condition        Condition `json:"condition"`
	Value            string    `json:"value"`
}

type Question struct {
	ID          string       `json:"id,omitempty"`
	Type        QuestionType `json:"type"`
	Label       string       `json:"label"`
	Required    bool         `json:"required"`
	Options     []string     `json:"options,omitempty"`
	RoutingRule *RoutingRule `json:"routingRule,omitempty"`
}

type Form struct {
	ID          int         `db:"id" json:"id,omitempty"`
	Title       string      `db:"title" json:"title"`
	Description string      `db:"description" json:"description"`
	Fields      []Question  `db:"-" json:"fields"`
	IsPublished bool        `db:"is_published" json:"isPublished"`
	ColorTheme  theme.Color `db:"color_theme" json:"colorTheme,omitempty"`
	CreatedBy   int         `db:"created_by" json:"createdBy,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`
}

type FormResponse struct {
	ID          int       `db:"id" json:"id"`
	FormID      int       `db:"form_id" json:"formId"`
	Responses   AnswerSet `db:"answers" json:"responses"`
	SubmittedAt time.Time `db:"time" json:"submittedAt"`
	IPAddress   string    `db:"ip" json:"ipAddress"`
}

type User struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Answer is one respondent answer: either a single string or, for checkbox
// questions, a list of strings. Any other JSON shape is rejected when
// decoding, so an AnswerSet is well-typed by construction.
type Answer struct {
	values []string
	isList bool
}

func Value(v string) Answer {
	return Answer{values: []string{v}}
}

func Values(vs ...string) Answer {
	return Answer{values: vs, isList: true}
}

// String renders the answer for display: scalars verbatim, lists joined
// with ", ". Rule evaluation uses a tighter comma join, see the routing
// package.
func (a Answer) String() string {
	return strings.Join(a.values, ", ")
}

// IsList reports whether the answer is a checkbox-style list, as opposed
// to a single scalar value.
func (a Answer) IsList() bool {
	return a.isList
}

// List returns the individual values of a list answer, or the scalar as a
// one-element slice.
func (a Answer) List() []string {
	return a.values
}

// Empty reports whether the answer stringifies to nothing, which
// required-field validation treats as unanswered.
func (a Answer) Empty() bool {
	return a.String() == ""
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.isList {
		if a.values == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(a.values)
	}
	if len(a.values) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(a.values[0])
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Value(s)
		return nil
	}
	var vs []string
	if err := json.Unmarshal(data, &vs); err == nil {
		*a = Values(vs...)
		return nil
	}
	return fmt.Errorf("answer must be a string or an array of strings: %s", data)
}

// AnswerSet maps question ids to answers. Questions without an id are keyed
// positionally ("q-0", "q-1", ...).
type AnswerSet map[string]Answer

// Scan and Value store an AnswerSet as a single JSON object column.
func (s *AnswerSet) Scan(src any) error {
	var data []byte
	switch src := src.(type) {
	case []byte:
		data = src
	case string:
		data = []byte(src)
	default:
		return fmt.Errorf("cannot scan %T into AnswerSet", src)
	}
	return json.Unmarshal(data, s)
}

func (s AnswerSet) Value() (driver.Value, error) {
	data, err := json.Marshal(s)
	return string(data), err
}
