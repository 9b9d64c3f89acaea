package models

import "time"

// The type of question being asked. Values match the persisted wire
// form, so renaming one is a data migration.
type QuestionType string

const (
	TypeText           QuestionType = "text"
	TypeTextarea       QuestionType = "textarea"
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeCheckbox       QuestionType = "checkbox"
	TypeDropdown       QuestionType = "dropdown"
	TypeRating         QuestionType = "rating"
)

// Valid reports whether t is one of the supported question types.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeText, TypeTextarea, TypeMultipleChoice, TypeCheckbox, TypeDropdown, TypeRating:
		return true
	}
	return false
}

// HasOptions reports whether questions of this type carry an option
// list. For every other type the options are absent and ignored.
func (t QuestionType) HasOptions() bool {
	switch t {
	case TypeMultipleChoice, TypeCheckbox, TypeDropdown:
		return true
	}
	return false
}

// The Question object. Owned by exactly one Survey; question ids are
// unique within their owning survey's question list.
type Question struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        QuestionType `json:"type"`
	Required    bool         `json:"required"`
	Options     []string     `json:"options,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// The Survey object. Questions keep authoring order.
type Survey struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Question returns the survey's question with the given id.
func (s *Survey) Question(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
