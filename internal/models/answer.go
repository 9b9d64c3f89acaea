package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// An Answer is the value(s) a respondent gave for one question. It is
// a tagged variant: single-valued for text, textarea, dropdown, rating
// and single multiple-choice answers, multi-valued for checkbox
// selections. Tallying dispatches on the tag, never on a type check.
type Answer struct {
	value  string
	values []string
	multi  bool
}

// Single builds a single-valued answer.
func Single(v string) Answer {
	return Answer{value: v}
}

// Number builds a single-valued answer from a numeric value, e.g. a
// rating. The value is carried in its shortest decimal form.
func Number(n float64) Answer {
	return Answer{value: strconv.FormatFloat(n, 'f', -1, 64)}
}

// Multi builds a multi-valued answer, e.g. checkbox selections.
// Element order is preserved.
func Multi(vs ...string) Answer {
	return Answer{values: append([]string(nil), vs...), multi: true}
}

// IsMulti reports whether the answer is multi-valued.
func (a Answer) IsMulti() bool {
	return a.multi
}

// Value returns the single value. Empty for multi-valued answers.
func (a Answer) Value() string {
	return a.value
}

// Values returns the selected values of a multi-valued answer.
func (a Answer) Values() []string {
	return a.values
}

// Empty reports whether the answer carries no value at all. A required
// question is unanswered when its answer is empty.
func (a Answer) Empty() bool {
	if a.multi {
		return len(a.values) == 0
	}
	return a.value == ""
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.multi {
		return json.Marshal(a.values)
	}
	return json.Marshal(a.value)
}

// UnmarshalJSON accepts the loose persisted forms: a JSON string,
// number or bool becomes a single value, an array of those becomes a
// multi value. Anything else is rejected as corrupt.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			s, err := coerceScalar(item)
			if err != nil {
				return err
			}
			values = append(values, s)
		}
		*a = Answer{values: values, multi: true}
		return nil
	default:
		s, err := coerceScalar(raw)
		if err != nil {
			return err
		}
		*a = Answer{value: s}
		return nil
	}
}

func coerceScalar(v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(s), nil
	default:
		return "", fmt.Errorf("unsupported answer value %T", v)
	}
}
