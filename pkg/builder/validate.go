package builder

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shashiranjanraj/formbus/pkg/form"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateForm checks the submitted values in state against the elements of
// f, recording element-keyed errors on state. Supported element properties:
//
//	#required          value must be present and non-empty
//	#type "email"      value must be a valid email address
//	#type "number"     value must be numeric
//	#maxlength         string length cap
//	#options           value must be one of the listed options
//	#pattern           value must match the regex
//
// Validation never returns an error: all findings land on the state.
func ValidateForm(f *form.Form, state *form.State) {
	f.Walk(func(key string, element *form.Form) bool {
		if element.Type() == "" {
			return true // container, descend
		}
		validateElement(key, element, state)
		return true
	})
}

func validateElement(key string, element *form.Form, state *form.State) {
	label := element.GetString("#title")
	if label == "" {
		label = key
	}

	value := state.Value(key)
	raw := stringValue(value)

	if element.Required() && isEmptyValue(value) {
		state.SetError(key, fmt.Sprintf("The %s field is required.", label))
		return
	}
	if isEmptyValue(value) {
		return // optional and absent: nothing more to check
	}

	switch element.Type() {
	case "email":
		if !emailRE.MatchString(raw) {
			state.SetError(key, fmt.Sprintf("The %s must be a valid email address.", label))
			return
		}
	case "number":
		if !numericRE.MatchString(raw) {
			state.SetError(key, fmt.Sprintf("The %s field must be a number.", label))
			return
		}
	}

	if max, ok := intProperty(element, "#maxlength"); ok && len([]rune(raw)) > max {
		state.SetError(key, fmt.Sprintf("The %s must not exceed %d characters.", label, max))
		return
	}

	if options, ok := element.Get("#options").([]any); ok {
		if !optionListed(options, raw) {
			state.SetError(key, fmt.Sprintf("The selected %s is invalid.", label))
			return
		}
	}

	if pattern := element.GetString("#pattern"); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil || !re.MatchString(raw) {
			state.SetError(key, fmt.Sprintf("The %s format is invalid.", label))
		}
	}
}

var numericRE = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}

func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case bool:
		return false // false is a valid checkbox value, not empty
	case []any:
		return len(t) == 0
	}
	return false
}

func intProperty(element *form.Form, key string) (int, bool) {
	switch n := element.Get(key).(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}

func optionListed(options []any, raw string) bool {
	for _, opt := range options {
		if stringValue(opt) == raw {
			return true
		}
	}
	return false
}
