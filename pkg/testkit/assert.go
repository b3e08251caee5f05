package testkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wildcard in an expected response file matches any actual value. Form
// build ids are random per request, so expected bodies use it for them.
const Wildcard = "<<any>>"

// AssertStatusCode checks the response code with testify.
func AssertStatusCode(t *testing.T, s *Scenario, got int) {
	t.Helper()
	assert.Equal(t, s.ExpectedCode, got, "[%s] HTTP status code mismatch", s.Name)
}

// AssertJSONBody compares actual response bytes against the expected file
// contents after normalising both through JSON unmarshal, so key order and
// whitespace never matter. Expected values equal to Wildcard match anything.
func AssertJSONBody(t *testing.T, s *Scenario, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	var expVal, actVal interface{}
	require.NoError(t, json.Unmarshal(expected, &expVal),
		"[%s] expected response file is not valid JSON", s.Name)
	require.NoError(t, json.Unmarshal(actual, &actVal),
		"[%s] actual response is not valid JSON\nbody: %s", s.Name, string(actual))

	assert.Equal(t, expVal, maskWildcards(expVal, actVal),
		"[%s] response body mismatch", s.Name)
}

// maskWildcards walks expected and actual together and replaces actual
// values with Wildcard wherever the expectation is the wildcard, so the
// final deep-equal ignores those positions.
func maskWildcards(expected, actual interface{}) interface{} {
	if expected == Wildcard {
		return Wildcard
	}

	switch exp := expected.(type) {
	case map[string]interface{}:
		act, ok := actual.(map[string]interface{})
		if !ok {
			return actual
		}
		out := make(map[string]interface{}, len(act))
		for k, v := range act {
			out[k] = maskWildcards(exp[k], v)
		}
		return out
	case []interface{}:
		act, ok := actual.([]interface{})
		if !ok {
			return actual
		}
		out := make([]interface{}, len(act))
		for i, v := range act {
			if i < len(exp) {
				out[i] = maskWildcards(exp[i], v)
			} else {
				out[i] = v
			}
		}
		return out
	default:
		return actual
	}
}
