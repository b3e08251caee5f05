// Package testkit provides JSON-scenario-driven HTTP API testing.
//
// Each scenario is a JSON file describing the request to fire, the
// expected status code and (optionally) the expected response body.
// Scenario files live next to your *_test.go files:
//
//	testdata/
//	  build_user_form.json        ← scenario
//	  build_user_form_res.json    ← expected response body
//
//	func TestAPI(t *testing.T) {
//	    testkit.RunDir(t, handler, "testdata")
//	}
//
// In expected response files the string "<<any>>" matches any value, for
// fields like form_build_id that change every run.
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Scenario describes a single HTTP test case loaded from a JSON file.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	RequestMethod   string            `json:"requestMethod"`
	RequestURL      string            `json:"requestUrl"`
	RequestFileName string            `json:"requestFileName"` // body file, relative to the scenario
	RequestHeaders  map[string]string `json:"requestHeaders"`

	ExpectedCode     int    `json:"expectedCode"`
	ResponseFileName string `json:"responseFileName"` // expected body file, relative to the scenario

	dir string // directory the scenario was loaded from
}

// LoadScenario reads and validates a scenario JSON file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: read scenario: %w", err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse scenario %q: %w", path, err)
	}
	if s.Name == "" {
		s.Name = filepath.Base(path)
	}
	if s.RequestMethod == "" || s.RequestURL == "" {
		return nil, fmt.Errorf("testkit: scenario %q: requestMethod and requestUrl are required", path)
	}
	if s.ExpectedCode == 0 {
		return nil, fmt.Errorf("testkit: scenario %q: expectedCode is required", path)
	}

	s.dir = filepath.Dir(path)
	return &s, nil
}

// readRelative loads a file referenced by the scenario, relative to it.
func (s *Scenario) readRelative(name string) ([]byte, error) {
	if name == "" {
		return nil, nil
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("testkit: scenario %q: read %q: %w", s.Name, name, err)
	}
	return data, nil
}
