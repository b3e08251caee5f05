package testkit

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// Run executes a single scenario file against handler.
func Run(t *testing.T, handler http.Handler, scenarioPath string) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("%v", err)
	}

	body, err := s.readRelative(s.RequestFileName)
	if err != nil {
		t.Fatalf("%v", err)
	}

	req := httptest.NewRequest(s.RequestMethod, s.RequestURL, bytes.NewReader(body))
	if len(body) > 0 && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range s.RequestHeaders {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	AssertStatusCode(t, s, rec.Code)

	expected, err := s.readRelative(s.ResponseFileName)
	if err != nil {
		t.Fatalf("%v", err)
	}
	AssertJSONBody(t, s, expected, rec.Body.Bytes())
}

// RunDir discovers every *.json scenario in dir (files ending in _req.json
// or _res.json are body fixtures, not scenarios) and runs each as a subtest.
func RunDir(t *testing.T, handler http.Handler, dir string) {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		t.Fatalf("testkit: glob %q: %v", dir, err)
	}

	var scenarios []string
	for _, m := range matches {
		base := filepath.Base(m)
		if strings.HasSuffix(base, "_req.json") || strings.HasSuffix(base, "_res.json") {
			continue
		}
		scenarios = append(scenarios, m)
	}
	if len(scenarios) == 0 {
		t.Fatalf("testkit: no scenarios in %q", dir)
	}
	sort.Strings(scenarios)

	for _, path := range scenarios {
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		t.Run(name, func(t *testing.T) {
			Run(t, handler, path)
		})
	}
}
