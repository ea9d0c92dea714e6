package wisp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSuite(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suite.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o600); err != nil {
		t.Fatalf("write suite: %v", err)
	}
	return path
}

func Test_Suite_Load_Basic(t *testing.T) {
	path := writeSuite(t, `
name: smoke
cases:
  - name: adds
    source: "+(1, 2)"
    want: "3"
  - name: prints
    source: |
      do(
        print(1),
        print(2)
      )
    want: "2"
    output: "1\n2\n"
  - name: unbound
    source: nope
    error: "undefined variable: nope"
`)

	s, err := LoadSuite(path)
	if err != nil {
		t.Fatalf("LoadSuite error: %v", err)
	}
	if s.Name != "smoke" {
		t.Fatalf("Name = %q, want smoke", s.Name)
	}
	if len(s.Cases) != 3 {
		t.Fatalf("len(Cases) = %d, want 3", len(s.Cases))
	}
	if c := s.Cases[0]; c.Name != "adds" || c.Source != "+(1, 2)" || c.Want != "3" {
		t.Fatalf("case 0 decoded wrong: %#v", c)
	}
	if c := s.Cases[1]; c.Output != "1\n2\n" || !strings.Contains(c.Source, "print(1)") {
		t.Fatalf("case 1 decoded wrong: %#v", c)
	}
	if c := s.Cases[2]; c.Error != "undefined variable: nope" || c.Want != "" {
		t.Fatalf("case 2 decoded wrong: %#v", c)
	}

	for _, c := range s.Cases {
		if err := c.Run(); err != nil {
			t.Fatalf("case %q: %v", c.Name, err)
		}
	}
}

func Test_Suite_Load_Rejects_Unknown_Keys(t *testing.T) {
	path := writeSuite(t, `
name: typo
cases:
  - name: oops
    source: "1"
    wnat: "1"
`)
	_, err := LoadSuite(path)
	if err == nil {
		t.Fatal("expected decode error for unknown key, got nil")
	}
	if !strings.Contains(err.Error(), "wnat") {
		t.Fatalf("error should name the unknown key, got: %v", err)
	}
}

func Test_Suite_Load_Validation(t *testing.T) {
	cases := []struct {
		name, yaml, fragment string
	}{
		{"no suite name", "cases:\n  - name: a\n    source: \"1\"", "has no name"},
		{"no case name", "name: s\ncases:\n  - source: \"1\"", "case 0 has no name"},
		{"no source", "name: s\ncases:\n  - name: a", `case "a" has no source`},
		{"want and error", "name: s\ncases:\n  - name: a\n    source: \"1\"\n    want: \"1\"\n    error: boom", "sets both want and error"},
	}
	for _, tc := range cases {
		path := writeSuite(t, tc.yaml)
		_, err := LoadSuite(path)
		if err == nil {
			t.Fatalf("%s: expected error, got nil", tc.name)
		}
		if !strings.Contains(err.Error(), tc.fragment) {
			t.Fatalf("%s: error missing %q: %v", tc.name, tc.fragment, err)
		}
	}
}

func Test_Suite_Load_Empty_And_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadSuite(path); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("empty file: got %v", err)
	}

	if _, err := LoadSuite(filepath.Join(t.TempDir(), "nope.yaml")); err == nil || !strings.Contains(err.Error(), "open") {
		t.Fatalf("missing file: got %v", err)
	}
}

func Test_Suite_Case_Run_Mismatches(t *testing.T) {
	c := &SuiteCase{Name: "wrong value", Source: "+(1, 2)", Want: "4"}
	if err := c.Run(); err == nil || !strings.Contains(err.Error(), "want 4, got 3") {
		t.Fatalf("value mismatch: got %v", err)
	}

	c = &SuiteCase{Name: "wanted error", Source: "+(1, 2)", Error: "boom"}
	if err := c.Run(); err == nil || !strings.Contains(err.Error(), "want error containing") {
		t.Fatalf("missing error: got %v", err)
	}

	c = &SuiteCase{Name: "wrong error", Source: "nope", Error: "division by zero"}
	if err := c.Run(); err == nil || !strings.Contains(err.Error(), "want error containing") {
		t.Fatalf("wrong error: got %v", err)
	}

	c = &SuiteCase{Name: "unexpected error", Source: "nope", Want: "1"}
	if err := c.Run(); err == nil || !strings.Contains(err.Error(), "unexpected error") {
		t.Fatalf("unexpected error: got %v", err)
	}

	c = &SuiteCase{Name: "wrong output", Source: "print(5)", Output: "6\n"}
	if err := c.Run(); err == nil || !strings.Contains(err.Error(), "want output") {
		t.Fatalf("output mismatch: got %v", err)
	}
}

func Test_Suite_Cases_Are_Isolated(t *testing.T) {
	// A define in one case must not leak into the next.
	a := &SuiteCase{Name: "defines", Source: "define(leak, 1)", Want: "1"}
	b := &SuiteCase{Name: "cannot see it", Source: "leak", Error: "undefined variable: leak"}
	if err := a.Run(); err != nil {
		t.Fatalf("case a: %v", err)
	}
	if err := b.Run(); err != nil {
		t.Fatalf("case b: %v", err)
	}
}
