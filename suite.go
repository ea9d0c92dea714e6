// suite.go — YAML conformance suites.
//
// A suite file names a list of cases; each case evaluates one program on a
// fresh interpreter and checks the resulting value, the printed output,
// and/or the error text. `wisp test` runs suite files from the command
// line, and script_test.go runs the repo's own testdata through the same
// path.
package wisp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Suite is a named list of conformance cases loaded from YAML.
type Suite struct {
	Name  string      `yaml:"name"`
	Cases []SuiteCase `yaml:"cases"`
}

// SuiteCase is one program with expectations. Source is required. Want and
// Error are mutually exclusive: Want must equal FormatValue of the result,
// Error must be a substring of the rendered error. Output, when set, must
// equal everything print wrote, trailing newline included, and may ride
// along with either.
type SuiteCase struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Want   string `yaml:"want,omitempty"`
	Output string `yaml:"output,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

// LoadSuite reads and validates one suite file. Unknown keys are rejected,
// so a typo in an expectation fails loudly instead of silently skipping
// the check.
func LoadSuite(path string) (*Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("suite: open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var s Suite
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("suite: %s is empty", path)
		}
		return nil, fmt.Errorf("suite: parse %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("suite: %s has no name", path)
	}
	for i := range s.Cases {
		c := &s.Cases[i]
		if c.Name == "" {
			return nil, fmt.Errorf("suite: %s: case %d has no name", path, i)
		}
		if c.Source == "" {
			return nil, fmt.Errorf("suite: %s: case %q has no source", path, c.Name)
		}
		if c.Want != "" && c.Error != "" {
			return nil, fmt.Errorf("suite: %s: case %q sets both want and error", path, c.Name)
		}
	}
	return &s, nil
}

// Run evaluates the case on a fresh interpreter with captured output and
// returns nil when every stated expectation holds. Cases are independent;
// nothing carries over between them.
func (c *SuiteCase) Run() error {
	ip := NewInterpreter()
	var buf bytes.Buffer
	ip.Out = &buf

	v, err := ip.EvalSource(c.Source)

	if c.Error != "" {
		if err == nil {
			return fmt.Errorf("want error containing %q, got value %s", c.Error, FormatValue(v))
		}
		if !strings.Contains(err.Error(), c.Error) {
			return fmt.Errorf("want error containing %q, got: %s", c.Error, err)
		}
	} else {
		if err != nil {
			return fmt.Errorf("unexpected error: %s", err)
		}
		if c.Want != "" && FormatValue(v) != c.Want {
			return fmt.Errorf("want %s, got %s", c.Want, FormatValue(v))
		}
	}
	if c.Output != "" && buf.String() != c.Output {
		return fmt.Errorf("want output %q, got %q", c.Output, buf.String())
	}
	return nil
}
