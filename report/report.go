// Package report renders the outcome of a solve as text, JSON or YAML.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Method names the solver that produced a report.
type Method string

const (
	Simplex  Method = "simplex"
	ILP      Method = "ilp"
	Interior Method = "interior"
)

// unit describes what Iterations counts for a method.
func (m Method) unit() string {
	switch m {
	case ILP:
		return "cutting plane"
	case Interior:
		return "interior point"
	default:
		return "simplex"
	}
}

var ErrFormat = errors.New("report: unknown output format")

// Formats lists the accepted output formats.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML}
}

// Duration marshals as a Go duration string.
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

type Variable struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

type Report struct {
	Method    Method     `json:"method" yaml:"method"`
	Status    string     `json:"status" yaml:"status"`
	Objective float64    `json:"objective" yaml:"objective"`
	Solution  []Variable `json:"solution" yaml:"solution"`
	//Iterations pivots for simplex, rounds for ilp, steps for interior
	Iterations int      `json:"iterations" yaml:"iterations"`
	Cuts       int      `json:"cuts,omitempty" yaml:"cuts,omitempty"`
	Reference  *float64 `json:"reference,omitempty" yaml:"reference,omitempty"`
	Elapsed    Duration `json:"elapsed" yaml:"elapsed"`
}

// New builds a report for the structural values x. Variables are named by
// names when given, "var i" otherwise.
func New(method Method, status string, objective float64, x []float64, names []string) *Report {
	r := &Report{
		Method:    method,
		Status:    status,
		Objective: objective,
		Solution:  make([]Variable, len(x)),
	}
	for i, v := range x {
		name := fmt.Sprintf("var %d", i+1)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		r.Solution[i] = Variable{Name: name, Value: v}
	}
	return r
}

// Render writes r to w in the given format.
func (r *Report) Render(w io.Writer, format string) error {
	switch format {
	case FormatText:
		return r.renderText(w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}
	return pkgerrors.Wrapf(ErrFormat, "%q", format)
}

func (r *Report) renderText(w io.Writer) error {
	ew := &errWriter{w: w}
	ew.printf("\nOptimal solution obtained after %d %s iterations:\n\n", r.Iterations, r.Method.unit())
	for _, v := range r.Solution {
		ew.printf("%s: %.4f\n", v.Name, v.Value)
	}
	ew.printf("\nOptimal objective value: %.4f\n", r.Objective)
	if r.Cuts > 0 {
		ew.printf("Cuts added: %d\n", r.Cuts)
	}
	if r.Reference != nil {
		ew.printf("Reference objective value: %.4f\n", *r.Reference)
	}
	ew.printf("\nTiming results: %s\n", r.Elapsed)
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
