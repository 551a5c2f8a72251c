package validator

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrValidation marks a dataset that broke at least one invariant.
var ErrValidation = errors.New("dataset validation failed")

// Check groups violations by the pass that found them.
type Check string

const (
	CheckEntity      Check = "entity"
	CheckReferential Check = "referential"
	CheckAggregate   Check = "aggregate"
	CheckPayment     Check = "payment"
)

// Violation is one broken invariant on one row.
type Violation struct {
	Check    Check   `json:"check"`
	Table    string  `json:"table"`
	Key      int64   `json:"key"`
	Field    string  `json:"field"`
	Rule     string  `json:"rule"`
	Detail   string  `json:"detail"`
	Expected float64 `json:"expected,omitempty"`
	Actual   float64 `json:"actual,omitempty"`
	Delta    float64 `json:"delta,omitempty"`
}

func (v Violation) String() string {
	s := fmt.Sprintf("[%s] %s #%d %s: %s", v.Check, v.Table, v.Key, v.Field, v.Detail)
	if v.Delta != 0 {
		s += fmt.Sprintf(" (expected %.2f, got %.2f, delta %.4f)", v.Expected, v.Actual, v.Delta)
	}
	return s
}

// Report is the outcome of Validate. It never drops a violation.
type Report struct {
	Rows       map[string]int `json:"rows"`
	Violations []Violation    `json:"violations"`
}

func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

func (r *Report) add(v Violation) {
	r.Violations = append(r.Violations, v)
}

// ByCheck counts violations per check.
func (r *Report) ByCheck() map[Check]int {
	counts := map[Check]int{}
	for _, v := range r.Violations {
		counts[v.Check]++
	}
	return counts
}

func (r *Report) Summary() string {
	if r.OK() {
		return "all data validations passed"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d violation(s):", len(r.Violations))
	for _, v := range r.Violations {
		b.WriteString("\n  ")
		b.WriteString(v.String())
	}
	return b.String()
}

// Err returns a *ValidationError when the report has violations, nil otherwise.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Report: r}
}

// ValidationError carries the full report of a rejected dataset.
type ValidationError struct {
	Report *Report
}

func (e *ValidationError) Error() string {
	counts := e.Report.ByCheck()
	return fmt.Sprintf("%s: %d violation(s) (entity=%d referential=%d aggregate=%d payment=%d)",
		ErrValidation, len(e.Report.Violations),
		counts[CheckEntity], counts[CheckReferential], counts[CheckAggregate], counts[CheckPayment])
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
