package validate

import (
	"fmt"
	"io"

	"github.com/logrusorgru/aurora"
)

type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Issue is a single finding. Source names the content document or area
// ("members", "siteconfig", "home-page", "assets"); Subject narrows it to
// an entry such as "member 3".
type Issue struct {
	Severity Severity
	Source   string
	Subject  string
	Field    string
	Message  string
	Hint     string
}

func (i Issue) String() string {
	if i.Subject == "" {
		return fmt.Sprintf("[%s] %s", i.Source, i.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", i.Source, i.Subject, i.Message)
}

type Outcome int

const (
	Clean Outcome = iota
	PassWithWarnings
	Fail
)

func (o Outcome) String() string {
	switch o {
	case Fail:
		return "fail"
	case PassWithWarnings:
		return "pass-with-warnings"
	default:
		return "clean"
	}
}

// Report accumulates issues. Checks never stop at the first problem.
type Report struct {
	Issues []Issue
}

func (r *Report) add(sev Severity, source, subject, field, hint, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Severity: sev,
		Source:   source,
		Subject:  subject,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
		Hint:     hint,
	})
}

// Merge appends the issues of other to r.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Issues = append(r.Issues, other.Issues...)
}

func (r *Report) filter(sev Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == sev {
			out = append(out, i)
		}
	}
	return out
}

func (r *Report) Errors() []Issue {
	return r.filter(SeverityError)
}

func (r *Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r *Report) HasErrors() bool {
	return len(r.Errors()) > 0
}

func (r *Report) Outcome() Outcome {
	switch {
	case r.HasErrors():
		return Fail
	case len(r.Issues) > 0:
		return PassWithWarnings
	default:
		return Clean
	}
}

// ExitCode is 1 when any error was recorded. Warnings alone never fail.
func (r *Report) ExitCode() int {
	if r.Outcome() == Fail {
		return 1
	}
	return 0
}

// Print writes one marked line per issue followed by a summary.
func (r *Report) Print(w io.Writer, colors bool) {
	au := aurora.NewAurora(colors)

	for _, i := range r.Issues {
		marker := au.Yellow("! warning")
		if i.Severity == SeverityError {
			marker = au.Red("✗ error  ")
		}
		fmt.Fprintf(w, "%s %s\n", marker, i)
		if i.Hint != "" {
			fmt.Fprintf(w, "    hint: %s\n", i.Hint)
		}
	}

	errs, warns := len(r.Errors()), len(r.Warnings())
	switch r.Outcome() {
	case Fail:
		fmt.Fprintf(w, "%s %d error(s), %d warning(s)\n", au.Red("✗ validation failed:"), errs, warns)
	case PassWithWarnings:
		fmt.Fprintf(w, "%s %d warning(s)\n", au.Yellow("! validation passed with"), warns)
	default:
		fmt.Fprintln(w, au.Green("✓ all checks passed"))
	}
}
