package runner

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// DefaultExamples is the number of examples Run draws per record.
const DefaultExamples = 100

// Options configures Run.
type Options struct {
	// Examples is the number of examples drawn per record.
	Examples int `validate:"gte=1,lte=100000"`

	// Seed offsets every example seed, for reproducing a run.
	Seed int `validate:"gte=0"`

	// Logger receives progress and failures. If nil, slog.Default() is used.
	Logger *slog.Logger `validate:"-"`
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{Examples: DefaultExamples}
}

func (o Options) validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid run options: %w", err)
	}
	return nil
}

// Outcome classifies the result of running one record.
type Outcome int

const (
	Passed  Outcome = iota // every example conformed
	Failed                 // the oracle rejected a result
	Errored                // the call returned an error or panicked
	Skipped                // no binding, or the run was cancelled first
)

func (o Outcome) String() string {
	switch o {
	case Passed:
		return "PASS"
	case Failed:
		return "FAIL"
	case Errored:
		return "ERROR"
	case Skipped:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome for one record.
type Result struct {
	Callable string
	Outcome  Outcome
	Examples int // examples executed
	Err      error
}

// Report aggregates results.
type Report struct {
	Results []Result

	Passed  int
	Failed  int
	Errored int
	Skipped int
}

func (r *Report) add(res Result) {
	r.Results = append(r.Results, res)
	switch res.Outcome {
	case Passed:
		r.Passed++
	case Failed:
		r.Failed++
	case Errored:
		r.Errored++
	case Skipped:
		r.Skipped++
	}
}

// ExitStatus returns 0 when nothing failed or errored, 1 otherwise.
// Skipped records do not affect the status.
func (r Report) ExitStatus() int {
	if r.Failed > 0 || r.Errored > 0 {
		return 1
	}
	return 0
}

func (r Report) String() string {
	var sb strings.Builder
	for _, res := range r.Results {
		fmt.Fprintf(&sb, "%-5s %s", res.Outcome, res.Callable)
		if res.Err != nil {
			fmt.Fprintf(&sb, ": %v", res.Err)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "%d passed, %d failed, %d errored, %d skipped", r.Passed, r.Failed, r.Errored, r.Skipped)
	return sb.String()
}
