package job

import "fmt"

// Failure kinds reported in the result envelope's code field.
const (
	KindInput  = "input"
	KindParams = "params"
	KindHTTP   = "http"
	KindAPI    = "api"
)

// Failure is a terminal job error together with its envelope code.
type Failure struct {
	Kind        string
	Description string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Description)
}

func failf(kind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Description: fmt.Sprintf(format, args...)}
}

// Result is the outcome of one optional pipeline step: a value, a
// degraded error that must not abort the job, or a fatal failure.
// Exactly one of the three is set.
type Result[T any] struct {
	Value    T
	Degraded error
	Fatal    *Failure
}

func ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func degraded[T any](err error) Result[T] {
	return Result[T]{Degraded: err}
}

// Report is the single document written to stdout. Code is 0 on
// success and a failure-kind string otherwise, so it stays untyped.
type Report struct {
	XY          int      `json:"xy"`
	Code        any      `json:"code"`
	Description string   `json:"description,omitempty"`
	Data        *Payload `json:"data,omitempty"`
}

func successReport(data *Payload) *Report {
	return &Report{XY: 1, Code: 0, Data: data}
}

func (f *Failure) report() *Report {
	return &Report{XY: 1, Code: f.Kind, Description: f.Description}
}
