package invoke

import (
	"context"
	"strings"
	"sync"
)

// FakeResponse scripts the outcome of one matched invocation.
type FakeResponse struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// FakeRunner is a scriptable Runner for tests. Responses are matched by
// substring against the joined argv; the first match wins. Unmatched
// invocations succeed with empty output.
type FakeRunner struct {
	mu        sync.Mutex
	responses []fakeRule
	Calls     []Request
}

type fakeRule struct {
	match string
	resp  FakeResponse
}

// NewFakeRunner creates an empty fake runner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// On registers a response for invocations whose joined argv contains match.
func (f *FakeRunner) On(match string, resp FakeResponse) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, fakeRule{match: match, resp: resp})
	return f
}

// Run records the request and returns the first scripted response whose
// match is a substring of the joined argv.
func (f *FakeRunner) Run(_ context.Context, req Request) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, req)

	joined := strings.Join(req.Argv, " ")
	for _, rule := range f.responses {
		if strings.Contains(joined, rule.match) {
			r := rule.resp
			return Result{
				Stdout:   []byte(r.Stdout),
				Stderr:   []byte(r.Stderr),
				ExitCode: r.ExitCode,
			}, r.Err
		}
	}
	return Result{}, nil
}

// CallCount returns how many invocations matched the given substring.
func (f *FakeRunner) CallCount(match string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, call := range f.Calls {
		if strings.Contains(strings.Join(call.Argv, " "), match) {
			n++
		}
	}
	return n
}
