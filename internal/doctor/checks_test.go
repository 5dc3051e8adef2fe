package doctor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubCheck is a canned check for exercising the aggregation helpers.
type stubCheck struct {
	name   string
	result CheckResult
}

func (c *stubCheck) Name() string     { return c.name }
func (c *stubCheck) Category() string { return "STUB" }
func (c *stubCheck) Run() CheckResult { return c.result }
func (c *stubCheck) Fix() error       { return nil }

func stub(status CheckStatus, fixable bool) *stubCheck {
	return &stubCheck{
		name:   fmt.Sprintf("stub_%s", status),
		result: CheckResult{Name: "stub", Status: status, Fixable: fixable},
	}
}

func TestRunAll_PreservesOrder(t *testing.T) {
	checks := []Check{
		&stubCheck{result: CheckResult{Name: "a", Status: StatusPass}},
		&stubCheck{result: CheckResult{Name: "b", Status: StatusFail}},
		&stubCheck{result: CheckResult{Name: "c", Status: StatusWarn}},
	}

	for _, runner := range []struct {
		name string
		fn   func([]Check) []CheckResult
	}{
		{"sequential", RunAll},
		{"parallel", RunAllParallel},
	} {
		t.Run(runner.name, func(t *testing.T) {
			results := runner.fn(checks)
			assert.Equal(t, []string{"a", "b", "c"},
				[]string{results[0].Name, results[1].Name, results[2].Name})
		})
	}
}

func TestStatusAggregation(t *testing.T) {
	results := RunAll([]Check{
		stub(StatusPass, false),
		stub(StatusWarn, true),
		stub(StatusFail, false),
		stub(StatusFail, true),
	})

	counts := CountByStatus(results)
	assert.Equal(t, 1, counts[StatusPass])
	assert.Equal(t, 1, counts[StatusWarn])
	assert.Equal(t, 2, counts[StatusFail])

	assert.True(t, HasFailures(results))
	assert.Equal(t, 2, FixableCount(results))
	assert.Equal(t, "3 issues found", Summary(results))
}

func TestSummary_Healthy(t *testing.T) {
	results := RunAll([]Check{stub(StatusPass, false)})

	assert.False(t, HasFailures(results))
	assert.Equal(t, "Everything looks good", Summary(results))
}

func TestCheckStatusString(t *testing.T) {
	assert.Equal(t, "pass", StatusPass.String())
	assert.Equal(t, "warn", StatusWarn.String())
	assert.Equal(t, "fail", StatusFail.String())
	assert.Equal(t, "unknown", CheckStatus(99).String())
}
