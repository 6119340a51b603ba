package conformance

import (
	"fmt"

	"bcdiff/asm"
	"bcdiff/equiv"
)

// Outcome is what actually happened when a case ran
type Outcome string

const (
	OutcomeEquivalent Outcome = "equivalent"
	OutcomeDivergent  Outcome = "divergent"
	OutcomeMalformed  Outcome = "malformed"
)

// CaseResult is the outcome of one corpus case
type CaseResult struct {
	Case    Case
	Got     Outcome
	Passed  bool
	Detail  string
	RunErr  error
}

// RunCase assembles both sides and compares them, classifying the result
// into the three-way outcome the corpus expects.
func RunCase(c Case) CaseResult {
	res := CaseResult{Case: c}

	left, err := asm.Parse("left", c.Left)
	if err != nil {
		res.RunErr = fmt.Errorf("assembling left: %w", err)
		return res
	}
	right, err := asm.Parse("right", c.Right)
	if err != nil {
		res.RunErr = fmt.Errorf("assembling right: %w", err)
		return res
	}

	var entries []equiv.EntryPair
	for _, e := range c.Entries {
		entries = append(entries, equiv.EntryPair{Left: e.Left, Right: e.Right})
	}

	result, err := equiv.Compare(left, right, entries)
	switch {
	case err != nil:
		res.Got = OutcomeMalformed
		res.Detail = err.Error()
	case result.Equivalent:
		res.Got = OutcomeEquivalent
	default:
		res.Got = OutcomeDivergent
		res.Detail = result.Witness.String()
	}

	res.Passed = string(res.Got) == c.Expect
	return res
}
