package conformance

import (
	"testing"
)

func TestCorpus(t *testing.T) {
	suites, err := LoadSuites("testdata")
	if err != nil {
		t.Fatalf("Failed to load corpus: %v", err)
	}
	if len(suites) == 0 {
		t.Fatal("No corpus suites loaded")
	}

	for _, ls := range suites {
		t.Run(ls.File, func(t *testing.T) {
			for _, c := range ls.Suite.Cases {
				t.Run(c.Name, func(t *testing.T) {
					res := RunCase(c)
					if res.RunErr != nil {
						t.Fatalf("case did not run: %v", res.RunErr)
					}
					if !res.Passed {
						t.Errorf("expected %s, got %s (%s)", c.Expect, res.Got, res.Detail)
					}
				})
			}
		})
	}
}
