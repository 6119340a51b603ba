package conformance

// Suite represents one YAML corpus file
type Suite struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Cases       []Case `yaml:"cases"`
}

// Case is one comparison: two assembly programs, optional alternate entry
// pairs, and the expected outcome.
type Case struct {
	Name    string      `yaml:"name"`
	Left    string      `yaml:"left"`
	Right   string      `yaml:"right"`
	Entries []EntrySpec `yaml:"entries,omitempty"`
	Expect  string      `yaml:"expect"` // equivalent | divergent | malformed
}

// EntrySpec names one alternate entry-label pair
type EntrySpec struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}
