package conformance

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadedSuite pairs a suite with the file it came from
type LoadedSuite struct {
	File  string
	Suite Suite
}

// LoadSuites walks a directory and loads every .yaml corpus file
func LoadSuites(dir string) ([]LoadedSuite, error) {
	var loaded []LoadedSuite

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}
		suite, err := loadSuiteFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		rel, _ := filepath.Rel(dir, path)
		loaded = append(loaded, LoadedSuite{File: rel, Suite: suite})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

func loadSuiteFile(path string) (Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, err
	}
	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return Suite{}, err
	}
	if suite.Name == "" {
		return Suite{}, fmt.Errorf("suite has no name")
	}
	for i, c := range suite.Cases {
		if c.Name == "" {
			return Suite{}, fmt.Errorf("case %d has no name", i)
		}
		switch c.Expect {
		case "equivalent", "divergent", "malformed":
		default:
			return Suite{}, fmt.Errorf("case %q: unknown expectation %q", c.Name, c.Expect)
		}
	}
	return suite, nil
}
