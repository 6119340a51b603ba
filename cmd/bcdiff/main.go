package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bcdiff/asm"
	"bcdiff/bytecode"
	"bcdiff/diff"
	"bcdiff/equiv"
)

// Exit statuses: 0 proved equivalent, 1 divergent, 2 malformed input or
// usage error.
const (
	exitEquivalent = 0
	exitDivergent  = 1
	exitMalformed  = 2
)

var (
	entryFlags []string
	jsonOutput bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "bcdiff",
	Short:         "bcdiff - semantic differ for compiled function bodies",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var compareCmd = &cobra.Command{
	Use:   "compare <left.bc> <right.bc>",
	Short: "Compare two assembled function bodies for behavioral equivalence",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		left, err := loadProgram(args[0])
		if err != nil {
			return err
		}
		right, err := loadProgram(args[1])
		if err != nil {
			return err
		}

		entries, err := parseEntryFlags(entryFlags)
		if err != nil {
			return err
		}

		result, err := equiv.Compare(left, right, entries)
		if err != nil {
			logger.Error("malformed input", zap.Error(err))
			fmt.Fprintf(os.Stderr, "malformed input: %v\n", err)
			os.Exit(exitMalformed)
		}

		if jsonOutput {
			out, err := diff.RenderJSON(left, right, result)
			if err != nil {
				return err
			}
			fmt.Println(string(out))
		} else {
			fmt.Print(diff.Render(left, right, result))
		}

		if !result.Equivalent {
			os.Exit(exitDivergent)
		}
		return nil
	},
}

func loadProgram(path string) (*bytecode.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	p, err := asm.Parse(filepath.Base(path), string(src))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return p, nil
}

func parseEntryFlags(flags []string) ([]equiv.EntryPair, error) {
	var entries []equiv.EntryPair
	for _, f := range flags {
		l, r, ok := strings.Cut(f, ":")
		if !ok || l == "" || r == "" {
			return nil, fmt.Errorf("invalid --entry %q: expected LEFT:RIGHT", f)
		}
		entries = append(entries, equiv.EntryPair{Left: l, Right: r})
	}
	return entries, nil
}

func main() {
	var err error
	logger, err = zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(exitMalformed)
	}
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitMalformed)
	}
}

func init() {
	compareCmd.Flags().StringArrayVar(&entryFlags, "entry", nil,
		"additional entry-label pair LEFT:RIGHT (repeatable)")
	compareCmd.Flags().BoolVar(&jsonOutput, "json", false,
		"emit the result as JSON")
	rootCmd.AddCommand(compareCmd)
}
