package commands

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/apimlint/apimlint/document"
	"github.com/bmatcuk/doublestar/v4"
)

// StdinIndicator is the conventional Unix indicator to read from stdin.
const StdinIndicator = "-"

// IsStdin returns true if the given path indicates stdin should be used.
func IsStdin(path string) bool {
	return path == StdinIndicator
}

// expandInputs resolves glob patterns to files in argument order. Arguments without matches are
// kept as given so that loading reports them as missing.
func expandInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		if IsStdin(arg) {
			if !slices.Contains(files, arg) {
				files = append(files, arg)
			}
			continue
		}
		if !doublestar.ValidatePathPattern(arg) {
			return nil, fmt.Errorf("invalid file pattern %q", arg)
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to expand %q: %w", arg, err)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}
		for _, m := range matches {
			if !slices.Contains(files, m) {
				files = append(files, m)
			}
		}
	}
	return files, nil
}

// loadInputs loads files concurrently, reading "-" from stdin.
func loadInputs(ctx context.Context, files []string, stdin io.Reader) ([]*document.Document, error) {
	var paths []string
	fromStdin := false
	for _, f := range files {
		if IsStdin(f) {
			fromStdin = true
			continue
		}
		paths = append(paths, f)
	}

	docs, err := document.LoadFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	if fromStdin {
		doc, err := document.Load(ctx, stdin, "stdin")
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
