package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kubetidy/kubetidy/internal/document"
	"github.com/kubetidy/kubetidy/internal/engine"
)

// collectFiles expands the command arguments into a sorted list of
// manifest files. Directories are walked recursively for .yaml and .yml
// files; hidden directories are skipped.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if name := d.Name(); strings.HasPrefix(name, ".") && path != arg {
					return filepath.SkipDir
				}
				return nil
			}
			if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", arg, err)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no manifest files found in %s", strings.Join(args, ", "))
	}
	sort.Strings(files)
	return files, nil
}

// loadFiles reads and parses every file. Parse failures do not abort the
// run: unparseable documents are reported and the rest proceed.
func loadFiles(eng *engine.Engine, files []string) ([]*document.Document, []*document.ParseError, error) {
	var docs []*document.Document
	var parseErrs []*document.ParseError
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		loaded, errs := eng.Load(string(data), f)
		docs = append(docs, loaded...)
		parseErrs = append(parseErrs, errs...)
	}
	return docs, parseErrs, nil
}

// reportParseErrors prints parse failures to stderr.
func reportParseErrors(errs []*document.ParseError) {
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", e)
	}
}
