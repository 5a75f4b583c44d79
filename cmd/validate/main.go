// SPDX-License-Identifier: MIT

// validate is a CLI tool to validate a tree of digitized campus
// publications.
//
// Usage:
//
//	validate --root /data --chunk mvol-0001
//	validate            (root and chunk derived from the working directory)
//
// Exit codes:
//   - 0: All scanned directories are valid
//   - 1: Findings were reported (or the scan failed)
//   - 2: Usage error (root/chunk could not be determined)
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/campuslib/mvol-validate/internal/config"
	"github.com/campuslib/mvol-validate/internal/jobs"
	"github.com/campuslib/mvol-validate/internal/mvol"
	"github.com/campuslib/mvol-validate/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		root        string
		chunk       string
		configFile  string
		reportPath  string
		jobCount    int
		showVersion bool
	)
	fs.StringVar(&root, "root", "", "data root containing the mvol directory")
	fs.StringVar(&chunk, "chunk", "", "identifier chunk to validate (e.g. mvol-0001)")
	fs.StringVar(&configFile, "f", "", "path to YAML configuration file")
	fs.StringVar(&reportPath, "report", "", "write a JSON report to this path")
	fs.IntVar(&jobCount, "jobs", 0, "concurrent directory validations (default from config)")
	fs.BoolVar(&showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if showVersion {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	cfg, err := config.NewLoader(configFile).Load()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error:\n  %v\n", err)
		return 1
	}
	if root != "" {
		cfg.Root = root
	}
	if chunk != "" {
		cfg.Chunk = chunk
	}
	if jobCount > 0 {
		cfg.Jobs = jobCount
	}

	// When run inside a publication tree without flags, derive root and
	// chunk from the working directory.
	if cfg.Root == "" {
		if autoRoot, autoChunk, err := mvol.FromWorkingDirectory(); err == nil {
			cfg.Root = autoRoot
			if chunk == "" {
				cfg.Chunk = autoChunk.String()
			}
		}
	}

	if cfg.Root == "" {
		fmt.Fprintln(stderr, "Was not able to determine root or mvol chunk.")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  validate --root /data --chunk mvol-0001")
		fmt.Fprintln(stderr, "  validate   (inside a publication tree)")
		return 2
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "Validation error:\n  %v\n", err)
		return 1
	}

	parsed, err := mvol.ParseChunk(cfg.Chunk)
	if err != nil {
		fmt.Fprintf(stderr, "Validation error:\n  %v\n", err)
		return 1
	}

	report, err := jobs.Scan(context.Background(), jobs.Options{
		Root:  cfg.Root,
		Chunk: parsed,
		Jobs:  cfg.Jobs,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Scan error:\n  %v\n", err)
		return 1
	}

	if reportPath != "" {
		if err := jobs.WriteReport(context.Background(), reportPath, report); err != nil {
			fmt.Fprintf(stderr, "Report error:\n  %v\n", err)
			return 1
		}
	}

	if len(report.Findings) > 0 {
		for _, f := range report.Findings {
			fmt.Fprintln(stdout, f.Error())
		}
		fmt.Fprintf(stdout, "%d findings in %d directories\n", len(report.Findings), report.Directories)
		return 1
	}

	fmt.Fprintf(stdout, "✓ %d directories under %s/%s are valid\n",
		report.Directories, cfg.Root, parsed)
	return 0
}
