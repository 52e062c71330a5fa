//go:build mage

// Package main contains Mage build targets for gdoc-down developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "gdoc-down"
	cmdPkg  = "./cmd/gdoc-down"
)

// Default target when mage runs without arguments.
var Default = Build

// Build compiles the CLI binary into bin/, stamping the version from git.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + gitVersion()
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Test runs the unit tests after vet.
func Test() error {
	mg.Deps(Vet)
	return sh.RunV("go", "test", "-race", "-count=1", "./...")
}

// Cover writes coverage.out and prints per-function coverage.
func Cover() error {
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// Clean removes build output and coverage files.
func Clean() error {
	for _, p := range []string{binDir, "coverage.out"} {
		if err := sh.Rm(p); err != nil {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}
	return nil
}

// Stats prints Go production and test line counts per package.
func Stats() error {
	counts := map[string][2]int{}
	err := filepath.WalkDir(".", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			return err
		}
		c := counts[filepath.Dir(path)]
		if strings.HasSuffix(path, "_test.go") {
			c[1] += n
		} else {
			c[0] += n
		}
		counts[filepath.Dir(path)] = c
		return nil
	})
	if err != nil {
		return err
	}

	dirs := make([]string, 0, len(counts))
	for dir := range counts {
		dirs = append(dirs, dir)
	}
	slices.Sort(dirs)

	var prod, test int
	for _, dir := range dirs {
		c := counts[dir]
		fmt.Printf("%-24s %6d prod %6d test\n", dir, c[0], c[1])
		prod += c[0]
		test += c[1]
	}
	fmt.Printf("%-24s %6d prod %6d test\n", "total", prod, test)
	return nil
}

// countLines counts non-blank lines in a file.
func countLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n, sc.Err()
}

func gitVersion() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || v == "" {
		return "dev"
	}
	return v
}
