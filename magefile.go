//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Default target - build everything.
var Default = Build

// Build compiles the module and the tuisnap CLI.
func Build() error {
	if err := sh.Run("go", "build", "./..."); err != nil {
		return err
	}
	return sh.Run("go", "build", "-o", "bin/tuisnap", "./cmd/tuisnap")
}

// Test runs the test suite.
func Test() error {
	return sh.Run("go", "test", "./...")
}

// Update reruns the suite in baseline-update mode, accepting every
// current capture as the new golden state. Review the diff before
// committing.
func Update() error {
	return sh.Run("go", "test", "./...", "-snapshot-update")
}

// Lint runs go vet and golangci-lint when available.
func Lint() error {
	if err := sh.Run("go", "vet", "./..."); err != nil {
		return err
	}
	if err := sh.Run("golangci-lint", "run", "./..."); err != nil {
		fmt.Println("golangci-lint unavailable or failing (install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@latest)")
		return err
	}
	return nil
}

// QA runs the full quality gate.
func QA() {
	mg.SerialDeps(Lint, Test)
}

// Clean removes build artifacts.
func Clean() error {
	return sh.Rm("bin")
}
