//go:build mage

// Build targets for trackmy.
//
//	mage build     Compile trackmy to bin/
//	mage test      Run all tests
//	mage cover     Run tests with a coverage profile
//	mage lint      Run golangci-lint
//	mage install   Install trackmy to GOPATH/bin
//	mage clean     Remove build artifacts
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName   = "trackmy"
	binaryDir    = "bin"
	cmdDir       = "./cmd/trackmy"
	coverProfile = "coverage.out"
)

var Default = Build

// Build compiles the trackmy binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		return sh.RunV("go", "build", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
	}
	ldflags := fmt.Sprintf("-X github.com/julianstephens/trackmy/internal/constants.Version=%s", version)
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Cover runs all tests and writes coverage.out.
func Cover() error {
	if err := sh.RunV("go", "test", "-coverprofile="+coverProfile, "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func="+coverProfile)
}

// Lint runs go vet and golangci-lint.
func Lint() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), filepath.Join(binaryDir, binaryName))
}

// Clean removes build artifacts.
func Clean() error {
	for _, path := range []string{binaryDir, coverProfile} {
		if err := os.RemoveAll(path); err != nil {
			return err
		}
	}
	return sh.RunV("go", "clean")
}
