//go:build mage

// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/magefile/mage/mg" // mg contains helpful utility functions, like Deps
	"github.com/magefile/mage/sh"
)

const (
	binaryName    = "pvstats"
	packageName   = "."
	modulePath    = "github.com/penny-vault/pvstats"
	coverAllFile  = "coverage-all.out"
	coverPkgFile  = "coverage.out"
	dateStampForm = "2006-01-02T15:04:05Z0700"
)

var ldflags = "-X " + modulePath + "/common.commitHash=$COMMIT_HASH -X " + modulePath + "/common.buildDate=$BUILD_DATE"

// allow user to override go executable by running as GOEXE=xxx mage ... on unix-like systems
var goexe = "go"

func init() {
	if exe := os.Getenv("GOEXE"); exe != "" {
		goexe = exe
	}
}

// Build the pvstats binary stamped with the git commit and build date
func Build() error {
	fmt.Println("Building...")
	return runWith(flagEnv(), goexe, "build", "-o", binaryName, "-ldflags", ldflags, buildFlags(), "-v", packageName)
}

func Install() error {
	return runWith(flagEnv(), goexe, "install", "-ldflags", ldflags, buildFlags(), packageName)
}

// Clean up
func Clean() {
	fmt.Println("Cleaning...")
	for _, fn := range []string{binaryName, coverAllFile, coverPkgFile} {
		os.RemoveAll(fn)
	}
}

// Run tests and linters
func Check() {
	mg.Deps(Fmt, Vet)
	mg.Deps(TestRace)
}

// Run tests
func Test() error {
	fmt.Println("Go Test")
	return runCmd(nil, goexe, "test", "./...", buildFlags())
}

// Run tests with race detector; the report package evaluates columns concurrently
func TestRace() error {
	fmt.Println("Go Test Race")
	return runCmd(nil, goexe, "test", "-race", "./...", buildFlags())
}

// Run gofmt linter
func Fmt() error {
	fmt.Println("Go Format")

	dirs, err := packageDirs()
	if err != nil {
		return err
	}

	// gofmt doesn't exit with non-zero when it finds unformatted code
	out, err := sh.Output("gofmt", append([]string{"-l"}, dirs...)...)
	if err != nil {
		return fmt.Errorf("running gofmt: %w", err)
	}
	if out != "" {
		fmt.Println("The following files are not gofmt'ed:")
		fmt.Println(out)
		return errors.New("improperly formatted go files")
	}
	return nil
}

// Run go vet linter
func Vet() error {
	fmt.Println("Go Vet")

	if err := sh.Run(goexe, "vet", "./..."); err != nil {
		return fmt.Errorf("error running go vet: %v", err)
	}
	return nil
}

// Generate test coverage report
func TestCoverHTML() error {
	fmt.Println("Generate Test Coverage HTML")

	dirs, err := packageDirs()
	if err != nil {
		return err
	}

	all := bytes.NewBufferString("mode: count\n")
	for _, dir := range dirs {
		if err := sh.Run(goexe, "test", "-coverprofile="+coverPkgFile, "-covermode=count", dir); err != nil {
			return err
		}
		b, err := os.ReadFile(coverPkgFile)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		// drop the per-package mode line
		if idx := bytes.IndexByte(b, '\n'); idx >= 0 {
			all.Write(b[idx+1:])
		}
	}

	if err := os.WriteFile(coverAllFile, all.Bytes(), 0600); err != nil {
		return err
	}
	return sh.Run(goexe, "tool", "cover", "-html="+coverAllFile)
}

// Helpers

func buildFlags() []string {
	if runtime.GOOS == "windows" {
		return []string{"-buildmode", "exe"}
	}
	return nil
}

func flagEnv() map[string]string {
	hash, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	return map[string]string{
		"COMMIT_HASH": hash,
		"BUILD_DATE":  time.Now().Format(dateStampForm),
	}
}

func runCmd(env map[string]string, cmd string, args ...interface{}) error {
	if mg.Verbose() {
		return runWith(env, cmd, args...)
	}
	output, err := sh.OutputWith(env, cmd, argsToStrings(args...)...)
	if err != nil {
		fmt.Fprint(os.Stderr, output)
	}

	return err
}

func runWith(env map[string]string, cmd string, inArgs ...interface{}) error {
	return sh.RunWith(env, cmd, argsToStrings(inArgs...)...)
}

// packageDirs lists the module's packages as relative directories
func packageDirs() ([]string, error) {
	s, err := sh.Output(goexe, "list", "./...")
	if err != nil {
		return nil, err
	}

	pkgs := strings.Split(s, "\n")
	dirs := make([]string, 0, len(pkgs))
	for _, pkg := range pkgs {
		if pkg == "" {
			continue
		}
		dirs = append(dirs, "."+strings.TrimPrefix(pkg, modulePath))
	}
	return dirs, nil
}

func argsToStrings(v ...interface{}) []string {
	var args []string
	for _, arg := range v {
		switch v := arg.(type) {
		case string:
			if v != "" {
				args = append(args, v)
			}
		case []string:
			args = append(args, v...)
		default:
			panic("invalid type")
		}
	}

	return args
}
