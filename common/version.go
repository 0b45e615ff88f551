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


package common

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

const ProgramName = "pvstats"

var (
	// commitHash contains the current Git revision.
	// Use mage to build to make sure this gets set.
	commitHash string

	// buildDate contains the date of the current build.
	buildDate string
)

type Version struct {
	// Increment this for backwards incompatible changes
	Major int

	// Increment this for feature releases
	Minor int

	// Increment this for bug releases
	Patch int

	// Suffix is blank for release builds
	Suffix string
}

func (v Version) String() string {
	version := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Suffix == "" {
		return version
	}

	version += "-" + v.Suffix
	if commitHash != "" {
		version += "+" + strings.ToLower(commitHash)
	}
	return version
}

// BuildInfo describes the running binary
type BuildInfo struct {
	Program      string   `json:"program"`
	Version      string   `json:"version"`
	Platform     string   `json:"platform"`
	GoVersion    string   `json:"goVersion"`
	BuildDate    string   `json:"buildDate"`
	Commit       string   `json:"commit"`
	Dependencies []string `json:"dependencies,omitempty"`
}

func (info *BuildInfo) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Program", info.Program)
	e.Str("Version", info.Version)
	e.Str("Platform", info.Platform)
	e.Str("Commit", info.Commit)
}

func (info *BuildInfo) String() string {
	out := fmt.Sprintf("%s v%s %s\n\nBuild Date: %s\nCommit: %s\nBuilt with: %s",
		info.Program, info.Version, info.Platform, info.BuildDate, info.Commit, info.GoVersion)

	if len(info.Dependencies) > 0 {
		out += "\n\nDependencies:\n\n" + strings.Join(info.Dependencies, "\n")
	}

	return out
}

// GetBuildInfo collects version details, optionally with the module list
func GetBuildInfo(withDeps bool) *BuildInfo {
	info := &BuildInfo{
		Program:   ProgramName,
		Version:   CurrentVersion.String(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		GoVersion: runtime.Version(),
		BuildDate: buildDate,
		Commit:    commitHash,
	}

	if info.BuildDate == "" {
		info.BuildDate = "unknown"
	}

	if withDeps {
		info.Dependencies = dependencyList()
	}

	return info
}

// dependencyList returns sorted `path="version"` pairs
func dependencyList() []string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}

	deps := make([]string, 0, len(bi.Deps))
	for _, dep := range bi.Deps {
		deps = append(deps, fmt.Sprintf("%s=%q", dep.Path, dep.Version))
	}

	sort.Strings(deps)
	return deps
}
