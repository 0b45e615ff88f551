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


package data

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolver maps a benchmark identifier to a readable file
type Resolver interface {
	Resolve(name string) (string, error)
}

// DirResolver looks up benchmarks as `<Dir>/<NAME>.csv`. A name that is
// already a path to an existing file is returned unchanged.
type DirResolver struct {
	Dir string
}

func NewDirResolver(dir string) *DirResolver {
	return &DirResolver{Dir: dir}
}

func (resolver *DirResolver) Resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNotFound
	}

	if isFile(name) {
		return name, nil
	}

	candidates := []string{
		filepath.Join(resolver.Dir, strings.ToUpper(name)+".csv"),
		filepath.Join(resolver.Dir, name+".csv"),
	}

	for _, fn := range candidates {
		if isFile(fn) {
			return fn, nil
		}
	}

	return "", fmt.Errorf("%s in %s: %w", name, resolver.Dir, ErrNotFound)
}

func isFile(fn string) bool {
	info, err := os.Stat(fn)
	return err == nil && !info.IsDir()
}
