// Copyright 2026 The C64 Bridge Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tools

import (
	"context"

	"github.com/c64bridge/c64bridge-mcp/internal/fssearch"
	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
)

// FilesystemModule exposes pattern-based path discovery and
// run-by-name as two standalone tools. tasksHome is the directory
// find-and-run-program-by-name persists its recent-search state under.
func FilesystemModule(tasksHome string) toolkit.Module {
	findPathsSchema := toolkit.Object(map[string]*toolkit.Schema{
		"root":       toolkit.String("directory to search under"),
		"pattern":    toolkit.String("substring or glob pattern to match against paths"),
		"extensions": toolkit.Array("extension allow-list, without leading dots", toolkit.String("")),
		"maxResults": toolkit.Number("cap on the number of matches returned", toolkit.WithMin(1)),
	}, []string{"root"})

	findAndRunSchema := toolkit.Object(map[string]*toolkit.Schema{
		"root":       toolkit.String("directory to search under"),
		"pattern":    toolkit.String("substring or glob pattern to match against paths"),
		"extensions": toolkit.Array("extension priority order, default [prg, crt]", toolkit.String("")),
		"sort":       toolkit.String("match ordering within an extension group", toolkit.WithEnum("firmware", "alphabetical")),
	}, []string{"root", "pattern"})

	return toolkit.Module{
		Name: "filesystem",
		Tools: []*toolkit.ToolDescriptor{
			{
				Name:        "find-paths-by-name",
				Description: "Search the device filesystem for paths matching a substring or glob pattern, optionally filtered by extension.",
				Schema:      findPathsSchema,
				Handler: func(ctx context.Context, ec *toolkit.ExecContext, rawArgs any) (*toolkit.Result, error) {
					args, _ := rawArgs.(map[string]any)
					paths, err := fssearch.FindPaths(ctx, ec.Backend, fssearch.FindPathsInput{
						Root:       argStringDefault(args, "root", ""),
						Pattern:    argStringDefault(args, "pattern", ""),
						Extensions: argStringSlice(args, "extensions"),
						MaxResults: argInt(args, "maxResults", 0),
					})
					if err != nil {
						return nil, err
					}
					return toolkit.Text("found matching paths").WithStructured(paths), nil
				},
			},
			{
				Name:        "find-and-run-program-by-name",
				Description: "Search for the best-matching PRG or CRT under root and run it, remembering the search in the recent-search state file.",
				Schema:      findAndRunSchema,
				Handler: func(ctx context.Context, ec *toolkit.ExecContext, rawArgs any) (*toolkit.Result, error) {
					args, _ := rawArgs.(map[string]any)
					var sortOrder fssearch.SortOrder
					if s, ok := argString(args, "sort"); ok {
						sortOrder = fssearch.SortOrder(s)
					}
					out, err := fssearch.FindAndRun(ctx, ec.Backend, fssearch.FindAndRunInput{
						Root:       argStringDefault(args, "root", ""),
						Pattern:    argStringDefault(args, "pattern", ""),
						Extensions: argStringSlice(args, "extensions"),
						Sort:       sortOrder,
						TasksHome:  tasksHome,
					})
					if err != nil {
						return nil, err
					}
					return toolkit.Text("ran " + out.Path).WithStructured(out), nil
				},
			},
		},
	}
}
