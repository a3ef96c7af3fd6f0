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
	"github.com/c64bridge/c64bridge-mcp/internal/scheduler"
	"github.com/c64bridge/c64bridge-mcp/internal/toolkit"
)

// Catalog returns every tool module the server registers. sched and
// tasksHome are the two pieces of process-wide state a handful of
// modules close over rather than reaching through ExecContext, since
// they outlive any single request.
func Catalog(sched *scheduler.Scheduler, tasksHome string) []toolkit.Module {
	return []toolkit.Module{
		MachineModule(),
		MemoryModule(),
		ProgramsModule(),
		DrivesModule(),
		StreamsModule(),
		ConfigsModule(),
		FilesModule(),
		MetaModule(),
		BackgroundTasksModule(sched),
		FilesystemModule(tasksHome),
	}
}

// Register installs every module in the catalog into r.
func Register(r *toolkit.Registry, sched *scheduler.Scheduler, tasksHome string) {
	for _, m := range Catalog(sched, tasksHome) {
		r.RegisterModule(m)
	}
}
