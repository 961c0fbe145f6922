// Copyright 2025 walteh LLC
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

/*
Package operation implements the materialization of a source tree into a
generated output directory.

	+-----------+     +-----------+     +-----------+
	|  walker   | --> |   plan    | --> |   write   |
	| (sources) |     | (policy + |     | (output)  |
	+-----------+     |  replace) |     +-----------+
	                  +-----------+

🎯 Purpose:
- Mirror every source root into one output directory
- Rewrite literal tokens on the way through
- Leave source files untouched

🔄 Flow of a pass:
1. No rules: return without touching the output directory
2. Remove and recreate the output directory
3. For every walked file compute its destination, drop it when the path
   policy disables it, otherwise write the replaced text (when any rule
   applied) or copy the original bytes
4. Any read or write error aborts the whole pass

A pass shares nothing mutable with other passes: it reads a frozen
rules.Snapshot and writes only below its own output directory, so passes
for different output directories may run in parallel.

🔍 Example:

	m := operation.New(operation.Options{Fs: afero.NewOsFs()})
	summary, err := m.Run(ctx, operation.Pass{
		Name:      "bloomReplaceJava",
		Source:    &walker.SourceRoot{Dirs: []string{"src/main/java"}},
		Rules:     ruleSet.Freeze(projectDir),
		OutputDir: "build/bloom/main/java",
	})
*/
package operation
