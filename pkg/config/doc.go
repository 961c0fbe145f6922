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
Package config loads the bloom project file.

	.bloom.yaml / .bloom.hcl
	        │
	        ▼
	┌──────────────┐   parser registry   ┌──────────────┐
	│    LoadFs    │ ──────────────────▶ │ YAML │ HCL   │
	└──────┬───────┘                     └──────────────┘
	       │ Validate (defaults, checks)
	       ▼
	┌──────────────┐  RuleSetFor(set)   ┌──────────────┐
	│    Config    │ ─────────────────▶ │ rules.RuleSet│
	└──────────────┘                    └──────────────┘

🎯 Purpose:
- Describes the project, its source sets and their languages
- Carries the declarative replacement rules of every source set
- Resolves relative paths against the directory holding the file

🔄 Flow:
1. LoadFs picks a parser by file extension
2. The parser decodes into Config
3. Validate fills defaults and rejects broken input
4. RuleSetFor builds the mutable RuleSet of one source set

📝 Rule sets:
The main source set always uses the project-level replacements block.
Other source sets use their own block, prefixed by the project-level
rules when inherit is set. Allowed paths are applied before disabled
paths, so a path listed in both ends up disabled.

🔍 Example:

	cfg, err := config.Load(ctx, ".bloom.yaml")
	if err != nil {
		return err
	}
	rs := cfg.RuleSetFor(config.MainSourceSet)
	snapshot := rs.Freeze(cfg.BaseDir())
*/
package config
