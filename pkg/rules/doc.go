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
Package rules holds the declarative replacement state of a build.

	+-----------+   Freeze(baseDir)   +----------+
	|  RuleSet  | ------------------> | Snapshot |
	| (mutable) |                     | (frozen) |
	+-----------+                     +----+-----+
	                                       |
	                         IsEnabled / RulesFor per file

A RuleSet is assembled while configuration is read. A pass never sees it
directly: it receives a Snapshot, so calls made after Freeze never leak into
an in-flight pass.

Path policy, for a canonical destination path p:

	enabled(p) = p not in disabled && (p in allowed || !globallyDisabled)
*/
package rules
