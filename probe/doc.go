// Copyright 2025 Poiesic Systems
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


// Package probe implements the batch dispatch and resilience engine.
//
// A batch is the cross-product of prompt items, requested languages, and
// service targets. The engine expands that product into an ordered task
// sequence, drives each task through a rate-limited, retry-governed remote
// call, and records exactly one outcome per task. Individual task failures
// never abort the batch: failed tasks are journaled immediately and the
// batch proceeds, so a run always yields a result row for every expanded
// task.
//
// Control flow per task:
//
//	expander -> coordinator -> (rate limiter -> retry governor -> generator)
//	         -> outcome recorded -> failure journal (on failure)
//	         -> result sink (at batch end)
package probe
