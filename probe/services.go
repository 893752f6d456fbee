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


package probe

import "github.com/poiesic/probatch/core"

// DefaultServices maps human-readable service names to the model
// identifiers used on the wire.
var DefaultServices = map[string]string{
	"Llama-3.3-70B":     "meta-llama/llama-3.3-70b-instruct",
	"Qwen-2.5-72B":      "qwen/qwen-2.5-72b-instruct",
	"GPT-4o":            "openai/gpt-4o",
	"Claude-3.5-Sonnet": "anthropic/claude-3.5-sonnet",
}

// ResolveServices resolves service names against a registry, preserving
// caller order. Unknown names are returned separately rather than failing
// here: the caller decides whether zero resolved services aborts the run.
// A nil registry falls back to DefaultServices.
func ResolveServices(names []string, registry map[string]string) ([]core.ServiceTarget, []string) {
	if registry == nil {
		registry = DefaultServices
	}

	var targets []core.ServiceTarget
	var unknown []string
	for _, name := range names {
		model, ok := registry[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		targets = append(targets, core.ServiceTarget{Name: name, Model: model})
	}

	return targets, unknown
}
