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


// Package ai defines the text-generation service contract used by the
// dispatch engine.
//
// The engine is agnostic to what the remote call does with its input and
// output: a Generator takes prompt text in and returns response text out,
// and everything else (authentication, wire format, attribution headers)
// is an implementation detail of the concrete provider.
//
// Two implementations ship with this module:
//
//   - ai/openai: OpenAI-compatible chat APIs (OpenRouter, Ollama, vLLM)
//   - ai/mock: scripted test double with call counting
//
// Configuration uses functional options:
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("https://openrouter.ai/api/v1"),
//	    ai.WithAPIKey(os.Getenv("OPENROUTER_API_KEY")),
//	)
package ai
