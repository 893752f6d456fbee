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

import (
	"fmt"

	"github.com/poiesic/probatch/core"
)

// ExpansionWarning is surfaced when a prompt item lacks a requested
// language variant. The (item, language) pair contributes zero tasks for
// all services; the warning is informational, never fatal.
type ExpansionWarning struct {
	PromptID string
	Language string
}

func (w ExpansionWarning) String() string {
	return fmt.Sprintf("prompt %s has no %q variant, skipping", w.PromptID, w.Language)
}

// ExpandTasks materializes the cross-product of prompt items, requested
// languages, and service targets into an ordered task sequence.
//
// Ordering is deterministic: items in load order, then languages in
// caller-specified order, then services in caller-specified order. Task
// indices run sequentially over the result, so the expanded count equals
// the final task's index plus one.
func ExpandTasks(items []*core.PromptItem, languages []string, services []core.ServiceTarget) ([]core.Task, []ExpansionWarning) {
	var tasks []core.Task
	var warnings []ExpansionWarning

	for _, item := range items {
		for _, lang := range languages {
			text, ok := item.Text(lang)
			if !ok {
				warnings = append(warnings, ExpansionWarning{PromptID: item.ID, Language: lang})
				continue
			}

			for _, service := range services {
				tasks = append(tasks, core.Task{
					Index:    len(tasks),
					PromptID: item.ID,
					Language: lang,
					Service:  service.Name,
					Model:    service.Model,
					Prompt:   text,
				})
			}
		}
	}

	return tasks, warnings
}
