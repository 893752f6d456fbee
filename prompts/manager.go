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


package prompts

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/poiesic/probatch/core"
	"gopkg.in/yaml.v3"
)

// descriptionKey is the one non-language key allowed in a prompt entry.
const descriptionKey = "description"

// promptFile mirrors the on-disk YAML layout:
//
//	version: v2
//	description: ...
//	prompts:
//	  Factual:
//	    A1:
//	      en: "What are the Dai people?"
//	      cn: "傣族是什么？"
//	      description: "Basic factual knowledge"
type promptFile struct {
	Version     string                                  `yaml:"version"`
	Description string                                  `yaml:"description"`
	Prompts     map[string]map[string]map[string]string `yaml:"prompts"`
}

// Manager loads and serves versioned prompt configurations.
// Unknown language codes are rejected at load time; items are immutable
// and returned in a deterministic order (categories sorted, then IDs).
type Manager struct {
	version string
	path    string
	items   []*core.PromptItem
	byID    map[string]*core.PromptItem
	logger  *slog.Logger
}

// NewManager loads prompts from a YAML file.
// recognized is the set of language codes accepted in prompt entries;
// an empty set falls back to core.DefaultLanguages.
func NewManager(path string, recognized []string) (*Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", path, err)
	}

	var file promptFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", path, err)
	}

	m := &Manager{
		version: file.Version,
		path:    path,
		byID:    make(map[string]*core.PromptItem),
		logger:  slog.Default().With("component", "prompt-manager"),
	}

	categories := make([]string, 0, len(file.Prompts))
	for category := range file.Prompts {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		entries := file.Prompts[category]

		ids := make([]string, 0, len(entries))
		for id := range entries {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			entry := entries[id]

			item := &core.PromptItem{
				ID:       id,
				Category: category,
				Texts:    make(map[string]string, len(entry)),
			}
			for key, text := range entry {
				if key == descriptionKey {
					item.Description = text
					continue
				}
				item.Texts[key] = text
			}

			if err := core.ValidatePromptItem(item, recognized); err != nil {
				return nil, fmt.Errorf("prompt file %s: %w", path, err)
			}
			if _, exists := m.byID[id]; exists {
				return nil, fmt.Errorf("prompt file %s: duplicate prompt ID %q", path, id)
			}

			m.items = append(m.items, item)
			m.byID[id] = item
		}
	}

	m.logger.Info("loaded prompts", "count", len(m.items), "version", m.version, "file", path)
	return m, nil
}

// Version returns the version string declared in the prompt file.
func (m *Manager) Version() string {
	return m.version
}

// Items returns all prompt items in load order.
func (m *Manager) Items() []*core.PromptItem {
	return m.items
}

// Item returns the prompt item with the given ID, or nil if absent.
func (m *Manager) Item(id string) *core.PromptItem {
	return m.byID[id]
}

// Subset returns the items matching the requested IDs, preserving load
// order, plus the IDs that matched nothing.
func (m *Manager) Subset(ids []string) ([]*core.PromptItem, []string) {
	requested := make(map[string]bool, len(ids))
	for _, id := range ids {
		requested[id] = true
	}

	var selected []*core.PromptItem
	for _, item := range m.items {
		if requested[item.ID] {
			selected = append(selected, item)
			delete(requested, item.ID)
		}
	}

	missing := make([]string, 0, len(requested))
	for _, id := range ids {
		if requested[id] {
			missing = append(missing, id)
		}
	}

	return selected, missing
}

// IDs returns all prompt IDs in load order.
func (m *Manager) IDs() []string {
	ids := make([]string, len(m.items))
	for i, item := range m.items {
		ids[i] = item.ID
	}
	return ids
}

// Categories returns the distinct categories in load order.
func (m *Manager) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, item := range m.items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	return categories
}

// CategoryCounts returns the number of prompts per category.
func (m *Manager) CategoryCounts() map[string]int {
	counts := make(map[string]int)
	for _, item := range m.items {
		counts[item.Category]++
	}
	return counts
}
