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


package core

import (
	"fmt"
	"slices"
)

// ValidatePromptItem validates a PromptItem according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - at least one language text must be present
//   - every language code must be in the recognized set
//
// Unknown language codes are rejected here, at load time, rather than
// silently skipped deep in the dispatch pipeline.
func ValidatePromptItem(item *PromptItem, recognized []string) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidPromptItem)
	}

	if item.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPromptItem, ErrEmptyPromptID)
	}

	if len(item.Texts) == 0 {
		return fmt.Errorf("%w: %w (item %s)", ErrInvalidPromptItem, ErrNoPromptTexts, item.ID)
	}

	for _, lang := range item.Languages() {
		if err := ValidateLanguage(lang, recognized); err != nil {
			return fmt.Errorf("%w: %w (item %s)", ErrInvalidPromptItem, err, item.ID)
		}
	}

	return nil
}

// ValidateServiceTarget validates a ServiceTarget according to domain rules.
func ValidateServiceTarget(target *ServiceTarget) error {
	if target == nil {
		return fmt.Errorf("%w: target is nil", ErrInvalidServiceTarget)
	}

	if target.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidServiceTarget, ErrEmptyServiceName)
	}

	if target.Model == "" {
		return fmt.Errorf("%w: %w (%s)", ErrInvalidServiceTarget, ErrEmptyServiceModel, target.Name)
	}

	return nil
}

// ValidateLanguage checks that a language code is in the recognized set.
// An empty recognized set falls back to DefaultLanguages.
func ValidateLanguage(lang string, recognized []string) error {
	if len(recognized) == 0 {
		recognized = DefaultLanguages
	}
	if !slices.Contains(recognized, lang) {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	return nil
}
