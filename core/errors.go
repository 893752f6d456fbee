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
	"errors"
	"fmt"
)

// Domain validation errors
var (
	// ErrInvalidPromptItem indicates a PromptItem failed validation.
	ErrInvalidPromptItem = errors.New("invalid prompt item")

	// ErrInvalidServiceTarget indicates a ServiceTarget failed validation.
	ErrInvalidServiceTarget = errors.New("invalid service target")

	// ErrEmptyPromptID indicates the prompt item ID field is empty.
	ErrEmptyPromptID = errors.New("prompt ID cannot be empty")

	// ErrNoPromptTexts indicates a prompt item carries no language variants.
	ErrNoPromptTexts = errors.New("prompt item must have at least one language text")

	// ErrEmptyServiceName indicates the service Name field is empty.
	ErrEmptyServiceName = errors.New("service name cannot be empty")

	// ErrEmptyServiceModel indicates the service Model field is empty.
	ErrEmptyServiceModel = errors.New("service model cannot be empty")

	// ErrUnknownLanguage indicates a language code outside the recognized set.
	ErrUnknownLanguage = errors.New("unknown language code")

	// ErrEmptyResponse indicates the remote service returned no usable text.
	ErrEmptyResponse = errors.New("empty response from service")
)

// RemoteCallError classifies a failed remote generation attempt: transport
// failure, non-success status, or malformed response body. It is the only
// error kind the retry governor will retry.
type RemoteCallError struct {
	Service string
	Err     error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("remote call to %s failed: %v", e.Service, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// IsRemoteCall reports whether err is, or wraps, a RemoteCallError.
func IsRemoteCall(err error) bool {
	var rce *RemoteCallError
	return errors.As(err, &rce)
}

// ConfigurationError indicates a fatal configuration problem: an unknown
// service name, an unsupported output format, or a missing credential.
// It aborts the run before any tasks execute and is never retried.
type ConfigurationError struct {
	Detail string
}

// NewConfigurationError creates a ConfigurationError with a formatted detail.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Detail: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Detail
}

// IsConfiguration reports whether err is, or wraps, a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
