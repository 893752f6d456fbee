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


// Package storage provides the storage abstraction layer for probatch.
//
// This package defines the attempt archive interface that decouples
// persistence from the dispatch engine. It allows different storage
// backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public constructors in backend packages return the storage interface
// rather than a concrete type:
//
//	archive, err := badger.NewArchive(path)  // returns storage.AttemptArchive
//
// This keeps the engine decoupled from BadgerDB specifics and lets tests
// substitute in-memory implementations without modification.
//
// # Usage
//
// Create an archive instance:
//
//	archive, err := badger.NewArchive("/path/to/db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer archive.Close()
//
// Use in tests with in-memory storage:
//
//	archive, err := badger.NewMemoryArchive()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer archive.Close()
//
// # Thread Safety
//
// All archive implementations must be thread-safe and support concurrent
// access from multiple goroutines.
//
// # Context Support
//
// All archive methods accept context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific
// timeout requirements.
package storage
