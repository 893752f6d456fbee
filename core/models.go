package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"sort"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for archived records.
// It is generated from task identity using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DefaultLanguages is the set of language codes recognized when no explicit
// set is configured.
var DefaultLanguages = []string{"en", "cn"}

// PromptItem is one content item in a batch: an identifier plus the prompt
// text in one or more languages. Items are immutable once loaded.
type PromptItem struct {
	ID          string
	Category    string
	Description string
	Texts       map[string]string // language code -> prompt text
}

// Text returns the prompt text for a language and whether it exists.
func (p *PromptItem) Text(lang string) (string, bool) {
	text, ok := p.Texts[lang]
	return text, ok
}

// Languages returns the language codes this item carries, sorted.
func (p *PromptItem) Languages() []string {
	langs := make([]string, 0, len(p.Texts))
	for lang := range p.Texts {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// ServiceTarget identifies one remote text-generation service.
// Name is the human-readable name used in results; Model is the opaque
// identifier passed on the wire.
type ServiceTarget struct {
	Name  string
	Model string
}

// Task is one concrete (prompt item, language, service) combination
// requiring exactly one remote call. Tasks exist only transiently during
// batch expansion; they are never persisted.
type Task struct {
	Index    int // position in expansion order
	PromptID string
	Language string
	Service  string
	Model    string
	Prompt   string
}

// Key returns the task's identity as a string, stable across runs.
func (t *Task) Key() string {
	return t.PromptID + "|" + t.Language + "|" + t.Service
}

// ArchiveID returns the content-addressed ID used to key this task's
// outcome in the attempt archive.
func (t *Task) ArchiveID() ID {
	return IDFromContent(t.Key())
}

// Outcome records the result of executing one Task. Exactly one Outcome is
// produced per expanded task, and it is never mutated after creation.
type Outcome struct {
	PromptID  string    `json:"prompt_id"`
	Service   string    `json:"service"`
	Language  string    `json:"language"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
}

// ArchiveID returns the content-addressed ID keying this outcome in the
// attempt archive. It matches the ArchiveID of the originating task.
func (o *Outcome) ArchiveID() ID {
	return IDFromContent(o.PromptID + "|" + o.Language + "|" + o.Service)
}

// FailureRecord is the persisted projection of a failed Outcome plus the
// originating prompt text. Records are written to the failure journal
// immediately, not batched, so failures survive a crash mid-batch.
type FailureRecord struct {
	Timestamp time.Time `json:"timestamp"`
	ContentID string    `json:"content_id"`
	Service   string    `json:"service_name"`
	Language  string    `json:"language"`
	Prompt    string    `json:"prompt"`
	Error     string    `json:"error"`
}
