// Package extract reduces source files to their declared interfaces: signatures
// and docstrings are kept, implementation bodies are stripped.
package extract

import (
	"errors"

	"github.com/bes-dev/repo2prompt/internal/language"
)

// ErrUnparsableSource indicates the source text could not be parsed into a syntax
// tree. Callers are expected to fall back to the full file content.
var ErrUnparsableSource = errors.New("source failed to parse")

// Extractor reduces one structured language to skeletal, syntactically valid source.
type Extractor interface {
	Extract(source []byte) (string, error)
}

// extractors is the fixed registry of languages with interface extraction support.
var extractors = map[string]Extractor{
	language.TagPython: newPythonExtractor(),
}

// ForLanguage returns the extractor registered for the given language tag.
// Unknown tags report false and the caller keeps the full file content.
func ForLanguage(languageTag string) (Extractor, bool) {
	registeredExtractor, isRegistered := extractors[languageTag]
	return registeredExtractor, isRegistered
}
