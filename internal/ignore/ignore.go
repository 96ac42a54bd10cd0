// Package ignore loads ignore files discovered along a directory tree and decides
// which relative paths are excluded from prompt generation.
package ignore

import (
	"bufio"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/bes-dev/repo2prompt/internal/utils"
)

const (
	// GitIgnoreFileName is the standard VCS ignore file.
	GitIgnoreFileName = ".gitignore"
	// DixieIgnoreFileName is the tool-specific ignore file recognized alongside .gitignore.
	DixieIgnoreFileName = ".dixieignore"

	negationPrefix       = "!"
	commentPrefix        = "#"
	pathSeparator        = "/"
	gitDirectoryPattern  = utils.GitDirectoryName + pathSeparator
	recursiveScopePrefix = "**/"
)

// serviceFileNames are ignore files themselves; they never appear in output.
var serviceFileNames = map[string]struct{}{
	GitIgnoreFileName:   {},
	DixieIgnoreFileName: {},
}

// Options controls which ignore conventions contribute patterns.
type Options struct {
	// UseGitignore enables .gitignore discovery.
	UseGitignore bool
	// UseDixieignore enables .dixieignore discovery.
	UseDixieignore bool
	// ExclusionPatterns are appended after all file patterns, so they take
	// precedence under last-match-wins evaluation.
	ExclusionPatterns []string
}

// DefaultOptions enables both ignore conventions with no extra exclusions.
func DefaultOptions() Options {
	return Options{UseGitignore: true, UseDixieignore: true}
}

// Spec is an immutable ordered rule set compiled from every discovered ignore file.
// Later rules override earlier ones and negation patterns reinstate excluded paths.
type Spec struct {
	matcher *gitignore.GitIgnore
}

// Load walks rootDirectory once and merges patterns from every recognized ignore
// file. Within a directory the .gitignore contribution precedes the .dixieignore
// contribution, so the tool-specific file overrides the standard one on conflict.
// Patterns found in nested directories are rescoped to that subtree. A missing or
// unreadable ignore file contributes nothing; Load never fails because of one.
func Load(rootDirectory string, options Options) (*Spec, error) {
	patternLines := []string{gitDirectoryPattern}

	walkError := filepath.WalkDir(rootDirectory, func(currentPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			return nil
		}
		if !directoryEntry.IsDir() {
			return nil
		}
		if directoryEntry.Name() == utils.GitDirectoryName {
			return filepath.SkipDir
		}

		relativeDirectory := utils.RelativePathOrSelf(currentPath, rootDirectory)
		if options.UseGitignore {
			patternLines = append(patternLines, scopedPatterns(filepath.Join(currentPath, GitIgnoreFileName), relativeDirectory)...)
		}
		if options.UseDixieignore {
			patternLines = append(patternLines, scopedPatterns(filepath.Join(currentPath, DixieIgnoreFileName), relativeDirectory)...)
		}
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}

	for _, exclusionPattern := range options.ExclusionPatterns {
		trimmedPattern := strings.TrimSpace(exclusionPattern)
		if trimmedPattern != "" {
			patternLines = append(patternLines, trimmedPattern)
		}
	}

	matcher := gitignore.CompileIgnoreLines(patternLines...)
	return &Spec{matcher: matcher}, nil
}

// Matches reports whether the path relative to the loaded root is excluded.
// Directories are additionally tested with a trailing slash so directory-only
// patterns apply to the directory entry itself.
func (spec *Spec) Matches(relativePath string, isDirectory bool) bool {
	if relativePath == "." || relativePath == "" {
		return false
	}
	normalizedPath := filepath.ToSlash(relativePath)
	if _, isServiceFile := serviceFileNames[path.Base(normalizedPath)]; isServiceFile {
		return true
	}
	if spec.matcher == nil {
		return false
	}
	if spec.matcher.MatchesPath(normalizedPath) {
		return true
	}
	if isDirectory && spec.matcher.MatchesPath(normalizedPath+pathSeparator) {
		return true
	}
	return false
}

// scopedPatterns reads one ignore file and rescopes its patterns to the directory
// it was found in. Patterns without a slash keep their any-depth semantics below
// that directory; slashed patterns are anchored at it.
func scopedPatterns(ignoreFilePath string, relativeDirectory string) []string {
	fileHandle, openError := os.Open(ignoreFilePath)
	if openError != nil {
		return nil
	}
	defer fileHandle.Close()

	var scopedLines []string
	lineScanner := bufio.NewScanner(fileHandle)
	for lineScanner.Scan() {
		trimmedLine := strings.TrimSpace(lineScanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		scopedLines = append(scopedLines, rescopePattern(trimmedLine, relativeDirectory))
	}
	if scanError := lineScanner.Err(); scanError != nil {
		return nil
	}
	return scopedLines
}

// rescopePattern prefixes a single pattern with the relative directory that owns it.
// Root-level patterns pass through untouched.
func rescopePattern(patternLine string, relativeDirectory string) string {
	if relativeDirectory == "." || relativeDirectory == "" {
		return patternLine
	}

	isNegated := strings.HasPrefix(patternLine, negationPrefix)
	patternBody := strings.TrimPrefix(patternLine, negationPrefix)

	// A leading slash or any interior slash anchors the pattern at the owning
	// directory; only slashless patterns keep their any-depth semantics.
	isAnchored := strings.HasPrefix(patternBody, pathSeparator)
	anchoredBody := strings.TrimPrefix(patternBody, pathSeparator)
	if isAnchored || strings.Contains(strings.TrimSuffix(anchoredBody, pathSeparator), pathSeparator) {
		anchoredBody = relativeDirectory + pathSeparator + anchoredBody
	} else {
		anchoredBody = relativeDirectory + pathSeparator + recursiveScopePrefix + anchoredBody
	}

	if isNegated {
		return negationPrefix + anchoredBody
	}
	return anchoredBody
}
