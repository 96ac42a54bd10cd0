// Package parser walks a repository tree and assembles the prompt document:
// a tree diagram plus one source section per included file.
package parser

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bes-dev/repo2prompt/internal/extract"
	"github.com/bes-dev/repo2prompt/internal/ignore"
	"github.com/bes-dev/repo2prompt/internal/language"
	"github.com/bes-dev/repo2prompt/internal/prompt"
	"github.com/bes-dev/repo2prompt/internal/utils"
)

const (
	branchConnector     = "|-- "
	lastConnector       = "`-- "
	branchPrefix        = "|   "
	lastPrefix          = "    "
	directorySuffix     = "/"
	unreadablePlacehold = "[Error reading file]"
	binaryPlaceholdFmt  = "[binary content omitted: %s]"

	errorReadRootFormat = "reading root directory %s: %w"
	errorLoadIgnoreFmt  = "loading ignore files from %s: %w"
)

// Options configures a single prompt build.
type Options struct {
	// InterfacesOnly reduces files of supported languages to signatures and docstrings.
	InterfacesOnly bool
	// RespectIgnore applies discovered ignore files. Enabled by default via DefaultOptions.
	RespectIgnore bool
	// RootLabel is the display name for the tree root. Defaults to the directory base name.
	RootLabel string
	// Ignore controls ignore-file discovery when RespectIgnore is set.
	Ignore ignore.Options
	// Logger receives warnings for recoverable per-file failures. Optional.
	Logger *zap.Logger
}

// DefaultOptions returns build options with ignore handling enabled.
func DefaultOptions() Options {
	return Options{RespectIgnore: true, Ignore: ignore.DefaultOptions()}
}

// walkFrame is one pending tree entry. The walk is driven by an explicit stack,
// so pathological directory nesting never grows the call stack.
type walkFrame struct {
	absolutePath string
	relativePath string
	treeLine     string
	childPrefix  string
	isDirectory  bool
}

// Build walks rootDirectory and returns the assembled prompt document.
// Entries are visited in byte-wise alphabetical order per directory, which keeps
// the traversal deterministic. File-local failures degrade to placeholder
// sections and never abort the build.
func Build(rootDirectory string, options Options) (*prompt.Document, error) {
	absoluteRoot, absoluteError := filepath.Abs(rootDirectory)
	if absoluteError != nil {
		return nil, fmt.Errorf("resolving absolute path for %s: %w", rootDirectory, absoluteError)
	}

	buildLogger := options.Logger
	if buildLogger == nil {
		buildLogger = zap.NewNop()
	}

	var ignoreSpec *ignore.Spec
	if options.RespectIgnore {
		loadedSpec, loadError := ignore.Load(absoluteRoot, options.Ignore)
		if loadError != nil {
			return nil, fmt.Errorf(errorLoadIgnoreFmt, absoluteRoot, loadError)
		}
		ignoreSpec = loadedSpec
	}

	rootLabel := options.RootLabel
	if rootLabel == "" {
		rootLabel = filepath.Base(absoluteRoot)
	}

	document := &prompt.Document{
		RootLabel: rootLabel,
		TreeLines: []string{rootLabel + directorySuffix},
	}

	frameStack, rootError := childFrames(absoluteRoot, absoluteRoot, "", ignoreSpec)
	if rootError != nil {
		return nil, fmt.Errorf(errorReadRootFormat, absoluteRoot, rootError)
	}

	for len(frameStack) > 0 {
		currentFrame := frameStack[len(frameStack)-1]
		frameStack = frameStack[:len(frameStack)-1]

		document.TreeLines = append(document.TreeLines, currentFrame.treeLine)

		if currentFrame.isDirectory {
			descendantFrames, readError := childFrames(currentFrame.absolutePath, absoluteRoot, currentFrame.childPrefix, ignoreSpec)
			if readError != nil {
				buildLogger.Warn("skipping unreadable directory",
					zap.String("path", currentFrame.relativePath),
					zap.Error(readError))
				continue
			}
			frameStack = append(frameStack, descendantFrames...)
			continue
		}

		document.Sections = append(document.Sections, buildSection(currentFrame, options, buildLogger))
	}

	return document, nil
}

// childFrames reads one directory and returns frames for its kept entries in
// reverse order, so that popping the stack visits them alphabetically.
func childFrames(directoryPath string, absoluteRoot string, linePrefix string, ignoreSpec *ignore.Spec) ([]walkFrame, error) {
	directoryEntries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		return nil, readError
	}

	keptEntries := make([]os.DirEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		entryPath := filepath.Join(directoryPath, directoryEntry.Name())
		relativePath := utils.RelativePathOrSelf(entryPath, absoluteRoot)
		if ignoreSpec != nil && ignoreSpec.Matches(relativePath, directoryEntry.IsDir()) {
			continue
		}
		keptEntries = append(keptEntries, directoryEntry)
	}

	frames := make([]walkFrame, 0, len(keptEntries))
	for entryIndex := len(keptEntries) - 1; entryIndex >= 0; entryIndex-- {
		directoryEntry := keptEntries[entryIndex]
		entryPath := filepath.Join(directoryPath, directoryEntry.Name())
		isLastEntry := entryIndex == len(keptEntries)-1

		entryConnector := branchConnector
		childPrefix := linePrefix + branchPrefix
		if isLastEntry {
			entryConnector = lastConnector
			childPrefix = linePrefix + lastPrefix
		}

		displayName := directoryEntry.Name()
		if directoryEntry.IsDir() {
			displayName += directorySuffix
		}

		frames = append(frames, walkFrame{
			absolutePath: entryPath,
			relativePath: utils.RelativePathOrSelf(entryPath, absoluteRoot),
			treeLine:     linePrefix + entryConnector + displayName,
			childPrefix:  childPrefix,
			isDirectory:  directoryEntry.IsDir(),
		})
	}
	return frames, nil
}

// buildSection reads one file and produces its prompt section. Binary content
// becomes a text-safe placeholder; unreadable files degrade to an error marker;
// interface extraction failures fall back to the full content.
func buildSection(fileFrame walkFrame, options Options, buildLogger *zap.Logger) prompt.Section {
	languageTag := language.Detect(fileFrame.absolutePath)
	fileSection := prompt.Section{Path: fileFrame.relativePath, Language: languageTag}

	// Sniffing the head first keeps large binaries from being read in full.
	if utils.IsFileBinary(fileFrame.absolutePath) {
		return binarySection(fileFrame, fileSection, buildLogger)
	}

	fileBytes, readError := os.ReadFile(fileFrame.absolutePath)
	if readError != nil {
		buildLogger.Warn("failed to read file",
			zap.String("path", fileFrame.relativePath),
			zap.String("size", fileSizeLabel(fileFrame.absolutePath)),
			zap.Error(readError))
		fileSection.Content = unreadablePlacehold
		return fileSection
	}

	// The sniff only inspects the head of the file; content that turns binary
	// later is still caught here.
	if utils.IsBinary(fileBytes) {
		return binarySection(fileFrame, fileSection, buildLogger)
	}

	fileSection.Content = string(fileBytes)

	if options.InterfacesOnly {
		if fileExtractor, hasExtractor := extract.ForLanguage(languageTag); hasExtractor {
			reducedContent, extractError := fileExtractor.Extract(fileBytes)
			if extractError != nil {
				buildLogger.Warn("interface extraction failed, keeping full content",
					zap.String("path", fileFrame.relativePath),
					zap.Error(extractError))
			} else {
				fileSection.Content = reducedContent
			}
		}
	}

	return fileSection
}

// binarySection replaces binary content with a text-safe placeholder carrying the
// sniffed MIME type.
func binarySection(fileFrame walkFrame, fileSection prompt.Section, buildLogger *zap.Logger) prompt.Section {
	buildLogger.Info("omitting binary content",
		zap.String("path", fileFrame.relativePath),
		zap.String("size", fileSizeLabel(fileFrame.absolutePath)))
	fileSection.Language = ""
	fileSection.Content = fmt.Sprintf(binaryPlaceholdFmt, utils.DetectMimeType(fileFrame.absolutePath))
	return fileSection
}

// fileSizeLabel formats the on-disk size of filePath for diagnostics.
func fileSizeLabel(filePath string) string {
	fileInfo, statError := os.Stat(filePath)
	if statError != nil {
		return "unknown"
	}
	return utils.FormatFileSize(fileInfo.Size())
}
