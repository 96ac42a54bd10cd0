package parser_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bes-dev/repo2prompt/internal/parser"
)

func writeTestFile(testingHandle *testing.T, filePath string, fileContent string) {
	testingHandle.Helper()
	if makeDirError := os.MkdirAll(filepath.Dir(filePath), 0o755); makeDirError != nil {
		testingHandle.Fatalf("mkdir %s: %v", filepath.Dir(filePath), makeDirError)
	}
	if writeError := os.WriteFile(filePath, []byte(fileContent), 0o644); writeError != nil {
		testingHandle.Fatalf("write %s: %v", filePath, writeError)
	}
}

// TestBuildInterfacesOnlyRespectsIgnore covers the end-to-end scenario: an
// ignored file never appears in the tree or the sections, and a Python file is
// reduced to its signature and docstring.
func TestBuildInterfacesOnlyRespectsIgnore(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "a.py"), "def f(x: int) -> int:\n    \"\"\"doc\"\"\"\n    return x+1\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "b.py"), "def g():\n    return 2\n")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, ".gitignore"), "b.py\n")

	buildOptions := parser.DefaultOptions()
	buildOptions.InterfacesOnly = true
	promptDocument, buildError := parser.Build(rootDirectory, buildOptions)
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}

	expectedTreeLines := []string{filepath.Base(rootDirectory) + "/", "`-- a.py"}
	if len(promptDocument.TreeLines) != len(expectedTreeLines) {
		testingHandle.Fatalf("unexpected tree lines: %v", promptDocument.TreeLines)
	}
	for lineIndex, expectedLine := range expectedTreeLines {
		if promptDocument.TreeLines[lineIndex] != expectedLine {
			testingHandle.Fatalf("tree line %d: expected %q, got %q", lineIndex, expectedLine, promptDocument.TreeLines[lineIndex])
		}
	}

	if len(promptDocument.Sections) != 1 {
		testingHandle.Fatalf("expected a single section, got %d", len(promptDocument.Sections))
	}
	fileSection := promptDocument.Sections[0]
	if fileSection.Path != "a.py" || fileSection.Language != "python" {
		testingHandle.Fatalf("unexpected section metadata: %+v", fileSection)
	}
	if fileSection.Content != "def f(x: int) -> int:\n    \"\"\"doc\"\"\"" {
		testingHandle.Fatalf("unexpected reduced content:\n%s", fileSection.Content)
	}

	renderedPrompt := promptDocument.Render()
	if strings.Contains(renderedPrompt, "b.py") {
		testingHandle.Fatalf("ignored file leaked into output")
	}
	if strings.Contains(renderedPrompt, "return") {
		testingHandle.Fatalf("implementation body leaked into output")
	}
}

// TestBuildEmptyRepository verifies an empty root produces only the root label
// and an empty sources block.
func TestBuildEmptyRepository(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	promptDocument, buildError := parser.Build(rootDirectory, parser.DefaultOptions())
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	if len(promptDocument.TreeLines) != 1 || promptDocument.TreeLines[0] != filepath.Base(rootDirectory)+"/" {
		testingHandle.Fatalf("unexpected tree lines: %v", promptDocument.TreeLines)
	}
	if len(promptDocument.Sections) != 0 {
		testingHandle.Fatalf("expected no sections, got %d", len(promptDocument.Sections))
	}
}

// TestBuildMalformedSourceFallsBack verifies extraction failure degrades to the
// full original content without aborting the build.
func TestBuildMalformedSourceFallsBack(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	malformedSource := "def broken(:\n    pass\n"
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "bad.py"), malformedSource)

	buildOptions := parser.DefaultOptions()
	buildOptions.InterfacesOnly = true
	promptDocument, buildError := parser.Build(rootDirectory, buildOptions)
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	if len(promptDocument.Sections) != 1 {
		testingHandle.Fatalf("expected one section, got %d", len(promptDocument.Sections))
	}
	if promptDocument.Sections[0].Content != malformedSource {
		testingHandle.Fatalf("expected full-content fallback, got:\n%s", promptDocument.Sections[0].Content)
	}
}

// TestBuildBinaryPlaceholder verifies binary files yield a text-safe marker.
func TestBuildBinaryPlaceholder(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "blob.bin"), "\x00\x01\x02\xff")

	promptDocument, buildError := parser.Build(rootDirectory, parser.DefaultOptions())
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	if len(promptDocument.Sections) != 1 {
		testingHandle.Fatalf("expected one section, got %d", len(promptDocument.Sections))
	}
	if !strings.HasPrefix(promptDocument.Sections[0].Content, "[binary content omitted") {
		testingHandle.Fatalf("expected binary placeholder, got: %s", promptDocument.Sections[0].Content)
	}
	if promptDocument.Sections[0].Language != "" {
		testingHandle.Fatalf("expected no language tag for binary content")
	}
}

// TestBuildBinaryPlaceholderBeyondSniffWindow verifies content that only turns
// binary past the head sniff is still replaced with the placeholder.
func TestBuildBinaryPlaceholderBeyondSniffWindow(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	lateBinaryContent := strings.Repeat("a", 16000) + "\x00"
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "blob.dat"), lateBinaryContent)

	promptDocument, buildError := parser.Build(rootDirectory, parser.DefaultOptions())
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}
	if len(promptDocument.Sections) != 1 {
		testingHandle.Fatalf("expected one section, got %d", len(promptDocument.Sections))
	}
	if !strings.HasPrefix(promptDocument.Sections[0].Content, "[binary content omitted") {
		testingHandle.Fatalf("expected binary placeholder, got: %s", promptDocument.Sections[0].Content)
	}
}

// TestBuildTreeMatchesSections verifies every walked file has exactly one
// section and the tree has one line per visited entry plus the root label.
func TestBuildTreeMatchesSections(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "a.txt"), "alpha")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "sub", "b.txt"), "beta")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "sub", "deep", "c.txt"), "gamma")

	promptDocument, buildError := parser.Build(rootDirectory, parser.DefaultOptions())
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}

	directoryCount := 2
	fileCount := 3
	expectedLineCount := 1 + directoryCount + fileCount
	if len(promptDocument.TreeLines) != expectedLineCount {
		testingHandle.Fatalf("expected %d tree lines, got %v", expectedLineCount, promptDocument.TreeLines)
	}
	if len(promptDocument.Sections) != fileCount {
		testingHandle.Fatalf("expected %d sections, got %d", fileCount, len(promptDocument.Sections))
	}

	expectedOrder := []string{"a.txt", "sub/b.txt", "sub/deep/c.txt"}
	for sectionIndex, expectedPath := range expectedOrder {
		if promptDocument.Sections[sectionIndex].Path != expectedPath {
			testingHandle.Fatalf("section %d: expected %s, got %s", sectionIndex, expectedPath, promptDocument.Sections[sectionIndex].Path)
		}
	}
}

// TestBuildTreeConnectors verifies the diagram uses the branch and last
// connectors with proper continuation prefixes.
func TestBuildTreeConnectors(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "alpha.txt"), "a")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "sub", "inner.txt"), "i")

	buildOptions := parser.DefaultOptions()
	buildOptions.RootLabel = "demo"
	promptDocument, buildError := parser.Build(rootDirectory, buildOptions)
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}

	expectedTreeLines := []string{
		"demo/",
		"|-- alpha.txt",
		"`-- sub/",
		"    `-- inner.txt",
	}
	if len(promptDocument.TreeLines) != len(expectedTreeLines) {
		testingHandle.Fatalf("unexpected tree lines: %v", promptDocument.TreeLines)
	}
	for lineIndex, expectedLine := range expectedTreeLines {
		if promptDocument.TreeLines[lineIndex] != expectedLine {
			testingHandle.Fatalf("tree line %d: expected %q, got %q", lineIndex, expectedLine, promptDocument.TreeLines[lineIndex])
		}
	}
}

// TestBuildWithoutIgnore verifies RespectIgnore false keeps otherwise ignored files.
func TestBuildWithoutIgnore(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, "kept.txt"), "kept")
	writeTestFile(testingHandle, filepath.Join(rootDirectory, ".gitignore"), "kept.txt\n")

	promptDocument, buildError := parser.Build(rootDirectory, parser.Options{})
	if buildError != nil {
		testingHandle.Fatalf("Build error: %v", buildError)
	}

	renderedPrompt := promptDocument.Render()
	if !strings.Contains(renderedPrompt, "kept.txt") {
		testingHandle.Fatalf("expected ignored file to be kept when ignore handling is off")
	}
}
