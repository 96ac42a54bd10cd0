package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bes-dev/repo2prompt/internal/utils"
)

// TestIsBinary verifies UTF-8 and NUL-byte classification.
func TestIsBinary(testingHandle *testing.T) {
	if utils.IsBinary([]byte("plain text")) {
		testingHandle.Fatalf("expected plain text to be classified as text")
	}
	if utils.IsBinary(nil) {
		testingHandle.Fatalf("expected empty content to be classified as text")
	}
	if !utils.IsBinary([]byte{0x00, 0x01}) {
		testingHandle.Fatalf("expected NUL bytes to be classified as binary")
	}
	if !utils.IsBinary([]byte{0xff, 0xfe, 0xfd}) {
		testingHandle.Fatalf("expected invalid UTF-8 to be classified as binary")
	}
}

// TestIsFileBinary verifies file-based sniffing, including missing files.
func TestIsFileBinary(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	textFilePath := filepath.Join(rootDirectory, "note.txt")
	binaryFilePath := filepath.Join(rootDirectory, "blob.bin")
	if writeError := os.WriteFile(textFilePath, []byte("hello"), 0o644); writeError != nil {
		testingHandle.Fatalf("write text file: %v", writeError)
	}
	if writeError := os.WriteFile(binaryFilePath, []byte{0x00, 0xff}, 0o644); writeError != nil {
		testingHandle.Fatalf("write binary file: %v", writeError)
	}
	if utils.IsFileBinary(textFilePath) {
		testingHandle.Fatalf("expected text file to be classified as text")
	}
	if !utils.IsFileBinary(binaryFilePath) {
		testingHandle.Fatalf("expected binary file to be classified as binary")
	}
	if utils.IsFileBinary(filepath.Join(rootDirectory, "missing")) {
		testingHandle.Fatalf("expected missing file to default to text")
	}
}

// TestFormatFileSize verifies unit scaling.
func TestFormatFileSize(testingHandle *testing.T) {
	sizeCases := []struct {
		byteCount int64
		expected  string
	}{
		{0, "0b"},
		{512, "512b"},
		{2048, "2kb"},
		{1536, "1.5kb"},
		{10 * 1024 * 1024, "10mb"},
	}
	for _, sizeCase := range sizeCases {
		formattedSize := utils.FormatFileSize(sizeCase.byteCount)
		if formattedSize != sizeCase.expected {
			testingHandle.Fatalf("FormatFileSize(%d): expected %s, got %s", sizeCase.byteCount, sizeCase.expected, formattedSize)
		}
	}
}

// TestRelativePathOrSelf verifies relative path calculation against a root.
func TestRelativePathOrSelf(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	nestedPath := filepath.Join(rootDirectory, "sub", "file.txt")
	if relativePath := utils.RelativePathOrSelf(nestedPath, rootDirectory); relativePath != "sub/file.txt" {
		testingHandle.Fatalf("expected sub/file.txt, got %s", relativePath)
	}
	if relativePath := utils.RelativePathOrSelf(rootDirectory, rootDirectory); relativePath != "." {
		testingHandle.Fatalf("expected '.', got %s", relativePath)
	}
}
