package utils

import (
	"io"
	"net/http"
	"os"
	"unicode/utf8"
)

// sniffLength limits how many bytes are inspected when classifying file content.
const sniffLength = 8000

// IsBinary reports whether the provided byte slice appears to contain binary data.
// Content is binary when it is not valid UTF-8 or contains a NUL byte.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	for _, byteValue := range data {
		if byteValue == 0 {
			return true
		}
	}
	return false
}

// IsFileBinary reads up to sniffLength bytes from the file at filePath and reports
// whether the content appears to be binary. Unreadable files are treated as text.
func IsFileBinary(filePath string) bool {
	sniffedBytes, sniffError := sniffFile(filePath)
	if sniffError != nil {
		return false
	}
	return IsBinary(sniffedBytes)
}

// DetectMimeType returns the MIME type of the file at filePath using content sniffing.
// An empty string is returned when the file cannot be read.
func DetectMimeType(filePath string) string {
	sniffedBytes, sniffError := sniffFile(filePath)
	if sniffError != nil {
		return ""
	}
	return http.DetectContentType(sniffedBytes)
}

// sniffFile reads up to sniffLength bytes from the beginning of the file at filePath.
func sniffFile(filePath string) ([]byte, error) {
	fileHandle, openError := os.Open(filePath)
	if openError != nil {
		return nil, openError
	}
	defer fileHandle.Close()

	buffer := make([]byte, sniffLength)
	bytesRead, readError := fileHandle.Read(buffer)
	if readError != nil && readError != io.EOF {
		return nil, readError
	}
	return buffer[:bytesRead], nil
}
