package utils

import "path/filepath"

// RelativePathOrSelf calculates the forward-slash relative path from rootDirectory
// to fullPath. The cleaned fullPath is returned when relative calculation fails,
// and "." when both arguments resolve to the same directory.
func RelativePathOrSelf(fullPath string, rootDirectory string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, absoluteError := filepath.Abs(rootDirectory)
	if absoluteError != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)
	if cleanPath == cleanAbsoluteRoot {
		return "."
	}
	relativePath, relativeError := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relativeError != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}
