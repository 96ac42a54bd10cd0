package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	cloneDirectoryPattern = "repo2prompt-"
	gitRepositorySuffix   = ".git"

	errorPathMissingFormat  = "path '%s' does not exist and is not a recognized repository URL"
	errorPathNotDirFormat   = "path '%s' is not a directory"
	errorTempDirFormat      = "creating temporary clone directory: %w"
	errorCloneFailedFormat  = "git clone %s: %w: %s"
	cloneStartedMessage     = "cloning repository"
	cloneDirectoryFieldName = "directory"
	repositoryFieldName     = "repository"
)

// remoteRepositoryPrefixes mark path arguments that name a remote repository.
var remoteRepositoryPrefixes = []string{
	"http://",
	"https://",
	"git://",
	"ssh://",
	"git@",
}

// resolveRepositoryPath turns the path argument into a local directory to walk.
// A local directory is used in place; anything else is treated as a git URL and
// cloned into a freshly created temporary directory. The returned cleanup
// function removes the clone and must run on every exit path.
func resolveRepositoryPath(executionContext context.Context, pathArgument string, applicationLogger *zap.Logger) (string, string, func(), error) {
	noCleanup := func() {}

	pathInfo, statError := os.Stat(pathArgument)
	if statError == nil {
		if !pathInfo.IsDir() {
			return "", "", noCleanup, fmt.Errorf(errorPathNotDirFormat, pathArgument)
		}
		absolutePath, absoluteError := filepath.Abs(pathArgument)
		if absoluteError != nil {
			return "", "", noCleanup, fmt.Errorf("resolving absolute path for %s: %w", pathArgument, absoluteError)
		}
		return absolutePath, filepath.Base(absolutePath), noCleanup, nil
	}

	if !isRemoteRepository(pathArgument) {
		return "", "", noCleanup, fmt.Errorf(errorPathMissingFormat, pathArgument)
	}

	cloneDirectory, cloneError := cloneRepository(executionContext, pathArgument, applicationLogger)
	if cloneError != nil {
		return "", "", noCleanup, cloneError
	}
	cleanupClone := func() {
		if removeError := os.RemoveAll(cloneDirectory); removeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove %s: %v\n", cloneDirectory, removeError)
		}
	}
	return cloneDirectory, repositoryLabel(pathArgument), cleanupClone, nil
}

// isRemoteRepository reports whether the path argument looks like a git URL.
func isRemoteRepository(pathArgument string) bool {
	for _, repositoryPrefix := range remoteRepositoryPrefixes {
		if strings.HasPrefix(pathArgument, repositoryPrefix) {
			return true
		}
	}
	return strings.HasSuffix(pathArgument, gitRepositorySuffix)
}

// repositoryLabel derives the tree root label from a repository URL.
func repositoryLabel(repositoryURL string) string {
	trimmedURL := strings.TrimSuffix(strings.TrimRight(repositoryURL, "/"), gitRepositorySuffix)
	if separatorIndex := strings.LastIndexAny(trimmedURL, "/:"); separatorIndex >= 0 {
		trimmedURL = trimmedURL[separatorIndex+1:]
	}
	if trimmedURL == "" {
		return "repository"
	}
	return trimmedURL
}

// cloneRepository clones the repository URL into a new temporary directory.
// The directory is removed here when the clone fails; on success the caller
// owns its removal.
func cloneRepository(executionContext context.Context, repositoryURL string, applicationLogger *zap.Logger) (string, error) {
	cloneDirectory, tempDirError := os.MkdirTemp("", cloneDirectoryPattern)
	if tempDirError != nil {
		return "", fmt.Errorf(errorTempDirFormat, tempDirError)
	}

	applicationLogger.Info(cloneStartedMessage,
		zap.String(repositoryFieldName, repositoryURL),
		zap.String(cloneDirectoryFieldName, cloneDirectory))

	var cloneStderr bytes.Buffer
	// #nosec G204
	cloneCommand := exec.CommandContext(executionContext, "git", "clone", repositoryURL, cloneDirectory)
	cloneCommand.Stderr = &cloneStderr
	if runError := cloneCommand.Run(); runError != nil {
		if removeError := os.RemoveAll(cloneDirectory); removeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove %s: %v\n", cloneDirectory, removeError)
		}
		return "", fmt.Errorf(errorCloneFailedFormat, repositoryURL, runError, strings.TrimSpace(cloneStderr.String()))
	}
	return cloneDirectory, nil
}
