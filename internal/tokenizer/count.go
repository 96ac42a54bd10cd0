package tokenizer

import (
	"errors"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bes-dev/repo2prompt/internal/prompt"
)

// DocumentStats aggregates token counts for one prompt document.
type DocumentStats struct {
	Sections    int
	TreeTokens  int
	TotalTokens int
	Model       string
}

// CountDocument estimates token usage of the rendered document. Sections are
// counted concurrently with bounded parallelism; the tree diagram is counted once.
func CountDocument(counter Counter, document *prompt.Document) (DocumentStats, error) {
	if counter == nil {
		return DocumentStats{}, errors.New("nil tokenizer counter")
	}
	if document == nil {
		return DocumentStats{}, errors.New("nil prompt document")
	}

	sectionTokens := make([]int, len(document.Sections))
	var countingGroup errgroup.Group
	countingGroup.SetLimit(runtime.NumCPU())

	for sectionIndex, fileSection := range document.Sections {
		sectionIndex, fileSection := sectionIndex, fileSection
		countingGroup.Go(func() error {
			tokens, countError := counter.CountString(fileSection.Content)
			if countError != nil {
				return countError
			}
			sectionTokens[sectionIndex] = tokens
			return nil
		})
	}

	treeTokens, treeCountError := counter.CountString(strings.Join(document.TreeLines, "\n"))
	if treeCountError != nil {
		return DocumentStats{}, treeCountError
	}
	if groupError := countingGroup.Wait(); groupError != nil {
		return DocumentStats{}, groupError
	}

	documentStats := DocumentStats{
		Sections:   len(document.Sections),
		TreeTokens: treeTokens,
		Model:      counter.Name(),
	}
	documentStats.TotalTokens = treeTokens
	for _, tokens := range sectionTokens {
		documentStats.TotalTokens += tokens
	}
	return documentStats, nil
}
