// Package prompt defines the assembled prompt document and its textual rendering.
package prompt

import "strings"

const (
	folderTreeHeader = "* Folder tree *"
	sourcesHeader    = "* Sources *"
	fileHeaderFormat = "** FILE: "
	fileHeaderSuffix = " **"
	codeFence        = "```"
)

// Section is one included file: its path relative to the root, the detected
// language tag, and the full or interface-reduced content.
type Section struct {
	Path     string
	Language string
	Content  string
}

// Document is the final prompt artifact: a rendered tree diagram followed by
// one section per included file, in traversal order.
type Document struct {
	RootLabel string
	TreeLines []string
	Sections  []Section
}

// Render produces the structured prompt text. The layout is fixed for
// compatibility with downstream consumers: the folder tree block, a separator,
// then one fenced block per file tagged with its path and language.
func (document *Document) Render() string {
	outputParts := []string{folderTreeHeader + "\n"}
	outputParts = append(outputParts, document.TreeLines...)
	outputParts = append(outputParts, "\n", sourcesHeader+"\n")

	for _, fileSection := range document.Sections {
		outputParts = append(outputParts,
			fileHeaderFormat+document.RootLabel+"/"+fileSection.Path+fileHeaderSuffix,
			codeFence+fileSection.Language,
			fileSection.Content,
			codeFence+"\n",
		)
	}

	return strings.Join(outputParts, "\n")
}
