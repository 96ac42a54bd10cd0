package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	python "github.com/smacker/go-tree-sitter/python"
)

const (
	pythonFunctionNodeType   = "function_definition"
	pythonClassNodeType      = "class_definition"
	pythonDecoratedNodeType  = "decorated_definition"
	pythonDecoratorNodeType  = "decorator"
	pythonExpressionNodeType = "expression_statement"
	pythonAssignmentNodeType = "assignment"
	pythonStringNodeType     = "string"
	pythonBodyField          = "body"
	pythonDefinitionField    = "definition"
	pythonTypeField          = "type"
	pythonPassStatement      = "pass"
	pythonIndentUnit         = "    "
)

// pythonExtractor reduces Python sources to class and function signatures,
// docstrings, decorators, and annotated class fields.
type pythonExtractor struct{}

func newPythonExtractor() Extractor {
	return &pythonExtractor{}
}

// Extract parses source and rebuilds it with every implementation body removed.
// Nesting and relative order of definitions are preserved; a body left without
// any retained statement receives a pass placeholder so the output stays valid
// Python. Sources with syntax errors yield ErrUnparsableSource.
func (extractor *pythonExtractor) Extract(source []byte) (string, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	syntaxTree := parser.Parse(nil, source)
	if syntaxTree == nil {
		return "", ErrUnparsableSource
	}
	rootNode := syntaxTree.RootNode()
	if rootNode == nil || rootNode.HasError() {
		return "", ErrUnparsableSource
	}

	var outputLines []string
	for childIndex := 0; childIndex < int(rootNode.NamedChildCount()); childIndex++ {
		emitDefinition(rootNode.NamedChild(childIndex), source, 0, &outputLines)
	}
	return strings.Join(outputLines, "\n"), nil
}

// emitDefinition renders one module- or class-level node when it is a class or
// function definition, possibly wrapped in decorators. Every other statement
// kind is dropped.
func emitDefinition(node *sitter.Node, source []byte, depth int, outputLines *[]string) {
	if node == nil {
		return
	}
	switch node.Type() {
	case pythonDecoratedNodeType:
		for childIndex := 0; childIndex < int(node.NamedChildCount()); childIndex++ {
			childNode := node.NamedChild(childIndex)
			if childNode.Type() == pythonDecoratorNodeType {
				*outputLines = append(*outputLines, reindentSlice(childNode, source, depth)...)
			}
		}
		emitDefinition(node.ChildByFieldName(pythonDefinitionField), source, depth, outputLines)
	case pythonFunctionNodeType:
		emitFunction(node, source, depth, outputLines)
	case pythonClassNodeType:
		emitClass(node, source, depth, outputLines)
	}
}

// emitFunction renders a function signature with its docstring. Function bodies
// never recurse: nested definitions inside a function are implementation detail.
func emitFunction(node *sitter.Node, source []byte, depth int, outputLines *[]string) {
	bodyNode := node.ChildByFieldName(pythonBodyField)
	*outputLines = append(*outputLines, signatureLines(node, bodyNode, source, depth)...)

	docstringNode := blockDocstring(bodyNode)
	if docstringNode != nil {
		*outputLines = append(*outputLines, reindentSlice(docstringNode, source, depth+1)...)
		return
	}
	*outputLines = append(*outputLines, indentFor(depth+1)+pythonPassStatement)
}

// emitClass renders a class signature, its docstring, and its reduced body:
// nested classes, methods, and annotated field declarations in source order.
func emitClass(node *sitter.Node, source []byte, depth int, outputLines *[]string) {
	bodyNode := node.ChildByFieldName(pythonBodyField)
	*outputLines = append(*outputLines, signatureLines(node, bodyNode, source, depth)...)

	bodyStartIndex := len(*outputLines)
	docstringNode := blockDocstring(bodyNode)
	if docstringNode != nil {
		*outputLines = append(*outputLines, reindentSlice(docstringNode, source, depth+1)...)
	}

	if bodyNode != nil {
		for childIndex := 0; childIndex < int(bodyNode.NamedChildCount()); childIndex++ {
			childNode := bodyNode.NamedChild(childIndex)
			if docstringNode != nil && childIndex == 0 {
				continue
			}
			if annotatedField(childNode) {
				*outputLines = append(*outputLines, reindentSlice(childNode, source, depth+1)...)
				continue
			}
			emitDefinition(childNode, source, depth+1, outputLines)
		}
	}

	if len(*outputLines) == bodyStartIndex {
		*outputLines = append(*outputLines, indentFor(depth+1)+pythonPassStatement)
	}
}

// signatureLines slices the definition header verbatim from source, from the
// definition keyword through the colon preceding the body, preserving parameter
// annotations, default-value expressions, and return annotations.
func signatureLines(node *sitter.Node, bodyNode *sitter.Node, source []byte, depth int) []string {
	endByte := node.EndByte()
	if bodyNode != nil {
		endByte = bodyNode.StartByte()
	}
	headerText := strings.TrimRight(string(source[node.StartByte():endByte]), " \t\n\r")
	if !strings.HasSuffix(headerText, ":") {
		headerText += ":"
	}
	return reindentText(headerText, int(node.StartPoint().Column), depth)
}

// blockDocstring returns the string node when the first statement of the block
// is a bare string literal, nil otherwise.
func blockDocstring(bodyNode *sitter.Node) *sitter.Node {
	if bodyNode == nil || bodyNode.NamedChildCount() == 0 {
		return nil
	}
	firstStatement := bodyNode.NamedChild(0)
	if firstStatement.Type() != pythonExpressionNodeType || firstStatement.NamedChildCount() == 0 {
		return nil
	}
	firstExpression := firstStatement.NamedChild(0)
	if firstExpression.Type() != pythonStringNodeType {
		return nil
	}
	return firstExpression
}

// annotatedField reports whether the statement declares a type-annotated field,
// with or without a default value expression.
func annotatedField(node *sitter.Node) bool {
	if node == nil || node.Type() != pythonExpressionNodeType || node.NamedChildCount() == 0 {
		return false
	}
	innerNode := node.NamedChild(0)
	if innerNode.Type() != pythonAssignmentNodeType {
		return false
	}
	return innerNode.ChildByFieldName(pythonTypeField) != nil
}

// reindentSlice renders the node's verbatim source text reanchored at depth.
func reindentSlice(node *sitter.Node, source []byte, depth int) []string {
	nodeText := string(source[node.StartByte():node.EndByte()])
	return reindentText(nodeText, int(node.StartPoint().Column), depth)
}

// reindentText strips the original starting column from continuation lines and
// prefixes every line with the normalized 4-space indentation for depth.
func reindentText(text string, originalColumn int, depth int) []string {
	indentPrefix := indentFor(depth)
	textLines := strings.Split(text, "\n")
	reindentedLines := make([]string, 0, len(textLines))
	for lineIndex, textLine := range textLines {
		if lineIndex == 0 {
			reindentedLines = append(reindentedLines, indentPrefix+textLine)
			continue
		}
		trimmedLine := trimIndentColumns(textLine, originalColumn)
		if strings.TrimSpace(trimmedLine) == "" {
			reindentedLines = append(reindentedLines, "")
			continue
		}
		reindentedLines = append(reindentedLines, indentPrefix+trimmedLine)
	}
	return reindentedLines
}

// trimIndentColumns removes at most columnCount leading spaces from line.
func trimIndentColumns(line string, columnCount int) string {
	removedCount := 0
	for removedCount < len(line) && removedCount < columnCount && line[removedCount] == ' ' {
		removedCount++
	}
	return line[removedCount:]
}

func indentFor(depth int) string {
	return strings.Repeat(pythonIndentUnit, depth)
}
