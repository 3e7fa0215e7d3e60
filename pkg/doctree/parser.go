// Package doctree turns the flattened H1:/H2:/H3:/H4:-marked document text
// into a tree of content nodes. The parser is pure: no IO, no state between
// calls.
package doctree

import (
	"strings"
	"unicode"
)

// Heading depth starts at 1 (outermost). Nodes at bodyLevel or deeper
// collect body text; shallower nodes are pure containers.
const (
	MaxHeadingLevel = 4
	bodyLevel       = 3
)

// Node is one parsed content node. Body stays nil until a body line (or an
// intentional blank line) is attached, so "no body" and "empty body" remain
// distinguishable downstream.
type Node struct {
	Level    int
	Title    string
	Body     *string
	Children []*Node
}

// BodyText returns the body, or "" when none was collected.
func (n *Node) BodyText() string {
	if n.Body == nil {
		return ""
	}
	return *n.Body
}

// HasBody reports whether the node carries non-empty body text.
func (n *Node) HasBody() bool {
	return n.Body != nil && *n.Body != ""
}

// EmbedText is the text that gets embedded for this node: the body when
// present, otherwise the title.
func (n *Node) EmbedText() string {
	if n.HasBody() {
		return *n.Body
	}
	return n.Title
}

var headingPrefixes = [MaxHeadingLevel]string{"H1:", "H2:", "H3:", "H4:"}

// headingLevel returns (depth, true) when the left-trimmed line starts with
// a recognized heading marker.
func headingLevel(trimmed string) (int, bool) {
	for i, prefix := range headingPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return i + 1, true
		}
	}
	return 0, false
}

// Parse converts newline-separated marked lines into the ordered list of
// top-level nodes, each with its full subtree. Source order is preserved at
// every level; it later becomes each persisted row's ord among siblings.
//
// The algorithm keeps a stack of open ancestors. A heading of depth D pops
// every frame of depth >= D, attaches the new node to the remaining top (or
// as a new root), and pushes it. Malformed marker sequences need no error
// state: every line either opens a node or appends to the active body.
func Parse(raw string) []*Node {
	var (
		roots []*Node
		stack []stackFrame
		leaf  *Node // most recent body-collecting node, nil when a container is open
	)

	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			// Preserve intentional blank lines inside body text.
			if leaf != nil {
				appendBlank(leaf)
			}
			continue
		}

		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)

		if level, ok := headingLevel(trimmed); ok {
			// Every marker is 3 bytes ("H1:".."H4:").
			title := strings.TrimLeftFunc(trimmed[3:], unicode.IsSpace)
			node := &Node{Level: level, Title: title}

			for len(stack) > 0 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}

			if len(stack) > 0 {
				top := stack[len(stack)-1].node
				top.Children = append(top.Children, node)
			} else {
				roots = append(roots, node)
			}

			stack = append(stack, stackFrame{level: level, node: node})

			if level >= bodyLevel {
				leaf = node
			} else {
				leaf = nil
			}
			continue
		}

		if leaf != nil {
			appendBodyLine(leaf, strings.TrimRightFunc(line, unicode.IsSpace))
		}
	}

	return roots
}

type stackFrame struct {
	level int
	node  *Node
}

func appendBlank(n *Node) {
	if n.Body == nil {
		empty := ""
		n.Body = &empty
		return
	}
	joined := *n.Body + "\n"
	n.Body = &joined
}

func appendBodyLine(n *Node, line string) {
	if n.Body == nil {
		n.Body = &line
		return
	}
	joined := *n.Body + "\n" + line
	n.Body = &joined
}
