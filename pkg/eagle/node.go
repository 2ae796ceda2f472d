// Package eagle reads Autodesk/CadSoft Eagle schematic XML files into a
// generic node tree and provides typed decoders for the element kinds the
// importer consumes.
package eagle

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is one element of the parsed Eagle XML tree. Children keep document
// order; attribute lookup is by local name.
type Node struct {
	Tag        string
	Attributes map[string]string
	Text       string
	Children   []*Node
}

// Attr returns the named attribute and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attributes[name]
	return v, ok
}

// AttrDefault returns the named attribute, or def when absent.
func (n *Node) AttrDefault(name, def string) string {
	if v, ok := n.Attributes[name]; ok {
		return v
	}
	return def
}

// FirstChild returns the first child with the given tag, or nil.
func (n *Node) FirstChild(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// NodeIndex maps a child tag name to the child node carrying it. When
// siblings share a tag the later one wins; Eagle schematic sections
// (parts, libraries, sheets...) occur at most once per parent, so the
// overwrite is only observable on malformed input. Kept as-is to match
// the reference importer.
type NodeIndex map[string]*Node

// IndexChildren builds a NodeIndex over the direct children of n.
func IndexChildren(n *Node) NodeIndex {
	idx := make(NodeIndex, len(n.Children))
	for _, c := range n.Children {
		idx[c.Tag] = c
	}
	return idx
}

// CountChildren counts direct children of n with the given tag.
func CountChildren(n *Node, tag string) int {
	count := 0
	for _, c := range n.Children {
		if c.Tag == tag {
			count++
		}
	}
	return count
}

// Document is a parsed Eagle schematic file. The tree is read-only for the
// lifetime of one import.
type Document struct {
	Root    *Node  // the <eagle> element
	Version string // eagle version attribute, "0.0" when absent
	Path    string // source file path, empty when parsed from a reader
}

// Parse reads an Eagle XML document from r and builds the node tree.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)

	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{
				Tag:        t.Name.Local,
				Attributes: make(map[string]string, len(t.Attr)),
			}
			for _, a := range t.Attr {
				node.Attributes[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("multiple root elements")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("no root element")
	}
	if root.Tag != "eagle" {
		return nil, fmt.Errorf("not an Eagle file: root element is <%s>", root.Tag)
	}

	doc := &Document{
		Root:    root,
		Version: root.AttrDefault("version", "0.0"),
	}
	return doc, nil
}

// Content returns the trimmed character data of the node.
func (n *Node) Content() string {
	return strings.TrimSpace(n.Text)
}
