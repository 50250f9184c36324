package document

import "strings"

// Node is one element of a parsed legacy document. Children are grouped by
// element name in document order; attributes are kept as leaf children named
// "@attr". Text is never type coerced.
type Node struct {
	Name     string
	Text     string
	Children map[string][]*Node
	order    []string
}

func newNode(name string) *Node {
	return &Node{Name: name, Children: make(map[string][]*Node)}
}

func (n *Node) add(child *Node) {
	if _, ok := n.Children[child.Name]; !ok {
		n.order = append(n.order, child.Name)
	}
	n.Children[child.Name] = append(n.Children[child.Name], child)
}

// Names returns the distinct child element names in the order first seen.
func (n *Node) Names() []string {
	if n == nil {
		return nil
	}
	return n.order
}

func (n *Node) IsLeaf() bool {
	return n == nil || len(n.Children) == 0
}

// All returns every child named name. Safe on a nil node.
func (n *Node) All(name string) []*Node {
	if n == nil {
		return nil
	}
	return n.Children[name]
}

// First returns the first child named name, or nil. A repeated element is
// treated the same as a single one.
func (n *Node) First(name string) *Node {
	all := n.All(name)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// Path follows First through each name in turn.
func (n *Node) Path(names ...string) *Node {
	cur := n
	for _, name := range names {
		cur = cur.First(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Value returns the text of the leaf child name. An absent or empty element
// has no value.
func (n *Node) Value(name string) *string {
	child := n.First(name)
	if child == nil || !child.IsLeaf() {
		return nil
	}
	text := strings.TrimSpace(child.Text)
	if text == "" {
		return nil
	}
	return &text
}

// Values collects the texts of every child named name. A child that wraps
// its own leaf elements contributes those leaves instead. Empty texts are
// skipped; nil is returned when nothing is present.
func (n *Node) Values(name string) []string {
	var res []string
	for _, child := range n.All(name) {
		if child.IsLeaf() {
			if text := strings.TrimSpace(child.Text); text != "" {
				res = append(res, text)
			}
			continue
		}
		for _, childName := range child.order {
			for _, leaf := range child.Children[childName] {
				if text := strings.TrimSpace(leaf.Text); leaf.IsLeaf() && text != "" {
					res = append(res, text)
				}
			}
		}
	}
	return res
}
