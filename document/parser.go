package document

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/jsphweid/theorytab/model"
	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
)

// Parse reads a serialized legacy document into a Node tree rooted at the
// document element.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var root *Node
	var stack []*Node
	for {
		token, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(model.ErrMalformedDocument, "%v", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			node := newNode(t.Name.Local)
			for _, attr := range t.Attr {
				leaf := newNode("@" + attr.Name.Local)
				leaf.Text = attr.Value
				node.add(leaf)
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.Wrapf(model.ErrMalformedDocument, "second root element <%s>", t.Name.Local)
				}
				root = node
			} else {
				stack[len(stack)-1].add(node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			top := stack[len(stack)-1]
			top.Text = strings.TrimSpace(top.Text)
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			} else if strings.TrimSpace(string(t)) != "" {
				return nil, errors.Wrap(model.ErrMalformedDocument, "text outside of root element")
			}
		}
	}

	if root == nil {
		return nil, errors.Wrap(model.ErrMalformedDocument, "no root element")
	}
	if len(stack) > 0 {
		return nil, errors.Wrapf(model.ErrMalformedDocument, "unclosed element <%s>", stack[len(stack)-1].Name)
	}
	return root, nil
}

// ParseString is Parse for in-memory documents.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}
