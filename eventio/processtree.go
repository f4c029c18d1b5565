package eventio

import (
	"encoding/json"

	"github.com/tel2puml-go/tel2puml/eventmodel"
)

// TreeDoc is the §6 "Process-tree serialization for logic gates" shape:
// a leaf carries only Label, an operator node carries only Operator and
// Children.
type TreeDoc struct {
	Operator string     `json:"operator,omitempty"`
	Children []*TreeDoc `json:"children,omitempty"`
	Label    string     `json:"label,omitempty"`
}

// EncodeTree converts a ProcessTree into its TreeDoc wire shape. Operator
// values are the ASCII strings already assigned in eventmodel.Operator
// (the Go constants are literally the §6 wire values, so no translation
// table is needed).
func EncodeTree(t *eventmodel.ProcessTree) *TreeDoc {
	if t == nil {
		return nil
	}
	if t.IsLeaf() {
		return &TreeDoc{Label: t.Label}
	}
	doc := &TreeDoc{Operator: string(t.Operator)}
	for _, c := range t.Children {
		doc.Children = append(doc.Children, EncodeTree(c))
	}
	return doc
}

// DecodeTree reconstructs a ProcessTree from its TreeDoc wire shape.
func DecodeTree(d *TreeDoc) *eventmodel.ProcessTree {
	if d == nil {
		return nil
	}
	if d.Operator == "" {
		return eventmodel.Leaf(d.Label)
	}
	children := make([]*eventmodel.ProcessTree, len(d.Children))
	for i, c := range d.Children {
		children[i] = DecodeTree(c)
	}
	return eventmodel.NewNode(eventmodel.Operator(d.Operator), children...)
}

// MarshalTree serializes a ProcessTree to JSON text.
func MarshalTree(t *eventmodel.ProcessTree) ([]byte, error) {
	return json.Marshal(EncodeTree(t))
}

// UnmarshalTree parses JSON text back into a ProcessTree.
func UnmarshalTree(data []byte) (*eventmodel.ProcessTree, error) {
	var doc *TreeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return DecodeTree(doc), nil
}
