package model

import (
	"encoding/json"
	"sort"
)

// Node represents a file or directory in the scanned tree.
// Directory sizes are aggregates over the children that were materialized;
// in fast mode the aggregate may be a sampled estimate.
type Node struct {
	Name     string
	Path     string
	Size     uint64
	IsDir    bool
	Children []*Node
}

// nodeJSON is the wire form sent to hosts. Children is a pointer so that it
// can be omitted for files while still serializing as [] for empty directories.
type nodeJSON struct {
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Size     uint64   `json:"size"`
	IsDir    bool     `json:"is_dir"`
	Children *[]*Node `json:"children,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (n *Node) MarshalJSON() ([]byte, error) {
	w := nodeJSON{
		Name:  n.Name,
		Path:  n.Path,
		Size:  n.Size,
		IsDir: n.IsDir,
	}
	if n.IsDir && n.Children != nil {
		children := n.Children
		w.Children = &children
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w nodeJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	n.Name = w.Name
	n.Path = w.Path
	n.Size = w.Size
	n.IsDir = w.IsDir
	n.Children = nil
	if w.Children != nil {
		n.Children = *w.Children
	}
	return nil
}

// SortBySize sorts nodes by size, largest first. The sort is stable so that
// equal-sized entries keep their enumeration order.
func SortBySize(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Size > nodes[j].Size
	})
}

// Find returns the node with the given path, searching depth-first.
func (n *Node) Find(path string) *Node {
	if n.Path == path {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(path); found != nil {
			return found
		}
	}
	return nil
}
