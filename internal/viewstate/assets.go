package viewstate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/plantops/ot/internal/types"
)

// Asset hierarchy levels, outermost first.
var assetIcons = map[string]string{
	"empresa":  "🏢",
	"planta":   "🏭",
	"zona":     "📍",
	"linea":    "⚡",
	"maquina":  "⚙️",
	"elemento": "🔧",
}

// PathSeparator joins ancestor names in an asset path.
const PathSeparator = " > "

// AssetIcon returns the icon for an asset level, or "" for unknown levels.
func AssetIcon(assetType string) string {
	return assetIcons[assetType]
}

// ParseAssetNodeID splits a tree node id of the form "<type>-<id>".
func ParseAssetNodeID(nodeID string) (string, int64, error) {
	kind, rawID, ok := strings.Cut(nodeID, "-")
	if !ok || kind == "" {
		return "", 0, fmt.Errorf("invalid asset node id %q", nodeID)
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("invalid asset node id %q", nodeID)
	}
	return kind, id, nil
}

// TreeEntry is a node of the asset tree with its position.
type TreeEntry struct {
	Node      types.AssetNode
	Depth     int
	Ancestors []string
}

// Path is the ancestor texts and the node text joined by PathSeparator.
func (e TreeEntry) Path() string {
	parts := append(append([]string(nil), e.Ancestors...), e.Node.Text)
	return strings.Join(parts, PathSeparator)
}

// FlattenTree lists the tree in depth-first order.
func FlattenTree(tree []types.AssetNode) []TreeEntry {
	var out []TreeEntry
	var walk func(nodes []types.AssetNode, ancestors []string)
	walk = func(nodes []types.AssetNode, ancestors []string) {
		for _, n := range nodes {
			out = append(out, TreeEntry{
				Node:      n,
				Depth:     len(ancestors),
				Ancestors: ancestors,
			})
			if len(n.Children) > 0 {
				next := append(append([]string(nil), ancestors...), n.Text)
				walk(n.Children, next)
			}
		}
	}
	walk(tree, nil)
	return out
}

// SelectNode builds the selection for the node nodeID of tree.
func SelectNode(tree []types.AssetNode, nodeID string) (AssetSelection, error) {
	kind, id, err := ParseAssetNodeID(nodeID)
	if err != nil {
		return AssetSelection{}, err
	}
	for _, e := range FlattenTree(tree) {
		if e.Node.ID == nodeID {
			return AssetSelection{
				Type: kind,
				ID:   id,
				Path: e.Path(),
				Icon: AssetIcon(kind),
			}, nil
		}
	}
	return AssetSelection{}, fmt.Errorf("asset %s not found", nodeID)
}
