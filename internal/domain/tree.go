package domain

import "sort"

// CategoryNode is one category with its children, for display of a user's forest.
type CategoryNode struct {
	Category Category
	Children []*CategoryNode
}

// BuildForest arranges categories into trees ordered by name.
// Categories whose parent is not in the slice are treated as roots.
func BuildForest(categories []Category) []*CategoryNode {
	nodes := make(map[int64]*CategoryNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &CategoryNode{Category: c}
	}

	var roots []*CategoryNode
	for _, c := range categories {
		node := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortNodes(roots)
	return roots
}

// Walk visits every node depth first, passing its depth (roots are 0).
// Each node is visited at most once.
func Walk(roots []*CategoryNode, visit func(node *CategoryNode, depth int)) {
	seen := make(map[int64]bool)
	var walk func(nodes []*CategoryNode, depth int)
	walk = func(nodes []*CategoryNode, depth int) {
		for _, n := range nodes {
			if seen[n.Category.ID] {
				continue
			}
			seen[n.Category.ID] = true
			visit(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(roots, 0)
}

func sortNodes(nodes []*CategoryNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Category.Name < nodes[j].Category.Name
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}
