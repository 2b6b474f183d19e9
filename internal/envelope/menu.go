package envelope

// MenuItem is one navigable entry of a storefront menu.
type MenuItem struct {
	Name     string     `json:"name"`
	URL      string     `json:"url"`
	Children []MenuItem `json:"children"`
}

const menuNodeURL = "url"

// Menu cleans every node of tree.treeStructure.nodes.
func Menu(data any) any {
	m, ok := asMap(data)
	if !ok {
		return data
	}
	tree, ok := asMap(m["tree"])
	if !ok {
		return data
	}
	out := without(m)
	out["tree"] = withTreeNodes(tree, cleanMenuNode)
	return out
}

// MenuNodes returns the top-level nodes of a menu payload.
func MenuNodes(data any) []any {
	nodes, _ := asSlice(dig(data, "tree", "treeStructure", "nodes"))
	return nodes
}

func cleanMenuNode(node map[string]any) map[string]any {
	out := map[string]any{}
	if truthy(node["entityType"]) {
		out["entityType"] = node["entityType"]
	}
	if id, ok := node["entityId"]; ok {
		out["entityId"] = id
	}
	if entity, ok := asMap(node["entity"]); ok {
		if cleaned := without(entity, "staticUrl", "id"); len(cleaned) > 0 {
			out["entity"] = cleaned
		}
	}
	if truthy(node["details"]) {
		out["details"] = node["details"]
	}
	if children, ok := asSlice(node["children"]); ok {
		out["children"] = mapEach(children, cleanMenuNode)
	}
	return out
}

// Navigation converts menu nodes into menu items. Entity nodes whose entity is
// not enabled are dropped together with their children.
func Navigation(nodes []any) []MenuItem {
	items := make([]MenuItem, 0, len(nodes))
	for _, raw := range nodes {
		node, ok := asMap(raw)
		if !ok {
			continue
		}
		kind := asString(node["entityType"])
		if ParseEntityKind(kind) != EntityUnknown && !truthy(dig(node, "entity", "enabled")) {
			continue
		}
		children, _ := asSlice(node["children"])
		items = append(items, MenuItem{
			Name:     nodeTitle(node, kind),
			URL:      nodeURL(node, kind),
			Children: Navigation(children),
		})
	}
	return items
}

// nodeTitle prefers a custom title from details unless the node uses the
// default entity title.
func nodeTitle(node map[string]any, kind string) string {
	details, hasDetails := asMap(node["details"])
	if hasDetails && !truthy(details["isTitleDefault"]) {
		if title := asString(details["title"]); title != "" {
			return title
		}
		if name := asString(details["name"]); name != "" {
			return name
		}
	}
	if ParseEntityKind(kind) != EntityUnknown {
		return asString(dig(node, "entity", "name"))
	}
	return ""
}

func nodeURL(node map[string]any, kind string) string {
	var url string
	switch {
	case ParseEntityKind(kind) != EntityUnknown:
		url = asString(dig(node, "entity", "url"))
	case kind == menuNodeURL:
		url = asString(dig(node, "details", "url"))
	}
	if url == "" {
		return "#"
	}
	return url
}
