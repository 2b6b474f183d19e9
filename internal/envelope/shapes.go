package envelope

import "math"

const defaultBucketPageSize = 20

// CleanProduct drops storefront-internal product fields and trims nested
// variants, categories and images.
func CleanProduct(p map[string]any) map[string]any {
	if p == nil {
		return nil
	}
	out := without(p, "staticUrl", "summary", "tags", "slug")

	if variants, ok := asSlice(out["variants"]); ok {
		out["variants"] = mapEach(variants, func(v map[string]any) map[string]any {
			return without(v, "title", "product", "status", "soldCount")
		})
	}
	if categories, ok := asSlice(out["categories"]); ok {
		out["categories"] = mapEach(categories, func(c map[string]any) map[string]any {
			kept := make(map[string]any, 3)
			for _, k := range []string{"id", "name", "url"} {
				if v, ok := c[k]; ok {
					kept[k] = v
				}
			}
			return kept
		})
	}
	if images, ok := asSlice(out["images"]); ok {
		out["images"] = mapEach(images, func(img map[string]any) map[string]any {
			return without(img, "widthRatio", "heightRatio", "thumb")
		})
	}
	return out
}

// CleanCategory drops fields that are empty or redundant in category payloads.
func CleanCategory(c map[string]any) map[string]any {
	if c == nil {
		return nil
	}
	return without(c, "staticUrl", "products", "items")
}

// CleanPage drops the internal static URL of a CMS or blog page.
func CleanPage(p map[string]any) map[string]any {
	if p == nil {
		return nil
	}
	return without(p, "staticUrl")
}

// ProductList reshapes a product listing into {items, total, page, pageSize, totalPages}.
func ProductList(data any) any {
	m, ok := asMap(data)
	if !ok {
		return data
	}
	items, ok := asSlice(m["items"])
	if !ok {
		return data
	}
	count := float64(len(items))
	total := number(firstOf(m["total"], count))
	pageSize := number(firstOf(m["pageSize"], count))

	totalPages := number(m["totalPages"])
	if totalPages == 0 && pageSize > 0 {
		totalPages = math.Ceil(total / pageSize)
	}

	return map[string]any{
		"items":      mapEach(items, CleanProduct),
		"total":      total,
		"page":       number(firstOf(m["page"], float64(1))),
		"pageSize":   pageSize,
		"totalPages": totalPages,
	}
}

type searchBucket struct {
	name   string
	source string
	prefix string
	clean  func(map[string]any) map[string]any
}

// The backend's products and product_categories keys arrive renamed to items
// and categories.
var searchBuckets = []searchBucket{
	{"products", "items", "products", CleanProduct},
	{"blogPages", "blogPages", "blogPages", CleanPage},
	{"cmsPages", "cmsPages", "cmsPages", CleanPage},
	{"productCategories", "categories", "productCategories", CleanCategory},
}

// Search splits a mixed search payload into one paginated bucket per entity type.
func Search(data any) any {
	m, ok := asMap(data)
	if !ok {
		return data
	}
	out := make(map[string]any, len(searchBuckets))
	for _, b := range searchBuckets {
		bucket := map[string]any{
			"items":    []any{},
			"total":    float64(0),
			"page":     float64(1),
			"pageSize": float64(defaultBucketPageSize),
		}
		if items, ok := asSlice(m[b.source]); ok {
			bucket["items"] = mapEach(items, b.clean)
			bucket["total"] = number(m[b.prefix+"Count"])
			bucket["page"] = number(firstOf(m[b.prefix+"PageNumber"], float64(1)))
			bucket["pageSize"] = number(firstOf(m[b.prefix+"PageSize"], float64(defaultBucketPageSize)))
		}
		out[b.name] = bucket
	}
	return out
}

// EntityRoute extracts and cleans the route object of an entity-route payload.
// The entity's id is dropped in favour of the root entityId and the root url is
// back-filled from the entity. ok is false when the payload has no route.
func EntityRoute(data any) (route map[string]any, ok bool) {
	m, isMap := asMap(data)
	if !isMap {
		return nil, false
	}
	raw, isMap := asMap(m["route"])
	if !isMap {
		return nil, false
	}
	route = without(raw)

	entity, hasEntity := asMap(route["entity"])
	if !hasEntity {
		return route, true
	}
	kind := ParseEntityKind(asString(route["entityType"]))
	entity = without(kind.Clean(entity), "id")
	route["entity"] = entity

	if !truthy(route["url"]) && truthy(entity["url"]) {
		route["url"] = entity["url"]
	}
	return route, true
}

// CategoryList cleans the flat category list and the category tree.
func CategoryList(data any) any {
	m, ok := asMap(data)
	if !ok {
		return data
	}
	out := without(m)
	if categories, ok := asSlice(out["categories"]); ok {
		out["categories"] = mapEach(categories, CleanCategory)
	}
	if tree, ok := asMap(out["tree"]); ok {
		out["tree"] = withTreeNodes(tree, cleanCategoryNode)
	}
	return out
}

func cleanCategoryNode(node map[string]any) map[string]any {
	out := without(node)
	if entity, ok := asMap(out["entity"]); ok {
		out["entity"] = CleanCategory(entity)
	}
	if children, ok := asSlice(out["children"]); ok {
		out["children"] = mapEach(children, cleanCategoryNode)
	}
	return out
}

// withTreeNodes copies tree and applies fn to tree.treeStructure.nodes.
func withTreeNodes(tree map[string]any, fn func(map[string]any) map[string]any) map[string]any {
	structure, ok := asMap(tree["treeStructure"])
	if !ok {
		return tree
	}
	nodes, ok := asSlice(structure["nodes"])
	if !ok {
		return tree
	}
	structure = without(structure)
	structure["nodes"] = mapEach(nodes, fn)
	out := without(tree)
	out["treeStructure"] = structure
	return out
}

// Category selects the productCategory wrapper when present and cleans it.
func Category(data any) any {
	m, ok := asMap(data)
	if !ok {
		return data
	}
	if inner, ok := asMap(m["productCategory"]); ok {
		return CleanCategory(inner)
	}
	return CleanCategory(m)
}

// CMSList reshapes a CMS page listing into {items, total, page, pageSize}.
func CMSList(data any) any {
	m, ok := asMap(data)
	if !ok {
		return data
	}
	items, ok := asSlice(m["cmsPages"])
	if !ok {
		if items, ok = asSlice(m["items"]); !ok {
			return data
		}
	}
	count := float64(len(items))
	return map[string]any{
		"items":    mapEach(items, CleanPage),
		"total":    number(firstOf(m["total"], count)),
		"page":     number(firstOf(m["page"], m["pageNumber"], float64(1))),
		"pageSize": number(firstOf(m["pageSize"], count)),
	}
}

// CMSPage selects the cmsPage wrapper when present and cleans it.
func CMSPage(data any) any {
	m, ok := asMap(data)
	if !ok {
		return data
	}
	if inner, ok := asMap(m["cmsPage"]); ok {
		return CleanPage(inner)
	}
	return CleanPage(m)
}

// GeneralInfo merges the general and shop sections into a single shop object.
func GeneralInfo(data any) any {
	m, ok := asMap(data)
	if !ok {
		return data
	}
	shop := map[string]any{}
	for _, section := range []string{"general", "shop"} {
		if s, ok := asMap(m[section]); ok {
			for k, v := range s {
				shop[k] = v
			}
		}
	}
	out := without(m, "general")
	out["shop"] = shop
	return out
}

// Cart adds a flattened product summary to every cart line.
func Cart(data any) any {
	m, ok := asMap(data)
	if !ok {
		return data
	}
	items, ok := asSlice(m["items"])
	if !ok {
		return data
	}
	out := without(m)
	out["items"] = mapEach(items, func(item map[string]any) map[string]any {
		line := without(item)
		product := map[string]any{
			"variantId":   firstOf(dig(item, "variant", "id"), dig(item, "product", "variantId")),
			"productId":   firstOf(dig(item, "variant", "product", "id"), dig(item, "product", "productId")),
			"name":        firstOf(item["name"], dig(item, "product", "name")),
			"image":       firstOf(item["image"], dig(item, "product", "image")),
			"attributes":  firstOf(item["attributes"], dig(item, "product", "attributes"), []any{}),
			"hasMaxOrder": firstOf(dig(item, "product", "hasMaxOrder"), false),
		}
		if v := dig(item, "product", "maxOrderQuantity"); v != nil {
			product["maxOrderQuantity"] = v
		}
		if v := dig(item, "product", "minOrderQuantity"); v != nil {
			product["minOrderQuantity"] = v
		}
		line["product"] = product
		return line
	})
	return out
}

// Invoice fills each line's discount from its original and unit price when
// the backend omits it.
func Invoice(data any) any {
	m, ok := asMap(data)
	if !ok {
		return data
	}
	items, ok := asSlice(m["items"])
	if !ok {
		return data
	}
	out := without(m)
	out["items"] = mapEach(items, func(item map[string]any) map[string]any {
		line := without(item)
		if !truthy(item["discount"]) {
			discount := float64(0)
			if truthy(item["originalPrice"]) {
				discount = number(item["originalPrice"]) - number(item["unitPrice"])
			}
			line["discount"] = discount
		}
		return line
	})
	return out
}

// PaymentMethods exposes a paymentTypes list under methods.
func PaymentMethods(data any) any {
	m, ok := asMap(data)
	if !ok {
		return data
	}
	if types, ok := m["paymentTypes"]; ok && truthy(types) {
		return map[string]any{"methods": types}
	}
	return data
}
