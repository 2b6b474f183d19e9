package envelope

// EntityKind is the closed set of entity families an entity route can resolve to.
type EntityKind int

const (
	EntityUnknown EntityKind = iota
	EntityProduct
	EntityCategory
	EntityCMSPage
	EntityBlogPage
)

// ParseEntityKind maps the backend entity type name onto an EntityKind.
func ParseEntityKind(name string) EntityKind {
	switch name {
	case "product":
		return EntityProduct
	case "product_category":
		return EntityCategory
	case "cms_page":
		return EntityCMSPage
	case "blog_page":
		return EntityBlogPage
	default:
		return EntityUnknown
	}
}

// String returns the backend entity type name.
func (k EntityKind) String() string {
	switch k {
	case EntityProduct:
		return "product"
	case EntityCategory:
		return "product_category"
	case EntityCMSPage:
		return "cms_page"
	case EntityBlogPage:
		return "blog_page"
	case EntityUnknown:
		return "unknown"
	}
	return "unknown"
}

// IsPage reports whether k is a CMS or blog page.
func (k EntityKind) IsPage() bool {
	return k == EntityCMSPage || k == EntityBlogPage
}

// Clean applies the cleanup for kind to entity.
func (k EntityKind) Clean(entity map[string]any) map[string]any {
	switch k {
	case EntityProduct:
		return CleanProduct(entity)
	case EntityCategory:
		return CleanCategory(entity)
	case EntityCMSPage, EntityBlogPage:
		return CleanPage(entity)
	case EntityUnknown:
		return entity
	}
	return entity
}
