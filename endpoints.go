package sazito

// API routes, relative to Config.BaseURL.
const (
	ProductsAPI           = "/api/v1/products"
	ProductCategoriesAPI  = "/api/v1/product_categories"
	SearchAPI             = "/api/v1/search"
	TagsAPI               = "/api/v1/tags"
	CartsAPI              = "/api/v2/carts"
	InvoicesAPI           = "/api/v2/invoices"
	InvoicesV1API         = "/api/v1/invoices"
	ShippingAddressesAPI  = "/api/v2/shipping_addresses"
	ShippingMethodsAPI    = "/api/v2/shipping_methods"
	PaymentsAPI           = "/api/v2/payments"
	OrdersAPI             = "/api/v1/orders"
	UsersAPI              = "/api/v1/users"
	SessionsAPI           = "/api/v1/sessions"
	FeedbacksAPI          = "/api/v1/feedbacks"
	CMSPagesAPI           = "/api/v1/cms_pages"
	WalletAPI             = "/api/v1/wallet"
	WalletTransactionsAPI = "/api/v1/wallet/transactions"
	EntityRouteAPI        = "/api/v1/entity_route/route"
	MenuAPI               = "/api/v1/trees/fetch_single"
	GeneralAPI            = "/api/v2/general/info"
	ImagesAPI             = "/api/v1/images"
	VisitsAPI             = "/api/v1/visits"
	SchedulerEventsAPI    = "/api/v1/scheduler/events"
	SchedulerBookingsAPI  = "/api/v1/scheduler/bookings"
)
