package transform

// fieldPair maps one wire field name to its SDK name.
type fieldPair struct {
	wire string
	sdk  string
}

// fieldNames is the beautification dictionary. Several wire names collapse to
// the same SDK name, so order matters: the reverse map keeps the first wire name
// listed for each SDK name.
var fieldNames = []fieldPair{
	// quantities and prices
	{"no_of_items", "quantity"},
	{"single_item_price", "unitPrice"},
	{"total_items_price", "lineTotal"},
	{"items_total_raw_price", "totalOriginalPrice"},
	{"items_discount", "totalDiscount"},
	{"customer_profit", "savings"},
	{"customer_profit_percentage", "savingsPercentage"},
	{"total_amount", "totalAmount"},
	{"net_total", "subtotal"},
	{"gross_total", "total"},
	{"final_total", "finalTotal"},
	{"discount_total", "discountTotal"},
	{"shipping_total", "shippingTotal"},
	{"tax_total", "taxTotal"},

	// identifiers
	{"unique_identifier", "identifier"},
	{"invoice_identifier", "identifier"},
	{"payment_identifier", "identifier"},
	{"shipping_address_identifier", "identifier"},

	// people and addresses
	{"first_name", "firstName"},
	{"last_name", "lastName"},
	{"mobile_phone", "mobilePhone"},
	{"phone_number", "phoneNumber"},
	{"postal_code", "postalCode"},
	{"user_comment", "comment"},

	// products
	{"product_id", "productId"},
	{"variant_id", "variantId"},
	{"product_name", "name"},
	{"product_image", "image"},
	{"product_variant", "variant"},
	{"product_variants", "variants"},
	{"product_categories", "categories"},
	{"product_attributes", "attributes"},
	{"product_type", "productType"},

	// catalog and content
	{"title", "name"},
	{"short_description", "shortDescription"},
	{"stock_quantity", "stockQuantity"},
	{"stock_number", "stockQuantity"},
	{"sale_price", "salePrice"},
	{"raw_price", "originalPrice"},
	{"has_max_order", "hasMaxOrder"},
	{"max_no_of_order", "maxOrderQuantity"},
	{"min_order_count", "minOrderQuantity"},
	{"sold_count", "soldCount"},
	{"static_url", "staticUrl"},
	{"dynamic_form_id", "dynamicFormId"},
	{"event_entity_id", "eventEntityId"},
	{"theme_config", "themeConfig"},
	{"image_id", "imageId"},
	{"is_stock_managed", "isStockManaged"},
	{"commercial_files", "commercialFiles"},
	{"sort_index", "sortIndex"},
	{"attribute_type", "attributeType"},

	// carts, invoices and lists
	{"cart_products", "items"},
	{"cart_product_id", "cartProductId"},
	{"invoice_items", "items"},
	{"products", "items"},
	{"total_count", "total"},

	// shipping
	{"shipping_method_needed", "needsShipping"},
	{"shipping_method", "shippingMethod"},
	{"shipping_address", "shippingAddress"},
	{"shipping_items", "shippingItems"},
	{"delivery_time", "deliveryTime"},
	{"min_delivery_days", "minDays"},
	{"max_delivery_days", "maxDays"},

	// payments
	{"payment_type", "paymentType"},
	{"payment_types", "methods"},
	{"reference_code", "code"},
	{"is_default", "isDefault"},
	{"is_available", "isAvailable"},
	{"delete_coupon", "deleteCoupon"},

	// forms
	{"form_attributes", "formAttributes"},
	{"booking_attributes", "bookingAttributes"},
	{"readable_form_attr", "formFields"},

	{"created_at", "createdAt"},
	{"updated_at", "updatedAt"},

	// pagination and filters
	{"page_number", "page"},
	{"page_size", "pageSize"},
	{"total_count_raw", "totalCountRaw"},
	{"max_price", "maxPrice"},
	{"min_price", "minPrice"},
	{"stock_alert_limit", "stockAlertLimit"},
	{"sub_categories", "subCategories"},
	{"order_number", "orderNumber"},
	{"sort_order", "sortOrder"},
	{"pinned_ids", "pinnedIds"},
	{"region_id", "regionId"},
	{"city_id", "cityId"},
	{"parent_id", "parentId"},
	{"discount_code", "discountCode"},

	// entity routes
	{"entity_name", "entityType"},
	{"entity_id", "entityId"},
	{"other_props", "entity"},

	// shipping methods and rates
	{"shipping_methods", "shippingMethods"},
	{"shipping_rates", "shippingRates"},
	{"grouped_shipping_rates", "groupedShippingRates"},
	{"items_shipping_rate", "itemsShippingRate"},
	{"shipping_rate", "shippingRate"},
	{"rate_id", "rateId"},
	{"invoice_item_id", "invoiceItemId"},
	{"invoice_item_ids", "invoiceItemIds"},

	{"scheduler_booking_attributes", "schedulerBookingAttributes"},
	{"inventory_count", "inventoryCount"},
	{"order_identifier", "orderIdentifier"},
	{"self_only", "selfOnly"},
	{"coupon", "coupon"},
	{"user_set_coordinates_before", "userSetCoordinatesBefore"},
	{"alt", "alt"},
	{"url", "url"},

	// shop feature flags
	{"activate_add_to_cart_alert", "addToCardAlert"},
	{"activate_advanced_card_to_card", "advancedCardToCard"},
	{"activate_ayria_payment_customization", "ayriaPaymentGateway"},
	{"activate_azki_payment_customization", "azkiPaymentGateway"},
	{"activate_bazar_payment_customization", "bazarPaymentGateway"},
	{"activate_blog", "shopBlog"},
	{"activate_card_to_card_payment", "cardToCardPayment"},
	{"activate_checkout_dynamic_form", "checkoutDynamicForm"},
	{"activate_different_register_customization", "multiTypeRegister"},
	{"activate_digipay_payment", "digipayPaymentGateway"},
	{"activate_digipay_payment_customization", "digipayPaymentGateway"},
	{"activate_filter_products", "productFilters"},
	{"activate_ghesta_payment_customization", "ghestaPaymentGateway"},
	{"activate_mega_footer", "megaFooter"},
	{"activate_mellat_payment_customization", "mellatPaymentGateway"},
	{"activate_min_basket", "checkoutMinimumAmount"},
	{"activate_novapay_payment_customization", "novapayPaymentGateway"},
	{"activate_ozon_payment_customization", "ozonPaymentGateway"},
	{"activate_payment_in_place", "paymentInPlace"},
	{"activate_payping_payment", "paypingPaymentGateway"},
	{"activate_pec_payment_customization", "pecPaymentGateway"},
	{"activate_sabin_payment_customization", "sabinPaymentGateway"},
	{"activate_sadad_payment_customization", "sadadPaymentGateway"},
	{"activate_search", "shopSearch"},
	{"activate_sep_payment_customization", "sepPaymentGateway"},
	{"activate_shop_vat", "shopVat"},
	{"activate_snapppay_payment_customization", "snapppayPaymentGateway"},
	{"activate_tajrobe", "tajrobe"},
	{"activate_tara_payment_customization", "taraPaymentGateway"},
	{"activate_theme_config_settings", "themeConfigSettings"},
	{"activate_toman_payment_customization", "tomanPaymentGateway"},
	{"activate_torobpay_payment_customization", "torobpayPaymentGateway"},
	{"activate_up_payment_customization", "asanpardakhtPaymentGateway"},
	{"activate_vandar_payment_customization", "vandarPaymentGateway"},
	{"activate_wallet", "wallet"},
	{"activate_yourgate_payment_customization", "yourgatePaymentGateway"},
	{"activate_zarinpal_payment", "zarinpalPaymentGateway"},
	{"activate_zarinplus_payment_customization", "zarinplusPaymentGateway"},
	{"activate_zibal_payment_customization", "zibalPaymentGateway"},
	{"activate_zify_payment_customization", "zifyPaymentGateway"},
	{"disable_ordering", "disableOrdering"},
	{"pwa", "progressiveWebApp"},
	{"remove_front_basket", "hideCheckout"},
	{"remove_front_taint", "sazitoBrandingRemoval"},
}

// Dictionary is an immutable pair of lookup tables built from fieldNames.
type Dictionary struct {
	toSDK  map[string]string
	toWire map[string]string

	// Position of each name in the pair list, used to settle key collisions.
	wireRank map[string]int
	sdkRank  map[string]int
}

func newDictionary(pairs []fieldPair) *Dictionary {
	d := &Dictionary{
		toSDK:  make(map[string]string, len(pairs)),
		toWire: make(map[string]string, len(pairs)),

		wireRank: make(map[string]int, len(pairs)),
		sdkRank:  make(map[string]int, len(pairs)),
	}
	for i, p := range pairs {
		d.wireRank[p.wire] = i
		d.sdkRank[p.sdk] = i
		if _, seen := d.toSDK[p.wire]; !seen {
			d.toSDK[p.wire] = p.sdk
		}
		// First wire name wins: items -> cart_products, identifier -> unique_identifier.
		if _, seen := d.toWire[p.sdk]; !seen {
			d.toWire[p.sdk] = p.wire
		}
	}
	return d
}

var defaultDictionary = newDictionary(fieldNames)

// Default returns the shared field-name dictionary.
func Default() *Dictionary {
	return defaultDictionary
}

// SDKName returns the SDK name for a wire key.
func (d *Dictionary) SDKName(wire string) string {
	if name, ok := d.toSDK[wire]; ok {
		return name
	}
	return SnakeToCamel(wire)
}

// WireName returns the wire name for an SDK key. Collapsed names resolve to the
// first wire name that produced them, so the mapping is lossy.
func (d *Dictionary) WireName(sdk string) string {
	if name, ok := d.toWire[sdk]; ok {
		return name
	}
	return CamelToSnake(sdk)
}

// Len reports the number of distinct wire names.
func (d *Dictionary) Len() int {
	return len(d.toSDK)
}
