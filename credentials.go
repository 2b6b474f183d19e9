package sazito

import (
	"encoding/json"
	"strconv"

	"github.com/Sazito/client-sdk/storage"
)

// Storage keys of the guest checkout credentials.
const (
	cartCredentialsKey     = "CART_CREDENTIALS"
	invoiceCredentialsKey  = "INVOICE_CREDENTIALS"
	shippingCredentialsKey = "SHIPPING_ADDRESS_CREDENTIALS"
	paymentCredentialsKey  = "PAYMENT_CREDENTIALS"
	discountCodeKey        = "DISCOUNT_CODE_INFO"
)

// Credentials let a guest resume a multi-step flow: the numeric id of the
// resource and the opaque identifier proving access to it.
type Credentials struct {
	ID         int64  `json:"id"`
	Identifier string `json:"identifier"`
}

type (
	CartCredentials            = Credentials
	InvoiceCredentials         = Credentials
	ShippingAddressCredentials = Credentials
	PaymentCredentials         = Credentials
)

// credentialsFrom reads id and identifier out of an SDK-shaped entity.
func credentialsFrom(data any) (Credentials, bool) {
	m, ok := data.(map[string]any)
	if !ok {
		return Credentials{}, false
	}
	var creds Credentials
	switch id := m["id"].(type) {
	case float64:
		creds.ID = int64(id)
	case int64:
		creds.ID = id
	case int:
		creds.ID = int64(id)
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return Credentials{}, false
		}
		creds.ID = n
	default:
		return Credentials{}, false
	}
	creds.Identifier, _ = m["identifier"].(string)
	return creds, true
}

// CredentialStore persists guest credentials as JSON strings. Storage
// failures are logged and read as absent; writes never fail the caller.
type CredentialStore struct {
	store  storage.Storage
	logger Logger
}

// NewCredentialStore wraps store. A nil store behaves as unavailable.
func NewCredentialStore(store storage.Storage, logger Logger) *CredentialStore {
	if store == nil {
		store = storage.Unavailable{}
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &CredentialStore{store: store, logger: logger}
}

func (s *CredentialStore) load(key string, v any) bool {
	raw, ok, err := s.store.Get(key)
	if err != nil {
		s.logger.Warn("reading credentials failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.logger.Warn("stored credentials are corrupted", "key", key, "error", err)
		return false
	}
	return true
}

func (s *CredentialStore) save(key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encoding credentials failed", "key", key, "error", err)
		return
	}
	if err := s.store.Set(key, string(b)); err != nil {
		s.logger.Warn("writing credentials failed", "key", key, "error", err)
	}
}

func (s *CredentialStore) remove(key string) {
	if err := s.store.Remove(key); err != nil {
		s.logger.Warn("removing credentials failed", "key", key, "error", err)
	}
}

func (s *CredentialStore) credentials(key string) (Credentials, bool) {
	var c Credentials
	if !s.load(key, &c) {
		return Credentials{}, false
	}
	return c, true
}

// Cart returns the stored cart credentials, if any.
func (s *CredentialStore) Cart() (CartCredentials, bool) { return s.credentials(cartCredentialsKey) }

// SetCart stores the cart credentials.
func (s *CredentialStore) SetCart(c CartCredentials) { s.save(cartCredentialsKey, c) }

// ClearCart forgets the cart. The next AddItem creates a new one.
func (s *CredentialStore) ClearCart() { s.remove(cartCredentialsKey) }

// Invoice returns the stored invoice credentials, if any.
func (s *CredentialStore) Invoice() (InvoiceCredentials, bool) {
	return s.credentials(invoiceCredentialsKey)
}

// SetInvoice stores the invoice credentials.
func (s *CredentialStore) SetInvoice(c InvoiceCredentials) { s.save(invoiceCredentialsKey, c) }

// ClearInvoice forgets the invoice.
func (s *CredentialStore) ClearInvoice() { s.remove(invoiceCredentialsKey) }

// ShippingAddress returns the stored shipping address credentials, if any.
func (s *CredentialStore) ShippingAddress() (ShippingAddressCredentials, bool) {
	return s.credentials(shippingCredentialsKey)
}

// SetShippingAddress stores the shipping address credentials.
func (s *CredentialStore) SetShippingAddress(c ShippingAddressCredentials) {
	s.save(shippingCredentialsKey, c)
}

// ClearShippingAddress forgets the shipping address.
func (s *CredentialStore) ClearShippingAddress() { s.remove(shippingCredentialsKey) }

// Payment returns the stored payment credentials, if any.
func (s *CredentialStore) Payment() (PaymentCredentials, bool) {
	return s.credentials(paymentCredentialsKey)
}

// SetPayment stores the payment credentials.
func (s *CredentialStore) SetPayment(c PaymentCredentials) { s.save(paymentCredentialsKey, c) }

// ClearPayment forgets the payment.
func (s *CredentialStore) ClearPayment() { s.remove(paymentCredentialsKey) }

// DiscountCode returns the last discount code applied to the invoice.
func (s *CredentialStore) DiscountCode() (string, bool) {
	var code string
	if !s.load(discountCodeKey, &code) {
		return "", false
	}
	return code, true
}

// SetDiscountCode stores the applied discount code.
func (s *CredentialStore) SetDiscountCode(code string) { s.save(discountCodeKey, code) }

// ClearDiscountCode forgets the discount code.
func (s *CredentialStore) ClearDiscountCode() { s.remove(discountCodeKey) }

// ClearAll removes every stored credential.
func (s *CredentialStore) ClearAll() {
	for _, key := range []string{
		cartCredentialsKey, invoiceCredentialsKey, shippingCredentialsKey,
		paymentCredentialsKey, discountCodeKey,
	} {
		s.remove(key)
	}
}
