package handler

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmeshcher/beautify-storefront/internal/account"
	"github.com/mmeshcher/beautify-storefront/internal/catalog"
	"github.com/mmeshcher/beautify-storefront/internal/checkout"
	"github.com/mmeshcher/beautify-storefront/internal/middleware"
	"github.com/mmeshcher/beautify-storefront/internal/model"
	"github.com/mmeshcher/beautify-storefront/internal/repository"
	"github.com/mmeshcher/beautify-storefront/internal/search"
	"github.com/mmeshcher/beautify-storefront/internal/service"
)

func ptr[T any](v T) *T { return &v }

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	c, err := catalog.New([]model.Product{
		{ID: 1, Name: "Niacinamide 10% + Zinc 1%", Brand: "The Ordinary", Category: "Serums", Price: 1500, OriginalPrice: ptr(int64(2000)), OnSale: true, StockStatus: model.StockInStock},
		{ID: 2, Name: "Hydrating Toner", Brand: "Klairs", Category: "Toners", Price: 1000, HasB2G1: true, StockStatus: model.StockInStock},
		{ID: 3, Name: "Vitamin C Serum", Brand: "Klairs", Category: "Serums", Price: 4500, StockStatus: model.StockLowStock},
		{ID: 4, Name: "Glow Set", Brand: "Klairs", Category: "Sets & Bundles", Price: 5000, StockStatus: model.StockInStock, IsBundle: true, BundleItems: []int64{2, 3}},
	})
	require.NoError(t, err)
	return c
}

func newTestService(t *testing.T) *service.Service {
	t.Helper()

	kv := repository.NewMemoryRepository()
	accounts := account.NewManager(kv, nil, account.WithDelays(account.Delays{}))
	orders := checkout.NewProcessor(kv, nil,
		checkout.WithDelays(checkout.Delays{}),
		checkout.WithOrderNumbers(func() string { return "BT-24680" }),
	)
	return service.NewService(testCatalog(t), accounts, orders, nil, service.Config{})
}

func newTestHandler(t *testing.T, svc Service) *Handler {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	return NewHandler(svc, logger, middleware.NewSessionMiddleware("test-secret"))
}

// client хранит cookie сессии между запросами.
type client struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newClient(t *testing.T, svc Service) *client {
	return &client{t: t, handler: newTestHandler(t, svc).SetupRouter()}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}

	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("Content-Type", "application/json")
	for _, ck := range c.cookies {
		r.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, r)

	if set := w.Result().Cookies(); len(set) > 0 {
		c.cookies = set
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestListProducts(t *testing.T) {
	c := newClient(t, newTestService(t))

	tests := []struct {
		name      string
		path      string
		wantCode  int
		wantIDs   []int64
		wantPages int
	}{
		{name: "all", path: "/api/catalog/products", wantCode: http.StatusOK, wantIDs: []int64{1, 2, 3, 4}, wantPages: 1},
		{name: "category", path: "/api/catalog/products?category=Serums", wantCode: http.StatusOK, wantIDs: []int64{1, 3}, wantPages: 1},
		{name: "sorted", path: "/api/catalog/products?sort=price-high", wantCode: http.StatusOK, wantIDs: []int64{4, 3, 1, 2}, wantPages: 1},
		{name: "query", path: "/api/catalog/products?q=toner", wantCode: http.StatusOK, wantIDs: []int64{2}, wantPages: 1},
		{name: "no match", path: "/api/catalog/products?brand=Nobody", wantCode: http.StatusOK, wantIDs: []int64{}, wantPages: 0},
		{name: "bad page", path: "/api/catalog/products?page=two", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := c.do(http.MethodGet, tt.path, nil)
			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode != http.StatusOK {
				return
			}

			page := decode[pageResponse](t, w)
			ids := make([]int64, 0, len(page.Items))
			for _, p := range page.Items {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, 1, page.Page)
			assert.Equal(t, tt.wantPages, page.TotalPages)
		})
	}
}

func TestGetProduct(t *testing.T) {
	c := newClient(t, newTestService(t))

	w := c.do(http.MethodGet, "/api/catalog/products/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[productResponse](t, w)
	assert.Equal(t, "Niacinamide 10% + Zinc 1%", p.Name)
	assert.Equal(t, 25, p.SalePercent)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/catalog/products/99", nil).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/api/catalog/products/abc", nil).Code)
}

func TestGetBundles(t *testing.T) {
	c := newClient(t, newTestService(t))

	w := c.do(http.MethodGet, "/api/catalog/bundles", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var bundles []struct {
		ID    int64 `json:"id"`
		Items []struct {
			ID int64 `json:"id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bundles))
	require.Len(t, bundles, 1)
	assert.Equal(t, int64(4), bundles[0].ID)
	assert.Len(t, bundles[0].Items, 2)
}

func TestGetFacets(t *testing.T) {
	c := newClient(t, newTestService(t))

	w := c.do(http.MethodGet, "/api/catalog/facets", nil)
	require.Equal(t, http.StatusOK, w.Code)

	f := decode[service.Facets](t, w)
	assert.Equal(t, []string{"Klairs", "The Ordinary"}, f.Brands)
	assert.Equal(t, int64(10000), f.PriceCeiling)
}

func TestCartFlow(t *testing.T) {
	c := newClient(t, newTestService(t))

	w := c.do(http.MethodPost, "/api/cart/items", addItemRequest{ProductID: 2, Quantity: 3})
	require.Equal(t, http.StatusOK, w.Code)
	cart := decode[cartResponse](t, w)
	assert.Equal(t, 3, cart.ItemCount)
	assert.InDelta(t, 3000, cart.Subtotal, 0.001)
	assert.InDelta(t, 1000, cart.Discounts.B2G1, 0.001)
	assert.InDelta(t, 500, cart.Shipping, 0.001)
	assert.InDelta(t, 2500, cart.Total, 0.001)

	w = c.do(http.MethodPut, "/api/cart/coupon", codeRequest{Code: "WELCOME10"})
	require.Equal(t, http.StatusOK, w.Code)
	cart = decode[cartResponse](t, w)
	require.NotNil(t, cart.Coupon)
	assert.InDelta(t, 300, cart.Discounts.Coupon, 0.001)
	assert.InDelta(t, 1300, cart.Discount, 0.001)

	w = c.do(http.MethodPut, "/api/cart/coupon", codeRequest{Code: "BOGUS"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = c.do(http.MethodPatch, "/api/cart/items/2", map[string]int{"quantity": 6})
	require.Equal(t, http.StatusOK, w.Code)
	cart = decode[cartResponse](t, w)
	assert.InDelta(t, 0, cart.Shipping, 0.001)

	w = c.do(http.MethodPut, "/api/cart/shipping", shippingRequest{Method: "express"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 1200, decode[cartResponse](t, w).Shipping, 0.001)

	w = c.do(http.MethodPut, "/api/cart/shipping", shippingRequest{Method: "drone"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = c.do(http.MethodPost, "/api/cart/items/2/save", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cart = decode[cartResponse](t, w)
	assert.Empty(t, cart.Items)
	assert.Len(t, cart.SavedItems, 1)

	w = c.do(http.MethodPost, "/api/cart/saved/2/move", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[cartResponse](t, w).Items, 1)

	w = c.do(http.MethodDelete, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cart = decode[cartResponse](t, w)
	assert.Empty(t, cart.Items)
	assert.Nil(t, cart.Coupon)
}

func TestCartValidation(t *testing.T) {
	c := newClient(t, newTestService(t))

	tests := []struct {
		name     string
		method   string
		path     string
		body     any
		wantCode int
	}{
		{name: "unknown product", method: http.MethodPost, path: "/api/cart/items", body: addItemRequest{ProductID: 42}, wantCode: http.StatusNotFound},
		{name: "missing product", method: http.MethodPost, path: "/api/cart/items", body: map[string]int{"quantity": 1}, wantCode: http.StatusBadRequest},
		{name: "missing quantity", method: http.MethodPatch, path: "/api/cart/items/1", body: map[string]int{}, wantCode: http.StatusBadRequest},
		{name: "empty coupon", method: http.MethodPut, path: "/api/cart/coupon", body: codeRequest{Code: "  "}, wantCode: http.StatusBadRequest},
		{name: "short referral", method: http.MethodPut, path: "/api/cart/referral", body: codeRequest{Code: "ABC"}, wantCode: http.StatusUnprocessableEntity},
		{name: "unknown gift card", method: http.MethodPut, path: "/api/cart/gift-card", body: codeRequest{Code: "GIFT1"}, wantCode: http.StatusUnprocessableEntity},
		{name: "bad item id", method: http.MethodDelete, path: "/api/cart/items/x", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, c.do(tt.method, tt.path, tt.body).Code)
		})
	}
}

func TestCartQuantityIsCapped(t *testing.T) {
	c := newClient(t, newTestService(t))

	w := c.do(http.MethodPost, "/api/cart/items", map[string]int64{"productId": 1, "quantity": math.MaxInt64})
	require.Equal(t, http.StatusOK, w.Code)
	w = c.do(http.MethodPost, "/api/cart/items", addItemRequest{ProductID: 1, Quantity: 1})
	require.Equal(t, http.StatusOK, w.Code)

	cart := decode[cartResponse](t, w)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, model.MaxQuantity, cart.Items[0].Quantity)

	w = c.do(http.MethodPatch, "/api/cart/items/1", map[string]int64{"quantity": math.MaxInt64 / 1000})
	require.Equal(t, http.StatusOK, w.Code)

	cart = decode[cartResponse](t, w)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, model.MaxQuantity, cart.Items[0].Quantity)
	assert.InDelta(t, 1500*model.MaxQuantity, cart.Subtotal, 0.001)
	assert.Greater(t, cart.Total, 0.0)
}

func TestCartAcceptsGzipBody(t *testing.T) {
	h := newTestHandler(t, newTestService(t)).SetupRouter()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	require.NoError(t, json.NewEncoder(gz).Encode(addItemRequest{ProductID: 2, Quantity: 3}))
	require.NoError(t, gz.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/cart/items", &buf)
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Content-Encoding", "gzip")
	r.Header.Set("Accept-Encoding", "gzip")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	gr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	defer gr.Close()

	var cart cartResponse
	require.NoError(t, json.NewDecoder(gr).Decode(&cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.InDelta(t, 1000, cart.Discounts.B2G1, 0.001)
}

func TestSessionsDoNotShareCarts(t *testing.T) {
	svc := newTestService(t)
	alice := newClient(t, svc)
	bob := newClient(t, svc)

	require.Equal(t, http.StatusOK, alice.do(http.MethodPost, "/api/cart/items", addItemRequest{ProductID: 1, Quantity: 1}).Code)

	w := bob.do(http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[cartResponse](t, w).Items)
}

func TestWishlist(t *testing.T) {
	c := newClient(t, newTestService(t))

	w := c.do(http.MethodPost, "/api/wishlist/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[wishlistToggleResponse](t, w).InWishlist)

	w = c.do(http.MethodGet, "/api/wishlist", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]productResponse](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, int64(3), list[0].ID)

	w = c.do(http.MethodPost, "/api/wishlist/3", nil)
	assert.False(t, decode[wishlistToggleResponse](t, w).InWishlist)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/api/wishlist/77", nil).Code)
}

func TestNotification(t *testing.T) {
	c := newClient(t, newTestService(t))

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodGet, "/api/notification", nil).Code)

	c.do(http.MethodPost, "/api/cart/items", addItemRequest{ProductID: 1, Quantity: 1})

	w := c.do(http.MethodGet, "/api/notification", nil)
	require.Equal(t, http.StatusOK, w.Code)
	n := decode[notificationResponse](t, w)
	assert.Equal(t, "Niacinamide 10% + Zinc 1% added to cart!", n.Message)

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/notification", nil).Code)
	assert.Equal(t, http.StatusNoContent, c.do(http.MethodGet, "/api/notification", nil).Code)
}

func TestCheckout(t *testing.T) {
	c := newClient(t, newTestService(t))

	contact := checkout.Contact{FirstName: "Amina", LastName: "Otieno", Email: "amina@example.com", Street: "Riverside Drive", City: "Nairobi"}

	w := c.do(http.MethodPost, "/api/checkout", checkoutRequest{Contact: contact, Payment: checkout.PaymentCard})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "empty cart")

	c.do(http.MethodPost, "/api/cart/items", addItemRequest{ProductID: 3, Quantity: 2})

	w = c.do(http.MethodPost, "/api/checkout", checkoutRequest{Contact: contact, Payment: "cash"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "unknown payment")

	w = c.do(http.MethodPost, "/api/checkout", checkoutRequest{Contact: contact, Payment: checkout.PaymentMpesa, MpesaPhone: "0712345678"})
	require.Equal(t, http.StatusCreated, w.Code)
	o := decode[orderResponse](t, w)
	assert.Equal(t, "BT-24680", o.Number)
	assert.Equal(t, 2, o.ItemCount)
	assert.InDelta(t, 9000, o.Total, 0.001)

	w = c.do(http.MethodGet, "/api/cart", nil)
	assert.Empty(t, decode[cartResponse](t, w).Items)

	w = c.do(http.MethodGet, "/api/orders/bt-24680/tracking", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tr := decode[trackingResponse](t, w)
	assert.Equal(t, "BT-24680", tr.ID)
	assert.Equal(t, "Shipped", tr.Status)
	assert.Equal(t, 2, tr.Items)
}

func TestUserFlow(t *testing.T) {
	c := newClient(t, newTestService(t))

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/user", nil).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/user/login", credentialsRequest{Email: "a@b.c"}).Code)
	assert.Equal(t, http.StatusUnauthorized,
		c.do(http.MethodPost, "/api/user/addresses", model.Address{Street: "Moi Avenue", City: "Nairobi"}).Code)

	w := c.do(http.MethodPost, "/api/user/login", credentialsRequest{Email: "wanjiru@example.com", Password: "secret"})
	require.Equal(t, http.StatusOK, w.Code)
	u := decode[userResponse](t, w)
	assert.Equal(t, "wanjiru", u.Name)
	assert.Equal(t, "Silver Member", u.LoyaltyTier)

	w = c.do(http.MethodPatch, "/api/user", account.ProfileUpdate{Name: ptr("Wanjiru K.")})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Wanjiru K.", decode[userResponse](t, w).Name)

	w = c.do(http.MethodPost, "/api/user/addresses", model.Address{Type: model.AddressWork, Street: "Moi Avenue", City: "Nairobi", IsDefault: true})
	require.Equal(t, http.StatusCreated, w.Code)
	u = decode[userResponse](t, w)
	require.Len(t, u.Addresses, 2)

	assert.Equal(t, http.StatusNotFound,
		c.do(http.MethodPatch, "/api/user/addresses/missing", account.AddressUpdate{City: ptr("Mombasa")}).Code)

	w = c.do(http.MethodPost, "/api/user/payment-methods", account.NewPaymentMethod{Type: model.PaymentVisa, CardNumber: "4111 1111 1111 1112", ExpiryDate: "01/29"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = c.do(http.MethodPost, "/api/user/payment-methods", account.NewPaymentMethod{Type: model.PaymentVisa, CardNumber: "4111 1111 1111 1111", ExpiryDate: "01/29"})
	require.Equal(t, http.StatusCreated, w.Code)
	u = decode[userResponse](t, w)
	require.Len(t, u.PaymentMethods, 2)
	assert.Equal(t, "1111", u.PaymentMethods[1].Last4)

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodPost, "/api/user/logout", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/user", nil).Code)
}

func TestRegister(t *testing.T) {
	c := newClient(t, newTestService(t))

	w := c.do(http.MethodPost, "/api/user/register", credentialsRequest{Name: "Zawadi", Email: "zawadi@example.com", Password: "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	u := decode[userResponse](t, w)
	assert.Equal(t, "Zawadi", u.Name)
	assert.Empty(t, u.Addresses)
	assert.Equal(t, "Member", u.LoyaltyTier)
}

type brokenUserService struct {
	Service
}

func (brokenUserService) User(context.Context, string) (model.User, bool, error) {
	return model.User{}, false, errors.New("store unavailable")
}

func TestInternalErrorIsHidden(t *testing.T) {
	c := newClient(t, brokenUserService{Service: newTestService(t)})

	w := c.do(http.MethodGet, "/api/user", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "store unavailable")
}

func TestShippingMethodsAndUnknownRoute(t *testing.T) {
	c := newClient(t, newTestService(t))

	w := c.do(http.MethodGet, "/api/shipping-methods", nil)
	require.Equal(t, http.StatusOK, w.Code)
	methods := decode[[]model.ShippingMethod](t, w)
	require.Len(t, methods, 4)
	assert.Equal(t, model.StandardShippingID, methods[0].ID)

	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/nope", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, c.do(http.MethodPut, "/api/catalog/facets", nil).Code)
}

func TestBrowse(t *testing.T) {
	svc := newTestService(t)
	c := newClient(t, svc)

	ids := func(resp browseResponse) []int64 {
		var res []int64
		for _, p := range resp.Items {
			res = append(res, p.ID)
		}
		return res
	}

	w := c.do(http.MethodGet, "/api/catalog/browse", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decode[browseResponse](t, w).TotalItems)

	w = c.do(http.MethodPatch, "/api/catalog/browse", browseRequest{Brand: "Klairs", Sort: ptr("price-low")})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[browseResponse](t, w)
	assert.Equal(t, []string{"Klairs"}, resp.Filters.Brands)
	assert.Equal(t, []int64{2, 3, 4}, ids(resp))

	w = c.do(http.MethodPatch, "/api/catalog/browse", browseRequest{Category: "Skincare"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{3}, ids(decode[browseResponse](t, w)))

	// состояние хранится в сессии
	w = c.do(http.MethodGet, "/api/catalog/browse", nil)
	assert.Equal(t, []int64{3}, ids(decode[browseResponse](t, w)))
	assert.Equal(t, 4, decode[browseResponse](t, newClient(t, svc).do(http.MethodGet, "/api/catalog/browse", nil)).TotalItems)

	w = c.do(http.MethodDelete, "/api/catalog/browse", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[browseResponse](t, w)
	assert.Empty(t, resp.Filters.Brands)
	assert.Equal(t, search.SortPriceLow, resp.Filters.Sort)
	assert.Equal(t, []int64{2, 1, 3, 4}, ids(resp))

	w = c.do(http.MethodPut, "/api/catalog/browse?brand=The+Ordinary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{1}, ids(decode[browseResponse](t, w)))
}

func TestBrowse_Invalid(t *testing.T) {
	c := newClient(t, newTestService(t))

	tests := []struct {
		name     string
		body     any
		wantCode int
	}{
		{name: "unknown sort", body: browseRequest{Sort: ptr("cheapest")}, wantCode: http.StatusUnprocessableEntity},
		{name: "negative price", body: map[string]int{"priceCeiling": -1}, wantCode: http.StatusUnprocessableEntity},
		{name: "malformed body", body: "brand", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, c.do(http.MethodPatch, "/api/catalog/browse", tt.body).Code)
		})
	}
}
