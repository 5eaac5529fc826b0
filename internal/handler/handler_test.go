package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/auth"
	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/cart"
	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/catalog"
	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/customer"
	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/order"
)

const testPepper = "test-pepper"

// --- In-memory fakes ---

type fakeProducts struct {
	byID    map[int64]*catalog.Product
	nextID  int64
	ordered map[int64]bool // product ids referenced by order items
}

func (f *fakeProducts) List(_ context.Context, _ catalog.ProductFilter) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProducts) GetByID(_ context.Context, id int64) (*catalog.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) Create(_ context.Context, p *catalog.Product) error {
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = time.Now()
	p.LastUpdate = p.CreatedAt
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProducts) Update(_ context.Context, p *catalog.Product) error {
	existing, ok := f.byID[p.ID]
	if !ok {
		return catalog.ErrNotFound
	}
	p.Slug = existing.Slug
	p.LastUpdate = time.Now()
	f.byID[p.ID] = p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return catalog.ErrNotFound
	}
	if f.ordered[id] {
		return catalog.ErrProductInUse
	}
	delete(f.byID, id)
	return nil
}

type fakeCollections struct {
	byID   map[int64]*catalog.Collection
	nextID int64
	inUse  map[int64]bool
}

func (f *fakeCollections) List(_ context.Context) ([]catalog.Collection, error) {
	out := make([]catalog.Collection, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCollections) GetByID(_ context.Context, id int64) (*catalog.Collection, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return c, nil
}

func (f *fakeCollections) Create(_ context.Context, c *catalog.Collection) error {
	f.nextID++
	c.ID = f.nextID
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCollections) Update(_ context.Context, c *catalog.Collection) error {
	if _, ok := f.byID[c.ID]; !ok {
		return catalog.ErrNotFound
	}
	f.byID[c.ID] = c
	return nil
}

func (f *fakeCollections) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return catalog.ErrNotFound
	}
	if f.inUse[id] {
		return catalog.ErrCollectionInUse
	}
	delete(f.byID, id)
	return nil
}

type fakePromotions struct {
	byCode map[string]*catalog.Promotion
}

func (f *fakePromotions) List(_ context.Context) ([]catalog.Promotion, error) {
	out := make([]catalog.Promotion, 0, len(f.byCode))
	for _, p := range f.byCode {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePromotions) GetByCode(_ context.Context, code string) (*catalog.Promotion, error) {
	p, ok := f.byCode[code]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return p, nil
}

func (f *fakePromotions) Upsert(_ context.Context, p *catalog.Promotion) error {
	f.byCode[p.Code] = p
	return nil
}

type fakeReviews struct {
	products *fakeProducts
	reviews  []catalog.Review
	nextID   int64
}

func (f *fakeReviews) ListByProduct(_ context.Context, productID int64, filter catalog.ReviewFilter) ([]catalog.Review, error) {
	if _, ok := f.products.byID[productID]; !ok {
		return nil, catalog.ErrNotFound
	}
	var out []catalog.Review
	for _, rv := range f.reviews {
		if rv.ProductID != productID {
			continue
		}
		if filter.MinRating != nil && rv.Rating < *filter.MinRating {
			continue
		}
		if filter.MaxRating != nil && rv.Rating > *filter.MaxRating {
			continue
		}
		out = append(out, rv)
	}
	return out, nil
}

func (f *fakeReviews) Create(_ context.Context, rv *catalog.Review) error {
	if _, ok := f.products.byID[rv.ProductID]; !ok {
		return catalog.ErrNotFound
	}
	f.nextID++
	rv.ID = f.nextID
	rv.Date = time.Now()
	f.reviews = append(f.reviews, *rv)
	return nil
}

type fakeImages struct {
	products *fakeProducts
	images   []catalog.Image
	nextID   int64
}

func (f *fakeImages) ListByProduct(_ context.Context, productID int64) ([]catalog.Image, error) {
	if _, ok := f.products.byID[productID]; !ok {
		return nil, catalog.ErrNotFound
	}
	var out []catalog.Image
	for _, img := range f.images {
		if img.ProductID == productID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (f *fakeImages) Create(_ context.Context, img *catalog.Image) error {
	if _, ok := f.products.byID[img.ProductID]; !ok {
		return catalog.ErrNotFound
	}
	f.nextID++
	img.ID = f.nextID
	f.images = append(f.images, *img)
	return nil
}

type fakeCarts struct {
	products *fakeProducts
	carts    map[uuid.UUID]*cart.Cart
	nextItem int64
}

func (f *fakeCarts) Create(_ context.Context, c *cart.Cart) error {
	c.CreatedAt = time.Now()
	f.carts[c.ID] = c
	return nil
}

func (f *fakeCarts) Get(_ context.Context, id uuid.UUID) (*cart.Cart, error) {
	c, ok := f.carts[id]
	if !ok {
		return nil, cart.ErrNotFound
	}
	// Join in current product data the way the real repository does.
	copied := *c
	copied.Items = make([]cart.Item, len(c.Items))
	for i, it := range c.Items {
		if p, ok := f.products.byID[it.ProductID]; ok {
			it.ProductTitle = p.Title
			it.UnitPrice = p.UnitPrice
		}
		copied.Items[i] = it
	}
	return &copied, nil
}

func (f *fakeCarts) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.carts[id]; !ok {
		return cart.ErrNotFound
	}
	delete(f.carts, id)
	return nil
}

func (f *fakeCarts) UpsertItem(_ context.Context, cartID uuid.UUID, productID int64, delta int) (*cart.Item, error) {
	c, ok := f.carts[cartID]
	if !ok {
		return nil, cart.ErrNotFound
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += delta
			return &c.Items[i], nil
		}
	}
	f.nextItem++
	c.Items = append(c.Items, cart.Item{ID: f.nextItem, ProductID: productID, Quantity: delta})
	return &c.Items[len(c.Items)-1], nil
}

func (f *fakeCarts) SetItemQuantity(_ context.Context, cartID uuid.UUID, productID int64, quantity int) (*cart.Item, error) {
	c, ok := f.carts[cartID]
	if !ok {
		return nil, cart.ErrNotFound
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return &c.Items[i], nil
		}
	}
	return nil, cart.ErrItemNotFound
}

func (f *fakeCarts) DeleteItem(_ context.Context, cartID uuid.UUID, productID int64) error {
	c, ok := f.carts[cartID]
	if !ok {
		return cart.ErrNotFound
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return cart.ErrItemNotFound
}

type fakeCustomers struct {
	byUserID map[string]*customer.Customer
	nextID   int64
}

func (f *fakeCustomers) GetOrCreate(_ context.Context, userID string) (*customer.Customer, error) {
	if c, ok := f.byUserID[userID]; ok {
		return c, nil
	}
	f.nextID++
	c := &customer.Customer{ID: f.nextID, UserID: userID, Membership: customer.MembershipBronze}
	f.byUserID[userID] = c
	return c, nil
}

func (f *fakeCustomers) GetByUserID(_ context.Context, userID string) (*customer.Customer, error) {
	c, ok := f.byUserID[userID]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return c, nil
}

func (f *fakeCustomers) GetByID(_ context.Context, id int64) (*customer.Customer, error) {
	for _, c := range f.byUserID {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, customer.ErrNotFound
}

func (f *fakeCustomers) List(_ context.Context) ([]customer.Customer, error) {
	out := make([]customer.Customer, 0, len(f.byUserID))
	for _, c := range f.byUserID {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCustomers) Update(_ context.Context, c *customer.Customer) error {
	f.byUserID[c.UserID] = c
	return nil
}

type fakeOrders struct {
	carts     *fakeCarts
	customers *fakeCustomers
	products  *fakeProducts
	orders    map[int64]*order.Order
	nextID    int64
}

func (f *fakeOrders) ConvertCart(ctx context.Context, cartID uuid.UUID, userID string) (*order.Order, error) {
	c, ok := f.carts.carts[cartID]
	if !ok {
		return nil, order.ErrCartNotFound
	}
	if len(c.Items) == 0 {
		return nil, order.ErrCartEmpty
	}
	cust, err := f.customers.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	f.nextID++
	o := &order.Order{
		ID:            f.nextID,
		CustomerID:    cust.ID,
		PlacedAt:      time.Now(),
		PaymentStatus: order.PaymentPending,
	}
	for _, it := range c.Items {
		p := f.products.byID[it.ProductID]
		o.Items = append(o.Items, order.Item{
			ProductID:    it.ProductID,
			ProductTitle: p.Title,
			Quantity:     it.Quantity,
			UnitPrice:    p.UnitPrice,
		})
		f.products.ordered[it.ProductID] = true
	}
	f.orders[o.ID] = o
	delete(f.carts.carts, cartID)
	return o, nil
}

func (f *fakeOrders) GetByID(_ context.Context, id int64) (*order.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) List(_ context.Context) ([]order.Order, error) {
	out := make([]order.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrders) ListByCustomer(_ context.Context, customerID int64) ([]order.Order, error) {
	var out []order.Order
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) UpdatePaymentStatus(_ context.Context, id int64, status order.PaymentStatus) error {
	o, ok := f.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	o.PaymentStatus = status
	return nil
}

func (f *fakeOrders) Delete(_ context.Context, id int64) error {
	if _, ok := f.orders[id]; !ok {
		return order.ErrNotFound
	}
	delete(f.orders, id)
	return nil
}

type fakeAPIKeys struct {
	byHash map[string]*auth.APIKeyInfo
}

func (f *fakeAPIKeys) FindByHash(_ context.Context, hash string) (*auth.APIKeyInfo, error) {
	info, ok := f.byHash[hash]
	if !ok {
		return nil, fmt.Errorf("api key not found")
	}
	return info, nil
}

// --- Fixtures ---

type fixture struct {
	server      http.Handler
	products    *fakeProducts
	collections *fakeCollections
	customerKey string
	staffKey    string
}

func keyHash(apiKey string) string {
	mac := hmac.New(sha256.New, []byte(testPepper))
	mac.Write([]byte(apiKey))
	return hex.EncodeToString(mac.Sum(nil))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	products := &fakeProducts{byID: map[int64]*catalog.Product{}, ordered: map[int64]bool{}}
	collections := &fakeCollections{byID: map[int64]*catalog.Collection{}, inUse: map[int64]bool{}}
	promotions := &fakePromotions{byCode: map[string]*catalog.Promotion{}}
	reviews := &fakeReviews{products: products}
	images := &fakeImages{products: products}
	carts := &fakeCarts{products: products, carts: map[uuid.UUID]*cart.Cart{}}
	customers := &fakeCustomers{byUserID: map[string]*customer.Customer{}}
	orders := &fakeOrders{carts: carts, customers: customers, products: products, orders: map[int64]*order.Order{}}

	apikeys := &fakeAPIKeys{byHash: map[string]*auth.APIKeyInfo{}}
	customerKey, staffKey := "customer-key", "staff-key"
	apikeys.byHash[keyHash(customerKey)] = &auth.APIKeyInfo{
		ID: "k1", KeyHash: keyHash(customerKey), Name: "Alice", UserID: "alice", Role: auth.RoleCustomer,
	}
	apikeys.byHash[keyHash(staffKey)] = &auth.APIKeyInfo{
		ID: "k2", KeyHash: keyHash(staffKey), Name: "Admin", UserID: "admin", Role: auth.RoleStaff,
	}

	h := New(
		products,
		collections,
		promotions,
		reviews,
		images,
		cart.NewService(carts, products),
		customers,
		order.NewService(carts, customers, orders),
	)
	sec := NewSecurity(apikeys, []byte(testPepper))

	return &fixture{
		server:      h.Router(sec),
		products:    products,
		collections: collections,
		customerKey: customerKey,
		staffKey:    staffKey,
	}
}

func (f *fixture) do(t *testing.T, method, path, apiKey string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if apiKey != "" {
		req.Header.Set("api_key", apiKey)
	}
	w := httptest.NewRecorder()
	f.server.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func errorKind(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[errorResponse](t, w).Error.Kind
}

func (f *fixture) seedProduct(t *testing.T, title, priceStr string) int64 {
	t.Helper()
	w := f.do(t, http.MethodPost, "/products", f.staffKey, map[string]any{
		"title":      title,
		"unit_price": priceStr,
		"inventory":  10,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[productResponse](t, w).ID
}

// --- Tests ---

func TestCreateProduct_RequiresStaff(t *testing.T) {
	f := newFixture(t)
	body := map[string]any{"title": "Widget", "unit_price": "10.00", "inventory": 5}

	w := f.do(t, http.MethodPost, "/products", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, kindUnauthenticated, errorKind(t, w))

	w = f.do(t, http.MethodPost, "/products", f.customerKey, body)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, kindPermissionDenied, errorKind(t, w))

	w = f.do(t, http.MethodPost, "/products", f.staffKey, body)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestInvalidAPIKeyRejected(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/products", "bogus-key", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, kindUnauthenticated, errorKind(t, w))
}

func TestCreateProduct_PriceFloor(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/products", f.staffKey, map[string]any{
		"title":      "Too Cheap",
		"unit_price": "0.99",
		"inventory":  5,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody[errorResponse](t, w)
	assert.Equal(t, kindValidation, resp.Error.Kind)
	assert.Contains(t, resp.Error.Fields, "unit_price")
}

func TestCreateProduct_GeneratesSlug(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/products", f.staffKey, map[string]any{
		"title":      "Colombian Coffee Beans",
		"unit_price": "14.50",
		"inventory":  10,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	p := decodeBody[productResponse](t, w)
	assert.Equal(t, "colombian-coffee-beans", p.Slug)
}

func TestUpdateProduct_NeverRegeneratesSlug(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, "Original Title", "10.00")

	w := f.do(t, http.MethodPut, fmt.Sprintf("/products/%d", id), f.staffKey, map[string]any{
		"title":      "Renamed Title",
		"unit_price": "12.00",
		"inventory":  10,
	})
	require.Equal(t, http.StatusOK, w.Code)
	p := decodeBody[productResponse](t, w)
	assert.Equal(t, "Renamed Title", p.Title)
	assert.Equal(t, "original-title", p.Slug)
}

func TestDeleteProduct_BlockedByOrderItems(t *testing.T) {
	f := newFixture(t)
	id := f.seedProduct(t, "Widget", "10.00")
	f.products.ordered[id] = true

	w := f.do(t, http.MethodDelete, fmt.Sprintf("/products/%d", id), f.staffKey, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, kindConflict, errorKind(t, w))
}

func TestDeleteCollection_BlockedByProducts(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/collections", f.staffKey, map[string]any{"title": "Snacks"})
	require.Equal(t, http.StatusCreated, w.Code)
	c := decodeBody[collectionResponse](t, w)
	f.collections.inUse[c.ID] = true

	w = f.do(t, http.MethodDelete, fmt.Sprintf("/collections/%d", c.ID), f.staffKey, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, kindConflict, errorKind(t, w))
}

func TestAddCartItem_Validation(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Widget", "10.00")

	w := f.do(t, http.MethodPost, "/cart", "", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	c := decodeBody[cartResponse](t, w)

	// Zero quantity never creates an item.
	w = f.do(t, http.MethodPost, fmt.Sprintf("/cart/%s/items", c.ID), "", map[string]any{
		"product_id": productID,
		"quantity":   0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, kindValidation, errorKind(t, w))

	// Unknown product is rejected.
	w = f.do(t, http.MethodPost, fmt.Sprintf("/cart/%s/items", c.ID), "", map[string]any{
		"product_id": 9999,
		"quantity":   1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Unknown cart is rejected.
	w = f.do(t, http.MethodPost, fmt.Sprintf("/cart/%s/items", uuid.New()), "", map[string]any{
		"product_id": productID,
		"quantity":   1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddCartItem_MergesDuplicateProduct(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Widget", "10.00")

	w := f.do(t, http.MethodPost, "/cart", "", nil)
	c := decodeBody[cartResponse](t, w)

	itemBody := map[string]any{"product_id": productID, "quantity": 2}
	w = f.do(t, http.MethodPost, fmt.Sprintf("/cart/%s/items", c.ID), "", itemBody)
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodPost, fmt.Sprintf("/cart/%s/items", c.ID), "", itemBody)
	require.Equal(t, http.StatusCreated, w.Code)
	item := decodeBody[cartItemResponse](t, w)
	assert.Equal(t, 4, item.Quantity)

	w = f.do(t, http.MethodGet, fmt.Sprintf("/cart/%s", c.ID), "", nil)
	got := decodeBody[cartResponse](t, w)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("40.00")))
}

func TestPlaceOrder_EndToEnd(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Widget", "10.00")

	w := f.do(t, http.MethodPost, "/cart", "", nil)
	c := decodeBody[cartResponse](t, w)

	w = f.do(t, http.MethodPost, fmt.Sprintf("/cart/%s/items", c.ID), "", map[string]any{
		"product_id": productID,
		"quantity":   3,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Placement requires an identity.
	w = f.do(t, http.MethodPost, "/orders", "", map[string]any{"cart_id": c.ID})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodPost, "/orders", f.customerKey, map[string]any{"cart_id": c.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	o := decodeBody[orderResponse](t, w)
	assert.Equal(t, "P", o.PaymentStatus)
	require.Len(t, o.Items, 1)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("30.00")))

	// The cart is gone after conversion.
	w = f.do(t, http.MethodGet, fmt.Sprintf("/cart/%s", c.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Placing again with the same cart fails as a validation error.
	w = f.do(t, http.MethodPost, "/orders", f.customerKey, map[string]any{"cart_id": c.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, kindValidation, errorKind(t, w))
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/cart", "", nil)
	c := decodeBody[cartResponse](t, w)

	w = f.do(t, http.MethodPost, "/orders", f.customerKey, map[string]any{"cart_id": c.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody[errorResponse](t, w)
	assert.Equal(t, kindValidation, resp.Error.Kind)
	assert.Contains(t, resp.Error.Fields, "cart_id")
}

func TestListOrders_NoCustomerProfile(t *testing.T) {
	f := newFixture(t)

	// A valid identity without a customer profile cannot list orders.
	w := f.do(t, http.MethodGet, "/orders", f.customerKey, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, kindNotFound, errorKind(t, w))

	// Placing an order creates the profile; listing works afterwards.
	productID := f.seedProduct(t, "Widget", "10.00")
	w = f.do(t, http.MethodPost, "/cart", "", nil)
	c := decodeBody[cartResponse](t, w)
	f.do(t, http.MethodPost, fmt.Sprintf("/cart/%s/items", c.ID), "", map[string]any{
		"product_id": productID, "quantity": 1,
	})
	w = f.do(t, http.MethodPost, "/orders", f.customerKey, map[string]any{"cart_id": c.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodGet, "/orders", f.customerKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]orderResponse](t, w), 1)
}

func TestOrderItems_PriceSurvivesProductUpdate(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Widget", "10.00")

	w := f.do(t, http.MethodPost, "/cart", "", nil)
	c := decodeBody[cartResponse](t, w)
	f.do(t, http.MethodPost, fmt.Sprintf("/cart/%s/items", c.ID), "", map[string]any{
		"product_id": productID, "quantity": 2,
	})
	w = f.do(t, http.MethodPost, "/orders", f.customerKey, map[string]any{"cart_id": c.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	o := decodeBody[orderResponse](t, w)

	// Repricing the product must not touch already placed orders.
	w = f.do(t, http.MethodPut, fmt.Sprintf("/products/%d", productID), f.staffKey, map[string]any{
		"title":      "Widget",
		"unit_price": "99.00",
		"inventory":  10,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, fmt.Sprintf("/orders/%d", o.ID), f.customerKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[orderResponse](t, w)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, got.Total.Equal(decimal.RequireFromString("20.00")))
}

func TestGetOrder_ScopedToOwner(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Widget", "10.00")

	w := f.do(t, http.MethodPost, "/cart", "", nil)
	c := decodeBody[cartResponse](t, w)
	f.do(t, http.MethodPost, fmt.Sprintf("/cart/%s/items", c.ID), "", map[string]any{
		"product_id": productID, "quantity": 1,
	})

	w = f.do(t, http.MethodPost, "/orders", f.customerKey, map[string]any{"cart_id": c.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	o := decodeBody[orderResponse](t, w)

	// The owner and staff can read it.
	w = f.do(t, http.MethodGet, fmt.Sprintf("/orders/%d", o.ID), f.customerKey, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = f.do(t, http.MethodGet, fmt.Sprintf("/orders/%d", o.ID), f.staffKey, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Anonymous callers cannot.
	w = f.do(t, http.MethodGet, fmt.Sprintf("/orders/%d", o.ID), "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateOrder_PaymentStatus(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Widget", "10.00")

	w := f.do(t, http.MethodPost, "/cart", "", nil)
	c := decodeBody[cartResponse](t, w)
	f.do(t, http.MethodPost, fmt.Sprintf("/cart/%s/items", c.ID), "", map[string]any{
		"product_id": productID, "quantity": 1,
	})
	w = f.do(t, http.MethodPost, "/orders", f.customerKey, map[string]any{"cart_id": c.ID})
	o := decodeBody[orderResponse](t, w)

	// Customers may not change payment status.
	w = f.do(t, http.MethodPatch, fmt.Sprintf("/orders/%d", o.ID), f.customerKey, map[string]any{
		"payment_status": "C",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodPatch, fmt.Sprintf("/orders/%d", o.ID), f.staffKey, map[string]any{
		"payment_status": "C",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "C", decodeBody[orderResponse](t, w).PaymentStatus)

	// Unknown statuses are rejected.
	w = f.do(t, http.MethodPatch, fmt.Sprintf("/orders/%d", o.ID), f.staffKey, map[string]any{
		"payment_status": "X",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMe_CreatesProfileLazily(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/customers/me", f.customerKey, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decodeBody[customerResponse](t, w)
	assert.Equal(t, "alice", me.UserID)
	assert.Equal(t, "B", me.Membership)
}

func TestListCustomers_StaffOnly(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/customers", f.customerKey, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(t, http.MethodGet, "/customers", f.staffKey, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateReview_RatingBounds(t *testing.T) {
	f := newFixture(t)
	productID := f.seedProduct(t, "Widget", "10.00")

	w := f.do(t, http.MethodPost, fmt.Sprintf("/products/%d/reviews", productID), "", map[string]any{
		"rating": 6,
		"title":  "Too good",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, fmt.Sprintf("/products/%d/reviews", productID), "", map[string]any{
		"rating": 5,
		"title":  "Great",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}
