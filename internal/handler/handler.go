// Package handler exposes the storefront domain over a REST API. Handlers
// translate HTTP payloads to domain calls and map domain errors back to the
// client-facing error taxonomy; business rules live in the domain packages.
package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/cart"
	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/catalog"
	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/customer"
	"github.com/hivarunbhalla/Varun-Ecommerce-api/internal/domain/order"
)

// Handler holds the domain dependencies for every route.
type Handler struct {
	products    catalog.ProductRepository
	collections catalog.CollectionRepository
	promotions  catalog.PromotionRepository
	reviews     catalog.ReviewRepository
	images      catalog.ImageRepository
	carts       *cart.Service
	customers   customer.Repository
	orders      *order.Service
	validate    *validator.Validate
}

// New constructs a Handler with the required domain dependencies.
func New(
	products catalog.ProductRepository,
	collections catalog.CollectionRepository,
	promotions catalog.PromotionRepository,
	reviews catalog.ReviewRepository,
	images catalog.ImageRepository,
	carts *cart.Service,
	customers customer.Repository,
	orders *order.Service,
) *Handler {
	return &Handler{
		products:    products,
		collections: collections,
		promotions:  promotions,
		reviews:     reviews,
		images:      images,
		carts:       carts,
		customers:   customers,
		orders:      orders,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Router binds every resource route. Authentication runs for all routes via
// the security middleware; per-route authorization happens inside handlers.
func (h *Handler) Router(sec *Security) http.Handler {
	r := mux.NewRouter()
	r.Use(mux.MiddlewareFunc(sec.Middleware))

	// Catalog.
	r.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/products", h.createProduct).Methods(http.MethodPost)
	r.HandleFunc("/products/{id}", h.getProduct).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", h.updateProduct).Methods(http.MethodPut)
	r.HandleFunc("/products/{id}", h.deleteProduct).Methods(http.MethodDelete)
	r.HandleFunc("/products/{id}/reviews", h.listReviews).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}/reviews", h.createReview).Methods(http.MethodPost)
	r.HandleFunc("/products/{id}/images", h.listImages).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}/images", h.createImage).Methods(http.MethodPost)

	r.HandleFunc("/collections", h.listCollections).Methods(http.MethodGet)
	r.HandleFunc("/collections", h.createCollection).Methods(http.MethodPost)
	r.HandleFunc("/collections/{id}", h.getCollection).Methods(http.MethodGet)
	r.HandleFunc("/collections/{id}", h.updateCollection).Methods(http.MethodPut)
	r.HandleFunc("/collections/{id}", h.deleteCollection).Methods(http.MethodDelete)

	r.HandleFunc("/promotions", h.listPromotions).Methods(http.MethodGet)

	// Carts. The opaque cart id is the access capability; there is no
	// ownership binding between carts and identities.
	r.HandleFunc("/cart", h.createCart).Methods(http.MethodPost)
	r.HandleFunc("/cart/{id}", h.getCart).Methods(http.MethodGet)
	r.HandleFunc("/cart/{id}", h.deleteCart).Methods(http.MethodDelete)
	r.HandleFunc("/cart/{id}/items", h.listCartItems).Methods(http.MethodGet)
	r.HandleFunc("/cart/{id}/items", h.addCartItem).Methods(http.MethodPost)
	r.HandleFunc("/cart/{id}/items", h.updateCartItem).Methods(http.MethodPatch)
	r.HandleFunc("/cart/{id}/items", h.removeCartItem).Methods(http.MethodDelete)

	// Customers. /customers/me must be registered before /customers/{id}.
	r.HandleFunc("/customers/me", h.getMe).Methods(http.MethodGet)
	r.HandleFunc("/customers/me", h.updateMe).Methods(http.MethodPut)
	r.HandleFunc("/customers", h.listCustomers).Methods(http.MethodGet)
	r.HandleFunc("/customers/{id}", h.getCustomer).Methods(http.MethodGet)

	// Orders.
	r.HandleFunc("/orders", h.placeOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders", h.listOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", h.getOrder).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", h.updateOrder).Methods(http.MethodPatch)
	r.HandleFunc("/orders/{id}", h.deleteOrder).Methods(http.MethodDelete)
	r.HandleFunc("/orders/{id}/items", h.listOrderItems).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, kindNotFound, "resource not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, kindValidation, "method not allowed")
	})

	return r
}
