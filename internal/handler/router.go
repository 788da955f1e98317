package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	custommiddleware "github.com/mmeshcher/beautify-storefront/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware витрины.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Use(h.sessions.Middleware)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", h.ListProducts)
			r.Get("/products/{id}", h.GetProduct)
			r.Get("/bundles", h.GetBundles)
			r.Get("/facets", h.GetFacets)

			r.Get("/browse", h.GetBrowse)
			r.Put("/browse", h.ImportBrowse)
			r.Patch("/browse", h.UpdateBrowse)
			r.Delete("/browse", h.ClearBrowse)
		})
		r.Get("/shipping-methods", h.ShippingMethods)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)

			r.Post("/items", h.AddCartItem)
			r.Patch("/items/{id}", h.UpdateCartItem)
			r.Delete("/items/{id}", h.RemoveCartItem)
			r.Post("/items/{id}/save", h.SaveForLater)

			r.Post("/saved/{id}/move", h.MoveToCart)
			r.Delete("/saved/{id}", h.RemoveSavedItem)

			r.Put("/coupon", h.ApplyCoupon)
			r.Delete("/coupon", h.RemoveCoupon)
			r.Put("/referral", h.ApplyReferralCode)
			r.Put("/gift-card", h.ApplyGiftCard)
			r.Put("/shipping", h.SetShippingMethod)
		})

		r.Get("/wishlist", h.GetWishlist)
		r.Post("/wishlist/{id}", h.ToggleWishlist)

		r.Get("/notification", h.GetNotification)
		r.Delete("/notification", h.DismissNotification)

		r.Post("/checkout", h.Checkout)
		r.Get("/orders/{id}/tracking", h.TrackOrder)

		r.Route("/user", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)

			r.Get("/", h.GetUser)
			r.Patch("/", h.UpdateProfile)

			r.Post("/addresses", h.AddAddress)
			r.Patch("/addresses/{id}", h.UpdateAddress)
			r.Delete("/addresses/{id}", h.DeleteAddress)

			r.Post("/payment-methods", h.AddPaymentMethod)
			r.Delete("/payment-methods/{id}", h.DeletePaymentMethod)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
