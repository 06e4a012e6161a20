// Package routes declares the HTTP surface of the API.
package routes

import (
	"github.com/shashiranjanraj/storefront/app/controllers"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// Deps carries everything the route table mounts.
type Deps struct {
	Users      *controllers.UserController
	Products   *controllers.ProductController
	Categories *controllers.CategoryController
	Cart       *controllers.CartController
	Orders     *controllers.OrderController
	Reviews    *controllers.ReviewController
	Health     *controllers.HealthController

	// Identity resolves bearer tokens to live users.
	Identity middleware.IdentitySource
}

// Register mounts every API route. Route names feed `route:list` and
// reverse lookups in tests.
func Register(r *router.Router, d Deps) {
	authed := middleware.Auth(d.Identity)
	admin := middleware.RequireAdmin

	api := r.Group("/api")

	api.Get("/health", "health", d.Health.Check)

	// Accounts.
	users := api.Group("/users")
	users.Post("/register", "users.register", d.Users.Register)
	users.Post("/login", "users.login", d.Users.Login)
	users.Get("/profile", "users.profile", d.Users.Profile, authed)
	users.Put("/profile", "users.profile.update", d.Users.UpdateProfile, authed)
	users.Get("/addresses", "users.addresses", d.Users.Addresses, authed)
	users.Post("/addresses", "users.addresses.create", d.Users.CreateAddress, authed)
	users.Put("/addresses/{id}/default", "users.addresses.default", d.Users.SetDefaultAddress, authed)

	// Catalogue. Reads are public, writes are admin-only.
	products := api.Group("/products")
	products.Get("/", "products.list", d.Products.List)
	products.Get("/category/{categoryId}", "products.by_category", d.Products.ListByCategory)
	products.Get("/{id}", "products.show", d.Products.Show)
	products.Post("/", "products.create", d.Products.Create, authed, admin)
	products.Put("/{id}", "products.update", d.Products.Update, authed, admin)
	products.Delete("/{id}", "products.delete", d.Products.Delete, authed, admin)
	products.Post("/{id}/image", "products.image", d.Products.UploadImage, authed, admin)
	products.Get("/{id}/reviews", "products.reviews", d.Reviews.ListForProduct)
	products.Post("/{id}/reviews", "products.reviews.create", d.Reviews.CreateForProduct, authed)

	categories := api.Group("/categories")
	categories.Get("/", "categories.list", d.Categories.List)
	categories.Get("/{id}", "categories.show", d.Categories.Show)
	categories.Post("/", "categories.create", d.Categories.Create, authed, admin)
	categories.Put("/{id}", "categories.update", d.Categories.Update, authed, admin)
	categories.Delete("/{id}", "categories.delete", d.Categories.Delete, authed, admin)

	cart := api.Group("/cart", authed)
	cart.Get("/", "cart.show", d.Cart.Show)
	cart.Post("/add", "cart.add", d.Cart.Add)
	cart.Put("/{itemId}", "cart.update", d.Cart.UpdateItem)
	cart.Delete("/{itemId}", "cart.remove", d.Cart.RemoveItem)
	cart.Delete("/", "cart.clear", d.Cart.Clear)

	orders := api.Group("/orders", authed)
	orders.Get("/", "orders.list", d.Orders.List)
	orders.Get("/{id}", "orders.show", d.Orders.Show)
	orders.Post("/", "orders.create", d.Orders.Create)
	orders.Put("/{id}/status", "orders.status", d.Orders.UpdateStatus, admin)

	reviews := api.Group("/reviews")
	reviews.Get("/product/{productId}", "reviews.by_product", d.Reviews.ListForProduct)
	reviews.Post("/", "reviews.create", d.Reviews.Create, authed)
	reviews.Put("/{id}", "reviews.update", d.Reviews.Update, authed)
	reviews.Delete("/{id}", "reviews.delete", d.Reviews.Delete, authed)
}
