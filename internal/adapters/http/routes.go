package web

import (
	"net/http"

	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/application/collection"
)

// registerRoutes wires every endpoint. Access rules:
// "any" routes are open, signedIn requires a session, admin requires the admin role.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	signedIn := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }
	admin := func(h http.HandlerFunc) http.Handler { return middleware.RequireAdmin(h) }

	// Auth and accounts
	mux.HandleFunc("POST /api/auth/signin", s.handleSignIn)
	mux.HandleFunc("POST /api/auth/signup", s.handleSignUp)
	mux.Handle("POST /api/auth/signout", signedIn(s.handleSignOut))
	mux.HandleFunc("GET /api/auth/session", s.handleSession)
	mux.HandleFunc("POST /api/setup/admin", s.handleBootstrapAdmin)
	mux.Handle("POST /api/accounts/role", admin(s.handleAssignRole))
	mux.HandleFunc("GET /api/navigation", s.handleNavigation)

	// Classes: reads are open to members, writes run the two-phase create
	mux.Handle("GET /api/classes", signedIn(s.handleListClasses))
	mux.Handle("POST /api/classes", admin(s.handleCreateClass))
	mux.Handle("PUT /api/classes", admin(updateItem(s.deps.Classes)))
	mux.Handle("DELETE /api/classes", admin(removeItem(s.deps.Classes)))
	mux.Handle("POST /api/classes/status", admin(setItemStatus(s.deps.Classes)))
	mux.Handle("POST /api/classes/sync", admin(s.handleSyncBookings))

	registerCollection(mux, "/api/equipment", s.deps.Equipment, s, admin)
	registerCollection(mux, "/api/cleaning-tasks", s.deps.Cleaning, s, admin)
	registerCollection(mux, "/api/members", s.deps.Members, s, admin)

	mux.Handle("GET /api/products", signedIn(listItems(s.deps.Products, s)))
	mux.Handle("POST /api/products", admin(addItem(s.deps.Products)))
	mux.Handle("PUT /api/products", admin(updateItem(s.deps.Products)))
	mux.Handle("DELETE /api/products", admin(removeItem(s.deps.Products)))
	mux.Handle("POST /api/products/status", admin(setItemStatus(s.deps.Products)))
	mux.Handle("POST /api/products/image", admin(s.handleProductImage))

	mux.Handle("GET /api/notes-log", admin(s.handleNotesLog))

	// Front desk sales
	mux.Handle("GET /api/cart", signedIn(s.handleGetCart))
	mux.Handle("POST /api/cart", signedIn(s.handleAddToCart))
	mux.Handle("PUT /api/cart", signedIn(s.handleSetCartQuantity))
	mux.Handle("DELETE /api/cart", signedIn(s.handleClearCart))
	mux.Handle("POST /api/checkout", signedIn(s.handleCheckout))
	mux.Handle("GET /api/sales", admin(s.handleSalesHistory))
	mux.Handle("GET /api/sales/report", admin(s.handleSalesReport))
	mux.Handle("GET /api/sales/export.csv", admin(s.handleSalesExport))

	// Booking partner
	mux.Handle("GET /api/partner/config", admin(s.handleGetPartnerConfig))
	mux.Handle("PUT /api/partner/config", admin(s.handleSavePartnerConfig))

	// Door access
	mux.Handle("GET /api/access/code", signedIn(s.handleGetAccessCode))
	mux.Handle("POST /api/access/code", admin(s.handleRotateAccessCode))
	mux.Handle("GET /api/access/qr.png", signedIn(s.handleAccessQR))
	mux.HandleFunc("POST /api/access/verify", s.handleVerifyAccess)
	mux.Handle("GET /api/access/log", admin(s.handleAccessLog))

	mux.Handle("GET /api/dashboard", admin(s.handleDashboard))
	mux.Handle("GET /api/audit", admin(s.handleAudit))

	// Operations
	mux.Handle("GET /admin/outbox", admin(s.handleListOutbox))
	mux.Handle("POST /admin/outbox/{id}/retry", admin(s.handleRetryOutbox))
	mux.Handle("POST /admin/outbox/{id}/abandon", admin(s.handleAbandonOutbox))
	mux.Handle("GET /admin/perf", admin(s.handlePerf))
}

// registerCollection mounts the admin CRUD and status routes for one managed list.
func registerCollection[T any, P collection.Ptr[T]](mux *http.ServeMux, base string, m *collection.Manager[T, P], s *Server, guard func(http.HandlerFunc) http.Handler) {
	mux.Handle("GET "+base, guard(listItems(m, s)))
	mux.Handle("POST "+base, guard(addItem(m)))
	mux.Handle("PUT "+base, guard(updateItem(m)))
	mux.Handle("DELETE "+base, guard(removeItem(m)))
	mux.Handle("POST "+base+"/status", guard(setItemStatus(m)))
}
