package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-society-manager/internal/config"
	"go-society-manager/internal/handler"
	"go-society-manager/internal/metrics"
	"go-society-manager/internal/middleware"
	"go-society-manager/internal/model"
	"go-society-manager/internal/web"
)

type Handlers struct {
	Auth       *handler.AuthHandler
	Society    *handler.SocietyHandler
	Unit       *handler.UnitHandler
	Resident   *handler.ResidentHandler
	Income     *handler.IncomeHandler
	Expense    *handler.ExpenseHandler
	Attachment *handler.AttachmentHandler
	Bill       *handler.BillHandler
	Audit      *handler.AuditHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, m *metrics.Metrics, h Handlers, pages *web.Pages) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)
	adminOnly := authMiddleware.RequireRoles(model.RoleAdmin)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(m.Middleware)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", m.Handler())
	r.Handle("/static/*", web.Static())
	r.NotFound(pages.NotFound)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
		api.NotFound(handler.NotFound)

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.Post("/refresh", h.Auth.Refresh)
			auth.With(authMiddleware.RequireAuth, adminOnly).Post("/register", h.Auth.Register)
			auth.With(authMiddleware.RequireAuth).Post("/logout", h.Auth.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		api.Group(func(authed chi.Router) {
			authed.Use(authMiddleware.RequireAuth)

			authed.Get("/me/bills", h.Bill.ListMine)
			authed.Get("/bills/{id}/receipt", h.Bill.Receipt)

			authed.Get("/societies", h.Society.List)
			authed.Get("/societies/{id}", h.Society.Get)
			authed.Get("/societies/{id}/units", h.Unit.List)
			authed.Get("/units/{id}", h.Unit.Get)

			authed.Group(func(admin chi.Router) {
				admin.Use(adminOnly)

				admin.Get("/users", h.Auth.ListUsers)
				admin.Get("/audit", h.Audit.List)

				admin.Post("/societies", h.Society.Create)
				admin.Put("/societies/{id}", h.Society.Update)
				admin.Delete("/societies/{id}", h.Society.Delete)
				admin.Get("/societies/{id}/summary", h.Society.Summary)

				admin.Post("/societies/{id}/units", h.Unit.Create)
				admin.Put("/units/{id}", h.Unit.Update)
				admin.Delete("/units/{id}", h.Unit.Delete)

				admin.Get("/societies/{id}/residents", h.Resident.List)
				admin.Post("/societies/{id}/residents", h.Resident.Create)
				admin.Get("/residents/{id}", h.Resident.Get)
				admin.Put("/residents/{id}", h.Resident.Update)
				admin.Delete("/residents/{id}", h.Resident.Delete)

				admin.Get("/societies/{id}/incomes", h.Income.List)
				admin.Post("/societies/{id}/incomes", h.Income.Create)
				admin.Delete("/incomes/{id}", h.Income.Delete)

				admin.Get("/societies/{id}/expenses", h.Expense.List)
				admin.Post("/societies/{id}/expenses", h.Expense.Create)
				admin.Get("/expenses/{id}", h.Expense.Get)
				admin.Delete("/expenses/{id}", h.Expense.Delete)
				admin.Post("/expenses/{id}/attachment", h.Attachment.Upload)
				admin.Get("/expenses/{id}/attachment", h.Attachment.Download)

				admin.Get("/societies/{id}/bills", h.Bill.List)
				admin.Post("/societies/{id}/bills/generate", h.Bill.Generate)
				admin.Get("/bills/{id}", h.Bill.Get)
				admin.Post("/bills/{id}/pay", h.Bill.Pay)
			})
		})
	})

	r.Get("/login", pages.LoginForm)
	r.Post("/login", pages.Login)
	r.Post("/logout", pages.Logout)

	r.Group(func(site chi.Router) {
		site.Use(authMiddleware.RequireSession("/login"))

		site.Get("/", pages.Home)
		site.Get("/my/bills", pages.MyBills)

		site.Group(func(admin chi.Router) {
			admin.Use(pages.AdminOnly)

			admin.Get("/societies", pages.Societies)
			admin.Get("/societies/{id}/units", pages.Units)
			admin.Get("/societies/{id}/residents", pages.Residents)
			admin.Get("/societies/{id}/incomes", pages.Incomes)
			admin.Get("/societies/{id}/expenses", pages.Expenses)
			admin.Get("/societies/{id}/bills", pages.Bills)
			admin.Post("/residents/{id}/delete", pages.DeleteResident)
		})
	})

	return r
}
