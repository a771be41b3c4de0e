package handler

import (
	"net/http"

	"github.com/vfg2006/shop-manager-api/internal/api/handler/router"
	"github.com/vfg2006/shop-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/shop-manager-api/internal/usecases/leading"
	"github.com/vfg2006/shop-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/shop-manager-api/internal/usecases/selling"
	"github.com/vfg2006/shop-manager-api/internal/usecases/stocking"
	"github.com/vfg2006/shop-manager-api/pkg/middleware"
)

type middlewares = []func(http.Handler) http.Handler

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: middlewares{middleware.OwnerOnly()},
		},
		{
			Path:        "/v1/users/:id/change-password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
	}
}

func Sales(service selling.Seller) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/quick-sale",
			Method:      http.MethodPost,
			Handler:     QuickSale(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/sales",
			Method:      http.MethodGet,
			Handler:     ListSales(service),
			Middlewares: middlewares{middleware.OwnerOrManager()},
		},
		{
			Path:        "/v1/sales/:id",
			Method:      http.MethodGet,
			Handler:     GetSale(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/leads/:id/sales",
			Method:      http.MethodGet,
			Handler:     ListLeadSales(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
	}
}

func Products(service stocking.Stocker) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/products",
			Method:      http.MethodGet,
			Handler:     ListProducts(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/products",
			Method:      http.MethodPost,
			Handler:     CreateProduct(service),
			Middlewares: middlewares{middleware.OwnerOrManager()},
		},
		{
			Path:        "/v1/products/:id",
			Method:      http.MethodGet,
			Handler:     GetProduct(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/products/:id",
			Method:      http.MethodPut,
			Handler:     UpdateProduct(service),
			Middlewares: middlewares{middleware.OwnerOrManager()},
		},
		{
			Path:        "/v1/products/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteProduct(service),
			Middlewares: middlewares{middleware.OwnerOrManager()},
		},
		{
			Path:        "/v1/products/:id/publish",
			Method:      http.MethodPut,
			Handler:     PublishProduct(service),
			Middlewares: middlewares{middleware.OwnerOrManager()},
		},
		{
			Path:        "/v1/products/:id/stock-in",
			Method:      http.MethodPost,
			Handler:     StockIn(service),
			Middlewares: middlewares{middleware.OwnerOrManager()},
		},
		{
			Path:        "/v1/products/:id/adjust",
			Method:      http.MethodPost,
			Handler:     AdjustStock(service),
			Middlewares: middlewares{middleware.OwnerOrManager()},
		},
		{
			Path:        "/v1/inventory/movements",
			Method:      http.MethodGet,
			Handler:     ListMovements(service),
			Middlewares: middlewares{middleware.OwnerOrManager()},
		},
		{
			Path:        "/v1/inventory/low-stock",
			Method:      http.MethodGet,
			Handler:     ListLowStock(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
	}
}

func Leads(service leading.Leader) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/leads",
			Method:      http.MethodGet,
			Handler:     ListLeads(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/leads",
			Method:      http.MethodPost,
			Handler:     CreateLead(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/leads/:id",
			Method:      http.MethodGet,
			Handler:     GetLead(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/leads/:id",
			Method:      http.MethodPut,
			Handler:     UpdateLead(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/leads/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteLead(service),
			Middlewares: middlewares{middleware.OwnerOrManager()},
		},
	}
}

func Reports(service reporting.Reporter) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/reports/daily-sales",
			Method:      http.MethodGet,
			Handler:     GetDailySalesReport(service),
			Middlewares: middlewares{middleware.OwnerOrManager()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: middlewares{middleware.OwnerOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: middlewares{middleware.OwnerOnly()},
		},
	}
}
