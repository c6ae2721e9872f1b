package middleware

import (
	"kiosk/infras/otel"
	tenantModel "kiosk/internal/domains/tenant/model"
	tenantService "kiosk/internal/domains/tenant/service"
	"kiosk/shared/constant"
	"kiosk/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Tenant resolves the {tenant} path segment to an active hotel.
type Tenant interface {
	Resolve(http.Handler) http.Handler
}

type tenantImpl struct {
	service tenantService.Tenant
	otel    otel.Otel
}

func NewTenantMiddleware(service tenantService.Tenant, otel otel.Otel) Tenant {
	return &tenantImpl{
		service: service,
		otel:    otel,
	}
}

func (m *tenantImpl) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "tenant.middleware")

		slug := chi.URLParam(request, constant.RequestParamTenant)
		scope.SetAttribute("tenant.slug", slug)

		tenant, err := m.service.GetBySlug(ctx, slug)
		if err != nil {
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		scope.End()
		next.ServeHTTP(writer, request.WithContext(tenantModel.WithContext(request.Context(), tenant)))
	})
}
