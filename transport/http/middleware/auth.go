package middleware

import (
	"crypto/subtle"
	"kiosk/config"
	"kiosk/infras/otel"
	"kiosk/shared/constant"
	"kiosk/shared/failure"
	"kiosk/transport/http/response"
	"net/http"
)

// Auth guards the kiosk API with the shared device key.
type Auth interface {
	APIKey(http.Handler) http.Handler
}

type authImpl struct {
	otel otel.Otel
	cfg  *config.Config
}

func NewAuthMiddleware(otel otel.Otel, cfg *config.Config) Auth {
	return &authImpl{
		otel: otel,
		cfg:  cfg,
	}
}

// APIKey is a no-op when APP_API_KEY is unset.
func (m *authImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if m.cfg.App.APIKey == constant.Empty {
			next.ServeHTTP(writer, request)

			return
		}

		_, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "api_key.middleware")

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)

		if apiKey == constant.Empty {
			err := failure.Unauthorized("missing api key")

			response.WithError(writer, err)
			scope.TraceError(err)
			scope.End()

			return
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(m.cfg.App.APIKey)) != 1 {
			response.WithError(writer, failure.ForbiddenError)
			scope.TraceError(failure.ForbiddenError)
			scope.End()

			return
		}

		scope.End()
		next.ServeHTTP(writer, request)
	})
}
