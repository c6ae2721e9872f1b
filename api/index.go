package handler

import (
	"kiosk/config"
	"kiosk/di"
	"kiosk/shared/logger"
	kioskHTTP "kiosk/transport/http"
	"net/http"
	"sync"
)

var (
	server *kioskHTTP.HTTP
	once   sync.Once
)

// Handler serves the kiosk API from a serverless function, reusing one container across warm invocations.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		logger.InitLogger()

		cfg := config.Get()
		logger.Configure(cfg)

		server = di.InitializeService()
	})

	server.ServeHTTP(w, r)
}
