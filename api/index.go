// Package handler exposes the HTTP API as a single serverless function.
package handler

import (
	"log"
	"net/http"
	"sync"

	"github.com/amirasaad/eaglebank/infra/initializer"
	"github.com/amirasaad/eaglebank/pkg/app"
	"github.com/amirasaad/eaglebank/pkg/config"
	"github.com/amirasaad/eaglebank/webapi"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

var (
	once    sync.Once
	handler http.HandlerFunc
)

// Handler is the main entry point of the application.
// Think of it like the main() method
func Handler(w http.ResponseWriter, r *http.Request) {
	// This is needed to set the proper request path in `*fiber.Ctx`
	r.RequestURI = r.URL.String()

	once.Do(func() { handler = build() })
	handler.ServeHTTP(w, r)
}

// build wires the fiber application once per process. Connections stay open
// for the lifetime of the function instance.
func build() http.HandlerFunc {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load application configuration: %v", err)
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		log.Fatalf("failed to initialize dependencies: %v", err)
	}
	return adaptor.FiberApp(webapi.SetupApp(app.New(deps)))
}
