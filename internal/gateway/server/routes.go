package server

import (
	"net/http"

	logger "github.com/sirupsen/logrus"

	"readmegen/internal/gateway/handler"
	"readmegen/internal/gateway/middleware"
)

func NewMux(readmeHandler *handler.ReadmeHandler, log logger.FieldLogger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /generate-readme", readmeHandler.HandleGenerate)
	mux.HandleFunc("GET /readmes/{id}", readmeHandler.HandleDocument)
	mux.HandleFunc("GET /ws/generate-readme", readmeHandler.HandleGenerateWS)
	mux.HandleFunc("GET /healthz", readmeHandler.HandleHealth)

	// Middleware
	return middleware.CORS(middleware.AccessLog(log)(mux))
}
