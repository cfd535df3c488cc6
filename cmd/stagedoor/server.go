package main

import (
	"net/http"

	"stagedoor/internal/app/festivals"
	"stagedoor/internal/app/performances"
	"stagedoor/internal/app/users"
	"stagedoor/internal/auth"
	"stagedoor/internal/httpapi"
	"stagedoor/internal/store"
)

func newHTTPHandler(cfg Config, dataStore *store.Store, tokens *auth.TokenService) http.Handler {
	userSvc := users.New(dataStore, tokens)
	festivalSvc := festivals.New(dataStore)
	performanceSvc := performances.New(dataStore, dataStore, dataStore)

	api := httpapi.New(userSvc, festivalSvc, performanceSvc, tokens)

	handler := httpapi.CORS(cfg.AllowedOrigins, api.Routes())
	handler = httpapi.RequestLogging(handler)
	handler = httpapi.Recovery(handler)
	return handler
}
