// internal/adapters/in/http/handler/business_handler.go
package handler

import (
	"net/http"

	"voltmart/internal/application/usecase"
)

// BusinessHandler exposes the public storefront settings:
//
//	GET /api/business
//
// The payload comes from the settings cache; it never errors (defaults are
// served when the document is missing or the backend is unreachable).
type BusinessHandler struct {
	settings *usecase.SettingsUsecase
}

func NewBusinessHandler(settings *usecase.SettingsUsecase) *BusinessHandler {
	return &BusinessHandler{settings: settings}
}

func (h *BusinessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, h.settings.Get(r.Context()))
}
