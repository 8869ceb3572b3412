package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"mixerai/internal/httputil"
	models "mixerai/internal/domain/models/claims"
	claimsSvc "mixerai/internal/service/claims"
)

// ClaimsHandler exposes the claims resolution engine over HTTP. It is a thin
// adapter: parsing, auth context extraction and response shaping only; all
// semantics live in the service layer.
type ClaimsHandler struct {
	builder    *claimsSvc.ClaimsContextBuilder
	permission *claimsSvc.PermissionResolver
	styler     claimsSvc.Styler
	logger     *slog.Logger
}

// NewClaimsHandler creates a new claims handler
func NewClaimsHandler(
	builder *claimsSvc.ClaimsContextBuilder,
	permission *claimsSvc.PermissionResolver,
	styler claimsSvc.Styler,
	logger *slog.Logger,
) *ClaimsHandler {
	return &ClaimsHandler{
		builder:    builder,
		permission: permission,
		styler:     styler,
		logger:     logger,
	}
}

// GetEffectiveClaims resolves the effective claim set for one product.
// GET /api/products/{id}/effective-claims?country=US&tone=...
// Omitting country resolves for all markets; country=global resolves the
// global sentinel only. A tone parameter additionally runs the configured
// styling service over the resolved list.
func (h *ClaimsHandler) GetEffectiveClaims(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	country := countryFromQuery(r.URL.Query().Get("country"))

	resolution, err := h.builder.ResolveEffectiveClaims(r.Context(), productID, country)
	if err != nil {
		handleError(w, err)
		return
	}

	tone := r.URL.Query().Get("tone")
	if tone == "" {
		httputil.RespondJSON(w, http.StatusOK, resolution)
		return
	}

	styled, err := h.styler.StyleClaims(r.Context(), resolution.Claims, tone)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, struct {
		*models.Resolution
		Styled []models.StyledClaim `json:"styled"`
	}{resolution, styled})
}

// batchResolveRequest is the body of POST /api/claims/effective/batch
type batchResolveRequest struct {
	ProductIDs []uuid.UUID `json:"product_ids"`
	Country    string      `json:"country,omitempty"`
}

// BatchResolveEffectiveClaims resolves effective claims for many products.
// POST /api/claims/effective/batch
func (h *ClaimsHandler) BatchResolveEffectiveClaims(w http.ResponseWriter, r *http.Request) {
	var req batchResolveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.ProductIDs) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "product_ids is required")
		return
	}

	resolutions, err := h.builder.ResolveEffectiveClaimsBatch(r.Context(), req.ProductIDs, countryFromQuery(req.Country))
	if err != nil {
		handleError(w, err)
		return
	}

	byProduct := make(map[string]*models.Resolution, len(resolutions))
	for id, resolution := range resolutions {
		byProduct[id.String()] = resolution
	}

	httputil.RespondJSON(w, http.StatusOK, struct {
		Resolutions map[string]*models.Resolution `json:"resolutions"`
	}{byProduct})
}

// checkPermissionRequest is the body of POST /api/claims/permissions/check
type checkPermissionRequest struct {
	ProductIDs []uuid.UUID `json:"product_ids"`
}

// CheckPermissions evaluates claim-management permission for the
// authenticated user over a set of products.
// POST /api/claims/permissions/check
func (h *ClaimsHandler) CheckPermissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := httputil.UserID(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req checkPermissionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.ProductIDs) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "product_ids is required")
		return
	}

	verdict, err := h.permission.CheckProductClaimsPermission(r.Context(), userID, req.ProductIDs)
	if err != nil {
		handleError(w, err)
		return
	}

	// Denial is a successful evaluation, not a transport error; the body
	// carries the structured reasons.
	httputil.RespondJSON(w, http.StatusOK, verdict)
}

// countryFromQuery maps the wire representation to a Country: absent means
// all markets, "global" means the global sentinel, anything else is a
// market code.
func countryFromQuery(raw string) models.Country {
	switch raw {
	case "":
		return models.AllMarkets
	case "global", models.GlobalCountryCode:
		return models.CountryGlobal
	default:
		return models.Market(raw)
	}
}
