package handler

import (
	"net/http"

	wrap "github.com/Temutjin2k/bookshelf-auth/pkg/logger/wrapper"
)

// FederatedBegin godoc
// @Summary      Start Google login
// @Description  Returns the identity provider URL the browser must be sent to
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.AuthorizationURLResponse
// @Failure      503  {object}  dto.ErrorResponse  "federated login is not configured"
// @Router       /auth/provider/login [get]
func (h *Auth) FederatedBegin(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "federated_begin")

	url, err := h.auth.FederatedBegin(ctx)
	if err != nil {
		h.l.Warn(wrap.ErrorCtx(ctx, err), "failed to start federated login", "error", err.Error())
		serviceErrorResponse(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"authorization_url": url}, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w)
	}
}

// FederatedCallback godoc
// @Summary      Complete Google login
// @Description  Exchanges the authorization code and issues a bearer token
// @Tags         auth
// @Produce      json
// @Param        code   query     string  true  "Authorization code"
// @Param        state  query     string  true  "State returned by /auth/provider/login"
// @Success      200    {object}  dto.TokenResponse
// @Failure      400    {object}  dto.ErrorResponse  "missing code or invalid state"
// @Failure      502    {object}  dto.ErrorResponse  "identity provider exchange failed"
// @Failure      503    {object}  dto.ErrorResponse  "federated login is not configured"
// @Router       /auth/provider/callback [get]
func (h *Auth) FederatedCallback(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "federated_callback")

	q := r.URL.Query()
	if reason := q.Get("error"); reason != "" {
		badRequestResponse(w, "identity provider denied the request: "+reason)
		return
	}

	code, state := q.Get("code"), q.Get("state")
	if code == "" || state == "" {
		badRequestResponse(w, "code and state must be provided")
		return
	}

	token, err := h.auth.FederatedLogin(ctx, code, state)
	if err != nil {
		h.l.Warn(wrap.ErrorCtx(ctx, err), "failed to complete federated login", "error", err.Error())
		serviceErrorResponse(w, err)
		return
	}

	h.writeToken(ctx, w, token)
}
