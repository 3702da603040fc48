package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Temutjin2k/bookshelf-auth/internal/adapter/http/handler/dto"
	"github.com/Temutjin2k/bookshelf-auth/internal/domain/models"
	"github.com/Temutjin2k/bookshelf-auth/pkg/logger"
	wrap "github.com/Temutjin2k/bookshelf-auth/pkg/logger/wrapper"
	"github.com/Temutjin2k/bookshelf-auth/pkg/validator"
)

type AuthService interface {
	Register(ctx context.Context, req *models.UserCreateRequest) error
	Login(ctx context.Context, username, password string) (*models.AccessToken, error)
	FederatedBegin(ctx context.Context) (string, error)
	FederatedLogin(ctx context.Context, code, state string) (*models.AccessToken, error)
	ValidateSession(ctx context.Context, token string) (string, error)
}

type Auth struct {
	auth AuthService
	l    logger.Logger
	now  func() time.Time
}

func NewAuth(service AuthService, l logger.Logger) *Auth {
	return &Auth{
		auth: service,
		l:    l,
		now:  time.Now,
	}
}

// Register godoc
// @Summary      Register a user
// @Description  Creates a password account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      dto.RegisterUserRequest  true  "New user"
// @Success      201      {object}  dto.MessageResponse
// @Failure      400      {object}  dto.ErrorResponse  "username taken or malformed body"
// @Failure      422      {object}  dto.ErrorResponse  "validation failed"
// @Router       /register [post]
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "register_user")

	req := &dto.RegisterUserRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateNewUser(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	if err := h.auth.Register(ctx, req.ToModel()); err != nil {
		h.l.Warn(wrap.ErrorCtx(ctx, err), "failed to register a new user", "error", err.Error())
		serviceErrorResponse(w, err)
		return
	}

	response := envelope{"message": "User registered successfully"}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w)
	}
}

// Login godoc
// @Summary      Password login
// @Description  Issues a bearer token. Accepts an OAuth2 password form or a JSON body.
// @Tags         auth
// @Accept       x-www-form-urlencoded,json
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      200       {object}  dto.TokenResponse
// @Failure      400       {object}  dto.ErrorResponse  "invalid username or password"
// @Failure      422       {object}  dto.ErrorResponse  "validation failed"
// @Router       /login [post]
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "login_user")

	req := &dto.LoginRequest{}
	if isJSON(r) {
		if err := readJSON(w, r, req); err != nil {
			badRequestResponse(w, err.Error())
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			badRequestResponse(w, "body contains a malformed form")
			return
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	}

	v := validator.New()
	dto.ValidateLogin(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	token, err := h.auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.l.Warn(wrap.WithUsername(wrap.ErrorCtx(ctx, err), req.Username), "failed to login user", "error", err.Error())
		serviceErrorResponse(w, err)
		return
	}

	h.writeToken(ctx, w, token)
}

// Me godoc
// @Summary      Current user
// @Description  Returns the username the bearer token was issued to
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /auth/me [get]
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_me")

	username := models.UsernameFromContext(ctx)
	if username == "" {
		unauthorizedResponse(w, "authorization required")
		return
	}

	if err := writeJSON(w, http.StatusOK, envelope{"username": username}, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w)
	}
}

func (h *Auth) writeToken(ctx context.Context, w http.ResponseWriter, token *models.AccessToken) {
	response := envelope{
		"access_token": token.Token,
		"token_type":   token.TokenType,
		"expires_in":   token.ExpiresIn(h.now()),
	}

	// tokens must not be cached by intermediaries
	headers := http.Header{}
	headers.Set("Cache-Control", "no-store")

	if err := writeJSON(w, http.StatusOK, response, headers); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w)
	}
}
