package transport

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	authapp "github.com/muhammadheryan/internmatch/application/auth"
	chatapp "github.com/muhammadheryan/internmatch/application/chat"
	"github.com/muhammadheryan/internmatch/application/ratelimit"
	recommendapp "github.com/muhammadheryan/internmatch/application/recommend"
	userapp "github.com/muhammadheryan/internmatch/application/user"
	"github.com/muhammadheryan/internmatch/constant"
	"github.com/muhammadheryan/internmatch/model"
	utilsContext "github.com/muhammadheryan/internmatch/utils/context"
	"github.com/muhammadheryan/internmatch/utils/errors"
	validatorx "github.com/muhammadheryan/internmatch/utils/validator"
	httpSwagger "github.com/swaggo/http-swagger"
)

// maxBodySize caps JSON request bodies
const maxBodySize = 1 << 20

type RestHandler struct {
	AuthApp      authapp.AuthApp
	UserApp      userapp.UserApp
	ChatApp      chatapp.ChatApp
	RecommendApp recommendapp.RecommendApp
}

type Options struct {
	// Limiter guards /api/auth/*; nil disables rate limiting
	Limiter        ratelimit.Limiter
	InternalAPIKey string
	// TrustedProxies may set X-Forwarded-For; everyone else is keyed by peer address
	TrustedProxies TrustedProxies
}

func NewTransport(rh *RestHandler, opts Options) http.Handler {
	router := mux.NewRouter()
	router.Use(LoggingMiddleware(opts.TrustedProxies))

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", rh.Health).Methods(http.MethodGet)
	api.HandleFunc("/chat", rh.Chat).Methods(http.MethodPost)
	api.HandleFunc("/recommend", rh.Recommend).Methods(http.MethodPost)

	requireToken := AuthMiddleware(rh.AuthApp)

	auth := api.PathPrefix("/auth").Subrouter()
	if opts.Limiter != nil {
		auth.Use(RateLimitMiddleware(opts.Limiter, opts.TrustedProxies))
	}
	auth.HandleFunc("/signup", rh.Signup).Methods(http.MethodPost)
	auth.HandleFunc("/login", rh.Login).Methods(http.MethodPost)
	auth.HandleFunc("/send-otp", rh.SendOTP).Methods(http.MethodPost)
	auth.HandleFunc("/verify-otp", rh.VerifyOTP).Methods(http.MethodPost)
	auth.HandleFunc("/logout", rh.Logout).Methods(http.MethodPost)
	auth.Handle("/me", requireToken(http.HandlerFunc(rh.Me))).Methods(http.MethodGet)

	// protected routes
	users := api.PathPrefix("/users").Subrouter()
	users.Use(requireToken)
	users.HandleFunc("/profile", rh.GetProfile).Methods(http.MethodGet)
	users.HandleFunc("/profile", rh.UpdateProfile).Methods(http.MethodPut)

	internal := router.PathPrefix("/internal").Subrouter()
	internal.Use(InternalMiddleware(opts.InternalAPIKey))
	internal.HandleFunc("/users", rh.ListUsers).Methods(http.MethodGet)

	return router
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	return json.NewDecoder(r.Body).Decode(dst)
}

// signupValidationError maps the first failed rule to the message shown to the user
func signupValidationError(err error) error {
	switch validatorx.FirstInvalidField(err) {
	case "Username":
		return errors.SetCustomError(constant.ErrInvalidUsername)
	case "Password":
		return errors.SetCustomError(constant.ErrInvalidPassword)
	case "Email":
		return errors.SetCustomError(constant.ErrInvalidEmail)
	default:
		return errors.SetCustomError(constant.ErrInvalidRequest)
	}
}

// Health handler
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} model.HealthResponse
// @Router /api/health [get]
func (s *RestHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, model.HealthResponse{Status: "ok"})
}

// Signup handler
// @Summary Register with username and password
// @Description Creates a credential and a user profile. An email that already belongs to a profile is rejected
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.SignupRequest true "Signup Request"
// @Success 201 {object} model.MessageResponse
// @Failure 400 {object} transport.ErrorResponse
// @Failure 429 {object} transport.ErrorResponse
// @Router /api/auth/signup [post]
func (s *RestHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, signupValidationError(err))
		return
	}

	res, err := s.AuthApp.Signup(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeCreated(w, res)
}

// Login handler
// @Summary Login with username or email
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Login Request"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} transport.ErrorResponse
// @Failure 401 {object} transport.ErrorResponse
// @Failure 404 {object} transport.ErrorResponse
// @Router /api/auth/login [post]
func (s *RestHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.AuthApp.Login(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// SendOTP handler
// @Summary Send a one-time passcode
// @Description Issues a 6-digit code valid for 5 minutes and delivers it by email (or SMS when a phone number is given)
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.SendOTPRequest true "Send OTP Request"
// @Success 200 {object} model.SendOTPResponse
// @Failure 400 {object} transport.ErrorResponse
// @Failure 500 {object} transport.ErrorResponse
// @Router /api/auth/send-otp [post]
func (s *RestHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.SendOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrEmailRequired))
		return
	}

	res, err := s.AuthApp.SendOTP(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// VerifyOTP handler
// @Summary Verify a one-time passcode
// @Description Consumes the OTP session, creates the user on first login and returns a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.VerifyOTPRequest true "Verify OTP Request"
// @Success 200 {object} model.VerifyOTPResponse
// @Failure 400 {object} transport.ErrorResponse
// @Router /api/auth/verify-otp [post]
func (s *RestHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.VerifyOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrOTPFieldsRequired))
		return
	}

	res, err := s.AuthApp.VerifyOTP(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// Logout handler
// @Summary Logout
// @Description Tokens are not revoked server side; the client discards its token
// @Tags Auth
// @Produce json
// @Success 200 {object} model.MessageResponse
// @Router /api/auth/logout [post]
func (s *RestHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, model.MessageResponse{Message: authapp.MsgLogoutSuccess})
}

// Me handler
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserEnvelope
// @Failure 400 {object} transport.ErrorResponse
// @Failure 401 {object} transport.ErrorResponse
// @Failure 404 {object} transport.ErrorResponse
// @Router /api/auth/me [get]
func (s *RestHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := utilsContext.GetClaims(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrMissingToken))
		return
	}

	res, err := s.AuthApp.Me(ctx, claims)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// GetProfile handler
// @Summary Get own profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.UserEnvelope
// @Failure 401 {object} transport.ErrorResponse
// @Failure 404 {object} transport.ErrorResponse
// @Router /api/users/profile [get]
func (s *RestHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrMissingToken))
		return
	}

	res, err := s.UserApp.GetProfile(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, model.UserEnvelope{User: *res})
}

// UpdateProfile handler
// @Summary Update own profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.UpdateProfileRequest true "Update Profile Request"
// @Success 200 {object} model.UpdateProfileResponse
// @Failure 400 {object} transport.ErrorResponse
// @Failure 401 {object} transport.ErrorResponse
// @Failure 404 {object} transport.ErrorResponse
// @Router /api/users/profile [put]
func (s *RestHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrMissingToken))
		return
	}

	var req model.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.UserApp.UpdateProfile(ctx, userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// Chat handler
// @Summary Ask the InternMatch assistant
// @Tags Assistant
// @Accept json
// @Produce json
// @Param request body model.ChatRequest true "Chat Request"
// @Success 200 {object} model.ChatResponse
// @Failure 400 {object} transport.ErrorResponse
// @Failure 500 {object} transport.ErrorResponse
// @Router /api/chat [post]
func (s *RestHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.ChatApp.Reply(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// Recommend handler
// @Summary Internship recommendations
// @Description Forwards the JSON body to the recommendation model and returns its answer unchanged
// @Tags Assistant
// @Accept json
// @Produce json
// @Param request body object true "Recommendation query"
// @Success 200 {object} object
// @Failure 400 {object} transport.ErrorResponse
// @Failure 500 {object} transport.ErrorResponse
// @Router /api/recommend [post]
func (s *RestHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
			return
		}
		writeError(w, err)
		return
	}

	res, err := s.RecommendApp.Recommend(ctx, body)
	if err != nil {
		writeError(w, err)
		return
	}

	writeRaw(w, res)
}

// ListUsers handler
// @Summary List all users
// @Tags Internal
// @Produce json
// @Security InternalKey
// @Success 200 {object} model.UserListResponse
// @Failure 403 {object} transport.ErrorResponse
// @Router /internal/users [get]
func (s *RestHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	res, err := s.UserApp.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}
