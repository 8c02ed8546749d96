package transport

import (
	"net/http"

	"github.com/gorilla/mux"
	contactapp "github.com/muhammadheryan/crm/application/contact"
	statsapp "github.com/muhammadheryan/crm/application/stats"
	userapp "github.com/muhammadheryan/crm/application/user"
	"github.com/muhammadheryan/crm/constant"
	"github.com/muhammadheryan/crm/model"
	httpSwagger "github.com/swaggo/http-swagger"
)

type RestHandler struct {
	UserApp        userapp.UserApp
	ContactApp     contactapp.ContactApp
	StatsApp       statsapp.StatsApp
	MaxUploadBytes int64
}

// Options are the transport settings that come from config.
type Options struct {
	AllowedOrigins []string
	MaxUploadBytes int64
}

func NewTransport(UserApp userapp.UserApp, ContactApp contactapp.ContactApp, StatsApp statsapp.StatsApp, opts Options) http.Handler {
	router := mux.NewRouter()

	rh := &RestHandler{
		UserApp:        UserApp,
		ContactApp:     ContactApp,
		StatsApp:       StatsApp,
		MaxUploadBytes: opts.MaxUploadBytes,
	}

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	api := router.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/health", rh.Health).Methods(http.MethodGet)
	api.HandleFunc("/auth/signup", rh.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", rh.Login).Methods(http.MethodPost)

	// protected routes
	api.HandleFunc("/users/me", rh.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/users/me", rh.UpdateProfile).Methods(http.MethodPatch)
	api.HandleFunc("/users/me/profile-picture", rh.UploadProfilePicture).Methods(http.MethodPost)
	api.HandleFunc("/users/me/profile-picture", rh.GetProfilePicture).Methods(http.MethodGet)

	api.HandleFunc("/contacts", rh.ListContacts).Methods(http.MethodGet)
	api.HandleFunc("/contacts", rh.CreateContact).Methods(http.MethodPost)
	api.HandleFunc("/contacts/{id:[0-9]+}", rh.GetContact).Methods(http.MethodGet)
	api.HandleFunc("/contacts/{id:[0-9]+}", rh.ReplaceContact).Methods(http.MethodPut)
	api.HandleFunc("/contacts/{id:[0-9]+}", rh.UpdateContact).Methods(http.MethodPatch)
	api.HandleFunc("/contacts/{id:[0-9]+}", rh.DeleteContact).Methods(http.MethodDelete)

	// admin routes
	admin := api.PathPrefix("/users/employees").Subrouter()
	admin.HandleFunc("/stats", rh.EmployeeStats).Methods(http.MethodGet)
	admin.Use(RequireRole(constant.RoleAdmin))

	// middleware
	router.Use(AuthMiddleware(UserApp))

	// outer chain also sees unmatched routes and preflight requests
	var handler http.Handler = router
	handler = CORSMiddleware(opts.AllowedOrigins)(handler)
	handler = SecurityHeadersMiddleware()(handler)
	handler = LoggingMiddleware()(handler)
	handler = RequestIDMiddleware()(handler)
	return handler
}

// Health handler
// @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} transport.MessageResponse
// @Router /api/health [get]
func (s *RestHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, MessageResponse{Message: "ok"})
}

// Signup handler
// @Summary Sign up
// @Description Create an account and receive a JWT valid for 7 days
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.SignupRequest true "Signup Request"
// @Success 201 {object} model.AuthResponse
// @Failure 400 {object} transport.ErrorResponse
// @Failure 403 {object} transport.ErrorResponse
// @Router /api/auth/signup [post]
func (s *RestHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate(&req); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.UserApp.Signup(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeCreated(w, res)
}

// Login handler
// @Summary Login user
// @Description Login with email and password and receive a JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Login Request"
// @Success 200 {object} model.AuthResponse
// @Failure 401 {object} transport.ErrorResponse
// @Failure 429 {object} transport.ErrorResponse
// @Router /api/auth/login [post]
func (s *RestHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate(&req); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.UserApp.Login(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}
