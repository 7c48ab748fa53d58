// Package devserver implements the authentication API of the MarketAI Suite
// backend closely enough to develop and test the client against it:
// registration, login and the current-user endpoint.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/patric-chuzhbe/suiteclient/internal/auth"
	"github.com/patric-chuzhbe/suiteclient/internal/gzippedhttp"
	"github.com/patric-chuzhbe/suiteclient/internal/logger"
	"github.com/patric-chuzhbe/suiteclient/internal/models"
	"github.com/patric-chuzhbe/suiteclient/internal/user"
)

type userKeeper interface {
	CreateUser(ctx context.Context, email, passwordHash string) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	GetUserByID(ctx context.Context, userID string) (*user.User, error)
}

type tokenIssuer interface {
	IssueToken(userID string) (string, error)
	AuthenticateUser(h http.Handler) http.Handler
}

// Router serves the authentication endpoints.
type Router struct {
	users      userKeeper
	auth       tokenIssuer
	validate   *validator.Validate
	bcryptCost int
}

type Option func(*Router)

// WithBcryptCost lowers the hashing cost, for tests.
func WithBcryptCost(cost int) Option {
	return func(r *Router) {
		r.bcryptCost = cost
	}
}

// New builds the chi handler of the development backend.
func New(users userKeeper, issuer tokenIssuer, opts ...Option) http.Handler {
	myRouter := &Router{
		users:      users,
		auth:       issuer,
		validate:   validator.New(),
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(myRouter)
	}

	router := chi.NewRouter()
	router.Use(
		logger.WithLoggingHTTPMiddleware,
		gzippedhttp.UngzipRequest,
		gzippedhttp.GzipResponse,
	)
	router.Post(`/api/auth/register`, myRouter.PostRegister)
	router.Post(`/api/auth/login`, myRouter.PostLogin)
	router.With(issuer.AuthenticateUser).Get(`/api/auth/me`, myRouter.GetMe)
	router.NotFound(func(response http.ResponseWriter, request *http.Request) {
		writeJSON(response, http.StatusNotFound, models.ErrorResponse{Error: "Not found"})
	})

	return router
}

func (router *Router) readCredentials(request *http.Request) (*models.Credentials, bool) {
	var credentials models.Credentials
	if err := json.NewDecoder(request.Body).Decode(&credentials); err != nil {
		logger.Log.Debugln("Error decoding credentials: ", zap.Error(err))
		return nil, false
	}
	if err := router.validate.Struct(credentials); err != nil {
		return nil, false
	}

	return &credentials, true
}

// PostRegister creates an account.
func (router *Router) PostRegister(response http.ResponseWriter, request *http.Request) {
	credentials, ok := router.readCredentials(request)
	if !ok {
		writeJSON(response, http.StatusBadRequest, models.ErrorResponse{Error: "Email and password required"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credentials.Password), router.bcryptCost)
	if err != nil {
		logger.Log.Debugln("Error calling the `bcrypt.GenerateFromPassword()`: ", zap.Error(err))
		writeJSON(response, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	userID, err := router.users.CreateUser(request.Context(), credentials.Email, string(hash))
	if errors.Is(err, models.ErrUserExists) {
		writeJSON(response, http.StatusBadRequest, models.ErrorResponse{Error: "User already exists"})
		return
	}
	if err != nil {
		logger.Log.Debugln("Error calling the `router.users.CreateUser()`: ", zap.Error(err))
		writeJSON(response, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(response, http.StatusCreated, models.RegisterResponse{
		Message: "Registration successful",
		UserID:  userID,
		Email:   credentials.Email,
	})
}

// PostLogin checks the credentials and issues a token.
func (router *Router) PostLogin(response http.ResponseWriter, request *http.Request) {
	credentials, ok := router.readCredentials(request)
	if !ok {
		writeJSON(response, http.StatusBadRequest, models.ErrorResponse{Error: "Email and password required"})
		return
	}

	usr, err := router.users.GetUserByEmail(request.Context(), credentials.Email)
	if err != nil {
		logger.Log.Debugln("Error calling the `router.users.GetUserByEmail()`: ", zap.Error(err))
		writeJSON(response, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}
	if usr == nil || bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(credentials.Password)) != nil {
		writeJSON(response, http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid credentials"})
		return
	}

	token, err := router.auth.IssueToken(usr.ID)
	if err != nil {
		logger.Log.Debugln("Error calling the `router.auth.IssueToken()`: ", zap.Error(err))
		writeJSON(response, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(response, http.StatusOK, models.AuthResponse{
		Message:     "Login successful",
		AccessToken: token,
		UserID:      usr.ID,
		Email:       usr.Email,
	})
}

// GetMe returns the account owning the bearer token.
func (router *Router) GetMe(response http.ResponseWriter, request *http.Request) {
	userID, _ := auth.UserID(request.Context())

	usr, err := router.users.GetUserByID(request.Context(), userID)
	if err != nil {
		logger.Log.Debugln("Error calling the `router.users.GetUserByID()`: ", zap.Error(err))
		writeJSON(response, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
		return
	}
	if usr == nil {
		writeJSON(response, http.StatusNotFound, models.ErrorResponse{Error: "User not found"})
		return
	}

	writeJSON(response, http.StatusOK, models.UserInfo{UserID: usr.ID, Email: usr.Email})
}

func writeJSON(response http.ResponseWriter, status int, body any) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)
	if err := json.NewEncoder(response).Encode(body); err != nil {
		logger.Log.Debugln("Error encoding the response body: ", zap.Error(err))
	}
}
