// Package users contains handlers for account signup, login and profiles.
package users

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	apiError "github.com/recetas-abuela/backend/internal/api/error"
	"github.com/recetas-abuela/backend/internal/api/requestid"
	"github.com/recetas-abuela/backend/internal/api/token"
	"github.com/recetas-abuela/backend/internal/argon2id"
	"github.com/recetas-abuela/backend/internal/env"
	mJson "github.com/recetas-abuela/backend/internal/json"
	"github.com/recetas-abuela/backend/internal/jwt"
)

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	resp, err := json.Marshal(body)
	if err != nil {
		logger.Error("Failed to marshal response", slog.Any("error", err))
		return
	}
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(resp); err != nil {
		logger.Error("Failed to write response", slog.Any("error", err))
	}
}

// HandleSignup registers a new account. Duplicate emails are rejected
// before hashing.
func HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	// Decode JSON
	var request SignupRequest
	env.Logger.DebugContext(ctx, "Reading request body")
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	if err := mJson.DecodeJSON(&request, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}

	// Reject duplicate emails. The UNIQUE constraint backstops the race
	// between this check and the insert.
	env.Logger.DebugContext(ctx, "Checking for existing user")
	_, err := env.Database.GetUserByEmail(ctx, request.Email)
	if err == nil {
		env.Logger.ErrorContext(ctx, "User with email already exists")
		_ = apiError.EncodeError(w, apiError.EmailConflict, "User already exists", requestID)
		return
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "Failed to look up user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Hash password
	env.Logger.DebugContext(ctx, "Hashing password")
	hash, err := argon2id.EncodeHash(request.Password, argon2id.DefaultParams)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to hash password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Create user
	env.Logger.DebugContext(ctx, "Creating user")
	userID, err := env.Database.CreateUser(ctx, request.Email, hash)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Welcome mail is best effort
	if env.SMTP != nil {
		if err := env.SMTP.Send([]string{request.Email}, "Bienvenida a Recetas de la Abuela",
			"<p>Tu cuenta ya está lista. ¡A cocinar!</p>"); err != nil {
			env.Logger.ErrorContext(ctx, "Failed to send welcome email", slog.Any("error", err))
		}
	}

	env.Logger.DebugContext(ctx, "Writing response")
	writeJSON(w, env.Logger, http.StatusCreated, SignupResponse{Success: true, UserID: userID})
}

// HandleLogin authenticates an account and issues an access token. Unknown
// email and bad password are surfaced with distinct messages, matching the
// public contract.
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	// Decode JSON
	var request LoginRequest
	env.Logger.DebugContext(ctx, "Reading request body")
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	if err := mJson.DecodeJSON(&request, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to validate request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}

	// Find user
	env.Logger.DebugContext(ctx, "Retrieving user")
	user, err := env.Database.GetUserByEmail(ctx, request.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		env.Logger.ErrorContext(ctx, "No user with that email")
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "Wrong email", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to retrieve user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	// Verify password
	env.Logger.DebugContext(ctx, "Verifying password")
	match, err := argon2id.VerifyPassword(request.Password, user.PasswordHash)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to verify password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !match {
		env.Logger.ErrorContext(ctx, "Password does not match")
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "Wrong password", requestID)
		return
	}

	// Issue token
	env.Logger.DebugContext(ctx, "Generating access token")
	accessToken, err := token.NewAccessToken(jwt.JWTParams{
		UserID: strconv.FormatInt(user.ID, 10),
		Email:  user.Email,
	}, env)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to generate access token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	writeJSON(w, env.Logger, http.StatusOK, LoginResponse{Success: true, Token: accessToken})
}

// HandleLogout is a stateless no-op. Tokens are not revoked server-side;
// they lapse on their one-hour expiry.
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)

	writeJSON(w, env.Logger, http.StatusOK, LogoutResponse{Success: true, Message: "Session ended"})
}

// HandleListUsers returns every account profile.
func HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	env.Logger.DebugContext(ctx, "Listing users")
	dbUsers, err := env.Database.ListUsers(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	data := make([]User, 0, len(dbUsers))
	for _, u := range dbUsers {
		data = append(data, User{ID: u.ID, Email: u.Email})
	}

	env.Logger.DebugContext(ctx, "Writing response")
	writeJSON(w, env.Logger, http.StatusOK, ListUsersResponse{Success: true, Data: data})
}

// HandleGetUser returns a single account profile by id.
func HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id, err := strconv.ParseInt(chi.URLParam(r, "idUser"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Invalid user id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid user id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Retrieving user")
	user, err := env.Database.GetUserByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		writeJSON(w, env.Logger, http.StatusOK, notFoundResponse{Success: false, Message: "User not found"})
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to retrieve user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	writeJSON(w, env.Logger, http.StatusOK, GetUserResponse{Success: true, Data: User{ID: user.ID, Email: user.Email}})
}
