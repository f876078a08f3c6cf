// Package grandmas contains handlers for the contributor resource. Reads are
// public; mutations run behind the authorization gate. No mutation checks
// that the caller is linked to the contributor being modified.
package grandmas

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	apiError "github.com/recetas-abuela/backend/internal/api/error"
	"github.com/recetas-abuela/backend/internal/api/requestid"
	"github.com/recetas-abuela/backend/internal/api/token"
	"github.com/recetas-abuela/backend/internal/database"
	"github.com/recetas-abuela/backend/internal/env"
	mJson "github.com/recetas-abuela/backend/internal/json"
)

const notFoundMessage = "That id does not exist in our data base"

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

func grandmaParams(r GrandmaRequest) database.GrandmaParams {
	return database.GrandmaParams{
		Name:      r.Name,
		Lastname:  r.Lastname,
		City:      r.City,
		Province:  r.Province,
		Country:   r.Country,
		BirthYear: r.BirthYear,
		Bio:       r.Bio,
		Photo:     r.Photo,
	}
}

// HandleListGrandmas returns every contributor.
func HandleListGrandmas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	env.Logger.DebugContext(ctx, "Listing grandmas")
	dbGrandmas, err := env.Database.ListGrandmas(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to list grandmas", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	results := make([]Grandma, 0, len(dbGrandmas))
	for _, g := range dbGrandmas {
		results = append(results, newGrandma(g))
	}

	env.Logger.DebugContext(ctx, "Writing response")
	writeJSON(w, env.Logger, http.StatusOK, ListGrandmasResponse{
		Success: true,
		Info:    listInfo{Count: len(results)},
		Results: results,
	})
}

// HandleGetGrandma returns a single contributor by id. An unknown id is
// reported as success=false, not as an error status.
func HandleGetGrandma(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id, err := strconv.ParseInt(chi.URLParam(r, "idGrandma"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Invalid grandma id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid grandma id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Retrieving grandma")
	grandma, err := env.Database.GetGrandma(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		writeJSON(w, env.Logger, http.StatusOK, messageResponse{Success: false, Message: notFoundMessage})
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to retrieve grandma", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	writeJSON(w, env.Logger, http.StatusOK, GetGrandmaResponse{Success: true, Data: newGrandma(grandma)})
}

// HandleCreateGrandma inserts a contributor and links it to the caller.
func HandleCreateGrandma(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	identity, err := token.IdentityFromCtx(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "No identity in context", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.NotAuthorized, "User not authorized", requestID)
		return
	}

	// Decode JSON
	var request GrandmaRequest
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

	// Insert grandma and link to the submitting user
	env.Logger.DebugContext(ctx, "Creating grandma")
	grandmaID, err := env.Database.CreateGrandma(ctx, grandmaParams(request))
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to create grandma", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if err := env.Database.LinkGrandmaToUser(ctx, identity.UserID, grandmaID); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to link grandma to user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	writeJSON(w, env.Logger, http.StatusOK, CreateGrandmaResponse{
		Success: true,
		Info:    createInfo{GrandmaID: grandmaID, UserID: identity.UserID},
	})
}

// HandleUpdateGrandma replaces every mutable field of a contributor.
func HandleUpdateGrandma(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Invalid grandma id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid grandma id", requestID)
		return
	}

	// Decode JSON
	var request GrandmaRequest
	env.Logger.DebugContext(ctx, "Reading request body")
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	if err := mJson.DecodeJSON(&request, decoder); err != nil {
		env.Logger.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Updating grandma")
	affected, err := env.Database.UpdateGrandma(ctx, id, grandmaParams(request))
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to update grandma", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if affected == 0 {
		writeJSON(w, env.Logger, http.StatusOK, messageResponse{Success: false, Message: notFoundMessage})
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	writeJSON(w, env.Logger, http.StatusOK, messageResponse{
		Success: true,
		Message: fmt.Sprintf("%d fields updated", affected),
	})
}

// HandleDeleteGrandma deletes a contributor unconditionally. Recipes that
// reference it are left orphaned.
func HandleDeleteGrandma(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Invalid grandma id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid grandma id", requestID)
		return
	}

	env.Logger.DebugContext(ctx, "Deleting grandma")
	affected, err := env.Database.DeleteGrandma(ctx, id)
	if err != nil {
		env.Logger.ErrorContext(ctx, "Failed to delete grandma", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if affected == 0 {
		writeJSON(w, env.Logger, http.StatusOK, messageResponse{Success: false, Message: notFoundMessage})
		return
	}

	env.Logger.DebugContext(ctx, "Writing response")
	writeJSON(w, env.Logger, http.StatusOK, messageResponse{
		Success: true,
		Message: fmt.Sprintf("The row with idGrandma = %d has been deleted.", id),
	})
}
