package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/chefvision/server/internal/errors"
	"github.com/chefvision/server/internal/sentry"
	"github.com/chefvision/server/internal/services/orchestrator"
	"github.com/chefvision/server/internal/services/recipe"
	"github.com/chefvision/server/internal/share"
)

// maxBodyBytes caps request bodies; both endpoints take a few short strings.
const maxBodyBytes = 64 << 10

// ImageGenerator turns a prompt into an image data URI.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// RecipeGenerator assembles a full recipe from a request.
type RecipeGenerator interface {
	Generate(ctx context.Context, req recipe.Request) (*recipe.Recipe, error)
}

type Server struct {
	images  ImageGenerator
	recipes RecipeGenerator
}

func NewServer(images ImageGenerator, recipes RecipeGenerator) *Server {
	return &Server{
		images:  images,
		recipes: recipes,
	}
}

// Routes mounts the public endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.HandleRoot)
	r.Get("/favicon.ico", s.HandleFavicon)
	r.Get("/api/health", s.HandleHealth)
	r.Post("/api/generate-image", s.HandleGenerateImage)
	r.Post("/api/recipes", s.HandleGenerateRecipe)
}

type GenerateImageRequest struct {
	Prompt string `json:"prompt"`
}

type GenerateImageResponse struct {
	Image string `json:"image"`
}

type GenerateRecipeResponse struct {
	Recipe *recipe.Recipe  `json:"recipe"`
	Share  share.Metadata `json:"share"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) HandleGenerateImage(w http.ResponseWriter, r *http.Request) {
	var req GenerateImageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	image, err := s.images.GenerateImage(r.Context(), req.Prompt)
	if err != nil {
		status, msg := s.errorResponse(r.Context(), "image_proxy", err, "Internal Server Error")
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, GenerateImageResponse{Image: image})
}

func (s *Server) HandleGenerateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipe.Request
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.recipes.Generate(r.Context(), req)
	if err != nil {
		status, msg := s.errorResponse(r.Context(), "orchestrator", err, orchestrator.UserFacingError)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, GenerateRecipeResponse{
		Recipe: result,
		Share:  share.For(result.Name, r.Header.Get("Referer")),
	})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Message: "ChefVision backend is running!",
	})
}

func (s *Server) HandleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ChefVision AI Recipe Generator Backend is live!"))
}

func (s *Server) HandleFavicon(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// errorResponse maps err to a status and client message. Client errors keep
// their message; everything else is reported to Sentry.
func (s *Server) errorResponse(ctx context.Context, component string, err error, fallback string) (int, string) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		sentry.CaptureError(ctx, component, err)
		slog.ErrorContext(ctx, "Unhandled error", "component", component, "error", err.Error())
		return http.StatusInternalServerError, fallback
	}

	attrs := []any{
		"component", component,
		"error_type", appErr.Type,
		"error_code", appErr.ErrorCode,
		"status", appErr.StatusCode,
		"recovery", appErr.Recovery,
		"error", err.Error(),
	}
	if appErr.StatusCode >= 400 && appErr.StatusCode < 500 {
		slog.InfoContext(ctx, "Request rejected", attrs...)
		return appErr.StatusCode, appErr.Message
	}

	sentry.CaptureError(ctx, component, err)
	if appErr.IsOperational {
		slog.WarnContext(ctx, "Request failed", attrs...)
	} else {
		slog.ErrorContext(ctx, "Request failed on server error", attrs...)
	}
	return http.StatusInternalServerError, appErr.Message
}

// decodeJSON treats an empty body as an empty object so field validation
// produces the error message.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
