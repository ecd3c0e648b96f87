package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/modifymusic/modify/internal/auth"
	"github.com/modifymusic/modify/internal/catalog"
	"github.com/modifymusic/modify/internal/db"
	"github.com/modifymusic/modify/internal/detect"
	"github.com/modifymusic/modify/internal/mood"
	"github.com/modifymusic/modify/internal/prefs"
	"github.com/modifymusic/modify/internal/recommend"
)

const (
	defaultHistoryLimit = 10
	detectTimeout       = 30 * time.Second
)

// UserStore is the account persistence surface the handlers consume.
type UserStore interface {
	Create(ctx context.Context, user *db.User) error
	Get(ctx context.Context, id int) (*db.User, error)
	GetByEmail(ctx context.Context, email string) (*db.User, error)
}

// HistoryStore persists recommendation history records.
type HistoryStore interface {
	Create(ctx context.Context, rec *db.RecommendationRecord) error
	ListByUser(ctx context.Context, userID, limit int) ([]db.RecommendationRecord, error)
}

// HandlerDeps holds the collaborators handlers are built from.
type HandlerDeps struct {
	Auth      *auth.Service
	Users     UserStore
	History   HistoryStore
	Catalog   *catalog.Service
	Prefs     *prefs.Service
	Emotion   detect.EmotionDetector
	Vibe      detect.VibeDetector
	UploadDir string
}

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	auth      *auth.Service
	users     UserStore
	history   HistoryStore
	catalog   *catalog.Service
	prefs     *prefs.Service
	emotion   detect.EmotionDetector
	vibe      detect.VibeDetector
	uploadDir string
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps HandlerDeps) *Handlers {
	return &Handlers{
		auth:      deps.Auth,
		users:     deps.Users,
		history:   deps.History,
		catalog:   deps.Catalog,
		prefs:     deps.Prefs,
		emotion:   deps.Emotion,
		vibe:      deps.Vibe,
		uploadDir: deps.UploadDir,
	}
}

// userPayload is the account shape returned to clients.
type userPayload struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Health handles GET /api/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Modify Music API is running",
	})
}

// Songs handles GET /api/songs. The mood filter is optional for the catalog
// source; the source selector defaults to the catalog. A missing mood folder
// is a 404, while a mood with zero matches is a 200 with an empty list.
func (h *Handlers) Songs(w http.ResponseWriter, r *http.Request) {
	moodTag := mood.Canonical(r.URL.Query().Get("mood"))
	source := r.URL.Query().Get("source")
	if source == "" {
		source = catalog.SourceCatalog
	}

	songs, err := h.catalog.Query(r.Context(), moodTag, source)
	switch {
	case errors.Is(err, catalog.ErrUnknownSource):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, catalog.ErrFolderNotFound):
		respondError(w, http.StatusNotFound, "no songs found for mood: "+moodTag)
		return
	case err != nil:
		log.Printf("songs query failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to retrieve songs")
		return
	}

	if songs == nil {
		songs = []catalog.Song{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"songs": songs})
}

// Recommend handles POST /api/recommend: ranks the catalog snapshot against
// the submitted criteria and returns the recommendation card set.
func (h *Handlers) Recommend(w http.ResponseWriter, r *http.Request) {
	var criteria recommend.Criteria
	if err := json.NewDecoder(r.Body).Decode(&criteria); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if criteria.Intensity != nil && (*criteria.Intensity < 0 || *criteria.Intensity > 10) {
		respondError(w, http.StatusBadRequest, "intensity must be between 0 and 10")
		return
	}
	criteria.Emotion = mood.Canonical(criteria.Emotion)

	songs, err := h.catalog.All(r.Context())
	if err != nil {
		log.Printf("loading catalog for ranking failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to generate recommendations")
		return
	}

	ranked := recommend.Best(songs, criteria)
	if ranked == nil {
		ranked = []catalog.Song{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"songs": ranked})
}

// RecommendMore handles POST /api/recommend/more: returns a few extra songs
// not already on screen, to append to the visible set.
func (h *Handlers) RecommendMore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShownIDs []int `json:"shown_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	songs, err := h.catalog.All(r.Context())
	if err != nil {
		log.Printf("loading catalog for more recommendations failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to generate recommendations")
		return
	}

	more := recommend.More(songs, req.ShownIDs)
	if more == nil {
		more = []catalog.Song{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"songs": more})
}

// Profile handles GET /api/user/profile.
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	user, err := h.users.Get(r.Context(), claims.UserID)
	if errors.Is(err, db.ErrNotFound) {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		log.Printf("loading profile failed: %v", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	preferences, err := h.prefs.Get(r.Context(), user.ID)
	if err != nil {
		log.Printf("loading preferences failed: %v", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"createdAt": user.CreatedAt,
		},
		"preferences": preferences,
	})
}

// UpdatePreferences handles PUT /api/user/preferences. Each supplied set
// fully replaces the stored set of its type.
func (h *Handlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var update prefs.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.prefs.Set(r.Context(), claims.UserID, update); err != nil {
		log.Printf("updating preferences failed: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to update preferences")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Preferences updated successfully"})
}

// SaveRecommendation handles POST /api/recommendations: persists a
// write-once history record.
func (h *Handlers) SaveRecommendation(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var req struct {
		Type     string          `json:"type"`
		Criteria json.RawMessage `json:"criteria"`
		Songs    json.RawMessage `json:"songs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Type == "" || len(req.Criteria) == 0 || len(req.Songs) == 0 {
		respondError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	rec := db.RecommendationRecord{
		UserID:   claims.UserID,
		Type:     req.Type,
		Criteria: req.Criteria,
		Songs:    req.Songs,
	}
	if err := h.history.Create(r.Context(), &rec); err != nil {
		log.Printf("saving recommendation failed: %v", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Recommendation saved successfully",
		"id":      rec.ID,
	})
}

// ListRecommendations handles GET /api/recommendations, most recent first.
func (h *Handlers) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	records, err := h.history.ListByUser(r.Context(), claims.UserID, limit)
	if err != nil {
		log.Printf("listing recommendations failed: %v", err)
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	type recordPayload struct {
		ID        string          `json:"id"`
		Type      string          `json:"type"`
		Criteria  json.RawMessage `json:"criteria"`
		Songs     json.RawMessage `json:"songs"`
		CreatedAt time.Time       `json:"createdAt"`
	}
	payload := make([]recordPayload, len(records))
	for i, rec := range records {
		payload[i] = recordPayload{
			ID:        rec.ID.String(),
			Type:      rec.Type,
			Criteria:  rec.Criteria,
			Songs:     rec.Songs,
			CreatedAt: rec.CreatedAt,
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{"recommendations": payload})
}

// respondJSON writes v as a JSON response.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response failed: %v", err)
	}
}

// respondError writes a JSON error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
