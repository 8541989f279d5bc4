package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hati-ai/hati-agent/internal/app/manager"
	"github.com/hati-ai/hati-agent/internal/domain"
)

type Server struct {
	svc   *manager.Service
	cache domain.ResponseCache
}

// NewServer wires the HTTP surface. gatherer backs GET /metrics; pass
// nil to disable the endpoint (tests do).
func NewServer(svc *manager.Service, cache domain.ResponseCache, gatherer prometheus.Gatherer) http.Handler {
	s := &Server{svc: svc, cache: cache}
	mux := http.NewServeMux()

	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/music/tracks", s.handleMusicTracks)
	mux.HandleFunc("/cleanup", s.handleCleanup)

	// /feedback/{session_id} and /analytics/{session_id}
	mux.HandleFunc("/feedback/", s.handleFeedback)
	mux.HandleFunc("/analytics/", s.handleAnalytics)

	if gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return chainMiddlewares(mux, withLogging, withCORS, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatRequest struct {
	Message     string            `json:"message"`
	UserID      string            `json:"user_id,omitempty"`
	SessionID   string            `json:"session_id,omitempty"`
	UserName    string            `json:"user_name,omitempty"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

type chatResponse struct {
	Response       string                   `json:"response"`
	AgentUsed      string                   `json:"agent_used"`
	MoodDetected   string                   `json:"mood_detected"`
	SpecialistData domain.SpecialistPayload `json:"specialist_data"`
	ProcessingTime float64                  `json:"processing_time"`
	SessionID      string                   `json:"session_id"`
	Personalized   bool                     `json:"personalized"`
}

type healthResponse struct {
	Status           string `json:"status"`
	AgentsRegistered int    `json:"agents_registered"`
	LLMConnected     bool   `json:"llm_connected"`
}

type feedbackRequest struct {
	AgentType string `json:"agent_type,omitempty"`
	TrackID   string `json:"track_id,omitempty"`
	Feedback  string `json:"feedback"`
	Genre     string `json:"genre,omitempty"`
}

type backgroundTrack struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Type        string `json:"type"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	reply, err := s.svc.HandleTurn(r.Context(), manager.TurnInput{
		Text:        req.Message,
		UserID:      domain.UserID(req.UserID),
		SessionID:   domain.SessionID(req.SessionID),
		UserName:    req.UserName,
		Preferences: req.Preferences,
	})
	if err != nil {
		if domain.IsValidation(err) {
			badRequest(w, err.Error())
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response:       reply.Response,
		AgentUsed:      string(reply.AgentUsed),
		MoodDetected:   string(reply.MoodDetected),
		SpecialistData: reply.SpecialistData,
		ProcessingTime: reply.ProcessingTime,
		SessionID:      string(reply.SessionID),
		Personalized:   reply.Personalized,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	llmConnected := s.svc.PingLLM(r.Context()) == nil

	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "healthy",
		AgentsRegistered: s.svc.AgentsRegistered(),
		LLMConnected:     llmConnected,
	})
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/feedback/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	err := s.svc.RecordFeedback(r.Context(), manager.FeedbackInput{
		SessionID: domain.SessionID(id),
		AgentType: req.AgentType,
		TrackID:   req.TrackID,
		Feedback:  req.Feedback,
		Genre:     req.Genre,
	})
	if err != nil {
		if domain.IsValidation(err) {
			badRequest(w, err.Error())
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "feedback_received",
		"message": "Thank you for your feedback!",
	})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/analytics/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	analytics, err := s.svc.SessionAnalytics(r.Context(), domain.SessionID(id))
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analytics)
}

// handleMusicTracks serves the static ambient background tracks the
// frontend player streams.
func (s *Server) handleMusicTracks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]backgroundTrack{
		"tracks": backgroundTracks,
	})
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	removed := 0
	if s.cache != nil {
		removed = s.cache.PurgeExpired(r.Context())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "cleanup_completed",
		"entries_removed": removed,
	})
}

var backgroundTracks = []backgroundTrack{
	{
		ID:          "rain",
		Name:        "Rain Ambience",
		Description: "Gentle rain sounds for relaxation",
		URL:         "https://cdn.pixabay.com/download/audio/2024/10/30/audio_42e6870f29.mp3",
		Type:        "ambient",
	},
	{
		ID:          "forest",
		Name:        "Forest Nature",
		Description: "Peaceful forest sounds and birds",
		URL:         "https://cdn.freesound.org/previews/565/565564_8462944-lq.mp3",
		Type:        "ambient",
	},
	{
		ID:          "cafe",
		Name:        "Cafe Ambience",
		Description: "Cozy coffee shop atmosphere",
		URL:         "https://cdn.freesound.org/previews/567/567067_2097560-lq.mp3",
		Type:        "ambient",
	},
	{
		ID:          "ocean",
		Name:        "Ocean Waves",
		Description: "Calming ocean wave sounds",
		URL:         "https://cdn.freesound.org/previews/316/316847_5123451-lq.mp3",
		Type:        "ambient",
	},
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
