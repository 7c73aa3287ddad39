package chatbot

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// ChatHTTPRequest is the request body for POST /chat.
type ChatHTTPRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId,omitempty"`
	AccountID string `json:"accountId,omitempty"`
	Email     string `json:"email,omitempty"`
}

// ChatHTTPResponse is the response body for POST /chat.
type ChatHTTPResponse struct {
	SessionID         string      `json:"sessionId"`
	Identity          Identity    `json:"identity"`
	Response          string      `json:"response"`
	Family            ChartFamily `json:"family,omitempty"`
	Chart             *ChartSpec  `json:"chart,omitempty"`
	Table             *TableSpec  `json:"table,omitempty"`
	TurnID            int64       `json:"turnId,omitempty"`
	PersistenceFailed bool        `json:"persistenceFailed,omitempty"`
}

// ErrorResponse is the HTTP error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// newHTTPRouter creates the chi router with middleware and routes.
func (b *Chatbot) newHTTPRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(recoveryMiddleware(b.config.Logger))
	r.Use(loggingMiddleware(b.config.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(timeoutMiddleware(b.config.RequestTimeout))
	r.Use(bodySizeLimitMiddleware(b.config.MaxRequestBodySize))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   b.config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-User-Email"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", b.handleHealth)
	r.Post("/chat", b.handleChat)
	r.Get("/history", b.handleHistory)

	r.Route("/admin", func(r chi.Router) {
		r.Use(b.adminOnly)
		r.Get("/stats", b.handleAdminStats)
		r.Get("/conversations", b.handleAdminConversations)
		r.Get("/export", b.handleAdminExport)
	})

	return r
}

func (b *Chatbot) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (b *Chatbot) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", ErrCodeValidation)
		return
	}

	if req.Message == "" {
		respondError(w, http.StatusBadRequest, "Message cannot be empty", ErrCodeValidation)
		return
	}
	if len(req.Message) > b.config.MaxMessageLength {
		respondError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Message exceeds maximum length of %d characters", b.config.MaxMessageLength),
			ErrCodeValidation)
		return
	}

	sessionID, session := b.sessions.getOrCreate(req.SessionID, req.AccountID, req.Email)

	result, err := b.processTurn(r.Context(), session, req.Message)
	if err != nil {
		b.handleError(w, err)
		return
	}

	resp := ChatHTTPResponse{
		SessionID:         sessionID,
		Identity:          result.Identity,
		Response:          result.Visualization.Text,
		Family:            result.Visualization.Family,
		Chart:             result.Visualization.Chart,
		Table:             result.Visualization.Table,
		PersistenceFailed: result.PersistenceFailed,
	}
	if result.Turn != nil {
		resp.TurnID = result.Turn.ID
	}

	respondJSON(w, http.StatusOK, resp)
}

func (b *Chatbot) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	accountID := r.URL.Query().Get("accountId")
	if sessionID == "" && accountID == "" {
		respondError(w, http.StatusBadRequest, "sessionId or accountId is required", ErrCodeValidation)
		return
	}

	// Reads never register sessions: an account id is already the
	// store key, and an unknown session id has no history to page.
	var ownerKey string
	if accountID != "" {
		ownerKey = accountID
	} else {
		session, ok := b.sessions.lookup(sessionID)
		if !ok {
			respondJSON(w, http.StatusOK, &Page{
				Items:      []ConversationTurn{},
				PageNumber: queryPage(r),
				PageSize:   b.config.HistoryPageSize,
			})
			return
		}
		ownerKey = b.resolver.Resolve(session).Key
	}

	page, err := b.store.Page(r.Context(), ownerKey, queryPage(r), b.config.HistoryPageSize)
	if err != nil {
		b.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

// adminOnly gates the operator surface behind the email allowlist.
// The email header is attached by the external identity layer; this
// check mirrors its allowlist, it is not authentication.
func (b *Chatbot) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !b.config.IsAdmin(r.Header.Get("X-User-Email")) {
			respondError(w, http.StatusForbidden, "admin access required", ErrCodeValidation)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Chatbot) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := b.admin.Overview(r.Context())
	if err != nil {
		b.handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (b *Chatbot) handleAdminConversations(w http.ResponseWriter, r *http.Request) {
	page, err := b.admin.Conversations(r.Context(), queryPage(r), b.config.AdminPageSize)
	if err != nil {
		b.handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (b *Chatbot) handleAdminExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", b.admin.ExportFilename()))

	if err := b.admin.ExportCSV(r.Context(), w); err != nil {
		b.config.Logger.Error("csv export failed", "error", err)
	}
}

// queryPage reads the page query parameter, defaulting to 1.
func queryPage(r *http.Request) int {
	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			return n
		}
	}
	return 1
}

func (b *Chatbot) handleError(w http.ResponseWriter, err error) {
	code := ErrorCode(err)
	respondError(w, errorCodeToStatus(code), err.Error(), code)
}

func errorCodeToStatus(code string) int {
	switch code {
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeStorage:
		return http.StatusServiceUnavailable
	case ErrCodeUpstream:
		return http.StatusBadGateway
	case ErrCodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message, code string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}
