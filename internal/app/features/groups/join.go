// internal/app/features/groups/join.go
package groups

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/grovehub/internal/app/membership"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// joinRequest is the JSON body for POST /groups/join.
type joinRequest struct {
	GroupNames []string `json:"group_names"`
	UserID     string   `json:"user_id"`
}

type joinResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleJoin admits a user into one or more groups.
//
// 400 for malformed bodies, missing input, or a bad user ID; 502 when
// the storage layer fails mid-join (the operation is not atomic across
// groups, so retrying is safe but some groups may already be joined).
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed JSON body"})
		return
	}

	names := req.GroupNames
	if names != nil {
		scrubbed := make([]string, 0, len(names))
		for _, name := range names {
			scrubbed = append(scrubbed, h.scrubName(name))
		}
		names = scrubbed
	}

	userID, err := parseUserID(req.UserID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user_id"})
		return
	}

	h.join(w, r, names, userID)
}

// HandleJoinOne admits a user into the single group named in the URL.
func (h *Handler) HandleJoinOne(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed JSON body"})
		return
	}

	userID, err := parseUserID(req.UserID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user_id"})
		return
	}

	name := h.scrubName(chi.URLParam(r, "name"))
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid group name"})
		return
	}

	h.join(w, r, []string{name}, userID)
}

func (h *Handler) join(w http.ResponseWriter, r *http.Request, names []string, userID primitive.ObjectID) {
	err := h.Joins.Join(r.Context(), names, userID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, joinResponse{Status: "joined"})
	case errors.Is(err, membership.ErrInvalidData):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "group_names is required"})
	case errors.Is(err, membership.ErrInvalidUser):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "user_id is required"})
	default:
		h.Log.Error("join failed", zap.Strings("group_names", names), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "storage failure"})
	}
}

// ServeMembers lists a group's member IDs, most recent joiner first.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	name := h.scrubName(chi.URLParam(r, "name"))
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid group name"})
		return
	}

	ids, err := h.Members.Members(r.Context(), name)
	if err != nil {
		h.Log.Error("member listing failed", zap.String("group_name", name), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "storage failure"})
		return
	}

	hexes := make([]string, 0, len(ids))
	for _, id := range ids {
		hexes = append(hexes, id.Hex())
	}
	writeJSON(w, http.StatusOK, struct {
		GroupName string   `json:"group_name"`
		Members   []string `json:"members"`
	}{GroupName: name, Members: hexes})
}

func (h *Handler) scrubName(name string) string {
	return strings.TrimSpace(h.sanitizer.Sanitize(name))
}

func parseUserID(hex string) (primitive.ObjectID, error) {
	if hex == "" {
		// Let the coordinator report the missing user; it owns that
		// part of the contract.
		return primitive.NilObjectID, nil
	}
	return primitive.ObjectIDFromHex(hex)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
