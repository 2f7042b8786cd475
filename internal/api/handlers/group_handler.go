package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitledger/splitledger/internal/api/middleware"
	"github.com/splitledger/splitledger/internal/apperr"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/service"
)

// GroupHandler serves group lifecycle and membership endpoints.
type GroupHandler struct {
	groups *service.GroupService
}

// NewGroupHandler creates a new group handler.
func NewGroupHandler(groups *service.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

type createGroupRequest struct {
	Name string `json:"name"`
}

type addMemberRequest struct {
	Email string `json:"email"`
}

type groupResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	OwnerID   string   `json:"owner_id"`
	MemberIDs []string `json:"member_ids"`
	CreatedAt int64    `json:"created_at"`
}

func toGroupResponse(g *models.Group) groupResponse {
	return groupResponse{
		ID:        g.ID,
		Name:      g.Name,
		OwnerID:   g.OwnerUserID,
		MemberIDs: g.MemberIDs,
		CreatedAt: g.CreatedAt,
	}
}

// Create handles POST /api/v1/groups.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	group, err := h.groups.Create(r.Context(), userID, req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toGroupResponse(group))
}

// List handles GET /api/v1/groups.
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	groups, err := h.groups.List(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]groupResponse, 0, len(groups))
	for i := range groups {
		out = append(out, toGroupResponse(&groups[i]))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"groups": out})
}

// Get handles GET /api/v1/groups/{groupID}.
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	group, err := h.groups.Get(r.Context(), userID, chi.URLParam(r, "groupID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGroupResponse(group))
}

// Members handles GET /api/v1/groups/{groupID}/members.
func (h *GroupHandler) Members(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	members, err := h.groups.Members(r.Context(), userID, chi.URLParam(r, "groupID"))
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]userResponse, 0, len(members))
	for _, m := range members {
		out = append(out, userResponse{ID: m.ID, Email: m.Email, DisplayName: m.DisplayName})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"members": out})
}

// AddMember handles POST /api/v1/groups/{groupID}/members.
func (h *GroupHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Email == "" {
		respondError(w, apperr.BadRequest(apperr.CodeValidation, "email is required"))
		return
	}

	group, err := h.groups.AddMember(r.Context(), userID, chi.URLParam(r, "groupID"), req.Email)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGroupResponse(group))
}

// RemoveMember handles DELETE /api/v1/groups/{groupID}/members/{memberID}.
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	if err := h.groups.RemoveMember(r.Context(), userID, chi.URLParam(r, "groupID"), chi.URLParam(r, "memberID")); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
