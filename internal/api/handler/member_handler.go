package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"church_roster/internal/api/middleware"
	"church_roster/internal/app/service"
	"church_roster/internal/common"
	"church_roster/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type MemberHandler struct {
	memberService *service.MemberService
}

func NewMemberHandler(ms *service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: ms}
}

// RegisterRoutes mounts the admin roster routes. Every route requires a
// live session.
func (h *MemberHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.RequireLogin)
	r.Get("/members", h.listMembers)                     // GET /members
	r.Get("/members/fellowship/{name}", h.listFellowship) // GET /members/fellowship/Youth
	r.Post("/add-member", h.addMember)
	r.Delete("/delete-member/{id}", h.deleteMember)
}

type addMemberResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Member  *model.Member `json:"member,omitempty"`
}

func (h *MemberHandler) listMembers(w http.ResponseWriter, r *http.Request) {
	listRoster(w, r, h.memberService, nil)
}

func (h *MemberHandler) listFellowship(w http.ResponseWriter, r *http.Request) {
	name, err := fellowshipParam(r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	listRoster(w, r, h.memberService, &name)
}

func (h *MemberHandler) addMember(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusForbidden, common.PublicMessage(common.ErrUnauthorized))
		return
	}

	var req service.AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	member, err := h.memberService.AddMember(r.Context(), session.Username, req)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			// Handled, not errored: the form is simply incomplete.
			common.RespondWithJSON(w, http.StatusOK, addMemberResponse{Success: false, Message: common.PublicMessage(err)})
			return
		}
		respondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, addMemberResponse{
		Success: true,
		Message: "Member added successfully",
		Member:  member,
	})
}

func (h *MemberHandler) deleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid member id")
		return
	}

	if err := h.memberService.DeleteMember(r.Context(), id); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Success: true, Message: "Member deleted successfully"})
}

// listRoster serves both the protected and the public listings.
func listRoster(w http.ResponseWriter, r *http.Request, ms *service.MemberService, fellowship *string) {
	page, err := parsePage(r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	members, err := ms.ListMembers(r.Context(), fellowship, page)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, members)
}
