package handler

import (
	"io/fs"
	"net/http"

	"church_roster/internal/app/service"
	"church_roster/internal/common"

	"github.com/go-chi/chi/v5"
)

// PublicHandler serves the read-only roster views that need no session.
type PublicHandler struct {
	memberService *service.MemberService
}

func NewPublicHandler(ms *service.MemberService) *PublicHandler {
	return &PublicHandler{memberService: ms}
}

func (h *PublicHandler) RegisterRoutes(r chi.Router) {
	r.Get("/members", h.listMembers)                     // GET /public/members
	r.Get("/members/fellowship/{name}", h.listFellowship) // GET /public/members/fellowship/Youth
	r.Get("/stats", h.stats)
}

func (h *PublicHandler) listMembers(w http.ResponseWriter, r *http.Request) {
	listRoster(w, r, h.memberService, nil)
}

func (h *PublicHandler) listFellowship(w http.ResponseWriter, r *http.Request) {
	name, err := fellowshipParam(r)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	listRoster(w, r, h.memberService, &name)
}

func (h *PublicHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.memberService.Stats(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

// LandingPage serves index.html from site.
func LandingPage(site fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, site, "index.html")
	}
}
