package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"church_roster/internal/common"
	"church_roster/internal/domain/model"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// respondWithServiceError writes the envelope for err. Server-side failures
// are logged in full and reported to the client generically.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := common.HTTPStatusFromError(err)
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", chiMiddleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	common.RespondWithError(w, status, common.PublicMessage(err))
}

// parsePage reads optional limit and offset query parameters.
func parsePage(r *http.Request) (model.Page, error) {
	var page model.Page
	q := r.URL.Query()
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			return page, common.NewBadRequestError("limit must be a positive integer")
		}
		page.Limit = v
	}
	if s := q.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return page, common.NewBadRequestError("offset must be a non-negative integer")
		}
		page.Offset = v
	}
	return page, nil
}

// fellowshipParam returns the decoded {name} path segment. chi matches on
// the raw path when one is present, leaving the parameter escaped.
func fellowshipParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, nil
	}
	decoded, err := url.PathUnescape(name)
	if err != nil {
		return "", common.NewBadRequestError("invalid fellowship name")
	}
	return decoded, nil
}
