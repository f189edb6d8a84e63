package main

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/nbd-wtf/go-nostr"
	"github.com/skip2/go-qrcode"

	"nostr-search/internal/nips"
	"nostr-search/internal/paging"
	"nostr-search/internal/relay"
	"nostr-search/internal/search"
	"nostr-search/internal/types"
	"nostr-search/internal/util"
	"nostr-search/templates"
)

// SearchResponse is the JSON form of a search session
type SearchResponse struct {
	Generation uint64        `json:"generation"`
	Pubkey     string        `json:"pubkey,omitempty"`
	Mode       types.Mode    `json:"mode"`
	Window     paging.Window `json:"window"`
	HasMore    bool          `json:"has_more"`
	Events     []nostr.Event `json:"events"`
	Message    string        `json:"message,omitempty"`
}

// ErrorResponse is the JSON body of a failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

const noEventsMessage = "no events found"

// wantsJSON reports whether the client asked for JSON rather than HTML
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html")
}

func requestFromQuery(q url.Values) search.Request {
	return search.Request{
		Identity:   q.Get("identity"),
		Mode:       types.Mode(q.Get("mode")),
		SearchText: q.Get("q"),
		Since:      q.Get("since"),
		Until:      q.Get("until"),
	}.Normalize()
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.sessions.lookup(r); ok {
		snap := sess.Snapshot()
		message := ""
		if snap.Err != nil {
			_, message = errorStatus(snap.Err)
		}
		s.render(w, r, http.StatusOK, snap, message)
		return
	}
	s.render(w, r, http.StatusOK, search.Snapshot{}, "")
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Vary", "Accept")

	req := requestFromQuery(r.URL.Query())
	sess := s.sessions.get(w, r)

	snap, err := sess.Submit(r.Context(), req)
	if err != nil {
		status, message := errorStatus(err)
		LoggerFromContext(r.Context(), s.logger).Info("search rejected", "status", status, "error", err)
		if errors.Is(err, search.ErrSuperseded) {
			snap = sess.Snapshot()
		}
		s.render(w, r, status, snap, message)
		return
	}
	s.render(w, r, http.StatusOK, snap, "")
}

func (s *server) handleMore(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Vary", "Accept")

	sess, ok := s.sessions.lookup(r)
	if !ok {
		if wantsJSON(r) {
			util.RespondJSON(w, http.StatusNotFound, ErrorResponse{Error: "no active search"})
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, sess.LoadMore(), "")
}

func (s *server) handleNoteQR(w http.ResponseWriter, r *http.Request) {
	id := strings.ToLower(chi.URLParam(r, "id"))
	note, err := nips.EncodeNote(id)
	if err != nil {
		util.RespondBadRequest(w, "invalid note id")
		return
	}

	png, err := qrcode.Encode("nostr:"+note, qrcode.Medium, 256)
	if err != nil {
		LoggerFromContext(r.Context(), s.logger).Error("failed to generate QR code", "error", err)
		util.RespondInternalError(w, "failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(png)
}

func handleScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write([]byte(templates.Script))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	util.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorStatus maps a search failure to an HTTP status and a user-facing message
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, nips.ErrInvalidIdentity):
		return http.StatusBadRequest, "That does not look like an npub or hex public key."
	case errors.Is(err, search.ErrNoCriteria):
		return http.StatusBadRequest, "Enter an identity or search text."
	case errors.Is(err, search.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, search.ErrSuperseded):
		return http.StatusConflict, "A newer search replaced this one."
	case errors.Is(err, relay.ErrNoReachableRelay):
		return http.StatusBadGateway, "No relay answered. Try again in a moment."
	default:
		return http.StatusInternalServerError, "Search failed."
	}
}

func (s *server) render(w http.ResponseWriter, r *http.Request, status int, snap search.Snapshot, errMsg string) {
	searched := snap.Generation > 0 && !snap.Loading && snap.Err == nil && errMsg == ""
	message := ""
	if searched && snap.Window.Total == 0 {
		message = noEventsMessage
	}

	if wantsJSON(r) {
		if errMsg != "" {
			util.RespondJSON(w, status, ErrorResponse{Error: errMsg})
			return
		}
		events := snap.Visible
		if events == nil {
			events = []nostr.Event{}
		}
		util.RespondJSON(w, status, SearchResponse{
			Generation: snap.Generation,
			Pubkey:     snap.Pubkey,
			Mode:       modeOf(snap.Request),
			Window:     snap.Window,
			HasMore:    snap.Window.HasMore(),
			Events:     events,
			Message:    message,
		})
		return
	}

	view := newPageView(snap, errMsg, message)
	util.SetHTMLHeaders(w, "0")
	w.WriteHeader(status)
	if err := s.page.ExecuteTemplate(w, "page", view); err != nil {
		LoggerFromContext(r.Context(), s.logger).Error("failed to render search page", "error", err)
	}
}

func modeOf(req search.Request) types.Mode {
	if mode, ok := types.ParseMode(string(req.Mode)); ok {
		return mode
	}
	return types.ModeAuthor
}
