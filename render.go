package main

import (
	"html/template"
	"net/url"
	"time"

	"github.com/nbd-wtf/go-nostr"

	"nostr-search/internal/nips"
	"nostr-search/internal/search"
	"nostr-search/internal/types"
	"nostr-search/internal/util"
)

// noteTimeLayout formats created_at on result cards
const noteTimeLayout = "Jan 2, 2006 @ 3:04 PM"

var templateFuncs = template.FuncMap{
	"shortID": util.ShortID,
}

type modeOption struct {
	Value    string
	Label    string
	Selected bool
}

type noteView struct {
	ID         string
	NoteID     string
	NostrURI   template.URL
	AuthorNpub string
	Content    string
	CreatedAt  string
	Kind       int
}

type pageView struct {
	Request  search.Request
	Modes    []modeOption
	Notes    []noteView
	Revealed int
	Total    int
	HasMore  bool
	Loading  bool
	Message  string
	Error    string
	MoreURL  string
	ShareURL string
}

func newPageView(snap search.Snapshot, errMsg, message string) pageView {
	current := modeOf(snap.Request)
	modes := make([]modeOption, 0, len(types.Modes))
	for _, m := range types.Modes {
		modes = append(modes, modeOption{Value: string(m), Label: m.Label(), Selected: m == current})
	}

	view := pageView{
		Request:  snap.Request,
		Modes:    modes,
		Notes:    noteViews(snap.Visible),
		Revealed: snap.Window.Revealed,
		Total:    snap.Window.Total,
		HasMore:  snap.Window.HasMore(),
		Loading:  snap.Loading,
		Message:  message,
		Error:    errMsg,
		MoreURL:  "/search/more",
	}
	if snap.Generation > 0 {
		view.ShareURL = searchURL(snap.Request)
	}
	return view
}

func noteViews(events []nostr.Event) []noteView {
	views := make([]noteView, 0, len(events))
	for _, evt := range events {
		views = append(views, newNoteView(evt))
	}
	return views
}

func newNoteView(evt nostr.Event) noteView {
	v := noteView{
		ID:        evt.ID,
		NoteID:    evt.ID,
		Content:   evt.Content,
		CreatedAt: formatCreatedAt(evt.CreatedAt),
		Kind:      evt.Kind,
	}
	if note, err := nips.EncodeNote(evt.ID); err == nil {
		v.NoteID = note
		v.NostrURI = template.URL("nostr:" + note)
	}
	if npub, err := nips.EncodePubkey(evt.PubKey); err == nil {
		v.AuthorNpub = npub
	}
	return v
}

// formatCreatedAt renders a timestamp in UTC
func formatCreatedAt(ts nostr.Timestamp) string {
	return time.Unix(int64(ts), 0).UTC().Format(noteTimeLayout)
}

// searchURL rebuilds the query string for a request
func searchURL(req search.Request) string {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("identity", req.Identity)
	set("mode", string(req.Mode))
	set("q", req.SearchText)
	set("since", req.Since)
	set("until", req.Until)
	return "/search?" + q.Encode()
}
