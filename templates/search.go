package templates

// Search template - search form, result cards and the load-more link.

// GetSearchTemplates returns the full search page: base layout plus search content.
func GetSearchTemplates() string {
	return GetBaseTemplates() + searchContent
}

var searchContent = `{{define "content"}}
<form action="/search" method="GET" class="search-form">
  <div class="row">
    <label for="identity-input" class="sr-only">Identity</label>
    <input type="text" id="identity-input" name="identity" value="{{.Request.Identity}}" placeholder="npub1... or hex public key" autocomplete="off" autofocus>
    <label for="mode-select" class="sr-only">Mode</label>
    <select id="mode-select" name="mode">
      {{range .Modes}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
      {{end}}
    </select>
  </div>
  <div class="row">
    <label for="search-input" class="sr-only">Search text</label>
    <input type="search" id="search-input" name="q" value="{{.Request.SearchText}}" placeholder="Search text (optional)">
  </div>
  <div class="row">
    <label for="since-input">since</label>
    <input type="date" id="since-input" name="since" value="{{.Request.Since}}">
    <label for="until-input">until</label>
    <input type="date" id="until-input" name="until" value="{{.Request.Until}}">
    <button type="submit">Search</button>
  </div>
</form>

{{if .Error}}<div class="form-error" role="alert">{{.Error}}</div>{{end}}

<div id="search-results">
{{template "search-results" .}}
</div>
{{end}}

{{define "search-results"}}
{{if .Loading}}
<div class="empty-state" aria-busy="true">Searching...</div>
{{else if .Notes}}
  <div class="results-header">Showing {{.Revealed}} of {{.Total}}{{if .ShareURL}} · <a href="{{.ShareURL}}">link to this search</a>{{end}}</div>
  <div id="notes-list">
  {{range .Notes}}
  <article class="note" aria-label="Note {{shortID .NoteID}}">
    <div class="note-meta">
      <time>{{.CreatedAt}}</time>
      {{if .AuthorNpub}}<span title="{{.AuthorNpub}}">{{shortID .AuthorNpub}}</span>{{end}}
    </div>
    <div class="note-content">{{.Content}}</div>
    <div class="note-meta">
      {{if .NostrURI}}<a href="{{.NostrURI}}" rel="external">Open</a>{{end}}
      <button type="button" class="copy-id" data-copy="{{.NoteID}}">Copy ID</button>
      <button type="button" class="toggle-qr" data-target="qr-{{.ID}}">QR</button>
    </div>
    <div class="note-qr" id="qr-{{.ID}}">
      <img src="/note/{{.ID}}/qr.png" alt="QR code for {{.NoteID}}" width="256" height="256" loading="lazy">
    </div>
  </article>
  {{end}}
  </div>
  {{if .HasMore}}<a href="{{.MoreURL}}" class="load-more" rel="next">Load more</a>{{end}}
{{else if .Message}}
<div class="empty-state">
  <p>{{.Message}}</p>
  <p class="empty-state-hint">Try a wider date range or another mode.</p>
</div>
{{else}}
<div class="empty-state">
  <p>Search notes</p>
  <p class="empty-state-hint">Enter an npub to see its notes, notes from its follows, or notes it reacted to.</p>
</div>
{{end}}
{{end}}`

// Script powers the copy-ID and QR buttons.
var Script = `document.addEventListener("click", function (e) {
  var copy = e.target.closest(".copy-id");
  if (copy) {
    navigator.clipboard.writeText(copy.dataset.copy).then(function () {
      copy.textContent = "Copied";
      setTimeout(function () { copy.textContent = "Copy ID"; }, 1500);
    });
    return;
  }
  var qr = e.target.closest(".toggle-qr");
  if (qr) {
    var el = document.getElementById(qr.dataset.target);
    if (el) { el.classList.toggle("open"); }
  }
});
`
