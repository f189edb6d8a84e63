package templates

// Base template - shared structure for all HTML pages.
// Page templates define the "content" block.

func GetBaseTemplates() string {
	return baseTemplate + footerTemplate
}

var baseTemplate = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <meta name="description" content="Search Nostr notes by author, follows or reactions">
  <title>{{if .Request.Identity}}{{shortID .Request.Identity}} - {{end}}Nostr Search</title>
  <script src="/static/app.js" defer></script>
  <style>
    body { font-family: system-ui, sans-serif; max-width: 42rem; margin: 0 auto; padding: 1rem; }
    .search-form { display: grid; gap: .5rem; margin-bottom: 1rem; }
    .search-form .row { display: flex; gap: .5rem; }
    .note { border: 1px solid #ddd; border-radius: .5rem; padding: .75rem; margin-bottom: .75rem; }
    .note-meta { color: #666; font-size: .85rem; display: flex; gap: .75rem; align-items: center; flex-wrap: wrap; }
    .note-content { white-space: pre-wrap; overflow-wrap: anywhere; margin: .5rem 0; }
    .note-qr { display: none; }
    .note-qr.open { display: block; }
    .form-error { color: #b00020; }
    .empty-state { color: #666; text-align: center; padding: 2rem 0; }
    .sr-only { position: absolute; width: 1px; height: 1px; overflow: hidden; clip: rect(0 0 0 0); }
  </style>
</head>
<body id="top">
  <main id="main-content">
    <h1>Nostr Search</h1>
    {{template "content" .}}
  </main>
  {{template "footer" .}}
</body>
</html>{{end}}
`

var footerTemplate = `{{define "footer"}}
<footer>
<a href="#top" class="scroll-top" aria-label="Scroll to top">↑</a>
</footer>
{{end}}`
