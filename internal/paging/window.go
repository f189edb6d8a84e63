// Package paging reveals an already fetched result set a few items at a time.
package paging

// DefaultStep is how many items each advance reveals
const DefaultStep = 5

// Reveal returns min(current+step, total). A non-positive step uses DefaultStep.
func Reveal(current, total, step int) int {
	if step <= 0 {
		step = DefaultStep
	}
	if current < 0 {
		current = 0
	}
	return min(current+step, total)
}

// Window tracks how much of a result set has been revealed.
// Revealed only moves forward; a new result set starts a new Window.
type Window struct {
	Revealed int `json:"revealed"`
	Total    int `json:"total"`
	Step     int `json:"step"`
}

// NewWindow returns a window over total items with nothing revealed yet.
func NewWindow(total, step int) Window {
	if step <= 0 {
		step = DefaultStep
	}
	return Window{Total: max(total, 0), Step: step}
}

// Advance reveals up to Step more items.
func (w Window) Advance() Window {
	w.Revealed = Reveal(w.Revealed, w.Total, w.Step)
	return w
}

// HasMore reports whether items remain hidden.
func (w Window) HasMore() bool {
	return w.Revealed < w.Total
}

// Visible returns the revealed prefix of items.
func Visible[T any](w Window, items []T) []T {
	n := min(w.Revealed, len(items))
	if n <= 0 {
		return nil
	}
	return items[:n:n]
}
