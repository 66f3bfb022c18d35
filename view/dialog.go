package view

import "sync"

// Dialog is an open/closed flag with an optional edit target and a form.
//
// Opening for create clears any edit target; opening for edit sets exactly
// one; closing always clears the target and resets the form to defaults.
type Dialog[F any] struct {
	mu       sync.Mutex
	open     bool
	target   string
	form     F
	defaults func() F
}

// NewDialog returns a closed dialog whose form resets to defaults().
func NewDialog[F any](defaults func() F) *Dialog[F] {
	if defaults == nil {
		defaults = func() F {
			var zero F
			return zero
		}
	}
	return &Dialog[F]{defaults: defaults, form: defaults()}
}

// OpenCreate opens the dialog with a default form and no edit target.
func (d *Dialog[F]) OpenCreate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	d.target = ""
	d.form = d.defaults()
}

// OpenEdit opens the dialog for target with form pre-filled.
func (d *Dialog[F]) OpenEdit(target string, form F) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	d.target = target
	d.form = form
}

// Close hides the dialog, clears the target and resets the form.
func (d *Dialog[F]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	d.target = ""
	d.form = d.defaults()
}

// IsOpen reports whether the dialog is shown.
func (d *Dialog[F]) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// Target returns the edit target; ok is false in create mode or when closed.
func (d *Dialog[F]) Target() (target string, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.target, d.open && d.target != ""
}

// Form returns a copy of the current form.
func (d *Dialog[F]) Form() F {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.form
}

// Edit applies fn to the form while the dialog is open.
func (d *Dialog[F]) Edit(fn func(*F)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open {
		fn(&d.form)
	}
}

// state captures open/target/form atomically.
func (d *Dialog[F]) state() (open bool, target string, form F) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open, d.target, d.form
}
