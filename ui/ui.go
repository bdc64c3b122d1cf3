// Package ui is the seam between controllers and whatever front end is
// driving them: notices, yes/no confirmations and page navigation. The
// terminal storefront plugs in Terminal; tests plug in Recorder.
package ui

// Page identifies a navigation target. The front end decides what a page
// means concretely (for the terminal storefront, a subcommand hint).
type Page string

const (
	PageLogin        Page = "login"
	PageHome         Page = "home"
	PageProducts     Page = "products"
	PageCart         Page = "cart"
	PageAddress      Page = "checkout-address"
	PageReview       Page = "checkout-review"
	PageConfirmation Page = "confirmation"
	PageDashboard    Page = "dashboard"
	PageProfile      Page = "profile"
)

// Kind is the severity of a notice.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Warning Kind = "warning"
	Info    Kind = "info"
)

// UI is what a controller needs from the front end.
type UI interface {
	// Notify shows a dismissible notice.
	Notify(kind Kind, message string)
	// Confirm asks a yes/no question and blocks for the answer.
	Confirm(message string) bool
	// Navigate moves to another page, optionally carrying an argument
	// (e.g. the order id for the confirmation page).
	Navigate(page Page, args ...string)
}
