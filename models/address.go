package models

import "strings"

// DraftAddress is the shipping address captured during checkout. It lives in
// tab-scoped session state only: written by the address stage, read by the
// review stage, cleared when an order is placed. It is never persisted across
// restarts unless the user explicitly saves it to the profile.
type DraftAddress struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Street    string `json:"street"`
	Apartment string `json:"apartment,omitempty"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country"`
	Zip       string `json:"zip"`
	Phone     string `json:"phone"`
}

// FullName joins the name parts, skipping blanks.
func (a *DraftAddress) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
}

// FullLine renders the single-line form shown on the review page and saved
// to the profile: "street, apartment, city, state, country - zip". Empty
// segments are skipped, so a form without apartment or country renders
// "street, city, state - zip".
func (a *DraftAddress) FullLine() string {
	var parts []string
	for _, s := range []string{a.Street, a.Apartment, a.City, a.State, a.Country} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	line := strings.Join(parts, ", ")
	if zip := strings.TrimSpace(a.Zip); zip != "" {
		if line != "" {
			line += " - " + zip
		} else {
			line = zip
		}
	}
	return line
}
