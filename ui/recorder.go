package ui

// Notice is one recorded Notify call.
type Notice struct {
	Kind    Kind
	Message string
}

// Navigation is one recorded Navigate call.
type Navigation struct {
	Page Page
	Args []string
}

// Recorder is a UI that remembers everything and answers confirmations with
// a fixed value. Tests assert against its fields.
type Recorder struct {
	ConfirmAnswer bool
	Notices       []Notice
	Navigations   []Navigation
	Confirms      []string
}

func (r *Recorder) Notify(kind Kind, message string) {
	r.Notices = append(r.Notices, Notice{Kind: kind, Message: message})
}

func (r *Recorder) Confirm(message string) bool {
	r.Confirms = append(r.Confirms, message)
	return r.ConfirmAnswer
}

func (r *Recorder) Navigate(page Page, args ...string) {
	r.Navigations = append(r.Navigations, Navigation{Page: page, Args: args})
}

// LastPage returns the most recent navigation target, or "" when none.
func (r *Recorder) LastPage() Page {
	if len(r.Navigations) == 0 {
		return ""
	}
	return r.Navigations[len(r.Navigations)-1].Page
}
