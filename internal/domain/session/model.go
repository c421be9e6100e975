package session

// Identity is the authenticated identity established by the OAuth callback:
// an opaque session token plus the account email. The client holds no
// password material; presence of the token is the sole local signal of
// "signed in".
type Identity struct {
	Token string
	Email string
}

// Authenticated reports whether a session token is held locally.
func (i Identity) Authenticated() bool {
	return i.Token != ""
}

// Status is the backend's view of the session.
type Status struct {
	Authenticated        bool   `json:"authenticated"`
	Email                string `json:"email,omitempty"`
	SpreadsheetConnected bool   `json:"spreadsheetConnected"`
	SpreadsheetID        string `json:"spreadsheetId,omitempty"`
}
