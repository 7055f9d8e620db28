package model

// SessionUser is the user part of a session bundle.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the token bundle issued by the identity service. The JSON field
// names are what the auth gate looks for in the mirrored cookie.
type Session struct {
	AccessToken  string      `json:"access_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	ExpiresAt    int64       `json:"expires_at"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	User         SessionUser `json:"user"`
}
