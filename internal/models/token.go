package models

// SessionResponse is returned after a successful OAuth callback exchange.
type SessionResponse struct {
	SessionToken string `json:"session_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}
