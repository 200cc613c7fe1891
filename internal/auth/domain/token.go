package domain

// TokenPair is what a successful login returns. No server-side link is
// kept between the two tokens after issuance; validity is proven by
// signature and expiry alone.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
