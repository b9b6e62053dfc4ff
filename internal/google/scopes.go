package google

// DefaultOAuthScopes are the Google OAuth scopes the assistant asks for.
// The OpenID Connect scopes identify the user during the callback; the
// Gmail modify scope covers listing, metadata fetches, and the trash and
// label mutations the cleanup actions need.
var DefaultOAuthScopes = []string{
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/gmail.modify",
}
