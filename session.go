package b64upload

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// TokenSourceFromRefreshToken returns a token source that exchanges
// refreshToken for access tokens at tokenURL whenever the current one expires
func TokenSourceFromRefreshToken(ctx context.Context, clientID, clientSecret, tokenURL, refreshToken string) oauth2.TokenSource {
	oauthConf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
	}
	// generate an expired token with the refreshToken and let TokenSource refresh it
	expiredToken := &oauth2.Token{RefreshToken: refreshToken, Expiry: time.Now().Add(-1 * time.Hour)}
	return oauthConf.TokenSource(ctx, expiredToken)
}

// httpClientFor returns the client used for one upload. Without a token
// source this is the client's own http.Client.
func (c *Client) httpClientFor(ctx context.Context, opts *Options) *http.Client {
	base := c.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: c.Timeout}
	}
	if opts.TokenSource == nil {
		return base
	}

	// oauth2 picks the base client up from the context
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	client := oauth2.NewClient(ctx, opts.TokenSource)
	client.Timeout = base.Timeout
	return client
}
