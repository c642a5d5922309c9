package unologin

import (
	"context"
	"encoding/json"
	"time"
)

// Client verifies login tokens for one unolog·in app. It is safe for
// concurrent use; build it once with New and share it.
type Client struct {
	opts      Options
	requester Requester
	keys      *KeyCache
}

// New validates opts and builds a Client. A malformed API key is reported
// here as a *ConfigError, before any request is served.
func New(opts Options) (*Client, error) {
	o, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	requester := o.Requester
	if requester == nil {
		gw, err := NewHTTPGateway(o.Realm.APIURL, o.APIKey, o.HTTPClient)
		if err != nil {
			return nil, err
		}
		requester = gw
	}
	if o.WrapRequester != nil {
		requester = o.WrapRequester(requester)
	}

	return &Client{
		opts:      o,
		requester: requester,
		keys:      NewKeyCache(requester, o.SkipPublicKeyCheck, o.Now),
	}, nil
}

// Options returns the effective options, with defaults applied.
func (c *Client) Options() Options { return c.opts }

// AppID is the app this client verifies tokens for.
func (c *Client) AppID() string { return c.opts.AppID }

// Keys exposes the login-token key cache.
func (c *Client) Keys() *KeyCache { return c.keys }

// Request forwards a call to the unolog·in API through the configured gateway.
func (c *Client) Request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	return c.requester.Request(ctx, method, path, body)
}

func (c *Client) now() time.Time { return c.opts.Now() }
