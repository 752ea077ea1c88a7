package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/donaldgifford/ebay-listing-creator/internal/ebay"
	"github.com/donaldgifford/ebay-listing-creator/internal/listing"
)

func sessionPath(id string, parts ...string) string {
	p := "/api/v1/sessions/" + url.PathEscape(id)
	for _, s := range parts {
		p += "/" + s
	}
	return p
}

// CreateSession starts a session in env ("" for the server default).
func (c *Client) CreateSession(ctx context.Context, env ebay.Environment) (*listing.View, error) {
	path := "/api/v1/sessions"
	if env != "" {
		path += "?environment=" + url.QueryEscape(string(env))
	}
	var v listing.View
	if err := c.post(ctx, path, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetSession returns the session view.
func (c *Client) GetSession(ctx context.Context, id string) (*listing.View, error) {
	var v listing.View
	if err := c.get(ctx, sessionPath(id), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// DeleteSession removes a session.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.del(ctx, sessionPath(id), nil)
}

func (c *Client) action(ctx context.Context, id, action string) (*listing.View, error) {
	var v listing.View
	if err := c.post(ctx, sessionPath(id, action), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Login starts the consent handshake; the view carries the consent URL.
func (c *Client) Login(ctx context.Context, id string) (*listing.View, error) {
	return c.action(ctx, id, "login")
}

// Logout clears the session's user tokens and draft.
func (c *Client) Logout(ctx context.Context, id string) (*listing.View, error) {
	return c.action(ctx, id, "logout")
}

// RefreshUserToken renews the seller token.
func (c *Client) RefreshUserToken(ctx context.Context, id string) (*listing.View, error) {
	return c.action(ctx, id, "refresh")
}

// UpdateDraft applies form field changes.
func (c *Client) UpdateDraft(ctx context.Context, id string, patch listing.DraftPatch) (*listing.View, error) {
	var v listing.View
	if err := c.patch(ctx, sessionPath(id, "draft"), patch, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// SuggestCategories fetches category suggestions for the draft.
func (c *Client) SuggestCategories(ctx context.Context, id string) (*listing.View, error) {
	return c.action(ctx, id, "categories/suggest")
}

// SelectCategory picks the suggestion at index.
func (c *Client) SelectCategory(ctx context.Context, id string, index int) (*listing.View, error) {
	var v listing.View
	body := map[string]int{"index": index}
	if err := c.put(ctx, sessionPath(id, "category"), body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// SetAspect answers one aspect. An empty value clears it.
func (c *Client) SetAspect(ctx context.Context, id, name, value string) (*listing.View, error) {
	var v listing.View
	body := map[string]string{"value": value}
	if err := c.put(ctx, sessionPath(id, "aspects", url.PathEscape(name)), body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// GenerateListing asks the server for listing copy.
func (c *Client) GenerateListing(ctx context.Context, id string) (*listing.View, error) {
	return c.action(ctx, id, "generate")
}

// CreateListing assembles the listing payload.
func (c *Client) CreateListing(ctx context.Context, id string) (*listing.Listing, error) {
	var l listing.Listing
	if err := c.post(ctx, sessionPath(id, "listing"), nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// AddImage uploads an image.
func (c *Client) AddImage(ctx context.Context, id string, m listing.Media) (*listing.View, error) {
	var v listing.View
	err := c.upload(ctx, http.MethodPost, sessionPath(id, "images"), m.Name, m.ContentType, m.Data, &v)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// RemoveImage drops the image at index.
func (c *Client) RemoveImage(ctx context.Context, id string, index int) (*listing.View, error) {
	var v listing.View
	if err := c.del(ctx, sessionPath(id, "images", fmt.Sprint(index)), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// SetVideo uploads the video.
func (c *Client) SetVideo(ctx context.Context, id string, m listing.Media) (*listing.View, error) {
	var v listing.View
	err := c.upload(ctx, http.MethodPut, sessionPath(id, "video"), m.Name, m.ContentType, m.Data, &v)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ClearVideo removes the video.
func (c *Client) ClearVideo(ctx context.Context, id string) (*listing.View, error) {
	var v listing.View
	if err := c.del(ctx, sessionPath(id, "video"), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Quota reports the server's eBay call quota.
func (c *Client) Quota(ctx context.Context) (*ebay.Usage, error) {
	var u ebay.Usage
	if err := c.get(ctx, "/api/v1/quota", &u); err != nil {
		return nil, err
	}
	return &u, nil
}
