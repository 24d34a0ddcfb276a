package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// SignUp registers an account and keeps the returned token.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*AuthResult, error) {
	var out AuthResult
	if err := c.Do(ctx, http.MethodPost, "/auth/signup", nil, req, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// SignIn authenticates and keeps the returned token.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	in := map[string]string{"email": email, "password": password}
	var out AuthResult
	if err := c.Do(ctx, http.MethodPost, "/auth/signin", nil, in, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// SignOut revokes the current token server-side. The local token is cleared
// even when the call fails.
func (c *Client) SignOut(ctx context.Context) error {
	defer c.SetToken("")
	return c.Do(ctx, http.MethodPost, "/auth/signout", nil, nil, nil)
}

func (c *Client) Me(ctx context.Context) (*Account, error) {
	var out Account
	if err := c.Do(ctx, http.MethodGet, "/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*Account, error) {
	var out Account
	if err := c.Do(ctx, http.MethodPatch, "/me", nil, update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SearchProfiles(ctx context.Context, q ProfileQuery) (*Page[Profile], error) {
	query := url.Values{}
	set := func(key, value string) {
		if value != "" {
			query.Set(key, value)
		}
	}
	set("role", q.Role)
	set("genre", q.Genre)
	set("location", q.Location)
	set("keyword", q.Keyword)
	set("tier", q.Tier)
	set("professionalType", q.ProfessionalType)
	set("sort", q.Sort)
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var out Page[Profile]
	if err := c.Do(ctx, http.MethodGet, "/profiles", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SendMessage(ctx context.Context, recipientID, body string) (*Message, error) {
	in := map[string]string{"recipientId": recipientID, "body": body}
	var out Message
	if err := c.Do(ctx, http.MethodPost, "/messages", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Conversations(ctx context.Context) ([]Conversation, error) {
	var out struct {
		Items []Conversation `json:"items"`
	}
	if err := c.Do(ctx, http.MethodGet, "/conversations", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// RequestBooking asks for a place in slotID. note may be empty.
func (c *Client) RequestBooking(ctx context.Context, slotID, note string) (*Booking, error) {
	var in any
	if note != "" {
		in = map[string]string{"note": note}
	}
	var out Booking
	if err := c.Do(ctx, http.MethodPost, "/slots/"+url.PathEscape(slotID)+"/bookings", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Purchase starts a payment for serviceID. The returned ClientSecret is handed
// to the payment provider's front-end SDK.
func (c *Client) Purchase(ctx context.Context, serviceID string) (*Payment, error) {
	var out Payment
	if err := c.Do(ctx, http.MethodPost, "/services/"+url.PathEscape(serviceID)+"/purchase", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
