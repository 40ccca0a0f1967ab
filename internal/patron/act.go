package patron

import (
	"context"
	"net/http"
)

const sponsorPath = "/api/v1/sponsor"

// GiftResult is the API's receipt for a delivered gift.
type GiftResult struct {
	TributeID     string `json:"tribute_id"`
	Item          string `json:"item"`
	SponsorPoints int    `json:"sponsor_points"`
}

// Actor delivers gifts through the admin sponsor endpoint.
type Actor struct {
	BaseURL    string
	AdminKey   string
	HTTPClient *http.Client
}

func NewActor(baseURL, adminKey string) *Actor {
	return &Actor{BaseURL: baseURL, AdminKey: adminKey, HTTPClient: &http.Client{Timeout: clientTimeout}}
}

// Act delivers gift. A rejected gift comes back as a *StatusError;
// 409 means the pool is short or the tribute cannot carry it.
func (a *Actor) Act(gift *Gift) (*GiftResult, error) {
	return a.ActContext(context.Background(), gift)
}

// ActContext is Act bounded by ctx.
func (a *Actor) ActContext(ctx context.Context, gift *Gift) (*GiftResult, error) {
	c := call{client: a.HTTPClient, base: a.BaseURL, token: a.AdminKey}
	var res GiftResult
	if err := c.do(ctx, http.MethodPost, sponsorPath, gift, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
