// Package patron implements an autonomous sponsor.
// It observes the contest via the API, triages the living tributes,
// decides on at most one gift per cycle, and sends it via the admin
// sponsor endpoint.
package patron

import (
	"context"
	"fmt"
	"net/http"
)

// Snapshot holds all data collected during an observation cycle.
type Snapshot struct {
	Status   ContestStatus `json:"status"`
	Tributes []TributeInfo `json:"tributes"`
}

// ContestStatus mirrors GET /api/v1/status.
type ContestStatus struct {
	Name          string `json:"name"`
	Stage         string `json:"stage"`
	Day           int    `json:"day"`
	Weather       string `json:"weather"`
	Alive         int    `json:"alive"`
	Total         int    `json:"total"`
	SponsorPoints int    `json:"sponsor_points"`
	Winner        string `json:"winner,omitempty"`
}

// TributeInfo mirrors items from GET /api/v1/tributes?alive=true.
type TributeInfo struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	District  int      `json:"district"`
	Status    string   `json:"status"`
	KillCount int      `json:"kill_count"`
	Inventory []string `json:"inventory"`
	Odds      string   `json:"odds"`
	Stats     struct {
		Health     int `json:"health"`
		Sanity     int `json:"sanity"`
		Hunger     int `json:"hunger"`
		Exhaustion int `json:"exhaustion"`
	} `json:"stats"`
}

// Observer fetches contest state from the API.
type Observer struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewObserver creates an Observer targeting the given API base URL.
func NewObserver(baseURL string) *Observer {
	return &Observer{BaseURL: baseURL, HTTPClient: &http.Client{Timeout: clientTimeout}}
}

// Observe fetches the status and the living tributes.
func (o *Observer) Observe() (*Snapshot, error) {
	return o.ObserveContext(context.Background())
}

// ObserveContext is Observe bounded by ctx.
func (o *Observer) ObserveContext(ctx context.Context) (*Snapshot, error) {
	c := call{client: o.HTTPClient, base: o.BaseURL}
	snap := &Snapshot{}
	if err := c.do(ctx, http.MethodGet, "/api/v1/status", nil, &snap.Status); err != nil {
		return nil, fmt.Errorf("fetch status: %w", err)
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/tributes?alive=true", nil, &snap.Tributes); err != nil {
		return nil, fmt.Errorf("fetch tributes: %w", err)
	}
	return snap, nil
}
