package kiosk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Client is the server surface the machine needs. APIClient is the real
// implementation; tests use a fake.
type Client interface {
	Status(ctx context.Context, rfid string) (*StatusResponse, error)
	Start(ctx context.Context, rfid string) (*StartResponse, error)
	Stop(ctx context.Context, rfid string) (*StopResponse, error)
	CheckStaff(ctx context.Context, rfid string) (bool, error)
	RecentScans(ctx context.Context, controllerID, limit int) ([]RecentScan, error)
}

// StatusResponse mirrors POST /api/auth/rfid/status/.
type StatusResponse struct {
	SessionStatus    string `json:"session_status"`
	RemainingSeconds int    `json:"remaining_seconds"`
	IsPlaying        bool   `json:"is_playing"`
}

// StartResponse mirrors POST /api/auth/rfid/start/.
type StartResponse struct {
	Message          string    `json:"message"`
	SessionID        uuid.UUID `json:"session_id"`
	PartyName        string    `json:"party_name"`
	SessionMinutes   int       `json:"session_minutes"`
	RemainingSeconds int       `json:"remaining_seconds"`
	StorylineHint    string    `json:"storyline_hint"`
}

// StopResponse mirrors POST /api/auth/rfid/stop/.
type StopResponse struct {
	Message              string `json:"message"`
	PartyName            string `json:"party_name"`
	ElapsedSeconds       int    `json:"elapsed_seconds"`
	RemainingPointsAdded int    `json:"remaining_points_added"`
	TotalPoints          int    `json:"total_points"`
}

// RecentScan is one row of the station's recent-activity panel.
type RecentScan struct {
	RFIDTag      string    `json:"rfid_tag"`
	PartyName    string    `json:"party_name"`
	Result       string    `json:"result"`
	PointsEarned int       `json:"points_earned"`
	ScannedAt    time.Time `json:"scanned_at"`
}

// APIClient talks to the arena server's public rfid endpoints.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient builds a client for the server at baseURL (no trailing slash).
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *APIClient) Status(ctx context.Context, rfid string) (*StatusResponse, error) {
	var res StatusResponse
	if err := c.post(ctx, "/api/auth/rfid/status/", map[string]string{"rfid": rfid}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *APIClient) Start(ctx context.Context, rfid string) (*StartResponse, error) {
	var res StartResponse
	if err := c.post(ctx, "/api/auth/rfid/start/", map[string]string{"rfid": rfid}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *APIClient) Stop(ctx context.Context, rfid string) (*StopResponse, error) {
	var res StopResponse
	if err := c.post(ctx, "/api/auth/rfid/stop/", map[string]string{"rfid": rfid}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *APIClient) CheckStaff(ctx context.Context, rfid string) (bool, error) {
	var res struct {
		IsStaff bool `json:"is_staff"`
	}
	if err := c.post(ctx, "/api/auth/rfid/check-staff/", map[string]string{"rfid": rfid}, &res); err != nil {
		return false, err
	}
	return res.IsStaff, nil
}

func (c *APIClient) RecentScans(ctx context.Context, controllerID, limit int) ([]RecentScan, error) {
	q := url.Values{}
	q.Set("controller_id", strconv.Itoa(controllerID))
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/auth/rfid/station-recent/?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var res struct {
		RecentScans []RecentScan `json:"recent_scans"`
	}
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return res.RecentScans, nil
}

func (c *APIClient) post(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do executes the request and decodes the body. Non-2xx responses become an
// error carrying the server's message verbatim, so the kiosk shows exactly
// what the server said.
func (c *APIClient) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}
