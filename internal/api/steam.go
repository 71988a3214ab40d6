// Package api holds outbound HTTP clients. The Steam Web API client
// resolves persona names shown next to leaderboard ratings.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dota-custom-stats/internal/config"

	"github.com/valyala/fasthttp"
)

type SteamClient struct {
	apiKey string
	client *fasthttp.Client
}

type PlayerSummariesResponse struct {
	Response struct {
		Players []PlayerSummary `json:"players"`
	} `json:"response"`
}

type PlayerSummary struct {
	SteamID     string `json:"steamid"`
	PersonaName string `json:"personaname"`
	AvatarFull  string `json:"avatarfull"`
}

func NewSteamClient(cfg *config.Config) *SteamClient {
	return &SteamClient{
		apiKey: cfg.SteamAPIKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// Enabled reports whether an API key was configured. Without a key every
// lookup fails and callers should skip enrichment entirely.
func (c *SteamClient) Enabled() bool {
	return c.apiKey != ""
}

// GetPlayerSummaries resolves persona data for up to 100 steam ids per
// call, the Steam Web API's documented maximum.
func (c *SteamClient) GetPlayerSummaries(ctx context.Context, steamIDs []uint64) (map[uint64]PlayerSummary, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("steam api key not configured")
	}
	if len(steamIDs) == 0 {
		return map[uint64]PlayerSummary{}, nil
	}
	if len(steamIDs) > 100 {
		steamIDs = steamIDs[:100]
	}

	ids := make([]string, len(steamIDs))
	for i, id := range steamIDs {
		ids[i] = strconv.FormatUint(id, 10)
	}
	url := fmt.Sprintf(
		"https://api.steampowered.com/ISteamUser/GetPlayerSummaries/v2/?key=%s&steamids=%s",
		c.apiKey, strings.Join(ids, ","))

	resp, err := doRequest[PlayerSummariesResponse](ctx, c, url)
	if err != nil {
		return nil, err
	}

	summaries := make(map[uint64]PlayerSummary, len(resp.Response.Players))
	for _, p := range resp.Response.Players {
		id, err := strconv.ParseUint(p.SteamID, 10, 64)
		if err != nil {
			continue
		}
		summaries[id] = p
	}
	return summaries, nil
}

func doRequest[T any](ctx context.Context, client *SteamClient, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline, ok := ctx.Deadline()
	var err error
	if ok {
		err = client.client.DoDeadline(req, resp, deadline)
	} else {
		err = client.client.Do(req, resp)
	}
	if err != nil {
		return nil, fmt.Errorf("steam api request failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("steam api returned status %d", resp.StatusCode())
	}

	var out T
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("failed to decode steam api response: %w", err)
	}
	return &out, nil
}
