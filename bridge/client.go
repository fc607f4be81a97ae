// Package bridge talks to the game-engine bridge: a local service that owns the
// game and bot processes and exposes them over HTTP and a websocket tick feed.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"match-handler/applog"
	"match-handler/game"
	"match-handler/launcher"
	"match-handler/matchconfig"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"resty.dev/v3"
)

const (
	defaultRequestTimeout = 2 * time.Minute
	appearanceTimeout     = 10 * time.Second
	healthPollInterval    = 250 * time.Millisecond
)

var ErrBridgeUnavailable = errors.New("game bridge is not reachable")

// Client is a game.Session backed by the bridge. It is safe for concurrent use.
type Client struct {
	baseUrl    string
	httpClient *resty.Client
	ticks      *TickStream
	started    atomic.Bool
}

func NewClient(baseUrl string) (*Client, error) {
	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return nil, fmt.Errorf("invalid bridge url: %w", err)
	}

	wsUrl := *parsed
	switch parsed.Scheme {
	case "https":
		wsUrl.Scheme = "wss"
	default:
		wsUrl.Scheme = "ws"
	}
	wsUrl.Path = strings.TrimSuffix(parsed.Path, "/") + "/ticks"

	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(baseUrl, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(defaultRequestTimeout)

	return &Client{
		baseUrl:    baseUrl,
		httpClient: httpClient,
		ticks:      NewTickStream(wsUrl.String()),
	}, nil
}

func (c *Client) Close() error {
	tickErr := c.ticks.Close()
	if err := c.httpClient.Close(); err != nil {
		return err
	}
	return tickErr
}

type errorResponse struct {
	Error string `json:"error"`
}

// call posts body to path and decodes the reply into result when it is not nil.
func (c *Client) call(ctx context.Context, method, path string, body, result any) error {
	var apiErr errorResponse
	req := c.httpClient.R().
		SetContext(ctx).
		SetError(&apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}

	if resp.IsError() {
		if apiErr.Error != "" {
			return fmt.Errorf("%s %s failed: %s: %s", method, path, resp.Status(), apiErr.Error)
		}
		return fmt.Errorf("%s %s failed: %s", method, path, resp.Status())
	}
	return nil
}

type healthResponse struct {
	Ok bool `json:"ok"`
}

// WaitReady polls the bridge until it answers or timeout passes.
func (c *Client) WaitReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		var health healthResponse
		err := c.call(ctx, http.MethodGet, "/health", nil, &health)
		if err == nil {
			if health.Ok {
				return nil
			}
			err = errors.New("bridge reports not ready")
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w at %s: %w", ErrBridgeUnavailable, c.baseUrl, err)
		case <-time.After(healthPollInterval):
		}
	}
}

func (c *Client) Connect(ctx context.Context, pref launcher.Preference) error {
	return c.call(ctx, http.MethodPost, "/connect", pref, nil)
}

func (c *Client) LoadInterface(ctx context.Context, opts game.InterfaceOptions) error {
	return c.call(ctx, http.MethodPost, "/interface", opts, nil)
}

type loadMatchConfigRequest struct {
	MatchConfig       *matchconfig.MatchConfig `json:"match_config"`
	EarlyStartSeconds int                      `json:"early_start_seconds"`
}

func (c *Client) LoadMatchConfig(ctx context.Context, config *matchconfig.MatchConfig, earlyStartSeconds int) error {
	return c.call(ctx, http.MethodPost, "/match/config", loadMatchConfigRequest{
		MatchConfig:       config,
		EarlyStartSeconds: earlyStartSeconds,
	}, nil)
}

func (c *Client) LaunchEarlyStartBotProcesses(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/bots/early-start", nil, nil)
}

func (c *Client) StartMatch(ctx context.Context) error {
	if err := c.call(ctx, http.MethodPost, "/match/start", nil, nil); err != nil {
		return err
	}
	c.started.Store(true)
	return nil
}

func (c *Client) LaunchBotProcesses(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/bots/launch", nil, nil)
}

type metadataResponse struct {
	Received int `json:"received"`
}

func (c *Client) TryReceiveAgentMetadata(ctx context.Context) (int, error) {
	var metadata metadataResponse
	if err := c.call(ctx, http.MethodPost, "/bots/metadata", nil, &metadata); err != nil {
		return 0, err
	}
	return metadata.Received, nil
}

func (c *Client) HasStarted() bool {
	return c.started.Load()
}

type shutDownRequest struct {
	KillAllProcesses bool `json:"kill_all_processes"`
}

func (c *Client) ShutDown(ctx context.Context, killAllProcesses bool) error {
	err := c.call(ctx, http.MethodPost, "/shutdown", shutDownRequest{KillAllProcesses: killAllProcesses}, nil)
	c.started.Store(false)
	return err
}

func (c *Client) FreshLiveDataPacket(ctx context.Context, timeout time.Duration, witnessId int) (*game.Packet, error) {
	return c.ticks.Fresh(ctx, timeout, witnessId)
}

func (c *Client) SetGameState(ctx context.Context, state *game.GameState) error {
	return c.call(ctx, http.MethodPost, "/state", state, nil)
}

func (c *Client) Render(ctx context.Context, group game.RenderGroup) error {
	return c.call(ctx, http.MethodPost, "/render", group, nil)
}

func (c *Client) ClearScreen(ctx context.Context, group string) error {
	return c.call(ctx, http.MethodDelete, "/render/"+url.PathEscape(group), nil, nil)
}

func (c *Client) SpawnCarForViewing(ctx context.Context, request game.ShowroomRequest) error {
	return c.call(ctx, http.MethodPost, "/showroom", request, nil)
}

type appearanceRequest struct {
	Path string           `json:"path"`
	Team matchconfig.Team `json:"team"`
}

// LoadAppearance asks the bridge to read a bot bundle's looks file.
func (c *Client) LoadAppearance(bundlePath string, team matchconfig.Team) (*matchconfig.LoadoutConfig, error) {
	ctx, cancel := context.WithTimeout(context.Background(), appearanceTimeout)
	defer cancel()

	var loadout matchconfig.LoadoutConfig
	if err := c.call(ctx, http.MethodPost, "/appearance", appearanceRequest{Path: bundlePath, Team: team}, &loadout); err != nil {
		applog.Warn("Failed to load bot appearance", zap.String("bundlePath", bundlePath), zap.Error(err))
		return nil, err
	}
	return &loadout, nil
}

var (
	_ game.Session                 = (*Client)(nil)
	_ matchconfig.AppearanceLoader = (*Client)(nil)
)
