// Package jellyfin talks to a Jellyfin server: stream URLs, chapter markers, the episode
// queue and playback reports.
package jellyfin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jellyfin "github.com/sj14/jellyfin-go/api"
)

const (
	clientName    = "CouchOSD"
	clientVersion = "0.1.0"
	deviceName    = "CouchOSD Player"
	deviceID      = "couchosd-1"
)

// ErrNotFound is returned when the server has no item with the requested id.
var ErrNotFound = errors.New("item not found")

// TicksPerSecond is the Jellyfin tick rate (100ns ticks).
const TicksPerSecond = 10_000_000

const tick = time.Second / TicksPerSecond

// Ticks converts d to Jellyfin ticks.
func Ticks(d time.Duration) int64 { return int64(d / tick) }

// FromTicks converts Jellyfin ticks to a duration.
func FromTicks(t int64) time.Duration { return time.Duration(t) * tick }

// Client wraps the generated Jellyfin API client.
type Client struct {
	api       *jellyfin.APIClient
	token     string
	userID    string
	serverURL string
}

func normalizeURL(serverURL string) string {
	serverURL = strings.TrimSpace(serverURL)
	if !strings.HasPrefix(serverURL, "http://") && !strings.HasPrefix(serverURL, "https://") {
		serverURL = "https://" + serverURL
	}
	return strings.TrimRight(serverURL, "/")
}

func NewClient(serverURL string) *Client {
	serverURL = normalizeURL(serverURL)
	cfg := jellyfin.NewConfiguration()
	cfg.Servers = jellyfin.ServerConfigurations{
		{URL: serverURL},
	}
	cfg.AddDefaultHeader("X-Emby-Authorization",
		fmt.Sprintf(`MediaBrowser Client="%s", Device="%s", DeviceId="%s", Version="%s"`,
			clientName, deviceName, deviceID, clientVersion))

	return &Client{
		api:       jellyfin.NewAPIClient(cfg),
		serverURL: serverURL,
	}
}

// Authenticate logs in with a password and keeps the access token for later requests.
func (c *Client) Authenticate(ctx context.Context, username, password string) error {
	body := *jellyfin.NewAuthenticateUserByName()
	body.SetUsername(username)
	body.SetPw(password)

	result, resp, err := c.api.UserAPI.AuthenticateUserByName(ctx).AuthenticateUserByName(body).Execute()
	if err != nil {
		return fmt.Errorf("auth failed: %w (status: %s)", err, respStatus(resp))
	}
	user := result.GetUser()
	c.SetToken(result.GetAccessToken(), user.GetId())
	return nil
}

// SetToken authenticates later requests with a saved access token.
func (c *Client) SetToken(token, userID string) {
	c.token = token
	c.userID = userID
	c.api.GetConfig().AddDefaultHeader("X-Emby-Token", c.token)
}

func (c *Client) Token() string     { return c.token }
func (c *Client) UserID() string    { return c.userID }
func (c *Client) ServerURL() string { return c.serverURL }

func respStatus(resp *http.Response) string {
	if resp == nil {
		return "no response"
	}
	return resp.Status
}
