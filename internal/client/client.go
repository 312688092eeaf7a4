package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"studentadmin/internal/student"
)

// ErrNotLoggedIn is returned when an operation requires a session.
var ErrNotLoggedIn = errors.New("not logged in")

// Client talks to the server and keeps a Store reconciled with it. The
// connection lifecycle is Disconnected -> (login) Connected -> (logout or
// auth failure) Disconnected; after a drop the caller resyncs with a fresh
// full fetch, the event channel itself has no gap recovery.
type Client struct {
	baseURL string
	httpc   *http.Client
	Store   *Store

	token string
	conn  *websocket.Conn
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
		Store:   NewStore(),
	}
}

// Login authenticates, seeds the store with a full fetch and subscribes to
// the realtime channel.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: status %d", resp.StatusCode)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	c.token = out.Token

	if err := c.Resync(ctx); err != nil {
		c.token = ""
		return err
	}
	return c.connect(ctx)
}

// Resync replaces the store contents with a fresh list fetch.
func (c *Client) Resync(ctx context.Context) error {
	if c.token == "" {
		return ErrNotLoggedIn
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/students", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("list failed: status %d", resp.StatusCode)
	}
	var records []student.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return err
	}
	c.Store.Reset(records)
	return nil
}

func (c *Client) connect(ctx context.Context) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	wsURL := fmt.Sprintf("%s://%s/ws?token=%s", scheme, u.Host, url.QueryEscape(c.token))
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}
	c.conn = conn
	go c.readLoop(conn)
	return nil
}

// readLoop applies incoming events to the store until the connection drops.
func (c *Client) readLoop(conn *websocket.Conn) {
	defer func() { _ = conn.Close() }()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		c.apply(data)
	}
}

func (c *Client) apply(data []byte) {
	var env struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return
	}
	switch env.Event {
	case student.EventCreated:
		var rec student.Record
		if json.Unmarshal(env.Data, &rec) == nil {
			c.Store.ApplyCreated(rec)
		}
	case student.EventUpdated:
		var rec student.Record
		if json.Unmarshal(env.Data, &rec) == nil {
			c.Store.ApplyUpdated(rec)
		}
	case student.EventDeleted:
		var ref struct {
			ID int64 `json:"id"`
		}
		if json.Unmarshal(env.Data, &ref) == nil {
			c.Store.ApplyDeleted(ref.ID)
		}
	}
}

// Logout discards the session. The token stays technically valid until its
// expiry; the server keeps no revocation list.
func (c *Client) Logout() {
	c.token = ""
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.Store.Reset(nil)
}
