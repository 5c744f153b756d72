package crypto

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// ChannelType names a Full-channel subscription channel.
type ChannelType string

const (
	ChannelFull    ChannelType = "full"
	ChannelHeart   ChannelType = "heartbeat"
	ChannelTicker  ChannelType = "ticker"
)

// Subscribe is the subscription request Full expects immediately after
// connecting.
type Subscribe struct {
	Type       string      `json:"type"`
	ProductIDs []string    `json:"product_ids"`
	Channels   []ChannelType `json:"channels"`
}

// Merge unions this subscription's channels and product ids with other,
// de-duplicating, so a subscription delta can be folded into a standing
// subscription.
func (s Subscribe) Merge(other Subscribe) Subscribe {
	ids := dedupe(append(append([]string{}, s.ProductIDs...), other.ProductIDs...))
	chans := dedupeChannels(append(append([]ChannelType{}, s.Channels...), other.Channels...))
	return Subscribe{Type: "subscribe", ProductIDs: ids, Channels: chans}
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func dedupeChannels(in []ChannelType) []ChannelType {
	seen := make(map[ChannelType]bool, len(in))
	out := in[:0]
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Feed is one dialed Full-channel websocket connection, bound to a
// specific local network interface the way the connection supervisor in
// internal/reassemble requires for its round-robin worker pool.
type Feed struct {
	conn *websocket.Conn
}

// Dial connects to endpoint over a TCP connection sourced from
// localAddr (nil means the OS picks), subscribes to the requested
// products/channels, and returns the open Feed.
func Dial(ctx context.Context, endpoint string, localAddr net.Addr, sub Subscribe) (*Feed, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("crypto: parse endpoint: %w", err)
	}
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
		NetDialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			d := net.Dialer{Timeout: 10 * time.Second, LocalAddr: localAddr}
			return d.DialContext(ctx, network, addr)
		},
	}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("crypto: dial %s: %w", endpoint, err)
	}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return nil, fmt.Errorf("crypto: subscribe: %w", err)
	}
	return &Feed{conn: conn}, nil
}

// ReadRaw reads one raw JSON frame's "type" field plus the full payload,
// leaving message-specific decoding to the caller (a message's shape
// depends on "type").
func (f *Feed) ReadRaw() (string, []byte, error) {
	_, data, err := f.conn.ReadMessage()
	if err != nil {
		return "", nil, err
	}
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return "", nil, fmt.Errorf("crypto: decode message tag: %w", err)
	}
	return tag.Type, data, nil
}

// Close closes the underlying connection.
func (f *Feed) Close() error { return f.conn.Close() }
