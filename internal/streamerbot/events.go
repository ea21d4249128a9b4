// Package streamerbot receives gift events from a Streamer.bot websocket server.
package streamerbot

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/gift-board/internal/board"
)

// Event source and type that carry gifts.
const (
	SourceTikTok = "TikTok"
	TypeGift     = "Gift"
)

// SubscribeRequest asks the server to forward events of the listed types.
type SubscribeRequest struct {
	Request string              `json:"request"`
	Events  map[string][]string `json:"events"`
	ID      string              `json:"id"`
}

// NewGiftSubscription returns the request for TikTok gift events.
func NewGiftSubscription(id string) SubscribeRequest {
	return SubscribeRequest{
		Request: "Subscribe",
		Events:  map[string][]string{SourceTikTok: {TypeGift}},
		ID:      id,
	}
}

// StreamEvent is an event frame pushed by the server.
type StreamEvent struct {
	Event EventSource `json:"event"`
	Data  EventData   `json:"data"`
}

// EventSource identifies where an event came from.
type EventSource struct {
	Source string `json:"source"`
	Type   string `json:"type"`
}

// EventData is the gift payload.
type EventData struct {
	User UserData `json:"user"`
	Gift GiftData `json:"gift"`
}

// UserData identifies the viewer.
type UserData struct {
	Name string `json:"name"`
}

// GiftData describes the gift. Coins is per gift and may be absent.
type GiftData struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Coins *int   `json:"coins"`
}

// IsGift reports whether the event is a TikTok gift.
func (e StreamEvent) IsGift() bool {
	return e.Event.Source == SourceTikTok && e.Event.Type == TypeGift
}

// Gift converts the event to a board gift.
func (e StreamEvent) Gift() board.Gift {
	return board.Gift{
		User:  e.Data.User.Name,
		Name:  e.Data.Gift.Name,
		Count: e.Data.Gift.Count,
		Coins: e.Data.Gift.Coins,
	}
}

// DecodeGift parses a frame. It reports false for frames that decode but are
// not gifts, such as the server hello or subscribe acknowledgements.
func DecodeGift(frame []byte) (board.Gift, bool, error) {
	var e StreamEvent
	if err := json.Unmarshal(frame, &e); err != nil {
		return board.Gift{}, false, fmt.Errorf("streamerbot: cannot decode frame: %w", err)
	}
	if !e.IsGift() {
		return board.Gift{}, false, nil
	}
	return e.Gift(), true, nil
}
