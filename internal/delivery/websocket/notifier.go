package websocket

import (
	"encoding/json"
	"log"

	"github.com/suraj946/goss-up-server/infrastructure/ws"
)

// Fanout delivers events to the live connections of the affected users. It
// satisfies usecase.Notifier; delivery is best-effort and never blocks the
// request that produced the event.
type Fanout struct {
	hub ws.IHub
}

func NewFanout(hub ws.IHub) *Fanout {
	return &Fanout{
		hub: hub,
	}
}

func (f *Fanout) Notify(userIds []string, event string, payload any) {
	data, err := json.Marshal(EventEnvelope{
		Event:   event,
		Payload: payload,
	})
	if err != nil {
		log.Printf("Marshal event %s error: %v", event, err)
		return
	}

	for _, userId := range userIds {
		f.hub.SendToUser(userId, data)
	}
}
