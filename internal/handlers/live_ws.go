package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/m32jawad/Arena/internal/arena"
)

// Feed fans lifecycle events out to websocket dashboards. A subscriber that
// cannot keep up loses events rather than blocking the broadcaster; the
// dashboard's next poll reconciles whatever was dropped.
type Feed struct {
	mu   sync.Mutex
	subs map[chan arena.Event]struct{}
	log  *logrus.Logger
}

// NewFeed builds an empty feed.
func NewFeed(log *logrus.Logger) *Feed {
	if log == nil {
		log = logrus.New()
	}
	return &Feed{subs: make(map[chan arena.Event]struct{}), log: log}
}

// Broadcast delivers ev to every subscriber without blocking.
func (f *Feed) Broadcast(ev arena.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (f *Feed) subscribe() chan arena.Event {
	ch := make(chan arena.Event, 16)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()
	return ch
}

func (f *Feed) unsubscribe(ch chan arena.Event) {
	f.mu.Lock()
	delete(f.subs, ch)
	f.mu.Unlock()
}

// logFeed tags a log entry with the subscriber's identity.
func (a *API) logFeed(r *http.Request, err error) *logrus.Entry {
	entry := a.Log.WithField("remote", r.RemoteAddr)
	if err != nil {
		entry = entry.WithError(err)
	}
	return entry
}

// LiveWS upgrades the connection and streams lifecycle events until the
// client goes away.
func (a *API) LiveWS(w http.ResponseWriter, r *http.Request) {
	if a.Feed == nil {
		http.Error(w, "live feed disabled", http.StatusServiceUnavailable)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   []string{"live"},
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		a.Log.Warnf("websocket accept error: %v", err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler finished")
	a.logFeed(r, nil).Info("live feed client connected")

	ch := a.Feed.subscribe()
	defer a.Feed.unsubscribe(ch)

	ctx := r.Context()

	// discard inbound frames so pings and closes are processed
	go func() {
		for {
			if _, _, err := c.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			a.logFeed(r, ctx.Err()).Info("live feed client disconnected")
			return
		case ev := <-ch:
			data, err := json.Marshal(ev)
			if err != nil {
				a.Log.WithError(err).Warn("event marshal failed")
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				a.logFeed(r, err).Info("live feed client disconnected")
				return
			}
		}
	}
}
