package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/blognav/internal/event"
	"github.com/ziadkadry99/blognav/internal/search"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is handled at the router
	},
}

// clientEvent is a UI event sent by the page, e.g.
// {"event":"onQueryChange","value":"go"} or {"event":"onClick","target":"elsewhere"}.
type clientEvent struct {
	Event  string `json:"event"`
	Value  string `json:"value"`
	Target string `json:"target"`
}

// serverMessage is pushed to the page whenever the panel changes.
type serverMessage struct {
	Type    string          `json:"type"` // "hello", "results", "visibility" or "error"
	Session string          `json:"session"`
	Visible *bool           `json:"visible,omitempty"`
	Search  *searchResponse `json:"search,omitempty"`
	HTML    string          `json:"html,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// socketView renders panel output onto a websocket. It is only called from
// the session loop, which makes it the connection's single writer.
type socketView struct {
	conn      *websocket.Conn
	session   string
	noResults string
	s         *Server
}

func (v *socketView) Render(resp search.Response) {
	out, err := search.RenderPanel(resp, search.RenderOptions{NoResultsText: v.noResults})
	if err != nil {
		v.s.log.Error("rendering search panel", "session", v.session, "error", err)
	}
	sr := toSearchResponse(resp)
	v.send(serverMessage{Type: "results", Session: v.session, Search: &sr, HTML: out})
}

func (v *socketView) SetVisible(visible bool) {
	v.send(serverMessage{Type: "visibility", Session: v.session, Visible: &visible})
}

func (v *socketView) send(msg serverMessage) {
	if err := v.conn.WriteJSON(msg); err != nil {
		v.s.log.Debug("websocket write", "session", v.session, "error", err)
	}
}

// handleSearchSocket runs one live search session per connection: page
// events are posted to a private event loop that drives a debounced Panel.
func (s *Server) handleSearchSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	session := uuid.NewString()
	log := s.log.With("session", session)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	loop := event.NewLoop(event.LoopOptions{FrameInterval: s.cfg.FrameInterval, Logger: log})
	view := &socketView{conn: conn, session: session, noResults: s.cfg.NoResultsText, s: s}
	panel := search.NewPanel(loop, s.index, view, search.PanelOptions{Engine: s.engine, Debounce: s.cfg.Debounce})
	handlers := event.NewHandlers()
	panel.Register(handlers)

	done := make(chan struct{})
	go func() {
		defer close(done)
		loop.Run(ctx)
	}()
	loop.Post(func() { view.send(serverMessage{Type: "hello", Session: session}) })
	log.Debug("search session opened")

	for {
		var ev clientEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read", "error", err)
			}
			break
		}
		name, err := event.ParseName(ev.Event)
		if err != nil {
			msg := serverMessage{Type: "error", Session: session, Error: err.Error()}
			loop.Post(func() { view.send(msg) })
			continue
		}
		e := event.Event{Name: name, Value: ev.Value, Target: ev.Target}
		loop.Post(func() { handlers.Dispatch(e) })
	}

	cancel()
	<-done
	log.Debug("search session closed")
}
