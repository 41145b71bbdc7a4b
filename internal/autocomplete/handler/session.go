package handler

import (
	"context"
	"errors"
	"sync"
	"time"

	"vacation_planner_backend/internal/autocomplete/transport"
	"vacation_planner_backend/internal/autocomplete/widget"
	"vacation_planner_backend/internal/events"
	"vacation_planner_backend/internal/geo"
	"vacation_planner_backend/internal/maps"
	"vacation_planner_backend/platform/logger"
	"vacation_planner_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxMessageBytes = 64 * 1024
)

var errNotMounted = errors.New("page is not mounted")

// messageRules validates client messages for every session.
var messageRules = validator.New()

// session is one connected page with at most one widget controller.
type session struct {
	id   uuid.UUID
	form string
	conn *websocket.Conn
	page *Page
	cfg  widget.Config
	bus  events.Bus
	log  *logger.Logger

	writeMu sync.Mutex
	ctx     context.Context
	ctrl    *widget.Controller
}

func newSession(id uuid.UUID, form string, conn *websocket.Conn, cfg widget.Config, bus events.Bus) *session {
	s := &session{
		id:   id,
		form: form,
		conn: conn,
		bus:  bus,
		log:  cfg.Logger,
	}
	s.page = NewPage(s.write)
	cfg.OnSelect = s.selected
	s.cfg = cfg
	return s
}

func (s *session) run(ctx context.Context) {
	s.ctx = ctx
	s.log.Info("address widget session opened", "form", s.form)

	done := make(chan struct{})
	defer func() {
		close(done)
		if s.ctrl != nil {
			s.ctrl.Deactivate()
		}
		_ = s.conn.Close()
		s.log.Info("address widget session closed", "form", s.form)
	}()

	s.conn.SetReadLimit(maxMessageBytes)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go s.pingLoop(done)

	for {
		var msg transport.ClientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				s.log.Warn("address widget session read failed", "error", err)
			}
			return
		}

		if err := s.dispatch(msg); err != nil {
			s.page.Send(transport.Error(err.Error()))
		}
		if err := s.page.Err(); err != nil {
			s.log.Warn("address widget session write failed", "error", err)
			return
		}
	}
}

func (s *session) dispatch(msg transport.ClientMessage) error {
	if err := messageRules.Struct(msg); err != nil {
		return errors.New("invalid message")
	}

	if msg.Type == transport.TypeMount {
		if s.ctrl != nil {
			return errors.New("page is already mounted")
		}
		s.page.Mount(msg.Elements, msg.Panel)
		s.ctrl = widget.Activate(s.page, s.cfg)
		if !s.ctrl.Active() {
			return errors.New("address search is unavailable on this page")
		}
		return nil
	}

	if s.ctrl == nil {
		return errNotMounted
	}

	switch msg.Type {
	case transport.TypeInput:
		s.page.Update(s.cfg.InputID, msg.Value)
		s.ctrl.HandleInput()
	case transport.TypeFocus:
		s.ctrl.HandleFocus()
	case transport.TypeClick:
		s.page.Click(msg.Target)
	}
	return nil
}

// selected reports the chosen address to the page and the rest of the application.
func (s *session) selected(addr maps.NormalizedAddress) {
	var estimate *geo.Result
	if s.cfg.Reference != nil {
		est := geo.Estimate(*s.cfg.Reference, addr.Point(), s.cfg.AverageSpeedMPH)
		estimate = &est
	}

	s.page.Send(transport.ServerMessage{Type: transport.TypeSelected, Address: &addr, Estimate: estimate})

	if s.bus != nil {
		s.bus.Publish(s.ctx, events.AddressSelected{
			BaseEvent: events.NewBaseEvent(),
			SessionID: s.id,
			Form:      s.form,
			Address:   addr,
			Estimate:  estimate,
		})
	}
}

func (s *session) write(msg transport.ServerMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(msg)
}

func (s *session) pingLoop(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
