package controllers

import (
	"net/http"
	"strings"
	"time"

	"MediCareHMS/events"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 64
)

// Stream pushes bus events to websocket clients, optionally filtered by
// ?doctorId= and ?date=.
type Stream struct {
	Bus      events.Bus
	upgrader websocket.Upgrader
}

func NewStream(bus events.Bus, allowOrigin func(r *http.Request) bool) *Stream {
	if allowOrigin == nil {
		allowOrigin = func(*http.Request) bool { return true }
	}
	return &Stream{
		Bus: bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     allowOrigin,
		},
	}
}

// AllowOrigins builds a websocket origin check from the CORS origin list.
// "*" admits everyone; requests without an Origin header are not from a
// browser and pass.
func AllowOrigins(origins []string) func(r *http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		o = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(o), "/"))
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		if o != "" {
			allowed[o] = struct{}{}
		}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[strings.ToLower(strings.TrimSuffix(origin, "/"))]
		return ok
	}
}

/*
* Upgrade the connection
* Subscribe a buffered channel to the bus
* Write matching events until the client goes away
 */
func (s *Stream) Serve(c *gin.Context) {
	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	id := uuid.NewString()
	doctorID, date := c.Query("doctorId"), c.Query("date")
	ch, unsubscribe := events.Channel(s.Bus, sendBuffer)
	log.Debug().Str("client", id).Str("doctorId", doctorID).Str("date", date).Msg("event stream opened")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		unsubscribe()
		ws.Close()
		log.Debug().Str("client", id).Msg("event stream closed")
	}()

	for {
		select {
		case <-done:
			return
		case e, open := <-ch:
			if !open {
				return
			}
			if doctorID != "" && e.DoctorID != doctorID {
				continue
			}
			if date != "" && e.Date != date {
				continue
			}
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteJSON(e); err != nil {
				return
			}
		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
