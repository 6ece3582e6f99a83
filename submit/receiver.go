package submit

import (
	"log"
	"net/http"

	"github.com/bloodmagesoftware/geoanswer/answer"
	"github.com/gorilla/websocket"
)

// Receiver is the evaluator side of WebSocket: it acknowledges every
// envelope it reads. Empty answers are always rejected.
type Receiver struct {
	// Accept decides the ack for non-empty answers; nil accepts them all.
	Accept func(env Envelope) bool

	upgrader websocket.Upgrader
}

func (rc *Receiver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := rc.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrading %s: %v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()

	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("reading answer from %s: %v", r.RemoteAddr, err)
			}
			return
		}

		ack := Ack{Accepted: answer.CanSubmit(env.Answer)}
		if !ack.Accepted {
			ack.Message = answer.ErrEmpty.Error()
		} else if rc.Accept != nil {
			ack.Accepted = rc.Accept(env)
		}
		if err := conn.WriteJSON(ack); err != nil {
			log.Printf("acknowledging %s: %v", r.RemoteAddr, err)
			return
		}
	}
}
