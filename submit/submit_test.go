package submit

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bloodmagesoftware/geoanswer/annotation"
	"github.com/bloodmagesoftware/geoanswer/answer"
	"github.com/bloodmagesoftware/geoanswer/geom"
	"github.com/bloodmagesoftware/geoanswer/hittest"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/mdns"
)

var at = time.UnixMilli(1700000000000)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func drawnPayload() answer.Payload {
	list := annotation.List{annotation.NewPoint("point-1", geom.Point{X: 1, Y: 2}, at)}
	return answer.Serialize(list, hittest.Selection{}, "point", 4, at)
}

func TestWebSocketRoundTrip(t *testing.T) {
	received := make(chan Envelope, 2)
	srv := httptest.NewServer(&Receiver{Accept: func(env Envelope) bool {
		received <- env
		return env.ProblemID == "p1"
	}})
	defer srv.Close()

	ws := &WebSocket{URL: wsURL(srv), ProblemID: "p1", Timeout: 5 * time.Second}
	accepted, err := ws.Submit(context.Background(), drawnPayload())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !accepted {
		t.Error("answer should be accepted")
	}
	got := <-received
	if got.Type != "answer" || got.Answer.ConfidenceLevel != 4 {
		t.Errorf("evaluator received %+v", got)
	}
	pt, ok := got.Answer.DrawnElements[0].(annotation.Point)
	if !ok || pt.At != (geom.Point{X: 1, Y: 2}) {
		t.Errorf("drawn element arrived as %+v", got.Answer.DrawnElements[0])
	}

	ws.ProblemID = "other"
	if accepted, err := ws.Submit(context.Background(), drawnPayload()); err != nil || accepted {
		t.Errorf("Submit = %v, %v; want rejected without error", accepted, err)
	}
}

func TestReceiverRejectsEmpty(t *testing.T) {
	srv := httptest.NewServer(&Receiver{})
	defer srv.Close()

	empty := answer.Serialize(nil, hittest.Selection{}, "drawing", 3, at)
	ws := &WebSocket{URL: wsURL(srv)}
	accepted, err := ws.Submit(context.Background(), empty)
	if err != nil || accepted {
		t.Errorf("Submit = %v, %v", accepted, err)
	}
}

func TestWebSocketTimeout(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	ws := &WebSocket{URL: wsURL(srv), Timeout: 100 * time.Millisecond}
	_, err := ws.Submit(context.Background(), drawnPayload())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestWebSocketDialError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()

	ws := &WebSocket{URL: "ws://" + addr + "/answers", Timeout: time.Second}
	if _, err := ws.Submit(context.Background(), drawnPayload()); err == nil || !strings.Contains(err.Error(), "dialing evaluator") {
		t.Errorf("err = %v", err)
	}
}

func TestWebSocketWithoutEndpoint(t *testing.T) {
	_, err := (&WebSocket{}).Submit(context.Background(), drawnPayload())
	if !errors.Is(err, ErrNoEndpoint) {
		t.Errorf("err = %v", err)
	}
}

func TestFunc(t *testing.T) {
	var s Submitter = Func(func(ctx context.Context, p answer.Payload) (bool, error) {
		return p.Type == "point", nil
	})
	if ok, _ := s.Submit(context.Background(), drawnPayload()); !ok {
		t.Error("Func did not forward the payload")
	}
}

func TestEntryURL(t *testing.T) {
	type TestCase struct {
		name  string
		entry *mdns.ServiceEntry
		want  string
	}
	ip := net.IPv4(192, 168, 1, 20)
	cases := []TestCase{
		{"default path", &mdns.ServiceEntry{AddrV4: ip, Port: 9000}, "ws://192.168.1.20:9000/answers"},
		{"txt path", &mdns.ServiceEntry{AddrV4: ip, Port: 9000, InfoFields: []string{"v=1", "path=/exam/answers"}}, "ws://192.168.1.20:9000/exam/answers"},
		{"no address", &mdns.ServiceEntry{Port: 9000}, ""},
		{"no port", &mdns.ServiceEntry{AddrV4: ip}, ""},
		{"nil", nil, ""},
	}
	for _, tc := range cases {
		got, ok := entryURL(tc.entry)
		if got != tc.want || ok != (tc.want != "") {
			t.Errorf("%s: got %q, %v", tc.name, got, ok)
		}
	}
}

func TestLookupHonoursExpiredContext(t *testing.T) {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	if _, err := (&Discovery{}).Lookup(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v", err)
	}
}
