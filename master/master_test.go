package master

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestRegistryExpiresSilentServers(t *testing.T) {
	reg := NewRegistry(90*time.Second, zaptest.NewLogger(t).Sugar())
	now := time.Unix(1000, 0)
	reg.now = func() time.Time { return now }

	quiet := reg.Register(ServerInfo{Name: "quiet"})
	alive := reg.Register(ServerInfo{Name: "alive"})

	now = now.Add(60 * time.Second)
	if !reg.Heartbeat(alive, 4) {
		t.Fatalf("heartbeat for registered server failed")
	}
	now = now.Add(40 * time.Second)

	if removed := reg.Expire(); removed != 1 {
		t.Fatalf("expired %d servers, want 1", removed)
	}
	if reg.Heartbeat(quiet, 0) {
		t.Fatalf("heartbeat for expired server should fail")
	}
	list := reg.List(Filter{})
	if len(list) != 1 || list[0].ID != alive || list[0].Players != 4 {
		t.Fatalf("list = %+v", list)
	}
}

func TestRegistryListFilters(t *testing.T) {
	reg := NewRegistry(time.Minute, nil)
	reg.Register(ServerInfo{Name: "b", Region: "eu", Version: "1", Players: 10, MaxPlayers: 10})
	reg.Register(ServerInfo{Name: "a", Region: "eu", Version: "1", Players: 2, MaxPlayers: 10})
	reg.Register(ServerInfo{Name: "c", Region: "us", Version: "2"})

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all sorted by name", Filter{}, []string{"a", "b", "c"}},
		{"region", Filter{Region: "eu"}, []string{"a", "b"}},
		{"version", Filter{Version: "2"}, []string{"c"}},
		{"hide full", Filter{HideFull: true}, []string{"a", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reg.List(tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d servers, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Name != tt.want[i] {
					t.Fatalf("server %d = %q, want %q", i, got[i].Name, tt.want[i])
				}
			}
		})
	}
}

func TestHandlerRoundTrip(t *testing.T) {
	reg := NewRegistry(time.Minute, zaptest.NewLogger(t).Sugar())
	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	post := func(path string, body any) *http.Response {
		raw, _ := json.Marshal(body)
		resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(raw))
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		return resp
	}

	resp := post("/servers/register", registerRequest{Name: "arena", Address: "10.0.0.1:5000", MaxPlayers: 10})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	var reply registerResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil || reply.ID == "" {
		t.Fatalf("register reply = %+v, %v", reply, err)
	}
	resp.Body.Close()

	resp = post("/servers/register", registerRequest{Name: "no address"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("register without address status = %d", resp.StatusCode)
	}

	resp = post("/servers/heartbeat", heartbeatRequest{ID: reply.ID, Players: 3})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("heartbeat status = %d", resp.StatusCode)
	}
	resp = post("/servers/heartbeat", heartbeatRequest{ID: "nope"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown heartbeat status = %d", resp.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/servers")
	if err != nil {
		t.Fatalf("GET /servers: %v", err)
	}
	defer resp.Body.Close()
	var list []ServerInfo
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "arena" || list[0].Players != 3 {
		t.Fatalf("list = %+v", list)
	}
}
