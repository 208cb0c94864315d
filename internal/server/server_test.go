package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"splitmate/internal/auth"
	"splitmate/internal/calculator"
	"splitmate/internal/ledger"
	"splitmate/internal/models"
	"splitmate/internal/protocol"
	"splitmate/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitmate-server-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	l := ledger.New(store, ledger.NewHub(), nil)
	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager("test-secret-key-32-bytes-long!!!", time.Hour)

	ts := httptest.NewServer(New(l, authenticator, jwtManager).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, token string, body any) *http.Response {
	t.Helper()

	encoded, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to encode body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func registerUser(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()

	resp := postJSON(t, ts.URL+"/api/auth/register", "", protocol.Credentials{
		Email: email, Name: "Test User", Password: "pass-word-1",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", resp.StatusCode)
	}

	var authResp protocol.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode auth response: %v", err)
	}
	if authResp.Token == "" {
		t.Fatal("register returned empty token")
	}
	return authResp.Token
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	registerUser(t, ts, "ali@example.com")

	t.Run("duplicate email conflicts", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/auth/register", "", protocol.Credentials{
			Email: "ali@example.com", Name: "Other", Password: "pass-word-1",
		})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("status = %d, want 409", resp.StatusCode)
		}
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/auth/register", "", protocol.Credentials{
			Email: "not-an-email", Name: "Other", Password: "pass-word-1",
		})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("weak password rejected", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/auth/register", "", protocol.Credentials{
			Email: "sara@example.com", Name: "Sara", Password: "short",
		})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("login succeeds with right password", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/auth/login", "", protocol.Credentials{
			Email: "ali@example.com", Password: "pass-word-1",
		})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})

	t.Run("login fails with wrong password", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/auth/login", "", protocol.Credentials{
			Email: "ali@example.com", Password: "wrong-password",
		})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})
}

func TestFriendsRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/friends")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestFriendLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "ali@example.com")

	// Add "Ali" with no image: the stored entry gets the default picture.
	resp := postJSON(t, ts.URL+"/api/friends", token, protocol.AddFriendRequest{Name: "Ali"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add friend status = %d, want 201", resp.StatusCode)
	}
	var friend models.Friend
	if err := json.NewDecoder(resp.Body).Decode(&friend); err != nil {
		t.Fatalf("failed to decode friend: %v", err)
	}
	resp.Body.Close()

	if friend.ID == "" || !strings.HasPrefix(friend.ID, "ali-") {
		t.Errorf("friend ID = %q, want ali-<suffix>", friend.ID)
	}
	if friend.Image != models.DefaultImageURL {
		t.Errorf("friend image = %q, want default", friend.Image)
	}
	if friend.Balance != 0 {
		t.Errorf("friend balance = %d, want 0", friend.Balance)
	}

	// Split: bill 100, your expense 30, you paid. Ali owes 70.
	delta := calculator.ComputeSplit(100, 30, calculator.PayerYou)
	resp = postJSON(t, ts.URL+"/api/friends/"+friend.ID+"/split", token, protocol.SplitRequest{Delta: delta})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("split status = %d, want 204", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/friends", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	getResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	var list protocol.FriendsResponse
	if err := json.NewDecoder(getResp.Body).Decode(&list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	getResp.Body.Close()

	if len(list.Friends) != 1 || list.Friends[0].Balance != 70 {
		t.Fatalf("friends = %+v, want Ali with balance 70", list.Friends)
	}

	// Remove; a second remove is 404, not a crash.
	del := func() int {
		req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/friends/"+friend.ID, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("delete request failed: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}
	if status := del(); status != http.StatusNoContent {
		t.Errorf("first delete status = %d, want 204", status)
	}
	if status := del(); status != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", status)
	}
}

func TestSplitOnMissingFriend(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "ali@example.com")

	resp := postJSON(t, ts.URL+"/api/friends/nope/split", token, protocol.SplitRequest{Delta: 10})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestWatchStreamsSnapshots(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "ali@example.com")

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/api/friends/watch"
	header := http.Header{"Authorization": {"Bearer " + token}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	readMessage := func() protocol.WatchMessage {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg protocol.WatchMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("failed to read watch message: %v", err)
		}
		return msg
	}

	// Initial snapshot: empty collection, valid and settled.
	msg := readMessage()
	if msg.Type != protocol.MessageSnapshot || len(msg.Friends) != 0 {
		t.Fatalf("initial message = %+v, want empty snapshot", msg)
	}
	if calculator.TotalBalance(msg.Friends) != 0 {
		t.Fatal("empty snapshot must total 0")
	}

	// A mutation produces a fresh snapshot on the open subscription.
	resp := postJSON(t, ts.URL+"/api/friends", token, protocol.AddFriendRequest{Name: "Sara"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add friend status = %d, want 201", resp.StatusCode)
	}

	msg = readMessage()
	if msg.Type != protocol.MessageSnapshot || len(msg.Friends) != 1 || msg.Friends[0].Name != "Sara" {
		t.Fatalf("message = %+v, want snapshot with Sara", msg)
	}
}

func TestWatchIgnoresOtherUsers(t *testing.T) {
	ts := newTestServer(t)
	aliToken := registerUser(t, ts, "ali@example.com")
	saraToken := registerUser(t, ts, "sara@example.com")

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/api/friends/watch"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Authorization": {"Bearer " + aliToken}})
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg protocol.WatchMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("failed to read initial snapshot: %v", err)
	}

	// Sara's mutation must not reach Ali's subscription.
	resp := postJSON(t, ts.URL+"/api/friends", saraToken, protocol.AddFriendRequest{Name: "Bilal"})
	resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if err := conn.ReadJSON(&msg); err == nil {
		t.Fatalf("unexpected message for unrelated user: %+v", msg)
	}
}
