package argenta

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeSessionState(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "browser-state.json")
	state := `{"cookies":[{"name":"SESSION","value":"abc123"}]}`
	if err := os.WriteFile(path, []byte(state), 0o600); err != nil {
		t.Fatalf("failed to write session state: %v", err)
	}
	return path
}

func TestIsAuthenticated(t *testing.T) {
	client := NewClient("http://bank.test", filepath.Join(t.TempDir(), "missing.json"))
	if client.IsAuthenticated() {
		t.Error("IsAuthenticated() = true without session state")
	}

	client = NewClient("http://bank.test", writeSessionState(t))
	if !client.IsAuthenticated() {
		t.Error("IsAuthenticated() = false with session state present")
	}
}

func TestFetchMovements(t *testing.T) {
	var gotQuery map[string]string
	var gotCookie string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"accountNumber": q.Get("accountNumber"),
			"start":         q.Get("start"),
			"maxResults":    q.Get("maxResults"),
		}
		if c, err := r.Cookie("SESSION"); err == nil {
			gotCookie = c.Value
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"result": [
				{"identifier": "mv-1", "accountingDate": "20260215", "movementAmount": 99.99, "movementSign": "-"},
				{"identifier": "mv-2", "accountingDate": "20260214", "movementAmount": 12.50, "movementSign": ""}
			],
			"rowCount": 42
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, writeSessionState(t))

	resp, err := client.FetchMovements(context.Background(), "BE68539007547034", 200, 200)
	if err != nil {
		t.Fatalf("FetchMovements() failed: %v", err)
	}

	if gotQuery["accountNumber"] != "BE68539007547034" || gotQuery["start"] != "200" || gotQuery["maxResults"] != "200" {
		t.Errorf("unexpected query params: %v", gotQuery)
	}
	if gotCookie != "abc123" {
		t.Errorf("session cookie = %q, want abc123", gotCookie)
	}
	if resp.RowCount != 42 {
		t.Errorf("RowCount = %d, want 42", resp.RowCount)
	}
	if len(resp.Result) != 2 {
		t.Fatalf("got %d movements, want 2", len(resp.Result))
	}
	if resp.Result[0].Identifier != "mv-1" || resp.Result[0].MovementAmount.String() != "99.99" {
		t.Errorf("unexpected first movement: %+v", resp.Result[0])
	}
}

func TestFetchMovements_SessionExpired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, writeSessionState(t))

	_, err := client.FetchMovements(context.Background(), "BE68539007547034", 0, 200)
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("FetchMovements() error = %v, want ErrSessionExpired", err)
	}
}

func TestFetchMovements_NotAuthenticated(t *testing.T) {
	client := NewClient("http://bank.test", filepath.Join(t.TempDir(), "missing.json"))

	_, err := client.FetchMovements(context.Background(), "BE68539007547034", 0, 200)
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("FetchMovements() error = %v, want ErrNotAuthenticated", err)
	}
}

func TestGetMovementCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("maxResults"); got != "1" {
			t.Errorf("probe maxResults = %q, want 1", got)
		}
		w.Write([]byte(`{"result": [{"identifier": "mv-1"}], "rowCount": 1234}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, writeSessionState(t))

	count, err := client.GetMovementCount(context.Background(), "BE68539007547034")
	if err != nil {
		t.Fatalf("GetMovementCount() failed: %v", err)
	}
	if count != 1234 {
		t.Errorf("GetMovementCount() = %d, want 1234", count)
	}
}

func TestValidateSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accounts": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, filepath.Join(t.TempDir(), "missing.json"))
	status := client.ValidateSession(context.Background())
	if status.HasSession || status.IsValid {
		t.Errorf("ValidateSession() = %+v without session state", status)
	}

	client = NewClient(server.URL, writeSessionState(t))
	status = client.ValidateSession(context.Background())
	if !status.HasSession || !status.IsValid {
		t.Errorf("ValidateSession() = %+v, want valid session", status)
	}
}
