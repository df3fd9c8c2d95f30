package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tourney/internal/api"
	"github.com/mcoot/tourney/internal/api/apierr"
	"github.com/mcoot/tourney/internal/api/response"
	"github.com/mcoot/tourney/internal/factory"
	"github.com/mcoot/tourney/internal/model"
	"github.com/mcoot/tourney/internal/testutil"
)

// testServer wraps the router with a deterministic test app
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	router := api.NewRouter(api.RouterConfig{
		Logger:  testutil.NopLogger(),
		Manager: app.Manager,
		Hubs:    app.Hubs,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	reqBody := bytes.NewBuffer(nil)
	switch b := body.(type) {
	case nil:
	case string:
		reqBody.WriteString(b)
	default:
		data, _ := json.Marshal(b)
		reqBody.Write(data)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func requireError(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rr.Code, rr.Body.String())
	resp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, code, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Message)
}

// createTournament creates a started tournament and returns its base path
func (ts *testServer) createTournament(t *testing.T, preset string, players ...string) string {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/tournaments", map[string]string{"name": "Weekly", "preset": preset})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	tourn := decode[response.Tournament](t, rr)

	base := "/api/v1/tournaments/" + tourn.ID
	ts.submit(t, base, "start", nil)
	for _, name := range players {
		ts.submit(t, base, "register_player", map[string]string{"name": name})
	}
	return base
}

func (ts *testServer) submit(t *testing.T, base, kind string, data any) response.OperationResult {
	t.Helper()
	body := map[string]any{"kind": kind}
	if data != nil {
		body["data"] = data
	}
	rr := ts.request(http.MethodPost, base+"/ops", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[response.OperationResult](t, rr)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCreateTournament(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/tournaments", map[string]string{"name": "Friday Night", "format": "Modern"})
	require.Equal(t, http.StatusCreated, rr.Code)

	tourn := decode[response.Tournament](t, rr)
	assert.Equal(t, "/api/v1/tournaments/"+tourn.ID, rr.Header().Get("Location"))
	assert.Equal(t, "Friday Night", tourn.Name)
	assert.Equal(t, "Modern", tourn.Format)
	assert.Equal(t, string(model.StatusPlanned), tourn.Status)
	assert.Equal(t, string(model.PairingSwiss), tourn.Pairing)
	assert.True(t, tourn.RegOpen)

	rr = ts.request(http.MethodGet, "/api/v1/tournaments/"+tourn.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, tourn, decode[response.Tournament](t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/tournaments", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[response.TournamentList](t, rr).Tournaments, 1)
}

func TestCreateTournamentValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"malformed body", "{", http.StatusBadRequest, apierr.CodeInvalidRequest},
		{"missing name", map[string]string{"preset": "swiss"}, http.StatusBadRequest, apierr.CodeInvalidRequest},
		{"unknown preset", map[string]string{"name": "x", "preset": "round_robin"}, http.StatusBadRequest, apierr.CodeInvalidSetting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/tournaments", tt.body)
			requireError(t, rr, tt.status, tt.code)
		})
	}
}

func TestTournamentNotFound(t *testing.T) {
	ts := newTestServer(t)
	missing := "/api/v1/tournaments/" + model.NewTournamentID().String()

	requireError(t, ts.request(http.MethodGet, missing, nil), http.StatusNotFound, apierr.CodeTournamentNotFound)
	requireError(t, ts.request(http.MethodGet, missing+"/log", nil), http.StatusNotFound, apierr.CodeTournamentNotFound)
	requireError(t, ts.request(http.MethodPost, missing+"/ops", map[string]string{"kind": "start"}),
		http.StatusNotFound, apierr.CodeTournamentNotFound)
	requireError(t, ts.request(http.MethodGet, "/api/v1/tournaments/not-a-uuid", nil),
		http.StatusBadRequest, apierr.CodeInvalidRequest)
}

func TestSubmitOperation(t *testing.T) {
	ts := newTestServer(t)
	base := ts.createTournament(t, "swiss")

	result := ts.submit(t, base, "register_player", map[string]string{"name": "Alice"})
	assert.Equal(t, uint64(2), result.Operation.Seq)
	assert.False(t, result.Operation.ID.IsNil())
	require.NotNil(t, result.Outcome.Player)
	assert.False(t, result.Operation.Timestamp.IsZero())

	rr := ts.request(http.MethodGet, base+"/players/Alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	player := decode[response.Player](t, rr)
	assert.Equal(t, result.Outcome.Player.String(), player.ID)
	assert.Equal(t, string(model.PlayerRegistered), player.Status)
}

func TestSubmitOperationErrors(t *testing.T) {
	ts := newTestServer(t)
	base := ts.createTournament(t, "swiss", "Alice")

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"malformed body", "{", http.StatusBadRequest, apierr.CodeInvalidRequest},
		{"unknown kind", map[string]any{"kind": "teleport"}, http.StatusBadRequest, apierr.CodeUnknownOperation},
		{"bad data", map[string]any{"kind": "register_player", "data": "Alice"}, http.StatusBadRequest, apierr.CodeInvalidRequest},
		{"duplicate player", map[string]any{"kind": "register_player", "data": map[string]string{"name": "Alice"}},
			http.StatusConflict, apierr.CodePlayerExists},
		{"unknown player", map[string]any{"kind": "check_in", "data": map[string]any{"player": map[string]string{"name": "Zed"}}},
			http.StatusNotFound, apierr.CodePlayerNotFound},
		{"wrong status", map[string]any{"kind": "start"}, http.StatusConflict, apierr.CodeIncorrectStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, base+"/ops", tt.body)
			requireError(t, rr, tt.status, tt.code)
		})
	}

	// Nothing above reached the log
	rr := ts.request(http.MethodGet, base+"/log", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[model.LogDocument](t, rr).Ops, 2)
}

func TestSubmitWithCallerID(t *testing.T) {
	ts := newTestServer(t)
	base := ts.createTournament(t, "swiss")

	id := model.NewOpID()
	ts0 := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	body := map[string]any{
		"id":        id,
		"timestamp": ts0,
		"kind":      "register_player",
		"data":      map[string]string{"name": "Alice"},
	}

	rr := ts.request(http.MethodPost, base+"/ops", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	result := decode[response.OperationResult](t, rr)
	assert.Equal(t, id, result.Operation.ID)
	assert.True(t, ts0.Equal(result.Operation.Timestamp))

	// Resubmitting the same operation is rejected
	body["data"] = map[string]string{"name": "Bob"}
	requireError(t, ts.request(http.MethodPost, base+"/ops", body), http.StatusConflict, apierr.CodeDuplicateOperation)
}

func TestSliceAndLog(t *testing.T) {
	ts := newTestServer(t)
	base := ts.createTournament(t, "swiss", "Alice", "Bob", "Cara")

	rr := ts.request(http.MethodGet, base+"/ops", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[response.OperationList](t, rr).Ops, 4)

	rr = ts.request(http.MethodGet, base+"/ops?from=2&to=4", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	ops := decode[response.OperationList](t, rr).Ops
	require.Len(t, ops, 2)
	assert.Equal(t, uint64(2), ops[0].Seq)
	assert.Equal(t, uint64(3), ops[1].Seq)

	rr = ts.request(http.MethodGet, base+"/ops?from=10", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[response.OperationList](t, rr).Ops)

	requireError(t, ts.request(http.MethodGet, base+"/ops?from=x", nil), http.StatusBadRequest, apierr.CodeInvalidRequest)

	rr = ts.request(http.MethodGet, base+"/log", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	doc := decode[model.LogDocument](t, rr)
	assert.Equal(t, model.LogDocumentVersion, doc.Version)
	assert.Equal(t, "Weekly", doc.Seed.Name)
	assert.Len(t, doc.Ops, 4)
}

func TestRollback(t *testing.T) {
	ts := newTestServer(t)
	base := ts.createTournament(t, "swiss", "Alice", "Bob")

	rr := ts.request(http.MethodPost, base+"/rollback", map[string]uint64{"to": 2})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, 1, decode[response.Tournament](t, rr).PlayerCount)

	requireError(t, ts.request(http.MethodGet, base+"/players/Bob", nil), http.StatusNotFound, apierr.CodePlayerNotFound)

	// Bob can register again now that the old registration is gone
	ts.submit(t, base, "register_player", map[string]string{"name": "Bob"})

	requireError(t, ts.request(http.MethodPost, base+"/rollback", "nope"), http.StatusBadRequest, apierr.CodeInvalidRequest)
}

func TestRollbackBelowZeroEmptiesLog(t *testing.T) {
	ts := newTestServer(t)
	base := ts.createTournament(t, "swiss", "Alice")

	rr := ts.request(http.MethodPost, base+"/rollback", map[string]int64{"to": -1})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	tourn := decode[response.Tournament](t, rr)
	assert.Equal(t, string(model.StatusPlanned), tourn.Status)
	assert.Equal(t, 0, tourn.PlayerCount)

	rr = ts.request(http.MethodGet, base+"/log", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[model.LogDocument](t, rr).Ops)
}

func TestSyncAndImport(t *testing.T) {
	ts := newTestServer(t)
	base := ts.createTournament(t, "fluid", "Alice")

	rr := ts.request(http.MethodGet, base+"/log", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	doc := decode[model.LogDocument](t, rr)

	// A second server imports the log and adds to it
	peer := newTestServer(t)
	peer.app.MockClock.Set(ts.app.MockClock.Now().Add(time.Minute))
	rr = peer.request(http.MethodPost, "/api/v1/tournaments/import", doc)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	peer.submit(t, base, "register_player", map[string]string{"name": "Bob"})

	requireError(t, peer.request(http.MethodPost, "/api/v1/tournaments/import", doc),
		http.StatusConflict, apierr.CodeAlreadyLoaded)

	rr = peer.request(http.MethodGet, base+"/log", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	remote := decode[model.LogDocument](t, rr)

	// The original picks the new operation up through sync
	ts.submit(t, base, "register_player", map[string]string{"name": "Cara"})
	rr = ts.request(http.MethodPost, base+"/sync", remote)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	report := decode[response.SyncReport](t, rr)
	assert.Equal(t, uint64(2), report.CommonPrefix)
	assert.Equal(t, []string{remote.Ops[2].ID.String()}, report.Added)
	assert.Empty(t, report.Conflicts)

	rr = ts.request(http.MethodGet, base+"/players/counts", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 3, decode[response.PlayerCounts](t, rr).Registered)

	// Syncing a log from another tournament fails
	other := ts.createTournament(t, "swiss")
	requireError(t, ts.request(http.MethodPost, other+"/sync", remote), http.StatusConflict, apierr.CodeTournamentMismatch)
	requireError(t, ts.request(http.MethodPost, base+"/sync", "{"), http.StatusBadRequest, apierr.CodeInvalidRequest)
}

func TestPlayersDecksAndRounds(t *testing.T) {
	ts := newTestServer(t)
	base := ts.createTournament(t, "swiss", "Alice", "Bob", "Cara")

	deck := map[string]any{"mainboard": []map[string]any{{"name": "Lightning Bolt", "count": 4}}}
	ts.submit(t, base, "add_deck", map[string]any{"player": map[string]string{"name": "Alice"}, "name": "Burn", "deck": deck})
	ts.submit(t, base, "drop_player", map[string]any{"player": map[string]string{"name": "Cara"}})

	rr := ts.request(http.MethodGet, base+"/players", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[response.PlayerList](t, rr).Players, 3)

	rr = ts.request(http.MethodGet, base+"/players?active=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[response.PlayerList](t, rr).Players, 2)

	rr = ts.request(http.MethodGet, base+"/players/counts", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	counts := decode[response.PlayerCounts](t, rr)
	assert.Equal(t, 2, counts.Registered)
	assert.Equal(t, 1, counts.Dropped)
	assert.Equal(t, 2, counts.Active)

	rr = ts.request(http.MethodGet, base+"/players/Alice/decks", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decks := decode[response.Decks](t, rr)
	require.Contains(t, decks.Decks, "Burn")
	assert.Equal(t, 4, decks.Decks["Burn"].Mainboard[0].Count)

	rr = ts.request(http.MethodGet, base+"/decks", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	all := decode[response.AllDecks](t, rr)
	assert.Len(t, all.Players, 3)
	assert.Equal(t, 1, countDecks(all))

	// Pair the two remaining players
	result := ts.submit(t, base, "pair_round", nil)
	require.Len(t, result.Outcome.Rounds, 1)
	roundID := result.Outcome.Rounds[0]

	rr = ts.request(http.MethodGet, base+"/rounds", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rounds := decode[response.RoundList](t, rr).Rounds
	require.Len(t, rounds, 1)
	assert.Equal(t, roundID.String(), rounds[0].ID)
	assert.Equal(t, string(model.RoundOpen), rounds[0].Status)
	assert.True(t, rounds[0].EndsAt.After(rounds[0].StartedAt))

	rr = ts.request(http.MethodGet, base+"/rounds/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, roundID.String(), decode[response.Round](t, rr).ID)

	rr = ts.request(http.MethodGet, fmt.Sprintf("%s/rounds/%s", base, roundID), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, base+"/players/Bob/rounds/latest", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, roundID.String(), decode[response.Round](t, rr).ID)

	rr = ts.request(http.MethodGet, base+"/players/Bob/rounds", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[response.RoundList](t, rr).Rounds, 1)

	requireError(t, ts.request(http.MethodGet, base+"/rounds/0", nil), http.StatusBadRequest, apierr.CodeInvalidRequest)
	requireError(t, ts.request(http.MethodGet, base+"/rounds/7", nil), http.StatusNotFound, apierr.CodeRoundNotFound)
	requireError(t, ts.request(http.MethodGet, base+"/players/Cara/rounds/latest", nil),
		http.StatusNotFound, apierr.CodeRoundNotFound)
}

func TestTableNumbersFollowSetting(t *testing.T) {
	ts := newTestServer(t)
	base := ts.createTournament(t, "swiss", "Alice", "Bob")

	ts.submit(t, base, "update_setting", map[string]any{"kind": "use_table_numbers", "data": map[string]bool{"use": false}})
	ts.submit(t, base, "pair_round", nil)

	rr := ts.request(http.MethodGet, base+"/rounds/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "table_number")

	// The registry still tracks tables, so turning the setting back on shows them
	ts.submit(t, base, "update_setting", map[string]any{"kind": "use_table_numbers", "data": map[string]bool{"use": true}})
	rr = ts.request(http.MethodGet, base+"/rounds/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotZero(t, decode[response.Round](t, rr).TableNumber)
}

func TestStandingsAndDelete(t *testing.T) {
	ts := newTestServer(t)
	base := ts.createTournament(t, "swiss", "Alice", "Bob")

	result := ts.submit(t, base, "pair_round", nil)
	require.Len(t, result.Outcome.Rounds, 1)

	rr := ts.request(http.MethodGet, base+"/players/Alice", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	alice := decode[response.Player](t, rr)

	ts.submit(t, base, "record_result", map[string]any{
		"round":  map[string]any{"number": 1},
		"result": map[string]any{"kind": "wins", "player": alice.ID, "games": 2},
	})
	ts.submit(t, base, "confirm_result", map[string]any{"player": map[string]string{"name": "Alice"}})
	ts.submit(t, base, "confirm_result", map[string]any{"player": map[string]string{"name": "Bob"}})

	rr = ts.request(http.MethodGet, base+"/standings", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	standings := decode[model.Standings](t, rr)
	require.Len(t, standings.Entries, 2)
	assert.Equal(t, "Alice", standings.Entries[0].Name)
	assert.Equal(t, 1, standings.Entries[0].Rank)

	rr = ts.request(http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	requireError(t, ts.request(http.MethodGet, base, nil), http.StatusNotFound, apierr.CodeTournamentNotFound)
	requireError(t, ts.request(http.MethodDelete, base, nil), http.StatusNotFound, apierr.CodeTournamentNotFound)
}

func countDecks(all response.AllDecks) int {
	n := 0
	for _, decks := range all.Players {
		n += len(decks)
	}
	return n
}

// streamEvent is one parsed server-sent event
type streamEvent struct {
	id, name, data string
}

func readEvent(t *testing.T, r *bufio.Reader) streamEvent {
	t.Helper()
	var ev streamEvent
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSuffix(line, "\n")
		switch {
		case line == "":
			if ev.name != "" {
				return ev
			}
		case strings.HasPrefix(line, ":"):
			// keepalive
		case strings.HasPrefix(line, "id: "):
			ev.id = strings.TrimPrefix(line, "id: ")
		case strings.HasPrefix(line, "event: "):
			ev.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			ev.data += strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestEventStream(t *testing.T) {
	ts := newTestServer(t)
	base := ts.createTournament(t, "swiss", "Alice")

	server := httptest.NewServer(ts.handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+base+"/events?from=2", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	stream := bufio.NewReader(resp.Body)

	assert.Equal(t, "connected", readEvent(t, stream).name)

	// The backlog starts at the requested seq
	ev := readEvent(t, stream)
	assert.Equal(t, "op", ev.name)
	assert.Equal(t, "2", ev.id)
	var op model.Operation
	require.NoError(t, json.Unmarshal([]byte(ev.data), &op))
	assert.Equal(t, model.KindRegisterPlayer, op.Action.Kind())

	// Live operations follow
	ts.submit(t, base, "register_player", map[string]string{"name": "Bob"})
	ev = readEvent(t, stream)
	assert.Equal(t, "op", ev.name)
	assert.Equal(t, "3", ev.id)

	// A rollback resets the stream position
	rr := ts.request(http.MethodPost, base+"/rollback", map[string]uint64{"to": 1})
	require.Equal(t, http.StatusOK, rr.Code)
	ev = readEvent(t, stream)
	assert.Equal(t, "reset", ev.name)
	assert.JSONEq(t, `{"length":1}`, ev.data)

	ts.submit(t, base, "register_player", map[string]string{"name": "Cara"})
	ev = readEvent(t, stream)
	assert.Equal(t, "op", ev.name)
	assert.Equal(t, "2", ev.id)

	// Deleting the tournament ends the stream
	rr = ts.request(http.MethodDelete, base, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "deleted", readEvent(t, stream).name)
}

func TestEventStreamErrors(t *testing.T) {
	ts := newTestServer(t)
	base := ts.createTournament(t, "swiss")

	missing := "/api/v1/tournaments/" + model.NewTournamentID().String() + "/events"
	requireError(t, ts.request(http.MethodGet, missing, nil), http.StatusNotFound, apierr.CodeTournamentNotFound)
	requireError(t, ts.request(http.MethodGet, base+"/events?from=x", nil), http.StatusBadRequest, apierr.CodeInvalidRequest)

	req := httptest.NewRequest(http.MethodGet, base+"/events", nil)
	req.Header.Set("Last-Event-ID", "nope")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	requireError(t, rr, http.StatusBadRequest, apierr.CodeInvalidRequest)
}
