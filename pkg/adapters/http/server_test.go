package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "enkat/pkg/adapters/http"
	"enkat/pkg/adapters/memory"
	"enkat/pkg/domain"
	"enkat/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSurvey() domain.Survey {
	return domain.Survey{
		"welcome": {
			Message: "Vill du börja?",
			Options: []string{"Ja, jag vill delta", "Nej tack"},
			AnswerNext: map[string]string{
				"ja_jag_vill_delta": "intro",
				"nej_tack":          "early_exit",
			},
		},
		"intro": {
			Message:     "Hur ser din familjesituation ut?",
			DefaultNext: "thank_you",
		},
		"early_exit": {Message: "Tack ändå!", Terminal: true},
		"thank_you":  {Message: "Tack så mycket!", Terminal: true},
	}
}

func newServer(t *testing.T, sink *memory.Sink) *httptest.Server {
	t.Helper()
	provider := memory.NewProvider(testSurvey())
	manager := session.NewManager(memory.NewStore())

	var opts []httpadapter.Option
	if sink != nil {
		opts = append(opts, httpadapter.WithSessionOptions(session.WithSink(sink)))
	}
	ts := httptest.NewServer(httpadapter.NewHandler(provider, manager, opts...))
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestServer_CreateSession(t *testing.T) {
	ts := newServer(t, nil)

	resp := postJSON(t, ts.URL+"/sessions", httpadapter.CreateSessionRequest{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decode[httpadapter.SessionResponse](t, resp)
	assert.NotEmpty(t, created.SessionID)
	assert.Equal(t, "welcome", created.Current)
	assert.Equal(t, domain.StatusAwaitingAnswer, created.Status)
	require.Len(t, created.Messages, 1)
	assert.Equal(t, domain.SpeakerBot, created.Messages[0].Speaker)
}

func TestServer_AnswerFlow(t *testing.T) {
	sink := memory.NewSink()
	ts := newServer(t, sink)

	created := decode[httpadapter.SessionResponse](t,
		postJSON(t, ts.URL+"/sessions", httpadapter.CreateSessionRequest{SessionID: "s1"}))

	resp := postJSON(t, ts.URL+"/sessions/s1/answer", httpadapter.AnswerRequest{Answer: "Nej tack"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	answered := decode[httpadapter.AnswerResponse](t, resp)
	assert.Equal(t, created.SessionID, answered.SessionID)
	assert.Equal(t, domain.StatusTerminal, answered.Status)
	require.Len(t, answered.Appended, 2)
	assert.Equal(t, "Tack ändå!", answered.Appended[1].Text)

	// The response sink saw the answer.
	require.Len(t, sink.Responses(), 1)
	assert.Equal(t, "s1", sink.Responses()[0].SessionID)

	// Answering a terminated session conflicts.
	resp = postJSON(t, ts.URL+"/sessions/s1/answer", httpadapter.AnswerRequest{Answer: "hej"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// The transcript survives across requests.
	getResp, err := http.Get(ts.URL + "/sessions/s1")
	require.NoError(t, err)
	loaded := decode[httpadapter.SessionResponse](t, getResp)
	assert.Len(t, loaded.Messages, 3)
}

func TestServer_MultiSelectAnswer(t *testing.T) {
	ts := newServer(t, nil)

	decode[httpadapter.SessionResponse](t,
		postJSON(t, ts.URL+"/sessions", httpadapter.CreateSessionRequest{SessionID: "s1"}))

	// "Ja, jag vill delta" normalizes to the configured answer key
	// even as a single selection.
	resp := postJSON(t, ts.URL+"/sessions/s1/answer",
		httpadapter.AnswerRequest{Selections: []string{"Ja, jag vill delta"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	answered := decode[httpadapter.AnswerResponse](t, resp)
	assert.Equal(t, "Hur ser din familjesituation ut?", answered.Appended[1].Text)
}

func TestServer_UnknownSession(t *testing.T) {
	ts := newServer(t, nil)

	resp := postJSON(t, ts.URL+"/sessions/ghost/answer", httpadapter.AnswerRequest{Answer: "hej"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	getResp, err := http.Get(ts.URL + "/sessions/ghost")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
	getResp.Body.Close()
}

func TestServer_EmptyAnswerRejected(t *testing.T) {
	ts := newServer(t, nil)

	decode[httpadapter.SessionResponse](t,
		postJSON(t, ts.URL+"/sessions", httpadapter.CreateSessionRequest{SessionID: "s1"}))

	resp := postJSON(t, ts.URL+"/sessions/s1/answer", httpadapter.AnswerRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestServer_Questions(t *testing.T) {
	ts := newServer(t, nil)

	resp, err := http.Get(ts.URL + "/questions")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[map[string][]string](t, resp)
	assert.Equal(t, []string{"early_exit", "intro", "thank_you", "welcome"}, got["questions"])
}

func TestServer_Health(t *testing.T) {
	ts := newServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
