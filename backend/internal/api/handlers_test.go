package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"familymap/backend/internal/constants"
	"familymap/backend/internal/datacache"
	"familymap/backend/internal/fixture"
	"familymap/backend/internal/model"
	"familymap/backend/internal/session"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	source, err := fixture.Load("../fixture/testdata/family.json")
	require.NoError(t, err)

	manager := session.NewManager(source, datacache.NewColorTable(constants.DefaultPaletteSize), time.Second, zap.NewNop())
	return NewRouter(NewHandler(manager, zap.NewNop()))
}

func doRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func login(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	w := doRequest(router, http.MethodPost, "/api/sessions", map[string]string{"username": username})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode[struct {
		SessionID string `json:"session_id"`
		PersonID  string `json:"person_id"`
	}](t, w)
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

type eventsResponse struct {
	Events []model.Event `json:"events"`
}

type peopleResponse struct {
	People []model.Person `json:"people"`
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestLogin(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/sessions", map[string]string{"username": "sheila"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"person_id":"sheila_parker"`)
}

func TestLogin_Errors(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name     string
		body     any
		wantCode int
	}{
		{name: "missing body", body: nil, wantCode: http.StatusBadRequest},
		{name: "blank username", body: map[string]string{"username": "   "}, wantCode: http.StatusBadRequest},
		{name: "unknown user", body: map[string]string{"username": "nobody"}, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/api/sessions", tt.body)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
		})
	}
}

func TestUnknownSession(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/sessions/nope/people", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListPeople_OnlyTheUsersData(t *testing.T) {
	router := newTestRouter(t)
	id := login(t, router, "sheila")

	w := doRequest(router, http.MethodGet, "/api/sessions/"+id+"/people", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[peopleResponse](t, w)
	ids := []string{}
	for _, p := range resp.People {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"betty_white", "blaine_mcgary", "davis_hyer", "sheila_parker"}, ids)
}

func TestVisibleEvents_FollowEventFilters(t *testing.T) {
	router := newTestRouter(t)
	id := login(t, router, "sheila")
	base := "/api/sessions/" + id

	w := doRequest(router, http.MethodGet, base+"/visible/events", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[eventsResponse](t, w).Events, 6)

	w = doRequest(router, http.MethodPut, base+"/filters/events/father", map[string]bool{"enabled": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), `"father"`)

	w = doRequest(router, http.MethodGet, base+"/visible/events", nil)
	events := decode[eventsResponse](t, w).Events
	assert.Len(t, events, 5)
	for _, e := range events {
		assert.NotEqual(t, "blaine_mcgary", e.PersonID)
	}

	w = doRequest(router, http.MethodGet, base+"/updates", nil)
	assert.JSONEq(t, `{"events_up_to_date": false, "lines_up_to_date": true}`, w.Body.String())

	w = doRequest(router, http.MethodPost, base+"/updates/ack", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, base+"/updates", nil)
	assert.JSONEq(t, `{"events_up_to_date": true, "lines_up_to_date": true}`, w.Body.String())
}

func TestSetFilter_BadRequests(t *testing.T) {
	router := newTestRouter(t)
	id := login(t, router, "sheila")
	base := "/api/sessions/" + id

	w := doRequest(router, http.MethodPut, base+"/filters/events/cousins", map[string]bool{"enabled": false})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPut, base+"/filters/lines/male", map[string]bool{"enabled": false})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPut, base+"/filters/events/male", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch(t *testing.T) {
	router := newTestRouter(t)
	id := login(t, router, "sheila")
	base := "/api/sessions/" + id

	w := doRequest(router, http.MethodGet, base+"/search/people?q=SHEI", nil)
	require.Equal(t, http.StatusOK, w.Code)
	people := decode[peopleResponse](t, w).People
	require.Len(t, people, 1)
	assert.Equal(t, "sheila_parker", people[0].ID)

	w = doRequest(router, http.MethodGet, base+"/search/events?q=united", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[eventsResponse](t, w).Events, 1)

	w = doRequest(router, http.MethodGet, base+"/search/events?q=", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[eventsResponse](t, w).Events)

	w = doRequest(router, http.MethodGet, base+"/search/people", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPersonViews(t *testing.T) {
	router := newTestRouter(t)
	id := login(t, router, "sheila")
	base := "/api/sessions/" + id + "/people/sheila_parker"

	w := doRequest(router, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"full_name":"Sheila Parker"`)

	w = doRequest(router, http.MethodGet, base+"/timeline", nil)
	require.Equal(t, http.StatusOK, w.Code)
	timeline := decode[eventsResponse](t, w).Events
	require.Len(t, timeline, 3)
	assert.Equal(t, "sheila_birth", timeline[0].ID)
	assert.Equal(t, "sheila_death", timeline[2].ID)

	w = doRequest(router, http.MethodGet, base+"/family", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[peopleResponse](t, w).People, 3)

	w = doRequest(router, http.MethodGet, base+"/ancestors", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[peopleResponse](t, w).People, 2)

	w = doRequest(router, http.MethodGet, "/api/sessions/"+id+"/people/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventLines(t *testing.T) {
	router := newTestRouter(t)
	id := login(t, router, "sheila")
	base := "/api/sessions/" + id

	w := doRequest(router, http.MethodGet, base+"/events/sheila_birth/lines", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[struct {
		Lines []datacache.Line `json:"lines"`
	}](t, w)
	kinds := map[string]int{}
	for _, l := range resp.Lines {
		kinds[l.Kind]++
	}
	assert.Equal(t, map[string]int{
		constants.LineLifeStory:  2,
		constants.LineFamilyTree: 2,
		constants.LineSpouse:     1,
	}, kinds)

	w = doRequest(router, http.MethodGet, base+"/events/patrick_birth/lines", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLogout(t *testing.T) {
	router := newTestRouter(t)
	id := login(t, router, "sheila")

	w := doRequest(router, http.MethodDelete, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(router, http.MethodGet, "/api/sessions/"+id+"/filters", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodDelete, "/api/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestColor(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/colors/Birth", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"label": "Birth", "color": "color1"}`, w.Body.String())

	w = doRequest(router, http.MethodGet, "/api/colors/birth", nil)
	assert.Contains(t, w.Body.String(), `"color":"color1"`)
}
