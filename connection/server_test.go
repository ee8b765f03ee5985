package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpexchange/config"
	"helpexchange/store"
)

type api struct {
	t      *testing.T
	router *gin.Engine
	store  *store.Memory
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Env:   config.EnvLocal,
		Store: config.StoreMemory,
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			Issuer:         "helpexchange",
			AccessTokenTTL: time.Hour,
		},
	}
	mem := store.NewMemory()
	return &api{t: t, router: NewRouter(cfg, mem, zerolog.Nop()), store: mem}
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// register signs a user up, signs them in and saves a profile location.
func (a *api) register(email, nickname string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/auth/signup", "", gin.H{"email": email, "password": "password123", "nickname": nickname})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/auth/signin", "", gin.H{"email": email, "password": "password123"})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[struct {
		Token struct {
			AccessToken string `json:"accessToken"`
		} `json:"token"`
	}](a.t, w)
	token := resp.Token.AccessToken
	require.NotEmpty(a.t, token)

	w = a.do(http.MethodPut, "/user/profile", token, gin.H{"address": "1 Main St", "zipcode": "10001", "country": "US"})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return token
}

func (a *api) createTask(token, detail, reward string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/task", token, gin.H{"detail": detail, "reward": reward})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[struct {
		TaskID string `json:"taskID"`
	}](a.t, w).TaskID
}

type pageResponse struct {
	Items []struct {
		Key           string `json:"key"`
		Status        string `json:"status"`
		OwnerNickname string `json:"ownerNickname"`
	} `json:"items"`
	Count      int  `json:"currentTaskCount"`
	EndOfQuery bool `json:"endOfQuery"`
}

func TestRequiresToken(t *testing.T) {
	a := newAPI(t)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/feed", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/feed", "garbage", nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/", "", nil).Code)
}

func TestSignin_WrongPassword(t *testing.T) {
	a := newAPI(t)
	a.register("ann@example.com", "Ann")

	w := a.do(http.MethodPost, "/auth/signin", "", gin.H{"email": "ann@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/auth/signup", "", gin.H{"email": "ANN@example.com", "password": "password123", "nickname": "Other"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	a := newAPI(t)
	owner := a.register("ann@example.com", "Ann")
	helper := a.register("bo@example.com", "Bo")

	taskID := a.createTask(owner, "rake the leaves", "50")

	w := a.do(http.MethodGet, "/feed", helper, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	page := decode[pageResponse](t, w)
	require.Len(t, page.Items, 1)
	assert.Equal(t, taskID, page.Items[0].Key)
	assert.Equal(t, "Ann", page.Items[0].OwnerNickname)
	assert.True(t, page.EndOfQuery)

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/task/"+taskID+"/accept", owner, nil).Code)
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/task/"+taskID+"/accept", helper, nil).Code)
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/task/"+taskID+"/complete", helper, nil).Code)

	w = a.do(http.MethodGet, "/notifications", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	notes := decode[struct {
		Notifications []struct {
			TaskID   string `json:"taskId"`
			Count    int    `json:"count"`
			Overview string `json:"overview"`
		} `json:"notifications"`
	}](t, w)
	require.Len(t, notes.Notifications, 1)
	assert.Equal(t, 2, notes.Notifications[0].Count)
	assert.Equal(t, "rake the leaves", notes.Notifications[0].Overview)

	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/task/"+taskID+"/verify", owner, nil).Code)
	assert.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/task/"+taskID+"/verify", owner, nil).Code)

	w = a.do(http.MethodGet, "/user/profile", helper, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 50, decode[struct {
		Points int `json:"points"`
	}](t, w).Points)

	// Reading the task consumes the reader's notifications for it.
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/task/"+taskID, owner, nil).Code)
	w = a.do(http.MethodGet, "/notifications", owner, nil)
	assert.JSONEq(t, `{"notifications":[]}`, w.Body.String())

	w = a.do(http.MethodGet, "/tasks/mine?role=helper&completed=true", helper, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	mine := decode[pageResponse](t, w)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, "COMPLETE", mine.Items[0].Status)
}

func TestFeedPagination(t *testing.T) {
	a := newAPI(t)
	owner := a.register("ann@example.com", "Ann")
	reader := a.register("bo@example.com", "Bo")
	for i := 0; i < 15; i++ {
		a.createTask(owner, fmt.Sprintf("task %d", i), "1")
	}

	first := decode[pageResponse](t, a.do(http.MethodGet, "/feed", reader, nil))
	assert.Equal(t, 10, first.Count)
	assert.False(t, first.EndOfQuery)

	second := decode[pageResponse](t, a.do(http.MethodGet, "/feed?action=end", reader, nil))
	assert.Equal(t, 5, second.Count)
	assert.True(t, second.EndOfQuery)
	assert.NotEqual(t, first.Items[0].Key, second.Items[0].Key)

	replay := decode[pageResponse](t, a.do(http.MethodGet, "/feed?action=start", reader, nil))
	assert.Equal(t, second.Items, replay.Items)

	restart := decode[pageResponse](t, a.do(http.MethodGet, "/feed?action=clear", reader, nil))
	assert.Equal(t, first.Items, restart.Items)
}

func TestErrorMapping(t *testing.T) {
	a := newAPI(t)
	owner := a.register("ann@example.com", "Ann")
	taskID := a.createTask(owner, "paint the shed", "10")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown action", http.MethodGet, "/feed?action=sideways", nil, http.StatusBadRequest},
		{"partial location", http.MethodGet, "/feed?zipcode=10001", nil, http.StatusBadRequest},
		{"unknown role", http.MethodGet, "/tasks/mine?role=boss", nil, http.StatusBadRequest},
		{"missing role", http.MethodGet, "/tasks/mine", nil, http.StatusBadRequest},
		{"reward too high", http.MethodPost, "/task", gin.H{"detail": "x", "reward": "201"}, http.StatusUnprocessableEntity},
		{"reward not a number", http.MethodPut, "/task/" + taskID, gin.H{"reward": "abc"}, http.StatusUnprocessableEntity},
		{"missing detail", http.MethodPost, "/task", gin.H{"reward": "1"}, http.StatusBadRequest},
		{"missing task", http.MethodGet, "/task/nope", nil, http.StatusNotFound},
		{"complete open task", http.MethodPost, "/task/" + taskID + "/complete", nil, http.StatusConflict},
		{"verify open task", http.MethodPost, "/task/" + taskID + "/verify", nil, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(tt.method, tt.path, owner, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	stored, err := a.store.GetTask(context.Background(), taskID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Reward)
}

func TestMessages(t *testing.T) {
	a := newAPI(t)
	owner := a.register("ann@example.com", "Ann")
	helper := a.register("bo@example.com", "Bo")
	taskID := a.createTask(owner, "carry boxes", "5")
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/task/"+taskID+"/accept", helper, nil).Code)

	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/task/"+taskID+"/messages", helper, gin.H{"body": "tomorrow at 9?"}).Code)
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/task/"+taskID+"/messages", owner, gin.H{"body": "works"}).Code)

	w := a.do(http.MethodGet, "/task/"+taskID+"/messages", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	msgs := decode[struct {
		Messages []struct {
			Sender string `json:"sender"`
			Body   string `json:"body"`
		} `json:"messages"`
	}](t, w)
	require.Len(t, msgs.Messages, 2)
	assert.Equal(t, "tomorrow at 9?", msgs.Messages[0].Body)
	assert.Equal(t, "works", msgs.Messages[1].Body)
}
