package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowLifecycle(t *testing.T) {
	e, _ := newTestServer(t)
	_, _, aliceID := registerUser(t, e, "alice@example.com", "Alice", "pw")
	bobToken, _, bobID := registerUser(t, e, "bob@example.com", "Bob", "pw")

	followPath := fmt.Sprintf("/users/%d/follow", aliceID)
	rec := doJSON(e, http.MethodPost, followPath, "", bobToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Following twice changes nothing.
	rec = doJSON(e, http.MethodPost, followPath, "", bobToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/users/%d/followers", aliceID), "", bobToken)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["count"])
	followers := body["followers"].([]any)
	require.Len(t, followers, 1)
	follower := followers[0].(map[string]any)
	assert.Equal(t, "Bob", follower["fullName"])
	// Public projection only.
	assert.NotContains(t, follower, "passwordHash")
	assert.NotContains(t, follower, "role")

	// The reverse view: Bob's following list contains Alice.
	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/users/%d/following", bobID), "", bobToken)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, float64(1), body["count"])
	following := body["following"].([]any)
	require.Len(t, following, 1)
	assert.Equal(t, "Alice", following[0].(map[string]any)["fullName"])

	rec = doJSON(e, http.MethodPost, fmt.Sprintf("/users/%d/unfollow", aliceID), "", bobToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, fmt.Sprintf("/users/%d/followers", aliceID), "", bobToken)
	body = decode(t, rec)
	assert.Equal(t, float64(0), body["count"])
}

func TestFollow_SelfAndUnknownTarget(t *testing.T) {
	e, _ := newTestServer(t)
	token, _, id := registerUser(t, e, "solo@example.com", "Solo", "pw")

	rec := doJSON(e, http.MethodPost, fmt.Sprintf("/users/%d/follow", id), "", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/users/9999/follow", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodPost, "/users/not-a-number/follow", "", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodGet, "/users/9999/following", "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListUsers_RequiresTokenAndHidesHashes(t *testing.T) {
	e, _ := newTestServer(t)
	token, _, _ := registerUser(t, e, "a@example.com", "A", "pw")
	registerUser(t, e, "b@example.com", "B", "pw")

	rec := doJSON(e, http.MethodGet, "/users", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, "/users", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["users"].([]any), 2)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestUpdateRole(t *testing.T) {
	e, _ := newTestServer(t)
	token, _, id := registerUser(t, e, "promote@example.com", "Promotee", "pw")

	rec := doJSON(e, http.MethodPatch, fmt.Sprintf("/users/%d/role", id),
		`{"email":"promote@example.com","role":"artist"}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, "artist", user["role"])
	assert.Equal(t, "Promotee", user["fullName"])

	rec = doJSON(e, http.MethodPatch, fmt.Sprintf("/users/%d/role", id),
		`{"email":"promote@example.com","role":"superuser"}`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPatch, fmt.Sprintf("/users/%d/role", id),
		`{"email":"ghost@example.com","role":"artist"}`, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
