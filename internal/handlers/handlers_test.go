package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-music/melodia-backend/internal/models"
)

func TestCheckUpdatePermission(t *testing.T) {
	const (
		alice = "64b000000000000000000001"
		bob   = "64b000000000000000000002"
	)

	tests := []struct {
		name       string
		callerRole string
		callerID   string
		targetID   string
		fields     map[string]string
		want       string
	}{
		{
			name:       "user updates own name and email",
			callerRole: models.RoleUser,
			callerID:   alice, targetID: alice,
			fields: map[string]string{"name": "Alice", "email": "alice@x.com"},
			want:   "",
		},
		{
			name:       "user changes own password",
			callerRole: models.RoleUser,
			callerID:   alice, targetID: alice,
			fields: map[string]string{"oldPassword": "a", "newPassword": "b", "confirmPassword": "b"},
			want:   "",
		},
		{
			name:       "user cannot touch role",
			callerRole: models.RoleUser,
			callerID:   alice, targetID: alice,
			fields: map[string]string{"role": "admin"},
			want:   "You are not allowed to update the field: role",
		},
		{
			name:       "user cannot update someone else",
			callerRole: models.RoleUser,
			callerID:   alice, targetID: bob,
			fields: map[string]string{"name": "Bob"},
			want:   "You can only update your own profile",
		},
		{
			name:       "admin promotes another user",
			callerRole: models.RoleAdmin,
			callerID:   alice, targetID: bob,
			fields: map[string]string{"role": "admin"},
			want:   "",
		},
		{
			name:       "admin cannot edit profile fields",
			callerRole: models.RoleAdmin,
			callerID:   alice, targetID: bob,
			fields: map[string]string{"name": "Bob"},
			want:   "You are not allowed to update the field: name",
		},
		{
			name:       "guest cannot update anyone",
			callerRole: models.RoleGuest,
			callerID:   "", targetID: bob,
			fields: map[string]string{"name": "Bob"},
			want:   "You do not have permission to update users",
		},
		{
			name:       "empty field set on own profile is allowed",
			callerRole: models.RoleUser,
			callerID:   alice, targetID: alice,
			fields: map[string]string{},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkUpdatePermission(tt.callerRole, tt.callerID, tt.targetID, tt.fields)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSongTypeFromResource(t *testing.T) {
	tests := []struct {
		resourceType string
		format       string
		want         string
	}{
		{"video", "mp4", models.SongTypeVideo},
		{"video", "webm", models.SongTypeVideo},
		{"video", "mkv", models.SongTypeVideo},
		{"video", "mp3", models.SongTypeAudio},
		{"video", "wav", models.SongTypeAudio},
		{"video", "", models.SongTypeAudio},
		{"raw", "mp4", models.SongTypeAudio},
		{"image", "png", models.SongTypeAudio},
		{"", "", models.SongTypeAudio},
	}

	for _, tt := range tests {
		got := songTypeFromResource(tt.resourceType, tt.format)
		assert.Equal(t, tt.want, got, "resourceType=%q format=%q", tt.resourceType, tt.format)
	}
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, "mp3", formatOf("track.mp3"))
	assert.Equal(t, "mp4", formatOf("Clip.MP4"))
	assert.Equal(t, "webm", formatOf("/tmp/a.b/video.webm"))
	assert.Empty(t, formatOf("noextension"))
	assert.Empty(t, formatOf(""))
}

func TestHashResetToken(t *testing.T) {
	first := hashResetToken("some-random-token")
	second := hashResetToken("some-random-token")

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, hashResetToken("other-token"))
	// Known vector so the hash function cannot silently change.
	assert.Equal(t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		hashResetToken("hello"))
}

func TestFail(t *testing.T) {
	rec := httptest.NewRecorder()
	fail(rec, http.StatusNotFound, "User not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "User not found", body["message"])
}

func TestFailValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	failValidation(rec, map[string]string{"email": "Email is required"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Validation failed", body.Message)
	assert.Equal(t, "Email is required", body.Errors["email"])
}

func TestInternalError(t *testing.T) {
	rec := httptest.NewRecorder()
	internalError(rec)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong, please try again")
}

func TestPagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/songs?page=3&limit=25", nil)
	page, limit := pagination(req, 10)
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, limit)

	req = httptest.NewRequest(http.MethodGet, "/api/songs", nil)
	page, limit = pagination(req, 10)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	req = httptest.NewRequest(http.MethodGet, "/api/songs?page=-2&limit=0", nil)
	page, limit = pagination(req, 10)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)
}

func TestListResponse(t *testing.T) {
	resp := listResponse([]string{"a", "b"}, 11, 2, 5)

	assert.Equal(t, true, resp["success"])
	assert.Equal(t, int64(11), resp["total"])
	assert.Equal(t, 2, resp["page"])
	assert.EqualValues(t, 3, resp["totalPages"])
}
