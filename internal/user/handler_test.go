package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"bookhub/pkg/models"
)

func putJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleReplaceRolesEmptyVsMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	u, err := Create(db, models.User{Email: "ada@example.com", Username: "ada"}, "s3cretpass")
	require.NoError(t, err)
	require.NoError(t, ReplaceRoles(db, u.ID, []string{"role-admin", "role-editor"}))

	r := gin.New()
	r.PUT("/api/admin/users/:id/roles", func(c *gin.Context) { HandleReplaceRoles(c, db) })

	// a literal empty array is a valid assignment and strips every role
	w := putJSON(t, r, "/api/admin/users/"+u.ID+"/roles", gin.H{"role_ids": []string{}})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool          `json:"success"`
		Roles   []models.Role `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Empty(t, resp.Roles)

	roles, err := RolesForUser(db, u.ID)
	require.NoError(t, err)
	require.Empty(t, roles)

	// omitting role_ids entirely is a 400, not an implicit strip
	require.NoError(t, ReplaceRoles(db, u.ID, []string{"role-admin"}))
	w = putJSON(t, r, "/api/admin/users/"+u.ID+"/roles", gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	roles, err = RolesForUser(db, u.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
}

func TestHandleReplaceRolesUnknownUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	r := gin.New()
	r.PUT("/api/admin/users/:id/roles", func(c *gin.Context) { HandleReplaceRoles(c, db) })

	w := putJSON(t, r, "/api/admin/users/user-missing/roles", gin.H{"role_ids": []string{"role-admin"}})
	require.Equal(t, http.StatusNotFound, w.Code)
}
