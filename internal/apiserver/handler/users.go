package handler

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/amoylab/sdctrack/internal/apiserver/middleware"
	"github.com/amoylab/sdctrack/internal/common/errorx"
	"github.com/amoylab/sdctrack/internal/entity"
	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

// canSee reports whether caller may see target. Level 3 sees everyone,
// Level 2 sees itself and Level 1 users, Level 1 sees only itself.
func canSee(caller, target entity.User) bool {
	if caller.ID == target.ID {
		return true
	}
	switch caller.Role {
	case entity.RoleLevel3:
		return true
	case entity.RoleLevel2:
		return target.Role == entity.RoleLevel1
	default:
		return false
	}
}

// visible applies canSee for identified callers. Anonymous callers see
// everyone only when enforcement is off.
func (h *Handler) visible(c *gin.Context, target entity.User) bool {
	caller, ok := middleware.Caller(c)
	if !ok {
		return !h.enforce
	}
	return canSee(caller, target)
}

// usernameTaken reports whether another user already has username
func (h *Handler) usernameTaken(c *gin.Context, username, exceptID string) (bool, error) {
	u, found, err := h.findByUsername(c, username)
	if err != nil || !found {
		return false, err
	}
	return u.ID != exceptID, nil
}

// ListUsers returns the users visible to the caller, without passwords
func (h *Handler) ListUsers(c *gin.Context) {
	if _, ok := h.authorize(c, entity.RoleLevel1); !ok {
		return
	}
	users, err := h.cols.Users.Filter(c.Request.Context(), func(u entity.User) bool {
		return h.visible(c, u)
	})
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.OK(c, items(entity.Profiles(users)))
}

// GetUser returns one user profile. Users outside the caller's visibility
// are reported as not found.
func (h *Handler) GetUser(c *gin.Context) {
	if _, ok := h.authorize(c, entity.RoleLevel1); !ok {
		return
	}
	user, found, err := h.cols.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if !found || !h.visible(c, user) {
		h.resp.Error(c, errorx.ErrUserNotFound)
		return
	}
	h.resp.OK(c, user.Profile())
}

// CreateUser adds an account. Level 2 callers may only create Level 1 users.
func (h *Handler) CreateUser(c *gin.Context) {
	caller, ok := h.authorize(c, entity.RoleLevel2)
	if !ok {
		return
	}
	body, ok := h.readObject(c)
	if !ok {
		return
	}

	username := gjson.GetBytes(body, "username")
	password := gjson.GetBytes(body, "password")
	role := gjson.GetBytes(body, "role")
	if username.Type != gjson.String || password.Type != gjson.String || role.Type != gjson.String {
		h.resp.Error(c, errorx.ErrUserFieldsRequired)
		return
	}
	newRole := entity.Role(role.String())
	if !newRole.Valid() {
		h.resp.Error(c, errorx.ErrInvalidRole)
		return
	}
	if h.enforce && caller.Role == entity.RoleLevel2 && newRole != entity.RoleLevel1 {
		h.resp.Error(c, errorx.ErrForbidden)
		return
	}

	name := strings.TrimSpace(username.String())
	taken, err := h.usernameTaken(c, name, "")
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if taken {
		h.resp.Error(c, errorx.ErrUsernameExists)
		return
	}

	user, err := h.cols.Users.New(body)
	if err != nil {
		h.fail(c, err, errorx.ErrUserNotFound)
		return
	}
	user.Username = name
	user.Role = newRole
	user.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	created, err := h.cols.Users.Create(c.Request.Context(), user)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.OK(c, created.Profile())
}

// UpdateUser changes username, role or password. Everyone may edit their
// own profile; editing someone else needs Level 2 and visibility. Role
// changes need Level 3 and username changes need Level 2.
func (h *Handler) UpdateUser(c *gin.Context) {
	caller, ok := h.authorize(c, entity.RoleLevel1)
	if !ok {
		return
	}
	body, ok := h.readObject(c)
	if !ok {
		return
	}

	id := c.Param("id")
	target, found, err := h.cols.Users.Get(c.Request.Context(), id)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if !found || !h.visible(c, target) {
		h.resp.Error(c, errorx.ErrUserNotFound)
		return
	}
	if h.enforce && caller.ID != id && !caller.Role.AtLeast(entity.RoleLevel2) {
		h.resp.Error(c, errorx.ErrForbidden)
		return
	}

	updates := map[string]any{}

	if v := gjson.GetBytes(body, "username"); v.Type == gjson.String {
		name := strings.TrimSpace(v.String())
		if name != target.Username {
			if h.enforce && !caller.Role.AtLeast(entity.RoleLevel2) {
				h.resp.Error(c, errorx.ErrUsernameChangeForbidden)
				return
			}
			taken, err := h.usernameTaken(c, name, id)
			if err != nil {
				h.resp.Error(c, err)
				return
			}
			if taken {
				h.resp.Error(c, errorx.ErrUsernameExists)
				return
			}
			updates["username"] = name
		}
	}

	if v := gjson.GetBytes(body, "role"); v.Type == gjson.String {
		newRole := entity.Role(v.String())
		if !newRole.Valid() {
			h.resp.Error(c, errorx.ErrInvalidRole)
			return
		}
		if newRole != target.Role {
			if id == entity.SuperAdminID || (h.enforce && caller.Role != entity.RoleLevel3) {
				h.resp.Error(c, errorx.ErrRoleChangeForbidden)
				return
			}
			updates["role"] = newRole
		}
	}

	if v := gjson.GetBytes(body, "password"); v.Type == gjson.String && v.String() != "" {
		updates["password"] = v.String()
	}

	patch, err := json.Marshal(updates)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	updated, err := h.cols.Users.Patch(c.Request.Context(), id, patch)
	if err != nil {
		h.fail(c, err, errorx.ErrUserNotFound)
		return
	}
	h.resp.OK(c, updated.Profile())
}

// DeleteUser removes an account. The super admin can never be deleted and
// callers cannot delete themselves.
func (h *Handler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == entity.SuperAdminID {
		h.resp.Error(c, errorx.ErrSuperAdminDelete)
		return
	}
	caller, ok := h.authorize(c, entity.RoleLevel2)
	if !ok {
		return
	}

	target, found, err := h.cols.Users.Get(c.Request.Context(), id)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if !found || !h.visible(c, target) {
		h.resp.Error(c, errorx.ErrUserNotFound)
		return
	}
	if h.enforce && caller.ID == id {
		h.resp.Error(c, errorx.ErrForbidden)
		return
	}

	deleted, err := h.cols.Users.Delete(c.Request.Context(), id)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if !deleted {
		h.resp.Error(c, errorx.ErrUserNotFound)
		return
	}
	h.resp.OK(c, gin.H{"id": id, "deleted": true})
}
