package handler

import (
	"github.com/amoylab/sdctrack/internal/common/errorx"
	"github.com/amoylab/sdctrack/internal/entity"
	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

// Login checks a username and plaintext password and returns the profile.
// Unknown users and wrong passwords get the same response.
func (h *Handler) Login(c *gin.Context) {
	body, ok := h.readObject(c)
	if !ok {
		return
	}
	username := gjson.GetBytes(body, "username")
	password := gjson.GetBytes(body, "password")
	if username.Type != gjson.String || password.Type != gjson.String {
		h.resp.Error(c, errorx.ErrCredentialsRequired)
		return
	}

	user, found, err := h.findByUsername(c, username.String())
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if !found || user.Password != password.String() {
		h.resp.Error(c, errorx.ErrInvalidCredentials)
		return
	}

	h.resp.OK(c, user.Profile())
}

func (h *Handler) findByUsername(c *gin.Context, username string) (entity.User, bool, error) {
	matches, err := h.cols.Users.Filter(c.Request.Context(), func(u entity.User) bool {
		return u.Username == username
	})
	if err != nil || len(matches) == 0 {
		return entity.User{}, false, err
	}
	return matches[0], true, nil
}
