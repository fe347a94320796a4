package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/seucuidado/internal/audit"
	"github.com/BruksfildServices01/seucuidado/internal/httperr"
	"github.com/BruksfildServices01/seucuidado/internal/session"
)

func writeAudit(
	d *audit.Dispatcher,
	userID uint,
	action string,
	entity string,
	entityID string,
	meta any,
) {
	uid := userID
	d.Dispatch(audit.Event{
		UserID:   &uid,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Metadata: meta,
	})
}

// currentSession is only called behind the auth middleware.
func currentSession(c *gin.Context) session.Session {
	s, _ := session.From(c)
	return s
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Identificador inválido.")
		return 0, false
	}
	return uint(v), true
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
