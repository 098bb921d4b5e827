package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/doctor-scheduler/internal/audit"
	"github.com/BruksfildServices01/doctor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/doctor-scheduler/internal/middleware"
)

// writeAudit registra a ação do usuário autenticado; o envio é assíncrono.
func writeAudit(
	d *audit.Dispatcher,
	c *gin.Context,
	action string,
	entity string,
	entityID string,
	meta any,
) {
	actor, _ := middleware.UserID(c)
	d.Dispatch(audit.Event{
		ActorID:  actor,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Metadata: meta,
	})
}

// callerID aborta com 401 quando a rota não passou pelo AuthMiddleware.
func callerID(c *gin.Context) (string, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		httperr.Respond(c, httperr.ErrUnauthorized("user_not_in_context"))
	}
	return id, ok
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return false
	}
	return true
}
