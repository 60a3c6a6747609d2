package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/consultapp/internal/httperr"
	"github.com/BruksfildServices01/consultapp/internal/validators"
)

// idParam reads a positive numeric path parameter. It writes the 400 itself
// and returns false when the value is unusable.
func idParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return 0, false
	}
	return uint(v), true
}

// queryUint reads an optional numeric query value; empty means 0.
func queryUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_"+name, "Parâmetro inválido: "+name+".")
		return 0, false
	}
	return uint(v), true
}

// fail answers a use-case error. Validation failures keep their field list.
func fail(c *gin.Context, err error, rules map[string]httperr.Rule, fallback string) {
	var verr *validators.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, httperr.HTTPError{
			Code:    "invalid_input",
			Message: "Dados inválidos.",
			Details: verr.Error(),
		})
		return
	}
	httperr.Respond(c, err, rules, fallback)
}
