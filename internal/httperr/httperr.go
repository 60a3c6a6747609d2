package httperr

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// InvalidRequest answers a binding failure and keeps the validator text.
func InvalidRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, HTTPError{
		Code:    "invalid_request",
		Message: "Dados inválidos.",
		Details: err.Error(),
	})
}

// Rule maps a business code to the response written for it.
type Rule struct {
	Status  int
	Message string
}

// Respond writes the rule registered for err's business code. Unknown
// business codes become 400, anything else is logged and becomes 500.
func Respond(c *gin.Context, err error, rules map[string]Rule, fallbackCode string) {
	if code := CodeOf(err); code != "" {
		if rule, ok := rules[code]; ok {
			Write(c, rule.Status, code, rule.Message)
			return
		}
		BadRequest(c, code, "Operação inválida.")
		return
	}

	if IsNotFound(err) {
		NotFound(c, "not_found", "Registro não encontrado.")
		return
	}

	log.Printf("%s: %v", fallbackCode, err)
	Internal(c, fallbackCode, "Erro interno. Tente novamente.")
}
