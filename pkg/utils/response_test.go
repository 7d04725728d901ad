package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sharedDomain "github.com/davicafu/clientelab/internal/shared/domain"
)

var errNotFound = sharedDomain.NewCondition("CLIENTE_NOT_FOUND", "Cliente no encontrado")

func respond(t *testing.T, debug bool, err error, status int) (*httptest.ResponseRecorder, map[string]interface{}) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/clientes/1", nil)

	NewErrorResponder(zap.NewNop(), debug).HandleError(c, err, status)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHandleError_Condition(t *testing.T) {
	rec, body := respond(t, false, errNotFound, http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, map[string]interface{}{"message": "Cliente no encontrado"}, body)
}

func TestHandleError_WrappedConditionHidesCause(t *testing.T) {
	failed := sharedDomain.NewCondition("CLIENTE_CREATE_ERROR", "Error al crear el cliente")
	rec, body := respond(t, true, failed.With(errors.New("pq: connection refused")), http.StatusInternalServerError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]interface{}{"message": "Error al crear el cliente"}, body)
}

func TestHandleError_Violations(t *testing.T) {
	v := sharedDomain.Violations{
		sharedDomain.NewCondition("A", "primero"),
		sharedDomain.NewCondition("B", "segundo"),
	}
	rec, body := respond(t, false, v, http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]interface{}{"errors": []interface{}{"primero", "segundo"}}, body)
}

func TestHandleError_OpaqueProduction(t *testing.T) {
	_, body := respond(t, false, errors.New("nil pointer"), http.StatusInternalServerError)

	assert.Equal(t, map[string]interface{}{"message": MsgServerError}, body)
}

func TestHandleError_OpaqueDevelopment(t *testing.T) {
	_, body := respond(t, true, errors.New("nil pointer"), http.StatusInternalServerError)

	assert.Equal(t, MsgServerError, body["message"])
	assert.Equal(t, "nil pointer", body["error"])
}
