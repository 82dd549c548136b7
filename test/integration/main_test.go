package integration_test

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// decode разбирает JSON ответа в map
func decode(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &out), body)
	return out
}

func num(t *testing.T, m map[string]interface{}, key string) int64 {
	t.Helper()
	v, ok := m[key].(float64)
	require.True(t, ok, "поле %s должно быть числом: %v", key, m)
	return int64(v)
}

func errorCode(t *testing.T, body string) string {
	t.Helper()
	errObj, ok := decode(t, body)["error"].(map[string]interface{})
	require.True(t, ok, body)
	code, _ := errObj["code"].(string)
	return code
}
