package status

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
)

func TestHTTP_GetStatus(t *testing.T) {
	_, api := humatest.New(t)
	NewHandler().Register(api)

	resp := api.Get("/status")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body StatusBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
}
