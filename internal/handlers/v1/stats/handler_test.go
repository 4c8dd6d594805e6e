package stats

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
)

type fakeLedger struct{ total, active int }

func (f fakeLedger) Count() (int, int) { return f.total, f.active }

type fakeSessions struct{ current, ceiling int }

func (f fakeSessions) SessionCount() (int, int) { return f.current, f.ceiling }

func TestHTTP_GetStats(t *testing.T) {
	_, api := humatest.New(t)
	NewHandler(fakeLedger{total: 7, active: 5}, fakeSessions{current: 2, ceiling: 5}).Register(api)

	resp := api.Get("/v1/stats")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body StatsBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 7, body.AccountsTotal)
	assert.Equal(t, 5, body.AccountsActive)
	assert.Equal(t, 2, body.AccountsClosed)
	assert.Equal(t, 2, body.SessionsCurrent)
	assert.Equal(t, 5, body.SessionsMax)
}

func TestHTTP_GetStats_EmptyLedger(t *testing.T) {
	_, api := humatest.New(t)
	NewHandler(fakeLedger{}, fakeSessions{ceiling: 5}).Register(api)

	resp := api.Get("/v1/stats")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body StatsBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Zero(t, body.AccountsTotal)
	assert.Zero(t, body.SessionsCurrent)
	assert.Equal(t, 5, body.SessionsMax)
}
