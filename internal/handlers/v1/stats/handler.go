package stats

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// LedgerCounter reports account counts from the store.
type LedgerCounter interface {
	Count() (total, active int)
}

// SessionCounter reports live session usage from the arbiter.
type SessionCounter interface {
	SessionCount() (current, ceiling int)
}

// StatsBody is the ops counters response body.
type StatsBody struct {
	AccountsTotal   int `json:"accountsTotal" doc:"Accounts ever created, closed ones included"`
	AccountsActive  int `json:"accountsActive" doc:"Accounts currently open"`
	AccountsClosed  int `json:"accountsClosed" doc:"Accounts retained for audit only"`
	SessionsCurrent int `json:"sessionsCurrent" doc:"Connected client sessions"`
	SessionsMax     int `json:"sessionsMax" doc:"Admission ceiling"`
}

// GetStatsOutput is the Huma output for the stats endpoint.
type GetStatsOutput struct {
	Body StatsBody
}

// Handler serves read-only ledger and session counters. It never mutates
// the store.
type Handler struct {
	Ledger   LedgerCounter
	Sessions SessionCounter
}

// NewHandler creates a new stats Handler.
func NewHandler(ledger LedgerCounter, sessions SessionCounter) *Handler {
	return &Handler{Ledger: ledger, Sessions: sessions}
}

// Register registers the stats endpoint with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/v1/stats",
		Summary:     "Ledger and session counters",
		Description: "Returns account totals and current session usage.",
		Tags:        []string{"Ops"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, _ *struct{}) (*GetStatsOutput, error) {
	total, active := h.Ledger.Count()
	current, ceiling := h.Sessions.SessionCount()
	return &GetStatsOutput{Body: StatsBody{
		AccountsTotal:   total,
		AccountsActive:  active,
		AccountsClosed:  total - active,
		SessionsCurrent: current,
		SessionsMax:     ceiling,
	}}, nil
}
