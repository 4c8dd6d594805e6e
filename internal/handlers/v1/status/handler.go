package status

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// StatusBody is the liveness response body.
type StatusBody struct {
	Status string `json:"status" doc:"Always \"ok\" while the process is serving"`
}

// GetStatusOutput is the Huma output for the liveness check.
type GetStatusOutput struct {
	Body StatusBody
}

// Handler serves the liveness check.
type Handler struct{}

// NewHandler creates a new status Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Register registers the status endpoint with the Huma API.
func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/status",
		Summary:     "Liveness check",
		Description: "Reports that the process is up and serving.",
		Tags:        []string{"Ops"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, _ *struct{}) (*GetStatusOutput, error) {
	return &GetStatusOutput{Body: StatusBody{Status: "ok"}}, nil
}
