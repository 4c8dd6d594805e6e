package server

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/bank-server/internal/logging"
	"github.com/carson-networks/bank-server/internal/service"
	"github.com/carson-networks/bank-server/internal/storage"
	"github.com/carson-networks/bank-server/internal/wire"
)

// handleSession runs one connection's receive → process → respond loop until
// the client disconnects, the frame stream breaks, or the server shuts down.
func (s *Server) handleSession(conn net.Conn) {
	defer conn.Close()
	s.track(conn)
	defer s.untrack(conn)

	s.sessions.Add(1)
	defer s.sessions.Add(-1)

	sessionID := uuid.Must(uuid.NewV4()).String()
	sessionLog := s.Logger.WithFields(map[string]interface{}{
		"session": sessionID,
		"remote":  conn.RemoteAddr().String(),
	})
	sessionLog.Info("Session.Connected")

	for {
		req, err := wire.ReadRequest(conn)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				sessionLog.Info("Session.Disconnected")
			} else {
				sessionLog.WithError(err).Warn("Session.ReadError")
			}
			return
		}

		var resp wire.Response
		err = logging.RequestWrapper(req.Kind.String(), s.Logger, func(logData *logging.LogData) error {
			logData.AddData("session", sessionID)
			if req.AccountNumber != "" {
				logData.AddData("account", req.AccountNumber)
			}
			resp = s.dispatch(context.Background(), req)
			logData.AddData("success", resp.Success)
			return nil
		})
		if err != nil {
			return
		}

		if err := wire.WriteResponse(conn, resp); err != nil {
			sessionLog.WithError(err).Warn("Session.WriteError")
			return
		}
	}
}

// dispatch routes one decoded request to the service layer and folds the
// result or the typed rejection into a response frame.
func (s *Server) dispatch(ctx context.Context, req wire.Request) wire.Response {
	switch req.Kind {
	case wire.KindOpenAccount:
		result, err := s.Service.Account.Open(ctx, req.Name, req.NationalID, storage.AccountType(req.AccountType), req.Amount)
		if err != nil {
			return failure(err, s)
		}
		return wire.Response{
			Success:       true,
			Message:       result.Message,
			AccountNumber: result.AccountNumber,
			PIN:           result.PIN,
			Balance:       result.Balance,
		}

	case wire.KindCloseAccount:
		result, err := s.Service.Account.Close(ctx, req.AccountNumber, req.PIN)
		if err != nil {
			return failure(err, s)
		}
		return wire.Response{Success: true, Message: result.Message, Balance: result.FinalBalance}

	case wire.KindWithdraw:
		result, err := s.Service.Teller.Withdraw(ctx, req.AccountNumber, req.PIN, req.Amount)
		if err != nil {
			return failure(err, s)
		}
		return wire.Response{Success: true, Message: result.Message, Balance: result.Balance}

	case wire.KindDeposit:
		result, err := s.Service.Teller.Deposit(ctx, req.AccountNumber, req.PIN, req.Amount)
		if err != nil {
			return failure(err, s)
		}
		return wire.Response{Success: true, Message: result.Message, Balance: result.Balance}

	case wire.KindCheckBalance:
		result, err := s.Service.Teller.Balance(ctx, req.AccountNumber, req.PIN)
		if err != nil {
			return failure(err, s)
		}
		return wire.Response{Success: true, Message: result.Message, Balance: result.Balance}

	case wire.KindGetStatement:
		result, err := s.Service.Teller.Statement(ctx, req.AccountNumber, req.PIN)
		if err != nil {
			return failure(err, s)
		}
		resp := wire.Response{Success: true, Message: result.Message, Balance: result.Balance}
		for _, t := range result.Transactions {
			resp.Transactions = append(resp.Transactions, wire.Transaction{
				Timestamp:   t.Timestamp,
				Kind:        uint8(t.Kind),
				Amount:      t.Amount,
				Description: t.Description,
			})
		}
		return resp

	default:
		return failure(s.Service.InvalidRequest(), s)
	}
}

// failure renders a typed rejection into a response frame. Unexpected errors
// are logged and masked with a generic message.
func failure(err error, s *Server) wire.Response {
	if reqErr, ok := service.AsRequestError(err); ok {
		return wire.Response{Success: false, Message: reqErr.Message}
	}
	s.Logger.WithError(err).Error("Session.Dispatch.internal error")
	return wire.Response{Success: false, Message: "Error: Internal server error."}
}
