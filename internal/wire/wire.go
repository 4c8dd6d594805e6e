// Package wire implements the fixed-layout binary protocol spoken between
// the bank server and its terminal clients. Frames are fixed-size,
// big-endian, and carry a version byte so both ends can refuse layouts they
// do not understand. Text fields are NUL-padded ASCII; amounts travel as
// NUL-padded decimal strings so no precision is lost in transit.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// Version is the frame layout version both ends must agree on.
const Version = 1

// Field widths, fixed for protocol compatibility.
const (
	AccountNumberLen = 10
	PINLen           = 6
	NameLen          = 50
	NationalIDLen    = 20
	AmountLen        = 20
	MessageLen       = 256
	DescriptionLen   = 100
	StatementSlots   = 5
)

// RequestSize and ResponseSize are the exact frame sizes on the wire.
const (
	requestHeaderSize  = 2 // version, kind
	transactionSize    = 8 + 1 + AmountLen + DescriptionLen
	RequestSize        = requestHeaderSize + AccountNumberLen + PINLen + NameLen + NationalIDLen + 1 + AmountLen
	responseHeaderSize = 2 // version, success
	ResponseSize       = responseHeaderSize + MessageLen + AccountNumberLen + PINLen + AmountLen + 1 + StatementSlots*transactionSize
)

var (
	// ErrUnsupportedVersion means the peer speaks a different frame layout.
	ErrUnsupportedVersion = errors.New("wire: unsupported protocol version")
	// ErrBadFrame means a frame arrived structurally broken.
	ErrBadFrame = errors.New("wire: malformed frame")
)

// Kind identifies the requested operation. Values are fixed by the
// protocol; unknown values reach the processor and are rejected there.
type Kind uint8

const (
	KindOpenAccount Kind = iota
	KindCloseAccount
	KindWithdraw
	KindDeposit
	KindCheckBalance
	KindGetStatement
)

func (k Kind) String() string {
	switch k {
	case KindOpenAccount:
		return "OpenAccount"
	case KindCloseAccount:
		return "CloseAccount"
	case KindWithdraw:
		return "Withdraw"
	case KindDeposit:
		return "Deposit"
	case KindCheckBalance:
		return "CheckBalance"
	case KindGetStatement:
		return "GetStatement"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Account type codes on the wire.
const (
	AccountTypeSavings  uint8 = 0
	AccountTypeChecking uint8 = 1
)

// Transaction kind codes on the wire.
const (
	TransactionDeposit    uint8 = 0
	TransactionWithdrawal uint8 = 1
)

// Request is one client operation. Fields not meaningful for a given kind
// are zero and ignored by the processor.
type Request struct {
	Kind          Kind
	AccountNumber string
	PIN           string
	Name          string
	NationalID    string
	AccountType   uint8
	Amount        decimal.Decimal
}

// Transaction is one statement entry in a response frame.
type Transaction struct {
	Timestamp   time.Time
	Kind        uint8
	Amount      decimal.Decimal
	Description string
}

// Response is the server's reply to one request.
type Response struct {
	Success       bool
	Message       string
	AccountNumber string
	PIN           string
	Balance       decimal.Decimal
	Transactions  []Transaction
}

// WriteRequest encodes req as one fixed-size frame.
func WriteRequest(w io.Writer, req Request) error {
	buf := make([]byte, RequestSize)
	buf[0] = Version
	buf[1] = byte(req.Kind)
	off := 2
	off = putField(buf, off, req.AccountNumber, AccountNumberLen)
	off = putField(buf, off, req.PIN, PINLen)
	off = putField(buf, off, req.Name, NameLen)
	off = putField(buf, off, req.NationalID, NationalIDLen)
	buf[off] = req.AccountType
	off++
	putAmount(buf, off, req.Amount)

	_, err := w.Write(buf)
	return err
}

// ReadRequest decodes one fixed-size request frame.
func ReadRequest(r io.Reader) (Request, error) {
	buf := make([]byte, RequestSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Request{}, err
	}
	if buf[0] != Version {
		return Request{}, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, buf[0], Version)
	}

	req := Request{Kind: Kind(buf[1])}
	off := 2
	req.AccountNumber, off = field(buf, off, AccountNumberLen)
	req.PIN, off = field(buf, off, PINLen)
	req.Name, off = field(buf, off, NameLen)
	req.NationalID, off = field(buf, off, NationalIDLen)
	req.AccountType = buf[off]
	off++

	amount, err := amountAt(buf, off)
	if err != nil {
		return Request{}, err
	}
	req.Amount = amount
	return req, nil
}

// WriteResponse encodes resp as one fixed-size frame. At most StatementSlots
// transactions are carried; extra entries are dropped.
func WriteResponse(w io.Writer, resp Response) error {
	buf := make([]byte, ResponseSize)
	buf[0] = Version
	if resp.Success {
		buf[1] = 1
	}
	off := 2
	off = putField(buf, off, resp.Message, MessageLen)
	off = putField(buf, off, resp.AccountNumber, AccountNumberLen)
	off = putField(buf, off, resp.PIN, PINLen)
	off = putAmount(buf, off, resp.Balance)

	transactions := resp.Transactions
	if len(transactions) > StatementSlots {
		transactions = transactions[:StatementSlots]
	}
	buf[off] = byte(len(transactions))
	off++
	for _, t := range transactions {
		binary.BigEndian.PutUint64(buf[off:], uint64(t.Timestamp.Unix()))
		off += 8
		buf[off] = t.Kind
		off++
		off = putAmount(buf, off, t.Amount)
		off = putField(buf, off, t.Description, DescriptionLen)
	}

	_, err := w.Write(buf)
	return err
}

// ReadResponse decodes one fixed-size response frame.
func ReadResponse(r io.Reader) (Response, error) {
	buf := make([]byte, ResponseSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Response{}, err
	}
	if buf[0] != Version {
		return Response{}, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, buf[0], Version)
	}

	resp := Response{Success: buf[1] == 1}
	off := 2
	resp.Message, off = field(buf, off, MessageLen)
	resp.AccountNumber, off = field(buf, off, AccountNumberLen)
	resp.PIN, off = field(buf, off, PINLen)

	balance, err := amountAt(buf, off)
	if err != nil {
		return Response{}, err
	}
	resp.Balance = balance
	off += AmountLen

	count := int(buf[off])
	off++
	if count > StatementSlots {
		return Response{}, fmt.Errorf("%w: transaction count %d exceeds %d", ErrBadFrame, count, StatementSlots)
	}
	for i := 0; i < count; i++ {
		var t Transaction
		t.Timestamp = time.Unix(int64(binary.BigEndian.Uint64(buf[off:])), 0)
		off += 8
		t.Kind = buf[off]
		off++
		amount, err := amountAt(buf, off)
		if err != nil {
			return Response{}, err
		}
		t.Amount = amount
		off += AmountLen
		t.Description, off = field(buf, off, DescriptionLen)
		resp.Transactions = append(resp.Transactions, t)
	}
	return resp, nil
}

// putField writes s NUL-padded into a fixed-width slot, truncating to fit.
// Returns the next offset.
func putField(buf []byte, off int, s string, width int) int {
	b := []byte(s)
	if len(b) > width {
		b = b[:width]
	}
	copy(buf[off:off+width], b)
	return off + width
}

// field reads a NUL-padded fixed-width slot. Returns the value and the next
// offset.
func field(buf []byte, off, width int) (string, int) {
	raw := buf[off : off+width]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw), off + width
}

func putAmount(buf []byte, off int, amount decimal.Decimal) int {
	return putField(buf, off, amount.String(), AmountLen)
}

// amountAt parses the decimal string in a fixed-width amount slot. An empty
// slot decodes as zero. Does not advance the offset.
func amountAt(buf []byte, off int) (decimal.Decimal, error) {
	s, _ := field(buf, off, AmountLen)
	if s == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad amount %q", ErrBadFrame, s)
	}
	return amount, nil
}
