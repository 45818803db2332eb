package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

const orderPrefix = "FEE-"

var ErrBadOrderID = errors.New("order id is not a fee checkout")

type CheckoutRequest struct {
	OrderID      string
	Amount       int64
	ItemName     string
	CustomerName string
	Phone        string
}

type CheckoutResult struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// PaymentGateway creates hosted checkout sessions.
type PaymentGateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
}

// MidtransGateway talks to Midtrans Snap.
type MidtransGateway struct {
	client snap.Client
}

func NewMidtransGateway(serverKey string, useProduction bool) *MidtransGateway {
	g := &MidtransGateway{}
	if useProduction {
		g.client.New(serverKey, midtrans.Production)
	} else {
		g.client.New(serverKey, midtrans.Sandbox)
	}
	return g
}

func (g *MidtransGateway) CreateCheckout(_ context.Context, in CheckoutRequest) (*CheckoutResult, error) {
	if in.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  in.OrderID,
			GrossAmt: in.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: in.CustomerName,
			Phone: in.Phone,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:       in.OrderID,
			Price:    in.Amount,
			Qty:      1,
			Name:     truncate(in.ItemName, 50),
			Category: "FEES",
		}},
	}
	resp, merr := g.client.CreateTransaction(req)
	if merr != nil {
		return nil, merr
	}
	return &CheckoutResult{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// OrderID embeds the due id: FEE-<due id>-<unix>.
func OrderID(dueID uuid.UUID, at time.Time) string {
	return orderPrefix + dueID.String() + "-" + strconv.FormatInt(at.Unix(), 10)
}

func ParseOrderID(orderID string) (uuid.UUID, error) {
	rest, ok := strings.CutPrefix(orderID, orderPrefix)
	if !ok || len(rest) < 36 {
		return uuid.Nil, ErrBadOrderID
	}
	id, err := uuid.Parse(rest[:36])
	if err != nil {
		return uuid.Nil, ErrBadOrderID
	}
	return id, nil
}

// Signature is SHA512(order_id + status_code + gross_amount + server_key), hex encoded.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func VerifySignature(orderID, statusCode, grossAmount, serverKey, signature string) bool {
	if serverKey == "" || signature == "" {
		return false
	}
	want := Signature(orderID, statusCode, grossAmount, serverKey)
	got := strings.ToLower(strings.TrimSpace(signature))
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// Settled reports whether a notification means money arrived.
func Settled(transactionStatus, fraudStatus string) bool {
	switch transactionStatus {
	case "settlement":
		return true
	case "capture":
		return fraudStatus == "" || fraudStatus == "accept"
	}
	return false
}

// GrossToMinor parses Midtrans' "150000.00" amounts.
func GrossToMinor(gross string) (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(gross), 64)
	if err != nil {
		return 0, err
	}
	return int64(f + 0.5), nil
}

// truncate keeps at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
