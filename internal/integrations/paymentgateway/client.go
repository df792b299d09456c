package paymentgateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
)

// PaymentStatus статус платежа
type PaymentStatus string

const (
	StatusPaid   PaymentStatus = "paid"
	StatusUnpaid PaymentStatus = "unpaid"
)

// PaymentLink платёжная ссылка, отправляемая пациенту после подтверждения
type PaymentLink struct {
	URL       string
	Code      string
	ExpiresAt time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client обёртка над Stripe Checkout
// Вызывается только после перехода записи в Confirmed и вне транзакции
// резервирования: сбой платежного шлюза не откатывает бронь.
type Client struct {
	currency string
	log      Logger
}

// NewClient создает клиента платёжного шлюза
func NewClient(apiKey, currency string, log Logger) *Client {
	stripe.Key = apiKey
	return &Client{currency: currency, log: log}
}

// CreatePaymentLink создает платёжную ссылку на указанную сумму
// amount задаётся в основной валютной единице (например, реалах или рублях).
func (c *Client) CreatePaymentLink(ctx context.Context, amount float64, description string) (*PaymentLink, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
		Mode:   stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(c.currency),
					UnitAmount: stripe.Int64(int64(amount * 100)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: create checkout session: %v", ErrGateway, err)
	}

	c.log.Info("CreatePaymentLink: created session id=%s", sess.ID)

	return &PaymentLink{
		URL:       sess.URL,
		Code:      sess.ID,
		ExpiresAt: time.Unix(sess.ExpiresAt, 0),
	}, nil
}

// CheckStatus возвращает статус платежа по коду платёжной ссылки
func (c *Client) CheckStatus(ctx context.Context, code string) (PaymentStatus, error) {
	sess, err := checkoutsession.Get(code, &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return "", ErrPaymentNotFound
		}
		return "", fmt.Errorf("%w: get checkout session: %v", ErrGateway, err)
	}

	if sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
		return StatusPaid, nil
	}
	return StatusUnpaid, nil
}
