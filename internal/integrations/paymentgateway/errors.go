package paymentgateway

import "errors"

var (
	// ErrGateway возвращается при ошибках платёжного шлюза
	// Не отменяет подтверждённую запись: ошибка логируется вызывающей стороной.
	ErrGateway = errors.New("paymentgateway client: gateway error")

	// ErrPaymentNotFound возвращается, когда платёж не найден
	ErrPaymentNotFound = errors.New("paymentgateway client: payment not found")
)
