// internal/adapters/out/mail/order_mailer.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	orderdom "voltmart/internal/domain/order"
)

// EmailClient is the transport used by mailers (SendGrid in production).
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// OrderMailer sends order confirmation mail. It satisfies the
// usecase.OrderMailer port.
type OrderMailer struct {
	client EmailClient
	from   string
}

func NewOrderMailer(client EmailClient, from string) *OrderMailer {
	return &OrderMailer{client: client, from: from}
}

func (m *OrderMailer) SendConfirmation(ctx context.Context, o *orderdom.Order) error {
	if m == nil || m.client == nil {
		return errors.New("order_mailer: email client is not configured")
	}
	if o == nil {
		return errors.New("order_mailer: order is nil")
	}
	to := strings.TrimSpace(o.Email)
	if to == "" {
		return errors.New("order_mailer: order has no email")
	}

	subject := fmt.Sprintf("Voltmart order %s confirmed", o.OrderNumber)
	return m.client.Send(ctx, m.from, to, subject, buildConfirmationBody(o))
}

func buildConfirmationBody(o *orderdom.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thanks for your order!\n\n")
	fmt.Fprintf(&b, "Order number: %s\n", o.OrderNumber)
	fmt.Fprintf(&b, "Status: %s\n\n", o.Status)

	for i := range o.Items {
		it := &o.Items[i]
		fmt.Fprintf(&b, "  %dx %s @ %s\n", it.Quantity, it.Name, formatCents(it.PriceCents))
	}

	fmt.Fprintf(&b, "\nSubtotal: %s\n", formatCents(o.SubtotalCents))
	fmt.Fprintf(&b, "Shipping: %s\n", formatCents(o.ShippingCents))
	fmt.Fprintf(&b, "Total:    %s\n", formatCents(o.TotalCents))

	if o.Shipping.Street != "" {
		fmt.Fprintf(&b, "\nShipping to:\n%s\n%s\n%s %s\n%s\n",
			o.Shipping.Name, o.Shipping.Street, o.Shipping.City, o.Shipping.ZipCode, o.Shipping.Country)
	}
	return b.String()
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
