package mailer

import (
	"fmt"
	"strings"

	"github.com/amrahulsaini/casebuddy-sub000/models"
)

// Subjects and bodies for the reconciler's transactional emails. Plain string
// assembly keeps these dependency-free; the storefront owns the fancy
// marketing templates.

func OrderConfirmationSubject(order *models.Order) string {
	return fmt.Sprintf("CaseBuddy: Order %s confirmed", order.OrderNumber)
}

func OrderConfirmationBody(order *models.Order, items []models.LineItem) string {
	var b strings.Builder
	b.WriteString("<h2>Thank you for your order!</h2>")
	fmt.Fprintf(&b, "<p>Hi %s, your payment for order <b>%s</b> has been received.</p>", order.CustomerName, order.OrderNumber)
	writeItemsTable(&b, items)
	writeTotals(&b, order)
	writeShippingAddress(&b, order)
	b.WriteString("<p>We will email you again when your order ships.</p>")
	return b.String()
}

func AdminOrderNotificationSubject(order *models.Order) string {
	return fmt.Sprintf("New paid order %s (₹%.2f)", order.OrderNumber, order.TotalAmount)
}

func AdminOrderNotificationBody(order *models.Order, items []models.LineItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Order %s paid</h2>", order.OrderNumber)
	fmt.Fprintf(&b, "<p>Customer: %s &lt;%s&gt;, mobile %s</p>", order.CustomerName, order.CustomerEmail, order.CustomerMobile)
	writeItemsTable(&b, items)
	writeTotals(&b, order)
	writeShippingAddress(&b, order)
	return b.String()
}

func PaymentFailedSubject(order *models.Order) string {
	return fmt.Sprintf("CaseBuddy: Payment failed for order %s", order.OrderNumber)
}

func PaymentFailedBody(order *models.Order, reason string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Payment failed</h2><p>Hi %s, the payment for order <b>%s</b> could not be completed.</p>", order.CustomerName, order.OrderNumber)
	if reason != "" {
		fmt.Fprintf(&b, "<p>Reason: %s</p>", reason)
	}
	b.WriteString("<p>No amount has been captured. You can retry the payment from your order page.</p>")
	return b.String()
}

func AdminPaymentFailedSubject(order *models.Order) string {
	return fmt.Sprintf("Payment failed for order %s", order.OrderNumber)
}

func AdminPaymentFailedBody(order *models.Order, reason string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Payment failed for order %s</h2>", order.OrderNumber)
	fmt.Fprintf(&b, "<p>Customer: %s &lt;%s&gt;</p>", order.CustomerName, order.CustomerEmail)
	if reason != "" {
		fmt.Fprintf(&b, "<p>Gateway reason: %s</p>", reason)
	}
	return b.String()
}

func OrderDeliveredSubject(order *models.Order) string {
	return fmt.Sprintf("CaseBuddy: Order %s delivered", order.OrderNumber)
}

func OrderDeliveredBody(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Your order has been delivered</h2><p>Hi %s, order <b>%s</b> was delivered to:</p>", order.CustomerName, order.OrderNumber)
	writeShippingAddress(&b, order)
	b.WriteString("<p>We hope you love your new case!</p>")
	return b.String()
}

func writeItemsTable(b *strings.Builder, items []models.LineItem) {
	b.WriteString(`<table border="1" cellpadding="6" cellspacing="0"><tr><th>Item</th><th>Model</th><th>Qty</th><th>Price</th></tr>`)
	for _, it := range items {
		name := it.Name
		if it.Image != "" {
			name = fmt.Sprintf(`<img src="%s" width="48" alt=""/> %s`, it.Image, it.Name)
		}
		fmt.Fprintf(b, "<tr><td>%s</td><td>%s</td><td>%d</td><td>₹%.2f</td></tr>", name, it.PhoneModel, it.Quantity, it.Price)
	}
	b.WriteString("</table>")
}

func writeTotals(b *strings.Builder, order *models.Order) {
	fmt.Fprintf(b, "<p>Subtotal: ₹%.2f<br/>Shipping: ₹%.2f<br/><b>Total: ₹%.2f</b></p>",
		order.Subtotal, order.ShippingCost, order.TotalAmount)
}

func writeShippingAddress(b *strings.Builder, order *models.Order) {
	b.WriteString("<p>")
	b.WriteString(order.AddressLine1)
	if order.AddressLine2 != "" {
		b.WriteString("<br/>" + order.AddressLine2)
	}
	fmt.Fprintf(b, "<br/>%s, %s %s</p>", order.City, order.State, order.Pincode)
}
