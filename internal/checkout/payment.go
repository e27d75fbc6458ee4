package checkout

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// Payee identifies the receiving side of the scan-to-pay step.
type Payee struct {
	VPA      string // virtual payment address, e.g. "biteroute@upi"
	Name     string // display name shown in the payer's app
	Currency string // ISO 4217 code, e.g. "INR"
}

// PaymentURI builds the payment-reference token for the scan-to-pay step.
//
// The token is regenerable byte-for-byte from the total: field order and
// the 2-decimal amount are fixed. The payee fields are embedded verbatim,
// matching the original client's token exactly.
func PaymentURI(p Payee, total float64) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=%s", p.VPA, p.Name, formatAmount(total), p.Currency)
}

// PaymentRequest is handed to the view when the online path reaches
// OnlineAwaitingScan: the reference token to encode, plus the amount for
// display.
type PaymentRequest struct {
	URI    string
	Amount string // 2-decimal total
}

// QRCodePNG renders the payment reference as a PNG for scanning,
// size pixels per side.
func (r *PaymentRequest) QRCodePNG(size int) ([]byte, error) {
	png, err := qrcode.Encode(r.URI, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode payment qr: %w", err)
	}
	return png, nil
}
