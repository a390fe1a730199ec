package orders

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"storefront/apperr"
	"storefront/middleware"
	"storefront/utils"
)

// ReceiptHandler renders a printable PDF receipt with a signed QR code so a
// warehouse scan can verify the order without a lookup round trip.
type ReceiptHandler struct {
	store  *Store
	secret []byte
}

func NewReceiptHandler(store *Store, secret []byte) *ReceiptHandler {
	return &ReceiptHandler{store: store, secret: secret}
}

// qrPayload is orderID|orderNumber|timestamp|signature.
func (h *ReceiptHandler) qrPayload(orderID, orderNumber string) string {
	data := fmt.Sprintf("%s|%s|%d", orderID, orderNumber, time.Now().Unix())
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return data + "|" + sig
}

// VerifyPayload checks the signature on a scanned QR payload.
func (h *ReceiptHandler) VerifyPayload(payload string) bool {
	i := lastPipe(payload)
	if i < 0 {
		return false
	}
	data, sig := payload[:i], payload[i+1:]
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(data))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(sig), []byte(want))
}

func lastPipe(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '|' {
			return i
		}
	}
	return -1
}

// PrintReceipt serves GET /api/orders/:id/receipt. Only the order's owner or
// an admin may download it, and only once payment has succeeded.
func (h *ReceiptHandler) PrintReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	o, err := h.store.GetByID(ctx, ps.ByName("id"))
	if err != nil {
		utils.SendError(w, err)
		return
	}

	actor, _ := middleware.ActorFrom(r.Context())
	if !middleware.Allow(actor, o.UserID, middleware.Owner) {
		utils.SendError(w, apperr.New(apperr.Forbidden, "not your order"))
		return
	}
	if o.Payment == nil || o.Payment.TransactionID == "" {
		utils.SendError(w, apperr.New(apperr.Validation, "receipt is only available for paid orders"))
		return
	}

	qrPNG, err := qrcode.Encode(h.qrPayload(o.OrderID, o.OrderNumber), qrcode.Medium, 256)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Order Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order Number: %s", o.OrderNumber))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", o.CreatedAt.Format("Jan 2, 2006 15:04")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Ship To: %s, %s, %s %s, %s",
		o.ShippingAddress.FullName, o.ShippingAddress.Line1,
		o.ShippingAddress.City, o.ShippingAddress.PostalCode, o.ShippingAddress.Country))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Transaction: %s", o.Payment.TransactionID))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(90, 8, "Item")
	pdf.Cell(25, 8, "Qty")
	pdf.Cell(30, 8, "Price")
	pdf.Cell(30, 8, "Amount")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	for _, item := range o.Items {
		pdf.Cell(90, 8, item.Name)
		pdf.Cell(25, 8, fmt.Sprintf("%d", item.Quantity))
		pdf.Cell(30, 8, fmt.Sprintf("$%.2f", item.Price))
		pdf.Cell(30, 8, fmt.Sprintf("$%.2f", float64(item.Quantity)*item.Price))
		pdf.Ln(8)
	}
	pdf.Ln(4)

	pdf.Cell(145, 8, "Subtotal")
	pdf.Cell(30, 8, fmt.Sprintf("$%.2f", o.Subtotal))
	pdf.Ln(8)
	pdf.Cell(145, 8, "Shipping")
	pdf.Cell(30, 8, fmt.Sprintf("$%.2f", o.ShippingCost))
	pdf.Ln(8)
	pdf.Cell(145, 8, "Tax")
	pdf.Cell(30, 8, fmt.Sprintf("$%.2f", o.Tax))
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(145, 8, "Total")
	pdf.Cell(30, 8, fmt.Sprintf("$%.2f", o.Total))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 155, 25, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.SendError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+o.OrderNumber+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
