package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/smtp"
	"os"
	"time"

	"bookerp/internal/apperr"
	"bookerp/internal/pdf"
)

// PDFRenderer turns a resolved invoice payload into bytes.
type PDFRenderer interface {
	Render(doc InvoiceDocument) ([]byte, error)
}

// EmailSender delivers a message with an optional PDF attachment.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string, attachmentName string, attachment []byte) error
}

// WhatsAppSender delivers a plain text message to a phone number.
type WhatsAppSender interface {
	Send(ctx context.Context, toPhone, text string) error
}

// NotifyService renders and delivers invoice documents. Delivery runs
// after the invoice transaction has committed; a failed send never touches
// invoice state.
type NotifyService interface {
	RenderInvoicePDF(ctx context.Context, invoiceID string) ([]byte, string, error)
	SendInvoiceEmail(ctx context.Context, invoiceID string) error
	SendInvoiceWhatsApp(ctx context.Context, invoiceID string) error
}

type notifyService struct {
	invoices InvoiceService
	renderer PDFRenderer
	email    EmailSender
	whatsapp WhatsAppSender
}

func NewNotifyService(invoices InvoiceService, renderer PDFRenderer, email EmailSender, whatsapp WhatsAppSender) NotifyService {
	return &notifyService{invoices: invoices, renderer: renderer, email: email, whatsapp: whatsapp}
}

func (s *notifyService) RenderInvoicePDF(ctx context.Context, invoiceID string) ([]byte, string, error) {
	doc, err := s.invoices.BuildDocument(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	data, err := s.renderer.Render(doc)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render invoice pdf: %w", err)
	}
	return data, doc.InvoiceNo + ".pdf", nil
}

func (s *notifyService) SendInvoiceEmail(ctx context.Context, invoiceID string) error {
	doc, err := s.invoices.BuildDocument(ctx, invoiceID)
	if err != nil {
		return err
	}
	if doc.PartyEmail == "" {
		return fmt.Errorf("party has no email address")
	}

	data, err := s.renderer.Render(doc)
	if err != nil {
		return fmt.Errorf("failed to render invoice pdf: %w", err)
	}

	subject := fmt.Sprintf("Invoice %s", doc.InvoiceNo)
	body := fmt.Sprintf("Dear %s,\r\n\r\nPlease find attached invoice %s dated %s for %s.\r\n\r\nRegards",
		doc.PartyName, doc.InvoiceNo, doc.InvoiceDate, doc.Totals.Total.StringFixed(2))

	return s.email.Send(ctx, doc.PartyEmail, subject, body, doc.InvoiceNo+".pdf", data)
}

func (s *notifyService) SendInvoiceWhatsApp(ctx context.Context, invoiceID string) error {
	doc, err := s.invoices.BuildDocument(ctx, invoiceID)
	if err != nil {
		return err
	}
	if doc.PartyPhone == "" {
		return fmt.Errorf("party has no phone number")
	}

	text := fmt.Sprintf("Invoice %s dated %s. Total %s, balance %s.",
		doc.InvoiceNo, doc.InvoiceDate, doc.Totals.Total.StringFixed(2), doc.Totals.Balance.StringFixed(2))

	return s.whatsapp.Send(ctx, doc.PartyPhone, text)
}

// invoicePDFRenderer lays the document out as a single-column tax invoice.
type invoicePDFRenderer struct{}

func NewInvoicePDFRenderer() PDFRenderer {
	return invoicePDFRenderer{}
}

func (invoicePDFRenderer) Render(doc InvoiceDocument) ([]byte, error) {
	d := pdf.New()
	page := d.AddPage()
	y := pdf.A4Height - 40

	page.Text(40, y, 16, true, "TAX INVOICE")
	y -= 22

	header := []struct{ label, value string }{
		{"Invoice No", doc.InvoiceNo},
		{"Invoice Date", doc.InvoiceDate},
		{"Party Name", doc.PartyName},
		{"Party GSTIN", doc.PartyGSTIN},
		{"Place Of Supply", doc.PlaceOfSupply},
		{"Warehouse", doc.Warehouse},
	}
	for _, h := range header {
		page.Text(40, y, 10, false, fmt.Sprintf("%s: %s", h.label, h.value))
		y -= 14
	}

	y -= 8
	page.Text(40, y, 10, true, "SKU")
	page.Text(170, y, 10, true, "Title")
	page.Text(360, y, 10, true, "Qty")
	page.Text(400, y, 10, true, "Rate")
	page.Text(450, y, 10, true, "GST%")
	page.Text(500, y, 10, true, "Total")
	y -= 12
	page.Line(40, y, 550, y)
	y -= 14

	for _, ln := range doc.Lines {
		if y < 80 {
			page = d.AddPage()
			y = pdf.A4Height - 40
		}
		page.Text(40, y, 9, false, truncate(ln.SKU, 18))
		page.Text(170, y, 9, false, truncate(ln.Title, 30))
		page.TextRight(380, y, 9, false, fmt.Sprintf("%d", ln.Qty))
		page.TextRight(435, y, 9, false, ln.Rate.StringFixed(2))
		page.TextRight(485, y, 9, false, ln.GSTPercent.StringFixed(2))
		page.TextRight(550, y, 9, false, ln.LineTotal.StringFixed(2))
		y -= 14
	}

	y -= 10
	totals := []struct{ label, value string }{
		{"Subtotal", doc.Totals.Subtotal.StringFixed(2)},
		{"GST", doc.Totals.GST.StringFixed(2)},
		{"Total", doc.Totals.Total.StringFixed(2)},
		{"Paid", doc.Totals.Paid.StringFixed(2)},
		{"Balance", doc.Totals.Balance.StringFixed(2)},
	}
	for _, t := range totals {
		if y < 60 {
			page = d.AddPage()
			y = pdf.A4Height - 40
		}
		page.TextRight(550, y, 10, true, fmt.Sprintf("%s: %s", t.label, t.value))
		y -= 14
	}

	return d.Bytes(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// smtpEmailSender speaks plain SMTP with STARTTLS and builds the MIME
// envelope by hand.
type smtpEmailSender struct{}

func NewSMTPEmailSender() EmailSender {
	return smtpEmailSender{}
}

func (smtpEmailSender) Send(_ context.Context, to, subject, body, attachmentName string, attachment []byte) error {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	if port == "" {
		port = "587"
	}
	if host == "" || user == "" || pass == "" {
		return &apperr.ConfigurationError{Component: "smtp", Missing: "SMTP_HOST, SMTP_USER, SMTP_PASS"}
	}

	const boundary = "inv-part-boundary"
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", user)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	if len(attachment) > 0 {
		fmt.Fprintf(&msg, "--%s\r\n", boundary)
		msg.WriteString("Content-Type: application/pdf\r\n")
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&msg, "Content-Disposition: attachment; filename=%q\r\n\r\n", attachmentName)

		encoded := base64.StdEncoding.EncodeToString(attachment)
		for len(encoded) > 76 {
			msg.WriteString(encoded[:76])
			msg.WriteString("\r\n")
			encoded = encoded[76:]
		}
		msg.WriteString(encoded)
		msg.WriteString("\r\n")
	}
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	auth := smtp.PlainAuth("", user, pass, host)
	if err := smtp.SendMail(host+":"+port, auth, user, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// cloudWhatsAppSender posts text messages through the WhatsApp Cloud API.
type cloudWhatsAppSender struct {
	client *http.Client
}

func NewCloudWhatsAppSender() WhatsAppSender {
	return &cloudWhatsAppSender{client: &http.Client{Timeout: 20 * time.Second}}
}

func (s *cloudWhatsAppSender) Send(ctx context.Context, toPhone, text string) error {
	token := os.Getenv("WA_TOKEN")
	phoneID := os.Getenv("WA_PHONE_ID")
	if token == "" || phoneID == "" {
		return &apperr.ConfigurationError{Component: "whatsapp", Missing: "WA_TOKEN, WA_PHONE_ID"}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                toPhone,
		"type":              "text",
		"text":              map[string]string{"body": text},
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("https://graph.facebook.com/v20.0/%s/messages", phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("whatsapp error: %d %s", resp.StatusCode, buf.String())
	}
	return nil
}
