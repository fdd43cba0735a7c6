package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmailSender struct {
	to, subject, attachmentName string
	attachment                  []byte
	sent                        int
}

func (r *recordingEmailSender) Send(_ context.Context, to, subject, body, attachmentName string, attachment []byte) error {
	r.to = to
	r.subject = subject
	r.attachmentName = attachmentName
	r.attachment = attachment
	r.sent++
	return nil
}

type recordingWhatsAppSender struct {
	toPhone, text string
	sent          int
}

func (r *recordingWhatsAppSender) Send(_ context.Context, toPhone, text string) error {
	r.toPhone = toPhone
	r.text = text
	r.sent++
	return nil
}

// invoicedEnv creates a real invoice through the pipeline so notify tests
// run against a fully resolved document.
func invoicedEnv(t *testing.T, email, phone string) (*pipelineEnv, InvoiceResponse) {
	t.Helper()
	env := newPipelineEnv()
	ctx := context.Background()

	party := env.addParty(t, "Mittal Book House")
	party.Email = email
	party.Phone = phone
	require.NoError(t, env.parties.Update(ctx, party))
	item := env.addItem(t, "MATH-9-2025", "100.00", "5")

	dc, _ := dispatchOrder(t, env, party, []orderLine{{item, 2}})
	inv, err := env.invoiceSvc.CreateInvoice(ctx, "tester", CreateInvoiceRequest{DCID: dc.ID})
	require.NoError(t, err)
	return env, inv
}

func TestRenderInvoicePDF(t *testing.T) {
	env, inv := invoicedEnv(t, "", "")
	svc := NewNotifyService(env.invoiceSvc, NewInvoicePDFRenderer(), nil, nil)

	data, name, err := svc.RenderInvoicePDF(context.Background(), inv.ID)
	require.NoError(t, err)

	assert.Equal(t, inv.InvoiceNo+".pdf", name)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-1.4")))
	assert.Contains(t, string(data), "TAX INVOICE")
	assert.Contains(t, string(data), "MATH-9-2025")
}

func TestSendInvoiceEmailAttachesPDF(t *testing.T) {
	env, inv := invoicedEnv(t, "accounts@mittalbooks.example", "")
	email := &recordingEmailSender{}
	svc := NewNotifyService(env.invoiceSvc, NewInvoicePDFRenderer(), email, nil)

	require.NoError(t, svc.SendInvoiceEmail(context.Background(), inv.ID))

	assert.Equal(t, 1, email.sent)
	assert.Equal(t, "accounts@mittalbooks.example", email.to)
	assert.Equal(t, "Invoice "+inv.InvoiceNo, email.subject)
	assert.Equal(t, inv.InvoiceNo+".pdf", email.attachmentName)
	assert.True(t, bytes.HasPrefix(email.attachment, []byte("%PDF-1.4")))
}

func TestSendInvoiceEmailRequiresAddress(t *testing.T) {
	env, inv := invoicedEnv(t, "", "")
	email := &recordingEmailSender{}
	svc := NewNotifyService(env.invoiceSvc, NewInvoicePDFRenderer(), email, nil)

	err := svc.SendInvoiceEmail(context.Background(), inv.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no email address")
	assert.Zero(t, email.sent)
}

func TestSendInvoiceWhatsAppTextCarriesTotals(t *testing.T) {
	env, inv := invoicedEnv(t, "", "+919876543210")
	wa := &recordingWhatsAppSender{}
	svc := NewNotifyService(env.invoiceSvc, NewInvoicePDFRenderer(), nil, wa)

	require.NoError(t, svc.SendInvoiceWhatsApp(context.Background(), inv.ID))

	assert.Equal(t, 1, wa.sent)
	assert.Equal(t, "+919876543210", wa.toPhone)
	assert.Contains(t, wa.text, inv.InvoiceNo)
	assert.Contains(t, wa.text, "210.00")
}

func TestSendInvoiceWhatsAppRequiresPhone(t *testing.T) {
	env, inv := invoicedEnv(t, "", "")
	wa := &recordingWhatsAppSender{}
	svc := NewNotifyService(env.invoiceSvc, NewInvoicePDFRenderer(), nil, wa)

	err := svc.SendInvoiceWhatsApp(context.Background(), inv.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no phone number")
	assert.Zero(t, wa.sent)
}

func TestInvoicePDFRendererPaginatesLongInvoices(t *testing.T) {
	doc := InvoiceDocument{
		InvoiceNo:   "INV-202501-0001",
		InvoiceDate: "2025-01-10",
		PartyName:   "Mittal Book House",
		Totals:      InvoiceTotals{Total: decimal.RequireFromString("100")},
	}
	for i := 0; i < 80; i++ {
		doc.Lines = append(doc.Lines, InvoiceDocumentLine{
			SKU:       "SKU",
			Title:     "A very long title that gets truncated in the layout",
			Qty:       1,
			Rate:      decimal.RequireFromString("1"),
			LineTotal: decimal.RequireFromString("1"),
		})
	}

	data, err := NewInvoicePDFRenderer().Render(doc)
	require.NoError(t, err)
	assert.Greater(t, strings.Count(string(data), "/Type /Page "), 1, "80 lines must spill onto a second page")
}
