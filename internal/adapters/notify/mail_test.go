package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/casaelena/colibrisync/internal/domain"
)

func TestWriteMultipartAttachesSpreadsheet(t *testing.T) {
	payload := []byte("not really an xlsx but enough bytes to round-trip")
	var buf bytes.Buffer
	if err := writeMultipart(&buf, "cuerpo del reporte", "borradores.xlsx", payload); err != nil {
		t.Fatal(err)
	}

	header, rest, ok := strings.Cut(buf.String(), "\r\n\r\n")
	if !ok {
		t.Fatalf("no blank line after the content-type header: %q", buf.String())
	}
	mediaType, params, err := mime.ParseMediaType(strings.TrimPrefix(header, "Content-Type: "))
	if err != nil {
		t.Fatal(err)
	}
	if mediaType != "multipart/mixed" {
		t.Fatalf("media type = %q, want multipart/mixed", mediaType)
	}

	mr := multipart.NewReader(strings.NewReader(rest), params["boundary"])

	text, err := mr.NextPart()
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(text)
	if !strings.Contains(string(body), "cuerpo del reporte") {
		t.Errorf("text part = %q", body)
	}

	att, err := mr.NextPart()
	if err != nil {
		t.Fatal(err)
	}
	if att.FileName() != "borradores.xlsx" {
		t.Errorf("attachment filename = %q", att.FileName())
	}
	if enc := att.Header.Get("Content-Transfer-Encoding"); enc != "base64" {
		t.Errorf("transfer encoding = %q", enc)
	}
	decoded, err := io.ReadAll(base64.NewDecoder(base64.StdEncoding, att))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Errorf("attachment round-trip = %q, want %q", decoded, payload)
	}
}

func TestSendDraftReportSkipsWhenUnconfigured(t *testing.T) {
	m := NewMailer("", "", "", "", "", nil)
	rows := []domain.DraftReportRow{{SKU: "D-01", Title: "Camisa", Reason: "sin imagen principal"}}
	if err := m.SendDraftReport(context.Background(), rows, "does-not-exist.xlsx"); err != nil {
		t.Fatalf("unconfigured mailer must skip, got %v", err)
	}
}
