// Package notify delivers failure reports and draft summaries to support by
// mail. Delivery is fire-and-forget: a failed send is logged, never returned
// to the sync path.
package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/casaelena/colibrisync/internal/domain"
)

type Mailer struct {
	host string
	port string
	user string
	pass string
	to   string
	cc   []string
}

func NewMailer(host, port, user, pass, to string, cc []string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, to: to, cc: cc}
}

func (m *Mailer) configured() bool {
	return m.host != "" && m.port != "" && m.user != "" && m.to != ""
}

// NotifyFailure mails a synchronization failure to support.
func (m *Mailer) NotifyFailure(ctx context.Context, subject, detail string) {
	var body bytes.Buffer
	body.WriteString("Estimado(a) Soporte:\n\n")
	body.WriteString("Se ha producido un error durante la sincronización de productos.\n\n")
	body.WriteString("Detalles del error:\n")
	body.WriteString(detail)
	body.WriteString("\n\nSaludos,\nColibriSync\n")

	if err := m.send("Error en la sincronización: "+subject, body.String(), "", nil); err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("failure mail not sent")
	}
}

// SendDraftReport mails the list of draft products without a principal image,
// attaching the spreadsheet when one was written. An unreadable attachment
// downgrades the mail to plain text instead of failing the report.
func (m *Mailer) SendDraftReport(ctx context.Context, rows []domain.DraftReportRow, attachmentPath string) error {
	if len(rows) == 0 {
		return nil
	}
	var body bytes.Buffer
	body.WriteString("Estimado(a) Soporte:\n\n")
	body.WriteString("Los siguientes productos se encuentran en borrador o carecen de imagen:\n\n")
	for _, row := range rows {
		fmt.Fprintf(&body, "- %s | %s | %s\n", row.SKU, row.Title, row.Reason)
	}
	body.WriteString("\nSaludos,\nColibriSync\n")

	var attachment []byte
	attachmentName := ""
	if attachmentPath != "" {
		data, err := os.ReadFile(attachmentPath)
		if err != nil {
			log.Warn().Err(err).Str("file", attachmentPath).Msg("report attachment unreadable, mailing without it")
		} else {
			attachment = data
			attachmentName = filepath.Base(attachmentPath)
		}
	}

	if err := m.send("Productos en borrador o sin imagen", body.String(), attachmentName, attachment); err != nil {
		log.Error().Err(err).Int("rows", len(rows)).Msg("draft report mail not sent")
		return err
	}
	return nil
}

func (m *Mailer) send(subject, body, attachmentName string, attachment []byte) error {
	if !m.configured() {
		log.Warn().Msg("SMTP not configured, skipping mail")
		return nil
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "From: %s\r\n", m.user)
	fmt.Fprintf(&buf, "To: %s\r\n", m.to)
	if len(m.cc) > 0 {
		fmt.Fprintf(&buf, "Cc: %s\r\n", strings.Join(m.cc, ", "))
	}
	buf.WriteString("MIME-Version: 1.0\r\n")

	if len(attachment) == 0 {
		buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		buf.WriteString(body)
	} else if err := writeMultipart(&buf, body, attachmentName, attachment); err != nil {
		return err
	}

	recipients := append([]string{m.to}, m.cc...)
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	return smtp.SendMail(m.host+":"+m.port, auth, m.user, recipients, buf.Bytes())
}

func writeMultipart(buf *bytes.Buffer, body, attachmentName string, attachment []byte) error {
	mw := multipart.NewWriter(buf)
	fmt.Fprintf(buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mw.Boundary())

	text, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return err
	}
	if _, err := io.WriteString(text, body); err != nil {
		return err
	}

	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", attachmentName)},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(attachment)
	for i := 0; i < len(encoded); i += 76 {
		end := i + 76
		if end > len(encoded) {
			end = len(encoded)
		}
		if _, err := io.WriteString(part, encoded[i:end]+"\r\n"); err != nil {
			return err
		}
	}
	return mw.Close()
}
