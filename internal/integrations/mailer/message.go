package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"mime"
	"mime/quotedprintable"
	"strings"
	"time"

	"github.com/itvlab/lab-scheduler/internal/domain"
	"github.com/itvlab/lab-scheduler/pkg/ptr"
)

const subject = "Confirmação de Agendamento de Laboratório"

var bodyTemplate = template.Must(template.New("confirmation").Parse(
	`<p>Olá {{.UserName}},</p>` +
		`<p>Seu agendamento foi confirmado:</p>` +
		`<ul>{{range .Slots}}<li>Sala: {{.RoomName}} - Data: {{.Date}} - Período: {{.Period}}</li>{{end}}</ul>` +
		`{{if .Coordinator}}<p>Coordenador: {{.Coordinator}}</p>{{end}}` +
		`<p>Obrigado!</p>`,
))

type templateSlot struct {
	RoomName string
	Date     string // dd/mm/yyyy
	Period   string
}

type templateData struct {
	UserName    string
	Coordinator string
	Slots       []templateSlot
}

// renderBody формирует HTML тело письма
func renderBody(c domain.Confirmation) (string, error) {
	data := templateData{
		UserName:    c.UserName,
		Coordinator: ptr.Value(c.CoordinatorName),
	}
	for _, s := range c.Slots {
		data.Slots = append(data.Slots, templateSlot{
			RoomName: s.RoomName,
			Date:     s.Date.Format(domain.DisplayDateFormat),
			Period:   string(s.Period),
		})
	}

	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// buildMessage собирает MIME сообщение с HTML телом в quoted-printable
func buildMessage(from, to, htmlBody string, date time.Time) ([]byte, error) {
	var buf bytes.Buffer

	headers := []struct{ key, value string }{
		{"From", from},
		{"To", to},
		{"Subject", mime.QEncoding.Encode("utf-8", subject)},
		{"Date", date.Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
		{"Content-Type", `text/html; charset="utf-8"`},
		{"Content-Transfer-Encoding", "quoted-printable"},
	}
	for _, h := range headers {
		fmt.Fprintf(&buf, "%s: %s\r\n", h.key, h.value)
	}
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}
	if err := qp.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// addressOnly извлекает адрес из "Имя <addr>"
func addressOnly(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return strings.TrimSpace(from)
}
