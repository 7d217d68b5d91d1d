package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/siteseeker/backend/internal/infra/queue"
)

const leadCapturedTemplate = `
<h2>Novo lead capturado 🎯</h2>
<p><strong>{{.BusinessName}}</strong> ({{.Industry}})</p>
<ul>
  <li>Email: {{.Email}}</li>
  <li>Telefone: {{.Phone}}</li>
  <li>Endereço: {{.Address}}</li>
  <li>Status inicial: {{.Status}}</li>
  <li>Origem: {{.Source}}</li>
</ul>
<p>Acesse o dashboard para iniciar o contato.</p>
`

func NewLeadNotifier(host string, port int, user, password, to string) *LeadNotifier {
	return &LeadNotifier{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		To:       to,
	}
}

func (s *LeadNotifier) NotifyLeadCaptured(payload queue.LeadCapturedPayload) error {
	t, err := template.New("lead_captured").Parse(leadCapturedTemplate)
	if err != nil {
		return fmt.Errorf("erro ao ler template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, payload); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", "nao-responda@siteseeker.com.br")
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("Novo lead: %s", payload.BusinessName))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
