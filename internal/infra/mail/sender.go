package mail

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"text/template"

	"gopkg.in/gomail.v2"
)

const nurturingTemplate = `Olá {{.FirstName}},

Obrigado pelo seu interesse! Preparamos um material exclusivo sobre {{.Interest}}.

📋 Material: Guia Completo de Investimentos
📅 Agende uma conversa: https://calendly.com/streamleads
📱 WhatsApp: (11) 99999-9999

Nossa equipe está pronta para esclarecer suas dúvidas!

Atenciosamente,
Equipe StreamLeads
`

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     "nao-responda@streamleads.com",
	}
}

// SendNurturing envia o email de nutrição para um lead morno,
// referenciando o interesse informado.
func (s *EmailSender) SendNurturing(to, name, interest string) error {
	// Sem SMTP configurado o envio é considerado entregue (dev/local)
	if s.User == "" || s.Password == "" {
		log.Println("⚠️ Mail: configurações de SMTP não encontradas")
		return nil
	}

	if interest == "" {
		interest = "nossos produtos"
	}

	data := NurturingEmailData{
		FirstName: firstName(name),
		Interest:  interest,
	}

	t, err := template.New("nurturing").Parse(nurturingTemplate)
	if err != nil {
		return fmt.Errorf("erro ao processar template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Olá %s, temos algo especial para você!", data.FirstName))
	m.SetBody("text/plain", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}

func firstName(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return name
	}
	return parts[0]
}
