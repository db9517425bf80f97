package notifier

import (
	"contacts-web-server/config"
	"contacts-web-server/internal/util"
	"fmt"
	"net/smtp"
	"strings"
)

// ConfirmTokenSigner выдает подписанный токен для ссылки подтверждения email
type ConfirmTokenSigner interface {
	GenerateConfirmToken(email string) (string, error)
}

// SMTPMailer отправляет служебные письма. Вызывается только в фоне:
// любая ошибка здесь логируется вызывающим и не доходит до клиента.
type SMTPMailer struct {
	cfg    *config.MailConfig
	signer ConfirmTokenSigner
}

func NewSMTPMailer(cfg *config.MailConfig, signer ConfirmTokenSigner) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, signer: signer}
}

func (m *SMTPMailer) SendConfirmation(email, username, baseURL string) error {
	token, err := m.signer.GenerateConfirmToken(email)
	if err != nil {
		return util.LogError("[Mailer] ошибка генерации токена подтверждения", err)
	}

	link := fmt.Sprintf("%s/api/v1/users/confirmed_email/%s", strings.TrimRight(baseURL, "/"), token)
	body := fmt.Sprintf(
		"Привет, %s!\r\n\r\nДля подтверждения email перейдите по ссылке:\r\n%s\r\n",
		username, link,
	)

	return m.send(email, "Подтверждение email", body)
}

func (m *SMTPMailer) SendPasswordReset(email, username, baseURL, token string) error {
	link := fmt.Sprintf("%s/api/v1/auth/reset_password/%s", strings.TrimRight(baseURL, "/"), token)
	body := fmt.Sprintf(
		"Привет, %s!\r\n\r\nСсылка для сброса пароля (действует один час):\r\n%s\r\n\r\nЕсли вы не запрашивали сброс, просто проигнорируйте письмо.\r\n",
		username, link,
	)

	return m.send(email, "Сброс пароля", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", m.cfg.FromName, m.cfg.From),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="utf-8"`,
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return util.LogError("[Mailer] ошибка отправки письма", err)
	}
	return nil
}
