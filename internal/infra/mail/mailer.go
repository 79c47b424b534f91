package mail

import (
	"context"
	"fmt"
	"html"

	gomail "github.com/wneessen/go-mail"

	"unispace/internal/config"
	"unispace/internal/domain/model"
)

// Mailerはお問い合わせ受信を店舗側へメール通知する
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       string
}

func NewMailer(cfg config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.MailFrom,
		to:       cfg.MailTo,
	}
}

func (m *Mailer) NotifyNewMessage(ctx context.Context, msg model.Message) error {
	mail := gomail.NewMsg()
	if err := mail.From(m.from); err != nil {
		return fmt.Errorf("failed to set from: %w", err)
	}
	if err := mail.To(m.to); err != nil {
		return fmt.Errorf("failed to set to: %w", err)
	}
	mail.Subject(fmt.Sprintf("新しいお問い合わせ: %s", msg.Name))
	mail.SetBodyString(gomail.TypeTextHTML, buildMessageHTML(msg))

	client, err := gomail.NewClient(m.host,
		gomail.WithPort(m.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthLogin),
		gomail.WithUsername(m.username),
		gomail.WithPassword(m.password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	return client.DialAndSendWithContext(ctx, mail)
}

func buildMessageHTML(msg model.Message) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="ja">
<body style="font-family: sans-serif; padding: 20px;">
	<h2>お問い合わせが届きました</h2>
	<table style="border-collapse: collapse;">
		<tr><td style="padding: 6px; font-weight: bold;">お名前</td><td style="padding: 6px;">%s</td></tr>
		<tr><td style="padding: 6px; font-weight: bold;">メール</td><td style="padding: 6px;">%s</td></tr>
	</table>
	<p style="white-space: pre-wrap; border: 1px solid #ddd; padding: 12px;">%s</p>
</body>
</html>`,
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		html.EscapeString(msg.Body),
	)
}
