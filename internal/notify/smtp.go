// AngelaMos | 2026
// smtp.go

package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/angelamos/inbox-api/internal/config"
)

// SMTPNotifier delivers mail over SMTP with STARTTLS. Dial and send share a
// single deadline so a stalled mail server can never hold a request open.
type SMTPNotifier struct {
	cfg config.MailConfig
}

func NewSMTPNotifier(cfg config.MailConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) NotifyAdmin(
	ctx context.Context,
	snapshot MessageSnapshot,
) error {
	subject := "New contact message from " + snapshot.Email

	var b strings.Builder
	fmt.Fprintf(&b, "A new message arrived at %s.\r\n\r\n",
		snapshot.CreatedAt.Format(time.RFC1123))
	if name := senderName(snapshot.FirstName, snapshot.LastName); name != "" {
		fmt.Fprintf(&b, "From: %s <%s>\r\n", name, snapshot.Email)
	} else {
		fmt.Fprintf(&b, "From: %s\r\n", snapshot.Email)
	}
	if snapshot.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\r\n", snapshot.Phone)
	}
	fmt.Fprintf(&b, "\r\n%s\r\n", snapshot.Message)

	return n.send(ctx, n.cfg.AdminTo, subject, b.String())
}

func (n *SMTPNotifier) ConfirmToSender(
	ctx context.Context,
	email, name string,
) error {
	greeting := "Hello"
	if name != "" {
		greeting = "Hello " + name
	}

	body := fmt.Sprintf(
		"%s,\r\n\r\nThanks for reaching out. Your message was received and "+
			"will be answered as soon as possible.\r\n",
		greeting,
	)

	return n.send(ctx, email, "We received your message", body)
}

func (n *SMTPNotifier) SendReply(
	ctx context.Context,
	email, name, original, reply string,
) error {
	greeting := "Hello"
	if name != "" {
		greeting = "Hello " + name
	}

	body := fmt.Sprintf(
		"%s,\r\n\r\n%s\r\n\r\n--- Your original message ---\r\n%s\r\n",
		greeting,
		reply,
		original,
	)

	return n.send(ctx, email, "Re: your message", body)
}

func (n *SMTPNotifier) send(
	ctx context.Context,
	to, subject, body string,
) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	deadline := time.Now().Add(n.cfg.DialTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	dialer := &net.Dialer{Deadline: deadline}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}

	if err := conn.SetDeadline(deadline); err != nil {
		_ = conn.Close() //nolint:errcheck // cleanup on setup failure
		return fmt.Errorf("set smtp deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		_ = conn.Close() //nolint:errcheck // cleanup on setup failure
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsCfg := &tls.Config{ServerName: n.cfg.Host, MinVersion: tls.VersionTLS12}
		if err := client.StartTLS(tlsCfg); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if n.cfg.Username != "" {
		authentication := smtp.PlainAuth(
			"",
			n.cfg.Username,
			n.cfg.Password,
			n.cfg.Host,
		)
		if err := client.Auth(authentication); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(n.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}

	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}

	msg := buildMessage(n.cfg.From, to, subject, body)
	if _, err := wc.Write([]byte(msg)); err != nil {
		_ = wc.Close() //nolint:errcheck // write already failed
		return fmt.Errorf("smtp write: %w", err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	return client.Quit()
}

func buildMessage(from, to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}

func senderName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

var _ Notifier = (*SMTPNotifier)(nil)
