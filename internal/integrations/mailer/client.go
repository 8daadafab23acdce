package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/itvlab/lab-scheduler/internal/domain"
)

const implicitTLSPort = 465

// SendFunc доставляет готовое MIME сообщение
type SendFunc func(ctx context.Context, from string, to []string, msg []byte) error

// Config параметры SMTP сервера
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // "LAB.ITV <noreply@example.com>"
	Timeout  time.Duration
}

// Mailer отправляет письма с подтверждением бронирования
type Mailer struct {
	cfg  Config
	send SendFunc
	now  func() time.Time
	log  Logger
}

// Option настраивает Mailer
type Option func(m *Mailer)

// WithSendFunc подменяет доставку (для тестов)
func WithSendFunc(fn SendFunc) Option {
	return func(m *Mailer) {
		m.send = fn
	}
}

// NewMailer создает новый экземпляр Mailer
func NewMailer(cfg Config, log Logger, opts ...Option) *Mailer {
	m := &Mailer{
		cfg: cfg,
		now: time.Now,
		log: log,
	}
	m.send = m.smtpSend
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name имя канала уведомлений
func (m *Mailer) Name() string {
	return "smtp"
}

// NotifyBookingConfirmed отправляет пользователю письмо со списком подтвержденных слотов
func (m *Mailer) NotifyBookingConfirmed(ctx context.Context, c domain.Confirmation) error {
	if len(c.Slots) == 0 {
		return ErrNoSlots
	}

	body, err := renderBody(c)
	if err != nil {
		return fmt.Errorf("%w: template: %v", ErrRender, err)
	}
	msg, err := buildMessage(m.cfg.From, c.UserEmail, body, m.now())
	if err != nil {
		return fmt.Errorf("%w: mime: %v", ErrRender, err)
	}

	if err := m.send(ctx, addressOnly(m.cfg.From), []string{c.UserEmail}, msg); err != nil {
		m.log.Error("Mailer: failed to send confirmation to %s: %v", c.UserEmail, err)
		return fmt.Errorf("%w: %v", ErrSend, err)
	}

	m.log.Info("Mailer: confirmation sent to %s (%d slots)", c.UserEmail, len(c.Slots))
	return nil
}

// smtpSend доставляет сообщение через SMTP: STARTTLS если сервер поддерживает, TLS сразу на порту 465
func (m *Mailer) smtpSend(ctx context.Context, from string, to []string, msg []byte) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	tlsConfig := &tls.Config{ServerName: m.cfg.Host}

	dialer := &net.Dialer{Timeout: m.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %v", addr, err)
	}
	if m.cfg.Timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(m.cfg.Timeout))
	}
	if m.cfg.Port == implicitTLSPort {
		conn = tls.Client(conn, tlsConfig)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("handshake: %v", err)
	}
	defer client.Close()

	if m.cfg.Port != implicitTLSPort {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsConfig); err != nil {
				return fmt.Errorf("starttls: %v", err)
			}
		}
	}

	if m.cfg.Username != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
			if err := client.Auth(auth); err != nil {
				return fmt.Errorf("auth: %v", err)
			}
		}
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("mail from: %v", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt %s: %v", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %v", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write body: %v", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close body: %v", err)
	}

	return client.Quit()
}
