package mailer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/alhadhrami/bizreport/internal/retry"
	"github.com/alhadhrami/bizreport/pkg/bizreport"
)

// Config holds SMTP connection settings. The password comes from the
// environment, never from the config file.
type Config struct {
	Host     string
	Port     int
	Sender   string
	Password string
	Timeout  time.Duration
}

// Message is one email ready for delivery.
type Message struct {
	Subject     string
	HTMLBody    string
	Recipients  []string
	Attachments []string
}

// Sender delivers messages over SMTP with retry on transient transport
// failures. Safe for concurrent use.
type Sender struct {
	cfg      Config
	executor *retry.Executor
	logger   bizreport.Logger

	// deliver performs one dial+send attempt. Tests substitute a stub.
	deliver func(ctx context.Context, msg *mail.Msg) error
}

// NewSender validates the SMTP settings and returns a Sender. A nil
// executor gets the standard transport retry policy.
func NewSender(cfg Config, executor *retry.Executor, logger bizreport.Logger) (*Sender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: smtp host is not configured", bizreport.ErrInvalidConfig)
	}
	if cfg.Sender == "" || cfg.Password == "" {
		return nil, fmt.Errorf("%w: set the sender address and SMTP_PASSWORD", bizreport.ErrMissingCredentials)
	}
	if cfg.Port == 0 {
		cfg.Port = bizreport.DefaultSMTPPort
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = bizreport.DefaultSMTPTimeout
	}
	if executor == nil {
		executor = retry.NewExecutor(
			retry.NewTransportErrorClassifier(),
			retry.NewExponentialBackoff(bizreport.DefaultRetryMaxAttempts),
		)
	}

	s := &Sender{cfg: cfg, executor: executor, logger: logger}
	s.deliver = s.dialAndSend
	return s, nil
}

// Send validates the recipients, assembles the message, and delivers it.
// Delivery failures after retries are reported as ErrSendFailed.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	recipients, err := ValidateEmailList(msg.Recipients)
	if err != nil {
		return err
	}
	s.logf("preparing email to %d recipient(s)", len(recipients))

	m, err := s.compose(msg, recipients)
	if err != nil {
		return err
	}

	err = s.executor.Execute(ctx, func(ctx context.Context) error {
		return s.deliver(ctx, m)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", bizreport.ErrSendFailed, err)
	}

	s.logInfo("email sent to %d recipient(s)", len(recipients))
	return nil
}

func (s *Sender) compose(msg Message, recipients []string) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(s.cfg.Sender); err != nil {
		return nil, fmt.Errorf("%w: sender %q: %v", bizreport.ErrInvalidConfig, s.cfg.Sender, err)
	}
	if err := m.To(recipients...); err != nil {
		return nil, fmt.Errorf("%w: %v", bizreport.ErrInvalidRecipient, err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)

	for _, path := range msg.Attachments {
		if _, err := os.Stat(path); err != nil {
			s.logf("attachment not found, skipping: %s", path)
			continue
		}
		m.AttachFile(path)
		s.logf("attached: %s", path)
	}
	return m, nil
}

// dialAndSend performs one SMTP delivery attempt. Port 465 uses implicit
// SSL; everything else negotiates STARTTLS.
func (s *Sender) dialAndSend(ctx context.Context, m *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTimeout(s.cfg.Timeout),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Sender),
		mail.WithPassword(s.cfg.Password),
	}
	if s.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, m)
}

func (s *Sender) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Verbose(format, args...)
	}
}

func (s *Sender) logInfo(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Info(format, args...)
	}
}
