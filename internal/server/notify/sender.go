package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"

	"github.com/dmitrijs2005/profilely/internal/logging"
)

// Envelope is a rendered message ready for the wire.
type Envelope struct {
	ID      string
	To      string
	Subject string
	HTML    string
}

// Sender puts an Envelope on the wire.
type Sender interface {
	Send(ctx context.Context, e Envelope) error
}

// LogSender writes envelopes to the log instead of sending them. It is used
// when mail delivery is disabled.
type LogSender struct {
	log logging.Logger
}

func NewLogSender(log logging.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, e Envelope) error {
	s.log.Info(ctx, "mail delivery disabled, message logged",
		"message_id", e.ID, "to", e.To, "subject", e.Subject, "body", e.HTML)
	return nil
}

// SMTPConfig describes the relay used by SMTPSender. SSL selects implicit
// TLS, StartTLS makes the upgrade mandatory, neither sends in the clear.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	StartTLS bool
	SSL      bool
}

// SMTPSender delivers UTF-8 HTML messages through an SMTP relay. Bodies are
// quoted-printable encoded so non-ASCII text and long lines survive 7-bit
// relays.
type SMTPSender struct {
	cfg SMTPConfig
	// deliver is swapped in tests
	deliver func(ctx context.Context, m *mail.Msg) error
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	s := &SMTPSender{cfg: cfg}
	s.deliver = s.dialAndSend
	return s
}

func (s *SMTPSender) Send(ctx context.Context, e Envelope) error {
	m, err := s.buildMessage(e)
	if err != nil {
		return err
	}
	return s.deliver(ctx, m)
}

func (s *SMTPSender) dialAndSend(ctx context.Context, m *mail.Msg) error {
	c, err := s.newClient()
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) newClient() (*mail.Client, error) {
	opts := []mail.Option{mail.WithPort(s.cfg.Port)}
	switch {
	case s.cfg.SSL:
		opts = append(opts, mail.WithSSL())
	case s.cfg.StartTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	return mail.NewClient(s.cfg.Host, opts...)
}

func (s *SMTPSender) buildMessage(e Envelope) (*mail.Msg, error) {
	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}
	if from == "" || e.To == "" {
		return nil, errors.New("smtp: missing sender or recipient")
	}

	m := mail.NewMsg(mail.WithCharset(mail.CharsetUTF8), mail.WithEncoding(mail.EncodingQP))
	var err error
	if s.cfg.FromName != "" {
		err = m.FromFormat(s.cfg.FromName, from)
	} else {
		err = m.From(from)
	}
	if err != nil {
		return nil, fmt.Errorf("smtp: sender: %w", err)
	}
	if err := m.To(e.To); err != nil {
		return nil, fmt.Errorf("smtp: recipient: %w", err)
	}

	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 {
		domain = from[at+1:]
	}

	m.Subject(e.Subject)
	m.SetMessageIDWithValue(id + "@" + domain)
	m.SetDate()
	m.SetBodyString(mail.TypeTextHTML, e.HTML)
	return m, nil
}
