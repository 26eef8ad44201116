package service

import (
	"fmt"

	"talenthub/internal/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends notification emails. Best-effort, like push.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type SMTPMailService struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

func NewSMTPMailService(logger *zap.Logger) *SMTPMailService {
	cfg := config.LoadSMTPConfig()
	return &SMTPMailService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (s *SMTPMailService) Send(to, subject, htmlBody string) error {
	if s.from == "" {
		return fmt.Errorf("smtp is not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	s.logger.Debug("mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
