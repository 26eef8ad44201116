package config

import (
	"os"
	"strconv"
	"sync"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

var (
	smtpConfig *SMTPConfig
	smtpOnce   sync.Once
)

func LoadSMTPConfig() *SMTPConfig {
	smtpOnce.Do(func() {
		port := 587
		if v := os.Getenv("SMTP_PORT"); v != "" {
			if p, err := strconv.Atoi(v); err == nil {
				port = p
			}
		}
		smtpConfig = &SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     port,
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		}
	})
	return smtpConfig
}
