// Package mailer sends notification mail over SMTP.
package mailer

import (
	"fmt"
	"io"

	"github.com/go-gomail/gomail"
)

type SMTP struct {
	From   string
	dialer *gomail.Dialer
	send   func(m *gomail.Message) error
}

func New(host string, port int, username, password, from string) *SMTP {
	if from == "" {
		from = username
	}
	s := &SMTP{From: from, dialer: gomail.NewDialer(host, port, username, password)}
	s.send = func(m *gomail.Message) error { return s.dialer.DialAndSend(m) }
	return s
}

func (s *SMTP) message(to, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}

func (s *SMTP) Send(to, subject, body string) error {
	if err := s.send(s.message(to, subject, body)); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}

// SendAttachment sends the message with one in-memory attachment.
func (s *SMTP) SendAttachment(to, subject, body, name string, data []byte) error {
	m := s.message(to, subject, body)
	m.Attach(name, gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}))
	if err := s.send(m); err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	return nil
}
