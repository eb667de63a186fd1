package mail

import (
	"fmt"
	"net/smtp"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jkimani/PairMatch/internal/pkg/env"
)

// SendMail sends an HTML email via SMTP
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "587")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if sender == "" {
		sender = fmt.Sprintf("no-reply@%s", "localhost")
		log.Warnf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	err := smtp.SendMail(addr, auth, sender, []string{to}, msg)
	if err != nil {
		log.Errorf("SMTP send error: %v", err)
	} else {
		log.Infof("Email sent to %s via %s", to, addr)
	}
	return err
}

// SendActivationMail sends the registration funnel's activation link.
func SendActivationMail(to, name, token string) error {
	base := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:4000")
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>welcome to PairMatch! Please confirm your email address:</p>"+
			"<p><a href=\"%s/activate?token=%s\">Activate account</a></p>",
		name, base, token,
	)
	return SendMail(to, "Confirm your PairMatch registration", body)
}

// SendPaymentReceipt confirms a successful subscription payment.
func SendPaymentReceipt(to, name string, endDate time.Time) error {
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>your subscription payment was received. "+
			"Full photo access is active until <strong>%s</strong>.</p>",
		name, endDate.Format("2 January 2006"),
	)
	return SendMail(to, "Your PairMatch subscription is active", body)
}

// SendMatchMail tells a member an introduction has been arranged for them.
func SendMatchMail(to, name, otherName string) error {
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>good news: our team arranged an introduction with %s. "+
			"Log in to see the details.</p>",
		name, otherName,
	)
	return SendMail(to, "A new PairMatch introduction", body)
}
