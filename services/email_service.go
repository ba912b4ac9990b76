// File: /services/email_service.go
package services

import (
	"context"
	"fitcrew-api/config"
	"fitcrew-api/metrics"
	"fmt"
	"html"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gopkg.in/gomail.v2"
)

// Mailer queues transactional emails. Sends never block the caller.
type Mailer interface {
	SendWelcome(email, name string)
	SendFriendRequest(toEmail, toName, fromName string)
}

type outgoingMail struct {
	kind    string
	message *gomail.Message
}

type EmailService struct {
	config  *config.Config
	dialer  *gomail.Dialer
	limiter *rate.Limiter
	log     logrus.FieldLogger

	queue  chan outgoingMail
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once

	// send delivers one message; replaced in tests
	send func(*gomail.Message) error
}

const mailQueueSize = 256

func NewEmailService(cfg *config.Config, log logrus.FieldLogger) *EmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)

	perMinute := cfg.MailRatePerMinute
	if perMinute <= 0 {
		perMinute = 30
	}

	es := &EmailService{
		config:  cfg,
		dialer:  dialer,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		log:     log,
		queue:   make(chan outgoingMail, mailQueueSize),
	}
	es.send = func(m *gomail.Message) error { return es.dialer.DialAndSend(m) }
	return es
}

func (es *EmailService) Enabled() bool {
	return es.config.SMTPHost != ""
}

// Start launches the delivery worker.
func (es *EmailService) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	es.cancel = cancel
	es.wg.Add(1)
	go es.worker(ctx)
}

// Stop drains nothing further and waits for the worker to exit
func (es *EmailService) Stop() {
	es.once.Do(func() {
		if es.cancel != nil {
			es.cancel()
		}
		es.wg.Wait()
	})
}

func (es *EmailService) worker(ctx context.Context) {
	defer es.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case mail := <-es.queue:
			if err := es.limiter.Wait(ctx); err != nil {
				return
			}
			if err := es.send(mail.message); err != nil {
				metrics.EmailsSent.WithLabelValues(mail.kind, "error").Inc()
				es.log.WithError(err).WithField("kind", mail.kind).Error("Failed to send email")
				continue
			}
			metrics.EmailsSent.WithLabelValues(mail.kind, "sent").Inc()
			es.log.WithField("kind", mail.kind).Debug("Email sent")
		}
	}
}

func (es *EmailService) enqueue(kind string, m *gomail.Message) {
	if !es.Enabled() {
		es.log.WithField("kind", kind).Debug("SMTP not configured, skipping email")
		return
	}
	select {
	case es.queue <- outgoingMail{kind: kind, message: m}:
	default:
		metrics.EmailsSent.WithLabelValues(kind, "dropped").Inc()
		es.log.WithField("kind", kind).Warn("Email queue full, dropping message")
	}
}

func (es *EmailService) newMessage(to, subject string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	return m
}

// SendWelcome greets a new user after signup
func (es *EmailService) SendWelcome(email, name string) {
	m := es.newMessage(email, "Welcome to FitCrew! 💪")

	htmlBody := welcomeHTML(name)

	textBody := fmt.Sprintf(`
Hello %s!

Your FitCrew account is ready.

- Log workouts with exercises, sets and reps. Each workout earns you points.
- Add friends and follow their workouts in your feed.
- Create a group and see who trains the most every week.

The FitCrew Team
This is an automated email, please do not reply.
`, name)

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)
	es.enqueue("welcome", m)
}

// SendFriendRequest tells toEmail that fromName wants to connect.
func (es *EmailService) SendFriendRequest(toEmail, toName, fromName string) {
	m := es.newMessage(toEmail, fmt.Sprintf("%s wants to train with you on FitCrew", fromName))

	htmlBody := friendRequestHTML(toName, fromName)

	textBody := fmt.Sprintf(`
Hi %s,

%s sent you a friend request on FitCrew.
Open the app to accept it and start following each other's workouts.
`, toName, fromName)

	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)
	es.enqueue("friend_request", m)
}

// User supplied names are escaped before they reach the HTML part.
func welcomeHTML(name string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { text-align: center; background: linear-gradient(135deg, #ff6b35, #f7931e); color: white; padding: 30px; border-radius: 10px 10px 0 0; }
        .content { background: #f8f9fa; padding: 30px; border-radius: 0 0 10px 10px; }
        .feature { background: white; padding: 20px; margin: 15px 0; border-radius: 8px; border-left: 4px solid #ff6b35; }
        .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💪 Welcome to FitCrew!</h1>
            <p>Train together, stay consistent</p>
        </div>
        <div class="content">
            <h2>Hello %s!</h2>
            <p>Your account is ready.</p>
            <div class="feature">
                <h4>🏋️ Log Workouts</h4>
                <p>Track every session with exercises, sets and reps. Each workout earns you points.</p>
            </div>
            <div class="feature">
                <h4>👥 Add Friends</h4>
                <p>Follow your friends' workouts in your feed and cheer them on.</p>
            </div>
            <div class="feature">
                <h4>🏆 Join a Crew</h4>
                <p>Create a group and see who trains the most every week.</p>
            </div>
            <p><strong>The FitCrew Team</strong></p>
        </div>
        <div class="footer">
            <p>This is an automated email, please do not reply.</p>
        </div>
    </div>
</body>
</html>`, html.EscapeString(name))
}

func friendRequestHTML(toName, fromName string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .content { background: #f8f9fa; padding: 30px; border-radius: 10px; }
        .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="content">
            <h2>Hi %s,</h2>
            <p><strong>%s</strong> sent you a friend request on FitCrew.</p>
            <p>Open the app to accept it and start following each other's workouts.</p>
        </div>
        <div class="footer">
            <p>This is an automated email, please do not reply.</p>
        </div>
    </div>
</body>
</html>`, html.EscapeString(toName), html.EscapeString(fromName))
}
