package email

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/bmukendi/coopec-service/internal/config"
	"github.com/bmukendi/coopec-service/internal/models"
)

// Sender handles sending notification emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendLedgerEvent turns a ledger event into the matching notification. The
// operation reference goes into the subject so a borrower inquiry can be
// traced back to the event.
func (s *Sender) SendLedgerEvent(ev models.LedgerEvent) error {
	if ev.BorrowerEmail == "" {
		s.logger.Infof("No email on record for %s, skipping notification (receipt %s)", ev.BorrowerName, ev.Receipt)
		return nil
	}
	switch ev.Type {
	case models.EventCreditGranted:
		return s.sendCreditGranted(ev)
	case models.EventCreditSettled:
		return s.sendCreditSettled(ev)
	case models.EventCreditMatured:
		return s.sendMaturityNotice(ev)
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
}

// sendCreditGranted confirms a disbursement. The body depends on the
// interest method: deducted interest changes what the borrower receives,
// added interest changes what they owe.
func (s *Sender) sendCreditGranted(ev models.LedgerEvent) error {
	c := ev.Credit
	body := fmt.Sprintf("Dear %s,\n\n", ev.BorrowerName)
	if c.Method == models.MethodPrecompte {
		body += fmt.Sprintf(
			"Your credit of %s has been granted.\n"+
				"Interest of %s was withheld at disbursement, so %s was paid out.\n"+
				"The full amount of %s remains payable by %s.\n",
			c.Principal.StringFixed(2), c.Interest().StringFixed(2),
			c.EffectiveDisbursed().StringFixed(2),
			c.Principal.StringFixed(2), c.MaturityDate.Format("2006-01-02"),
		)
	} else {
		body += fmt.Sprintf(
			"Your credit of %s has been granted and paid out in full.\n"+
				"With interest of %s, a total of %s is payable by %s.\n",
			c.Principal.StringFixed(2), c.Interest().StringFixed(2),
			c.InitialBalance().StringFixed(2), c.MaturityDate.Format("2006-01-02"),
		)
	}
	body += "\nBest regards,\nCOOPEC"

	return s.send(ev.BorrowerEmail, fmt.Sprintf("Credit Granted (ref %s)", ev.Reference), body)
}

// sendCreditSettled confirms the final repayment that cleared a credit.
func (s *Sender) sendCreditSettled(ev models.LedgerEvent) error {
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your payment of %s has settled your credit in full.\n"+
			"Thank you for your trust.\n"+
			"\nBest regards,\nCOOPEC",
		ev.BorrowerName, ev.Amount.StringFixed(2),
	)
	return s.send(ev.BorrowerEmail, fmt.Sprintf("Credit Settled (ref %s)", ev.Reference), body)
}

// sendMaturityNotice warns a borrower that their credit is past due.
func (s *Sender) sendMaturityNotice(ev models.LedgerEvent) error {
	c := ev.Credit
	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your credit reached its maturity date on %s with %s still owing.\n"+
			"Please settle the remaining balance as soon as possible; late settlement lowers your borrower score.\n"+
			"\nBest regards,\nCOOPEC",
		ev.BorrowerName, c.MaturityDate.Format("2006-01-02"), c.RemainingBalance.StringFixed(2),
	)
	return s.send(ev.BorrowerEmail, fmt.Sprintf("Credit Past Due (ref %s)", ev.Reference), body)
}

func (s *Sender) send(to, subject, body string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, subject)
	return nil
}
