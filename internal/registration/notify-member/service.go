// internal/registration/notify-member/service.go
package notifymember

import (
	"context"
	"fmt"
	"strings"

	"member-registration/internal/common/errors"
	"member-registration/internal/common/i18n"
	"member-registration/internal/common/logger"
	"member-registration/internal/common/metrics"
	"member-registration/internal/models"

	"golang.org/x/text/language"
)

// Notifier texts the member once their registration has been accepted.
type Notifier struct {
	config  *Config
	sender  SMSSender
	catalog *i18n.Catalog
	tag     language.Tag
	logger  logger.Logger
}

func NewNotifier(deps ServiceDependencies, cfg *Config) *Notifier {
	catalog := deps.Catalog
	if catalog == nil {
		catalog = i18n.Default()
	}
	tag, _ := catalog.ParseTag(cfg.Locale)
	return &Notifier{
		config:  cfg,
		sender:  deps.Sender,
		catalog: catalog,
		tag:     tag,
		logger:  deps.Logger.WithFields(map[string]interface{}{"channel": channelSMS}),
	}
}

// Notify sends the confirmation text. It is a no-op when notifications are
// disabled or no sender is configured.
func (n *Notifier) Notify(ctx context.Context, info models.PersonalInfo) error {
	if !n.config.Enabled || n.sender == nil {
		metrics.NotificationsSent.WithLabelValues(channelSMS, "skipped").Inc()
		return nil
	}

	phone, err := E164(info.PhoneNumber, n.config.CountryCode)
	if err != nil {
		metrics.NotificationsSent.WithLabelValues(channelSMS, "invalid_number").Inc()
		return errors.NewNotificationSendFailedError(channelSMS, err)
	}

	text := n.catalog.Text(n.tag, i18n.MsgRegistered, info.FullName)
	messageID, err := n.sender.SendSMS(ctx, phone, text, n.config.SenderID)
	if err != nil {
		metrics.NotificationsSent.WithLabelValues(channelSMS, "failed").Inc()
		return errors.NewNotificationSendFailedError(channelSMS, err)
	}

	metrics.NotificationsSent.WithLabelValues(channelSMS, "sent").Inc()
	n.logger.Info("registration confirmation sent", map[string]interface{}{
		"messageId": messageID,
	})
	return nil
}

// E164 converts a locally written phone number to +<country><subscriber>.
func E164(phone, countryCode string) (string, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return "", fmt.Errorf("phone number contains %q", r)
		}
	}
	digits := b.String()

	switch {
	case strings.HasPrefix(digits, "+"):
	case strings.HasPrefix(digits, "00"):
		digits = "+" + digits[2:]
	case strings.HasPrefix(digits, "0"):
		digits = "+" + countryCode + digits[1:]
	case countryCode != "" && strings.HasPrefix(digits, countryCode):
		digits = "+" + digits
	default:
		digits = "+" + countryCode + digits
	}

	if n := len(digits) - 1; n < 8 || n > 15 {
		return "", fmt.Errorf("phone number has %d digits", n)
	}
	return digits, nil
}
