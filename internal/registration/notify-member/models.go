// internal/registration/notify-member/models.go
package notifymember

import (
	"context"

	"member-registration/internal/common/i18n"
	"member-registration/internal/common/logger"
)

const channelSMS = "sms"

// SMSSender delivers a text message. aws.SNSClient satisfies it.
type SMSSender interface {
	SendSMS(ctx context.Context, phoneNumber, message, senderID string) (string, error)
}

type ServiceDependencies struct {
	Logger  logger.Logger
	Sender  SMSSender
	Catalog *i18n.Catalog
}
