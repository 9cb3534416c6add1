package mail

import (
	"context"

	"github.com/Huve14/Go-Moto-sub000/internal/config"
	maildomain "github.com/Huve14/Go-Moto-sub000/internal/mail/domain"
	"github.com/Huve14/Go-Moto-sub000/internal/mail/httpapi"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("mail",
	fx.Provide(NewSender),
)

// NewSender picks the real API client when credentials are configured and a
// log-only sender otherwise, so development environments never email anyone.
func NewSender(cfg config.Config, log *zap.Logger) maildomain.Sender {
	if cfg.Mail.APIURL != "" && cfg.Mail.APIKey != "" {
		return httpapi.NewSender(cfg.Mail.APIURL, cfg.Mail.APIKey, cfg.Mail.FromEmail, log)
	}
	log.Warn("mail credentials missing, outbound email disabled")
	return logSender{log: log.Named("mail.log")}
}

type logSender struct {
	log *zap.Logger
}

func (s logSender) Send(_ context.Context, msg maildomain.Message) error {
	s.log.Info("email suppressed",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}
