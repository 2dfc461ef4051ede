package mail

import (
	"context"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/tixoraa/tixoraa-backend/internal/domain/valueobject/delivery"
	"github.com/tixoraa/tixoraa-backend/pkg/env"
	"github.com/tixoraa/tixoraa-backend/pkg/logging"
)

var (
	tracer = otel.Tracer("tixoraa/internal/adapters/mail")
	logger = otelslog.NewLogger("tixoraa/internal/adapters/mail")
)

// ResendMailer delivers verification codes through the Resend API. In test
// and local modes it only logs, so the full flow runs without an API key.
type ResendMailer struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	client  *resend.Client
	from    string
	appName string
	mode    env.Mode
}

type ResendMailerArgs struct {
	Tracer  trace.Tracer
	Logger  *slog.Logger
	APIKey  string
	From    string
	AppName string
	Mode    env.Mode
}

func NewResendMailer(args ResendMailerArgs) *ResendMailer {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}
	if args.AppName == "" {
		args.AppName = "Tixoraa"
	}

	var client *resend.Client
	if args.APIKey != "" {
		client = resend.NewClient(args.APIKey)
	}

	return &ResendMailer{
		tracer:  args.Tracer,
		logger:  args.Logger,
		client:  client,
		from:    args.From,
		appName: args.AppName,
		mode:    args.Mode,
	}
}

// SendCode delivers one verification code and reports the tagged outcome.
// It never returns an error; every failure mode maps to a delivery.Result.
func (m *ResendMailer) SendCode(ctx context.Context, to, code string, expiresAt time.Time) delivery.Result {
	ctx, span := m.tracer.Start(ctx, "ResendMailer.SendCode")
	defer span.End()

	if m.mode == env.Test || m.mode == env.Local || m.client == nil {
		m.logger.InfoContext(ctx, "email sent (log only)",
			slog.String("to", logging.RedactEmail(to)),
			slog.String("code", logging.RedactCode(code)),
			slog.Time("expires_at", expiresAt),
		)
		return delivery.Ok()
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: verificationSubject,
		Text:    verificationText(m.appName, code, expiresAt),
		Html:    verificationHTML(m.appName, code, expiresAt),
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		result := classifyDeliveryError(err)
		m.logger.ErrorContext(ctx, "email delivery failed",
			slog.String("to", logging.RedactEmail(to)),
			slog.String("kind", string(result.Kind)),
			slog.String("detail", result.Detail),
		)
		return result
	}

	m.logger.InfoContext(ctx, "email sent",
		slog.String("to", logging.RedactEmail(to)),
		slog.String("provider_id", sent.Id),
	)
	return delivery.Ok()
}
