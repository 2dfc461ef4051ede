package mailevent

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/tixoraa/tixoraa-backend/internal/domain/valueobject/delivery"
)

var (
	tracer = otel.Tracer("tixoraa/application/mail/event")
	logger = otelslog.NewLogger("tixoraa/application/mail/event")
)

type CodeMailer interface {
	SendCode(ctx context.Context, to, code string, expiresAt time.Time) delivery.Result
}

type MailEventHandler struct {
	tracer trace.Tracer
	logger *slog.Logger
	mailer CodeMailer
}

type MailEventHandlerArgs struct {
	Tracer trace.Tracer
	Logger *slog.Logger
	Mailer CodeMailer
}

func NewMailEventHandler(args MailEventHandlerArgs) *MailEventHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &MailEventHandler{
		tracer: args.Tracer,
		logger: args.Logger,
		mailer: args.Mailer,
	}
}
