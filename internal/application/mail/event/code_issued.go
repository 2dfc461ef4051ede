package mailevent

import (
	"context"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tixoraa/tixoraa-backend/internal/domain/verification"
	"github.com/tixoraa/tixoraa-backend/pkg/errorx"
	"github.com/tixoraa/tixoraa-backend/pkg/logging"
	"github.com/tixoraa/tixoraa-backend/pkg/otelx"
)

// HandleCodeIssued delivers the freshly issued code. Delivery failures are
// logged and swallowed: the message is acked either way, and the stored code
// stays redeemable so the user can ask for a resend.
func (h *MailEventHandler) HandleCodeIssued(ctx context.Context, e *verification.CodeIssued) error {
	if e == nil {
		return nil
	}
	const op = "mailevent.MailEventHandler.HandleCodeIssued"

	l := h.logger.With(slog.String("event", "CodeIssued"), slog.Int64("code.id", e.CodeID))
	ctx, span := h.tracer.Start(
		ctx,
		"MailEventHandler.HandleCodeIssued",
		trace.WithNewRoot(),
		trace.WithLinks(trace.LinkFromContext(otelx.ContextFromExtractor(e))),
		trace.WithAttributes(
			attribute.Int64("event.code.id", e.CodeID),
			attribute.String("event.code.email", logging.RedactEmail(e.Email)),
		),
	)
	defer span.End()

	err := validation.ValidateStruct(e,
		validation.Field(&e.Email, validation.Required, is.EmailFormat),
		validation.Field(&e.Code, validation.Required),
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "validation failed")
		l.ErrorContext(ctx, "validation failed", slog.Any("error", err))
		return errorx.Wrap(err, op)
	}

	result := h.mailer.SendCode(ctx, e.Email, e.Code, e.ExpiresAt)
	if !result.Success() {
		span.AddEvent("delivery failed", trace.WithAttributes(
			attribute.String("delivery.kind", string(result.Kind)),
		))
		l.ErrorContext(ctx, "failed to deliver verification code",
			slog.String("delivery.kind", string(result.Kind)),
			slog.String("delivery.detail", result.Detail),
		)
		return nil
	}

	l.InfoContext(ctx, "verification code delivered")
	return nil
}
