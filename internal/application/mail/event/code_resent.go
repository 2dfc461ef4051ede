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

func (h *MailEventHandler) HandleCodeResent(ctx context.Context, e *verification.CodeResent) error {
	if e == nil {
		return nil
	}
	const op = "mailevent.MailEventHandler.HandleCodeResent"

	l := h.logger.With(slog.String("event", "CodeResent"), slog.Int64("code.id", e.CodeID))
	ctx, span := h.tracer.Start(
		ctx,
		"MailEventHandler.HandleCodeResent",
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
		l.ErrorContext(ctx, "failed to deliver resent verification code",
			slog.String("delivery.kind", string(result.Kind)),
			slog.String("delivery.detail", result.Detail),
		)
		return nil
	}

	l.InfoContext(ctx, "resent verification code delivered")
	return nil
}
