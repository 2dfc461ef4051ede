package cmd

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tixoraa/tixoraa-backend/pkg/errorx"
	"github.com/tixoraa/tixoraa-backend/pkg/logging"
	"github.com/tixoraa/tixoraa-backend/pkg/otelx"
)

type ResendCode struct {
	Email string
}

type ResendCodeHandler struct {
	tracer trace.Tracer
	logger *slog.Logger
	repo   Repo
}

type ResendCodeHandlerArgs struct {
	Tracer trace.Tracer
	Logger *slog.Logger
	Repo   Repo
}

func NewResendCodeHandler(args ResendCodeHandlerArgs) *ResendCodeHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &ResendCodeHandler{
		tracer: args.Tracer,
		logger: args.Logger,
		repo:   args.Repo,
	}
}

// Handle rotates the outstanding code for the address and triggers another
// delivery. A resend always mints a fresh secret.
func (h *ResendCodeHandler) Handle(ctx context.Context, cmd ResendCode) error {
	const op = "cmd.ResendCodeHandler.Handle"
	ctx, span := h.tracer.Start(ctx, "ResendCodeHandler.Handle",
		trace.WithAttributes(attribute.String("email", logging.RedactEmail(cmd.Email))),
	)
	defer span.End()

	v, err := h.repo.GetLatestByEmail(ctx, cmd.Email)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get latest code by email")
		return errorx.Wrap(err, op)
	}

	if err := v.Resend(); err != nil {
		otelx.RecordSpanError(span, err, "failed to resend code")
		return errorx.Wrap(err, op)
	}

	if err := h.repo.UpdateCode(ctx, v); err != nil {
		otelx.RecordSpanError(span, err, "failed to update resent code")
		return errorx.Wrap(err, op)
	}

	span.AddEvent("verification code resent", trace.WithAttributes(attribute.Int64("code.id", v.ID())))
	h.logger.DebugContext(ctx, "verification code resent",
		slog.String("email", logging.RedactEmail(cmd.Email)),
		slog.Int64("code_id", v.ID()),
	)

	return nil
}
