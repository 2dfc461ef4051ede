package cmd

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tixoraa/tixoraa-backend/internal/domain/verification"
	"github.com/tixoraa/tixoraa-backend/pkg/env"
	"github.com/tixoraa/tixoraa-backend/pkg/errorx"
	"github.com/tixoraa/tixoraa-backend/pkg/logging"
	"github.com/tixoraa/tixoraa-backend/pkg/otelx"
)

var (
	tracer = otel.Tracer("tixoraa/application/verification/cmd")
	logger = otelslog.NewLogger("tixoraa/application/verification/cmd")
)

type RequestCode struct {
	Email    string
	UserID   uuid.UUID
	Purpose  verification.Purpose
	Metadata string
}

type RequestCodeHandler struct {
	tracer trace.Tracer
	logger *slog.Logger
	mode   env.Mode
	repo   Repo
}

type RequestCodeHandlerArgs struct {
	Tracer trace.Tracer
	Logger *slog.Logger
	Mode   env.Mode
	Repo   Repo
}

func NewRequestCodeHandler(args RequestCodeHandlerArgs) *RequestCodeHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &RequestCodeHandler{
		tracer: args.Tracer,
		logger: args.Logger,
		mode:   args.Mode,
		repo:   args.Repo,
	}
}

// Handle issues a verification code for the address. If a redeemable code is
// already outstanding the old one is rotated instead of stacking a second
// active secret, subject to the resend cooldown.
func (h *RequestCodeHandler) Handle(ctx context.Context, cmd RequestCode) error {
	const op = "cmd.RequestCodeHandler.Handle"
	ctx, span := h.tracer.Start(ctx, "RequestCodeHandler.Handle",
		trace.WithAttributes(attribute.String("email", logging.RedactEmail(cmd.Email))),
	)
	defer span.End()

	existing, err := h.repo.GetLatestByEmail(ctx, cmd.Email)
	if err != nil && !errorx.IsNotFound(err) {
		otelx.RecordSpanError(span, err, "failed to get latest code by email")
		return errorx.Wrap(err, op)
	}

	if existing != nil {
		span.AddEvent("active code found, rotating instead of issuing")
		if err := existing.Resend(); err != nil {
			otelx.RecordSpanError(span, err, "failed to rotate active code")
			return errorx.Wrap(err, op)
		}
		if err := h.repo.UpdateCode(ctx, existing); err != nil {
			otelx.RecordSpanError(span, err, "failed to update rotated code")
			return errorx.Wrap(err, op)
		}
		return nil
	}

	v, err := verification.NewCode(verification.NewCodeArgs{
		Email:    cmd.Email,
		UserID:   cmd.UserID,
		Purpose:  cmd.Purpose,
		Metadata: cmd.Metadata,
	}, h.mode)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to create verification code")
		return errorx.Wrap(err, op)
	}

	if err := h.repo.SaveCode(ctx, v); err != nil {
		otelx.RecordSpanError(span, err, "failed to save verification code")
		return errorx.Wrap(err, op)
	}

	span.AddEvent("verification code issued", trace.WithAttributes(
		attribute.Int64("code.id", v.ID()),
		attribute.String("code.purpose", v.Purpose().String()),
	))
	h.logger.DebugContext(ctx, "verification code issued",
		slog.String("email", logging.RedactEmail(cmd.Email)),
		slog.Int64("code_id", v.ID()),
	)

	return nil
}
