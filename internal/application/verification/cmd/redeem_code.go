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

type Redeem struct {
	Email string
	Code  string
}

type RedeemHandler struct {
	tracer trace.Tracer
	logger *slog.Logger
	repo   Repo
}

type RedeemHandlerArgs struct {
	Tracer trace.Tracer
	Logger *slog.Logger
	Repo   Repo
}

func NewRedeemHandler(args RedeemHandlerArgs) *RedeemHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &RedeemHandler{
		tracer: args.Tracer,
		logger: args.Logger,
		repo:   args.Repo,
	}
}

// Handle redeems a submitted code. The store does the consumption atomically;
// wrong, expired, used and unknown codes all come back as the same rejection.
func (h *RedeemHandler) Handle(ctx context.Context, cmd Redeem) error {
	const op = "cmd.RedeemHandler.Handle"
	ctx, span := h.tracer.Start(ctx, "RedeemHandler.Handle",
		trace.WithAttributes(attribute.String("email", logging.RedactEmail(cmd.Email))),
	)
	defer span.End()

	v, err := h.repo.ConsumeByEmailAndCode(ctx, cmd.Email, cmd.Code)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to consume verification code")
		return errorx.Wrap(err, op)
	}

	span.AddEvent("verification code redeemed", trace.WithAttributes(
		attribute.Int64("code.id", v.ID()),
		attribute.String("code.purpose", v.Purpose().String()),
	))
	h.logger.InfoContext(ctx, "verification code redeemed",
		slog.String("email", logging.RedactEmail(cmd.Email)),
		slog.Int64("code_id", v.ID()),
	)

	return nil
}
