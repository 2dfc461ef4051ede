package verificationhttp

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	verificationapp "github.com/tixoraa/tixoraa-backend/internal/application/verification"
	"github.com/tixoraa/tixoraa-backend/internal/application/verification/cmd"
	"github.com/tixoraa/tixoraa-backend/internal/domain/verification"
	"github.com/tixoraa/tixoraa-backend/pkg/env"
	"github.com/tixoraa/tixoraa-backend/pkg/errorx"
	"github.com/tixoraa/tixoraa-backend/pkg/httpx"
	"github.com/tixoraa/tixoraa-backend/pkg/logging"
	"github.com/tixoraa/tixoraa-backend/pkg/otelx"
	"github.com/tixoraa/tixoraa-backend/pkg/sanitizex"
	"github.com/tixoraa/tixoraa-backend/pkg/validationx"
)

var (
	tracer = otel.Tracer("tixoraa/internal/ports/http/verification")
	logger = otelslog.NewLogger("tixoraa/internal/ports/http/verification")
)

type HTTP struct {
	tracer     trace.Tracer
	logger     *slog.Logger
	cmd        *verificationapp.Command
	query      *verificationapp.Query
	errhandler *httpx.ErrorHandler
}

type Args struct {
	Tracer     trace.Tracer
	Logger     *slog.Logger
	App        *verificationapp.App
	Errhandler *httpx.ErrorHandler
}

func NewHTTP(args Args) *HTTP {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &HTTP{
		tracer:     args.Tracer,
		logger:     args.Logger,
		cmd:        &args.App.CMD,
		query:      &args.App.Query,
		errhandler: args.Errhandler,
	}
}

func (h *HTTP) Route(r chi.Router) {
	r.Route("/v1/verification", func(r chi.Router) {
		r.Post("/request", h.RequestCode)
		r.Post("/redeem", h.RedeemCode)
		r.Post("/resend", h.ResendCode)
	})

	if env.Current().IsDevLike() {
		r.Get("/dev/verification/codes/{email}", h.ListCodes)
		r.Get("/dev/verification/codes/{email}/latest", h.GetLatestCode)
	}
}

type RequestCodeRequest struct {
	Email    string `json:"email"`
	Purpose  string `json:"purpose,omitempty"`
	Metadata string `json:"metadata,omitempty"`
}

func (r *RequestCodeRequest) Sanitized() {
	r.Email = sanitizex.CleanSingleLine(r.Email)
	r.Purpose = sanitizex.CleanSingleLine(r.Purpose)
}

func (r *RequestCodeRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{
		"email":   logging.RedactEmail(r.Email),
		"purpose": r.Purpose,
	})
}

func (r *RequestCodeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validationx.EmailRules...),
		validation.Field(&r.Purpose, validationx.PurposeRules...),
		validation.Field(&r.Metadata, validation.Length(0, 4096)),
	)
}

func (h *HTTP) RequestCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RequestVerificationCode")
	defer span.End()

	var req RequestCodeRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to read json")
		return
	}

	req.Sanitized()
	req.SetSpanAttrs(span)
	err := req.Validate()
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to validate request body")
		return
	}

	cmd := cmd.RequestCode{
		Email:    req.Email,
		Purpose:  verification.Purpose(req.Purpose),
		Metadata: req.Metadata,
	}
	if err := h.cmd.RequestCode.Handle(ctx, cmd); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to request verification code")
		return
	}

	httpx.Success(w, r, http.StatusAccepted, nil)
}

type RedeemCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (r *RedeemCodeRequest) Sanitized() {
	r.Email = sanitizex.CleanSingleLine(r.Email)
	r.Code = sanitizex.CleanSingleLine(r.Code)
}

func (r *RedeemCodeRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{"email": logging.RedactEmail(r.Email)})
}

func (r *RedeemCodeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validationx.EmailRules...),
		validation.Field(&r.Code, validationx.CodeRules...),
	)
}

func (h *HTTP) RedeemCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RedeemVerificationCode")
	defer span.End()

	var req RedeemCodeRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to read json")
		return
	}

	req.Sanitized()
	req.SetSpanAttrs(span)
	err := req.Validate()
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to validate request body")
		return
	}

	cmd := cmd.Redeem{
		Email: req.Email,
		Code:  req.Code,
	}
	if err := h.cmd.Redeem.Handle(ctx, cmd); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to redeem verification code")
		return
	}

	httpx.Success(w, r, http.StatusOK, nil)
}

type ResendCodeRequest struct {
	Email string `json:"email"`
}

func (r *ResendCodeRequest) Sanitized() {
	r.Email = sanitizex.CleanSingleLine(r.Email)
}

func (r *ResendCodeRequest) SetSpanAttrs(span trace.Span) {
	otelx.SetSpanAttrs(span, map[string]any{"email": logging.RedactEmail(r.Email)})
}

func (r *ResendCodeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validationx.EmailRules...),
	)
}

func (h *HTTP) ResendCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ResendVerificationCode")
	defer span.End()

	var req ResendCodeRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to read json")
		return
	}

	req.Sanitized()
	req.SetSpanAttrs(span)
	err := req.Validate()
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to validate request body")
		return
	}

	cmd := cmd.ResendCode{Email: req.Email}
	if err := h.cmd.ResendCode.Handle(ctx, cmd); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to resend verification code")
		return
	}

	httpx.Success(w, r, http.StatusAccepted, nil)
}

func (h *HTTP) ListCodes(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListVerificationCodes")
	defer span.End()

	email := chi.URLParam(r, "email")
	email = sanitizex.CleanSingleLine(email)

	err := validation.Validate(email, validationx.EmailRules...)
	if err != nil {
		h.errhandler.HandleError(w, r, span, errorx.NewInvalidRequest().WithCause(err), "failed to validate email")
		return
	}

	codes, err := h.query.ListCodes.Handle(ctx, email)
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to list verification codes")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"codes": codes})
}

func (h *HTTP) GetLatestCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetLatestVerificationCode")
	defer span.End()

	email := chi.URLParam(r, "email")
	email = sanitizex.CleanSingleLine(email)

	err := validation.Validate(email, validationx.EmailRules...)
	if err != nil {
		h.errhandler.HandleError(w, r, span, errorx.NewInvalidRequest().WithCause(err), "failed to validate email")
		return
	}

	code, err := h.query.GetLatestCode.Handle(ctx, email)
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to get verification code")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"code": code})
}
