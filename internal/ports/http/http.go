package http

import (
	"github.com/go-chi/chi/v5"

	verificationapp "github.com/tixoraa/tixoraa-backend/internal/application/verification"
	verificationhttp "github.com/tixoraa/tixoraa-backend/internal/ports/http/verification"
	"github.com/tixoraa/tixoraa-backend/pkg/httpx"
)

type Port struct {
	verification *verificationhttp.HTTP
}

type Args struct {
	VerificationApp *verificationapp.App
	Errhandler      *httpx.ErrorHandler
}

func NewPort(args Args) *Port {
	return &Port{
		verification: verificationhttp.NewHTTP(verificationhttp.Args{
			App:        args.VerificationApp,
			Errhandler: args.Errhandler,
		}),
	}
}

func (p *Port) Route(r chi.Router) chi.Router {
	if r == nil {
		r = chi.NewRouter()
	}

	p.verification.Route(r)

	return r
}
