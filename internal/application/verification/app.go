package verification

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tixoraa/tixoraa-backend/internal/application/verification/cmd"
	"github.com/tixoraa/tixoraa-backend/internal/application/verification/query"
	"github.com/tixoraa/tixoraa-backend/pkg/env"
)

type App struct {
	CMD   Command
	Query Query
}

type Command struct {
	RequestCode *cmd.RequestCodeHandler
	Redeem      *cmd.RedeemHandler
	ResendCode  *cmd.ResendCodeHandler
}

type Query struct {
	ListCodes     *query.ListCodesHandler
	GetLatestCode *query.GetLatestCodeHandler
}

type Args struct {
	Mode env.Mode
	Repo cmd.Repo
	Pool *pgxpool.Pool
}

func NewApp(args Args) *App {
	return &App{
		CMD: Command{
			RequestCode: cmd.NewRequestCodeHandler(cmd.RequestCodeHandlerArgs{
				Mode: args.Mode,
				Repo: args.Repo,
			}),
			Redeem: cmd.NewRedeemHandler(cmd.RedeemHandlerArgs{
				Repo: args.Repo,
			}),
			ResendCode: cmd.NewResendCodeHandler(cmd.ResendCodeHandlerArgs{
				Repo: args.Repo,
			}),
		},
		Query: Query{
			ListCodes:     query.NewListCodesHandler(args.Pool),
			GetLatestCode: query.NewGetLatestCodeHandler(args.Pool),
		},
	}
}
