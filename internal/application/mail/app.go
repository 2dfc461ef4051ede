package mail

import (
	mailevent "github.com/tixoraa/tixoraa-backend/internal/application/mail/event"
)

type App struct {
	Event *mailevent.MailEventHandler
}

type Args struct {
	Mailer mailevent.CodeMailer
}

func NewApp(args Args) *App {
	return &App{
		Event: mailevent.NewMailEventHandler(mailevent.MailEventHandlerArgs{
			Mailer: args.Mailer,
		}),
	}
}
