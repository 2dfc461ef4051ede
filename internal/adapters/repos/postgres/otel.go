package postgres

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
)

var (
	tracer = otel.Tracer("tixoraa/internal/adapters/repos/postgres")
	logger = otelslog.NewLogger("tixoraa/internal/adapters/repos/postgres")
)
