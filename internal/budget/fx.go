package budget

import (
	"github.com/vzwbeheer/ledger/internal/budget/service"
	"go.uber.org/fx"
)

var Module = fx.Module("budget.service",
	fx.Provide(service.NewService),
)
