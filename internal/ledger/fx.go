package ledger

import (
	"github.com/vzwbeheer/ledger/internal/ledger/repository"
	"github.com/vzwbeheer/ledger/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
