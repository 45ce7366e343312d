package invoice

import (
	"github.com/vzwbeheer/ledger/internal/invoice/service"
	"github.com/vzwbeheer/ledger/internal/sequence"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	sequence.Module,
	fx.Provide(service.NewService),
)
