package config

import "go.uber.org/fx"

// Module provides the env-derived Config and the hot-reloadable invoicing
// defaults.
var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewInvoicingConfigHolder),
)
