package shipping

import (
	"github.com/labsupply/smartpricing/internal/shipping/service"
	"go.uber.org/fx"
)

var Module = fx.Module("shipping.service",
	fx.Provide(service.New),
)
