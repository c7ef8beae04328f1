package recommendation

import (
	"github.com/labsupply/smartpricing/internal/recommendation/repository"
	"github.com/labsupply/smartpricing/internal/recommendation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("recommendation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
