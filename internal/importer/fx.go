package importer

import (
	"github.com/labsupply/smartpricing/internal/importer/repository"
	"github.com/labsupply/smartpricing/internal/importer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("importer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
