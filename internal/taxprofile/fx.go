package taxprofile

import (
	"github.com/smallbiznis/taxdesk/internal/taxprofile/repository"
	"github.com/smallbiznis/taxdesk/internal/taxprofile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("taxprofile.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
