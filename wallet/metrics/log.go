package metrics

import (
	"github.com/kaspanet/txgenerator/infrastructure/logger"
)

var log, _ = logger.Get(logger.SubsystemTags.TXMT)
