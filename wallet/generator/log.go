package generator

import (
	"github.com/kaspanet/txgenerator/infrastructure/logger"
)

var log, _ = logger.Get(logger.SubsystemTags.TXGN)
