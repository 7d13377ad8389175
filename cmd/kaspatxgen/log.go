package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kaspanet/txgenerator/infrastructure/logger"
	"github.com/kaspanet/txgenerator/util/panics"
)

var (
	backendLog = logger.BackendLog
	log, _     = logger.Get(logger.SubsystemTags.KTXG)
	spawn      = panics.GoroutineWrapperFunc(log)
)

const (
	defaultLogFilename    = "kaspatxgen.log"
	defaultErrLogFilename = "kaspatxgen_err.log"
)

// initLog starts the logging backend. Logs go to logDir when it is set and
// to stdout otherwise.
func initLog(logDir, logLevel string) {
	if logDir != "" {
		logger.InitLog(filepath.Join(logDir, defaultLogFilename), filepath.Join(logDir, defaultErrLogFilename))
	} else {
		logger.InitLogStdout(logger.LevelInfo)
	}

	err := logger.ParseAndSetLogLevels(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
