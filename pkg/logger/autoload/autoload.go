// Package autoload initializes the global zerolog logger from LOGGER_*
// environment variables as a side effect of being imported.
package autoload

import (
	"github.com/kelseyhightower/envconfig"

	logx "github.com/agentdesk/agentdesk/pkg/logger"
)

func init() {
	var conf logx.Config
	if err := envconfig.Process("LOGGER", &conf); err != nil {
		conf = *logx.DefaultConfig
	}
	logx.Init(conf)
}
