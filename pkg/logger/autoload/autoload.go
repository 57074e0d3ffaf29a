// Package autoload configures the global logger from the environment on
// import. Blank-import it from main.
package autoload

import (
	configx "supervisor-agent/pkg/config"
	logx "supervisor-agent/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
