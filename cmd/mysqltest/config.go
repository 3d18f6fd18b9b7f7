package main

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config keys.
const (
	ConfUser      = "server.user"
	ConfPassword  = "server.password"
	ConfDatabases = "server.databases"

	ConfStartupWait    = "server.startup_wait"
	ConfShutdownWait   = "server.shutdown_wait"
	ConfCommandTimeout = "server.command_timeout"

	ConfArchiveDir = "server.archive_dir"
)

func init() {
	viper.SetDefault(ConfUser, "mysqltest")
	viper.SetDefault(ConfPassword, "mysqltest")
	viper.SetDefault(ConfDatabases, []string{})
	viper.SetDefault(ConfStartupWait, 10*time.Second)
	viper.SetDefault(ConfShutdownWait, 10*time.Second)
	viper.SetDefault(ConfCommandTimeout, 30*time.Second)
	viper.SetDefault(ConfArchiveDir, "")
	viper.SetEnvPrefix("mysqltest")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}
