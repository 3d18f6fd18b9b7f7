package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ephemeraldb/mysqltest/pkg/mysqlserver"
	"github.com/ephemeraldb/mysqltest/pkg/mysqltest"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var runCmd = cobra.Command{
	Use:   "run",
	Short: "Run an ephemeral MySQL server until interrupted",
	Args:  cobra.NoArgs,
	Run:   runServer,
}

func init() {
	rootCmd.AddCommand(&runCmd)
}

func runServer(cmd *cobra.Command, args []string) {
	opts := mysqlserver.NewOptionsBuilder().
		StartupWait(viper.GetDuration(ConfStartupWait)).
		ShutdownWait(viper.GetDuration(ConfShutdownWait)).
		CommandTimeout(viper.GetDuration(ConfCommandTimeout)).
		Build()
	config := mysqlserver.Config{
		Options: opts,
		Log:     log,
	}
	if dir := viper.GetString(ConfArchiveDir); dir != "" {
		config.Resources = os.DirFS(dir)
	}
	server, err := mysqltest.NewServerWithConfig(config,
		viper.GetString(ConfUser),
		viper.GetString(ConfPassword),
		viper.GetStringSlice(ConfDatabases)...)
	if err != nil {
		log.Fatal("Failed to start MySQL server", zap.Error(err))
	}
	defer server.Close()
	fmt.Println(server.ConnectionString(""))
	log.Info("MySQL server ready",
		zap.Int("port", server.Port()),
		zap.String("version", server.Version()))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Info("Shutting down")
}
