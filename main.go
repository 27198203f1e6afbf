package main

import (
	"fmt"
	"os"

	"projectflow/config"
	"projectflow/connection"
	"projectflow/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	gin.SetMode(gin.ReleaseMode)
	if err := connection.StartServer(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
