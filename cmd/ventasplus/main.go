package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hergo/ventas-plus/internal/interfaces/cli"
	"github.com/hergo/ventas-plus/pkg/config"
	"github.com/hergo/ventas-plus/pkg/logger"
)

func main() {
	// .env es opcional: en producción las variables vienen del entorno.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("configuración inválida: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(&cli.App{Cfg: cfg, Log: log})
	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("comando terminado con error")
		os.Exit(1)
	}
}
