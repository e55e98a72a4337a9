package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/tu-usuario/inventario-inei/internal/auth"
	"github.com/tu-usuario/inventario-inei/internal/gateway"
	"github.com/tu-usuario/inventario-inei/internal/interfaces/console"
	"github.com/tu-usuario/inventario-inei/internal/session"
	"github.com/tu-usuario/inventario-inei/pkg/config"
	"github.com/tu-usuario/inventario-inei/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "warn", // la consola es la UI; el log no debe pisarla
	})

	store, err := session.NewFileStore(os.Getenv("SESSION_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de sesión")
	}

	notifier := console.NewNotifier(os.Stdout)

	// El hook global de 401 limpia el store en el gateway; aquí solo cae el
	// estado del controlador para que el bucle vuelva al login.
	var ctrl *auth.Controller
	api, err := gateway.New(cfg.API.BaseURL, store, cfg.API.Timeout, log, func(mensaje string) {
		notifier.Error(mensaje)
		if ctrl != nil {
			ctrl.MarkExpired()
		}
	})
	if err != nil {
		log.Fatal().Err(err).Msg("cliente del backend")
	}
	ctrl = auth.New(api, store, notifier, log)

	app := console.NewApp(cfg, ctrl, api, log, os.Stdin, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("la aplicación terminó con error")
	}
}
