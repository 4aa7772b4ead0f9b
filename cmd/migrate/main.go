// Command migrate aplica las migraciones embebidas y verifica que el esquema quede completo.
package main

import (
	"context"
	"time"

	"github.com/jhoicas/Panaderia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Panaderia-api/pkg/config"
	"github.com/jhoicas/Panaderia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "migrate"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	if err := postgres.VerifySchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("esquema incompleto")
	}
	log.Info().Int("applied", applied).Msg("migraciones al día")
}
