package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/swarna-khata-api/pkg/config"
	"github.com/jhoicas/swarna-khata-api/pkg/logger"
)

var (
	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "khatactl",
	Short: "Tareas de mantenimiento de Swarna Khata",
	Long: `khatactl ejecuta tareas de mantenimiento contra la base de datos de la API.

Lee la misma configuración que el servidor (variables de entorno o .env);
DATABASE_URL o DB_HOST son obligatorios.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		level, _ := cmd.Flags().GetString("log-level")
		log = logger.New(logger.Config{Env: cfg.App.Env, Level: level, Output: os.Stderr})
		if !cfg.DB.Enabled() {
			return fmt.Errorf("khatactl necesita una base de datos: defina DATABASE_URL o DB_HOST")
		}
		return nil
	},
}

// Execute corre el comando raíz y termina con código 1 si falla.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Nivel de log (debug, info, warn, error)")
}
