package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/swarna-khata-api/internal/app"
	"github.com/jhoicas/swarna-khata-api/internal/infrastructure/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones SQL pendientes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		defer pool.Close()
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "sin migraciones pendientes")
			return nil
		}
		for _, name := range applied {
			fmt.Fprintln(cmd.OutOrStdout(), "aplicada:", name)
		}
		return nil
	},
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Verifica la integridad de las facturas de una tienda",
	Long: `Recalcula totales, estado de pago y pagos de cada factura y reporta las inconsistencias.
Termina con error si encuentra alguna.`,
	Example: `  khatactl audit --shop 6f1c...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		shopID, _ := cmd.Flags().GetString("shop")
		return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
			results, checked, err := c.Invoices.AuditAll(ctx, shopID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range results {
				fmt.Fprintf(out, "%s (%s)\n", r.InvoiceNumber, r.InvoiceID)
				for _, issue := range r.Issues {
					fmt.Fprintf(out, "  - [%s] %s\n", issue.Code, issue.Message)
				}
			}
			fmt.Fprintf(out, "%d facturas revisadas, %d con inconsistencias\n", checked, len(results))
			if len(results) > 0 {
				return fmt.Errorf("auditoría: %d facturas inconsistentes", len(results))
			}
			return nil
		})
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge-recycled",
	Short: "Borra definitivamente los registros de la papelera con más de 30 días",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
			n, err := c.RecycleBin.PurgeExpired(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d registros purgados\n", n)
			return nil
		})
	},
}

var notifyExpiringCmd = &cobra.Command{
	Use:   "notify-expiring",
	Short: "Avisa a las tiendas cuya suscripción vence pronto",
	RunE: func(cmd *cobra.Command, args []string) error {
		within, _ := cmd.Flags().GetDuration("within")
		return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
			n, err := c.Subscriptions.NotifyExpiring(ctx, within)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d tiendas notificadas\n", n)
			return nil
		})
	},
}

func withContainer(ctx context.Context, fn func(context.Context, *app.Container) error) error {
	c, err := app.Open(ctx, cfg, log.WithComponent("khatactl"))
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}

func init() {
	auditCmd.Flags().String("shop", "", "ID de la tienda")
	_ = auditCmd.MarkFlagRequired("shop")
	notifyExpiringCmd.Flags().Duration("within", 72*time.Hour, "Ventana antes del vencimiento")

	rootCmd.AddCommand(migrateCmd, auditCmd, purgeCmd, notifyExpiringCmd)
}
