package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hergo/ventas-plus/internal/application/ventas"
	"github.com/hergo/ventas-plus/internal/infrastructure/hergo"
	"github.com/hergo/ventas-plus/internal/infrastructure/siatexport"
	"github.com/hergo/ventas-plus/pkg/progreso"
)

func newProcesarCmd(app *App) *cobra.Command {
	var contrastar bool

	cmd := &cobra.Command{
		Use:   "procesar",
		Short: "Procesa el export de ventas del SIAT y muestra el resumen del periodo",
		Long: `Lee el export mensual de ventas del SIAT, decodifica los códigos de
autorización y muestra el resumen por estado y sucursal. Con --contrastar
compara además los totales por sucursal contra los reportes de Hergo.`,
		Example: `  ventasplus procesar -m 07 -a 2026
  ventasplus procesar --contrastar`,
		RunE: func(cmd *cobra.Command, args []string) error {
			periodo, err := periodoDeFlags()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			lector := siatexport.NewLectorExport(app.Cfg.Datos.Dir, app.Log)
			filas, err := lector.ObtenerVentas(ctx, periodo)
			if err != nil {
				return err
			}
			barra := progreso.Nueva(os.Stdout, "Decodificando CUF")
			facturas := ventas.NewProcesadorVentas(app.Log).ConAvance(barra.Avanzar).Procesar(filas)
			imprimirResumen(fmt.Sprintf("Ventas SIAT %s", periodo), ventas.Resumir(ventas.FilasDesdeSIAT(facturas)))

			if !contrastar {
				return nil
			}
			cliente, err := hergo.NewClient(app.Cfg.Hergo, app.Log)
			if err != nil {
				return fmt.Errorf("no se puede contrastar contra Hergo: %w", err)
			}
			contraste := progreso.Nueva(os.Stdout, "Consultando Hergo")
			comparaciones := ventas.NewComparadorTotales(cliente, app.Log).
				ConAvance(contraste.Avanzar).
				Comparar(ctx, periodo, facturas)
			imprimirComparaciones(comparaciones)
			return nil
		},
	}

	cmd.Flags().BoolVar(&contrastar, "contrastar", false, "comparar totales por sucursal contra Hergo")
	return cmd
}

func imprimirComparaciones(comparaciones []ventas.ComparacionTotales) {
	fmt.Println("\n=== Contraste SIAT vs Hergo ===")
	for _, c := range comparaciones {
		if !c.TotalHergo.Valid {
			fmt.Printf("  %-11s SIAT %14s  Hergo sin datos\n", c.Sucursal, c.TotalSIAT.StringFixed(2))
			continue
		}
		marca := "OK"
		if !c.Coincide {
			marca = "DIFIERE"
		}
		fmt.Printf("  %-11s SIAT %14s  Hergo %14s  dif %12s  %s\n",
			c.Sucursal, c.TotalSIAT.StringFixed(2), c.TotalHergo.Decimal.StringFixed(2),
			c.Diferencia.Decimal.StringFixed(2), marca)
	}
}
