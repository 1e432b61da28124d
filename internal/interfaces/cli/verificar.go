package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hergo/ventas-plus/internal/application/contabilidad"
	"github.com/hergo/ventas-plus/internal/application/ventas"
	"github.com/hergo/ventas-plus/internal/infrastructure/archivo"
	"github.com/hergo/ventas-plus/internal/infrastructure/postgres"
	"github.com/hergo/ventas-plus/internal/infrastructure/siatexport"
)

func newVerificarCmd(app *App) *cobra.Command {
	var (
		importar   bool
		reemplazar bool
	)

	cmd := &cobra.Command{
		Use:   "verificar",
		Short: "Verifica la consistencia entre el SIAT y el sistema de inventarios",
		Long: `Cruza el export mensual del SIAT contra las facturas del sistema de
inventarios, genera los archivos de verificación y discrepancias del
periodo y muestra el resumen del cruce. Con --importar el dataset de
verificación se lleva además a la base contable.`,
		Example: `  ventasplus verificar -m 07 -a 2026
  ventasplus verificar --importar --reemplazar`,
		RunE: func(cmd *cobra.Command, args []string) error {
			periodo, err := periodoDeFlags()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			pool, err := postgres.NewPool(ctx, app.Cfg.DB)
			if err != nil {
				return fmt.Errorf("conectar a la base de inventarios: %w", err)
			}
			defer pool.Close()

			almacen := archivo.NewAlmacen(app.Cfg.Datos.Dir, app.Log)
			verificador := ventas.NewVerificadorConsistencia(
				siatexport.NewLectorExport(app.Cfg.Datos.Dir, app.Log),
				postgres.NewInventarioRepository(pool),
				almacen,
				app.Log,
			)
			resultado, err := verificador.Verificar(ctx, periodo)
			if err != nil {
				return err
			}
			imprimirVerificacion(resultado)

			if !importar {
				return nil
			}
			return importarPeriodo(ctx, app, almacen, periodo, reemplazar)
		},
	}

	cmd.Flags().BoolVar(&importar, "importar", false, "importar la verificación a la base contable")
	cmd.Flags().BoolVar(&reemplazar, "reemplazar", false, "reemplazar registros existentes del periodo al importar")
	return cmd
}

func imprimirVerificacion(r *ventas.ResultadoVerificacion) {
	imprimirResumen(fmt.Sprintf("Ventas SIAT %s", r.Periodo), r.ResumenSIAT)
	imprimirResumen(fmt.Sprintf("Inventarios %s", r.Periodo), r.ResumenInventario)

	res := r.Conciliacion.Resumen
	fmt.Printf("\n=== Verificación %s ===\n", r.Periodo)
	fmt.Printf("SIAT: %d facturas (%d sin alquileres)  Inventario: %d facturas\n",
		res.TotalSIAT, res.TotalSIATSinAlquileres, res.TotalInventario)
	fmt.Printf("Coincidentes: %d  Faltan en inventario: %d  Faltan en SIAT: %d\n",
		res.Coincidentes, res.FaltantesEnInventario, res.FaltantesEnSIAT)
	fmt.Printf("Diferencias de importe: %d (acumulada %s)\n",
		res.ConDiferenciaImporte, res.DiferenciaImporte.StringFixed(2))
	fmt.Printf("Discrepancias: %d\n", len(r.Conciliacion.Discrepancias))
	fmt.Printf("\nArchivos generados:\n  %s\n  %s\n", r.RutaVerificacion, r.RutaDiscrepancias)
}

// importarPeriodo conecta a la base contable e importa la verificación ya
// generada del periodo.
func importarPeriodo(ctx context.Context, app *App, lector contabilidad.LectorVerificacion, periodo ventas.Periodo, reemplazar bool) error {
	pool, err := postgres.NewPool(ctx, app.Cfg.ContaDB)
	if err != nil {
		return fmt.Errorf("conectar a la base contable: %w", err)
	}
	defer pool.Close()

	importador := contabilidad.NewImportador(lector, postgres.NewContabilidadRepository(pool), app.Log)
	resultado, err := importador.Importar(ctx, periodo, reemplazar)
	if err != nil {
		return err
	}
	fmt.Printf("\n=== Importación contable %s ===\n", periodo)
	fmt.Printf("Leídos: %d  Importados: %d  Sin lado SIAT: %d  Duplicados: %d\n",
		resultado.Leidos, resultado.Importados, resultado.SinSIAT, resultado.Duplicados)
	if resultado.Eliminados > 0 {
		fmt.Printf("Registros previos eliminados: %d\n", resultado.Eliminados)
	}
	return nil
}
