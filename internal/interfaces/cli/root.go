// Package cli comandos de consola de ventas-plus. Cada comando arma sus
// dependencias al ejecutarse: solo se conecta a lo que necesita.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hergo/ventas-plus/internal/application/ventas"
	"github.com/hergo/ventas-plus/pkg/config"
	"github.com/hergo/ventas-plus/pkg/logger"
)

// App dependencias compartidas por todos los comandos.
type App struct {
	Cfg *config.Config
	Log *logger.Logger
}

var (
	flagMes  int
	flagAnio int
)

// NewRootCmd arma el árbol de comandos.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "ventasplus",
		Short: "Procesamiento y verificación del registro de ventas del SIAT",
		Long: `ventas-plus procesa el export mensual de ventas del SIAT, lo resume,
lo verifica contra el sistema de inventarios y puede importar el
resultado a la base contable.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().IntVarP(&flagMes, "mes", "m", 0, "mes a procesar (1-12, default: mes anterior)")
	root.PersistentFlags().IntVarP(&flagAnio, "anio", "a", 0, "año a procesar (default: el del mes anterior)")

	root.AddCommand(newProcesarCmd(app))
	root.AddCommand(newVerificarCmd(app))
	root.AddCommand(newImportarCmd(app))
	return root
}

// periodoDeFlags resuelve el periodo pedido; sin flags se asume el mes
// anterior al actual, que es el último export que el SIAT ya publicó.
func periodoDeFlags() (ventas.Periodo, error) {
	anterior := time.Now().AddDate(0, -1, 0)
	mes, anio := flagMes, flagAnio
	if mes == 0 {
		mes = int(anterior.Month())
	}
	if anio == 0 {
		anio = anterior.Year()
	}
	return ventas.NuevoPeriodo(anio, mes)
}

func imprimirResumen(titulo string, r ventas.Resumen) {
	fmt.Printf("\n=== %s ===\n", titulo)
	fmt.Printf("Facturas:   %d (válidas %d, anuladas %d, alquileres %d)\n",
		r.Filas, r.Validas, r.Anuladas, r.Alquileres)
	fmt.Printf("Total válidas: %s (alquileres %s)\n",
		r.TotalValidas.StringFixed(2), r.ImporteAlquileres.StringFixed(2))
	for _, suc := range r.SucursalesOrdenadas() {
		t := r.Sucursales[suc]
		fmt.Printf("  Sucursal %-4s total %14s  válidas %5d  anuladas %4d\n",
			suc, t.Total.StringFixed(2), t.Validas, t.Anuladas)
	}
}
