package cli

import (
	"github.com/spf13/cobra"

	"github.com/hergo/ventas-plus/internal/infrastructure/archivo"
)

func newImportarCmd(app *App) *cobra.Command {
	var reemplazar bool

	cmd := &cobra.Command{
		Use:   "importar",
		Short: "Importa la verificación de un periodo a la base contable",
		Long: `Lee el archivo de verificación ya generado del periodo y lo importa al
registro de ventas de la base contable. Si el periodo ya tiene registros
el comando falla, salvo que se pida --reemplazar.`,
		Example: `  ventasplus importar -m 07 -a 2026
  ventasplus importar -m 07 -a 2026 --reemplazar`,
		RunE: func(cmd *cobra.Command, args []string) error {
			periodo, err := periodoDeFlags()
			if err != nil {
				return err
			}
			almacen := archivo.NewAlmacen(app.Cfg.Datos.Dir, app.Log)
			return importarPeriodo(cmd.Context(), app, almacen, periodo, reemplazar)
		},
	}

	cmd.Flags().BoolVar(&reemplazar, "reemplazar", false, "reemplazar registros existentes del periodo")
	return cmd
}
