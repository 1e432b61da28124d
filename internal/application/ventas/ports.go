package ventas

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hergo/ventas-plus/internal/domain"
	"github.com/hergo/ventas-plus/internal/domain/entity"
)

// Periodo identifica la unidad de trabajo: un mes contable.
type Periodo struct {
	Anio int
	Mes  int
}

// NuevoPeriodo valida mes 1-12 y un rango razonable de años.
func NuevoPeriodo(anio, mes int) (Periodo, error) {
	if mes < 1 || mes > 12 {
		return Periodo{}, fmt.Errorf("%w: mes %d fuera de 1-12", domain.ErrPeriodoInvalido, mes)
	}
	if anio < 2000 || anio > 2100 {
		return Periodo{}, fmt.Errorf("%w: año %d fuera de 2000-2100", domain.ErrPeriodoInvalido, anio)
	}
	return Periodo{Anio: anio, Mes: mes}, nil
}

// String formato MM/YYYY para logs y mensajes.
func (p Periodo) String() string {
	return fmt.Sprintf("%02d/%d", p.Mes, p.Anio)
}

// Sufijo formato MM_YYYY usado en nombres de archivo.
func (p Periodo) Sufijo() string {
	return fmt.Sprintf("%02d_%d", p.Mes, p.Anio)
}

// FuenteSIAT puerto de entrada del export mensual de ventas del SIAT.
// Devuelve domain.ErrSinDatos cuando el archivo del periodo no existe o no
// contiene planilla legible, y domain.ErrColumnaFaltante cuando la planilla
// existe pero le falta una columna requerida (precondición fatal).
type FuenteSIAT interface {
	ObtenerVentas(ctx context.Context, periodo Periodo) ([]entity.FilaExportSIAT, error)
}

// RepositorioInventario puerto de consulta al sistema de inventarios.
type RepositorioInventario interface {
	FacturasDelPeriodo(ctx context.Context, periodo Periodo) ([]entity.FacturaInventario, error)
}

// ClienteHergo puerto a la API de reportes de ventas de Hergo.
// sucursal nil consulta el total general.
type ClienteHergo interface {
	TotalVentas(ctx context.Context, periodo Periodo, sucursal *int) (decimal.Decimal, error)
}

// EscritorVerificacion persiste los datasets resultantes de la conciliación.
// Devuelve la ruta del archivo escrito.
type EscritorVerificacion interface {
	GuardarVerificacion(periodo Periodo, registros []entity.RegistroVerificacion) (string, error)
	GuardarDiscrepancias(periodo Periodo, registros []entity.RegistroVerificacion) (string, error)
}
