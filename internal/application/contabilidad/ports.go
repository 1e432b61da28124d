package contabilidad

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hergo/ventas-plus/internal/application/ventas"
	"github.com/hergo/ventas-plus/internal/domain/entity"
)

// RegistroVenta una fila del registro de ventas contable, con los tipos que
// espera la tabla destino. Los importes obligatorios ya vienen con cero en
// lugar de ausente.
type RegistroVenta struct {
	Fecha               time.Time
	NumeroFactura       string
	CodigoAutorizacion  string
	NITCliente          string
	Complemento         string
	RazonSocial         string
	ImporteTotal        decimal.Decimal
	ImporteICE          decimal.Decimal
	ImporteIEHD         decimal.Decimal
	ImporteIPJ          decimal.Decimal
	Tasas               decimal.Decimal
	OtrosNoSujetos      decimal.Decimal
	Exportaciones       decimal.Decimal
	VentasTasaCero      decimal.Decimal
	Subtotal            decimal.Decimal
	Descuentos          decimal.Decimal
	ImporteGiftCard     decimal.Decimal
	ImporteBase         decimal.Decimal
	DebitoFiscal        decimal.Decimal
	Estado              string
	CodigoControl       string
	TipoVenta           string
	ConDerechoCredito   string
	EstadoConsolidacion string
}

// LectorVerificacion puerto de lectura del dataset de verificación ya
// publicado de un periodo.
type LectorVerificacion interface {
	LeerVerificacion(periodo ventas.Periodo) ([]entity.RegistroVerificacion, error)
}

// RepositorioContable puerto a la base contable. El rango de fechas es
// inclusivo en ambos extremos.
type RepositorioContable interface {
	ContarPeriodo(ctx context.Context, desde, hasta time.Time) (int, error)
	EliminarPeriodo(ctx context.Context, desde, hasta time.Time) (int, error)
	InsertarVentas(ctx context.Context, registros []RegistroVenta) (int, error)
}
