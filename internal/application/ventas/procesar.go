package ventas

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hergo/ventas-plus/internal/domain/entity"
	"github.com/hergo/ventas-plus/internal/domain/siat"
	"github.com/hergo/ventas-plus/pkg/logger"
)

// ProcesadorVentas enriquece las filas crudas del export SIAT: coerciona los
// importes a decimal, descarta filas en blanco y decodifica el CUF de cada
// factura. Preserva el orden de entrada y no deduplica (eso es asunto del
// conciliador).
type ProcesadorVentas struct {
	log    *logger.Logger
	avance func(hecho, total int)
}

// NewProcesadorVentas construye el procesador.
func NewProcesadorVentas(log *logger.Logger) *ProcesadorVentas {
	return &ProcesadorVentas{log: log}
}

// ConAvance registra un notificador de progreso que se invoca por fila.
func (p *ProcesadorVentas) ConAvance(avance func(hecho, total int)) *ProcesadorVentas {
	p.avance = avance
	return p
}

// Procesar convierte el lote completo. Una falla de decodificación en una
// fila se registra con su identidad y la fila continúa con los atributos CUF
// en blanco; nunca aborta el lote.
func (p *ProcesadorVentas) Procesar(filas []entity.FilaExportSIAT) []entity.FacturaSIAT {
	facturas := make([]entity.FacturaSIAT, 0, len(filas))
	descartadas := 0

	for i, fila := range filas {
		if p.avance != nil {
			p.avance(i+1, len(filas))
		}
		if fila.Vacia() {
			descartadas++
			continue
		}

		f := entity.FacturaSIAT{
			Fila:                fila.Fila,
			CodigoAutorizacion:  fila.CodigoAutorizacion,
			Fecha:               fila.Fecha,
			NumeroFactura:       fila.NumeroFactura,
			NITCliente:          fila.NITCliente,
			Complemento:         fila.Complemento,
			RazonSocial:         fila.RazonSocial,
			ImporteTotal:        coercionarImporte(fila.ImporteTotal),
			Estado:              fila.Estado,
			ImporteICE:          coercionarImporte(fila.ImporteICE),
			ImporteIEHD:         coercionarImporte(fila.ImporteIEHD),
			ImporteIPJ:          coercionarImporte(fila.ImporteIPJ),
			Tasas:               coercionarImporte(fila.Tasas),
			OtrosNoSujetos:      coercionarImporte(fila.OtrosNoSujetos),
			Exportaciones:       coercionarImporte(fila.Exportaciones),
			VentasTasaCero:      coercionarImporte(fila.VentasTasaCero),
			Subtotal:            coercionarImporte(fila.Subtotal),
			Descuentos:          coercionarImporte(fila.Descuentos),
			ImporteGiftCard:     coercionarImporte(fila.ImporteGiftCard),
			ImporteBase:         coercionarImporte(fila.ImporteBase),
			DebitoFiscal:        coercionarImporte(fila.DebitoFiscal),
			CodigoControl:       fila.CodigoControl,
			TipoVenta:           fila.TipoVenta,
			ConDerechoCredito:   fila.ConDerechoCredito,
			EstadoConsolidacion: fila.EstadoConsolidacion,
		}

		datos, err := siat.DecodificarCUF(fila.CodigoAutorizacion)
		if err != nil {
			p.log.Warn().
				Int("fila", fila.Fila).
				Str("codigo_autorizacion", fila.CodigoAutorizacion).
				Err(err).
				Msg("no se pudo decodificar el código de autorización")
		}
		f.CUF = datos

		facturas = append(facturas, f)
	}

	if descartadas > 0 {
		p.log.Debug().Int("filas", descartadas).Msg("filas en blanco descartadas del export")
	}
	return facturas
}

// coercionarImporte convierte el texto del export a decimal; lo no parseable
// queda como ausente, no como error.
func coercionarImporte(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
