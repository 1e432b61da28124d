package entity

import (
	"github.com/shopspring/decimal"

	"github.com/hergo/ventas-plus/internal/domain/siat"
)

// Estados de factura en el registro de ventas del SIAT. Otros valores del
// export se conservan tal cual.
const (
	EstadoValida  = "VALIDA"
	EstadoAnulada = "ANULADA"
)

// SectorAlquiler facturas de alquiler: categoría contable aparte, fuera del
// alcance del sistema de inventarios.
const SectorAlquiler = "02"

// FilaExportSIAT una fila cruda del export mensual de ventas del SIAT, tal
// como viene de la planilla (todo string, sin interpretar).
type FilaExportSIAT struct {
	Fila int // número de fila dentro de la planilla, para diagnóstico

	Fecha               string // dd/mm/yyyy
	NumeroFactura       string
	CodigoAutorizacion  string // CUF
	NITCliente          string
	Complemento         string
	RazonSocial         string
	ImporteTotal        string
	ImporteICE          string
	ImporteIEHD         string
	ImporteIPJ          string
	Tasas               string
	OtrosNoSujetos      string
	Exportaciones       string
	VentasTasaCero      string
	Subtotal            string
	Descuentos          string
	ImporteGiftCard     string
	ImporteBase         string
	DebitoFiscal        string
	Estado              string
	CodigoControl       string
	TipoVenta           string
	ConDerechoCredito   string
	EstadoConsolidacion string
}

// Vacia indica que la fila no trae ningún dato (filas en blanco del export).
func (f FilaExportSIAT) Vacia() bool {
	return f.Fecha == "" && f.NumeroFactura == "" && f.CodigoAutorizacion == "" &&
		f.NITCliente == "" && f.RazonSocial == "" && f.ImporteTotal == "" && f.Estado == ""
}

// FacturaSIAT una factura del SIAT ya procesada: importes coercionados a
// decimal (ausente cuando no parsea) y atributos del CUF decodificados
// (vacíos cuando la decodificación no aplicó). Inmutable una vez producida.
type FacturaSIAT struct {
	Fila int

	CodigoAutorizacion string
	Fecha              string // dd/mm/yyyy, se compara como string
	NumeroFactura      string
	NITCliente         string
	Complemento        string
	RazonSocial        string
	ImporteTotal       decimal.NullDecimal
	Estado             string

	ImporteICE      decimal.NullDecimal
	ImporteIEHD     decimal.NullDecimal
	ImporteIPJ      decimal.NullDecimal
	Tasas           decimal.NullDecimal
	OtrosNoSujetos  decimal.NullDecimal
	Exportaciones   decimal.NullDecimal
	VentasTasaCero  decimal.NullDecimal
	Subtotal        decimal.NullDecimal
	Descuentos      decimal.NullDecimal
	ImporteGiftCard decimal.NullDecimal
	ImporteBase     decimal.NullDecimal
	DebitoFiscal    decimal.NullDecimal

	CodigoControl       string
	TipoVenta           string
	ConDerechoCredito   string
	EstadoConsolidacion string

	CUF siat.DatosCUF
}

// EsAlquiler sector 02 del CUF.
func (f FacturaSIAT) EsAlquiler() bool {
	return f.CUF.Sector == SectorAlquiler
}
