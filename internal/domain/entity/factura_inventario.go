package entity

import "github.com/shopspring/decimal"

// Estados de factura en el sistema de inventarios (una letra).
const (
	EstadoInventarioValida  = "V"
	EstadoInventarioAnulada = "A"
)

// FacturaInventario una factura del sistema de inventarios (Hergo) para el
// periodo conciliado. Proviene completa de la base de datos; inmutable.
type FacturaInventario struct {
	Autorizacion   string // CUF registrado por el facturador; clave de cruce
	Fecha          string // dd/mm/yyyy, mismo formato que el export SIAT
	NumeroFactura  string
	CodigoSucursal string
	NIT            string
	Complemento    string
	RazonSocial    string
	ImporteTotal   decimal.NullDecimal
	Subtotal       decimal.NullDecimal
	Base           decimal.NullDecimal
	Debito         decimal.NullDecimal
	Estado         string // V / A
	CodigoControl  string
	TipoVenta      string

	// Metadatos operativos que viajan al archivo de verificación.
	Almacen         string
	TipoFacturacion string // SIAT-DESKTOP-FE u ONLINE
	Observacion     string
	Autor           string
}

// EstadoComparable mapea V/A a VALIDA/ANULADA para comparar contra el SIAT.
// Cualquier otra letra se compara literal (y no va a coincidir).
func (f FacturaInventario) EstadoComparable() string {
	switch f.Estado {
	case EstadoInventarioValida:
		return EstadoValida
	case EstadoInventarioAnulada:
		return EstadoAnulada
	default:
		return f.Estado
	}
}
