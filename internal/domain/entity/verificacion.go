package entity

import "github.com/shopspring/decimal"

// RegistroVerificacion una fila del dataset unificado de verificación: el
// resultado del join externo SIAT ↔ inventarios para un código de
// autorización. Exactamente un registro por código presente en cualquiera de
// los dos lados; el lado ausente queda en nil.
type RegistroVerificacion struct {
	Numero       int    // correlativo, recalculado tras el orden final
	Autorizacion string // clave de cruce (código de autorización recortado)

	SIAT       *FacturaSIAT
	Inventario *FacturaInventario

	SucursalSIATNorm string
	SucursalInvNorm  string

	// DiferenciaImporte importe SIAT - importe inventario. Nula para facturas
	// de alquiler (no se comparan contra inventarios).
	DiferenciaImporte decimal.NullDecimal

	// Observaciones todas las discrepancias y ausencias detectadas, unidas
	// con "; ". Vacío = fila conciliada sin observaciones.
	Observaciones string
}

// EsDiscrepancia la fila pertenece al subconjunto de discrepancias.
func (r RegistroVerificacion) EsDiscrepancia() bool {
	return r.Observaciones != ""
}

// EsAlquiler el lado SIAT existe y es factura de alquiler.
func (r RegistroVerificacion) EsAlquiler() bool {
	return r.SIAT != nil && r.SIAT.EsAlquiler()
}
