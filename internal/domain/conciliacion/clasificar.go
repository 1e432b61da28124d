// Package conciliacion: clasificación pura de una fila del join externo
// SIAT ↔ inventarios. Sin estado compartido: cada fila se clasifica de forma
// independiente y el resultado es la lista de observaciones que dispara.
package conciliacion

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hergo/ventas-plus/internal/domain/entity"
	"github.com/hergo/ventas-plus/internal/domain/siat"
)

// Etiquetas fijas de clasificación.
const (
	ObsAlquiler       = "Factura de alquiler (SECTOR 02)"
	ObsNoEnInventario = "No existe en inventarios"
	ObsNoEnSIAT       = "No existe en SIAT"
)

// ToleranciaImporte diferencia absoluta de importes a partir de la cual
// (estrictamente mayor) se marca discrepancia.
var ToleranciaImporte = decimal.New(1, -2) // 0.01

// Observacion una etiqueta o discrepancia de campo detectada en la fila.
type Observacion string

// Clasificar devuelve, en orden determinista, las observaciones de una fila:
// primero la marca de alquiler, luego la ausencia de contraparte, y por
// último las discrepancias campo a campo (solo si ambos lados existen y la
// factura no es de alquiler). Al menos uno de los dos lados debe existir.
func Clasificar(fs *entity.FacturaSIAT, fi *entity.FacturaInventario) []Observacion {
	var obs []Observacion

	alquiler := fs != nil && fs.EsAlquiler()
	if alquiler {
		obs = append(obs, ObsAlquiler)
	}
	if fi == nil {
		obs = append(obs, ObsNoEnInventario)
	}
	if fs == nil {
		obs = append(obs, ObsNoEnSIAT)
	}
	if fs == nil || fi == nil || alquiler {
		return obs
	}

	// Ambos lados presentes, sector fuera de alquileres: comparar campos.
	nfacSIAT := siat.NormalizarNumeroFactura(&fs.NumeroFactura)
	nfacInv := siat.NormalizarNumeroFactura(&fi.NumeroFactura)
	if nfacSIAT != nfacInv {
		obs = append(obs, Observacion(fmt.Sprintf("Nº Factura: SIAT=%s, INV=%s", nfacSIAT, nfacInv)))
	}

	sucSIAT := siat.NormalizarSucursal(&fs.CUF.Sucursal)
	sucInv := siat.NormalizarSucursal(&fi.CodigoSucursal)
	if sucSIAT != sucInv {
		obs = append(obs, Observacion(fmt.Sprintf("Sucursal: SIAT=%s, INV=%s", sucSIAT, sucInv)))
	}

	if fs.Fecha != fi.Fecha {
		obs = append(obs, Observacion(fmt.Sprintf("Fecha: SIAT=%s, INV=%s", fs.Fecha, fi.Fecha)))
	}

	if strings.TrimSpace(fs.NITCliente) != strings.TrimSpace(fi.NIT) {
		obs = append(obs, Observacion(fmt.Sprintf("NIT: SIAT=%s, INV=%s", fs.NITCliente, fi.NIT)))
	}

	impSIAT := importeOCero(fs.ImporteTotal)
	impInv := importeOCero(fi.ImporteTotal)
	if impSIAT.Sub(impInv).Abs().GreaterThan(ToleranciaImporte) {
		obs = append(obs, Observacion(fmt.Sprintf("Importe: SIAT=%s, INV=%s", impSIAT.String(), impInv.String())))
	}

	if fs.Estado != fi.EstadoComparable() {
		obs = append(obs, Observacion(fmt.Sprintf("Estado: SIAT=%s, INV=%s", fs.Estado, fi.EstadoComparable())))
	}

	return obs
}

// Unir concatena observaciones con "; " para el campo OBSERVACIONES.
func Unir(obs []Observacion) string {
	if len(obs) == 0 {
		return ""
	}
	partes := make([]string, len(obs))
	for i, o := range obs {
		partes[i] = string(o)
	}
	return strings.Join(partes, "; ")
}

// DiferenciaImporte diferencia SIAT - inventario de una fila. Nula para
// alquileres; para filas con un solo lado, el importe del lado presente con
// el signo del lado (positivo SIAT, negativo inventario). Importes no
// parseables cuentan como cero.
func DiferenciaImporte(fs *entity.FacturaSIAT, fi *entity.FacturaInventario) decimal.NullDecimal {
	if fs != nil && fs.EsAlquiler() {
		return decimal.NullDecimal{}
	}
	switch {
	case fs != nil && fi != nil:
		return decimal.NullDecimal{Decimal: importeOCero(fs.ImporteTotal).Sub(importeOCero(fi.ImporteTotal)), Valid: true}
	case fs != nil:
		return decimal.NullDecimal{Decimal: importeOCero(fs.ImporteTotal), Valid: true}
	case fi != nil:
		return decimal.NullDecimal{Decimal: importeOCero(fi.ImporteTotal).Neg(), Valid: true}
	}
	return decimal.NullDecimal{}
}

func importeOCero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
