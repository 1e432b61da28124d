package ventas

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hergo/ventas-plus/internal/domain/conciliacion"
	"github.com/hergo/ventas-plus/internal/domain/entity"
	"github.com/hergo/ventas-plus/internal/domain/siat"
	"github.com/hergo/ventas-plus/pkg/logger"
)

// ResumenConciliacion conteos y totales agregados de una conciliación.
type ResumenConciliacion struct {
	TotalSIAT              int
	TotalInventario        int
	TotalSIATSinAlquileres int
	Coincidentes           int
	FaltantesEnInventario  int
	FaltantesEnSIAT        int

	// Filas con ambos lados presentes (sin alquileres) cuya diferencia de
	// importe supera la tolerancia.
	ConDiferenciaImporte int
	DiferenciaImporte    decimal.Decimal
}

// ResultadoConciliacion salida completa del conciliador para un periodo.
type ResultadoConciliacion struct {
	// Verificacion una fila por código de autorización presente en cualquiera
	// de los dos lados (join externo), en el orden final de publicación.
	Verificacion []entity.RegistroVerificacion
	// Discrepancias subconjunto de Verificacion con OBSERVACIONES no vacías.
	Discrepancias []entity.RegistroVerificacion
	// DiferenciasDeImporte filas coincidentes cuya diferencia supera la tolerancia.
	DiferenciasDeImporte []entity.RegistroVerificacion

	Resumen ResumenConciliacion
}

// Conciliador cruza las ventas reportadas al SIAT contra las facturas del
// sistema de inventarios. Cada invocación es función pura de sus dos datasets
// de entrada (más logging de diagnóstico).
type Conciliador struct {
	log *logger.Logger
}

// NewConciliador construye el conciliador.
func NewConciliador(log *logger.Logger) *Conciliador {
	return &Conciliador{log: log}
}

// Conciliar ejecuta el join externo por código de autorización recortado,
// clasifica cada fila y produce el dataset de verificación ordenado:
// alquileres primero (por fecha y número), luego el resto por sucursal
// normalizada (numérica ascendente), fecha y número de factura.
func (c *Conciliador) Conciliar(facturasSIAT []entity.FacturaSIAT, inventario []entity.FacturaInventario) *ResultadoConciliacion {
	resultado := &ResultadoConciliacion{}
	resumen := &resultado.Resumen
	resumen.TotalSIAT = len(facturasSIAT)
	resumen.TotalInventario = len(inventario)

	// Resolución determinista de claves duplicadas por lado: un duplicado es
	// una señal de calidad de datos, no un error.
	porClaveSIAT, ordenSIAT := dedupSIAT(facturasSIAT)
	porClaveInv, ordenInv := dedupInventario(inventario)

	duplicadosSIAT := len(facturasSIAT) - len(porClaveSIAT)
	duplicadosInv := len(inventario) - len(porClaveInv)
	if duplicadosSIAT > 0 || duplicadosInv > 0 {
		c.log.Warn().
			Int("siat", duplicadosSIAT).
			Int("inventario", duplicadosInv).
			Msg("códigos de autorización duplicados resueltos de forma determinista")
	}

	// Conteos de cruce: los alquileres quedan fuera del universo comparable.
	sinAlquiler := make(map[string]struct{})
	for clave, f := range porClaveSIAT {
		if !f.EsAlquiler() {
			sinAlquiler[clave] = struct{}{}
		}
	}
	for _, f := range facturasSIAT {
		if !f.EsAlquiler() {
			resumen.TotalSIATSinAlquileres++
		}
	}
	for clave := range sinAlquiler {
		if _, ok := porClaveInv[clave]; ok {
			resumen.Coincidentes++
		} else {
			resumen.FaltantesEnInventario++
		}
	}
	for clave := range porClaveInv {
		if _, ok := sinAlquiler[clave]; !ok {
			resumen.FaltantesEnSIAT++
		}
	}

	// Join externo: todas las claves de ambos lados, exactamente una fila por clave.
	claves := make([]string, 0, len(ordenSIAT)+len(ordenInv))
	claves = append(claves, ordenSIAT...)
	for _, clave := range ordenInv {
		if _, ok := porClaveSIAT[clave]; !ok {
			claves = append(claves, clave)
		}
	}

	registros := make([]entity.RegistroVerificacion, 0, len(claves))
	for _, clave := range claves {
		fs := porClaveSIAT[clave]
		fi := porClaveInv[clave]

		reg := entity.RegistroVerificacion{
			Autorizacion: clave,
			SIAT:         fs,
			Inventario:   fi,
		}
		if fs != nil {
			reg.SucursalSIATNorm = siat.NormalizarSucursal(&fs.CUF.Sucursal)
		}
		if fi != nil {
			reg.SucursalInvNorm = siat.NormalizarSucursal(&fi.CodigoSucursal)
		}
		reg.Observaciones = conciliacion.Unir(conciliacion.Clasificar(fs, fi))
		reg.DiferenciaImporte = conciliacion.DiferenciaImporte(fs, fi)

		registros = append(registros, reg)
	}

	ordenarVerificacion(registros)
	for i := range registros {
		registros[i].Numero = i + 1
	}
	resultado.Verificacion = registros

	for _, reg := range registros {
		if reg.EsDiscrepancia() {
			resultado.Discrepancias = append(resultado.Discrepancias, reg)
		}
		if reg.SIAT != nil && reg.Inventario != nil && !reg.EsAlquiler() &&
			reg.DiferenciaImporte.Valid &&
			reg.DiferenciaImporte.Decimal.Abs().GreaterThan(conciliacion.ToleranciaImporte) {
			resultado.DiferenciasDeImporte = append(resultado.DiferenciasDeImporte, reg)
			resumen.ConDiferenciaImporte++
			resumen.DiferenciaImporte = resumen.DiferenciaImporte.Add(reg.DiferenciaImporte.Decimal)
		}
	}

	c.log.Info().
		Int("siat", resumen.TotalSIAT).
		Int("inventario", resumen.TotalInventario).
		Int("coincidentes", resumen.Coincidentes).
		Int("faltantes_inventario", resumen.FaltantesEnInventario).
		Int("faltantes_siat", resumen.FaltantesEnSIAT).
		Int("discrepancias", len(resultado.Discrepancias)).
		Msg("conciliación completada")

	return resultado
}

// dedupSIAT agrupa por código recortado y se queda con la fila menor según
// (fecha, número de factura, NIT), valores vacíos al final. Devuelve además
// las claves en orden de primera aparición.
func dedupSIAT(facturas []entity.FacturaSIAT) (map[string]*entity.FacturaSIAT, []string) {
	porClave := make(map[string]*entity.FacturaSIAT, len(facturas))
	var orden []string
	for i := range facturas {
		f := &facturas[i]
		clave := strings.TrimSpace(f.CodigoAutorizacion)
		actual, ok := porClave[clave]
		if !ok {
			porClave[clave] = f
			orden = append(orden, clave)
			continue
		}
		if tripleMenor(f.Fecha, f.NumeroFactura, f.NITCliente, actual.Fecha, actual.NumeroFactura, actual.NITCliente) {
			porClave[clave] = f
		}
	}
	return porClave, orden
}

func dedupInventario(facturas []entity.FacturaInventario) (map[string]*entity.FacturaInventario, []string) {
	porClave := make(map[string]*entity.FacturaInventario, len(facturas))
	var orden []string
	for i := range facturas {
		f := &facturas[i]
		clave := strings.TrimSpace(f.Autorizacion)
		actual, ok := porClave[clave]
		if !ok {
			porClave[clave] = f
			orden = append(orden, clave)
			continue
		}
		if tripleMenor(f.Fecha, f.NumeroFactura, f.NIT, actual.Fecha, actual.NumeroFactura, actual.NIT) {
			porClave[clave] = f
		}
	}
	return porClave, orden
}

// tripleMenor orden lexicográfico de (fecha, número, NIT) con vacíos al final.
func tripleMenor(fa, na, ta, fb, nb, tb string) bool {
	if c := compararVacioAlFinal(fa, fb); c != 0 {
		return c < 0
	}
	if c := compararVacioAlFinal(na, nb); c != 0 {
		return c < 0
	}
	return compararVacioAlFinal(ta, tb) < 0
}

func compararVacioAlFinal(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	return strings.Compare(a, b)
}

// ordenarVerificacion aplica el orden de publicación: alquileres primero
// (fecha, número de factura), luego el resto por sucursal normalizada
// (numérica ascendente, no numéricas al final), fecha y número. La clave de
// autorización desempata para que el orden sea total.
func ordenarVerificacion(registros []entity.RegistroVerificacion) {
	sort.SliceStable(registros, func(i, j int) bool {
		a, b := registros[i], registros[j]
		if a.EsAlquiler() != b.EsAlquiler() {
			return a.EsAlquiler()
		}
		if !a.EsAlquiler() {
			sa, na := sucursalOrden(a)
			sb, nb := sucursalOrden(b)
			if na != nb {
				return na
			}
			if !na && sa != sb {
				return sa < sb
			}
		}
		if fa, fb := fechaOrden(a), fechaOrden(b); fa != fb {
			return fa < fb
		}
		if va, vb := numeroOrden(a), numeroOrden(b); va != vb {
			return va < vb
		}
		return a.Autorizacion < b.Autorizacion
	})
}

// sucursalOrden devuelve el valor numérico de la sucursal de la fila (lado
// SIAT si existe, si no inventario) y si es numérica.
func sucursalOrden(r entity.RegistroVerificacion) (int, bool) {
	norm := r.SucursalSIATNorm
	if r.SIAT == nil {
		norm = r.SucursalInvNorm
	}
	n, err := strconv.Atoi(norm)
	if err != nil {
		return 0, false
	}
	return n, true
}

func fechaOrden(r entity.RegistroVerificacion) string {
	if r.SIAT != nil {
		return r.SIAT.Fecha
	}
	if r.Inventario != nil {
		return r.Inventario.Fecha
	}
	return ""
}

func numeroOrden(r entity.RegistroVerificacion) string {
	if r.SIAT != nil {
		return siat.NormalizarNumeroFactura(&r.SIAT.NumeroFactura)
	}
	if r.Inventario != nil {
		return siat.NormalizarNumeroFactura(&r.Inventario.NumeroFactura)
	}
	return ""
}
