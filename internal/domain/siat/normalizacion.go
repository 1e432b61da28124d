package siat

import (
	"math"
	"strconv"
	"strings"
)

// Normalizadores de campos para comparar valores que SIAT y el sistema de
// inventarios representan de forma distinta (ceros a la izquierda, sufijos
// decimales ".0" de exportaciones a planilla). Son dos contratos parecidos
// pero NO unificables: el código de sucursal y el número de factura difieren
// en el tratamiento del valor ausente y del string vacío. Ambas funciones son
// totales, puras e idempotentes.

// Los exportes llegan con el entero truncado a float64; por encima de este
// umbral la conversión a int64 deja de ser exacta y se usa el fallback.
const maxEnteroExacto = 1e15

// NormalizarSucursal canonicaliza un código de sucursal. nil (dato ausente)
// normaliza a "", mientras que el string vacío normaliza a "0": aguas abajo
// la distinción entre "no hay sucursal" y "sucursal cero" es observable en el
// archivo de discrepancias, así que se preserva tal cual.
func NormalizarSucursal(valor *string) string {
	if valor == nil {
		return ""
	}
	s := strings.TrimSpace(*valor)
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		if f == math.Trunc(f) && math.Abs(f) < maxEnteroExacto {
			return strconv.FormatInt(int64(f), 10)
		}
		if f != math.Trunc(f) {
			// decimal no entero: se conserva la forma recortada
			return s
		}
	}
	return quitarCerosIzquierda(s)
}

// NormalizarNumeroFactura canonicaliza un número de factura. nil y el string
// vacío normalizan a "" (el número ausente no se compara contra "0"); los
// sufijos decimales colapsan al entero truncado ("123.0" -> "123").
func NormalizarNumeroFactura(valor *string) string {
	if valor == nil {
		return ""
	}
	s := strings.TrimSpace(*valor)
	if s == "" {
		return ""
	}
	if s == ".0" {
		return "0"
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) && math.Abs(f) < maxEnteroExacto {
			return strconv.FormatInt(int64(f), 10)
		}
	}
	return quitarCerosIzquierda(s)
}

// quitarCerosIzquierda regla de fallback compartida: sin ceros a la izquierda,
// y un valor que queda vacío (o un punto suelto) era un cero.
func quitarCerosIzquierda(s string) string {
	normalizado := strings.TrimLeft(s, "0")
	if normalizado == "" || normalizado == "." {
		return "0"
	}
	return normalizado
}
