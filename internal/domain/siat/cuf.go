// Package siat: decodificación del CUF (Código Único de Facturación) del SIAT boliviano.
// El CUF lleva los atributos de la factura empaquetados posicionalmente en la
// expansión decimal de sus primeros 42 caracteres hexadecimales.
package siat

import (
	"fmt"
	"math/big"
)

// LongitudMinimaCUF caracteres mínimos para intentar la decodificación.
const LongitudMinimaCUF = 42

// Posiciones fijas dentro de la expansión decimal, tras descartar los primeros
// 27 dígitos: sucursal[0:4) modalidad[4:5) tipoEmision[5:6) tipoFactura[6:7)
// sector[7:9) numeroFactura[9:19) puntoVenta[19:23) autoverificador[23:24).
const (
	digitosDescartados = 27
	digitosRequeridos  = 24
)

// DatosCUF atributos de factura extraídos de un CUF. Todos string; un campo
// vacío significa "no decodificado".
type DatosCUF struct {
	Sucursal        string // 4 dígitos
	Modalidad       string // 1 dígito
	TipoEmision     string // 1 dígito
	TipoFactura     string // 1 dígito
	Sector          string // 2 dígitos; "02" = alquileres
	NumeroFactura   string // 10 dígitos, consecutivo dentro del CUF
	PuntoVenta      string // 4 dígitos
	Autoverificador string // 1 dígito
}

// Vacio indica que ningún atributo fue decodificado.
func (d DatosCUF) Vacio() bool {
	return d == DatosCUF{}
}

// DecodificarCUF decodifica un código de autorización. Para códigos más cortos
// que 42 caracteres, o cuya expansión decimal no alcanza los dígitos
// requeridos, devuelve DatosCUF vacío sin error: es la representación de
// "sin atributos", no una falla. Solo un código no hexadecimal produce error.
// Función pura; nunca entra en pánico.
func DecodificarCUF(codigo string) (DatosCUF, error) {
	if len(codigo) < LongitudMinimaCUF {
		return DatosCUF{}, nil
	}

	hexadecimal := codigo[:LongitudMinimaCUF]
	n, ok := new(big.Int).SetString(hexadecimal, 16)
	if !ok || n.Sign() < 0 {
		return DatosCUF{}, fmt.Errorf("siat: código de autorización no hexadecimal: %q", hexadecimal)
	}

	cadena := n.String()
	if len(cadena) <= digitosDescartados {
		return DatosCUF{}, nil
	}
	resto := cadena[digitosDescartados:]
	if len(resto) < digitosRequeridos {
		return DatosCUF{}, nil
	}

	return DatosCUF{
		Sucursal:        segmento(resto, 0, 4),
		Modalidad:       segmento(resto, 4, 5),
		TipoEmision:     segmento(resto, 5, 6),
		TipoFactura:     segmento(resto, 6, 7),
		Sector:          segmento(resto, 7, 9),
		NumeroFactura:   segmento(resto, 9, 19),
		PuntoVenta:      segmento(resto, 19, 23),
		Autoverificador: segmento(resto, 23, 24),
	}, nil
}

// segmento devuelve s[ini:fin] o "" si s no alcanza el límite superior.
func segmento(s string, ini, fin int) string {
	if len(s) < fin {
		return ""
	}
	return s[ini:fin]
}
