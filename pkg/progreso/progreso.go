// Package progreso barra de progreso mínima para consola.
package progreso

import (
	"fmt"
	"io"
	"strings"
)

const ancho = 40

// Barra redibuja una línea de progreso sobre sí misma con retorno de carro.
type Barra struct {
	w      io.Writer
	rotulo string
}

// Nueva construye la barra con su rótulo.
func Nueva(w io.Writer, rotulo string) *Barra {
	return &Barra{w: w, rotulo: rotulo}
}

// Avanzar redibuja la barra en hecho/total. Al completarse cierra la línea.
func (b *Barra) Avanzar(hecho, total int) {
	if total <= 0 {
		return
	}
	llenos := hecho * ancho / total
	if llenos > ancho {
		llenos = ancho
	}
	fmt.Fprintf(b.w, "\r%s [%s%s] %d/%d",
		b.rotulo, strings.Repeat("=", llenos), strings.Repeat(" ", ancho-llenos), hecho, total)
	if hecho >= total {
		fmt.Fprintln(b.w)
	}
}
