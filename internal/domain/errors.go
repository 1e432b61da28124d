package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// ErrSinDatos indica que la fuente no tiene datos para el periodo solicitado
	// (archivo inexistente, ZIP sin planilla, hoja ilegible). Distinto de un
	// resultado con cero filas, que es un slice vacío sin error.
	ErrSinDatos = errors.New("no hay datos disponibles para el periodo")

	// ErrColumnaFaltante indica que el dataset de entrada no trae una columna
	// requerida. Es fatal para toda la unidad de trabajo: no hay conciliación
	// parcial con un esquema incompleto.
	ErrColumnaFaltante = errors.New("columna requerida ausente")

	// ErrPeriodoInvalido indica un mes fuera de 1-12 o un año fuera de rango.
	ErrPeriodoInvalido = errors.New("periodo inválido")

	// ErrPeriodoConRegistros indica que la base contable ya tiene registros del
	// periodo y no se autorizó el reemplazo.
	ErrPeriodoConRegistros = errors.New("el periodo ya tiene registros en la base contable")
)
