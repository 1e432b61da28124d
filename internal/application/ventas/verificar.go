package ventas

import (
	"context"
	"fmt"

	"github.com/hergo/ventas-plus/internal/domain/entity"
	"github.com/hergo/ventas-plus/pkg/logger"
)

// ResultadoVerificacion salida del caso de uso de verificación de un periodo.
type ResultadoVerificacion struct {
	Periodo Periodo

	FacturasSIAT []entity.FacturaSIAT
	Inventario   []entity.FacturaInventario

	Conciliacion      *ResultadoConciliacion
	ResumenSIAT       Resumen
	ResumenInventario Resumen

	RutaVerificacion  string
	RutaDiscrepancias string
}

// VerificadorConsistencia caso de uso principal: carga el export del SIAT y
// las facturas de inventario de un periodo, los concilia y persiste los
// datasets de verificación y discrepancias.
type VerificadorConsistencia struct {
	fuente      FuenteSIAT
	inventario  RepositorioInventario
	escritor    EscritorVerificacion
	procesador  *ProcesadorVentas
	conciliador *Conciliador
	log         *logger.Logger
}

// NewVerificadorConsistencia construye el caso de uso con sus dependencias.
func NewVerificadorConsistencia(
	fuente FuenteSIAT,
	inventario RepositorioInventario,
	escritor EscritorVerificacion,
	log *logger.Logger,
) *VerificadorConsistencia {
	return &VerificadorConsistencia{
		fuente:      fuente,
		inventario:  inventario,
		escritor:    escritor,
		procesador:  NewProcesadorVentas(log),
		conciliador: NewConciliador(log),
		log:         log,
	}
}

// Verificar ejecuta la verificación completa del periodo. Los errores de las
// fuentes se propagan envueltos; un export sin datos llega como
// domain.ErrSinDatos para que el llamador distinga "no hay archivo" de un
// periodo genuinamente sin ventas.
func (v *VerificadorConsistencia) Verificar(ctx context.Context, periodo Periodo) (*ResultadoVerificacion, error) {
	v.log.Info().Str("periodo", periodo.String()).Msg("iniciando verificación de ventas")

	filas, err := v.fuente.ObtenerVentas(ctx, periodo)
	if err != nil {
		return nil, fmt.Errorf("obteniendo ventas del SIAT: %w", err)
	}
	facturas := v.procesador.Procesar(filas)

	inventario, err := v.inventario.FacturasDelPeriodo(ctx, periodo)
	if err != nil {
		return nil, fmt.Errorf("consultando inventario: %w", err)
	}

	resultado := &ResultadoVerificacion{
		Periodo:           periodo,
		FacturasSIAT:      facturas,
		Inventario:        inventario,
		Conciliacion:      v.conciliador.Conciliar(facturas, inventario),
		ResumenSIAT:       Resumir(FilasDesdeSIAT(facturas)),
		ResumenInventario: Resumir(FilasDesdeInventario(inventario)),
	}

	resultado.RutaVerificacion, err = v.escritor.GuardarVerificacion(periodo, resultado.Conciliacion.Verificacion)
	if err != nil {
		return nil, fmt.Errorf("guardando verificación: %w", err)
	}
	resultado.RutaDiscrepancias, err = v.escritor.GuardarDiscrepancias(periodo, resultado.Conciliacion.Discrepancias)
	if err != nil {
		return nil, fmt.Errorf("guardando discrepancias: %w", err)
	}

	v.log.Info().
		Str("verificacion", resultado.RutaVerificacion).
		Str("discrepancias", resultado.RutaDiscrepancias).
		Msg("verificación completada")
	return resultado, nil
}
