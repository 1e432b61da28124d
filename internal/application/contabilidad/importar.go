package contabilidad

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hergo/ventas-plus/internal/application/ventas"
	"github.com/hergo/ventas-plus/internal/domain"
	"github.com/hergo/ventas-plus/internal/domain/entity"
	"github.com/hergo/ventas-plus/pkg/logger"
)

const formatoFecha = "02/01/2006"

// ResultadoImportacion conteos de una importación al registro contable.
type ResultadoImportacion struct {
	Leidos     int // filas del dataset de verificación
	SinSIAT    int // filas descartadas por no tener lado SIAT
	SinFecha   int // filas descartadas por fecha ilegible
	Duplicados int // pares (número, autorización) repetidos en el dataset
	Eliminados int // registros previos del periodo borrados (modo reemplazo)
	Importados int
}

// Importador lleva el dataset de verificación de un periodo al registro de
// ventas de la base contable.
type Importador struct {
	lector LectorVerificacion
	repo   RepositorioContable
	log    *logger.Logger
}

// NewImportador construye el importador.
func NewImportador(lector LectorVerificacion, repo RepositorioContable, log *logger.Logger) *Importador {
	return &Importador{lector: lector, repo: repo, log: log}
}

// Importar importa el periodo. Si la base ya tiene registros en el rango del
// periodo y reemplazar es falso devuelve domain.ErrPeriodoConRegistros sin
// tocar nada; con reemplazar se borran primero los registros existentes.
func (i *Importador) Importar(ctx context.Context, periodo ventas.Periodo, reemplazar bool) (*ResultadoImportacion, error) {
	registros, err := i.lector.LeerVerificacion(periodo)
	if err != nil {
		return nil, fmt.Errorf("leyendo verificación del periodo %s: %w", periodo, err)
	}

	resultado := &ResultadoImportacion{Leidos: len(registros)}
	ventasPeriodo := make([]RegistroVenta, 0, len(registros))
	vistos := make(map[[2]string]struct{}, len(registros))
	for _, reg := range registros {
		if reg.SIAT == nil {
			resultado.SinSIAT++
			continue
		}
		rv, err := registroDesdeSIAT(reg.SIAT)
		if err != nil {
			resultado.SinFecha++
			i.log.Warn().Err(err).Str("autorizacion", reg.Autorizacion).Msg("fila omitida")
			continue
		}
		clave := [2]string{rv.NumeroFactura, rv.CodigoAutorizacion}
		if _, ok := vistos[clave]; ok {
			resultado.Duplicados++
		}
		vistos[clave] = struct{}{}
		ventasPeriodo = append(ventasPeriodo, rv)
	}
	if resultado.Duplicados > 0 {
		i.log.Warn().Int("duplicados", resultado.Duplicados).Msg("el dataset trae pares número/autorización repetidos")
	}

	desde, hasta := rangoPeriodo(periodo)
	existentes, err := i.repo.ContarPeriodo(ctx, desde, hasta)
	if err != nil {
		return nil, fmt.Errorf("contando registros del periodo: %w", err)
	}
	if existentes > 0 {
		if !reemplazar {
			return nil, fmt.Errorf("%w: periodo %s con %d registros", domain.ErrPeriodoConRegistros, periodo, existentes)
		}
		resultado.Eliminados, err = i.repo.EliminarPeriodo(ctx, desde, hasta)
		if err != nil {
			return nil, fmt.Errorf("eliminando registros del periodo: %w", err)
		}
		i.log.Info().Int("eliminados", resultado.Eliminados).Str("periodo", periodo.String()).Msg("registros previos eliminados")
	}

	resultado.Importados, err = i.repo.InsertarVentas(ctx, ventasPeriodo)
	if err != nil {
		return nil, fmt.Errorf("insertando registros de venta: %w", err)
	}
	i.log.Info().
		Int("importados", resultado.Importados).
		Int("sin_siat", resultado.SinSIAT).
		Str("periodo", periodo.String()).
		Msg("importación completada")
	return resultado, nil
}

// registroDesdeSIAT proyecta la factura SIAT de una fila de verificación al
// registro contable. Importes ausentes pasan como cero (columnas NOT NULL) y
// los campos de texto obligatorios como "0".
func registroDesdeSIAT(f *entity.FacturaSIAT) (RegistroVenta, error) {
	fecha, err := time.Parse(formatoFecha, f.Fecha)
	if err != nil {
		return RegistroVenta{}, fmt.Errorf("fecha %q: %w", f.Fecha, err)
	}
	return RegistroVenta{
		Fecha:               fecha,
		NumeroFactura:       textoOCero(f.NumeroFactura),
		CodigoAutorizacion:  f.CodigoAutorizacion,
		NITCliente:          textoOCero(f.NITCliente),
		Complemento:         f.Complemento,
		RazonSocial:         f.RazonSocial,
		ImporteTotal:        importeOCero(f.ImporteTotal),
		ImporteICE:          importeOCero(f.ImporteICE),
		ImporteIEHD:         importeOCero(f.ImporteIEHD),
		ImporteIPJ:          importeOCero(f.ImporteIPJ),
		Tasas:               importeOCero(f.Tasas),
		OtrosNoSujetos:      importeOCero(f.OtrosNoSujetos),
		Exportaciones:       importeOCero(f.Exportaciones),
		VentasTasaCero:      importeOCero(f.VentasTasaCero),
		Subtotal:            importeOCero(f.Subtotal),
		Descuentos:          importeOCero(f.Descuentos),
		ImporteGiftCard:     importeOCero(f.ImporteGiftCard),
		ImporteBase:         importeOCero(f.ImporteBase),
		DebitoFiscal:        importeOCero(f.DebitoFiscal),
		Estado:              f.Estado,
		CodigoControl:       f.CodigoControl,
		TipoVenta:           textoOCero(f.TipoVenta),
		ConDerechoCredito:   textoOCero(f.ConDerechoCredito),
		EstadoConsolidacion: f.EstadoConsolidacion,
	}, nil
}

func importeOCero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

func textoOCero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// rangoPeriodo primer y último día del mes, inclusivo.
func rangoPeriodo(p ventas.Periodo) (time.Time, time.Time) {
	desde := time.Date(p.Anio, time.Month(p.Mes), 1, 0, 0, 0, 0, time.UTC)
	hasta := desde.AddDate(0, 1, -1)
	return desde, hasta
}
