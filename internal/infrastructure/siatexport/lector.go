// Package siatexport lee el export mensual de ventas que publica el SIAT:
// un ZIP con una planilla xlsx adentro.
package siatexport

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hergo/ventas-plus/internal/application/ventas"
	"github.com/hergo/ventas-plus/internal/domain"
	"github.com/hergo/ventas-plus/internal/domain/entity"
	"github.com/hergo/ventas-plus/pkg/logger"
)

// hojaVentas nombre de la hoja dentro de la planilla del export.
const hojaVentas = "hoja1"

// Encabezados del export de ventas del SIAT, tal como vienen en la planilla.
const (
	colFecha           = "FECHA DE LA FACTURA"
	colNumeroFactura   = "Nº DE LA FACTURA"
	colAutorizacion    = "CODIGO DE AUTORIZACIÓN"
	colNIT             = "NIT / CI CLIENTE"
	colComplemento     = "COMPLEMENTO"
	colRazonSocial     = "NOMBRE O RAZON SOCIAL"
	colImporteTotal    = "IMPORTE TOTAL DE LA VENTA"
	colICE             = "IMPORTE ICE"
	colIEHD            = "IMPORTE IEHD"
	colIPJ             = "IMPORTE IPJ"
	colTasas           = "TASAS"
	colOtrosNoSujetos  = "OTROS NO SUJETOS AL IVA"
	colExportaciones   = "EXPORTACIONES Y OPERACIONES EXENTAS"
	colVentasTasaCero  = "VENTAS GRAVADAS A TASA CERO"
	colSubtotal        = "SUBTOTAL"
	colDescuentos      = "DESCUENTOS, BONIFICACIONES Y REBAJAS SUJETAS AL IVA"
	colGiftCard        = "IMPORTE GIFT CARD"
	colImporteBase     = "IMPORTE BASE PARA DEBITO FISCAL"
	colDebitoFiscal    = "DEBITO FISCAL"
	colEstado          = "ESTADO"
	colCodigoControl   = "CODIGO DE CONTROL"
	colTipoVenta       = "TIPO DE VENTA"
	colDerechoCredito  = "CON DERECHO A CREDITO FISCAL"
	colConsolidacion   = "ESTADO CONSOLIDACION"
)

// columnasRequeridas mínimas para poder conciliar. Sin alguna de estas la
// planilla se rechaza completa.
var columnasRequeridas = []string{
	colFecha, colNumeroFactura, colAutorizacion, colNIT,
	colRazonSocial, colImporteTotal, colEstado,
}

var _ ventas.FuenteSIAT = (*LectorExport)(nil)

// LectorExport lee el export de un periodo desde el directorio de datos,
// con la convención {dir}/{año}/{MM}VentasXlsx.zip.
type LectorExport struct {
	dir string
	log *logger.Logger
}

// NewLectorExport construye el lector sobre el directorio de datos.
func NewLectorExport(dir string, log *logger.Logger) *LectorExport {
	return &LectorExport{dir: dir, log: log}
}

// RutaExport ruta esperada del archivo del periodo.
func (l *LectorExport) RutaExport(periodo ventas.Periodo) string {
	return filepath.Join(l.dir, fmt.Sprintf("%d", periodo.Anio), fmt.Sprintf("%02dVentasXlsx.zip", periodo.Mes))
}

// ObtenerVentas abre el ZIP del periodo, localiza la primera planilla xlsx y
// devuelve sus filas crudas. Archivo ausente, ZIP sin planilla u hoja
// inexistente devuelven domain.ErrSinDatos; una planilla legible a la que le
// falta una columna requerida devuelve domain.ErrColumnaFaltante.
func (l *LectorExport) ObtenerVentas(ctx context.Context, periodo ventas.Periodo) ([]entity.FilaExportSIAT, error) {
	ruta := l.RutaExport(periodo)
	zr, err := zip.OpenReader(ruta)
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, zip.ErrFormat) {
			l.log.Warn().Err(err).Str("ruta", ruta).Msg("no hay export legible para el periodo")
			return nil, fmt.Errorf("%w: %s", domain.ErrSinDatos, ruta)
		}
		return nil, fmt.Errorf("abrir %s: %w", ruta, err)
	}
	defer zr.Close()

	planilla, err := abrirPlanilla(&zr.Reader)
	if err != nil {
		l.log.Warn().Err(err).Str("ruta", ruta).Msg("el ZIP no contiene planilla legible")
		return nil, fmt.Errorf("%w: %v", domain.ErrSinDatos, err)
	}
	defer planilla.Close()

	matriz, err := planilla.GetRows(hojaVentas)
	if err != nil || len(matriz) == 0 {
		l.log.Warn().Str("ruta", ruta).Str("hoja", hojaVentas).Msg("la planilla no tiene la hoja de ventas")
		return nil, fmt.Errorf("%w: hoja %q", domain.ErrSinDatos, hojaVentas)
	}

	indice, err := indiceColumnas(matriz[0])
	if err != nil {
		return nil, err
	}

	filas := make([]entity.FilaExportSIAT, 0, len(matriz)-1)
	for i, cruda := range matriz[1:] {
		celda := func(nombre string) string {
			pos, ok := indice[nombre]
			if !ok || pos >= len(cruda) {
				return ""
			}
			return strings.TrimSpace(cruda[pos])
		}
		filas = append(filas, entity.FilaExportSIAT{
			Fila:                i + 2, // 1-based, contando el encabezado
			Fecha:               celda(colFecha),
			NumeroFactura:       celda(colNumeroFactura),
			CodigoAutorizacion:  celda(colAutorizacion),
			NITCliente:          celda(colNIT),
			Complemento:         celda(colComplemento),
			RazonSocial:         celda(colRazonSocial),
			ImporteTotal:        celda(colImporteTotal),
			ImporteICE:          celda(colICE),
			ImporteIEHD:         celda(colIEHD),
			ImporteIPJ:          celda(colIPJ),
			Tasas:               celda(colTasas),
			OtrosNoSujetos:      celda(colOtrosNoSujetos),
			Exportaciones:       celda(colExportaciones),
			VentasTasaCero:      celda(colVentasTasaCero),
			Subtotal:            celda(colSubtotal),
			Descuentos:          celda(colDescuentos),
			ImporteGiftCard:     celda(colGiftCard),
			ImporteBase:         celda(colImporteBase),
			DebitoFiscal:        celda(colDebitoFiscal),
			Estado:              celda(colEstado),
			CodigoControl:       celda(colCodigoControl),
			TipoVenta:           celda(colTipoVenta),
			ConDerechoCredito:   celda(colDerechoCredito),
			EstadoConsolidacion: celda(colConsolidacion),
		})
	}
	l.log.Info().Str("ruta", ruta).Int("filas", len(filas)).Msg("export del SIAT leído")
	return filas, nil
}

// abrirPlanilla localiza la primera entrada .xlsx del ZIP y la abre.
func abrirPlanilla(zr *zip.Reader) (*excelize.File, error) {
	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".xlsx") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("abrir %s: %w", f.Name, err)
		}
		defer rc.Close()
		planilla, err := excelize.OpenReader(rc)
		if err != nil {
			return nil, fmt.Errorf("leer %s: %w", f.Name, err)
		}
		return planilla, nil
	}
	return nil, fmt.Errorf("sin archivos xlsx")
}

// indiceColumnas mapea encabezado -> posición y valida las columnas requeridas.
func indiceColumnas(encabezado []string) (map[string]int, error) {
	indice := make(map[string]int, len(encabezado))
	for pos, nombre := range encabezado {
		indice[strings.TrimSpace(nombre)] = pos
	}
	var faltantes []string
	for _, nombre := range columnasRequeridas {
		if _, ok := indice[nombre]; !ok {
			faltantes = append(faltantes, nombre)
		}
	}
	if len(faltantes) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrColumnaFaltante, strings.Join(faltantes, ", "))
	}
	return indice, nil
}
