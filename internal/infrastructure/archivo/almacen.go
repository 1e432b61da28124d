// Package archivo persiste y relee los datasets de verificación como CSV en
// el directorio de salidas.
package archivo

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hergo/ventas-plus/internal/application/contabilidad"
	"github.com/hergo/ventas-plus/internal/application/ventas"
	"github.com/hergo/ventas-plus/internal/domain"
	"github.com/hergo/ventas-plus/internal/domain/entity"
	"github.com/hergo/ventas-plus/internal/domain/siat"
	"github.com/hergo/ventas-plus/pkg/logger"
)

var (
	_ ventas.EscritorVerificacion     = (*Almacen)(nil)
	_ contabilidad.LectorVerificacion = (*Almacen)(nil)
)

// Almacen lee y escribe los CSV de verificación bajo {dir}/output.
type Almacen struct {
	dir string
	log *logger.Logger
}

// NewAlmacen construye el almacén sobre el directorio de datos.
func NewAlmacen(dir string, log *logger.Logger) *Almacen {
	return &Almacen{dir: dir, log: log}
}

func (a *Almacen) rutaVerificacion(p ventas.Periodo) string {
	return filepath.Join(a.dir, "output", fmt.Sprintf("verificacion_completa_%s.csv", p.Sufijo()))
}

func (a *Almacen) rutaDiscrepancias(p ventas.Periodo) string {
	return filepath.Join(a.dir, "output", fmt.Sprintf("discrepancias_%s.csv", p.Sufijo()))
}

// Encabezado del CSV de verificación. Las columnas del lado SIAT conservan
// los nombres del export para que la importación contable pueda mapearlas;
// las del inventario llevan sufijo _inv.
var encabezadoVerificacion = []string{
	"N°",
	"FECHA DE LA FACTURA",
	"Nº DE LA FACTURA",
	"CODIGO DE AUTORIZACIÓN",
	"NIT / CI CLIENTE",
	"COMPLEMENTO",
	"NOMBRE O RAZON SOCIAL",
	"IMPORTE TOTAL DE LA VENTA",
	"IMPORTE ICE",
	"IMPORTE IEHD",
	"IMPORTE IPJ",
	"TASAS",
	"OTROS NO SUJETOS AL IVA",
	"EXPORTACIONES Y OPERACIONES EXENTAS",
	"VENTAS GRAVADAS A TASA CERO",
	"SUBTOTAL",
	"DESCUENTOS, BONIFICACIONES Y REBAJAS SUJETAS AL IVA",
	"IMPORTE GIFT CARD",
	"IMPORTE BASE PARA DEBITO FISCAL",
	"DEBITO FISCAL",
	"ESTADO",
	"CODIGO DE CONTROL",
	"TIPO DE VENTA",
	"CON DERECHO A CREDITO FISCAL",
	"ESTADO CONSOLIDACION",
	"SUCURSAL",
	"MODALIDAD",
	"TIPO EMISION",
	"TIPO FACTURA",
	"SECTOR",
	"NUM FACTURA",
	"PV",
	"CODIGO AUTOVERIFICADOR",
	"fecha_inv",
	"nfactura_inv",
	"nit_inv",
	"razon_social_inv",
	"importe_inv",
	"estado_inv",
	"sucursal_inv",
	"almacen_inv",
	"_tipoFac",
	"_obs",
	"_autor",
	"sucursal_siat_norm",
	"sucursal_inv_norm",
	"diferencia_importe",
	"OBSERVACIONES",
}

// GuardarVerificacion escribe el dataset completo y devuelve la ruta.
func (a *Almacen) GuardarVerificacion(periodo ventas.Periodo, registros []entity.RegistroVerificacion) (string, error) {
	ruta := a.rutaVerificacion(periodo)
	filas := make([][]string, 0, len(registros))
	for _, reg := range registros {
		filas = append(filas, filaVerificacion(reg))
	}
	if err := a.escribir(ruta, encabezadoVerificacion, filas); err != nil {
		return "", err
	}
	a.log.Info().Str("ruta", ruta).Int("filas", len(filas)).Msg("verificación guardada")
	return ruta, nil
}

var encabezadoDiscrepancias = []string{
	"N°",
	"CODIGO DE AUTORIZACIÓN",
	"fecha_siat", "nfactura_siat", "nit_siat", "razon_social_siat", "importe_siat", "estado_siat", "sucursal_siat",
	"fecha_inv", "nfactura_inv", "nit_inv", "razon_social_inv", "importe_inv", "estado_inv", "sucursal_inv",
	"sucursal_siat_norm", "sucursal_inv_norm",
	"diferencia_importe",
	"OBSERVACIONES",
}

// GuardarDiscrepancias escribe el subconjunto con observaciones, en forma
// compacta lado a lado, y devuelve la ruta.
func (a *Almacen) GuardarDiscrepancias(periodo ventas.Periodo, registros []entity.RegistroVerificacion) (string, error) {
	ruta := a.rutaDiscrepancias(periodo)
	filas := make([][]string, 0, len(registros))
	for _, reg := range registros {
		fila := []string{strconv.Itoa(reg.Numero), reg.Autorizacion}
		if fs := reg.SIAT; fs != nil {
			fila = append(fila, fs.Fecha, fs.NumeroFactura, fs.NITCliente, fs.RazonSocial,
				textoImporte(fs.ImporteTotal), fs.Estado, fs.CUF.Sucursal)
		} else {
			fila = append(fila, "", "", "", "", "", "", "")
		}
		if fi := reg.Inventario; fi != nil {
			fila = append(fila, fi.Fecha, fi.NumeroFactura, fi.NIT, fi.RazonSocial,
				textoImporte(fi.ImporteTotal), fi.Estado, fi.CodigoSucursal)
		} else {
			fila = append(fila, "", "", "", "", "", "", "")
		}
		fila = append(fila, reg.SucursalSIATNorm, reg.SucursalInvNorm,
			textoImporte(reg.DiferenciaImporte), reg.Observaciones)
		filas = append(filas, fila)
	}
	if err := a.escribir(ruta, encabezadoDiscrepancias, filas); err != nil {
		return "", err
	}
	a.log.Info().Str("ruta", ruta).Int("filas", len(filas)).Msg("discrepancias guardadas")
	return ruta, nil
}

// LeerVerificacion relee un dataset de verificación ya publicado. Devuelve
// domain.ErrSinDatos si el archivo del periodo no existe y
// domain.ErrColumnaFaltante si el CSV no trae las columnas esperadas.
func (a *Almacen) LeerVerificacion(periodo ventas.Periodo) ([]entity.RegistroVerificacion, error) {
	ruta := a.rutaVerificacion(periodo)
	f, err := os.Open(ruta)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSinDatos, ruta)
		}
		return nil, fmt.Errorf("abrir %s: %w", ruta, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	todas, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", ruta, err)
	}
	if len(todas) == 0 {
		return nil, fmt.Errorf("%w: %s vacío", domain.ErrSinDatos, ruta)
	}

	indice := make(map[string]int, len(todas[0]))
	for pos, nombre := range todas[0] {
		indice[strings.TrimSpace(nombre)] = pos
	}
	for _, nombre := range encabezadoVerificacion {
		if _, ok := indice[nombre]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrColumnaFaltante, nombre)
		}
	}

	registros := make([]entity.RegistroVerificacion, 0, len(todas)-1)
	for _, fila := range todas[1:] {
		celda := func(nombre string) string {
			pos := indice[nombre]
			if pos >= len(fila) {
				return ""
			}
			return fila[pos]
		}
		registros = append(registros, registroDesdeFila(celda))
	}
	return registros, nil
}

// filaVerificacion proyecta un registro al orden de encabezadoVerificacion.
func filaVerificacion(reg entity.RegistroVerificacion) []string {
	fila := make([]string, 0, len(encabezadoVerificacion))
	fila = append(fila, strconv.Itoa(reg.Numero))
	if fs := reg.SIAT; fs != nil {
		fila = append(fila,
			fs.Fecha, fs.NumeroFactura, fs.CodigoAutorizacion, fs.NITCliente,
			fs.Complemento, fs.RazonSocial,
			textoImporte(fs.ImporteTotal), textoImporte(fs.ImporteICE),
			textoImporte(fs.ImporteIEHD), textoImporte(fs.ImporteIPJ),
			textoImporte(fs.Tasas), textoImporte(fs.OtrosNoSujetos),
			textoImporte(fs.Exportaciones), textoImporte(fs.VentasTasaCero),
			textoImporte(fs.Subtotal), textoImporte(fs.Descuentos),
			textoImporte(fs.ImporteGiftCard), textoImporte(fs.ImporteBase),
			textoImporte(fs.DebitoFiscal),
			fs.Estado, fs.CodigoControl, fs.TipoVenta,
			fs.ConDerechoCredito, fs.EstadoConsolidacion,
			fs.CUF.Sucursal, fs.CUF.Modalidad, fs.CUF.TipoEmision,
			fs.CUF.TipoFactura, fs.CUF.Sector, fs.CUF.NumeroFactura,
			fs.CUF.PuntoVenta, fs.CUF.Autoverificador,
		)
	} else {
		// Sin lado SIAT solo viaja la clave de cruce.
		fila = append(fila, "", "", reg.Autorizacion, "", "", "",
			"", "", "", "", "", "", "", "", "", "", "", "", "",
			"", "", "", "", "", "", "", "", "", "", "", "", "")
	}
	if fi := reg.Inventario; fi != nil {
		fila = append(fila,
			fi.Fecha, fi.NumeroFactura, fi.NIT, fi.RazonSocial,
			textoImporte(fi.ImporteTotal), fi.Estado, fi.CodigoSucursal,
			fi.Almacen, fi.TipoFacturacion, fi.Observacion, fi.Autor,
		)
	} else {
		fila = append(fila, "", "", "", "", "", "", "", "", "", "", "")
	}
	fila = append(fila,
		reg.SucursalSIATNorm, reg.SucursalInvNorm,
		textoImporte(reg.DiferenciaImporte), reg.Observaciones,
	)
	return fila
}

// registroDesdeFila reconstruye un registro desde las celdas del CSV. El lado
// SIAT existe si la fila trae fecha o estado; el de inventario si trae fecha.
func registroDesdeFila(celda func(string) string) entity.RegistroVerificacion {
	reg := entity.RegistroVerificacion{
		Autorizacion:      strings.TrimSpace(celda("CODIGO DE AUTORIZACIÓN")),
		SucursalSIATNorm:  celda("sucursal_siat_norm"),
		SucursalInvNorm:   celda("sucursal_inv_norm"),
		DiferenciaImporte: importeDesdeTexto(celda("diferencia_importe")),
		Observaciones:     celda("OBSERVACIONES"),
	}
	if n, err := strconv.Atoi(celda("N°")); err == nil {
		reg.Numero = n
	}
	if celda("FECHA DE LA FACTURA") != "" || celda("ESTADO") != "" {
		reg.SIAT = &entity.FacturaSIAT{
			CodigoAutorizacion:  reg.Autorizacion,
			Fecha:               celda("FECHA DE LA FACTURA"),
			NumeroFactura:       celda("Nº DE LA FACTURA"),
			NITCliente:          celda("NIT / CI CLIENTE"),
			Complemento:         celda("COMPLEMENTO"),
			RazonSocial:         celda("NOMBRE O RAZON SOCIAL"),
			ImporteTotal:        importeDesdeTexto(celda("IMPORTE TOTAL DE LA VENTA")),
			ImporteICE:          importeDesdeTexto(celda("IMPORTE ICE")),
			ImporteIEHD:         importeDesdeTexto(celda("IMPORTE IEHD")),
			ImporteIPJ:          importeDesdeTexto(celda("IMPORTE IPJ")),
			Tasas:               importeDesdeTexto(celda("TASAS")),
			OtrosNoSujetos:      importeDesdeTexto(celda("OTROS NO SUJETOS AL IVA")),
			Exportaciones:       importeDesdeTexto(celda("EXPORTACIONES Y OPERACIONES EXENTAS")),
			VentasTasaCero:      importeDesdeTexto(celda("VENTAS GRAVADAS A TASA CERO")),
			Subtotal:            importeDesdeTexto(celda("SUBTOTAL")),
			Descuentos:          importeDesdeTexto(celda("DESCUENTOS, BONIFICACIONES Y REBAJAS SUJETAS AL IVA")),
			ImporteGiftCard:     importeDesdeTexto(celda("IMPORTE GIFT CARD")),
			ImporteBase:         importeDesdeTexto(celda("IMPORTE BASE PARA DEBITO FISCAL")),
			DebitoFiscal:        importeDesdeTexto(celda("DEBITO FISCAL")),
			Estado:              celda("ESTADO"),
			CodigoControl:       celda("CODIGO DE CONTROL"),
			TipoVenta:           celda("TIPO DE VENTA"),
			ConDerechoCredito:   celda("CON DERECHO A CREDITO FISCAL"),
			EstadoConsolidacion: celda("ESTADO CONSOLIDACION"),
			CUF: siat.DatosCUF{
				Sucursal:        celda("SUCURSAL"),
				Modalidad:       celda("MODALIDAD"),
				TipoEmision:     celda("TIPO EMISION"),
				TipoFactura:     celda("TIPO FACTURA"),
				Sector:          celda("SECTOR"),
				NumeroFactura:   celda("NUM FACTURA"),
				PuntoVenta:      celda("PV"),
				Autoverificador: celda("CODIGO AUTOVERIFICADOR"),
			},
		}
	}
	if celda("fecha_inv") != "" || celda("estado_inv") != "" {
		reg.Inventario = &entity.FacturaInventario{
			Autorizacion:    reg.Autorizacion,
			Fecha:           celda("fecha_inv"),
			NumeroFactura:   celda("nfactura_inv"),
			CodigoSucursal:  celda("sucursal_inv"),
			NIT:             celda("nit_inv"),
			RazonSocial:     celda("razon_social_inv"),
			ImporteTotal:    importeDesdeTexto(celda("importe_inv")),
			Estado:          celda("estado_inv"),
			Almacen:         celda("almacen_inv"),
			TipoFacturacion: celda("_tipoFac"),
			Observacion:     celda("_obs"),
			Autor:           celda("_autor"),
		}
	}
	return reg
}

// escribir crea el directorio de salida y escribe encabezado más filas.
func (a *Almacen) escribir(ruta string, encabezado []string, filas [][]string) error {
	if err := os.MkdirAll(filepath.Dir(ruta), 0o755); err != nil {
		return fmt.Errorf("crear directorio de salida: %w", err)
	}
	f, err := os.Create(ruta)
	if err != nil {
		return fmt.Errorf("crear %s: %w", ruta, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(encabezado); err != nil {
		return fmt.Errorf("escribir encabezado: %w", err)
	}
	if err := w.WriteAll(filas); err != nil {
		return fmt.Errorf("escribir filas: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("volcar %s: %w", ruta, err)
	}
	return nil
}

func textoImporte(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func importeDesdeTexto(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
