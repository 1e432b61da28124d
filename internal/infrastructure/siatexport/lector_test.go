package siatexport_test

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hergo/ventas-plus/internal/application/ventas"
	"github.com/hergo/ventas-plus/internal/domain"
	"github.com/hergo/ventas-plus/internal/infrastructure/siatexport"
	"github.com/hergo/ventas-plus/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "test", Level: "error"})
}

func periodoJulio() ventas.Periodo { return ventas.Periodo{Anio: 2026, Mes: 7} }

var encabezadoExport = []string{
	"FECHA DE LA FACTURA", "Nº DE LA FACTURA", "CODIGO DE AUTORIZACIÓN",
	"NIT / CI CLIENTE", "COMPLEMENTO", "NOMBRE O RAZON SOCIAL",
	"IMPORTE TOTAL DE LA VENTA", "ESTADO",
}

// escribirExport arma una planilla xlsx con la hoja y encabezados del SIAT,
// la comprime y la deja en {dir}/{año}/{MM}VentasXlsx.zip.
func escribirExport(t *testing.T, dir string, hoja string, filas [][]string) {
	t.Helper()

	planilla := excelize.NewFile()
	idx, err := planilla.NewSheet(hoja)
	require.NoError(t, err)
	planilla.SetActiveSheet(idx)
	require.NoError(t, planilla.DeleteSheet("Sheet1"))

	for i, fila := range filas {
		celda, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, planilla.SetSheetRow(hoja, celda, &fila))
	}

	var xlsx bytes.Buffer
	require.NoError(t, planilla.Write(&xlsx))

	rutaZip := filepath.Join(dir, "2026", "07VentasXlsx.zip")
	require.NoError(t, os.MkdirAll(filepath.Dir(rutaZip), 0o755))
	f, err := os.Create(rutaZip)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	entrada, err := zw.Create("ventas.xlsx")
	require.NoError(t, err)
	_, err = entrada.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
}

func filaTexto(valores ...string) []string { return valores }

func TestObtenerVentas(t *testing.T) {
	dir := t.TempDir()
	escribirExport(t, dir, "hoja1", [][]string{
		encabezadoExport,
		filaTexto("15/07/2026", "123", "CUF-1", "1006543028", "", "CLIENTE SRL", "1250.50", "VALIDA"),
		filaTexto("16/07/2026", "124", "CUF-2", "0", "", "SIN NOMBRE", "300", "ANULADA"),
	})

	filas, err := siatexport.NewLectorExport(dir, testLogger()).
		ObtenerVentas(context.Background(), periodoJulio())
	require.NoError(t, err)
	require.Len(t, filas, 2)

	assert.Equal(t, 2, filas[0].Fila, "la numeración cuenta el encabezado")
	assert.Equal(t, "15/07/2026", filas[0].Fecha)
	assert.Equal(t, "123", filas[0].NumeroFactura)
	assert.Equal(t, "CUF-1", filas[0].CodigoAutorizacion)
	assert.Equal(t, "1250.50", filas[0].ImporteTotal)
	assert.Equal(t, "VALIDA", filas[0].Estado)
	assert.Equal(t, "ANULADA", filas[1].Estado)
}

func TestObtenerVentas_ArchivoInexistente(t *testing.T) {
	_, err := siatexport.NewLectorExport(t.TempDir(), testLogger()).
		ObtenerVentas(context.Background(), periodoJulio())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSinDatos)
}

func TestObtenerVentas_ZIPSinPlanilla(t *testing.T) {
	dir := t.TempDir()
	rutaZip := filepath.Join(dir, "2026", "07VentasXlsx.zip")
	require.NoError(t, os.MkdirAll(filepath.Dir(rutaZip), 0o755))
	f, err := os.Create(rutaZip)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	entrada, err := zw.Create("leeme.txt")
	require.NoError(t, err)
	_, err = entrada.Write([]byte("sin planilla"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	_, err = siatexport.NewLectorExport(dir, testLogger()).
		ObtenerVentas(context.Background(), periodoJulio())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSinDatos)
}

func TestObtenerVentas_HojaInexistente(t *testing.T) {
	dir := t.TempDir()
	escribirExport(t, dir, "otraHoja", [][]string{encabezadoExport})

	_, err := siatexport.NewLectorExport(dir, testLogger()).
		ObtenerVentas(context.Background(), periodoJulio())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSinDatos)
}

func TestObtenerVentas_ColumnaFaltante(t *testing.T) {
	dir := t.TempDir()
	sinEstado := encabezadoExport[:len(encabezadoExport)-1]
	escribirExport(t, dir, "hoja1", [][]string{sinEstado})

	_, err := siatexport.NewLectorExport(dir, testLogger()).
		ObtenerVentas(context.Background(), periodoJulio())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrColumnaFaltante)
	assert.Contains(t, err.Error(), "ESTADO")
}

func TestObtenerVentas_CeldasFaltantesQuedanVacias(t *testing.T) {
	dir := t.TempDir()
	escribirExport(t, dir, "hoja1", [][]string{
		encabezadoExport,
		filaTexto("15/07/2026", "123"), // fila corta: el resto de columnas vacías
	})

	filas, err := siatexport.NewLectorExport(dir, testLogger()).
		ObtenerVentas(context.Background(), periodoJulio())
	require.NoError(t, err)
	require.Len(t, filas, 1)
	assert.Equal(t, "123", filas[0].NumeroFactura)
	assert.Empty(t, filas[0].CodigoAutorizacion)
	assert.Empty(t, filas[0].Estado)
}
