package ventas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hergo/ventas-plus/internal/application/ventas"
	"github.com/hergo/ventas-plus/internal/domain/entity"
)

const cufProcesable = "446C3B15F9926687D2C40534FE4F72ACAF34582EF1"

func filaExport(numero string) entity.FilaExportSIAT {
	return entity.FilaExportSIAT{
		Fila:               2,
		Fecha:              "15/07/2026",
		NumeroFactura:      numero,
		CodigoAutorizacion: cufProcesable,
		NITCliente:         "1006543028",
		RazonSocial:        "CLIENTE SRL",
		ImporteTotal:       "1250.50",
		Estado:             "VALIDA",
	}
}

func TestProcesar_DecodificaYCoerciona(t *testing.T) {
	facturas := ventas.NewProcesadorVentas(testLogger()).Procesar(
		[]entity.FilaExportSIAT{filaExport("123")})

	require.Len(t, facturas, 1)
	f := facturas[0]
	require.True(t, f.ImporteTotal.Valid)
	assert.Equal(t, "1250.5", f.ImporteTotal.Decimal.String())
	assert.Equal(t, "0000", f.CUF.Sucursal)
	assert.Equal(t, "01", f.CUF.Sector)
	assert.False(t, f.EsAlquiler())
}

func TestProcesar_DescartaFilasEnBlanco(t *testing.T) {
	filas := []entity.FilaExportSIAT{
		filaExport("1"),
		{Fila: 3}, // fila en blanco del export
		filaExport("2"),
	}
	facturas := ventas.NewProcesadorVentas(testLogger()).Procesar(filas)

	require.Len(t, facturas, 2)
	assert.Equal(t, "1", facturas[0].NumeroFactura)
	assert.Equal(t, "2", facturas[1].NumeroFactura)
}

func TestProcesar_ImporteIlegibleQuedaAusente(t *testing.T) {
	fila := filaExport("1")
	fila.ImporteTotal = "no-numerico"
	facturas := ventas.NewProcesadorVentas(testLogger()).Procesar(
		[]entity.FilaExportSIAT{fila})

	require.Len(t, facturas, 1)
	assert.False(t, facturas[0].ImporteTotal.Valid)
}

func TestProcesar_ImporteConSeparadorDeMiles(t *testing.T) {
	fila := filaExport("1")
	fila.ImporteTotal = "1,250.50"
	facturas := ventas.NewProcesadorVentas(testLogger()).Procesar(
		[]entity.FilaExportSIAT{fila})

	require.Len(t, facturas, 1)
	require.True(t, facturas[0].ImporteTotal.Valid)
	assert.Equal(t, "1250.5", facturas[0].ImporteTotal.Decimal.String())
}

// Un CUF ilegible no aborta el lote: la fila sigue con los atributos vacíos.
func TestProcesar_CUFIlegibleNoAbortaElLote(t *testing.T) {
	fila := filaExport("1")
	fila.CodigoAutorizacion = "ZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZ"
	facturas := ventas.NewProcesadorVentas(testLogger()).Procesar(
		[]entity.FilaExportSIAT{fila, filaExport("2")})

	require.Len(t, facturas, 2)
	assert.True(t, facturas[0].CUF.Vacio())
	assert.False(t, facturas[1].CUF.Vacio())
}

func TestProcesar_NotificaAvance(t *testing.T) {
	var notificaciones [][2]int
	proc := ventas.NewProcesadorVentas(testLogger()).ConAvance(func(hecho, total int) {
		notificaciones = append(notificaciones, [2]int{hecho, total})
	})
	proc.Procesar([]entity.FilaExportSIAT{filaExport("1"), filaExport("2")})

	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, notificaciones)
}
