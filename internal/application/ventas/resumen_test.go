package ventas_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hergo/ventas-plus/internal/application/ventas"
	"github.com/hergo/ventas-plus/internal/domain/entity"
)

func TestResumir(t *testing.T) {
	filas := []ventas.FilaResumen{
		{Importe: importe("100"), Estado: entity.EstadoValida, Sector: "01", Sucursal: "0"},
		{Importe: importe("200"), Estado: entity.EstadoValida, Sector: "01", Sucursal: "0"},
		{Importe: importe("50"), Estado: entity.EstadoAnulada, Sector: "01", Sucursal: "0"},
		{Importe: importe("300"), Estado: entity.EstadoValida, Sector: "01", Sucursal: "5"},
		{Importe: importe("999"), Estado: entity.EstadoValida, Sector: "02", Sucursal: "0"},
	}

	r := ventas.Resumir(filas)

	assert.Equal(t, 5, r.Filas)
	assert.Equal(t, 4, r.Validas, "el alquiler válido cuenta como válida")
	assert.Equal(t, 1, r.Anuladas)
	assert.Equal(t, 1, r.Alquileres)
	assert.True(t, r.TotalValidas.Equal(decimal.RequireFromString("1599")),
		"el total de válidas incluye alquileres")
	assert.True(t, r.ImporteAlquileres.Equal(decimal.RequireFromString("999")))

	require.Len(t, r.Sucursales, 2)
	central := r.Sucursales["0"]
	assert.Equal(t, 4, central.Filas)
	assert.Equal(t, 3, central.Validas)
	assert.Equal(t, 1, central.Anuladas)
	assert.True(t, central.Total.Equal(decimal.RequireFromString("1299")))

	scz := r.Sucursales["5"]
	assert.True(t, scz.Total.Equal(decimal.RequireFromString("300")))

	assert.Equal(t, []string{"0", "5"}, r.SucursalesOrdenadas())
}

func TestResumir_AlquileresEntranAlTotal(t *testing.T) {
	filas := []ventas.FilaResumen{
		{Importe: importe("100"), Estado: entity.EstadoValida, Sector: "01", Sucursal: "0"},
		{Importe: importe("999"), Estado: entity.EstadoValida, Sector: "02", Sucursal: "0"},
		{Importe: importe("40"), Estado: entity.EstadoAnulada, Sector: "02", Sucursal: "0"},
	}

	r := ventas.Resumir(filas)

	assert.Equal(t, 2, r.Validas)
	assert.Equal(t, 1, r.Anuladas)
	assert.True(t, r.TotalValidas.Equal(decimal.RequireFromString("1099")))
	assert.Equal(t, 2, r.Alquileres)
	assert.True(t, r.ImporteAlquileres.Equal(decimal.RequireFromString("999")),
		"el alquiler anulado no suma al subtotal de alquileres")
}

func TestResumir_ImporteAusenteCuentaPeroNoSuma(t *testing.T) {
	filas := []ventas.FilaResumen{
		{Importe: decimal.NullDecimal{}, Estado: entity.EstadoValida, Sucursal: "0"},
	}
	r := ventas.Resumir(filas)
	assert.Equal(t, 1, r.Validas)
	assert.True(t, r.TotalValidas.IsZero())
	assert.Equal(t, 1, r.Sucursales["0"].Validas)
}

func TestResumir_SucursalEnBlancoNoAgrega(t *testing.T) {
	filas := []ventas.FilaResumen{
		{Importe: importe("100"), Estado: entity.EstadoValida, Sucursal: ""},
	}
	r := ventas.Resumir(filas)
	assert.Equal(t, 1, r.Validas)
	assert.Empty(t, r.Sucursales)
}

func TestFilasDesdeSIAT(t *testing.T) {
	f := ventaSIAT("A", "01/07/2026", "1", "0005", "01")
	filas := ventas.FilasDesdeSIAT([]entity.FacturaSIAT{f})

	require.Len(t, filas, 1)
	assert.Equal(t, "5", filas[0].Sucursal, "la sucursal del CUF llega normalizada")
	assert.Equal(t, entity.EstadoValida, filas[0].Estado)
	assert.Equal(t, "01", filas[0].Sector)
}

func TestFilasDesdeInventario(t *testing.T) {
	f := ventaInv("A", "01/07/2026", "1", "0005")
	f.Estado = entity.EstadoInventarioAnulada
	filas := ventas.FilasDesdeInventario([]entity.FacturaInventario{f})

	require.Len(t, filas, 1)
	assert.Equal(t, "5", filas[0].Sucursal)
	assert.Equal(t, entity.EstadoAnulada, filas[0].Estado, "V/A se traduce al vocabulario del SIAT")
	assert.Empty(t, filas[0].Sector)
}
