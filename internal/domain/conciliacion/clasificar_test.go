package conciliacion_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hergo/ventas-plus/internal/domain/conciliacion"
	"github.com/hergo/ventas-plus/internal/domain/entity"
	"github.com/hergo/ventas-plus/internal/domain/siat"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func importe(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// facturaSIAT factura base sin discrepancias contra facturaInv.
func facturaSIAT() *entity.FacturaSIAT {
	return &entity.FacturaSIAT{
		CodigoAutorizacion: "ABC123",
		Fecha:              "15/07/2026",
		NumeroFactura:      "123",
		NITCliente:         "1006543028",
		ImporteTotal:       importe("1250.50"),
		Estado:             entity.EstadoValida,
		CUF: siat.DatosCUF{
			Sucursal: "0000",
			Sector:   "01",
		},
	}
}

func facturaInv() *entity.FacturaInventario {
	return &entity.FacturaInventario{
		Autorizacion:   "ABC123",
		Fecha:          "15/07/2026",
		NumeroFactura:  "0000123",
		CodigoSucursal: "0",
		NIT:            "1006543028",
		ImporteTotal:   importe("1250.50"),
		Estado:         entity.EstadoInventarioValida,
	}
}

func TestClasificar_SinDiscrepancias(t *testing.T) {
	obs := conciliacion.Clasificar(facturaSIAT(), facturaInv())
	assert.Empty(t, obs)
	assert.Equal(t, "", conciliacion.Unir(obs))
}

func TestClasificar_Alquiler(t *testing.T) {
	fs := facturaSIAT()
	fs.CUF.Sector = "02"
	// Aunque difieran los campos, el alquiler no se compara contra inventario.
	fi := facturaInv()
	fi.ImporteTotal = importe("999999")

	obs := conciliacion.Clasificar(fs, fi)
	require.Len(t, obs, 1)
	assert.Equal(t, conciliacion.Observacion(conciliacion.ObsAlquiler), obs[0])
}

func TestClasificar_AlquilerSinContraparte(t *testing.T) {
	fs := facturaSIAT()
	fs.CUF.Sector = "02"

	obs := conciliacion.Clasificar(fs, nil)
	require.Len(t, obs, 2)
	assert.Equal(t, conciliacion.Observacion(conciliacion.ObsAlquiler), obs[0])
	assert.Equal(t, conciliacion.Observacion(conciliacion.ObsNoEnInventario), obs[1])
}

func TestClasificar_FaltaEnInventario(t *testing.T) {
	obs := conciliacion.Clasificar(facturaSIAT(), nil)
	require.Len(t, obs, 1)
	assert.Equal(t, conciliacion.Observacion(conciliacion.ObsNoEnInventario), obs[0])
}

func TestClasificar_FaltaEnSIAT(t *testing.T) {
	obs := conciliacion.Clasificar(nil, facturaInv())
	require.Len(t, obs, 1)
	assert.Equal(t, conciliacion.Observacion(conciliacion.ObsNoEnSIAT), obs[0])
}

func TestClasificar_NumeroFacturaNormalizado(t *testing.T) {
	fi := facturaInv()
	fi.NumeroFactura = "123.0"
	assert.Empty(t, conciliacion.Clasificar(facturaSIAT(), fi), "123 y 123.0 son el mismo número")

	fi.NumeroFactura = "124"
	obs := conciliacion.Clasificar(facturaSIAT(), fi)
	require.Len(t, obs, 1)
	assert.Equal(t, conciliacion.Observacion("Nº Factura: SIAT=123, INV=124"), obs[0])
}

func TestClasificar_SucursalNormalizada(t *testing.T) {
	fi := facturaInv()
	fi.CodigoSucursal = "0000"
	assert.Empty(t, conciliacion.Clasificar(facturaSIAT(), fi))

	fi.CodigoSucursal = "5"
	obs := conciliacion.Clasificar(facturaSIAT(), fi)
	require.Len(t, obs, 1)
	assert.Equal(t, conciliacion.Observacion("Sucursal: SIAT=0, INV=5"), obs[0])
}

func TestClasificar_FechaLiteral(t *testing.T) {
	fi := facturaInv()
	fi.Fecha = "16/07/2026"
	obs := conciliacion.Clasificar(facturaSIAT(), fi)
	require.Len(t, obs, 1)
	assert.Equal(t, conciliacion.Observacion("Fecha: SIAT=15/07/2026, INV=16/07/2026"), obs[0])
}

func TestClasificar_NITConEspacios(t *testing.T) {
	fi := facturaInv()
	fi.NIT = " 1006543028 "
	assert.Empty(t, conciliacion.Clasificar(facturaSIAT(), fi), "el NIT se compara recortado")
}

func TestClasificar_ToleranciaDeImporte(t *testing.T) {
	fi := facturaInv()

	// Exactamente 0.01 de diferencia: dentro de la tolerancia.
	fi.ImporteTotal = importe("1250.51")
	assert.Empty(t, conciliacion.Clasificar(facturaSIAT(), fi))

	// 0.011 ya está fuera.
	fi.ImporteTotal = importe("1250.511")
	obs := conciliacion.Clasificar(facturaSIAT(), fi)
	require.Len(t, obs, 1)
	assert.Equal(t, conciliacion.Observacion("Importe: SIAT=1250.5, INV=1250.511"), obs[0])
}

func TestClasificar_ImporteAusenteCuentaComoCero(t *testing.T) {
	fi := facturaInv()
	fi.ImporteTotal = decimal.NullDecimal{}
	obs := conciliacion.Clasificar(facturaSIAT(), fi)
	require.Len(t, obs, 1)
	assert.Equal(t, conciliacion.Observacion("Importe: SIAT=1250.5, INV=0"), obs[0])
}

func TestClasificar_Estado(t *testing.T) {
	fi := facturaInv()
	fi.Estado = entity.EstadoInventarioAnulada
	obs := conciliacion.Clasificar(facturaSIAT(), fi)
	require.Len(t, obs, 1)
	assert.Equal(t, conciliacion.Observacion("Estado: SIAT=VALIDA, INV=ANULADA"), obs[0])
}

func TestClasificar_OrdenDeObservaciones(t *testing.T) {
	fs := facturaSIAT()
	fi := facturaInv()
	fi.NumeroFactura = "999"
	fi.Fecha = "01/07/2026"
	fi.Estado = entity.EstadoInventarioAnulada

	obs := conciliacion.Clasificar(fs, fi)
	require.Len(t, obs, 3)
	assert.Contains(t, string(obs[0]), "Nº Factura:")
	assert.Contains(t, string(obs[1]), "Fecha:")
	assert.Contains(t, string(obs[2]), "Estado:")

	assert.Equal(t,
		"Nº Factura: SIAT=123, INV=999; Fecha: SIAT=15/07/2026, INV=01/07/2026; Estado: SIAT=VALIDA, INV=ANULADA",
		conciliacion.Unir(obs))
}

func TestDiferenciaImporte(t *testing.T) {
	t.Run("ambos lados", func(t *testing.T) {
		fi := facturaInv()
		fi.ImporteTotal = importe("1000")
		dif := conciliacion.DiferenciaImporte(facturaSIAT(), fi)
		require.True(t, dif.Valid)
		assert.True(t, dif.Decimal.Equal(decimal.RequireFromString("250.5")))
	})

	t.Run("solo SIAT es positiva", func(t *testing.T) {
		dif := conciliacion.DiferenciaImporte(facturaSIAT(), nil)
		require.True(t, dif.Valid)
		assert.True(t, dif.Decimal.Equal(decimal.RequireFromString("1250.5")))
	})

	t.Run("solo inventario es negativa", func(t *testing.T) {
		dif := conciliacion.DiferenciaImporte(nil, facturaInv())
		require.True(t, dif.Valid)
		assert.True(t, dif.Decimal.Equal(decimal.RequireFromString("-1250.5")))
	})

	t.Run("alquiler es nula", func(t *testing.T) {
		fs := facturaSIAT()
		fs.CUF.Sector = "02"
		assert.False(t, conciliacion.DiferenciaImporte(fs, facturaInv()).Valid)
	})
}
