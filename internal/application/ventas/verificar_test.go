package ventas_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hergo/ventas-plus/internal/application/ventas"
	"github.com/hergo/ventas-plus/internal/domain"
	"github.com/hergo/ventas-plus/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de puertos
// ──────────────────────────────────────────────────────────────────────────────

type fuenteFake struct {
	filas []entity.FilaExportSIAT
	err   error
}

func (f *fuenteFake) ObtenerVentas(context.Context, ventas.Periodo) ([]entity.FilaExportSIAT, error) {
	return f.filas, f.err
}

type inventarioFake struct {
	facturas []entity.FacturaInventario
	err      error
}

func (r *inventarioFake) FacturasDelPeriodo(context.Context, ventas.Periodo) ([]entity.FacturaInventario, error) {
	return r.facturas, r.err
}

type escritorFake struct {
	verificacion  []entity.RegistroVerificacion
	discrepancias []entity.RegistroVerificacion
	err           error
}

func (e *escritorFake) GuardarVerificacion(_ ventas.Periodo, regs []entity.RegistroVerificacion) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	e.verificacion = regs
	return "/tmp/verificacion.csv", nil
}

func (e *escritorFake) GuardarDiscrepancias(_ ventas.Periodo, regs []entity.RegistroVerificacion) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	e.discrepancias = regs
	return "/tmp/discrepancias.csv", nil
}

func periodoJulio() ventas.Periodo { return ventas.Periodo{Anio: 2026, Mes: 7} }

func TestVerificar_FlujoCompleto(t *testing.T) {
	fuente := &fuenteFake{filas: []entity.FilaExportSIAT{
		filaExport("123"),
	}}
	inventario := &inventarioFake{facturas: []entity.FacturaInventario{
		ventaInv("OTRA-CLAVE", "01/07/2026", "9", "0"),
	}}
	escritor := &escritorFake{}

	verificador := ventas.NewVerificadorConsistencia(fuente, inventario, escritor, testLogger())
	resultado, err := verificador.Verificar(context.Background(), periodoJulio())
	require.NoError(t, err)

	assert.Len(t, resultado.FacturasSIAT, 1)
	assert.Len(t, resultado.Inventario, 1)
	assert.Len(t, resultado.Conciliacion.Verificacion, 2)
	assert.Len(t, resultado.Conciliacion.Discrepancias, 2, "ninguna clave cruza")

	assert.Equal(t, "/tmp/verificacion.csv", resultado.RutaVerificacion)
	assert.Equal(t, "/tmp/discrepancias.csv", resultado.RutaDiscrepancias)
	assert.Equal(t, resultado.Conciliacion.Verificacion, escritor.verificacion)
	assert.Equal(t, resultado.Conciliacion.Discrepancias, escritor.discrepancias)

	assert.Equal(t, 1, resultado.ResumenSIAT.Validas)
	assert.Equal(t, 1, resultado.ResumenInventario.Validas)
}

func TestVerificar_SinDatosSePropaga(t *testing.T) {
	fuente := &fuenteFake{err: fmt.Errorf("%w: sin archivo", domain.ErrSinDatos)}
	verificador := ventas.NewVerificadorConsistencia(fuente, &inventarioFake{}, &escritorFake{}, testLogger())

	_, err := verificador.Verificar(context.Background(), periodoJulio())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSinDatos)
}

func TestVerificar_ExportVacioNoEsError(t *testing.T) {
	verificador := ventas.NewVerificadorConsistencia(
		&fuenteFake{}, &inventarioFake{}, &escritorFake{}, testLogger())

	resultado, err := verificador.Verificar(context.Background(), periodoJulio())
	require.NoError(t, err)
	assert.Empty(t, resultado.Conciliacion.Verificacion)
}

func TestVerificar_ErrorDeInventario(t *testing.T) {
	fuente := &fuenteFake{filas: []entity.FilaExportSIAT{filaExport("1")}}
	inventario := &inventarioFake{err: fmt.Errorf("sin conexión")}
	verificador := ventas.NewVerificadorConsistencia(fuente, inventario, &escritorFake{}, testLogger())

	_, err := verificador.Verificar(context.Background(), periodoJulio())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consultando inventario")
}

func TestVerificar_ErrorDelEscritor(t *testing.T) {
	fuente := &fuenteFake{filas: []entity.FilaExportSIAT{filaExport("1")}}
	escritor := &escritorFake{err: fmt.Errorf("disco lleno")}
	verificador := ventas.NewVerificadorConsistencia(fuente, &inventarioFake{}, escritor, testLogger())

	_, err := verificador.Verificar(context.Background(), periodoJulio())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "guardando verificación")
}

func TestNuevoPeriodo(t *testing.T) {
	p, err := ventas.NuevoPeriodo(2026, 7)
	require.NoError(t, err)
	assert.Equal(t, "07/2026", p.String())
	assert.Equal(t, "07_2026", p.Sufijo())

	for _, caso := range []struct{ anio, mes int }{
		{2026, 0}, {2026, 13}, {1999, 7}, {2101, 7},
	} {
		_, err := ventas.NuevoPeriodo(caso.anio, caso.mes)
		assert.ErrorIs(t, err, domain.ErrPeriodoInvalido, "anio=%d mes=%d", caso.anio, caso.mes)
	}
}
