package ventas

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/hergo/ventas-plus/internal/domain/entity"
	"github.com/hergo/ventas-plus/internal/domain/siat"
	"github.com/hergo/ventas-plus/pkg/logger"
)

// Sucursal descriptor de una sucursal contrastable contra Hergo.
type Sucursal struct {
	Nombre      string
	CodigoSIAT  string // sucursal normalizada del CUF
	CodigoHergo *int   // nil = total de la empresa
}

var (
	codigoCentral   = 0
	codigoSantaCruz = 5
	codigoPotosi    = 6

	// SucursalesContrastables sucursales con total propio en Hergo, más el
	// total general. La central agrupa además el sector 35.
	SucursalesContrastables = []Sucursal{
		{Nombre: "CENTRAL", CodigoSIAT: "0", CodigoHergo: &codigoCentral},
		{Nombre: "SANTA CRUZ", CodigoSIAT: "5", CodigoHergo: &codigoSantaCruz},
		{Nombre: "POTOSI", CodigoSIAT: "6", CodigoHergo: &codigoPotosi},
		{Nombre: "GENERAL", CodigoSIAT: "", CodigoHergo: nil},
	}
)

// Sectores de venta directa. La central factura también prepagos (35);
// los alquileres (02) nunca entran a los totales.
const (
	sectorVentas   = "01"
	sectorPrepagos = "35"
)

// TotalSIATSucursal suma los importes de facturas válidas de una sucursal
// según las reglas del negocio: la central suma sectores 01 y 35, las demás
// solo 01, y el total general toma toda factura válida que no sea alquiler.
func TotalSIATSucursal(facturas []entity.FacturaSIAT, s Sucursal) decimal.Decimal {
	total := decimal.Zero
	for _, f := range facturas {
		if f.Estado != entity.EstadoValida || !f.ImporteTotal.Valid || f.EsAlquiler() {
			continue
		}
		if s.CodigoSIAT == "" {
			total = total.Add(f.ImporteTotal.Decimal)
			continue
		}
		if siat.NormalizarSucursal(&f.CUF.Sucursal) != s.CodigoSIAT {
			continue
		}
		switch {
		case s.Nombre == "CENTRAL" && (f.CUF.Sector == sectorVentas || f.CUF.Sector == sectorPrepagos):
			total = total.Add(f.ImporteTotal.Decimal)
		case s.Nombre != "CENTRAL" && f.CUF.Sector == sectorVentas:
			total = total.Add(f.ImporteTotal.Decimal)
		}
	}
	return total
}

// ComparacionTotales contraste del total SIAT de una sucursal contra el
// total reportado por Hergo para el mismo periodo.
type ComparacionTotales struct {
	Sucursal   string
	TotalSIAT  decimal.Decimal
	TotalHergo decimal.NullDecimal // ausente si Hergo no respondió
	Diferencia decimal.NullDecimal
	Coincide   bool
}

// ComparadorTotales obtiene de Hergo el total de cada sucursal y lo
// contrasta contra el total calculado del export SIAT.
type ComparadorTotales struct {
	hergo  ClienteHergo
	log    *logger.Logger
	avance func(hecho, total int)
}

// NewComparadorTotales construye el comparador.
func NewComparadorTotales(hergo ClienteHergo, log *logger.Logger) *ComparadorTotales {
	return &ComparadorTotales{hergo: hergo, log: log}
}

// ConAvance registra un callback de progreso invocado tras consultar cada
// sucursal. Útil para mostrar una barra mientras se espera a Hergo.
func (c *ComparadorTotales) ConAvance(avance func(hecho, total int)) *ComparadorTotales {
	c.avance = avance
	return c
}

// Comparar contrasta cada sucursal contrastable. Un fallo de Hergo en una
// sucursal no aborta el resto: la comparación queda sin total Hergo.
func (c *ComparadorTotales) Comparar(ctx context.Context, periodo Periodo, facturas []entity.FacturaSIAT) []ComparacionTotales {
	comparaciones := make([]ComparacionTotales, 0, len(SucursalesContrastables))
	for i, s := range SucursalesContrastables {
		if c.avance != nil {
			c.avance(i+1, len(SucursalesContrastables))
		}
		comp := ComparacionTotales{
			Sucursal:  s.Nombre,
			TotalSIAT: TotalSIATSucursal(facturas, s),
		}
		totalHergo, err := c.hergo.TotalVentas(ctx, periodo, s.CodigoHergo)
		if err != nil {
			c.log.Warn().Err(err).Str("sucursal", s.Nombre).Msg("no se pudo obtener el total de Hergo")
			comparaciones = append(comparaciones, comp)
			continue
		}
		comp.TotalHergo = decimal.NewNullDecimal(totalHergo)
		dif := comp.TotalSIAT.Sub(totalHergo)
		comp.Diferencia = decimal.NewNullDecimal(dif)
		comp.Coincide = dif.Abs().LessThan(toleranciaTotales)
		comparaciones = append(comparaciones, comp)
	}
	return comparaciones
}

// toleranciaTotales los totales coinciden si difieren en menos de un centavo.
var toleranciaTotales = decimal.New(1, -2)
