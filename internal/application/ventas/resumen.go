package ventas

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hergo/ventas-plus/internal/domain/entity"
	"github.com/hergo/ventas-plus/internal/domain/siat"
)

// FilaResumen vista mínima de una factura para el agregado por estado y
// sucursal. Ambas fuentes (SIAT e inventario) se proyectan a esta forma para
// que el resumen sea simétrico.
type FilaResumen struct {
	Importe  decimal.NullDecimal
	Estado   string // comparable: VALIDA / ANULADA / literal
	Sector   string
	Sucursal string // normalizada
}

// TotalesSucursal agregado de una sucursal dentro de un resumen.
type TotalesSucursal struct {
	Filas    int
	Total    decimal.Decimal // solo facturas válidas
	Validas  int
	Anuladas int
}

// Resumen agregado por estado y sucursal de un dataset de facturas. Los
// importes ausentes cuentan para el número de filas pero no suman. Los
// alquileres (sector 02) participan de todos los agregados y además llevan
// su propio subtotal para el cuadro comparativo.
type Resumen struct {
	Filas             int
	TotalValidas      decimal.Decimal // toda factura válida, alquileres incluidos
	Validas           int
	Anuladas          int
	Alquileres        int             // filas de sector 02
	ImporteAlquileres decimal.Decimal // alquileres válidos

	Sucursales map[string]TotalesSucursal
}

// SucursalesOrdenadas claves del mapa de sucursales en orden estable para
// publicación.
func (r Resumen) SucursalesOrdenadas() []string {
	claves := make([]string, 0, len(r.Sucursales))
	for s := range r.Sucursales {
		claves = append(claves, s)
	}
	sort.Strings(claves)
	return claves
}

// Resumir agrega las filas por estado y por sucursal. Los alquileres suman
// como cualquier fila válida y además acumulan su propio subtotal; las filas
// sin sucursal no entran al agregado por sucursal.
func Resumir(filas []FilaResumen) Resumen {
	res := Resumen{Sucursales: make(map[string]TotalesSucursal)}
	for _, f := range filas {
		res.Filas++
		valida := f.Estado == entity.EstadoValida
		switch f.Estado {
		case entity.EstadoValida:
			res.Validas++
			if f.Importe.Valid {
				res.TotalValidas = res.TotalValidas.Add(f.Importe.Decimal)
			}
		case entity.EstadoAnulada:
			res.Anuladas++
		}
		if f.Sector == entity.SectorAlquiler {
			res.Alquileres++
			if valida && f.Importe.Valid {
				res.ImporteAlquileres = res.ImporteAlquileres.Add(f.Importe.Decimal)
			}
		}

		if f.Sucursal == "" {
			continue
		}
		s := res.Sucursales[f.Sucursal]
		s.Filas++
		if valida {
			s.Validas++
			if f.Importe.Valid {
				s.Total = s.Total.Add(f.Importe.Decimal)
			}
		} else if f.Estado == entity.EstadoAnulada {
			s.Anuladas++
		}
		res.Sucursales[f.Sucursal] = s
	}
	return res
}

// FilasDesdeSIAT proyecta facturas del SIAT a filas de resumen. El estado se
// compara contra los literales del export y la sucursal sale del CUF.
func FilasDesdeSIAT(facturas []entity.FacturaSIAT) []FilaResumen {
	filas := make([]FilaResumen, 0, len(facturas))
	for _, f := range facturas {
		filas = append(filas, FilaResumen{
			Importe:  f.ImporteTotal,
			Estado:   f.Estado,
			Sector:   f.CUF.Sector,
			Sucursal: siat.NormalizarSucursal(&f.CUF.Sucursal),
		})
	}
	return filas
}

// FilasDesdeInventario proyecta facturas de inventario a filas de resumen.
// El inventario no registra alquileres, así que el sector queda vacío.
func FilasDesdeInventario(facturas []entity.FacturaInventario) []FilaResumen {
	filas := make([]FilaResumen, 0, len(facturas))
	for _, f := range facturas {
		filas = append(filas, FilaResumen{
			Importe:  f.ImporteTotal,
			Estado:   f.EstadoComparable(),
			Sucursal: siat.NormalizarSucursal(&f.CodigoSucursal),
		})
	}
	return filas
}
