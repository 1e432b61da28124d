package postgres

import (
	"context"
	"fmt"

	"github.com/hergo/ventas-plus/internal/application/ventas"
	"github.com/hergo/ventas-plus/internal/domain/entity"
)

var _ ventas.RepositorioInventario = (*InventarioRepo)(nil)

// InventarioRepo consulta de facturas del sistema de inventarios (usable con pool o tx).
type InventarioRepo struct {
	q Querier
}

// NewInventarioRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventarioRepository(q Querier) *InventarioRepo {
	return &InventarioRepo{q: q}
}

// FacturasDelPeriodo devuelve las facturas emitidas en el mes, con fecha ya
// formateada dd/mm/yyyy y estado V/A, en el orden del sistema de inventarios
// (almacén, fecha, lote descendente, número).
func (r *InventarioRepo) FacturasDelPeriodo(ctx context.Context, periodo ventas.Periodo) ([]entity.FacturaInventario, error) {
	query := `
		SELECT
			fs.cuf,
			to_char(f.fecha_fac, 'DD/MM/YYYY') AS fecha,
			f.n_factura::text,
			fs.codigo_sucursal::text,
			f.cliente_nit::text,
			f.cliente_factura,
			f.total,
			f.total AS subtotal,
			f.total AS base,
			round(f.total * 0.13, 3) AS debito,
			CASE WHEN f.anulada = 0 THEN 'V' ELSE 'A' END AS estado,
			CASE WHEN f.codigo_control = '' THEN '0' ELSE f.codigo_control END AS codigo_control,
			a.almacen,
			CASE WHEN df.manual = 1 THEN 'SIAT-DESKTOP-FE' ELSE 'ONLINE' END AS tipo_facturacion,
			f.glosa,
			u.first_name || ' ' || u.last_name AS autor
		FROM factura f
			INNER JOIN datosfactura df ON df.id_datos_factura = f.lote
			INNER JOIN factura_siat fs ON fs.factura_id = f.id_factura
			INNER JOIN almacenes a ON a.id_almacen = f.almacen
			INNER JOIN users u ON u.id = f.autor
		WHERE EXTRACT(YEAR FROM f.fecha_fac) = $1
			AND EXTRACT(MONTH FROM f.fecha_fac) = $2
		ORDER BY a.id_almacen, f.fecha_fac, df.id_datos_factura DESC, f.n_factura`

	rows, err := r.q.Query(ctx, query, periodo.Anio, periodo.Mes)
	if err != nil {
		return nil, fmt.Errorf("consultar facturas de inventario: %w", err)
	}
	defer rows.Close()

	var facturas []entity.FacturaInventario
	for rows.Next() {
		var f entity.FacturaInventario
		if err := rows.Scan(
			&f.Autorizacion, &f.Fecha, &f.NumeroFactura, &f.CodigoSucursal,
			&f.NIT, &f.RazonSocial,
			&f.ImporteTotal, &f.Subtotal, &f.Base, &f.Debito,
			&f.Estado, &f.CodigoControl, &f.Almacen, &f.TipoFacturacion,
			&f.Observacion, &f.Autor,
		); err != nil {
			return nil, fmt.Errorf("escanear factura de inventario: %w", err)
		}
		f.TipoVenta = "0"
		facturas = append(facturas, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recorrer facturas de inventario: %w", err)
	}
	return facturas, nil
}
