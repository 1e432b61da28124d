package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hergo/ventas-plus/internal/application/contabilidad"
)

var _ contabilidad.RepositorioContable = (*ContabilidadRepo)(nil)

// ContabilidadRepo acceso al registro de ventas de la base contable (usable con pool o tx).
type ContabilidadRepo struct {
	q Querier
}

// NewContabilidadRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContabilidadRepository(q Querier) *ContabilidadRepo {
	return &ContabilidadRepo{q: q}
}

// ContarPeriodo cuenta los registros de venta con fecha dentro del rango (inclusivo).
func (r *ContabilidadRepo) ContarPeriodo(ctx context.Context, desde, hasta time.Time) (int, error) {
	var total int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM sales_registers WHERE invoice_date BETWEEN $1 AND $2`,
		desde, hasta,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("contar registros de venta: %w", err)
	}
	return total, nil
}

// EliminarPeriodo borra los registros de venta del rango y devuelve cuántos eliminó.
func (r *ContabilidadRepo) EliminarPeriodo(ctx context.Context, desde, hasta time.Time) (int, error) {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM sales_registers WHERE invoice_date BETWEEN $1 AND $2`,
		desde, hasta,
	)
	if err != nil {
		return 0, fmt.Errorf("eliminar registros de venta: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

var columnasVentas = []string{
	"invoice_date", "invoice_number", "authorization_code", "customer_nit",
	"complement", "customer_name", "total_amount", "ice_amount", "iehd_amount",
	"ipj_amount", "tax_rates", "other_not_subject", "exports_exempt",
	"zero_rate_sales", "subtotal", "discounts", "gift_card_amount",
	"base_amount", "tax_debit", "status", "control_code", "sale_type",
	"with_tax_credit", "consolidation_status",
}

// InsertarVentas inserta los registros en bloque con COPY.
func (r *ContabilidadRepo) InsertarVentas(ctx context.Context, registros []contabilidad.RegistroVenta) (int, error) {
	if len(registros) == 0 {
		return 0, nil
	}
	filas := make([][]any, 0, len(registros))
	for _, v := range registros {
		filas = append(filas, []any{
			v.Fecha, v.NumeroFactura, v.CodigoAutorizacion, v.NITCliente,
			v.Complemento, v.RazonSocial, v.ImporteTotal, v.ImporteICE, v.ImporteIEHD,
			v.ImporteIPJ, v.Tasas, v.OtrosNoSujetos, v.Exportaciones,
			v.VentasTasaCero, v.Subtotal, v.Descuentos, v.ImporteGiftCard,
			v.ImporteBase, v.DebitoFiscal, v.Estado, v.CodigoControl, v.TipoVenta,
			v.ConDerechoCredito, v.EstadoConsolidacion,
		})
	}
	n, err := r.q.CopyFrom(ctx, pgx.Identifier{"sales_registers"}, columnasVentas, pgx.CopyFromRows(filas))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("registro de venta duplicado: %w", err)
		}
		return 0, fmt.Errorf("insertar registros de venta: %w", err)
	}
	return int(n), nil
}
