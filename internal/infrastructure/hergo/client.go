// Package hergo cliente de la API de reportes de ventas de Hergo. La API no
// expone tokens: la sesión se mantiene por cookies y los endpoints esperan
// cabeceras de navegación AJAX.
package hergo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hergo/ventas-plus/internal/application/ventas"
	"github.com/hergo/ventas-plus/pkg/config"
	"github.com/hergo/ventas-plus/pkg/logger"
)

const (
	rutaLogin     = "/index.php/auth/login"
	rutaVentas    = "/index.php/Reportes/mostrarVentasLineaMes"
	rutaPrincipal = "/principal"
	rutaReportes  = "/reportes/resumenVentasLineaMes"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

var _ ventas.ClienteHergo = (*Client)(nil)

// Client sesión autenticada contra Hergo. El login se hace perezoso en la
// primera consulta y la sesión se reutiliza mientras viva el cliente.
type Client struct {
	base     string
	usuario  string
	password string
	http     *http.Client
	log      *logger.Logger

	mu        sync.Mutex
	conSesion bool
}

// NewClient construye el cliente. Devuelve error si faltan credenciales.
func NewClient(cfg config.HergoConfig, log *logger.Logger) (*Client, error) {
	if cfg.Usuario == "" || cfg.Password == "" {
		return nil, fmt.Errorf("credenciales de Hergo no configuradas (HERGO_USER / HERGO_PASS)")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("crear cookie jar: %w", err)
	}
	return &Client{
		base:     strings.TrimRight(cfg.BaseURL, "/"),
		usuario:  cfg.Usuario,
		password: cfg.Password,
		http: &http.Client{
			Jar:     jar,
			Timeout: 20 * time.Second,
		},
		log: log,
	}, nil
}

// lineaVentas una fila del reporte mensual. La fila con Sigla nula es el
// total de la consulta; total llega a veces como número y a veces como string.
type lineaVentas struct {
	Sigla *string         `json:"Sigla"`
	Total json.RawMessage `json:"total"`
}

// TotalVentas total de ventas del periodo para una sucursal (nil = general).
func (c *Client) TotalVentas(ctx context.Context, periodo ventas.Periodo, sucursal *int) (decimal.Decimal, error) {
	if err := c.asegurarSesion(ctx); err != nil {
		return decimal.Zero, err
	}

	inicio, fin := rangoMes(periodo)
	datos := url.Values{
		"inicio": {inicio},
		"fin":    {fin},
	}
	if sucursal == nil {
		datos.Set("sucursal", "")
	} else {
		datos.Set("sucursal", strconv.Itoa(*sucursal))
	}

	cuerpo, err := c.postForm(ctx, rutaVentas, datos)
	if err != nil {
		return decimal.Zero, fmt.Errorf("consultar ventas: %w", err)
	}

	var lineas []lineaVentas
	if err := json.Unmarshal(cuerpo, &lineas); err != nil {
		return decimal.Zero, fmt.Errorf("respuesta de ventas ilegible: %w", err)
	}
	for _, l := range lineas {
		if l.Sigla != nil {
			continue
		}
		total, err := decimalDesdeJSON(l.Total)
		if err != nil {
			return decimal.Zero, fmt.Errorf("total ilegible en la fila resumen: %w", err)
		}
		return total, nil
	}
	// Sin fila resumen: la consulta no devolvió movimiento.
	return decimal.Zero, nil
}

// asegurarSesion hace login y la navegación previa que la API espera. Solo la
// primera invocación paga el costo.
func (c *Client) asegurarSesion(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conSesion {
		return nil
	}

	cuerpo, err := c.postForm(ctx, rutaLogin, url.Values{
		"identity": {c.usuario},
		"password": {c.password},
	})
	if err != nil {
		return fmt.Errorf("login en Hergo: %w", err)
	}
	if strings.Contains(strings.ToLower(string(cuerpo)), "error") {
		return fmt.Errorf("login en Hergo rechazado: verificar credenciales")
	}

	// La API valida que la sesión haya pasado por las pantallas del reporte.
	for _, ruta := range []string{rutaPrincipal, rutaReportes} {
		if _, err := c.get(ctx, ruta); err != nil {
			return fmt.Errorf("navegación previa %s: %w", ruta, err)
		}
	}
	c.conSesion = true
	c.log.Debug().Str("usuario", c.usuario).Msg("sesión de Hergo iniciada")
	return nil
}

func (c *Client) postForm(ctx context.Context, ruta string, datos url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+ruta, strings.NewReader(datos.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.hacer(req)
}

func (c *Client) get(ctx context.Context, ruta string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+ruta, nil)
	if err != nil {
		return nil, err
	}
	return c.hacer(req)
}

func (c *Client) hacer(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", c.base+rutaLogin)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	cuerpo, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("leer respuesta: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d en %s", resp.StatusCode, req.URL.Path)
	}
	return cuerpo, nil
}

// decimalDesdeJSON acepta el total como número JSON o como string numérico.
func decimalDesdeJSON(crudo json.RawMessage) (decimal.Decimal, error) {
	texto := strings.TrimSpace(string(crudo))
	if texto == "" || texto == "null" {
		return decimal.Zero, nil
	}
	texto = strings.Trim(texto, `"`)
	if texto == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(texto)
}

// rangoMes primer y último día del mes en formato ISO.
func rangoMes(p ventas.Periodo) (string, string) {
	desde := time.Date(p.Anio, time.Month(p.Mes), 1, 0, 0, 0, 0, time.UTC)
	hasta := desde.AddDate(0, 1, -1)
	return desde.Format("2006-01-02"), hasta.Format("2006-01-02")
}
