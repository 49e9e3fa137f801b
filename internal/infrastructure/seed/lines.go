// Package seed carga líneas de órdenes de compra y pedidos desde CSV.
// Las órdenes las crea el módulo de compras/ventas; este paquete sirve para demos y cargas iniciales.
package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/telas-api/internal/domain/entity"
	inv "github.com/jhoicas/telas-api/internal/domain/inventory"
)

// Tipos de fila del CSV.
const (
	KindPurchase = "compra"
	KindOrder    = "pedido"
)

// Lines resultado del CSV.
type Lines struct {
	Purchase []entity.PurchaseOrderLine
	Orders   []entity.OrderLine
}

// Columnas: tipo,id,company_id,orden_id,product_id,color,cantidad,cumplido.
// La cabecera es opcional; "cumplido" puede ir vacío.
const minColumns = 7

// Parse lee el CSV. Si latin1 es true decodifica ISO-8859-1 (exportaciones de Excel).
func Parse(r io.Reader, latin1 bool) (*Lines, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	out := &Lines{}
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", row, err)
		}
		if row == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "tipo") {
			continue
		}
		if len(rec) < minColumns {
			return nil, fmt.Errorf("fila %d: se esperaban al menos %d columnas", row, minColumns)
		}
		if err := out.add(rec); err != nil {
			return nil, fmt.Errorf("fila %d: %w", row, err)
		}
	}
}

func (l *Lines) add(rec []string) error {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	kind, id, companyID, orderID, productID, color := strings.ToLower(rec[0]), rec[1], rec[2], rec[3], rec[4], rec[5]
	if id == "" || companyID == "" || orderID == "" || productID == "" {
		return errors.New("id, company_id, orden_id y product_id son obligatorios")
	}
	qty, err := decimal.NewFromString(rec[6])
	if err != nil || !qty.IsPositive() {
		return fmt.Errorf("cantidad inválida %q", rec[6])
	}
	done := decimal.Zero
	if len(rec) > minColumns && rec[7] != "" {
		done, err = decimal.NewFromString(rec[7])
		if err != nil || done.IsNegative() {
			return fmt.Errorf("cumplido inválido %q", rec[7])
		}
	}

	switch kind {
	case KindPurchase:
		l.Purchase = append(l.Purchase, entity.PurchaseOrderLine{
			ID: id, CompanyID: companyID, PurchaseOrderID: orderID, ProductID: productID, Color: color,
			OrderedQuantity: qty, ReceivedQuantity: done, Status: inv.PurchaseLineStatus(qty, done),
		})
	case KindOrder:
		l.Orders = append(l.Orders, entity.OrderLine{
			ID: id, CompanyID: companyID, OrderID: orderID, ProductID: productID, Color: color,
			Quantity: qty, ShippedQuantity: done, Status: inv.OrderLineStatus(qty, done),
		})
	default:
		return fmt.Errorf("tipo %q desconocido (use %s o %s)", rec[0], KindPurchase, KindOrder)
	}
	return nil
}

// LineSeeder destino de la carga (almacén en memoria).
type LineSeeder interface {
	SeedPurchaseLine(l entity.PurchaseOrderLine)
	SeedOrderLine(l entity.OrderLine)
}

// Apply carga las líneas en el almacén.
func (l *Lines) Apply(s LineSeeder) {
	for _, p := range l.Purchase {
		s.SeedPurchaseLine(p)
	}
	for _, o := range l.Orders {
		s.SeedOrderLine(o)
	}
}

// WriteSQL escribe INSERTs idempotentes para PostgreSQL.
func (l *Lines) WriteSQL(w io.Writer) error {
	var b strings.Builder
	b.WriteString("-- Líneas de órdenes de compra y pedidos (carga inicial)\n\n")
	for _, p := range l.Purchase {
		fmt.Fprintf(&b, "INSERT INTO purchase_order_lines (id, company_id, purchase_order_id, product_id, color, ordered_quantity, received_quantity, status)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', '%s', '%s', %s, %s, '%s')\n",
			escapeSQL(p.ID), escapeSQL(p.CompanyID), escapeSQL(p.PurchaseOrderID), escapeSQL(p.ProductID),
			escapeSQL(p.Color), p.OrderedQuantity.String(), p.ReceivedQuantity.String(), p.Status)
		b.WriteString("ON CONFLICT (id) DO NOTHING;\n")
	}
	for _, o := range l.Orders {
		fmt.Fprintf(&b, "INSERT INTO order_lines (id, company_id, order_id, product_id, color, quantity, shipped_quantity, status)\n")
		fmt.Fprintf(&b, "VALUES ('%s', '%s', '%s', '%s', '%s', %s, %s, '%s')\n",
			escapeSQL(o.ID), escapeSQL(o.CompanyID), escapeSQL(o.OrderID), escapeSQL(o.ProductID),
			escapeSQL(o.Color), o.Quantity.String(), o.ShippedQuantity.String(), o.Status)
		b.WriteString("ON CONFLICT (id) DO NOTHING;\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
