package seed_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/internal/infrastructure/memory"
	"github.com/jhoicas/telas-api/internal/infrastructure/seed"
)

const sample = `tipo,id,company_id,orden_id,product_id,color,cantidad,cumplido
compra,lc-1,c1,oc-1,lino,crudo,100,
compra,lc-2,c1,oc-1,lino,azul,50,20
pedido,lp-1,c1,p-1,lino,crudo,30,30
`

func TestParse(t *testing.T) {
	lines, err := seed.Parse(strings.NewReader(sample), false)
	require.NoError(t, err)
	require.Len(t, lines.Purchase, 2)
	require.Len(t, lines.Orders, 1)

	assert.Equal(t, entity.PurchaseLinePending, lines.Purchase[0].Status)
	assert.Equal(t, entity.PurchaseLinePartialReceived, lines.Purchase[1].Status)
	assert.Equal(t, entity.OrderLineShipped, lines.Orders[0].Status)
}

func TestParse_Latin1(t *testing.T) {
	// "Azul Océano" en ISO-8859-1 (é = 0xE9)
	raw := []byte("compra,lc-1,c1,oc-1,lino,Azul Oc\xe9ano,10\n")
	lines, err := seed.Parse(bytes.NewReader(raw), true)
	require.NoError(t, err)
	assert.Equal(t, "Azul Océano", lines.Purchase[0].Color)
}

func TestParse_Errores(t *testing.T) {
	cases := map[string]string{
		"cantidad cero":  "compra,lc-1,c1,oc-1,lino,crudo,0\n",
		"tipo":           "devolucion,lc-1,c1,oc-1,lino,crudo,10\n",
		"columnas":       "compra,lc-1,c1\n",
		"sin product_id": "pedido,lp-1,c1,p-1,,crudo,10\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := seed.Parse(strings.NewReader(in), false)
			assert.Error(t, err)
		})
	}
}

func TestApplyYWriteSQL(t *testing.T) {
	lines, err := seed.Parse(strings.NewReader(sample+"pedido,lp-2,c1,p-1,lino,O'Higgins,5\n"), false)
	require.NoError(t, err)

	store := memory.NewStore()
	lines.Apply(store)
	open, err := store.Repos().PurchaseLines.ListOpen(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, open, 2)

	var buf bytes.Buffer
	require.NoError(t, lines.WriteSQL(&buf))
	sql := buf.String()
	assert.Equal(t, 2, strings.Count(sql, "INSERT INTO purchase_order_lines"))
	assert.Equal(t, 2, strings.Count(sql, "INSERT INTO order_lines"))
	assert.Contains(t, sql, "'O''Higgins'")
}
