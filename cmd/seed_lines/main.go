// seed_lines genera un script SQL con las líneas de órdenes de compra y pedidos
// a partir de un CSV (tipo,id,company_id,orden_id,product_id,color,cantidad,cumplido).
//
// Uso: go run ./cmd/seed_lines [-latin1] [-out seed_lines.sql] lineas.csv
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/telas-api/internal/infrastructure/seed"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el CSV viene en ISO-8859-1 (exportación de Excel)")
	outPath := flag.String("out", "seed_lines.sql", "archivo SQL de salida")
	flag.Parse()

	csvPath := "lineas.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	lines, err := seed.Parse(f, *latin1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := lines.WriteSQL(out); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d líneas de compra, %d líneas de pedido\n", *outPath, len(lines.Purchase), len(lines.Orders))
}
