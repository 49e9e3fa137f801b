// Package units formatea cantidades de tela para documentos impresos y hojas de cálculo.
package units

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Spanish)

// Kg formatea kilos con separadores de miles en español y dos decimales: 12.345,50 kg.
func Kg(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return printer.Sprint(number.Decimal(f, number.Scale(2))) + " kg"
}
