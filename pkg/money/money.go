package money

import "fmt"

// Dollars переводит сумму в центах в строку долларов с двумя знаками.
// Суммы живут в центах по всему сервису, строка появляется только на
// границе API.
func Dollars(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
