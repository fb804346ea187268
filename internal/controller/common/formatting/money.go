package formatting

import "fmt"

// FormatMoney форматирует сумму с символом валюты: "€87.50"
func FormatMoney(amount float64, currency string) string {
	return fmt.Sprintf("%s%.2f", currency, amount)
}

// FormatMoneyShort форматирует сумму без копеек, если они равны 0
func FormatMoneyShort(amount float64, currency string) string {
	if amount == float64(int64(amount)) {
		return fmt.Sprintf("%s%.0f", currency, amount)
	}
	return FormatMoney(amount, currency)
}
