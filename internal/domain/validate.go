package domain

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^0\d{9}$`)

// carrierPrefixes — диапазоны обслуживаемого оператора (MTN Ghana).
var carrierPrefixes = []string{"024", "054", "055", "059"}

// ValidationResult — накопленные ошибки проверки заказа.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors,omitempty"`
}

// Validate проверяет номер и код пакета до любого сетевого вызова.
// Правила не обрываются на первой ошибке — все нарушения накапливаются.
func Validate(phone, bundleCode string) ValidationResult {
	var errs []string

	if !phonePattern.MatchString(phone) {
		errs = append(errs, "invalid phone format: must be 10 digits starting with 0")
	}
	if phone != "" && !hasCarrierPrefix(phone) {
		errs = append(errs, "not a valid carrier number: must start with 024, 054, 055 or 059")
	}
	if !KnownBundle(bundleCode) {
		errs = append(errs, "invalid bundle: "+bundleCode)
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func hasCarrierPrefix(phone string) bool {
	for _, p := range carrierPrefixes {
		if strings.HasPrefix(phone, p) {
			return true
		}
	}
	return false
}

// NormalizePhone приводит номер к локальному виду: без пробелов, +233 -> 0.
func NormalizePhone(phone string) string {
	phone = strings.ReplaceAll(phone, " ", "")
	if strings.HasPrefix(phone, "+233") {
		phone = "0" + phone[len("+233"):]
	}
	return phone
}
