package helper

import (
	"fmt"
	"strings"

	"PollingNav-App/internal/domain/model"
)

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

var codeSeparators = strings.NewReplacer(" ", "", "-", "", "/", "", ".", "")

// ValidatePollingUnitCode は投票所コードを検証し "WW-PPP" 形式に正規化する
//
//	5桁  WWPPP      → WW-PPP
//	8桁  SSSSWWPP   → WW-0PP（先頭4桁は州・地方行政区として破棄）
//	9桁  SSSSWWPPP  → WW-PPP
func ValidatePollingUnitCode(code string) (*model.PollingUnitCode, error) {
	digits := codeSeparators.Replace(strings.TrimSpace(code))
	if digits == "" {
		return nil, &ValidationError{Field: "polling_unit_code", Message: "polling unit code is required"}
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return nil, &ValidationError{
				Field:   "polling_unit_code",
				Message: fmt.Sprintf("polling unit code must contain digits only, got %q", code),
			}
		}
	}

	var ward, unit string
	switch len(digits) {
	case 5:
		ward, unit = digits[0:2], digits[2:5]
	case 8:
		ward, unit = digits[4:6], "0"+digits[6:8]
	case 9:
		ward, unit = digits[4:6], digits[6:9]
	default:
		return nil, &ValidationError{
			Field:   "polling_unit_code",
			Message: fmt.Sprintf("polling unit code must have 5, 8 or 9 digits, got %d", len(digits)),
		}
	}

	return &model.PollingUnitCode{
		Raw:      code,
		WardCode: ward,
		PUCode:   unit,
	}, nil
}
