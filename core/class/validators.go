package class

import (
	"regexp"
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/adaptivin/adaptivin-admin/core"
)

var (
	academicYearTag   = "academicyear"
	academicYearText  = "must look like 2025/2026 (two consecutive years)"
	academicYearRegex = regexp.MustCompile(`^\d{4}/\d{4}$`)
)

// InitValidators registers the class-specific validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(academicYearTag, academicYearValidation)
	core.RegisterCustomTranslation(validate, translator, academicYearTag, academicYearText)
}

// academicYearValidation checks the "YYYY/YYYY" shape and that the second
// year follows the first.
func academicYearValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if !academicYearRegex.MatchString(val) {
		return false
	}
	parts := strings.SplitN(val, "/", 2)
	from, _ := strconv.Atoi(parts[0])
	to, _ := strconv.Atoi(parts[1])
	return to == from+1
}
