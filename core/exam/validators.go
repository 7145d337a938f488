package exam

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
)

var (
	examTypeTag  = "examtype"
	examTypeText = "invalid exam type"

	examStatusTag  = "examstatus"
	examStatusText = "invalid exam status"
)

// InitValidators registers the exam validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(examTypeTag, examTypeValidation)
	core.RegisterCustomTranslation(validate, translator, examTypeTag, examTypeText)

	_ = validate.RegisterValidation(examStatusTag, examStatusValidation)
	core.RegisterCustomTranslation(validate, translator, examStatusTag, examStatusText)
}

// Custom Validators

func examTypeValidation(fl validator.FieldLevel) bool {
	if typ, ok := fl.Field().Interface().(Type); ok {
		return typ.IsValid()
	}
	return false
}

func examStatusValidation(fl validator.FieldLevel) bool {
	if st, ok := fl.Field().Interface().(Status); ok {
		return st.IsValid()
	}
	return false
}
