package program

import (
	"fmt"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/scsit/ges/core"
)

var (
	positiveTag  = "positive"
	positiveText = "Credits must be a positive integer."

	endAfterStartTag  = "endafterstart"
	endAfterStartText = "End time must be after start time."
)

func invalidPKText(pk int) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", pk)
}

// InitValidators registers the program validators and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(positiveTag, positiveValidation)
	core.RegisterCustomTranslation(validate, translator, positiveTag, positiveText)

	validate.RegisterStructValidation(scheduleStructValidation, ScheduleInput{})
	core.RegisterCustomTranslation(validate, translator, endAfterStartTag, endAfterStartText)
}

// positiveValidation only allows integers > 0.
func positiveValidation(fl validator.FieldLevel) bool {
	return fl.Field().Int() > 0
}

// scheduleStructValidation checks that a schedule ends after it starts.
func scheduleStructValidation(sl validator.StructLevel) {
	in := sl.Current().Interface().(ScheduleInput)
	if in.StartTime == nil || in.EndTime == nil {
		return
	}
	if !in.StartTime.Before(*in.EndTime) {
		sl.ReportError(in.EndTime, core.NonFieldErrors, "EndTime", endAfterStartTag, "")
	}
}
