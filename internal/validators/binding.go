package validators

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/doctor-scheduler/internal/clock"
)

var (
	registerOnce sync.Once
	formatCheck  = validator.New()
)

// Register adiciona as tags "clock" (HH:MM ou h:MM AM/PM), "ymd"
// (YYYY-MM-DD) e "trimmed_email" ao validador do gin.
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if err = v.RegisterValidation("clock", validClock); err != nil {
			return
		}
		if err = v.RegisterValidation("ymd", validDate); err != nil {
			return
		}
		err = v.RegisterValidation("trimmed_email", validTrimmedEmail)
	})
	return err
}

func validClock(fl validator.FieldLevel) bool {
	_, err := clock.Parse(fl.Field().String())
	return err == nil
}

func validDate(fl validator.FieldLevel) bool {
	_, err := clock.ParseDate(fl.Field().String())
	return err == nil
}

// IsEmailFormat aceita espaços nas pontas; o handler normaliza depois.
func IsEmailFormat(s string) bool {
	return formatCheck.Var(strings.TrimSpace(s), "required,email") == nil
}

func validTrimmedEmail(fl validator.FieldLevel) bool {
	return IsEmailFormat(fl.Field().String())
}
