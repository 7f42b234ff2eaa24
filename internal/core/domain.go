package core

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type (
	// Expense is one tracked transaction. JSON names match the persisted
	// collection written by the browser version of the tracker.
	Expense struct {
		ID          string `json:"id"`
		Year        string `json:"ano" validate:"required,len=4,number"`
		Month       string `json:"mes" validate:"required,mes"`
		Category    string `json:"categoria" validate:"required,max=100"`
		Description string `json:"descricao" validate:"max=200"`
		Amount      Amount `json:"valor"`
	}
)

var (
	ErrInvalidYear        = errors.New("invalid year")
	ErrInvalidMonth       = errors.New("invalid month")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyCategory      = errors.New("empty category")
	ErrCategoryTooLong    = errors.New("category too long (max 100 characters)")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("mes", func(fl validator.FieldLevel) bool {
		return IsMonth(fl.Field().String())
	})
	return v
}

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.NewString()
}

// Normalize trims surrounding whitespace from the free-text fields.
func (e Expense) Normalize() Expense {
	e.Year = strings.TrimSpace(e.Year)
	e.Month = strings.TrimSpace(e.Month)
	e.Category = strings.TrimSpace(e.Category)
	e.Description = strings.TrimSpace(e.Description)
	return e
}

func (e Expense) Validate() error {
	err := validate.Struct(e)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	// Report the first failing field, in declaration order.
	fe := verrs[0]
	switch fe.StructField() {
	case "Year":
		return ErrInvalidYear
	case "Month":
		return ErrInvalidMonth
	case "Category":
		if fe.Tag() == "max" {
			return ErrCategoryTooLong
		}
		return ErrEmptyCategory
	case "Description":
		return ErrDescriptionTooLong
	}
	return err
}

// IsValidationError reports whether err is one of the record validation errors.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidYear, ErrInvalidMonth, ErrInvalidAmount,
		ErrEmptyCategory, ErrCategoryTooLong, ErrDescriptionTooLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
