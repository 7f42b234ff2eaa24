package http

import (
	"errors"
	"html/template"
	"net/http"

	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/report"
)

var templateFuncs = template.FuncMap{
	"months": core.MonthNames,
}

type (
	// formView feeds the "form" template. A non-empty Cursor switches the
	// form into edit mode.
	formView struct {
		ExpenseForm
		Error string
	}

	pageView struct {
		Form   formView
		Filter core.Filter
		Report report.Report
	}

	// savedView is the response to a successful submit: the full list plus
	// an out-of-band blank form.
	savedView struct {
		Form   formView
		Report report.Report
	}
)

// validationMessages maps record validation errors to the text shown above
// the form.
var validationMessages = []struct {
	err error
	msg string
}{
	{core.ErrInvalidAmount, "Valor inválido"},
	{core.ErrInvalidYear, "Ano inválido: use quatro dígitos"},
	{core.ErrInvalidMonth, "Mês inválido"},
	{core.ErrEmptyCategory, "Informe a categoria"},
	{core.ErrCategoryTooLong, "Categoria muito longa (máx. 100 caracteres)"},
	{core.ErrDescriptionTooLong, "Descrição muito longa (máx. 200 caracteres)"},
}

func validationMessage(err error) string {
	for _, vm := range validationMessages {
		if errors.Is(err, vm.err) {
			return vm.msg
		}
	}
	return "Dados inválidos"
}

// render executes a template into resp and writes it. A missing template set
// yields a 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, resp *HTMXResponseBuilder, name string, data any) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded",
			log.FieldPath, r.URL.Path,
			log.FieldTemplate, name,
			log.FieldErrorType, log.ErrorTypeConfiguration)
		InternalServerError("Templates não carregados").Write(w)
		return
	}
	if err := resp.BodyTemplate(s.templates, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err,
			log.FieldTemplate, name,
			log.FieldOperation, log.OpRender,
			log.FieldErrorType, log.ErrorTypeInternal)
	}
	resp.Write(w)
}

// renderPage writes the full page with the given form state and filter.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, form formView, f core.Filter) {
	s.render(w, r, NewHTMXResponse().Status(status), "index.html", pageView{
		Form:   form,
		Filter: f,
		Report: s.reportFor(f),
	})
}

// renderFormError re-renders the submitted form with msg above it, keeping
// what the user typed.
func (s *Server) renderFormError(w http.ResponseWriter, r *http.Request, status int, form ExpenseForm, msg string) {
	view := formView{ExpenseForm: form, Error: msg}
	if !isHTMX(r) {
		s.renderPage(w, r, status, view, core.Filter{})
		return
	}
	resp := NewHTMXResponse().
		Status(status).
		Retarget("#formContainer", "innerHTML").
		TriggerErrorNotification(msg)
	s.render(w, r, resp, "form", view)
}
