package http

import (
	"errors"
	"net/http"
	"sync/atomic"

	"gastos/internal/core"
	"gastos/internal/ledger"
	"gastos/internal/log"
)

// handleExpenses serves the collection resource: GET filters, POST submits
// the form.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		s.handleFilterExpenses(w, r)
	case http.MethodPost:
		s.handleSubmitExpense(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

// handleFilterExpenses renders the filtered view. The filter is never
// persisted; the next submit or delete shows the full list again.
func (s *Server) handleFilterExpenses(w http.ResponseWriter, r *http.Request) {
	f := ParseFilterParams(r.URL.Query())
	if !isHTMX(r) {
		s.renderPage(w, r, http.StatusOK, formView{}, f)
		return
	}

	rep := s.reportFor(f)
	s.logger.DebugContext(r.Context(), "Expenses filtered",
		log.FieldOperation, log.OpFilter,
		log.FieldFilter, f.Key(),
		log.FieldCount, rep.Count)
	s.render(w, r, NewHTMXResponse(), "results", rep)
}

// handleSubmitExpense creates a record, or replaces the one named by the
// hidden id cursor, then answers with the full list and a blank form.
func (s *Server) handleSubmitExpense(w http.ResponseWriter, r *http.Request) {
	form, err := ParseExpenseForm(w, r)
	if err != nil {
		s.logger.WarnContext(r.Context(), "Parse form error",
			log.FieldError, err,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	exp, err := form.Expense()
	if err != nil {
		s.rejectInvalid(w, r, form, err)
		return
	}

	created := form.Cursor == ""
	saved, err := s.backend.Submit(r.Context(), form.Cursor, exp)
	switch {
	case err == nil:
	case core.IsValidationError(err):
		s.rejectInvalid(w, r, form, err)
		return
	case errors.Is(err, ledger.ErrNotFound):
		// The record was deleted after it was loaded into the form. Drop the
		// cursor so the next submit creates it anew.
		form.Cursor = ""
		s.renderFormError(w, r, http.StatusNotFound, form, "Este gasto não existe mais. Envie novamente para criá-lo.")
		return
	default:
		s.events.LogError(r.Context(), "Failed to save expense", err, log.ComponentExpense, log.OpCreate,
			log.NewFields().
				WithExpense(form.Cursor, exp.Year, exp.Month, exp.Category, exp.Amount.String()).
				WithErrorType(log.ErrorTypeDatabase))
		s.renderFormError(w, r, http.StatusInternalServerError, form, "Erro ao salvar o gasto")
		return
	}

	s.invalidateReports()
	atomic.AddInt64(&s.appMetrics.saved, 1)
	op := log.OpUpdate
	if created {
		op = log.OpCreate
	}
	s.events.LogExpenseSaved(r.Context(), op, saved.ID, saved.Year, saved.Month, saved.Category, saved.Amount.String())

	if !isHTMX(r) {
		redirectHome(w, r)
		return
	}

	resp := NewHTMXResponse().
		TriggerFormReset().
		TriggerExpenseSaved(saved.ID, created).
		TriggerSuccessNotification("Gasto salvo")
	s.render(w, r, resp, "saved", savedView{
		Form:   formView{},
		Report: s.reportFor(core.Filter{}),
	})
}

// rejectInvalid answers a submit that failed validation with 422. JSON
// clients get the bare alert; browsers get the form back with their input.
func (s *Server) rejectInvalid(w http.ResponseWriter, r *http.Request, form ExpenseForm, err error) {
	msg := validationMessage(err)
	s.logger.DebugContext(r.Context(), "Expense rejected",
		log.FieldError, err,
		log.FieldErrorType, log.ErrorTypeValidation,
		log.FieldExpenseID, form.Cursor)
	if form.viaJSON && !isHTMX(r) {
		UnprocessableEntityError(msg).Write(w)
		return
	}
	s.renderFormError(w, r, http.StatusUnprocessableEntity, form, msg)
}

// handleEditExpense loads a record into the form and sets the cursor.
func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	id := r.PathValue("id")
	exp, err := s.backend.Get(id)
	if err != nil {
		s.logger.WarnContext(r.Context(), "Edit requested for unknown expense",
			log.FieldExpenseID, id,
			log.FieldErrorType, log.ErrorTypeNotFound)
		s.renderFormError(w, r, http.StatusNotFound, ExpenseForm{}, "Gasto não encontrado")
		return
	}

	view := formView{ExpenseForm: FormFromExpense(exp)}
	if !isHTMX(r) {
		s.renderPage(w, r, http.StatusOK, view, core.Filter{})
		return
	}
	s.render(w, r, NewHTMXResponse(), "form", view)
}

// handleDeleteExpense removes one record by ID and answers with the full list.
// DELETE comes from htmx; POST to /expenses/{id}/delete from plain forms.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		BadRequestError("ID do gasto ausente").Write(w)
		return
	}

	err := s.backend.Delete(r.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrNotFound):
		s.logger.WarnContext(r.Context(), "Delete requested for unknown expense",
			log.FieldExpenseID, id,
			log.FieldErrorType, log.ErrorTypeNotFound)
		if !isHTMX(r) {
			NotFoundError("Gasto não encontrado").Write(w)
			return
		}
		// Refresh the stale list along with the error.
		resp := NewHTMXResponse().
			Status(http.StatusNotFound).
			TriggerErrorNotification("Gasto não encontrado")
		s.render(w, r, resp, "results", s.reportFor(core.Filter{}))
		return
	default:
		s.events.LogError(r.Context(), "Failed to delete expense", err, log.ComponentExpense, log.OpDelete,
			log.LogFields{log.FieldExpenseID: id}.WithErrorType(log.ErrorTypeDatabase))
		InternalServerError("Erro ao excluir o gasto").Write(w)
		return
	}

	s.invalidateReports()
	atomic.AddInt64(&s.appMetrics.deleted, 1)
	s.logger.WithComponent(log.ComponentExpense).InfoContext(r.Context(), "Expense deleted",
		log.FieldExpenseID, id,
		log.FieldOperation, log.OpDelete)

	if !isHTMX(r) {
		redirectHome(w, r)
		return
	}

	resp := NewHTMXResponse().
		TriggerExpenseDeleted(id).
		TriggerSuccessNotification("Gasto excluído")
	s.render(w, r, resp, "results", s.reportFor(core.Filter{}))
}
