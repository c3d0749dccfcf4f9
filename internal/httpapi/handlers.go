package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/supplify/crm/internal/repo"
	"github.com/supplify/crm/pkg/types"
)

// Error codes returned in the response envelope.
const (
	codeUnauthorized    = "UNAUTHORIZED"
	codeRateLimited     = "RATE_LIMITED"
	codeValidationError = "VALIDATION_ERROR"
	codeNotFound        = "NOT_FOUND"
	codeInternal        = "INTERNAL_ERROR"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Every JSON response is wrapped in the same envelope: {ok:true, data} on
// success, {ok:false, error:{code, message, details}} on failure.
func writeOK(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"ok": true, "data": data})
}

func writeErr(w http.ResponseWriter, status int, code, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"ok":    false,
		"error": errorBody{Code: code, Message: message, Details: details},
	})
}

// Numberish decodes a JSON number or a numeric string. Empty strings and
// null decode to zero.
type Numberish float64

func (n *Numberish) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", s)
		}
		*n = Numberish(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Numberish(v)
	return nil
}

// Boolish decodes a JSON bool, a 0/1 number, or the loose string forms
// ("true", "1", "on", "yes").
type Boolish bool

func (v *Boolish) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*v = false
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Boolish(types.ParseBool(s))
	case string(b) == "true":
		*v = true
	case string(b) == "false":
		*v = false
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return err
		}
		*v = f != 0
	}
	return nil
}

type companyPayload struct {
	ID     string `json:"id"`
	Name   string `json:"name" validate:"required"`
	Stage  string `json:"stage"`
	Owner  string `json:"owner"`
	Source string `json:"source"`
	Notes  string `json:"notes"`
}

type contactPayload struct {
	ID          string `json:"id"`
	CompanyID   string `json:"companyId"`
	CompanyName string `json:"companyName"`
	Name        string `json:"name" validate:"required"`
	Role        string `json:"role"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	LinkedIn    string `json:"linkedin"`
	Notes       string `json:"notes"`
}

type dealPayload struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"companyId"`
	CompanyName  string    `json:"companyName"`
	Title        string    `json:"title" validate:"required"`
	Stage        string    `json:"stage"`
	Value        Numberish `json:"value"`
	SetupValue   Numberish `json:"setupValue"`
	MonthlyValue Numberish `json:"monthlyValue"`
	Probability  Numberish `json:"probability"`
	CloseDate    string    `json:"closeDate"`
	Owner        string    `json:"owner"`
	Notes        string    `json:"notes"`
}

type activityPayload struct {
	ID          string  `json:"id"`
	CompanyID   string  `json:"companyId"`
	CompanyName string  `json:"companyName"`
	ContactID   string  `json:"contactId"`
	Type        string  `json:"type" validate:"required"`
	DueDate     string  `json:"dueDate"`
	Done        Boolish `json:"done"`
	Notes       string  `json:"notes"`
}

// decodePayload unmarshals and validates the request body into dst. A false
// return means the error response has already been written.
func (s *Server) decodePayload(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErr(w, http.StatusUnprocessableEntity, codeValidationError, "malformed JSON body", err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		details := map[string]string{}
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			for _, fe := range invalid {
				details[fe.Field()] = fe.Tag()
			}
		}
		writeErr(w, http.StatusUnprocessableEntity, codeValidationError, "invalid payload", details)
		return false
	}
	return true
}

// resolveCompanyID maps an agent payload to a company id. An explicit id
// wins; otherwise the name is matched by natural key and, failing that, a
// new company is created with source "agent".
func (s *Server) resolveCompanyID(r *http.Request, companyID, companyName string) (string, error) {
	if companyID != "" {
		return companyID, nil
	}
	name := types.NormalizeText(companyName)
	if name == "" {
		return "", repo.ErrCompanyRequired
	}
	if existing, ok := s.repo.FindCompanyByName(r.Context(), name); ok {
		return existing.ID, nil
	}
	created, err := s.repo.UpsertCompany(r.Context(), repo.CompanyInput{Name: name, Source: "agent"})
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

func (s *Server) handleUpsertCompany(w http.ResponseWriter, r *http.Request) {
	var p companyPayload
	if !s.decodePayload(w, r, &p) {
		return
	}
	company, err := s.repo.UpsertCompany(r.Context(), repo.CompanyInput{
		ID:     p.ID,
		Name:   p.Name,
		Stage:  p.Stage,
		Owner:  p.Owner,
		Source: p.Source,
		Notes:  p.Notes,
	})
	if err != nil {
		s.writeRepoErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, company)
}

func (s *Server) handleUpsertContact(w http.ResponseWriter, r *http.Request) {
	var p contactPayload
	if !s.decodePayload(w, r, &p) {
		return
	}
	companyID, err := s.resolveCompanyID(r, p.CompanyID, p.CompanyName)
	if err != nil {
		s.writeRepoErr(w, err)
		return
	}
	contact, err := s.repo.UpsertContact(r.Context(), repo.ContactInput{
		ID:        p.ID,
		CompanyID: companyID,
		Name:      p.Name,
		Role:      p.Role,
		Email:     p.Email,
		Phone:     p.Phone,
		LinkedIn:  p.LinkedIn,
		Notes:     p.Notes,
	})
	if err != nil {
		s.writeRepoErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, contact)
}

func (s *Server) handleUpsertDeal(w http.ResponseWriter, r *http.Request) {
	var p dealPayload
	if !s.decodePayload(w, r, &p) {
		return
	}
	companyID, err := s.resolveCompanyID(r, p.CompanyID, p.CompanyName)
	if err != nil {
		s.writeRepoErr(w, err)
		return
	}
	deal, err := s.repo.UpsertDeal(r.Context(), repo.DealInput{
		ID:           p.ID,
		CompanyID:    companyID,
		Title:        p.Title,
		Stage:        p.Stage,
		Value:        float64(p.Value),
		SetupValue:   float64(p.SetupValue),
		MonthlyValue: float64(p.MonthlyValue),
		Probability:  float64(p.Probability),
		CloseDate:    p.CloseDate,
		Owner:        p.Owner,
		Notes:        p.Notes,
	})
	if err != nil {
		s.writeRepoErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, deal)
}

func (s *Server) handleUpsertActivity(w http.ResponseWriter, r *http.Request) {
	var p activityPayload
	if !s.decodePayload(w, r, &p) {
		return
	}
	companyID, err := s.resolveCompanyID(r, p.CompanyID, p.CompanyName)
	if err != nil {
		s.writeRepoErr(w, err)
		return
	}
	activity, err := s.repo.UpsertActivity(r.Context(), repo.ActivityInput{
		ID:        p.ID,
		CompanyID: companyID,
		ContactID: p.ContactID,
		Type:      p.Type,
		DueDate:   p.DueDate,
		Done:      bool(p.Done),
		Notes:     p.Notes,
	})
	if err != nil {
		s.writeRepoErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, activity)
}

// handleDelete adapts a repository delete to the envelope. A missing id maps
// to 404 NOT_FOUND through writeRepoErr.
func (s *Server) handleDelete(del func(context.Context, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := del(r.Context(), id); err != nil {
			s.writeRepoErr(w, err)
			return
		}
		writeOK(w, http.StatusOK, map[string]string{"id": id})
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	results, err := s.repo.SearchAll(r.Context(), q)
	if err != nil {
		s.writeRepoErr(w, err)
		return
	}
	writeOK(w, http.StatusOK, results)
}

// writeRepoErr maps repository errors to envelope responses. Input errors
// become 422s; anything else is a 500 and gets logged.
func (s *Server) writeRepoErr(w http.ResponseWriter, err error) {
	switch {
	case errorsIsAny(err, repo.ErrNameRequired, repo.ErrCompanyRequired, repo.ErrTitleRequired, repo.ErrInvalidType):
		writeErr(w, http.StatusUnprocessableEntity, codeValidationError, err.Error(), nil)
	case errors.Is(err, types.ErrNotFound):
		writeErr(w, http.StatusNotFound, codeNotFound, err.Error(), nil)
	default:
		s.log.Error("request failed", zap.Error(err))
		writeErr(w, http.StatusInternalServerError, codeInternal, "internal error", nil)
	}
}

func errorsIsAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}
