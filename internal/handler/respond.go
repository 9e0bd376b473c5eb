package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/teamdesk/platform/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// RespondError writes a JSON error response, detecting domain.AppError for status codes.
func RespondError(w http.ResponseWriter, err error) {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		RespondJSON(w, appErr.Status, map[string]string{
			"code":    appErr.Code,
			"message": appErr.Message,
		})
		return
	}
	RespondJSON(w, http.StatusInternalServerError, map[string]string{
		"code":    domain.CodeInternal,
		"message": "internal server error",
	})
}

// DecodeJSON reads and decodes a JSON request body into dst (max 1 MiB).
func DecodeJSON(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	return json.NewDecoder(r.Body).Decode(dst)
}

// DecodeValid decodes the body into dst and runs its validate tags. Both
// failures come back as validation errors.
func DecodeValid(r *http.Request, dst interface{}) error {
	if err := DecodeJSON(r, dst); err != nil {
		return domain.ErrValidation("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return domain.ErrValidation(validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return "invalid input"
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(msgs, "; ")
}

// pathDate parses a yyyy-mm-dd URL parameter.
func pathDate(r *http.Request, name string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, chi.URLParam(r, name))
	if err != nil {
		return time.Time{}, domain.ErrValidation(fmt.Sprintf("invalid %s, expected yyyy-mm-dd", name))
	}
	return d, nil
}

func pathInt(r *http.Request, name string) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, domain.ErrValidation("invalid " + name)
	}
	return n, nil
}

// pathPeriod reads the {year} and {month} URL parameters.
func pathPeriod(r *http.Request) (domain.Period, error) {
	year, err := pathInt(r, "year")
	if err != nil {
		return domain.Period{}, err
	}
	month, err := pathInt(r, "month")
	if err != nil {
		return domain.Period{}, err
	}
	p := domain.Period{Year: year, Month: time.Month(month)}
	if err := domain.ValidatePeriod(p); err != nil {
		return domain.Period{}, domain.ErrValidation(err.Error())
	}
	return p, nil
}

func pathKey(r *http.Request) (uuid.UUID, error) {
	key, err := uuid.Parse(chi.URLParam(r, "key"))
	if err != nil {
		return uuid.Nil, domain.ErrValidation("invalid key")
	}
	return key, nil
}
