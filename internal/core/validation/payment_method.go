// Package validation checks payment-method records before they are sent to
// the backend. Checking is pure: no I/O, no shared mutable state, and the same
// record always yields the same errors in the same order.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
)

// candidate is the record as the rules see it. Field order is the order
// errors are reported in: common fields, then variant fields arranged so that
// each variant's own fields keep their documented order.
type candidate struct {
	Name          string   `json:"name"          validate:"required"`
	Description   string   `json:"description"   validate:"required"`
	ProcessingFee *float64 `json:"processingFee" validate:"required,gte=0"`
	CreatedBy     string   `json:"createdBy"     validate:"required"`
	Status        string   `json:"status"        validate:"required"`
	Type          string   `json:"paymentMethod" validate:"required,oneof=COD BANK_TRANSFER E_WALLET"`

	PhoneNumber          string `json:"phoneNumber"          validate:"required_if=Type COD"`
	AccountName          string `json:"accountName"          validate:"required_if=Type BANK_TRANSFER,required_if=Type E_WALLET"`
	AccountNumber        string `json:"accountNumber"        validate:"required_if=Type BANK_TRANSFER"`
	BankName             string `json:"bankName"             validate:"required_if=Type BANK_TRANSFER"`
	VirtualAccountNumber string `json:"virtualAccountNumber" validate:"required_if=Type E_WALLET"`
	Instructions         string `json:"instructions"         validate:"required_if=Type COD,required_if=Type E_WALLET"`
}

// Validator runs the payment-method rules. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

var std = New()

// Validate checks rec with the package validator.
func Validate(rec *domain.PaymentMethodRecord) []domain.FieldError {
	return std.Validate(rec)
}

// Parse validates rec and, when it is valid, returns its domain shape.
func Parse(rec *domain.PaymentMethodRecord) (domain.PaymentMethod, []domain.FieldError) {
	return std.Parse(rec)
}

// Validate returns one entry per violated field, or nil when rec is valid.
// A nil record is checked as an empty one.
func (val *Validator) Validate(rec *domain.PaymentMethodRecord) []domain.FieldError {
	c := toCandidate(rec)
	err := val.v.Struct(&c)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []domain.FieldError{{Field: "", Message: err.Error()}}
	}
	out := make([]domain.FieldError, 0, len(ve))
	for _, fe := range ve {
		out = append(out, domain.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

// Parse validates rec and converts it to the variant-specific domain shape.
func (val *Validator) Parse(rec *domain.PaymentMethodRecord) (domain.PaymentMethod, []domain.FieldError) {
	if errs := val.Validate(rec); len(errs) > 0 {
		return domain.PaymentMethod{}, errs
	}
	c := toCandidate(rec)

	pm := domain.PaymentMethod{
		ID:            rec.ID,
		Name:          c.Name,
		Description:   c.Description,
		ProcessingFee: *c.ProcessingFee,
		Status:        c.Status,
		CreatedBy:     c.CreatedBy,
	}
	switch domain.PaymentMethodType(c.Type) {
	case domain.PaymentCOD:
		pm.Details = domain.CODDetails{PhoneNumber: c.PhoneNumber, Instructions: c.Instructions}
	case domain.PaymentBankTransfer:
		pm.Details = domain.BankTransferDetails{
			AccountName:   c.AccountName,
			AccountNumber: c.AccountNumber,
			BankName:      c.BankName,
		}
	case domain.PaymentEWallet:
		pm.Details = domain.EWalletDetails{
			AccountName:          c.AccountName,
			VirtualAccountNumber: c.VirtualAccountNumber,
			Instructions:         c.Instructions,
		}
	}
	return pm, nil
}

func toCandidate(rec *domain.PaymentMethodRecord) candidate {
	if rec == nil {
		return candidate{}
	}
	return candidate{
		Name:                 strings.TrimSpace(rec.Name),
		Description:          strings.TrimSpace(rec.Description),
		ProcessingFee:        rec.ProcessingFee,
		CreatedBy:            strings.TrimSpace(rec.CreatedBy),
		Status:               strings.TrimSpace(rec.Status),
		Type:                 string(rec.Type),
		PhoneNumber:          deref(rec.PhoneNumber),
		AccountName:          deref(rec.AccountName),
		AccountNumber:        deref(rec.AccountNumber),
		BankName:             deref(rec.BankName),
		VirtualAccountNumber: deref(rec.VirtualAccountNumber),
		Instructions:         deref(rec.Instructions),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		if field == "processingFee" {
			return field + " must be a number"
		}
		return field + " is required"
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// DecodeRecord reads a form body into a record without ever failing: input
// that is not a JSON object gives an empty record, unknown keys are ignored,
// and values of the wrong type are treated as absent. Numeric strings are
// accepted for processingFee.
func DecodeRecord(raw []byte) domain.PaymentMethodRecord {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return domain.PaymentMethodRecord{}
	}

	str := func(key string) string {
		s, _ := m[key].(string)
		return s
	}
	opt := func(key string) *string {
		s, ok := m[key].(string)
		if !ok {
			return nil
		}
		return &s
	}

	rec := domain.PaymentMethodRecord{
		ID:                   str("id"),
		Name:                 str("name"),
		Description:          str("description"),
		ProcessingFee:        number(m["processingFee"]),
		Type:                 domain.PaymentMethodType(str("paymentMethod")),
		Status:               str("status"),
		CreatedBy:            str("createdBy"),
		PhoneNumber:          opt("phoneNumber"),
		AccountName:          opt("accountName"),
		AccountNumber:        opt("accountNumber"),
		BankName:             opt("bankName"),
		VirtualAccountNumber: opt("virtualAccountNumber"),
		Instructions:         opt("instructions"),
	}
	return rec
}

func number(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
