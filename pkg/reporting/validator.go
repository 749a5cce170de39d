package reporting

import (
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"p9e.in/fieldvisits/models"
)

// BoolField is the three-valued state of a yes/no form field. The rendered
// form posts the literal strings "True" and "False"; anything else (including
// an empty value) is Unset. An Unset field satisfies neither branch of the
// order/payment rules, so no required-field error fires for it. That
// permissive behaviour is deliberate and relied upon by the mobile client.
type BoolField int

const (
	BoolUnset BoolField = iota
	BoolTrue
	BoolFalse
)

// ParseBoolField coerces a submitted form value to a BoolField. Only the
// exact strings "True" and "False" bind.
func ParseBoolField(s string) BoolField {
	switch s {
	case "True":
		return BoolTrue
	case "False":
		return BoolFalse
	}
	return BoolUnset
}

// Bool converts to the stored boolean; Unset stores as false.
func (b BoolField) Bool() bool {
	return b == BoolTrue
}

// FieldError is one validation failure. Field is empty for form-level
// errors (location missing/unparsable).
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ReportInput carries the raw submitted fields of a visit or follow-up
// report. Numeric and boolean values arrive as strings, exactly as the form
// posts them.
type ReportInput struct {
	Kind               models.ReportKind `json:"-"`
	CompanyID          string            `json:"companyId"`
	ContactPersonID    string            `json:"contactPersonId"`
	ProductionLine     string            `json:"productionLine"`
	Latitude           string            `json:"latitude"`
	Longitude          string            `json:"longitude"`
	MeetingPurpose     string            `json:"meetingPurpose"`
	MeetingOutcome     string            `json:"meetingOutcome"`
	ItemDiscussed      string            `json:"itemDiscussed"`
	IsOrderQuoted      string            `json:"isOrderQuoted"`
	OrderAmount        string            `json:"orderAmount"`
	ReasonNoOrder      string            `json:"reasonNoOrder"`
	IsPaymentCollected string            `json:"isPaymentCollected"`
	PaymentAmount      string            `json:"paymentAmount"`
	ReasonNoPayment    string            `json:"reasonNoPayment"`
}

// ValidatedReport is the normalized result of a successful validation.
type ValidatedReport struct {
	Kind               models.ReportKind
	CustomerID         *uuid.UUID
	ContactID          *uuid.UUID
	ProductionLine     string
	Latitude           decimal.Decimal
	Longitude          decimal.Decimal
	MeetingPurpose     string
	MeetingOutcome     string
	ItemDiscussed      string
	IsOrderQuoted      BoolField
	OrderAmount        *decimal.Decimal
	ReasonNoOrder      string
	IsPaymentCollected BoolField
	PaymentAmount      *decimal.Decimal
	ReasonNoPayment    string
}

// Validate checks a submitted report against the outcome rules and
// normalizes it. companyContacts is the contact set of the submitted
// company; a contact outside that set is rejected. Geolocation failures are
// form-level and abort immediately; the remaining rules accumulate
// field-level errors.
func Validate(in ReportInput, companyContacts []models.CustomerContact) (*ValidatedReport, []FieldError) {
	if in.Latitude == "" || in.Longitude == "" {
		return nil, []FieldError{{Message: "Location not detected yet. Please allow location access and wait for the map."}}
	}

	lat, latErr := decimal.NewFromString(in.Latitude)
	lon, lonErr := decimal.NewFromString(in.Longitude)
	if latErr != nil || lonErr != nil {
		return nil, []FieldError{{Message: "Invalid coordinates received. Please refresh and try again."}}
	}

	out := &ValidatedReport{
		Kind:           in.Kind,
		ProductionLine: in.ProductionLine,
		// Coordinates are quantized to 6 decimal places, ties rounding up.
		Latitude:        roundCoordinate(lat),
		Longitude:       roundCoordinate(lon),
		MeetingPurpose:  in.MeetingPurpose,
		MeetingOutcome:  in.MeetingOutcome,
		ItemDiscussed:   in.ItemDiscussed,
		ReasonNoOrder:   in.ReasonNoOrder,
		ReasonNoPayment: in.ReasonNoPayment,
	}

	var errs []FieldError

	if in.MeetingPurpose == "" {
		errs = append(errs, FieldError{Field: "meetingPurpose", Message: "This field is required."})
	}
	if in.MeetingOutcome == "" {
		errs = append(errs, FieldError{Field: "meetingOutcome", Message: "This field is required."})
	}
	if in.ItemDiscussed == "" {
		errs = append(errs, FieldError{Field: "itemDiscussed", Message: "This field is required."})
	}

	if in.ProductionLine != "" && !slices.Contains(models.ProductionLineChoices, in.ProductionLine) {
		errs = append(errs, FieldError{Field: "productionLine", Message: "Select a valid production line."})
	}

	if in.CompanyID != "" {
		id, err := uuid.Parse(in.CompanyID)
		if err != nil {
			errs = append(errs, FieldError{Field: "companyId", Message: "Select a valid company."})
		} else {
			out.CustomerID = &id
		}
	}

	if in.ContactPersonID != "" {
		id, err := uuid.Parse(in.ContactPersonID)
		if err != nil {
			errs = append(errs, FieldError{Field: "contactPersonId", Message: "Select a valid contact."})
		} else {
			// The acceptable contact set is scoped to the submitted
			// company, the same restriction the dropdown applies at
			// render time.
			found := false
			for _, c := range companyContacts {
				if c.ID == id {
					found = true
					break
				}
			}
			if !found {
				errs = append(errs, FieldError{Field: "contactPersonId", Message: "Contact does not belong to the selected company."})
			} else {
				out.ContactID = &id
			}
		}
	}

	out.IsOrderQuoted = ParseBoolField(in.IsOrderQuoted)
	orderAmount, amountErrs := parseAmount("orderAmount", in.OrderAmount)
	errs = append(errs, amountErrs...)
	out.OrderAmount = orderAmount

	switch out.IsOrderQuoted {
	case BoolTrue:
		if orderAmount == nil || orderAmount.IsZero() {
			errs = append(errs, FieldError{Field: "orderAmount", Message: "Order amount is required when order is quoted."})
		}
	case BoolFalse:
		if in.ReasonNoOrder == "" {
			errs = append(errs, FieldError{Field: "reasonNoOrder", Message: "Reason is required when order is not quoted."})
		}
	}

	if in.Kind == models.KindFollowUp {
		out.IsPaymentCollected = ParseBoolField(in.IsPaymentCollected)
		paymentAmount, amountErrs := parseAmount("paymentAmount", in.PaymentAmount)
		errs = append(errs, amountErrs...)
		out.PaymentAmount = paymentAmount

		switch out.IsPaymentCollected {
		case BoolTrue:
			if paymentAmount == nil || paymentAmount.IsZero() {
				errs = append(errs, FieldError{Field: "paymentAmount", Message: "Payment amount is required when payment is collected."})
			}
		case BoolFalse:
			if in.ReasonNoPayment == "" {
				errs = append(errs, FieldError{Field: "reasonNoPayment", Message: "Reason is required when payment is not collected."})
			}
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// roundCoordinate quantizes to exactly six decimal places, ties rounding
// away from zero. Rebuilt from the fixed-point string because Round keeps a
// shorter input scale as-is; the stored coordinate must always carry six
// places.
func roundCoordinate(d decimal.Decimal) decimal.Decimal {
	fixed, err := decimal.NewFromString(d.StringFixed(6))
	if err != nil {
		return d.Round(6)
	}
	return fixed
}

func parseAmount(field, raw string) (*decimal.Decimal, []FieldError) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, []FieldError{{Field: field, Message: "Enter a valid amount."}}
	}
	return &d, nil
}
