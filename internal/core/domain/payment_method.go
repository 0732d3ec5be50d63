package domain

import "time"

// PaymentMethodType is the variant tag of a payment method.
type PaymentMethodType string

const (
	PaymentCOD          PaymentMethodType = "COD"
	PaymentBankTransfer PaymentMethodType = "BANK_TRANSFER"
	PaymentEWallet      PaymentMethodType = "E_WALLET"
)

// PaymentMethodTypes lists the variants in display order.
var PaymentMethodTypes = []PaymentMethodType{PaymentCOD, PaymentBankTransfer, PaymentEWallet}

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// PaymentMethodRecord is the flexible wire shape exchanged with the backend
// and submitted by forms. Variant-specific fields are nullable; which of them
// are mandatory depends on Type.
type PaymentMethodRecord struct {
	ID            string            `json:"id,omitempty"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	ProcessingFee *float64          `json:"processingFee"`
	Type          PaymentMethodType `json:"paymentMethod"`
	Status        string            `json:"status"`
	CreatedBy     string            `json:"createdBy"`
	CreatedAt     *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time        `json:"updatedAt,omitempty"`
	DeletedAt     *time.Time        `json:"deletedAt"`

	PhoneNumber          *string `json:"phoneNumber"`
	AccountName          *string `json:"accountName"`
	AccountNumber        *string `json:"accountNumber"`
	BankName             *string `json:"bankName"`
	VirtualAccountNumber *string `json:"virtualAccountNumber"`
	Instructions         *string `json:"instructions"`
}

// Deleted reports whether the record carries a soft-delete marker.
func (r PaymentMethodRecord) Deleted() bool { return r.DeletedAt != nil }

// PaymentDetails is the variant-specific part of a validated payment method.
type PaymentDetails interface {
	Type() PaymentMethodType
}

type CODDetails struct {
	PhoneNumber  string
	Instructions string
}

func (CODDetails) Type() PaymentMethodType { return PaymentCOD }

type BankTransferDetails struct {
	AccountName   string
	AccountNumber string
	BankName      string
}

func (BankTransferDetails) Type() PaymentMethodType { return PaymentBankTransfer }

type EWalletDetails struct {
	AccountName          string
	VirtualAccountNumber string
	Instructions         string
}

func (EWalletDetails) Type() PaymentMethodType { return PaymentEWallet }

// PaymentMethod is the validated domain shape: every mandatory field of its
// variant is present, and nothing irrelevant to the variant is carried.
type PaymentMethod struct {
	ID            string
	Name          string
	Description   string
	ProcessingFee float64
	Status        string
	CreatedBy     string
	Details       PaymentDetails
}

// Record converts the domain shape back to the wire shape.
func (m PaymentMethod) Record() PaymentMethodRecord {
	fee := m.ProcessingFee
	rec := PaymentMethodRecord{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		ProcessingFee: &fee,
		Status:        m.Status,
		CreatedBy:     m.CreatedBy,
	}
	switch d := m.Details.(type) {
	case CODDetails:
		rec.Type = PaymentCOD
		rec.PhoneNumber = strPtr(d.PhoneNumber)
		rec.Instructions = strPtr(d.Instructions)
	case BankTransferDetails:
		rec.Type = PaymentBankTransfer
		rec.AccountName = strPtr(d.AccountName)
		rec.AccountNumber = strPtr(d.AccountNumber)
		rec.BankName = strPtr(d.BankName)
	case EWalletDetails:
		rec.Type = PaymentEWallet
		rec.AccountName = strPtr(d.AccountName)
		rec.VirtualAccountNumber = strPtr(d.VirtualAccountNumber)
		rec.Instructions = strPtr(d.Instructions)
	}
	return rec
}

func strPtr(s string) *string { return &s }

// PaymentMethodFilter narrows a payment-method listing.
type PaymentMethodFilter struct {
	Status         string
	Type           PaymentMethodType
	IncludeDeleted bool
}

// Matches applies the filter to a single record.
func (f PaymentMethodFilter) Matches(r PaymentMethodRecord) bool {
	if !f.IncludeDeleted && r.Deleted() {
		return false
	}
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Type != "" && r.Type != f.Type {
		return false
	}
	return true
}

// VariantStats aggregates the payment methods of one variant.
type VariantStats struct {
	Count      int     `json:"count"`
	Active     int     `json:"active"`
	AverageFee float64 `json:"averageProcessingFee"`
	totalFee   float64
}

// PaymentMethodStats is the usage statistics screen payload.
type PaymentMethodStats struct {
	Total    int                                 `json:"total"`
	Active   int                                 `json:"active"`
	Inactive int                                 `json:"inactive"`
	Deleted  int                                 `json:"deleted"`
	ByType   map[PaymentMethodType]*VariantStats `json:"byType"`
}

// ComputeStats summarises records. Soft-deleted records only count toward Deleted.
func ComputeStats(records []PaymentMethodRecord) PaymentMethodStats {
	stats := PaymentMethodStats{ByType: make(map[PaymentMethodType]*VariantStats, len(PaymentMethodTypes))}
	for _, t := range PaymentMethodTypes {
		stats.ByType[t] = &VariantStats{}
	}

	for _, r := range records {
		if r.Deleted() {
			stats.Deleted++
			continue
		}
		stats.Total++
		active := r.Status == StatusActive
		if active {
			stats.Active++
		} else {
			stats.Inactive++
		}

		vs, ok := stats.ByType[r.Type]
		if !ok {
			continue
		}
		vs.Count++
		if active {
			vs.Active++
		}
		if r.ProcessingFee != nil {
			vs.totalFee += *r.ProcessingFee
		}
	}

	for _, vs := range stats.ByType {
		if vs.Count > 0 {
			vs.AverageFee = vs.totalFee / float64(vs.Count)
		}
	}
	return stats
}

// AuditAction names a payment-method mutation.
type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
)

// AuditEntry records who changed which payment method.
type AuditEntry struct {
	ID              string            `json:"id" bson:"_id"`
	PaymentMethodID string            `json:"paymentMethodId" bson:"payment_method_id"`
	Action          AuditAction       `json:"action" bson:"action"`
	Type            PaymentMethodType `json:"paymentMethod" bson:"payment_method"`
	ActorID         string            `json:"actorId" bson:"actor_id"`
	ActorRole       Role              `json:"actorRole" bson:"actor_role"`
	At              time.Time         `json:"at" bson:"at"`
}
