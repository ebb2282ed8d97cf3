package models

import "time"

type DocumentType string // Тип документа компании

const (
	CertificateDocument DocumentType = "certificate"
	LicenseDocument     DocumentType = "license"
	ContractDocument    DocumentType = "contract"
	TransportDocument   DocumentType = "ttn" // Товарно-транспортная накладная
	OtherDocument       DocumentType = "other"
)

// Document представляет загруженный файл компании.
type Document struct {
	ID          string       `json:"id"`
	CompanyID   string       `json:"companyId"`
	OrderID     *string      `json:"orderId,omitempty"`
	Name        string       `json:"name"`
	Type        DocumentType `json:"type"`
	ObjectKey   string       `json:"-"`
	ContentType string       `json:"contentType"`
	Size        int64        `json:"size"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// IsValid проверяет тип документа.
func (t DocumentType) IsValid() bool {
	switch t {
	case CertificateDocument, LicenseDocument, ContractDocument, TransportDocument, OtherDocument:
		return true
	}
	return false
}
