// Package certificates exposes the role-gated certificate endpoints: the
// registry owned by institutions, the government blacklist, verification
// history, and the delegation point for the external verification pipeline.
package certificates

import (
	"time"

	"github.com/google/uuid"
)

// Status enumerates certificate lifecycle states.
type Status string

const (
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

// Certificate is an issued credential record.
type Certificate struct {
	ID              string    `json:"id"`
	StudentName     string    `json:"studentName"`
	CertificateType string    `json:"certificateType"`
	StudentID       string    `json:"studentId"`
	IssueDate       string    `json:"issueDate"`
	InstitutionID   uuid.UUID `json:"institutionId"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// BlacklistEntry flags an entity the government has barred.
type BlacklistEntry struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	EntityType string    `json:"type"`
	Reason     string    `json:"reason"`
	AddedBy    uuid.UUID `json:"addedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// VerificationRecord is one entry in a user's verification history.
type VerificationRecord struct {
	ID         int64     `json:"id"`
	UserID     uuid.UUID `json:"-"`
	FileName   string    `json:"fileName"`
	Status     string    `json:"status"`
	Confidence float64   `json:"confidence"`
	VerifiedAt time.Time `json:"verifiedAt"`
}

// InstitutionCount pairs an institution with its issued-certificate volume.
type InstitutionCount struct {
	Name         string `json:"name"`
	Certificates int64  `json:"certificates"`
}

// Analytics is the system-wide snapshot served to government admins.
type Analytics struct {
	TotalVerifications     int64              `json:"totalVerifications"`
	GenuineCertificates    int64              `json:"genuineCertificates"`
	SuspiciousCertificates int64              `json:"suspiciousCertificates"`
	FakeCertificates       int64              `json:"fakeCertificates"`
	ActiveCertificates     int64              `json:"activeCertificates"`
	RevokedCertificates    int64              `json:"revokedCertificates"`
	InstitutionsOnboarded  int64              `json:"institutionsOnboarded"`
	BlacklistedEntities    int64              `json:"blacklistedEntities"`
	TopInstitutions        []InstitutionCount `json:"topInstitutions"`
	GeneratedAt            time.Time          `json:"generatedAt"`
}
