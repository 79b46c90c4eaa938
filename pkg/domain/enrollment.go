package domain

// EnrollmentStatus is the lifecycle state of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentCancelled EnrollmentStatus = "CANCELLED"
	EnrollmentExpired   EnrollmentStatus = "EXPIRED"
)

// PaymentMethod is how an enrollment was paid for.
type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentPaypal       PaymentMethod = "PAYPAL"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMercadoPago  PaymentMethod = "MERCADO_PAGO"
	PaymentYape         PaymentMethod = "YAPE"
	PaymentPlin         PaymentMethod = "PLIN"
	PaymentFree         PaymentMethod = "FREE"
)

// PaymentMethods lists every accepted payment method.
var PaymentMethods = []PaymentMethod{
	PaymentCreditCard,
	PaymentDebitCard,
	PaymentPaypal,
	PaymentBankTransfer,
	PaymentMercadoPago,
	PaymentYape,
	PaymentPlin,
	PaymentFree,
}

// ValidPaymentMethod returns true if m is an accepted payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	for _, known := range PaymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

// Enrollment links a student to a course they joined.
type Enrollment struct {
	ID                int64            `json:"id"`
	StudentID         int64            `json:"studentId"`
	CourseID          int64            `json:"courseId"`
	Course            *Course          `json:"course,omitempty"`
	AmountPaid        float64          `json:"amountPaid"`
	Currency          string           `json:"currency,omitempty"`
	PaymentID         string           `json:"paymentId,omitempty"`
	PaymentMethod     PaymentMethod    `json:"paymentMethod,omitempty"`
	Status            EnrollmentStatus `json:"status"`
	EnrolledAt        Time             `json:"enrolledAt,omitzero"`
	CompletedAt       Time             `json:"completedAt,omitzero"`
	ProgressPercent   float64          `json:"progressPercentage"`
	LastAccessedAt    Time             `json:"lastAccessedAt,omitzero"`
	CertificateEarned bool             `json:"certificateEarned"`
	CertificateURL    string           `json:"certificateUrl,omitempty"`
}

// EnrollRequest is the payload for joining a course.
type EnrollRequest struct {
	CourseID      int64         `json:"courseId" validate:"required,gt=0"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty" validate:"omitempty,oneof=CREDIT_CARD DEBIT_CARD PAYPAL BANK_TRANSFER MERCADO_PAGO YAPE PLIN FREE"`
	PaymentID     string        `json:"paymentId,omitempty"`
}

// EnrolledStudent is a row in a teacher's course roster.
type EnrolledStudent struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Surname         string  `json:"surname"`
	Email           string  `json:"email"`
	Avatar          string  `json:"avatar,omitempty"`
	EnrolledAt      Time    `json:"enrolledAt,omitzero"`
	ProgressPercent float64 `json:"progressPercentage"`
}
