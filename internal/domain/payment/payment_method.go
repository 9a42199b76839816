package payment

import (
	"regexp"
	"strings"

	"github.com/foodorder/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypePaymentMethod is the aggregate type for payment methods
const AggregateTypePaymentMethod = "PaymentMethod"

var (
	cardNumberRegex = regexp.MustCompile(`^\d{16}$`)
	expiryRegex     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRegex        = regexp.MustCompile(`^\d{3}$`)
)

// CVVEncrypter seals a card verification value before it is stored.
// Implementations live in infrastructure.
type CVVEncrypter interface {
	Encrypt(plaintext string) (string, error)
}

// CardDetails is the raw card data submitted by a user. The full number and
// the CVV never leave the payment domain unprotected.
type CardDetails struct {
	CardNumber     string
	CardHolderName string
	ExpiryDate     string
	CVV            string
}

// Validate checks the card fields
func (d CardDetails) Validate() error {
	if !cardNumberRegex.MatchString(d.CardNumber) {
		return shared.NewValidationError("Card number must be 16 digits")
	}
	if strings.TrimSpace(d.CardHolderName) == "" {
		return shared.NewValidationError("Card holder name is required")
	}
	if !expiryRegex.MatchString(d.ExpiryDate) {
		return shared.NewValidationError("Expiry date must be in MM/YY format")
	}
	if !cvvRegex.MatchString(d.CVV) {
		return shared.NewValidationError("CVV must be 3 digits")
	}
	return nil
}

// PaymentMethod is the single card a user keeps on file. Only the last four
// digits of the card number are retained.
type PaymentMethod struct {
	shared.Aggregate
	UserID         uuid.UUID
	CardNumber     string
	CardHolderName string
	ExpiryDate     string
	EncryptedCVV   string
}

// NewPaymentMethod validates details and creates a payment method for userID
func NewPaymentMethod(userID uuid.UUID, details CardDetails, enc CVVEncrypter) (*PaymentMethod, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("User ID cannot be empty")
	}

	pm := &PaymentMethod{
		Aggregate: shared.NewAggregate(),
		UserID:    userID,
	}
	if err := pm.apply(details, enc); err != nil {
		return nil, err
	}
	return pm, nil
}

// Replace overwrites the card on file with new details
func (pm *PaymentMethod) Replace(details CardDetails, enc CVVEncrypter) error {
	if err := pm.apply(details, enc); err != nil {
		return err
	}
	pm.MarkModified()
	return nil
}

// MaskedNumber renders the stored digits for display
func (pm *PaymentMethod) MaskedNumber() string {
	return "**** **** **** " + pm.CardNumber
}

func (pm *PaymentMethod) apply(details CardDetails, enc CVVEncrypter) error {
	if err := details.Validate(); err != nil {
		return err
	}
	sealed, err := enc.Encrypt(details.CVV)
	if err != nil {
		return shared.NewDomainError("CVV_ENCRYPTION_ERROR", "Failed to secure card details")
	}

	pm.CardNumber = LastFour(details.CardNumber)
	pm.CardHolderName = strings.TrimSpace(details.CardHolderName)
	pm.ExpiryDate = details.ExpiryDate
	pm.EncryptedCVV = sealed
	return nil
}

// LastFour returns the last four characters of a card number
func LastFour(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}
