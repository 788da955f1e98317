package model

// AddressType описывает тип адреса доставки.
type AddressType string

const (
	AddressHome  AddressType = "Home"
	AddressWork  AddressType = "Work"
	AddressOther AddressType = "Other"
)

// Address описывает адрес пользователя.
type Address struct {
	ID        string      `json:"id"`
	Type      AddressType `json:"type"`
	Street    string      `json:"street"`
	City      string      `json:"city"`
	State     string      `json:"state"`
	Zip       string      `json:"zip"`
	Country   string      `json:"country"`
	IsDefault bool        `json:"isDefault"`
}

// PaymentType описывает тип сохранённого способа оплаты.
type PaymentType string

const (
	PaymentVisa       PaymentType = "Visa"
	PaymentMastercard PaymentType = "Mastercard"
	PaymentMpesa      PaymentType = "M-Pesa"
)

// PaymentMethod описывает сохранённый способ оплаты. Полный номер карты не хранится.
type PaymentMethod struct {
	ID         string      `json:"id"`
	Type       PaymentType `json:"type"`
	CardNumber string      `json:"cardNumber,omitempty"`
	ExpiryDate string      `json:"expiryDate,omitempty"`
	Phone      string      `json:"phone,omitempty"`
	Last4      string      `json:"last4,omitempty"`
	IsDefault  bool        `json:"isDefault"`
}

// User представляет пользователя демо-сессии.
type User struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone,omitempty"`
	Avatar         string          `json:"avatar,omitempty"`
	Addresses      []Address       `json:"addresses"`
	PaymentMethods []PaymentMethod `json:"paymentMethods"`
	LoyaltyPoints  int             `json:"loyaltyPoints"`
}

// LoyaltyTier возвращает уровень программы лояльности по количеству баллов.
func (u User) LoyaltyTier() string {
	switch {
	case u.LoyaltyPoints >= 2000:
		return "Gold Member"
	case u.LoyaltyPoints >= 1000:
		return "Silver Member"
	default:
		return "Member"
	}
}
