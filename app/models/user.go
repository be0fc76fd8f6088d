package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	PLAN_FREE       = "free"
	PLAN_PRO        = "pro"
	PLAN_ENTERPRISE = "enterprise"
)

// PlanQRLimits maps a subscription plan to the number of QR codes a tenant may create.
var PlanQRLimits = map[string]int{
	PLAN_FREE:       3,
	PLAN_PRO:        25,
	PLAN_ENTERPRISE: 250,
}

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,min=5,max=200"`
	PasswordHash string         `gorm:"type:text" json:"-" validate:"required"`
	CompanyName  string         `gorm:"type:varchar(150)" json:"company_name" validate:"required,min=2,max=150"`
	Plan         string         `gorm:"type:varchar(50);default:'free'" json:"plan" validate:"oneof=free pro enterprise"`
	QRLimit      int            `gorm:"default:3" json:"qr_limit"`
	QRCodes      []QRCode       `gorm:"foreignKey:UserID" json:"qr_codes,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// CreateUser builds a validated tenant account on the free plan.
func CreateUser(email, password, companyName string) (*User, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        email,
		PasswordHash: pw,
		CompanyName:  companyName,
		Plan:         PLAN_FREE,
		QRLimit:      PlanQRLimits[PLAN_FREE],
	}

	err = u.Validate()
	if err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}

// SetPlan switches the subscription plan and adjusts the QR limit accordingly.
func (u *User) SetPlan(plan string) {
	if limit, ok := PlanQRLimits[plan]; ok {
		u.Plan = plan
		u.QRLimit = limit
	}
}
