package service_test

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"gstbill/internal/config"
	"gstbill/internal/domain"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "test-secret-key-for-unit-tests",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 168 * time.Hour,
		Issuer:             "gstbill-test",
	}
}

func hashPassword(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func karnatakaBusiness() *domain.Business {
	return &domain.Business{
		ID:        uuid.New(),
		Name:      "Bengaluru Traders",
		Slug:      "blr-traders",
		GSTIN:     "29AABCT1332L1ZP",
		PAN:       "AABCT1332L",
		StateCode: "29",
		IsActive:  true,
	}
}
