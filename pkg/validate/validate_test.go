package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type registerForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Website  string `json:"website" validate:"nullable,url"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Status   string `json:"status" validate:"required,in=PENDING,PAID,SHIPPED"`
}

func TestStructValid(t *testing.T) {
	errs := Struct(&registerForm{
		Email:    "a@b.com",
		Password: "secret123",
		Rating:   4,
		Status:   "PAID",
	})
	assert.False(t, HasErrors(errs), "%v", errs)
}

func TestStructCollectsFieldErrors(t *testing.T) {
	errs := Struct(&registerForm{
		Email:    "nope",
		Password: "123",
		Website:  "not a url",
		Rating:   9,
		Status:   "TELEPORTED",
	})
	assert.True(t, HasErrors(errs))
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "website")
	assert.Contains(t, errs, "rating")
	assert.Contains(t, errs, "status")
}

func TestErrorKeysUseJSONNames(t *testing.T) {
	type form struct {
		FirstName string `json:"firstName" validate:"required"`
	}
	errs := Struct(&form{})
	assert.Contains(t, errs, "firstName")
}

func TestNullableSkipsWhenEmpty(t *testing.T) {
	type form struct {
		Website string `json:"website" validate:"nullable,url"`
	}
	assert.False(t, HasErrors(Struct(&form{})))
	assert.True(t, HasErrors(Struct(&form{Website: "garbage"})))
}

func TestInRuleKeepsAllOptions(t *testing.T) {
	type form struct {
		Status string `json:"status" validate:"in=A,B,C"`
	}
	for _, ok := range []string{"A", "B", "C"} {
		assert.False(t, HasErrors(Struct(&form{Status: ok})), ok)
	}
	assert.True(t, HasErrors(Struct(&form{Status: "D"})))
}

func TestNumericBounds(t *testing.T) {
	type form struct {
		Price float64 `json:"price" validate:"required,gt=0"`
		Stock int     `json:"stock" validate:"gte=0"`
	}
	assert.True(t, HasErrors(Struct(&form{Price: -1})))
	assert.True(t, HasErrors(Struct(&form{Price: 5, Stock: -1})))
	assert.False(t, HasErrors(Struct(&form{Price: 0.01})))
}

func TestMinOnStringsIsLength(t *testing.T) {
	type form struct {
		Password string `json:"password" validate:"required,min=6"`
	}
	assert.True(t, HasErrors(Struct(&form{Password: "12345"})))
	assert.False(t, HasErrors(Struct(&form{Password: "123456"})))
}
