package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,pwd"`
	Subdomain string `json:"subdomain" binding:"required,subdomain"`
	Accent    string `json:"accent" binding:"omitempty,hexcolor7"`
}

func validate(t *testing.T, v any) error {
	t.Helper()
	Init()
	return binding.Validator.ValidateStruct(v)
}

func TestValidAliases(t *testing.T) {
	err := validate(t, signupForm{
		Email:     "jane@example.com",
		Password:  "longenough99",
		Subdomain: "jane-doe",
		Accent:    "#1a2b3c",
	})
	assert.NoError(t, err)
}

func TestSubdomainTag(t *testing.T) {
	for _, sub := range []string{"ab", "-jane", "jane-", "Jane", "ja.ne"} {
		err := validate(t, signupForm{
			Email:     "jane@example.com",
			Password:  "longenough99",
			Subdomain: sub,
		})
		require.Error(t, err, "subdomain %q", sub)
		details := ToDetails(err)
		assert.Contains(t, details, "subdomain")
	}
}

func TestToDetailsUsesJSONNames(t *testing.T) {
	err := validate(t, signupForm{
		Email:     "not-an-email",
		Password:  "short",
		Subdomain: "jane",
	})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Contains(t, details, "password")
	assert.NotContains(t, details, "Email")
}

func TestHexColorAlias(t *testing.T) {
	err := validate(t, signupForm{
		Email:     "jane@example.com",
		Password:  "longenough99",
		Subdomain: "jane",
		Accent:    "#fff",
	})
	require.Error(t, err)
	assert.Contains(t, ToDetails(err), "accent")
}

func TestToDetailsNilError(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
}
