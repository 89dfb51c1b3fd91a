package request

import (
	"errors"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/basenft/marketplace-royalties/internal/domain"
)

// Lookaheads need regexp2; the stdlib engine does not support them.
var passwordPattern = regexp2.MustCompile(`^(?=.*[a-z])(?=.*[A-Z])(?=.*\d).{8,72}$`, regexp2.None)

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Address  string `json:"address"`
}

func (req *SignupRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, validation.Length(3, 254)),
		validation.Field(&req.Password, validation.Required, validation.By(validatePassword)),
		validation.Field(&req.Name, validation.Required, validation.Length(2, 50)),
		validation.Field(&req.Address, validation.Required, validation.By(validateAddress)),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required),
		validation.Field(&req.Password, validation.Required),
	)
}

func validatePassword(value interface{}) error {
	password, _ := value.(string)

	matched, err := passwordPattern.MatchString(password)
	if err != nil {
		return err
	}
	if !matched {
		return errors.New("must be 8-72 characters with upper, lower and digit")
	}

	return nil
}

func validateAddress(value interface{}) error {
	address, _ := value.(string)

	if !domain.IsValidPrincipal(address) {
		return errors.New("must be a 0x-prefixed 40-hex-character non-zero address")
	}

	return nil
}
