package forms

// LoginForm is the sign-in draft.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=2"`
}

func (f LoginForm) Validate() Errors {
	return check(f)
}

// RegisterForm is the sign-up draft. The confirmation must equal the
// password; the mismatch message is attached to confirmPassword.
type RegisterForm struct {
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=2"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,min=2,eqfield=Password"`
	UniqueName      string `form:"unique_name" validate:"required,min=2"`
	DisplayName     string `form:"display_name" validate:"required,min=2"`
}

func (f RegisterForm) Validate() Errors {
	return check(f)
}

// ForgotPasswordForm requests a password-change email.
type ForgotPasswordForm struct {
	Email string `form:"email" validate:"required,email"`
}

func (f ForgotPasswordForm) Validate() Errors {
	return check(f)
}

// ResetPasswordForm sets a new password. The reset token travels in the URL,
// not in the form draft; the handler rejects a submission without one before
// validation even runs.
type ResetPasswordForm struct {
	Password        string `form:"password" validate:"required,min=2"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,min=2,eqfield=Password"`
}

func (f ResetPasswordForm) Validate() Errors {
	return check(f)
}
