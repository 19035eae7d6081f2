/*
Package authform is the credential form shown to signed-out visitors.

A Form switches between signing in and registering, validates registration input,
and reports every outcome as a toast. Registration goes to a Registrar; sign-in goes
to the session provider.
*/
package authform

import (
	"strings"
)

// Variant selects which flavour of the form is shown.
type Variant string

const (
	VariantLogin    Variant = "LOGIN"
	VariantRegister Variant = "REGISTER"
)

// ParseVariant accepts "login" or "register" in any case. Anything else is LOGIN.
func ParseVariant(s string) Variant {
	if strings.EqualFold(strings.TrimSpace(s), string(VariantRegister)) {
		return VariantRegister
	}
	return VariantLogin
}

// Values are the submitted field contents.
type Values struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// FieldType is the HTML input type of a field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldPassword FieldType = "password"
)

// Field describes one rendered input.
type Field struct {
	ID       string
	Label    string
	Type     FieldType
	Value    string
	Required bool
	Disabled bool
}

// ToastKind is the style of a notification.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is a transient notification shown to the visitor.
type Toast struct {
	Kind    ToastKind `json:"kind"`
	Message string    `json:"message"`
}

// Form is the state of the credential form.
type Form struct {
	Variant Variant
	Loading bool
	Values  Values
	Toasts  []Toast

	// RedirectTo is set once the visitor should leave the page.
	RedirectTo string

	registrar Registrar
	sessions  SessionProvider
}

// New returns a form in the given variant.
func New(variant Variant, registrar Registrar, sessions SessionProvider) *Form {
	if variant != VariantRegister {
		variant = VariantLogin
	}
	return &Form{
		Variant:   variant,
		registrar: registrar,
		sessions:  sessions,
	}
}

// Toggle flips between LOGIN and REGISTER.
func (f *Form) Toggle() {
	if f.Variant == VariantLogin {
		f.Variant = VariantRegister
		return
	}
	f.Variant = VariantLogin
}

// Fields lists the inputs of the current variant in display order.
// Password inputs never echo their value.
func (f *Form) Fields() []Field {
	fields := make([]Field, 0, 4)

	if f.Variant == VariantRegister {
		fields = append(fields, f.field("name", "Name", FieldText, f.Values.Name))
	}
	fields = append(fields,
		f.field("email", "Email", FieldEmail, f.Values.Email),
		f.field("password", "Password", FieldPassword, ""),
	)
	if f.Variant == VariantRegister {
		fields = append(fields, f.field("confirmPassword", "Confirm Password", FieldPassword, ""))
	}

	return fields
}

func (f *Form) field(id, label string, typ FieldType, value string) Field {
	return Field{
		ID:       id,
		Label:    label,
		Type:     typ,
		Value:    value,
		Required: true,
		Disabled: f.Loading,
	}
}

// SubmitLabel is the text of the submit button.
func (f *Form) SubmitLabel() string {
	if f.Variant == VariantRegister {
		return "Register"
	}
	return "Sign In"
}

// TogglePrompt is the sentence before the variant switch link.
func (f *Form) TogglePrompt() string {
	if f.Variant == VariantRegister {
		return "Already have an account!"
	}
	return "New to Rubie's Chat?"
}

// ToggleAction is the text of the variant switch link.
func (f *Form) ToggleAction() string {
	if f.Variant == VariantRegister {
		return "Login"
	}
	return "Create an account"
}

// ToggleVariant is the variant the switch link leads to.
func (f *Form) ToggleVariant() Variant {
	if f.Variant == VariantRegister {
		return VariantLogin
	}
	return VariantRegister
}

func (f *Form) success(message string) {
	f.Toasts = append(f.Toasts, Toast{Kind: ToastSuccess, Message: message})
}

func (f *Form) error(message string) {
	f.Toasts = append(f.Toasts, Toast{Kind: ToastError, Message: message})
}
