package validation

// LoginForm is the credentials payload.
type LoginForm struct {
	Email    string `json:"email" binding:"notblank,email"`
	Password string `json:"password" binding:"notblank"`
}

func (f LoginForm) Validate() FieldErrors { return Check(f) }

// RegisterForm is the self sign-up payload. Cellphone is passed through
// unchecked.
type RegisterForm struct {
	Nombre     string `json:"nombre" binding:"notblank"`
	NumeroIden string `json:"numero_iden" binding:"notblank"`
	Email      string `json:"email" binding:"notblank,email"`
	Password   string `json:"password" binding:"notblank,min=8"`
	Cellphone  string `json:"cellphone"`
}

func (f RegisterForm) Validate() FieldErrors { return Check(f) }

// ClientForm is the client registration payload.
type ClientForm struct {
	Name           string `json:"name" binding:"notblank"`
	Identification string `json:"identification" binding:"notblank,identification"`
	Phone          string `json:"phone" binding:"notblank,phone"`
	Address        string `json:"address" binding:"notblank"`
	Email          string `json:"email,omitempty" binding:"omitempty,email"`
	Country        string `json:"country,omitempty"`
	Department     string `json:"department,omitempty"`
	City           string `json:"city,omitempty"`
}

func (f ClientForm) Validate() FieldErrors { return Check(f) }
