package pairing

const sameResumeMessage = "Principal and grantee cannot be the same resume."

// Validator enforces that the principal and grantee resumes of a letter
// request are distinct. Validity is derived from the current values on
// every read, so it is symmetric in which side changed last and clears
// the moment either side changes to make the pair distinct.
type Validator struct {
	principal string
	grantee   string
}

// SetPrincipal records the principal resume id. Empty clears it.
func (v *Validator) SetPrincipal(resumeID string) {
	v.principal = resumeID
}

// SetGrantee records the grantee resume id. Empty clears it.
func (v *Validator) SetGrantee(resumeID string) {
	v.grantee = resumeID
}

// Principal returns the current principal resume id.
func (v *Validator) Principal() string { return v.principal }

// Grantee returns the current grantee resume id.
func (v *Validator) Grantee() string { return v.grantee }

// Valid reports whether generation may proceed: both sides chosen and
// distinct. An incomplete pair is invalid but carries no error message.
func (v *Validator) Valid() bool {
	return v.principal != "" && v.grantee != "" && v.principal != v.grantee
}

// ErrorMessage is non-empty exactly when both sides are set and equal.
func (v *Validator) ErrorMessage() string {
	if v.principal != "" && v.principal == v.grantee {
		return sameResumeMessage
	}
	return ""
}
