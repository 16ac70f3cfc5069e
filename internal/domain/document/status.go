package document

// Status estado del ciclo de vida de un documento.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusSubmitted Status = "Submitted"
	StatusApproved  Status = "Approved"
	StatusCancelled Status = "Cancelled"
)

// ParseStatus valida un estado recibido como texto.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// Editable solo los borradores aceptan cambios de cabecera o líneas.
func (s Status) Editable() bool { return s == StatusDraft }

// Final Approved y Cancelled no admiten más transiciones.
func (s Status) Final() bool { return s == StatusApproved || s == StatusCancelled }

// CanTransitionTo transiciones permitidas:
//
//	Draft -> Submitted -> Approved
//	Draft | Submitted -> Cancelled
func (s Status) CanTransitionTo(next Status) bool {
	switch next {
	case StatusSubmitted:
		return s == StatusDraft
	case StatusApproved:
		return s == StatusSubmitted
	case StatusCancelled:
		return s == StatusDraft || s == StatusSubmitted
	}
	return false
}

// SourcesFor estados desde los que se puede llegar a next. Se usan en los UPDATE condicionales.
func SourcesFor(next Status) []Status {
	var out []Status
	for _, s := range []Status{StatusDraft, StatusSubmitted, StatusApproved, StatusCancelled} {
		if s.CanTransitionTo(next) {
			out = append(out, s)
		}
	}
	return out
}
