package driven

import "github.com/datamill-co/knots/internal/core/domain"

// TapConfigProvider supplies the configuration fields a tap requires.
type TapConfigProvider interface {
	// FieldsFor returns the ordered field list for tapName.
	FieldsFor(tapName string) ([]domain.TapConfigField, error)
}
