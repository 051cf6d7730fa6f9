package query

import (
	"github.com/quiverdb/quiver/record"
)

// Predicate is a conjunction of terms.
type Predicate struct {
	terms []*Term
}

// NewPredicate creates an empty predicate, corresponding to TRUE.
func NewPredicate() *Predicate {
	return &Predicate{terms: []*Term{}}
}

// NewPredicateFromTerm creates a new predicate from the specified term.
func NewPredicateFromTerm(term *Term) *Predicate {
	return &Predicate{terms: []*Term{term}}
}

// CojoinWith modifies the predicate to be the conjunction of itself and
// the specified predicate.
func (p *Predicate) CojoinWith(other *Predicate) {
	p.terms = append(p.terms, other.terms...)
}

// IsSatisfied returns true if every term evaluates to true for the row.
func (p *Predicate) IsSatisfied(schema *record.Schema, row record.Row) (bool, error) {
	for _, term := range p.terms {
		ok, err := term.IsSatisfied(schema, row)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// AppliesTo determines if every term references only columns contained
// in the specified schema.
func (p *Predicate) AppliesTo(schema *record.Schema) bool {
	for _, term := range p.terms {
		if !term.AppliesTo(schema) {
			return false
		}
	}
	return true
}

// String returns a string representation of the predicate.
func (p *Predicate) String() string {
	if len(p.terms) == 0 {
		return "true"
	}
	result := p.terms[0].String()
	for _, term := range p.terms[1:] {
		result += " and " + term.String()
	}
	return result
}
