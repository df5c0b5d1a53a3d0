package model

import "strings"

// EntityClass labels what kind of thing an extracted entity is.
type EntityClass string

// Entity classes produced by the extraction service.
const (
	EntityMerchant      EntityClass = "merchant"
	EntityAddress       EntityClass = "address"
	EntityDate          EntityClass = "date"
	EntityTime          EntityClass = "time"
	EntityTransactionID EntityClass = "transaction_id"
	EntityItem          EntityClass = "item"
	EntitySubtotal      EntityClass = "subtotal"
	EntityTax           EntityClass = "tax"
	EntityTotal         EntityClass = "total"
	EntityPaymentMethod EntityClass = "payment_method"
)

// Entity is one structured extraction from a source document. Text must be a
// verbatim substring of the document it was extracted from; entities are kept
// in order of first appearance in the source.
type Entity struct {
	Attributes map[string]string `json:"attributes,omitempty"`
	Class      EntityClass       `json:"extraction_class"`
	Text       string            `json:"extraction_text"`
}

// Key returns the identity used for de-duplicating entities across passes.
func (e Entity) Key() string {
	return string(e.Class) + "\x00" + e.Text
}

// ExtractionResult is the merged output of one or more extraction passes over
// a single document.
type ExtractionResult struct {
	Document string   `json:"-"`
	Entities []Entity `json:"entities"`
	Passes   int      `json:"passes"`
}

// First returns the first entity of the given class, or nil.
func (r ExtractionResult) First(class EntityClass) *Entity {
	for i := range r.Entities {
		if r.Entities[i].Class == class {
			return &r.Entities[i]
		}
	}
	return nil
}

// Verbatim reports whether every entity's text appears verbatim in the
// source document.
func (r ExtractionResult) Verbatim() bool {
	for _, e := range r.Entities {
		if !strings.Contains(r.Document, e.Text) {
			return false
		}
	}
	return true
}

// ExampleDocument is one few-shot example given to the extraction service:
// an input text and the ordered entities expected from it.
type ExampleDocument struct {
	Text     string   `json:"text"`
	Entities []Entity `json:"extractions"`
}
