package questionnaire

import (
	"github.com/shopspring/decimal"

	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/primitive"
)

// Extensions carrying the score of an answer option.
const (
	ExtOrdinalValue = "http://hl7.org/fhir/StructureDefinition/ordinalValue"
	ExtItemWeight   = "http://hl7.org/fhir/StructureDefinition/itemWeight"
)

// Weight returns the ordinal weight attached to the option, if any.
func (o AnswerOption) Weight() (decimal.Decimal, bool) {
	for _, url := range []string{ExtOrdinalValue, ExtItemWeight} {
		ext, ok := datatype.FindExtension(o.Extension, url)
		if !ok {
			continue
		}
		switch {
		case ext.ValueDecimal != nil:
			return ext.ValueDecimal.Value(), true
		case ext.ValueInteger != nil:
			return decimal.NewFromInt(int64(ext.ValueInteger.Value())), true
		}
	}
	return decimal.Decimal{}, false
}

// Scored returns an answer option for c weighted by weight.
func Scored(c datatype.Coding, weight primitive.Decimal) AnswerOption {
	return AnswerOption{
		BackboneElement: datatype.BackboneElement{
			Extension: []datatype.Extension{{URL: ExtOrdinalValue, ValueDecimal: &weight}},
		},
		Value: CodingValue(c),
	}
}

// weight returns the weight of the option matching v.
func (it *Item) weight(v Value) (decimal.Decimal, bool) {
	for _, opt := range it.AnswerOption {
		if opt.Value.Equal(v) {
			return opt.Weight()
		}
	}
	return decimal.Decimal{}, false
}

// Score sums the ordinal weights of the answer options chosen in r, the
// way assessment instruments such as PHQ-9 and GAD-7 are totalled.
// Answers to items whose options carry no weight do not count. r must
// validate against q.
func Score(q *Questionnaire, r *Response) (decimal.Decimal, error) {
	if err := r.ValidateAgainst(q); err != nil {
		return decimal.Decimal{}, err
	}
	nodes := index(q)
	total := decimal.Zero
	walkResponse(r.Item, "QuestionnaireResponse.item", func(_ string, it *ResponseItem) {
		n, ok := nodes[it.LinkID]
		if !ok {
			return
		}
		for _, a := range it.Answer {
			if w, ok := n.item.weight(a.Value); ok {
				total = total.Add(w)
			}
		}
	})
	return total, nil
}
