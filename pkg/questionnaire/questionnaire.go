// Package questionnaire implements the FHIR R4 Questionnaire and
// QuestionnaireResponse resources, checking of a response against its
// questionnaire, and ordinal scoring of assessment instruments.
package questionnaire

import (
	"github.com/gofhir/model/pkg/cardinality"
	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/primitive"
	"github.com/gofhir/model/pkg/reference"
	"github.com/gofhir/model/pkg/terminology"
)

// ResourceType is the FHIR resource type name of a Questionnaire.
const ResourceType = "Questionnaire"

// Item types.
const (
	TypeGroup      = "group"
	TypeDisplay    = "display"
	TypeBoolean    = "boolean"
	TypeDecimal    = "decimal"
	TypeInteger    = "integer"
	TypeDate       = "date"
	TypeDateTime   = "dateTime"
	TypeTime       = "time"
	TypeString     = "string"
	TypeText       = "text"
	TypeURL        = "url"
	TypeChoice     = "choice"
	TypeOpenChoice = "open-choice"
	TypeAttachment = "attachment"
	TypeReference  = "reference"
	TypeQuantity   = "quantity"
)

// answerTypes maps each question type to the answer value types it takes.
var answerTypes = map[string][]string{
	TypeBoolean:    {ValueBoolean},
	TypeDecimal:    {ValueDecimal},
	TypeInteger:    {ValueInteger},
	TypeDate:       {ValueDate},
	TypeDateTime:   {ValueDateTime},
	TypeTime:       {ValueTime},
	TypeString:     {ValueString},
	TypeText:       {ValueString},
	TypeURL:        {ValueURI},
	TypeChoice:     {ValueCoding},
	TypeOpenChoice: {ValueCoding, ValueString},
	TypeAttachment: {ValueAttachment},
	TypeReference:  {ValueReference},
	TypeQuantity:   {ValueQuantity},
}

// maxLengthTypes may declare maxLength.
var maxLengthTypes = map[string]bool{
	TypeBoolean: true, TypeDecimal: true, TypeInteger: true, TypeString: true,
	TypeText: true, TypeURL: true, TypeOpenChoice: true,
}

// optionTypes may carry answerOption or answerValueSet.
var optionTypes = map[string]bool{
	TypeChoice: true, TypeOpenChoice: true, TypeDecimal: true, TypeInteger: true, TypeDate: true,
	TypeDateTime: true, TypeTime: true, TypeString: true, TypeQuantity: true,
}

// Questionnaire is a structured set of questions.
type Questionnaire struct {
	datatype.DomainResource
	URL             string                `json:"url,omitempty"`
	Identifier      []datatype.Identifier `json:"identifier,omitempty"`
	Version         string                `json:"version,omitempty"`
	Name            string                `json:"name,omitempty"`
	Title           string                `json:"title,omitempty"`
	DerivedFrom     []string              `json:"derivedFrom,omitempty"`
	Status          string                `json:"status,omitempty"`
	Experimental    *bool                 `json:"experimental,omitempty"`
	SubjectType     []string              `json:"subjectType,omitempty"`
	Date            *primitive.DateTime   `json:"date,omitempty"`
	Publisher       string                `json:"publisher,omitempty"`
	Description     string                `json:"description,omitempty"`
	Purpose         string                `json:"purpose,omitempty"`
	Copyright       string                `json:"copyright,omitempty"`
	ApprovalDate    *primitive.Date       `json:"approvalDate,omitempty"`
	LastReviewDate  *primitive.Date       `json:"lastReviewDate,omitempty"`
	EffectivePeriod *datatype.Period      `json:"effectivePeriod,omitempty"`
	Code            []datatype.Coding     `json:"code,omitempty"`
	Item            []Item                `json:"item,omitempty"`
}

// Item is a question, group or display text. Items nest to any depth.
type Item struct {
	datatype.BackboneElement
	LinkID         string             `json:"linkId,omitempty" validate:"required"`
	Definition     string             `json:"definition,omitempty"`
	Code           []datatype.Coding  `json:"code,omitempty"`
	Prefix         string             `json:"prefix,omitempty"`
	Text           string             `json:"text,omitempty"`
	Type           string             `json:"type,omitempty" validate:"required"`
	EnableWhen     []EnableWhen       `json:"enableWhen,omitempty"`
	EnableBehavior string             `json:"enableBehavior,omitempty"`
	Required       *bool              `json:"required,omitempty"`
	Repeats        *bool              `json:"repeats,omitempty"`
	ReadOnly       *bool              `json:"readOnly,omitempty"`
	MaxLength      *primitive.Integer `json:"maxLength,omitempty"`
	AnswerValueSet string             `json:"answerValueSet,omitempty"`
	AnswerOption   []AnswerOption     `json:"answerOption,omitempty"`
	Initial        []Initial          `json:"initial,omitempty"`
	Item           []Item             `json:"item,omitempty"`
}

// EnableWhen makes an item conditional on the answer to another question.
type EnableWhen struct {
	datatype.BackboneElement
	Question        string              `json:"question,omitempty" validate:"required"`
	Operator        string              `json:"operator,omitempty" validate:"required"`
	AnswerBoolean   *bool               `json:"answerBoolean,omitempty"`
	AnswerDecimal   *primitive.Decimal  `json:"answerDecimal,omitempty"`
	AnswerInteger   *primitive.Integer  `json:"answerInteger,omitempty"`
	AnswerDate      *primitive.Date     `json:"answerDate,omitempty"`
	AnswerDateTime  *primitive.DateTime `json:"answerDateTime,omitempty"`
	AnswerTime      *primitive.Time     `json:"answerTime,omitempty"`
	AnswerString    string              `json:"answerString,omitempty"`
	AnswerCoding    *datatype.Coding    `json:"answerCoding,omitempty"`
	AnswerQuantity  *datatype.Quantity  `json:"answerQuantity,omitempty"`
	AnswerReference *datatype.Reference `json:"answerReference,omitempty"`
}

// Answer returns the answer[x] choice as a Value.
func (ew EnableWhen) Answer() Value {
	return Value{
		Boolean: ew.AnswerBoolean, Decimal: ew.AnswerDecimal, Integer: ew.AnswerInteger,
		Date: ew.AnswerDate, DateTime: ew.AnswerDateTime, Time: ew.AnswerTime,
		String: ew.AnswerString, Coding: ew.AnswerCoding, Quantity: ew.AnswerQuantity,
		Reference: ew.AnswerReference,
	}
}

// setAnswer stores v in the answer[x] fields.
func (ew *EnableWhen) setAnswer(v Value) {
	ew.AnswerBoolean, ew.AnswerDecimal, ew.AnswerInteger = v.Boolean, v.Decimal, v.Integer
	ew.AnswerDate, ew.AnswerDateTime, ew.AnswerTime = v.Date, v.DateTime, v.Time
	ew.AnswerString, ew.AnswerCoding, ew.AnswerQuantity = v.String, v.Coding, v.Quantity
	ew.AnswerReference = v.Reference
}

// AnswerOption is a permitted answer to a choice question.
type AnswerOption struct {
	datatype.BackboneElement
	Value
	InitialSelected *bool `json:"initialSelected,omitempty"`
}

// Initial is a default answer.
type Initial struct {
	datatype.BackboneElement
	Value
}

// IsRequired reports whether the item must be answered.
func (it *Item) IsRequired() bool { return it.Required != nil && *it.Required }

// IsRepeating reports whether the item may have more than one answer.
func (it *Item) IsRepeating() bool { return it.Repeats != nil && *it.Repeats }

// IsQuestion reports whether the item takes answers.
func (it *Item) IsQuestion() bool {
	_, ok := answerTypes[it.Type]
	return ok
}

// AnswerTypes returns the value types an answer to the item may take.
func (it *Item) AnswerTypes() []string { return answerTypes[it.Type] }

// ResourceType implements datatype.Resource.
func (q *Questionnaire) ResourceType() string { return ResourceType }

// Check validates the whole resource.
func (q *Questionnaire) Check() ([]issue.Issue, error) {
	var col issue.Collector
	q.CheckBase(ResourceType, &col)
	datatype.CheckURI(q.URL, "Questionnaire.url", &col)
	datatype.CheckIdentifiers(q.Identifier, "Questionnaire.identifier", &col)
	for i, c := range q.DerivedFrom {
		datatype.CheckCanonical(c, issue.Index("Questionnaire.derivedFrom", i), &col)
	}
	datatype.RequireCode(terminology.PublicationStatus, q.Status, "Questionnaire.status", &col)
	for i, rt := range q.SubjectType {
		if !reference.IsResourceType(rt) {
			col.Add(issue.Binding(issue.Index("Questionnaire.subjectType", i), rt, "http://hl7.org/fhir/ValueSet/resource-types"))
		}
	}
	datatype.CheckPeriod(q.EffectivePeriod, "Questionnaire.effectivePeriod", &col)
	for i := range q.Code {
		q.Code[i].Check(issue.Index("Questionnaire.code", i), &col)
	}

	seen := make(map[string]string)
	checkItems(q.Item, "Questionnaire.item", seen, &col)
	Walk(q.Item, func(path string, it *Item) {
		for i, ew := range it.EnableWhen {
			if _, ok := seen[ew.Question]; ew.Question != "" && !ok {
				col.Add(issue.Invariant(issue.Join(issue.Index(issue.Join(path, "enableWhen"), i), "question"),
					"enableWhen.question "+ew.Question+" does not match any item linkId"))
			}
		}
	})
	return col.Warnings(), col.Err()
}

// checkItems validates items recursively. seen maps each linkId to the
// path where it first appeared, across the whole tree.
func checkItems(items []Item, path string, seen map[string]string, col *issue.Collector) {
	for i := range items {
		items[i].check(issue.Index(path, i), seen, col)
	}
}

func (it *Item) check(path string, seen map[string]string, col *issue.Collector) {
	it.BackboneElement.Check(path, col)
	cardinality.Struct(it, path, col)
	if it.LinkID != "" {
		if first, dup := seen[it.LinkID]; dup {
			col.Add(issue.Duplicate(issue.Join(path, "linkId"), "linkId (first at "+first+")", it.LinkID))
		} else {
			seen[it.LinkID] = path
		}
	}
	datatype.CheckURI(it.Definition, issue.Join(path, "definition"), col)
	for i := range it.Code {
		it.Code[i].Check(issue.Index(issue.Join(path, "code"), i), col)
	}
	datatype.CheckCode(terminology.QuestionnaireItemType, it.Type, issue.Join(path, "type"), col)
	datatype.CheckCode(terminology.EnableWhenBehavior, it.EnableBehavior, issue.Join(path, "enableBehavior"), col)
	datatype.CheckCanonical(it.AnswerValueSet, issue.Join(path, "answerValueSet"), col)

	it.checkRules(path, col)

	for i := range it.EnableWhen {
		it.EnableWhen[i].check(issue.Index(issue.Join(path, "enableWhen"), i), col)
	}
	for i := range it.AnswerOption {
		at := issue.Index(issue.Join(path, "answerOption"), i)
		opt := &it.AnswerOption[i]
		opt.BackboneElement.Check(at, col)
		if opt.Value.IsEmpty() {
			col.Add(issue.Required(issue.Join(at, "value[x]")))
		}
		opt.Value.check(at, "value", optionValueTypes, col)
	}
	for i := range it.Initial {
		at := issue.Index(issue.Join(path, "initial"), i)
		in := &it.Initial[i]
		in.BackboneElement.Check(at, col)
		if in.Value.IsEmpty() {
			col.Add(issue.Required(issue.Join(at, "value[x]")))
		}
		in.Value.check(at, "value", allValueTypes, col)
	}
	checkItems(it.Item, issue.Join(path, "item"), seen, col)
}

// checkRules enforces the que-1 and que-3 to que-13 item invariants.
func (it *Item) checkRules(path string, col *issue.Collector) {
	switch it.Type {
	case TypeGroup:
		if len(it.Item) == 0 {
			col.Add(issue.Invariant(path, "Group items must have nested items"))
		}
	case TypeDisplay:
		if len(it.Item) > 0 {
			col.Add(issue.Invariant(path, "Display items cannot have nested items"))
		}
		if it.Required != nil || it.Repeats != nil {
			col.Add(issue.Invariant(path, "Required and repeats aren't permitted for display items"))
		}
		if len(it.Code) > 0 {
			col.Add(issue.Invariant(issue.Join(path, "code"), "Display items cannot have a code asserted"))
		}
		if it.ReadOnly != nil {
			col.Add(issue.Invariant(issue.Join(path, "readOnly"), "Read-only can't be specified for display items"))
		}
	}
	if len(it.AnswerOption) > 0 && it.AnswerValueSet != "" {
		col.Add(issue.Invariant(path, "A question cannot have both answerOption and answerValueSet"))
	}
	if (len(it.AnswerOption) > 0 || it.AnswerValueSet != "") && it.Type != "" && !optionTypes[it.Type] {
		col.Add(issue.Invariant(path, "Only coded, numeric, temporal, string and quantity items can have answerValueSet or answerOption"))
	}
	if it.MaxLength != nil && it.Type != "" && !maxLengthTypes[it.Type] {
		col.Add(issue.Invariant(issue.Join(path, "maxLength"), "Maximum length can only be declared for simple question types"))
	}
	if len(it.Initial) > 0 {
		switch {
		case it.Type == TypeGroup || it.Type == TypeDisplay:
			col.Add(issue.Invariant(issue.Join(path, "initial"), "Initial values can't be specified for groups or display items"))
		case len(it.AnswerOption) > 0:
			col.Add(issue.Invariant(issue.Join(path, "initial"), "If one or more answerOption is present, initial must be missing"))
		case len(it.Initial) > 1 && !it.IsRepeating():
			col.Add(issue.Invariant(issue.Join(path, "initial"), "Can only have multiple initial values for repeating items"))
		}
	}
	if len(it.EnableWhen) > 1 && it.EnableBehavior == "" {
		col.Add(issue.Required(issue.Join(path, "enableBehavior")))
	}
}

func (ew *EnableWhen) check(path string, col *issue.Collector) {
	ew.BackboneElement.Check(path, col)
	cardinality.Struct(ew, path, col)
	datatype.CheckCode(terminology.EnableWhenOperator, ew.Operator, issue.Join(path, "operator"), col)
	answer := ew.Answer()
	if answer.IsEmpty() {
		col.Add(issue.Required(issue.Join(path, "answer[x]")))
		return
	}
	answer.check(path, "answer", enableWhenValueTypes, col)
	if ew.Operator == "exists" && ew.AnswerBoolean == nil {
		col.Add(issue.Invariant(path, "If the operator is 'exists', the value must be a boolean"))
	}
}

// Validate returns every error found, ignoring binding warnings.
func (q *Questionnaire) Validate() error {
	_, err := q.Check()
	return err
}

// Warnings returns non-fatal binding issues.
func (q *Questionnaire) Warnings() []issue.Issue {
	warnings, _ := q.Check()
	return warnings
}

// Walk calls fn for every item in the tree, parents before children, with
// the item's path below Questionnaire.item.
func Walk(items []Item, fn func(path string, it *Item)) {
	walk(items, "Questionnaire.item", fn)
}

func walk(items []Item, path string, fn func(string, *Item)) {
	for i := range items {
		at := issue.Index(path, i)
		fn(at, &items[i])
		walk(items[i].Item, issue.Join(at, "item"), fn)
	}
}

// Find returns the item with linkID anywhere in the tree.
func (q *Questionnaire) Find(linkID string) (*Item, bool) {
	var found *Item
	Walk(q.Item, func(_ string, it *Item) {
		if found == nil && it.LinkID == linkID {
			found = it
		}
	})
	return found, found != nil
}

// LinkIDs returns every linkId in document order.
func (q *Questionnaire) LinkIDs() []string {
	var ids []string
	Walk(q.Item, func(_ string, it *Item) { ids = append(ids, it.LinkID) })
	return ids
}
