package questionnaire

import (
	"github.com/gofhir/model/pkg/cardinality"
	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/primitive"
	"github.com/gofhir/model/pkg/terminology"
)

// ResponseResourceType is the FHIR resource type name of a
// QuestionnaireResponse.
const ResponseResourceType = "QuestionnaireResponse"

// Response statuses.
const (
	ResponseInProgress     = "in-progress"
	ResponseCompleted      = "completed"
	ResponseAmended        = "amended"
	ResponseEnteredInError = "entered-in-error"
	ResponseStopped        = "stopped"
)

// Response is a QuestionnaireResponse: a set of answers to the questions of
// a Questionnaire.
type Response struct {
	datatype.DomainResource
	Identifier    *datatype.Identifier `json:"identifier,omitempty"`
	BasedOn       []datatype.Reference `json:"basedOn,omitempty"`
	PartOf        []datatype.Reference `json:"partOf,omitempty"`
	Questionnaire string               `json:"questionnaire,omitempty"`
	Status        string               `json:"status,omitempty"`
	Subject       *datatype.Reference  `json:"subject,omitempty"`
	Encounter     *datatype.Reference  `json:"encounter,omitempty"`
	Authored      *primitive.DateTime  `json:"authored,omitempty"`
	Author        *datatype.Reference  `json:"author,omitempty"`
	Source        *datatype.Reference  `json:"source,omitempty"`
	Item          []ResponseItem       `json:"item,omitempty"`
}

// ResponseItem holds the answers to one questionnaire item, or the
// responses to a group's children.
type ResponseItem struct {
	datatype.BackboneElement
	LinkID     string         `json:"linkId,omitempty" validate:"required"`
	Definition string         `json:"definition,omitempty"`
	Text       string         `json:"text,omitempty"`
	Answer     []Answer       `json:"answer,omitempty"`
	Item       []ResponseItem `json:"item,omitempty"`
}

// Answer is one answer to a question, with any items nested beneath it.
type Answer struct {
	datatype.BackboneElement
	Value
	Item []ResponseItem `json:"item,omitempty"`
}

var authorTargets = []string{"Device", "Practitioner", "PractitionerRole", "Patient", "RelatedPerson", "Organization"}

// ResourceType implements datatype.Resource.
func (r *Response) ResourceType() string { return ResponseResourceType }

// Check validates the response on its own. Use ValidateAgainst to compare
// it with its questionnaire.
func (r *Response) Check() ([]issue.Issue, error) {
	var col issue.Collector
	r.CheckBase(ResponseResourceType, &col)
	if r.Identifier != nil {
		r.Identifier.Check("QuestionnaireResponse.identifier", &col)
	}
	datatype.CheckReferences(r.BasedOn, "QuestionnaireResponse.basedOn", &col, "CarePlan", "ServiceRequest")
	datatype.CheckReferences(r.PartOf, "QuestionnaireResponse.partOf", &col, "Observation", "Procedure")
	datatype.CheckCanonical(r.Questionnaire, "QuestionnaireResponse.questionnaire", &col)
	datatype.RequireCode(terminology.QuestionnaireAnswers, r.Status, "QuestionnaireResponse.status", &col)
	datatype.CheckReference(r.Subject, "QuestionnaireResponse.subject", &col)
	datatype.CheckReference(r.Encounter, "QuestionnaireResponse.encounter", &col, "Encounter")
	datatype.CheckReference(r.Author, "QuestionnaireResponse.author", &col, authorTargets...)
	datatype.CheckReference(r.Source, "QuestionnaireResponse.source", &col,
		"Patient", "Practitioner", "PractitionerRole", "RelatedPerson")
	checkResponseItems(r.Item, "QuestionnaireResponse.item", &col)
	return col.Warnings(), col.Err()
}

func checkResponseItems(items []ResponseItem, path string, col *issue.Collector) {
	answered := make(map[string]string)
	for i := range items {
		at := issue.Index(path, i)
		it := &items[i]
		it.check(at, col)
		// qrs-2: repeated answers belong in one item's answer array.
		if it.LinkID == "" || len(it.Answer) == 0 {
			continue
		}
		if first, dup := answered[it.LinkID]; dup {
			col.Add(issue.Duplicate(issue.Join(at, "linkId"), "answered linkId (first at "+first+")", it.LinkID))
		} else {
			answered[it.LinkID] = at
		}
	}
}

func (it *ResponseItem) check(path string, col *issue.Collector) {
	it.BackboneElement.Check(path, col)
	cardinality.Struct(it, path, col)
	datatype.CheckURI(it.Definition, issue.Join(path, "definition"), col)
	if len(it.Answer) > 0 && len(it.Item) > 0 {
		col.Add(issue.Invariant(path, "Nested item can't be beneath both item and answer"))
	}
	for i := range it.Answer {
		at := issue.Index(issue.Join(path, "answer"), i)
		a := &it.Answer[i]
		a.BackboneElement.Check(at, col)
		if a.Value.IsEmpty() && len(a.Item) == 0 {
			col.Add(issue.Required(issue.Join(at, "value[x]")))
		}
		a.Value.check(at, "value", allValueTypes, col)
		checkResponseItems(a.Item, issue.Join(at, "item"), col)
	}
	checkResponseItems(it.Item, issue.Join(path, "item"), col)
}

// Validate returns every error found, ignoring binding warnings.
func (r *Response) Validate() error {
	_, err := r.Check()
	return err
}

// Warnings returns non-fatal binding issues.
func (r *Response) Warnings() []issue.Issue {
	warnings, _ := r.Check()
	return warnings
}

// Answers returns every answer value in the response keyed by linkId,
// including answers nested under groups and other answers.
func (r *Response) Answers() map[string][]Value {
	answers := make(map[string][]Value)
	walkResponse(r.Item, "QuestionnaireResponse.item", func(_ string, it *ResponseItem) {
		for _, a := range it.Answer {
			if !a.Value.IsEmpty() {
				answers[it.LinkID] = append(answers[it.LinkID], a.Value)
			}
		}
	})
	return answers
}

// walkResponse calls fn for every response item, parents first.
func walkResponse(items []ResponseItem, path string, fn func(string, *ResponseItem)) {
	for i := range items {
		at := issue.Index(path, i)
		fn(at, &items[i])
		for j := range items[i].Answer {
			walkResponse(items[i].Answer[j].Item, issue.Join(issue.Index(issue.Join(at, "answer"), j), "item"), fn)
		}
		walkResponse(items[i].Item, issue.Join(at, "item"), fn)
	}
}
