package questionnaire

import (
	"time"

	"github.com/gofhir/model/pkg/datatype"
	"github.com/gofhir/model/pkg/primitive"
)

// Option sets an element of a Questionnaire under construction.
type Option func(*Questionnaire)

// New builds a Questionnaire with the given publication status and items.
// An empty id gets a generated one. The questionnaire is returned only if
// it validates.
func New(id, status string, items []Item, opts ...Option) (*Questionnaire, error) {
	base, err := datatype.NewDomainResource(id)
	if err != nil {
		return nil, err
	}
	q := &Questionnaire{DomainResource: base, Status: status, Item: items}
	for _, opt := range opts {
		opt(q)
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// WithURL sets the canonical URL.
func WithURL(url string) Option {
	return func(q *Questionnaire) { q.URL = url }
}

// WithIdentifier appends business identifiers.
func WithIdentifier(ids ...datatype.Identifier) Option {
	return func(q *Questionnaire) { q.Identifier = append(q.Identifier, ids...) }
}

// WithVersion sets the business version.
func WithVersion(v string) Option {
	return func(q *Questionnaire) { q.Version = v }
}

// WithName sets the computer-friendly name.
func WithName(name string) Option {
	return func(q *Questionnaire) { q.Name = name }
}

// WithTitle sets the human-friendly title.
func WithTitle(title string) Option {
	return func(q *Questionnaire) { q.Title = title }
}

// WithSubjectType appends the resource types that can be subjects.
func WithSubjectType(types ...string) Option {
	return func(q *Questionnaire) { q.SubjectType = append(q.SubjectType, types...) }
}

// WithDate sets the last-changed date.
func WithDate(t time.Time) Option {
	return func(q *Questionnaire) {
		dt := primitive.DateTimeOf(t)
		q.Date = &dt
	}
}

// WithPublisher sets the publisher name.
func WithPublisher(p string) Option {
	return func(q *Questionnaire) { q.Publisher = p }
}

// WithDescription sets the natural language description.
func WithDescription(d string) Option {
	return func(q *Questionnaire) { q.Description = d }
}

// WithEffectivePeriod sets when the questionnaire is expected to be used.
func WithEffectivePeriod(p datatype.Period) Option {
	return func(q *Questionnaire) { q.EffectivePeriod = &p }
}

// WithCode appends concepts for the whole questionnaire.
func WithCode(codes ...datatype.Coding) Option {
	return func(q *Questionnaire) { q.Code = append(q.Code, codes...) }
}

// ItemOption sets an element of an Item.
type ItemOption func(*Item)

// Question returns a question item of the given type.
func Question(linkID, text, typ string, opts ...ItemOption) Item {
	it := Item{LinkID: linkID, Text: text, Type: typ}
	for _, opt := range opts {
		opt(&it)
	}
	return it
}

// Group returns a group item holding children.
func Group(linkID, text string, children []Item, opts ...ItemOption) Item {
	it := Item{LinkID: linkID, Text: text, Type: TypeGroup, Item: children}
	for _, opt := range opts {
		opt(&it)
	}
	return it
}

// Display returns a display-only item.
func Display(linkID, text string) Item {
	return Item{LinkID: linkID, Text: text, Type: TypeDisplay}
}

func flag() *bool {
	b := true
	return &b
}

// Required marks the item as mandatory.
func Required() ItemOption {
	return func(it *Item) { it.Required = flag() }
}

// Repeats allows multiple answers.
func Repeats() ItemOption {
	return func(it *Item) { it.Repeats = flag() }
}

// ReadOnly prevents the user from changing the answer.
func ReadOnly() ItemOption {
	return func(it *Item) { it.ReadOnly = flag() }
}

// WithMaxLength limits the length of string answers.
func WithMaxLength(n int32) ItemOption {
	return func(it *Item) {
		v := primitive.IntegerOf(n)
		it.MaxLength = &v
	}
}

// WithItemCode appends concepts for the item.
func WithItemCode(codes ...datatype.Coding) ItemOption {
	return func(it *Item) { it.Code = append(it.Code, codes...) }
}

// WithPrefix sets the label shown before the text, e.g. "1.".
func WithPrefix(prefix string) ItemOption {
	return func(it *Item) { it.Prefix = prefix }
}

// WithDefinition sets the ElementDefinition the item maps to.
func WithDefinition(uri string) ItemOption {
	return func(it *Item) { it.Definition = uri }
}

// WithAnswerOptions appends permitted answers.
func WithAnswerOptions(opts ...AnswerOption) ItemOption {
	return func(it *Item) { it.AnswerOption = append(it.AnswerOption, opts...) }
}

// WithAnswerValueSet sets the value set of permitted answers.
func WithAnswerValueSet(canonical string) ItemOption {
	return func(it *Item) { it.AnswerValueSet = canonical }
}

// WithEnableWhen adds a condition on another question's answer.
func WithEnableWhen(question, operator string, answer Value) ItemOption {
	return func(it *Item) {
		ew := EnableWhen{Question: question, Operator: operator}
		ew.setAnswer(answer)
		it.EnableWhen = append(it.EnableWhen, ew)
	}
}

// WithEnableBehavior sets how several enableWhen conditions combine.
func WithEnableBehavior(behavior string) ItemOption {
	return func(it *Item) { it.EnableBehavior = behavior }
}

// WithInitial appends default answers.
func WithInitial(values ...Value) ItemOption {
	return func(it *Item) {
		for _, v := range values {
			it.Initial = append(it.Initial, Initial{Value: v})
		}
	}
}

// Choice returns an unscored answer option.
func Choice(v Value) AnswerOption {
	return AnswerOption{Value: v}
}

// ResponseOption sets an element of a Response under construction.
type ResponseOption func(*Response)

// NewResponse builds a QuestionnaireResponse for the questionnaire
// canonical with the given status and items. The response is returned only
// if it validates on its own.
func NewResponse(id, questionnaire, status string, items []ResponseItem, opts ...ResponseOption) (*Response, error) {
	base, err := datatype.NewDomainResource(id)
	if err != nil {
		return nil, err
	}
	r := &Response{DomainResource: base, Questionnaire: questionnaire, Status: status, Item: items}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// WithResponseIdentifier sets the business identifier.
func WithResponseIdentifier(id datatype.Identifier) ResponseOption {
	return func(r *Response) { r.Identifier = &id }
}

// WithBasedOn appends the care plans or requests being fulfilled.
func WithBasedOn(refs ...datatype.Reference) ResponseOption {
	return func(r *Response) { r.BasedOn = append(r.BasedOn, refs...) }
}

// WithPartOf appends the events this response is part of.
func WithPartOf(refs ...datatype.Reference) ResponseOption {
	return func(r *Response) { r.PartOf = append(r.PartOf, refs...) }
}

// WithSubject sets who or what the answers are about.
func WithSubject(ref datatype.Reference) ResponseOption {
	return func(r *Response) { r.Subject = &ref }
}

// WithEncounter sets the encounter the response was created during.
func WithEncounter(ref datatype.Reference) ResponseOption {
	return func(r *Response) { r.Encounter = &ref }
}

// WithAuthored sets when the answers were gathered.
func WithAuthored(t time.Time) ResponseOption {
	return func(r *Response) {
		dt := primitive.DateTimeOf(t)
		r.Authored = &dt
	}
}

// WithAuthor sets who recorded the answers.
func WithAuthor(ref datatype.Reference) ResponseOption {
	return func(r *Response) { r.Author = &ref }
}

// WithSource sets who provided the answers.
func WithSource(ref datatype.Reference) ResponseOption {
	return func(r *Response) { r.Source = &ref }
}

// Answered returns a response item answering linkID with values.
func Answered(linkID string, values ...Value) ResponseItem {
	it := ResponseItem{LinkID: linkID}
	for _, v := range values {
		it.Answer = append(it.Answer, Answer{Value: v})
	}
	return it
}

// Section returns a response item for a group with its children.
func Section(linkID string, children ...ResponseItem) ResponseItem {
	return ResponseItem{LinkID: linkID, Item: children}
}
