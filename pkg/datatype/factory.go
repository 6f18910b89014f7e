package datatype

import (
	"encoding/base64"

	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/primitive"
	"github.com/gofhir/model/pkg/reference"
	"github.com/gofhir/model/pkg/terminology"
)

// Factories are pure: they either return a fully valid value or the zero
// value with an error describing every problem found.

// ReferenceOption configures CreateReference.
type ReferenceOption func(*Reference)

// WithDisplay sets Reference.display.
func WithDisplay(display string) ReferenceOption {
	return func(r *Reference) { r.Display = display }
}

// WithType sets Reference.type.
func WithType(resourceType string) ReferenceOption {
	return func(r *Reference) { r.Type = resourceType }
}

// CreateReference builds a relative reference "resourceType/id".
func CreateReference(resourceType, id string, opts ...ReferenceOption) (Reference, error) {
	ref, err := reference.Format(resourceType, id)
	if err != nil {
		return Reference{}, err
	}
	r := Reference{Reference: ref}
	for _, opt := range opts {
		opt(&r)
	}
	if err := validate(r.Check, "Reference"); err != nil {
		return Reference{}, err
	}
	if r.Type != "" && r.Type != resourceType {
		return Reference{}, issue.ReferenceShape("Reference.type", r.Type)
	}
	return r, nil
}

// CodingOption configures CreateCoding.
type CodingOption func(*Coding)

// WithCodingDisplay sets Coding.display.
func WithCodingDisplay(display string) CodingOption {
	return func(c *Coding) { c.Display = display }
}

// WithVersion sets Coding.version.
func WithVersion(version string) CodingOption {
	return func(c *Coding) { c.Version = version }
}

// WithUserSelected sets Coding.userSelected.
func WithUserSelected(selected bool) CodingOption {
	return func(c *Coding) { c.UserSelected = &selected }
}

// CreateCoding builds a coding. Both system and code are required. When the
// system is loaded in the registry and no display is given, the registry's
// display is used.
func CreateCoding(system, code string, opts ...CodingOption) (Coding, error) {
	c := Coding{System: system, Code: code}
	for _, opt := range opts {
		opt(&c)
	}
	var col issue.Collector
	if system == "" {
		col.Add(issue.Required("Coding.system"))
	}
	if code == "" {
		col.Add(issue.Required("Coding.code"))
	}
	c.Check("Coding", &col)
	if err := col.Err(); err != nil {
		return Coding{}, err
	}
	if c.Display == "" {
		if concept, ok := terminology.Default().Lookup(system, code); ok {
			c.Display = concept.Display
		}
	}
	return c, nil
}

// CreateCodeableConcept builds a concept from codings and text. At least one
// coding or non-empty text is required.
func CreateCodeableConcept(codings []Coding, text string) (CodeableConcept, error) {
	cc := CodeableConcept{Text: text}
	if len(codings) > 0 {
		cc.Coding = append([]Coding(nil), codings...)
	}
	if err := validate(cc.Check, "CodeableConcept"); err != nil {
		return CodeableConcept{}, err
	}
	return cc, nil
}

// NameOption configures CreateHumanName.
type NameOption func(*HumanName)

// WithNameUse overrides the default use "official".
func WithNameUse(use string) NameOption {
	return func(h *HumanName) { h.Use = use }
}

// WithNameText sets the full text representation.
func WithNameText(text string) NameOption {
	return func(h *HumanName) { h.Text = text }
}

// WithPrefix appends name prefixes.
func WithPrefix(prefix ...string) NameOption {
	return func(h *HumanName) { h.Prefix = append(h.Prefix, prefix...) }
}

// WithSuffix appends name suffixes.
func WithSuffix(suffix ...string) NameOption {
	return func(h *HumanName) { h.Suffix = append(h.Suffix, suffix...) }
}

// WithNamePeriod sets when the name was in use.
func WithNamePeriod(p Period) NameOption {
	return func(h *HumanName) { h.Period = &p }
}

// CreateHumanName builds a name with use "official" unless overridden.
// Family or at least one given name is required.
func CreateHumanName(given []string, family string, opts ...NameOption) (HumanName, error) {
	h := HumanName{Use: "official", Family: family}
	if len(given) > 0 {
		h.Given = append([]string(nil), given...)
	}
	for _, opt := range opts {
		opt(&h)
	}
	if h.Family == "" && len(h.Given) == 0 {
		return HumanName{}, issue.OneOf("HumanName", "family", "given")
	}
	if err := validate(h.Check, "HumanName"); err != nil {
		return HumanName{}, err
	}
	return h, nil
}

// ContactOption configures CreateContactPoint.
type ContactOption func(*ContactPoint)

// WithContactUse sets ContactPoint.use.
func WithContactUse(use string) ContactOption {
	return func(c *ContactPoint) { c.Use = use }
}

// WithRank sets the preference order; 1 is highest.
func WithRank(rank int) ContactOption {
	return func(c *ContactPoint) {
		if r, err := primitive.NewPositiveInt(rank); err == nil {
			c.Rank = &r
		} else {
			c.Rank = &primitive.PositiveInt{}
		}
	}
}

// WithContactPeriod sets when the contact point was in use.
func WithContactPeriod(p Period) ContactOption {
	return func(c *ContactPoint) { c.Period = &p }
}

// CreateContactPoint builds a contact point. system and use are checked
// against their required bindings; value is required.
func CreateContactPoint(system, value string, opts ...ContactOption) (ContactPoint, error) {
	c := ContactPoint{System: system, Value: value}
	for _, opt := range opts {
		opt(&c)
	}
	var col issue.Collector
	if value == "" {
		col.Add(issue.Required("ContactPoint.value"))
	}
	if c.Rank != nil && c.Rank.IsZero() {
		col.Add(issue.Range("ContactPoint.rank", primitive.TypePositiveInt, "0"))
	}
	c.Check("ContactPoint", &col)
	if err := col.Err(); err != nil {
		return ContactPoint{}, err
	}
	return c, nil
}

// AddressOption configures CreateAddress.
type AddressOption func(*Address)

// WithLine appends street address lines.
func WithLine(lines ...string) AddressOption {
	return func(a *Address) { a.Line = append(a.Line, lines...) }
}

// WithCity sets Address.city.
func WithCity(city string) AddressOption {
	return func(a *Address) { a.City = city }
}

// WithDistrict sets Address.district.
func WithDistrict(district string) AddressOption {
	return func(a *Address) { a.District = district }
}

// WithState sets Address.state.
func WithState(state string) AddressOption {
	return func(a *Address) { a.State = state }
}

// WithPostalCode sets Address.postalCode.
func WithPostalCode(code string) AddressOption {
	return func(a *Address) { a.PostalCode = code }
}

// WithCountry sets Address.country.
func WithCountry(country string) AddressOption {
	return func(a *Address) { a.Country = country }
}

// WithAddressText sets the full text representation.
func WithAddressText(text string) AddressOption {
	return func(a *Address) { a.Text = text }
}

// WithAddressUse sets Address.use.
func WithAddressUse(use string) AddressOption {
	return func(a *Address) { a.Use = use }
}

// WithAddressType sets Address.type.
func WithAddressType(typ string) AddressOption {
	return func(a *Address) { a.Type = typ }
}

// CreateAddress builds an address. At least one of line, city, state,
// postalCode, country or text is required.
func CreateAddress(opts ...AddressOption) (Address, error) {
	var a Address
	for _, opt := range opts {
		opt(&a)
	}
	if err := validate(a.Check, "Address"); err != nil {
		return Address{}, err
	}
	return a, nil
}

// IdentifierOption configures CreateIdentifier.
type IdentifierOption func(*Identifier)

// WithIdentifierUse sets Identifier.use.
func WithIdentifierUse(use string) IdentifierOption {
	return func(id *Identifier) { id.Use = use }
}

// WithIdentifierType sets Identifier.type.
func WithIdentifierType(cc CodeableConcept) IdentifierOption {
	return func(id *Identifier) { id.Type = &cc }
}

// WithIdentifierPeriod sets when the identifier was valid.
func WithIdentifierPeriod(p Period) IdentifierOption {
	return func(id *Identifier) { id.Period = &p }
}

// WithAssigner sets the issuing organization.
func WithAssigner(r Reference) IdentifierOption {
	return func(id *Identifier) { id.Assigner = &r }
}

// CreateIdentifier builds an identifier. value is required; system, when
// given, must be a uri.
func CreateIdentifier(system, value string, opts ...IdentifierOption) (Identifier, error) {
	id := Identifier{System: system, Value: value}
	for _, opt := range opts {
		opt(&id)
	}
	if err := validate(id.Check, "Identifier"); err != nil {
		return Identifier{}, err
	}
	return id, nil
}

// CreatePeriod builds a period. When both bounds are given start must not
// be after end.
func CreatePeriod(start, end *primitive.DateTime) (Period, error) {
	p := Period{Start: start, End: end}
	if err := validate(p.Check, "Period"); err != nil {
		return Period{}, err
	}
	return p, nil
}

// QuantityOption configures CreateQuantity.
type QuantityOption func(*Quantity)

// WithComparator sets how the value should be understood (<, <=, >=, >).
func WithComparator(comparator string) QuantityOption {
	return func(q *Quantity) { q.Comparator = comparator }
}

// WithUnit sets the human-readable unit.
func WithUnit(unit string) QuantityOption {
	return func(q *Quantity) { q.Unit = unit }
}

// WithUnitSystem replaces the UCUM default system.
func WithUnitSystem(system string) QuantityOption {
	return func(q *Quantity) { q.System = system }
}

// CreateQuantity builds a quantity coded in UCUM by default. The unit text
// defaults to the code.
func CreateQuantity(value primitive.Decimal, code string, opts ...QuantityOption) (Quantity, error) {
	q := Quantity{Code: code, Unit: code}
	if !value.IsZero() {
		q.Value = &value
	}
	if code != "" {
		q.System = SystemUCUM
	}
	for _, opt := range opts {
		opt(&q)
	}
	if err := validate(q.Check, "Quantity"); err != nil {
		return Quantity{}, err
	}
	return q, nil
}

// CreateDuration builds a duration in a UCUM unit of time (s, min, h, d,
// wk, mo, a).
func CreateDuration(value primitive.Decimal, unit string) (Duration, error) {
	if value.IsZero() {
		return Duration{}, issue.Required("Duration.value")
	}
	d := Duration{Value: &value, Unit: unit, System: SystemUCUM, Code: unit}
	if err := validate(d.Check, "Duration"); err != nil {
		return Duration{}, err
	}
	return d, nil
}

// AttachmentOption configures CreateAttachment.
type AttachmentOption func(*Attachment)

// WithData sets inline content; the size is derived from it.
func WithData(data []byte) AttachmentOption {
	return func(a *Attachment) {
		a.Data = base64.StdEncoding.EncodeToString(data)
		size, err := primitive.NewUnsignedInt(len(data))
		if err == nil {
			a.Size = &size
		}
	}
}

// WithURL sets where the content can be retrieved.
func WithURL(url string) AttachmentOption {
	return func(a *Attachment) { a.URL = url }
}

// WithTitle sets the attachment label.
func WithTitle(title string) AttachmentOption {
	return func(a *Attachment) { a.Title = title }
}

// WithLanguage sets the human language of the content.
func WithLanguage(lang string) AttachmentOption {
	return func(a *Attachment) { a.Language = lang }
}

// CreateAttachment builds an attachment. contentType is required when data
// is present, and at least one of data or url must be given.
func CreateAttachment(contentType string, opts ...AttachmentOption) (Attachment, error) {
	a := Attachment{ContentType: contentType}
	for _, opt := range opts {
		opt(&a)
	}
	if a.Data == "" && a.URL == "" {
		return Attachment{}, issue.OneOf("Attachment", "data", "url")
	}
	if err := validate(a.Check, "Attachment"); err != nil {
		return Attachment{}, err
	}
	return a, nil
}

// validate runs a Check method and returns only its errors.
func validate(check func(string, *issue.Collector), path string) error {
	var col issue.Collector
	check(path, &col)
	return col.Err()
}
