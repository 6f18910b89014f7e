package datatype

import (
	"encoding/base64"

	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/primitive"
	"github.com/gofhir/model/pkg/reference"
	"github.com/gofhir/model/pkg/terminology"
)

// The Check functions validate a value rooted at path, recording failures
// and binding warnings in col. They never stop at the first failure.

// CheckCode validates a code element against its binding.
func CheckCode(b terminology.Binding, code, path string, col *issue.Collector) {
	if code == "" {
		return
	}
	if _, err := primitive.ParseCode(code); err != nil {
		col.AddAt(path, err)
		return
	}
	checkBinding(b, "", code, path, col)
}

// RequireCode is CheckCode for a mandatory element.
func RequireCode(b terminology.Binding, code, path string, col *issue.Collector) {
	if code == "" {
		col.Add(issue.Required(path))
		return
	}
	CheckCode(b, code, path, col)
}

func checkBinding(b terminology.Binding, system, code, path string, col *issue.Collector) {
	iss, err := terminology.Check(b, system, code, path)
	col.Add(err)
	col.Warn(iss)
}

// CheckURI validates an optional uri element.
func CheckURI(uri, path string, col *issue.Collector) {
	if uri == "" {
		return
	}
	if _, err := primitive.ParseURI(uri); err != nil {
		col.AddAt(path, err)
	}
}

// CheckCanonical validates an optional canonical element.
func CheckCanonical(canonical, path string, col *issue.Collector) {
	if canonical == "" {
		return
	}
	if _, err := primitive.ParseCanonical(canonical); err != nil {
		col.AddAt(path, err)
	}
}

// Check validates the coding's lexical content.
func (c Coding) Check(path string, col *issue.Collector) {
	CheckURI(c.System, issue.Join(path, "system"), col)
	if c.Code != "" {
		if _, err := primitive.ParseCode(c.Code); err != nil {
			col.AddAt(issue.Join(path, "code"), err)
		}
	}
}

// CheckCoding validates c and its membership in the bound value set.
func CheckCoding(b terminology.Binding, c Coding, path string, col *issue.Collector) {
	c.Check(path, col)
	checkBinding(b, c.System, c.Code, path, col)
}

// Check validates the concept: at least one coding or text is required.
func (cc CodeableConcept) Check(path string, col *issue.Collector) {
	if len(cc.Coding) == 0 && cc.Text == "" {
		col.Add(issue.OneOf(path, "coding", "text"))
		return
	}
	for i, c := range cc.Coding {
		c.Check(issue.Index(issue.Join(path, "coding"), i), col)
	}
}

// CheckConcept validates cc against a binding. The concept conforms when any
// of its codings is in the value set; otherwise the first coding decides the
// outcome. A text-only concept conforms to extensible and weaker bindings.
func CheckConcept(b terminology.Binding, cc *CodeableConcept, path string, col *issue.Collector) {
	if cc == nil {
		return
	}
	cc.Check(path, col)
	if len(cc.Coding) == 0 {
		if b.Strength == terminology.Required {
			col.Add(issue.Binding(path, cc.Text, b.ValueSet))
		}
		return
	}
	reg := terminology.Default()
	for _, c := range cc.Coding {
		if member, _ := reg.InValueSet(b.ValueSet, c.System, c.Code); member {
			return
		}
	}
	first := cc.Coding[0]
	checkBinding(b, first.System, first.Code, issue.Index(issue.Join(path, "coding"), 0), col)
}

// CheckConcepts applies CheckConcept to each element of a repeating concept.
func CheckConcepts(b terminology.Binding, ccs []CodeableConcept, path string, col *issue.Collector) {
	for i := range ccs {
		CheckConcept(b, &ccs[i], issue.Index(path, i), col)
	}
}

// Check validates a reference's shape. At least one of reference,
// identifier and display must be present.
func (r Reference) Check(path string, col *issue.Collector) {
	if r.Reference == "" && r.Identifier == nil && r.Display == "" {
		col.Add(issue.OneOf(path, "reference", "identifier", "display"))
		return
	}
	if r.Reference != "" {
		if _, err := reference.Parse(r.Reference); err != nil {
			col.AddAt(issue.Join(path, "reference"), err)
		}
	}
	if r.Type != "" && !reference.IsResourceType(r.Type) {
		col.Add(issue.ReferenceShape(issue.Join(path, "type"), r.Type))
	}
	if r.Identifier != nil {
		r.Identifier.Check(issue.Join(path, "identifier"), col)
	}
}

// CheckReference validates an optional reference and its target type.
func CheckReference(r *Reference, path string, col *issue.Collector, allowed ...string) {
	if r == nil {
		return
	}
	var sub issue.Collector
	r.Check(path, &sub)
	if err := sub.Err(); err != nil {
		col.Add(err)
		return
	}
	col.Add(reference.CheckTarget(path, r.Reference, r.Type, allowed))
}

// RequireReference is CheckReference for a mandatory element.
func RequireReference(r *Reference, path string, col *issue.Collector, allowed ...string) {
	if r == nil {
		col.Add(issue.Required(path))
		return
	}
	CheckReference(r, path, col, allowed...)
}

// CheckReferences applies CheckReference to each element.
func CheckReferences(rs []Reference, path string, col *issue.Collector, allowed ...string) {
	for i := range rs {
		CheckReference(&rs[i], issue.Index(path, i), col, allowed...)
	}
}

// Check validates the period's ordering.
func (p Period) Check(path string, col *issue.Collector) {
	if p.Start == nil || p.End == nil {
		return
	}
	if !primitive.NotAfter(*p.Start, *p.End) {
		col.Add(issue.Invariant(path, "Period.start "+p.Start.String()+" is after end "+p.End.String()))
	}
}

func checkPeriod(p *Period, path string, col *issue.Collector) {
	if p != nil {
		p.Check(path, col)
	}
}

// Check validates the quantity. A coded unit needs a system.
func (q Quantity) Check(path string, col *issue.Collector) {
	CheckCode(terminology.QuantityComparator, q.Comparator, issue.Join(path, "comparator"), col)
	CheckURI(q.System, issue.Join(path, "system"), col)
	if q.Code != "" && q.System == "" {
		col.Add(issue.Required(issue.Join(path, "system")))
	}
}

// Check validates the duration: a value requires a UCUM unit of time.
func (d Duration) Check(path string, col *issue.Collector) {
	Quantity(d).Check(path, col)
	if d.Value == nil {
		return
	}
	if d.Code == "" {
		col.Add(issue.Required(issue.Join(path, "code")))
		return
	}
	if d.System != SystemUCUM {
		col.Add(issue.Binding(issue.Join(path, "system"), d.System, SystemUCUM))
		return
	}
	checkBinding(terminology.UnitsOfTime, d.System, d.Code, issue.Join(path, "code"), col)
}

// Check validates the name: it needs text, family or given.
func (h HumanName) Check(path string, col *issue.Collector) {
	CheckCode(terminology.NameUse, h.Use, issue.Join(path, "use"), col)
	if h.Text == "" && h.Family == "" && len(h.Given) == 0 {
		col.Add(issue.OneOf(path, "text", "family", "given"))
	}
	checkStrings(h.Given, issue.Join(path, "given"), col)
	checkStrings(h.Prefix, issue.Join(path, "prefix"), col)
	checkStrings(h.Suffix, issue.Join(path, "suffix"), col)
	checkPeriod(h.Period, issue.Join(path, "period"), col)
}

// checkStrings rejects empty entries of a repeating string element.
func checkStrings(values []string, path string, col *issue.Collector) {
	for i, v := range values {
		if v == "" {
			col.Add(issue.Format(issue.Index(path, i), "string", v))
		}
	}
}

// Check validates the contact point. A value requires a system.
func (c ContactPoint) Check(path string, col *issue.Collector) {
	CheckCode(terminology.ContactPointSystem, c.System, issue.Join(path, "system"), col)
	CheckCode(terminology.ContactPointUse, c.Use, issue.Join(path, "use"), col)
	if c.Value != "" && c.System == "" {
		col.Add(issue.Required(issue.Join(path, "system")))
	}
	checkPeriod(c.Period, issue.Join(path, "period"), col)
}

// IsEmpty reports whether no address part is present.
func (a Address) IsEmpty() bool {
	return a.Text == "" && len(a.Line) == 0 && a.City == "" && a.District == "" &&
		a.State == "" && a.PostalCode == "" && a.Country == ""
}

// Check validates the address. At least one part is required.
func (a Address) Check(path string, col *issue.Collector) {
	CheckCode(terminology.AddressUse, a.Use, issue.Join(path, "use"), col)
	CheckCode(terminology.AddressType, a.Type, issue.Join(path, "type"), col)
	if a.IsEmpty() {
		col.Add(issue.OneOf(path, "line", "city", "state", "postalCode", "country", "text"))
	}
	checkStrings(a.Line, issue.Join(path, "line"), col)
	checkPeriod(a.Period, issue.Join(path, "period"), col)
}

// Check validates the attachment. Inline data requires a content type.
func (a Attachment) Check(path string, col *issue.Collector) {
	if a.ContentType != "" {
		if _, err := primitive.ParseCode(a.ContentType); err != nil {
			col.AddAt(issue.Join(path, "contentType"), err)
		}
	}
	CheckCode(terminology.Language, a.Language, issue.Join(path, "language"), col)
	CheckURI(a.URL, issue.Join(path, "url"), col)
	if a.Data != "" {
		if a.ContentType == "" {
			col.Add(issue.Required(issue.Join(path, "contentType")))
		}
		if _, err := base64.StdEncoding.DecodeString(a.Data); err != nil {
			col.Add(issue.Format(issue.Join(path, "data"), "base64Binary", a.Data))
		}
	}
}

// Check validates the identifier. A value is required.
func (id Identifier) Check(path string, col *issue.Collector) {
	CheckCode(terminology.IdentifierUse, id.Use, issue.Join(path, "use"), col)
	CheckConcept(terminology.IdentifierType, id.Type, issue.Join(path, "type"), col)
	CheckURI(id.System, issue.Join(path, "system"), col)
	if id.Value == "" {
		col.Add(issue.Required(issue.Join(path, "value")))
	}
	checkPeriod(id.Period, issue.Join(path, "period"), col)
	CheckReference(id.Assigner, issue.Join(path, "assigner"), col, "Organization")
}

// Check validates the extension: a url, and either nested extensions or
// exactly one value.
func (e Extension) Check(path string, col *issue.Collector) {
	if e.URL == "" {
		col.Add(issue.Required(issue.Join(path, "url")))
	} else {
		CheckURI(e.URL, issue.Join(path, "url"), col)
	}
	values := e.valueCount()
	switch {
	case len(e.Extension) > 0 && values > 0:
		col.Add(issue.Invariant(path, "Extension must have either extensions or value[x], not both"))
	case len(e.Extension) == 0 && values == 0:
		col.Add(issue.OneOf(path, "extension", "value[x]"))
	case values > 1:
		col.Add(issue.Invariant(path, "Extension value[x] must have a single type"))
	}
	if e.ValueCoding != nil {
		e.ValueCoding.Check(issue.Join(path, "valueCoding"), col)
	}
	if e.ValueCodeableConcept != nil {
		e.ValueCodeableConcept.Check(issue.Join(path, "valueCodeableConcept"), col)
	}
	if e.ValueQuantity != nil {
		e.ValueQuantity.Check(issue.Join(path, "valueQuantity"), col)
	}
	checkPeriod(e.ValuePeriod, issue.Join(path, "valuePeriod"), col)
	CheckReference(e.ValueReference, issue.Join(path, "valueReference"), col)
	CheckExtensions(e.Extension, issue.Join(path, "extension"), col)
}

// CheckExtensions validates each extension.
func CheckExtensions(exts []Extension, path string, col *issue.Collector) {
	for i, e := range exts {
		e.Check(issue.Index(path, i), col)
	}
}

// Check validates the metadata.
func (m Meta) Check(path string, col *issue.Collector) {
	CheckURI(m.Source, issue.Join(path, "source"), col)
	for i, p := range m.Profile {
		CheckCanonical(p, issue.Index(issue.Join(path, "profile"), i), col)
	}
	for i, c := range m.Security {
		c.Check(issue.Index(issue.Join(path, "security"), i), col)
	}
	for i, c := range m.Tag {
		c.Check(issue.Index(issue.Join(path, "tag"), i), col)
	}
}

// Check validates the narrative: a status and an XHTML div are required.
func (n Narrative) Check(path string, col *issue.Collector) {
	RequireCode(terminology.NarrativeStatus, n.Status, issue.Join(path, "status"), col)
	if n.Div == "" {
		col.Add(issue.Required(issue.Join(path, "div")))
	} else if len(n.Div) < 5 || n.Div[:4] != "<div" {
		col.Add(issue.Invariant(issue.Join(path, "div"), "Narrative.div must be an XHTML div element"))
	}
}

// Check validates the backbone element's extensions.
func (b BackboneElement) Check(path string, col *issue.Collector) {
	CheckExtensions(b.Extension, issue.Join(path, "extension"), col)
	CheckExtensions(b.ModifierExtension, issue.Join(path, "modifierExtension"), col)
}

// CheckIdentifiers validates each identifier and their uniqueness per system.
func CheckIdentifiers(ids []Identifier, path string, col *issue.Collector) {
	for i, id := range ids {
		id.Check(issue.Index(path, i), col)
	}
	col.Add(ValidateIdentifiers(ids, path))
}

// CheckNames validates each name.
func CheckNames(names []HumanName, path string, col *issue.Collector) {
	for i, n := range names {
		n.Check(issue.Index(path, i), col)
	}
}

// CheckTelecoms validates each contact point.
func CheckTelecoms(cps []ContactPoint, path string, col *issue.Collector) {
	for i, c := range cps {
		c.Check(issue.Index(path, i), col)
	}
}

// CheckAddresses validates each address.
func CheckAddresses(addrs []Address, path string, col *issue.Collector) {
	for i, a := range addrs {
		a.Check(issue.Index(path, i), col)
	}
}

// CheckPeriod validates an optional period.
func CheckPeriod(p *Period, path string, col *issue.Collector) {
	checkPeriod(p, path, col)
}
