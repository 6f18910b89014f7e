package datatype

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/gofhir/model/pkg/issue"
	"github.com/gofhir/model/pkg/primitive"
	"github.com/gofhir/model/pkg/structural"
	"github.com/gofhir/model/pkg/terminology"
)

// Resource is implemented by every resource type of this module. It can only
// be satisfied by types embedding DomainResource.
type Resource interface {
	ResourceType() string
	ID() string
	// Check validates the whole resource, returning binding warnings and,
	// on failure, every error found.
	Check() ([]issue.Issue, error)
	domainResource() *DomainResource
}

// DomainResource is the base of all resources. The logical id is assigned
// once, by a constructor or by decoding, and cannot be changed afterwards.
type DomainResource struct {
	id                string
	Meta              *Meta             `json:"meta,omitempty"`
	ImplicitRules     string            `json:"implicitRules,omitempty"`
	Language          string            `json:"language,omitempty"`
	Text              *Narrative        `json:"text,omitempty"`
	Contained         []json.RawMessage `json:"contained,omitempty"`
	Extension         []Extension       `json:"extension,omitempty"`
	ModifierExtension []Extension       `json:"modifierExtension,omitempty"`
}

// NewDomainResource returns a base with the given id, or a generated UUID
// when id is empty.
func NewDomainResource(id string) (DomainResource, error) {
	if id == "" {
		return DomainResource{id: NewID()}, nil
	}
	if !primitive.ValidID(id) {
		return DomainResource{}, issue.Format("id", primitive.TypeID, id)
	}
	return DomainResource{id: id}, nil
}

// NewID returns a random logical id.
func NewID() string {
	return uuid.NewString()
}

// ID returns the logical id.
func (d DomainResource) ID() string { return d.id }

func (d *DomainResource) domainResource() *DomainResource { return d }

// CheckBase validates the DomainResource elements of a resource of type rt.
func (d *DomainResource) CheckBase(rt string, col *issue.Collector) {
	if d.id != "" && !primitive.ValidID(d.id) {
		col.Add(issue.Format(rt+".id", primitive.TypeID, d.id))
	}
	if d.Meta != nil {
		d.Meta.Check(rt+".meta", col)
	}
	CheckURI(d.ImplicitRules, rt+".implicitRules", col)
	CheckCode(terminology.Language, d.Language, rt+".language", col)
	if d.Text != nil {
		d.Text.Check(rt+".text", col)
	}
	for i, raw := range d.Contained {
		checkContained(raw, issue.Index(rt+".contained", i), col)
	}
	CheckExtensions(d.Extension, rt+".extension", col)
	CheckExtensions(d.ModifierExtension, rt+".modifierExtension", col)
}

// checkContained enforces that a contained resource has a type and an id,
// and carries neither nested contained resources nor version metadata.
func checkContained(raw json.RawMessage, path string, col *issue.Collector) {
	var head struct {
		ResourceType string            `json:"resourceType"`
		ID           string            `json:"id"`
		Contained    []json.RawMessage `json:"contained"`
		Meta         *struct {
			VersionID   string `json:"versionId"`
			LastUpdated string `json:"lastUpdated"`
		} `json:"meta"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		col.Add(issue.JSONType(path, "Resource", "object"))
		return
	}
	if head.ResourceType == "" {
		col.Add(issue.Required(issue.Join(path, "resourceType")))
	}
	if head.ID == "" {
		col.Add(issue.Required(issue.Join(path, "id")))
	}
	if len(head.Contained) > 0 {
		col.Add(issue.Invariant(path, "Contained resources must not contain other resources"))
	}
	if head.Meta != nil && (head.Meta.VersionID != "" || head.Meta.LastUpdated != "") {
		col.Add(issue.Invariant(path, "Contained resources must not have meta.versionId or meta.lastUpdated"))
	}
}

// MarshalResource encodes body with resourceType and id prepended. body is
// the resource converted to a method-less type so that its own MarshalJSON
// does not recurse.
func MarshalResource(r Resource, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(`{"resourceType":`)
	rt, _ := json.Marshal(r.ResourceType())
	buf.Write(rt)
	if id := r.ID(); id != "" {
		buf.WriteString(`,"id":`)
		idJSON, _ := json.Marshal(id)
		buf.Write(idJSON)
	}
	if len(payload) > 2 {
		buf.WriteByte(',')
		buf.Write(payload[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

// UnmarshalResource decodes data into body, checking resourceType and
// assigning the id of r. Properties body has no element for are rejected,
// including "_element" primitive extensions.
func UnmarshalResource(data []byte, r Resource, body any) error {
	var head struct {
		ResourceType string  `json:"resourceType"`
		ID           *string `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return issue.Decoding(err)
	}
	if head.ResourceType != r.ResourceType() {
		return issue.ResourceType(r.ResourceType(), head.ResourceType)
	}
	if err := json.Unmarshal(data, body); err != nil {
		return issue.Decoding(err)
	}
	if err := structural.Check(data, body, r.ResourceType()); err != nil {
		return err
	}
	d := r.domainResource()
	d.id = ""
	if head.ID != nil {
		if !primitive.ValidID(*head.ID) {
			return issue.Format(r.ResourceType()+".id", primitive.TypeID, *head.ID)
		}
		d.id = *head.ID
	}
	return nil
}
