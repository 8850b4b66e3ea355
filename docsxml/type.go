package docsxml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Type is Docs XML file describing single type and its members.
type Type struct {
	Docs
	doc     *Document
	root    *etree.Element
	members []*Member
	changed bool
}

// Member is the "Member" element of Docs XML type file.
type Member struct {
	Docs
	el    *etree.Element
	owner *Type
}

var (
	errNoRoot      = errors.New("document does not have a root element")
	errNamespace   = errors.New("namespace file should have been filtered already")
	errNoChildren  = errors.New("type element does not have any children")
	errDocsMissing = errors.New("type element must have exactly one Docs child")
)

// NewType checks document structure and builds type over it.
func NewType(doc *Document) (*Type, error) {
	root := doc.Root()
	switch {
	case root == nil:
		return nil, errNoRoot
	case root.Tag == "Namespace":
		return nil, errNamespace
	case root.Tag != "Type":
		return nil, fmt.Errorf("document does not have a 'Type' root element, got %q", root.Tag)
	case len(root.ChildElements()) == 0:
		return nil, errNoChildren
	case len(root.SelectElements("Docs")) != 1:
		return nil, errDocsMissing
	}

	t := &Type{doc: doc, root: root}
	t.Docs = Docs{el: root.SelectElement("Docs"), owner: t}
	if members := root.SelectElement("Members"); members != nil {
		for _, el := range members.SelectElements("Member") {
			m := &Member{el: el, owner: t}
			docs := el.SelectElement("Docs")
			if docs == nil {
				docs = etree.NewElement("Docs")
				insertAfter(el, lastChild(el), docs)
			}
			m.Docs = Docs{el: docs, owner: t}
			t.members = append(t.members, m)
		}
	}
	return t, nil
}

func lastChild(el *etree.Element) *etree.Element {
	kids := el.ChildElements()
	if len(kids) == 0 {
		return nil
	}
	return kids[len(kids)-1]
}

func docID(el *etree.Element, signature string) string {
	for _, sig := range el.SelectElements(signature) {
		if sig.SelectAttrValue("Language", "") == "DocId" {
			return strings.TrimSpace(sig.SelectAttrValue("Value", ""))
		}
	}
	return ""
}

func childText(el *etree.Element, path ...string) string {
	for _, p := range path {
		if el = el.SelectElement(p); el == nil {
			return ""
		}
	}
	return strings.TrimSpace(el.Text())
}

func names(el *etree.Element, list, item string) []string {
	var res []string
	if l := el.SelectElement(list); l != nil {
		for _, i := range l.SelectElements(item) {
			res = append(res, i.SelectAttrValue("Name", ""))
		}
	}
	return res
}

func assemblies(el *etree.Element) []string {
	var res []string
	for _, ai := range el.SelectElements("AssemblyInfo") {
		for _, an := range ai.SelectElements("AssemblyName") {
			if name := strings.TrimSpace(an.Text()); len(name) > 0 {
				res = append(res, name)
			}
		}
	}
	return res
}

func (t *Type) Document() *Document { return t.doc }
func (t *Type) FilePath() string    { return t.doc.Path() }
func (t *Type) DocID() string       { return docID(t.root, "TypeSignature") }
func (t *Type) Name() string        { return t.root.SelectAttrValue("Name", "") }
func (t *Type) FullName() string    { return t.root.SelectAttrValue("FullName", "") }
func (t *Type) Members() []*Member  { return t.members }
func (t *Type) Changed() bool       { return t.changed }

// Assemblies returns names of all assemblies type is shipped in.
func (t *Type) Assemblies() []string { return assemblies(t.root) }

// Namespace is full name without the type name.
func (t *Type) Namespace() string {
	full, name := t.FullName(), t.Name()
	if ns, ok := strings.CutSuffix(full, "."+name); ok {
		return ns
	}
	if i := strings.LastIndexByte(full, '.'); i >= 0 {
		return full[:i]
	}
	return ""
}

// IsInterface uses naming convention: "I" followed by uppercase letter.
func (t *Type) IsInterface() bool {
	return IsInterfaceName(t.Name())
}

// IsInterfaceName reports if name looks like interface name.
func IsInterfaceName(name string) bool {
	return len(name) >= 2 && name[0] == 'I' && name[1] >= 'A' && name[1] <= 'Z'
}

// TypeParamNames returns declared type parameters.
func (t *Type) TypeParamNames() []string { return names(t.root, "TypeParameters", "TypeParameter") }

// ParamNames returns parameters of delegate types.
func (t *Type) ParamNames() []string { return names(t.root, "Parameters", "Parameter") }

// ReturnType returns return type of delegate types.
func (t *Type) ReturnType() string { return childText(t.root, "ReturnValue", "ReturnType") }

func (m *Member) Type() *Type              { return m.owner }
func (m *Member) DocID() string            { return docID(m.el, "MemberSignature") }
func (m *Member) Name() string             { return m.el.SelectAttrValue("MemberName", "") }
func (m *Member) MemberType() string       { return childText(m.el, "MemberType") }
func (m *Member) ReturnType() string       { return childText(m.el, "ReturnValue", "ReturnType") }
func (m *Member) TypeParamNames() []string { return names(m.el, "TypeParameters", "TypeParameter") }
func (m *Member) ParamNames() []string     { return names(m.el, "Parameters", "Parameter") }
func (m *Member) IsProperty() bool         { return m.MemberType() == "Property" }

// Implements returns documentation ids of interface members explicitly
// implemented by the member.
func (m *Member) Implements() []string {
	var res []string
	if impl := m.el.SelectElement("Implements"); impl != nil {
		for _, im := range impl.SelectElements("InterfaceMember") {
			if id := strings.TrimSpace(im.Text()); len(id) > 0 {
				res = append(res, id)
			}
		}
	}
	return res
}
