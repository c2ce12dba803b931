package odt

import "github.com/beevik/etree"

var namespaces = map[string]string{
	"style": "urn:oasis:names:tc:opendocument:xmlns:style:1.0",
	"fo":    "urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0",
}

func (d *Document) automaticStyles() *etree.Element {
	root := d.Content.Root()
	if st := root.SelectElement("office:automatic-styles"); st != nil {
		return st
	}
	st := etree.NewElement("office:automatic-styles")
	idx := len(root.Child)
	if b := root.SelectElement("office:body"); b != nil {
		idx = b.Index()
	}
	root.InsertChildAt(idx, st)
	return st
}

func findStyle(styles *etree.Element, name string) *etree.Element {
	for _, s := range styles.SelectElements("style:style") {
		if s.SelectAttrValue("style:name", "") == name {
			return s
		}
	}
	return nil
}

// CenteredStyle returns the name of an automatic paragraph style that looks
// like base but is center aligned, adding it to the document when needed.
// base may be empty, a common style or an automatic style.
func (d *Document) CenteredStyle(base string) string {
	root := d.Content.Root()
	for prefix, uri := range namespaces {
		if root.SelectAttr("xmlns:"+prefix) == nil {
			root.CreateAttr("xmlns:"+prefix, uri)
		}
	}

	styles := d.automaticStyles()
	name := "PernoiteCentro"
	if base != "" {
		name = base + "_Centro"
	}
	if findStyle(styles, name) != nil {
		return name
	}

	var st *etree.Element
	if auto := findStyle(styles, base); auto != nil {
		st = auto.Copy()
		st.CreateAttr("style:name", name)
	} else {
		parent := base
		if parent == "" {
			parent = "Standard"
		}
		st = etree.NewElement("style:style")
		st.CreateAttr("style:name", name)
		st.CreateAttr("style:family", "paragraph")
		st.CreateAttr("style:parent-style-name", parent)
	}
	pp := st.SelectElement("style:paragraph-properties")
	if pp == nil {
		pp = etree.NewElement("style:paragraph-properties")
		st.InsertChildAt(0, pp)
	}
	pp.CreateAttr("fo:text-align", "center")
	styles.AddChild(st)
	return name
}
