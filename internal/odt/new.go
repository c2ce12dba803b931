package odt

import (
	"archive/zip"
	"fmt"
	"time"

	"github.com/beevik/etree"
)

const contentTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0" xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0" office:version="1.3"><office:automatic-styles/><office:body><office:text>%s</office:text></office:body></office:document-content>`

const manifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.3">
 <manifest:file-entry manifest:full-path="/" manifest:version="1.3" manifest:media-type="application/vnd.oasis.opendocument.text"/>
 <manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>
</manifest:manifest>
`

// New returns a minimal text document whose office:text element holds
// body, an XML fragment using the office, style, text, table and fo
// prefixes.
func New(body string) (*Document, error) {
	content := etree.NewDocument()
	if err := content.ReadFromString(fmt.Sprintf(contentTemplate, body)); err != nil {
		return nil, fmt.Errorf("parse body: %w", err)
	}
	now := time.Now()
	return &Document{
		Content: content,
		members: []member{
			{name: mimetypeName, method: zip.Store, modified: now, data: []byte(mimetypeText)},
			{name: "META-INF/manifest.xml", method: zip.Deflate, modified: now, data: []byte(manifest)},
			{name: contentName, method: zip.Deflate, modified: now},
		},
	}, nil
}
