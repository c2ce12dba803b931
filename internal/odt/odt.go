// Package odt reads and writes OpenDocument text files (.odt) and exposes
// the paragraphs and tables of their content.xml as an etree tree.
package odt

import (
	"archive/zip"
	"bytes"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/beevik/etree"
	"github.com/google/renameio"
)

const (
	mimetypeName = "mimetype"
	contentName  = "content.xml"
	mimetypeText = "application/vnd.oasis.opendocument.text"
)

type member struct {
	name     string
	method   uint16
	modified time.Time
	data     []byte
}

// Document is an .odt package held in memory. Only content.xml is parsed;
// every other member is written back unchanged by Save, with its
// compression method and modification time.
type Document struct {
	Content *etree.Document

	members []member
}

// Open reads the .odt package at path.
func Open(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Read(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Read parses an .odt package from its bytes.
func Read(b []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	doc := &Document{}
	for _, f := range zr.File {
		data, err := readMember(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		if f.Name == contentName {
			content := etree.NewDocument()
			if err := content.ReadFromBytes(data); err != nil {
				return nil, fmt.Errorf("parse %s: %w", contentName, err)
			}
			doc.Content = content
		}
		doc.members = append(doc.members, member{
			name:     f.Name,
			method:   f.Method,
			modified: f.Modified,
			data:     data,
		})
	}
	if doc.Content == nil {
		return nil, fmt.Errorf("%s not found in archive", contentName)
	}
	return doc, nil
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Bytes serializes the package. The mimetype member is written first and
// uncompressed, as ODF requires.
func (d *Document) Bytes() ([]byte, error) {
	content, err := d.Content.WriteToBytes()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	mimetype := member{name: mimetypeName, data: []byte(mimetypeText)}
	for _, m := range d.members {
		if m.name == mimetypeName {
			mimetype = m
		}
	}
	if err := writeStored(zw, mimetype); err != nil {
		return nil, err
	}
	for _, m := range d.members {
		if m.name == mimetypeName {
			continue
		}
		data := m.data
		if m.name == contentName {
			data = content
		}
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     m.name,
			Method:   m.method,
			Modified: m.modified,
		})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeStored writes m without compression and without a trailing data
// descriptor, so the member's bytes sit at a fixed offset.
func writeStored(zw *zip.Writer, m member) error {
	fh := &zip.FileHeader{
		Name:               m.name,
		Method:             zip.Store,
		CRC32:              crc32.ChecksumIEEE(m.data),
		CompressedSize64:   uint64(len(m.data)),
		UncompressedSize64: uint64(len(m.data)),
	}
	// CreateRaw ignores Modified and takes the MS-DOS fields as they are.
	if !m.modified.IsZero() {
		fh.SetModTime(m.modified)
	}
	w, err := zw.CreateRaw(fh)
	if err != nil {
		return err
	}
	_, err = w.Write(m.data)
	return err
}

// Save atomically writes the package to path, replacing any existing file.
func (d *Document) Save(path string) error {
	b, err := d.Bytes()
	if err != nil {
		return err
	}
	out, err := renameio.TempFile(filepath.Dir(path), path)
	if err != nil {
		return err
	}
	defer out.Cleanup()
	if _, err := out.Write(b); err != nil {
		return err
	}
	return out.CloseAtomicallyReplace()
}
