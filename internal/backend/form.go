package backend

import (
	"bytes"
	"io"
	"mime/multipart"
)

// ImageUpload is a new image picked by the operator. Existing images are
// referenced by URL instead.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// Form is a multipart body. Field order is kept as added.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	name  string
	image ImageUpload
}

func NewForm() *Form { return &Form{} }

func (f *Form) Field(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

func (f *Form) File(name string, img ImageUpload) *Form {
	f.files = append(f.files, formFile{name: name, image: img})
	return f
}

func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.name, file.image.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.image.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
