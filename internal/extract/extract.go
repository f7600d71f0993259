// Package extract turns uploaded resume files into plain text.
package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/yoockh/resumeats/internal/models"
	"github.com/yoockh/resumeats/internal/utils"
)

const (
	MimePDF  = "application/pdf"
	MimeText = "text/plain"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeDOC  = "application/msword"
)

var extByMime = map[string]string{
	MimePDF:  ".pdf",
	MimeText: ".txt",
	MimeDOCX: ".docx",
	MimeDOC:  ".doc",
}

var mimeByExt = map[string]string{
	".pdf":  MimePDF,
	".txt":  MimeText,
	".docx": MimeDOCX,
	".doc":  MimeDOC,
}

func init() {
	// pdfcpu otherwise writes a config dir under the user's home
	api.DisableConfigDir()
}

type Result struct {
	Text     string
	FileType string // pdf|txt|docx
	Pages    int
}

// ResolveContentType normalises the declared type, falling back to the file
// extension when the client sent a generic type.
func ResolveContentType(declared, fileName string) (string, error) {
	const op = "extract.ResolveContentType"

	mt := strings.ToLower(strings.TrimSpace(declared))
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		mt = parsed
	}
	if _, ok := extByMime[mt]; ok {
		return mt, nil
	}
	if mt == "" || mt == "application/octet-stream" || mt == "application/zip" {
		if byExt, ok := mimeByExt[strings.ToLower(filepath.Ext(fileName))]; ok {
			return byExt, nil
		}
	}
	return "", utils.E(utils.CodeUnsupportedFileType, op,
		"Invalid file type. Only PDF, DOC, DOCX, and TXT files are allowed.", nil)
}

// Ext is the temp-file suffix for a resolved content type.
func Ext(contentType string) string {
	return extByMime[contentType]
}

// FileType reports the stored file type. Legacy Word is grouped with docx.
func FileType(contentType string) string {
	switch contentType {
	case MimePDF:
		return models.FileTypePDF
	case MimeText:
		return models.FileTypeTXT
	default:
		return models.FileTypeDOCX
	}
}

// FromFile extracts the text of a spooled upload.
func FromFile(ctx context.Context, path, contentType string) (Result, error) {
	const op = "extract.FromFile"

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	res := Result{FileType: FileType(contentType)}
	var err error
	switch contentType {
	case MimePDF:
		res.Text, res.Pages, err = extractPDF(path)
	case MimeDOCX:
		res.Text, err = extractDOCX(path)
	case MimeDOC:
		res.Text, err = extractDOC(path)
	case MimeText:
		var b []byte
		b, err = os.ReadFile(path)
		res.Text = strings.ToValidUTF8(string(b), "")
	default:
		return Result{}, utils.E(utils.CodeUnsupportedFileType, op, "unsupported file type", nil)
	}
	if err != nil {
		return Result{}, utils.E(utils.CodeParse, op, parseHint(contentType), err)
	}

	if strings.TrimSpace(res.Text) == "" {
		msg := "No text content found in file"
		if contentType == MimePDF && res.Pages > 0 {
			msg += ". The PDF may be scanned or image-based."
		}
		return Result{}, utils.E(utils.CodeParse, op, msg, nil)
	}
	return res, nil
}

func parseHint(contentType string) string {
	switch contentType {
	case MimePDF:
		return "Could not read the PDF. It may be corrupted, encrypted, or image-based."
	case MimeDOCX, MimeDOC:
		return "Could not read the Word document. Try saving it again or upload a PDF."
	default:
		return "Could not read the file."
	}
}

func extractPDF(path string) (text string, pages int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, err
	}

	// page count only feeds the scanned-document hint
	if n, perr := api.PageCount(bytes.NewReader(data), nil); perr == nil {
		pages = n
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", pages, err
	}
	if pages == 0 {
		pages = reader.NumPage()
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", pages, err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", pages, err
	}
	return buf.String(), pages, nil
}

func extractDOCX(path string) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	return stripDocxXML(r.Editable().GetContent())
}

func extractDOC(path string) (string, error) {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return "", err
	}
	return res.Body, nil
}

func stripDocxXML(raw string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.StartElement:
			if t.Name.Local == "tab" {
				buf.WriteByte('\t')
			}
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteByte('\n')
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}
