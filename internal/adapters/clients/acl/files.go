package acl

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/jsamuelsen/lexoffice-gateway/internal/adapters/clients"
	"github.com/jsamuelsen/lexoffice-gateway/internal/domain"
)

const (
	filesPath = "/files"

	// voucherFileType is the multipart "type" field Lexoffice expects for voucher documents.
	voucherFileType = "voucher"

	defaultAttachmentName = "document.pdf"
)

// DownloadFile reads a rendered document; found is false when it does not exist.
func (l *Lexoffice) DownloadFile(ctx context.Context, id uuid.UUID) (*domain.File, bool, error) {
	resp, err := l.coord.Execute(ctx, clients.Request{
		Method: http.MethodGet,
		Path:   filesPath + "/" + id.String(),
		Accept: "*/*",
	})
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, false, nil
		}

		return nil, false, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mimetype.Detect(resp.Body).String()
	}

	return &domain.File{
		Content:     resp.Body,
		ContentType: contentType,
		Filename:    attachmentName(resp.Header.Get("Content-Disposition")),
	}, true, nil
}

// AttachFile uploads a PDF to a voucher. Content that is not a PDF is
// rejected before any request is made.
func (l *Lexoffice) AttachFile(ctx context.Context, voucherID uuid.UUID, filename string, content []byte) (*domain.FileReference, error) {
	if err := domain.ValidateAttachment(content); err != nil {
		return nil, err
	}

	body, contentType, err := voucherFileForm(filename, content)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindUnexpected, Detail: "building upload form", Err: err}
	}

	resp, err := l.coord.Execute(ctx, clients.Request{
		Method:      http.MethodPost,
		Path:        vouchersPath + "/" + voucherID.String() + filesPath,
		Body:        body,
		ContentType: contentType,
	})
	if err != nil {
		return nil, err
	}

	return DecodeResponse[domain.FileReference](resp)
}

// voucherFileForm encodes the multipart body for POST /vouchers/{id}/files.
func voucherFileForm(filename string, content []byte) ([]byte, string, error) {
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == "/" {
		filename = defaultAttachmentName
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     "file",
		"filename": filename,
	}))
	header.Set("Content-Type", domain.ContentTypePDF)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("creating file part: %w", err)
	}

	if _, err := part.Write(content); err != nil {
		return nil, "", fmt.Errorf("writing file part: %w", err)
	}

	if err := w.WriteField("type", voucherFileType); err != nil {
		return nil, "", fmt.Errorf("writing type field: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing form: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

// attachmentName extracts the filename from a Content-Disposition header.
func attachmentName(disposition string) string {
	if disposition == "" {
		return ""
	}

	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}

	return params["filename"]
}
