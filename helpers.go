package b64upload

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strings"

	"github.com/getlantern/errors"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartBody writes the form fields in key order followed by the file part.
// It returns the body and its content type.
func multipartBody(fields map[string]string, file *uploadFile) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := w.WriteField(key, fields[key]); err != nil {
			return nil, "", errors.New("unable to write form field %v: %v", key, err)
		}
	}

	// multipart.Writer.CreateFormFile always sends application/octet-stream
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(file.fieldName), quoteEscaper.Replace(file.name)))
	header.Set("Content-Type", file.contentType)
	fw, err := w.CreatePart(header)
	if err != nil {
		return nil, "", errors.New("unable to create file part: %v", err)
	}
	if _, err := fw.Write(file.data); err != nil {
		return nil, "", errors.New("unable to write file part: %v", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.New("unable to close multipart body: %v", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// postMultipart performs the upload request and reads the whole response body.
// Only failures to get a response back are reported, the status code is left
// to the caller.
func (c *Client) postMultipart(ctx context.Context, opts *Options, file *uploadFile) (*http.Response, []byte, error) {
	body, contentType, err := multipartBody(opts.FormData, file)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, body)
	if err != nil {
		return nil, nil, badOptions("unable to create request for %v: %v", opts.URL, err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for headerKey, headerVal := range opts.Headers {
		req.Header.Set(headerKey, headerVal)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClientFor(ctx, opts).Do(req)
	if err != nil {
		return nil, nil, transportError(opts.URL, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, transportError(opts.URL, err)
	}
	return resp, bodyBytes, nil
}
