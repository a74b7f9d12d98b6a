package b64upload

import (
	"net/http"

	"golang.org/x/oauth2"
)

// DecodedImage contains the content of a data URI after decoding
type DecodedImage struct {
	MIMEType  string // declared mime type, e.g. image/png
	Extension string // part of the mime type after the slash, e.g. png
	Data      []byte // decoded payload
}

// Options configures a single upload
type Options struct {
	// URL is the destination endpoint, required
	URL string
	// Key identifies the file on the remote side. It is used as the filename
	// when Filename is empty.
	Key string
	// FileKey is the form field name of the file part, "file" when empty
	FileKey  string
	Filename string
	// ContentType of the file part. When both ContentType and Filename are
	// empty they are guessed from the content.
	ContentType string
	// Size is the expected size of the decoded content, ignored when zero
	Size int64
	// FormData is written as plain form fields before the file part
	FormData map[string]string
	// Headers are added to the outgoing request as is
	Headers map[string]string
	// TokenSource, when set, authorizes the request with its tokens
	TokenSource oauth2.TokenSource
}

// Reply is the server reply of an upload
type Reply struct {
	Hash string                 `json:"hash,omitempty"`
	Key  string                 `json:"key,omitempty"`
	URL  string                 `json:"url,omitempty"`
	Code string                 `json:"code,omitempty"`
	Msg  string                 `json:"msg,omitempty"`
	Data map[string]interface{} `json:"data,omitempty"`
	Raw  []byte                 `json:"-"` // the response body
}

// Callback receives the outcome of an asynchronous upload. Exactly one of
// reply and err is non nil.
type Callback func(reply *Reply, resp *http.Response, err error)

// uploadFile contains the multipart file part after name and type resolution
type uploadFile struct {
	fieldName   string
	name        string
	contentType string
	data        []byte
}
