// Package b64upload uploads base64 data URIs to http endpoints as multipart
// form files.
package b64upload

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/getlantern/golog"
	"github.com/tidwall/gjson"
)

const (
	// codes of the reply synthesized when the server does not answer with json
	fallbackCode = "n11"
	fallbackMsg  = "server error"
)

var (
	log = golog.LoggerFor("b64upload")

	// DefaultClient is used by the package level Upload and UploadAsync
	DefaultClient = NewClient(nil)
)

// Client uploads data URIs
type Client struct {
	// HTTPClient sends the requests, a client with Timeout is created when nil
	HTTPClient *http.Client
	// Timeout of a whole upload, used when HTTPClient is nil. Zero means no timeout.
	Timeout   time.Duration
	UserAgent string
	// URL and FileKey are used for uploads that don't set their own
	URL     string
	FileKey string
}

// NewClient creates a client from cfg, cfg may be nil
func NewClient(cfg *Config) *Client {
	if cfg == nil {
		return &Client{}
	}
	return &Client{
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
		URL:       cfg.URL,
		FileKey:   cfg.FileKey,
	}
}

// Upload decodes dataURI and posts it to opts.URL. Invalid input and options
// are reported before anything is sent. Once a response came back the error
// is nil, whatever its status code, and the reply holds the parsed body.
func (c *Client) Upload(ctx context.Context, dataURI string, opts *Options) (*Reply, *http.Response, error) {
	prepared, file, err := c.prepare(dataURI, opts)
	if err != nil {
		return nil, nil, err
	}
	return c.send(ctx, prepared, file)
}

// UploadAsync is like Upload but sends the request on its own goroutine and
// hands the outcome to callback. Errors in dataURI or opts are returned right
// away and callback is not called. When UploadAsync returns nil callback is
// called exactly once.
func (c *Client) UploadAsync(ctx context.Context, dataURI string, opts *Options, callback Callback) error {
	if callback == nil {
		return badOptions("missing callback")
	}
	prepared, file, err := c.prepare(dataURI, opts)
	if err != nil {
		return err
	}
	go func() {
		callback(c.send(ctx, prepared, file))
	}()
	return nil
}

// prepare decodes the data URI, validates a copy of opts with the client
// defaults applied and resolves the file part
func (c *Client) prepare(dataURI string, opts *Options) (*Options, *uploadFile, error) {
	img, err := DecodeDataURI(dataURI)
	if err != nil {
		return nil, nil, err
	}

	prepared := &Options{}
	if opts != nil {
		*prepared = *opts
	}
	if prepared.URL == "" {
		prepared.URL = c.URL
	}
	if prepared.FileKey == "" {
		prepared.FileKey = c.FileKey
	}

	if prepared.URL == "" {
		return nil, nil, ErrMissingURL
	}
	if !govalidator.IsURL(prepared.URL) || !govalidator.IsRequestURL(prepared.URL) {
		return nil, nil, badOptions("%s is not an valid url", prepared.URL)
	}
	if u, err := url.Parse(prepared.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, nil, badOptions("%s is not an http(s) url", prepared.URL)
	}
	if prepared.Size > 0 && int64(len(img.Data)) != prepared.Size {
		return nil, nil, invalidInput("decoded %d bytes, expected %d", len(img.Data), prepared.Size)
	}

	return prepared, resolveUploadFile(img, prepared), nil
}

func (c *Client) send(ctx context.Context, opts *Options, file *uploadFile) (*Reply, *http.Response, error) {
	log.Debugf("Uploading %d bytes as %v (%v) to %v", len(file.data), file.name, file.contentType, opts.URL)

	resp, body, err := c.postMultipart(ctx, opts, file)
	if err != nil {
		log.Errorf("unable to upload %v: %v", file.name, err)
		return nil, resp, err
	}
	return parseReply(body), resp, nil
}

// parseReply reads the json reply of the server. Anything that isn't json
// becomes the generic server error reply.
func parseReply(body []byte) *Reply {
	if !gjson.ValidBytes(body) {
		log.Debugf("reply is not json, raw response : %s", body)
		return fallbackReply(body)
	}

	result := gjson.ParseBytes(body)
	reply := &Reply{
		Hash: result.Get("hash").String(),
		Key:  result.Get("key").String(),
		URL:  result.Get("url").String(),
		Code: result.Get("code").String(),
		Msg:  result.Get("msg").String(),
		Raw:  body,
	}
	if data := result.Get("data"); data.IsObject() {
		reply.Data, _ = data.Value().(map[string]interface{})
	}
	return reply
}

func fallbackReply(body []byte) *Reply {
	return &Reply{
		Code: fallbackCode,
		Msg:  fallbackMsg,
		Data: map[string]interface{}{},
		Raw:  body,
	}
}

// Upload uploads dataURI with DefaultClient
func Upload(ctx context.Context, dataURI string, opts *Options) (*Reply, *http.Response, error) {
	return DefaultClient.Upload(ctx, dataURI, opts)
}

// UploadAsync uploads dataURI with DefaultClient in the background
func UploadAsync(ctx context.Context, dataURI string, opts *Options, callback Callback) error {
	return DefaultClient.UploadAsync(ctx, dataURI, opts, callback)
}
