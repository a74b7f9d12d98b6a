package b64upload

import (
	"encoding/base64"
	"mime"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/h2non/filetype"
)

const (
	defaultFileKey  = "file"
	defaultBaseName = "file"
)

var (
	dataURIRegExp = regexp.MustCompile(`(?s)^data:([A-Za-z+/-]+);base64,(.+)$`)

	// tried in order, the first one that decodes the payload wins
	base64Encodings = []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
)

// DecodeDataURI decodes a percent encoded data:<mime-type>;base64,<payload> string
func DecodeDataURI(v string) (*DecodedImage, error) {
	unescaped, err := url.PathUnescape(v)
	if err != nil {
		return nil, invalidInput("unable to percent-decode data uri: %v", err)
	}

	matches := dataURIRegExp.FindStringSubmatch(unescaped)
	if len(matches) != 3 {
		return nil, invalidInput("should match %v", dataURIRegExp.String())
	}

	payload := stripWhitespace(matches[2])
	if payload == "" {
		return nil, invalidInput("empty base64 payload")
	}
	data, err := decodeBase64(payload)
	if err != nil {
		return nil, invalidInput("not a base64 encoded payload: %v", err)
	}

	return &DecodedImage{
		MIMEType:  matches[1],
		Extension: extensionOf(matches[1]),
		Data:      data,
	}, nil
}

// stripWhitespace drops ASCII whitespace, which base64 payloads may be
// wrapped or padded with
func stripWhitespace(payload string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			return -1
		}
		return r
	}, payload)
}

func decodeBase64(payload string) ([]byte, error) {
	var firstErr error
	for _, enc := range base64Encodings {
		data, err := enc.DecodeString(payload)
		if err == nil {
			return data, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

// extensionOf returns the subtype of a mime type, image/png gives png
func extensionOf(mimeType string) string {
	parts := strings.Split(mimeType, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// sniffContentType try to detect the mime type and extension of a buffer
// from its file signature
func sniffContentType(buffer []byte) (bool, string, string) {
	kind, err := filetype.Match(buffer)
	if err != nil || kind.MIME.Value == "" {
		return false, "", ""
	}
	return true, kind.MIME.Value, kind.Extension
}

func fileName(extension string) string {
	if extension == "" {
		return defaultBaseName
	}
	return defaultBaseName + "." + extension
}

// resolveUploadFile picks the field name, file name and content type of the
// file part. Sniffing only happens when the caller gave neither a file name
// nor a content type, and falls back to the declared mime type.
func resolveUploadFile(img *DecodedImage, opts *Options) *uploadFile {
	file := &uploadFile{
		fieldName:   opts.FileKey,
		name:        opts.Filename,
		contentType: opts.ContentType,
		data:        img.Data,
	}
	if file.fieldName == "" {
		file.fieldName = defaultFileKey
	}
	if file.name == "" {
		file.name = opts.Key
	}

	switch {
	case file.name == "" && file.contentType == "":
		if ok, contentType, extension := sniffContentType(img.Data); ok {
			file.contentType = contentType
			file.name = fileName(extension)
		} else {
			file.contentType = img.MIMEType
			file.name = fileName(img.Extension)
		}
	case file.contentType == "":
		file.contentType = mime.TypeByExtension(filepath.Ext(file.name))
		if file.contentType == "" {
			file.contentType = img.MIMEType
		}
	case file.name == "":
		file.name = fileName(img.Extension)
	}

	return file
}
